package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/acmeops/backlog-alerts/config"
	"github.com/acmeops/backlog-alerts/models"
)

type fakeSource struct {
	records    []models.BacklogRecord
	directory  map[string]string
	backlogErr error
	dirErr     error
}

func (f *fakeSource) FetchBacklog(ctx context.Context) ([]models.BacklogRecord, error) {
	return f.records, f.backlogErr
}

func (f *fakeSource) FetchDirectory(ctx context.Context) (map[string]string, error) {
	return f.directory, f.dirErr
}

type fakeWriter struct {
	bytes []byte
	err   error
	calls int
	last  Report
}

func (f *fakeWriter) Write(report Report) ([]byte, error) {
	f.calls++
	f.last = report
	return f.bytes, f.err
}

type fakeDispatcher struct {
	err  error
	sent []*Notification
}

func (f *fakeDispatcher) Send(ctx context.Context, n *Notification) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

func testSettings() config.AlertSettings {
	return config.AlertSettings{
		Label:      "ACME",
		FlagValue:  "Pending",
		CostCenter: "D010",
		SlaDays:    15,
		MaxRows:    2000,
		FallbackEmails: map[string]string{
			"FINANCE_OPS": "finance.ops@example.com",
		},
		SMTPUser: "svc@example.com",
		EmailTo:  []string{"alerts@example.com"},
		EmailCc:  []string{"ops@example.com"},
	}
}

func testCoordinator(src Source, w ReportWriter, d Dispatcher) *Coordinator {
	return &Coordinator{
		Source:     src,
		Writer:     w,
		Dispatcher: d,
		Settings:   testSettings(),
		Logger:     config.GetLogger(),
		Now: func() time.Time {
			return time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
		},
	}
}

func eligibleRecord(id int, owner string, now time.Time) models.BacklogRecord {
	issue := now.AddDate(0, 0, -20)
	return models.BacklogRecord{
		DocumentId:      id,
		ProcessingFlag:  "Pending",
		CostCenter:      "D010",
		TaskName:        "Manual Review",
		RequestOwner:    owner,
		ResponsibleArea: "FINANCE_OPS",
		IssueDate:       &issue,
	}
}

func TestCoordinatorRun_DispatchesExactlyOnce(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{
		records:   []models.BacklogRecord{eligibleRecord(1, "jdoe", now)},
		directory: map[string]string{"JDOE": "j@x.com"},
	}
	writer := &fakeWriter{bytes: []byte("xlsx")}
	dispatcher := &fakeDispatcher{}

	metrics, err := testCoordinator(src, writer, dispatcher).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if metrics.Status != StatusEmailSent {
		t.Fatalf("expected status %s, got %s", StatusEmailSent, metrics.Status)
	}
	if metrics.FilteredRecords != 1 || metrics.ExcelRows != 1 || metrics.Unresolved != 0 {
		t.Fatalf("unexpected metrics %+v", metrics)
	}
	if len(dispatcher.sent) != 1 {
		t.Fatalf("expected exactly one dispatch, got %d", len(dispatcher.sent))
	}
	if writer.calls != 1 {
		t.Fatalf("expected one report write, got %d", writer.calls)
	}
	if dispatcher.sent[0].From != "svc@example.com" {
		t.Fatalf("expected sender svc@example.com, got %q", dispatcher.sent[0].From)
	}
}

func TestCoordinatorRun_NoMatchesMeansNoDispatch(t *testing.T) {
	src := &fakeSource{directory: map[string]string{}}
	writer := &fakeWriter{}
	dispatcher := &fakeDispatcher{}

	metrics, err := testCoordinator(src, writer, dispatcher).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if metrics.Status != StatusNoAction {
		t.Fatalf("expected status %s, got %s", StatusNoAction, metrics.Status)
	}
	if writer.calls != 0 {
		t.Fatalf("expected no report write, got %d", writer.calls)
	}
	if len(dispatcher.sent) != 0 {
		t.Fatalf("expected no dispatch, got %d", len(dispatcher.sent))
	}
}

func TestCoordinatorRun_SourceFailureIsFatal(t *testing.T) {
	src := &fakeSource{backlogErr: errors.New("warehouse offline")}
	writer := &fakeWriter{}
	dispatcher := &fakeDispatcher{}

	_, err := testCoordinator(src, writer, dispatcher).Run(context.Background())

	var srcErr *SourceReadError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected SourceReadError, got %v", err)
	}
	if writer.calls != 0 || len(dispatcher.sent) != 0 {
		t.Fatalf("expected no partial report or dispatch after source failure")
	}
}

func TestCoordinatorRun_DirectoryFailureIsFatal(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{
		records: []models.BacklogRecord{eligibleRecord(1, "jdoe", now)},
		dirErr:  errors.New("directory offline"),
	}

	_, err := testCoordinator(src, &fakeWriter{}, &fakeDispatcher{}).Run(context.Background())

	var srcErr *SourceReadError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected SourceReadError, got %v", err)
	}
}

func TestCoordinatorRun_ReportWriteFailureBlocksDispatch(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{
		records:   []models.BacklogRecord{eligibleRecord(1, "jdoe", now)},
		directory: map[string]string{"JDOE": "j@x.com"},
	}
	writer := &fakeWriter{err: errors.New("disk full")}
	dispatcher := &fakeDispatcher{}

	_, err := testCoordinator(src, writer, dispatcher).Run(context.Background())

	var writeErr *ReportWriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected ReportWriteError, got %v", err)
	}
	if len(dispatcher.sent) != 0 {
		t.Fatalf("expected no dispatch after report failure")
	}
}

func TestCoordinatorRun_DispatchFailureIsSurfaced(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{
		records:   []models.BacklogRecord{eligibleRecord(1, "jdoe", now)},
		directory: map[string]string{"JDOE": "j@x.com"},
	}
	dispatcher := &fakeDispatcher{err: errors.New("smtp 550")}

	metrics, err := testCoordinator(src, &fakeWriter{bytes: []byte("xlsx")}, dispatcher).Run(context.Background())

	var dispErr *DispatchError
	if !errors.As(err, &dispErr) {
		t.Fatalf("expected DispatchError, got %v", err)
	}
	if metrics.Status == StatusEmailSent {
		t.Fatalf("run must not claim delivery after a failed send")
	}
}

func TestCoordinatorRun_UnresolvedRecordsStillSent(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	ghost := eligibleRecord(2, "ghost", now)
	ghost.ResponsibleArea = "UNKNOWN_AREA"

	src := &fakeSource{
		records: []models.BacklogRecord{
			eligibleRecord(1, "jdoe", now),
			ghost,
		},
		directory: map[string]string{"JDOE": "j@x.com"},
	}
	writer := &fakeWriter{bytes: []byte("xlsx")}
	dispatcher := &fakeDispatcher{}

	metrics, err := testCoordinator(src, writer, dispatcher).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if metrics.Unresolved != 1 {
		t.Fatalf("expected 1 unresolved record, got %d", metrics.Unresolved)
	}
	if metrics.ExcelRows != 2 {
		t.Fatalf("unresolved record must be retained in the report, got %d rows", metrics.ExcelRows)
	}
	if writer.last.Rows[1].Source != SourceUnresolved || writer.last.Rows[1].Email != "" {
		t.Fatalf("expected flagged unresolved row, got %+v", writer.last.Rows[1])
	}
	if len(dispatcher.sent) != 1 {
		t.Fatalf("degraded run must still send, got %d dispatches", len(dispatcher.sent))
	}
}

func TestCoordinatorRun_TruncationObservableInMetrics(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	var records []models.BacklogRecord
	for i := 1; i <= 5; i++ {
		records = append(records, eligibleRecord(i, "jdoe", now))
	}
	src := &fakeSource{records: records, directory: map[string]string{"JDOE": "j@x.com"}}

	coordinator := testCoordinator(src, &fakeWriter{bytes: []byte("xlsx")}, &fakeDispatcher{})
	coordinator.Settings.MaxRows = 2

	metrics, err := coordinator.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if metrics.FilteredRecords != 5 || metrics.ExcelRows != 2 || !metrics.Truncated {
		t.Fatalf("expected 5 filtered, 2 excel rows, truncated; got %+v", metrics)
	}
}
