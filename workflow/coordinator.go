package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/acmeops/backlog-alerts/config"
	"github.com/acmeops/backlog-alerts/models"
)

// Source supplies the two read-only tables of one run.
type Source interface {
	FetchBacklog(ctx context.Context) ([]models.BacklogRecord, error)
	FetchDirectory(ctx context.Context) (map[string]string, error)
}

// ReportWriter materializes a report into a tabular artifact for attachment.
type ReportWriter interface {
	Write(report Report) ([]byte, error)
}

// Dispatcher delivers one notification. Success means the sink confirmed
// the send attempt; nothing is assumed delivered otherwise.
type Dispatcher interface {
	Send(ctx context.Context, n *Notification) error
}

// DatabaseSource reads the source tables through the shared gorm handle.
type DatabaseSource struct{}

func (DatabaseSource) FetchBacklog(ctx context.Context) ([]models.BacklogRecord, error) {
	return models.FetchBacklogRecords(ctx)
}

func (DatabaseSource) FetchDirectory(ctx context.Context) (map[string]string, error) {
	return models.FetchUserDirectory(ctx)
}

// Run statuses reported in metrics.
const (
	StatusNoAction  = "no_action"
	StatusEmailSent = "email_sent"
)

// RunMetrics is the per-run audit record, logged as structured fields for
// the scheduled-job operator.
type RunMetrics struct {
	RunId           string `json:"run_id"`
	Status          string `json:"status"`
	FilteredRecords int    `json:"filtered_records"`
	ExcelRows       int    `json:"excel_rows"`
	Unresolved      int    `json:"unresolved"`
	Truncated       bool   `json:"truncated"`
	CostCenter      string `json:"cost_center"`
	SlaDays         int    `json:"sla_days"`
	Date            string `json:"date"`
}

// Coordinator sequences filter, resolution, assembly, composition and
// dispatch for one run. Runs are stateless and independent; everything
// built here is discarded after dispatch.
type Coordinator struct {
	Source     Source
	Writer     ReportWriter
	Dispatcher Dispatcher
	Settings   config.AlertSettings
	Logger     *logrus.Logger
	Now        func() time.Time
}

func (c *Coordinator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Run executes one evaluation. Failure policy:
//   - a source read failure is fatal, no partial report;
//   - a per-record resolution gap is absorbed, the row stays flagged;
//   - a report write failure is fatal for this run's output;
//   - a dispatch failure is surfaced to the operator, not retried here.
//
// On error the returned metrics still describe how far the run got.
func (c *Coordinator) Run(ctx context.Context) (RunMetrics, error) {
	now := c.now()
	metrics := RunMetrics{
		RunId:      uuid.NewString(),
		Status:     StatusNoAction,
		CostCenter: c.Settings.CostCenter,
		SlaDays:    c.Settings.SlaDays,
		Date:       now.Format("2006-01-02"),
	}
	logger := c.Logger

	records, err := c.Source.FetchBacklog(ctx)
	if err != nil {
		config.LogError(logger, "workflow", "Run", "FetchBacklog", nil, err)
		return metrics, &SourceReadError{Err: err}
	}
	directory, err := c.Source.FetchDirectory(ctx)
	if err != nil {
		config.LogError(logger, "workflow", "Run", "FetchDirectory", nil, err)
		return metrics, &SourceReadError{Err: err}
	}

	filtered := FilterRecords(records, FilterConfig{
		FlagValue:      c.Settings.FlagValue,
		MinDaysPending: c.Settings.SlaDays,
		CostCenter:     c.Settings.CostCenter,
		ExcludedTasks:  c.Settings.ExcludedTasks,
	}, now)
	metrics.FilteredRecords = len(filtered)

	resolved := ResolveAll(filtered, directory, c.Settings.FallbackEmails)
	for _, rec := range resolved {
		if rec.Source == SourceUnresolved {
			metrics.Unresolved++
		}
	}

	report := AssembleReport(resolved, c.Settings.MaxRows, now)
	metrics.ExcelRows = len(report.Rows)
	metrics.Truncated = report.Truncated

	if report.Empty() {
		logger.WithField("run_id", metrics.RunId).Info("no pending documents matched; nothing sent")
		c.logMetrics(metrics)
		return metrics, nil
	}

	attachment, err := c.Writer.Write(report)
	if err != nil {
		config.LogError(logger, "workflow", "Run", "Writer.Write", metrics, err)
		return metrics, &ReportWriteError{Err: err}
	}

	notification := ComposeNotification(report, attachment, ComposeConfig{
		Label:      c.Settings.Label,
		CostCenter: c.Settings.CostCenter,
		SlaDays:    c.Settings.SlaDays,
		From:       c.Settings.SMTPUser,
		To:         c.Settings.EmailTo,
		Cc:         c.Settings.EmailCc,
	})

	if err := c.Dispatcher.Send(ctx, notification); err != nil {
		config.LogError(logger, "workflow", "Run", "Dispatcher.Send", metrics, err)
		return metrics, &DispatchError{Err: err}
	}

	metrics.Status = StatusEmailSent
	c.logMetrics(metrics)
	return metrics, nil
}

func (c *Coordinator) logMetrics(m RunMetrics) {
	c.Logger.WithFields(logrus.Fields{
		"run_id":           m.RunId,
		"status":           m.Status,
		"filtered_records": m.FilteredRecords,
		"excel_rows":       m.ExcelRows,
		"unresolved":       m.Unresolved,
		"truncated":        m.Truncated,
		"cost_center":      m.CostCenter,
		"sla_days":         m.SlaDays,
		"date":             m.Date,
	}).Info("alert run finished")
}
