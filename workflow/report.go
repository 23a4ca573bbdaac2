package workflow

import "time"

// Report is the bounded, ordered materialization of one run's resolved
// records. The cap protects this process from unbounded growth when the
// upstream query returns many rows; Truncated makes the cut observable.
type Report struct {
	Rows        []ResolvedRecord
	Truncated   bool
	GeneratedAt time.Time
}

func (r Report) Empty() bool {
	return len(r.Rows) == 0
}

// AssembleReport caps the resolved sequence at maxRows, preserving order.
// Truncated is true iff the input was longer than the cap. A non-positive
// cap is treated as "no cap"; callers validate their settings, this is the
// safety valve's own safety.
func AssembleReport(resolved []ResolvedRecord, maxRows int, now time.Time) Report {
	report := Report{GeneratedAt: now}
	if maxRows > 0 && len(resolved) > maxRows {
		report.Rows = append(report.Rows, resolved[:maxRows]...)
		report.Truncated = true
		return report
	}
	report.Rows = append(report.Rows, resolved...)
	return report
}
