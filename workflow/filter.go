package workflow

import (
	"time"

	"github.com/acmeops/backlog-alerts/models"
	"github.com/acmeops/backlog-alerts/utils"
)

// FilterConfig holds the inclusion/exclusion predicates for one run.
type FilterConfig struct {
	FlagValue      string
	MinDaysPending int
	CostCenter     string
	ExcludedTasks  []string
}

// FilterRecords keeps the backlog rows that are overdue under this run's
// rules, preserving source order. Days pending is derived from the issue
// date and the run clock and written back onto the kept record, overriding
// whatever stale value the snapshot carried. Pure: no side effects on the
// input slice.
func FilterRecords(records []models.BacklogRecord, cfg FilterConfig, now time.Time) []models.BacklogRecord {
	excluded := make(map[string]bool, len(cfg.ExcludedTasks))
	for _, task := range cfg.ExcludedTasks {
		excluded[task] = true
	}

	var kept []models.BacklogRecord
	for _, rec := range records {
		if rec.ProcessingFlag != cfg.FlagValue {
			continue
		}
		if rec.CostCenter != cfg.CostCenter {
			continue
		}
		if excluded[rec.TaskName] {
			continue
		}
		if rec.IssueDate == nil || rec.IssueDate.IsZero() {
			continue
		}
		days := utils.DaysBetween(*rec.IssueDate, now)
		if days <= cfg.MinDaysPending {
			continue
		}
		rec.ProcessingDays = days
		kept = append(kept, rec)
	}
	return kept
}
