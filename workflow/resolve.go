package workflow

import (
	"github.com/acmeops/backlog-alerts/models"
	"github.com/acmeops/backlog-alerts/utils"
)

// ResolutionSource tags where a record's notification address came from.
type ResolutionSource string

const (
	SourceDirectory  ResolutionSource = "directory"
	SourceFallback   ResolutionSource = "fallback"
	SourceUnresolved ResolutionSource = "unresolved"
)

// ResolvedRecord pairs a backlog record with exactly one resolved address.
// Email is empty when unresolved; such records stay in the report, flagged,
// never silently dropped.
type ResolvedRecord struct {
	models.BacklogRecord
	Email  string
	Source ResolutionSource
}

// ResolveEmail maps a record to its notification address. Directory truth
// takes priority; the area rule table exists only to cover directory gaps.
// A directory hit with a blank address counts as a gap. Deterministic: same
// (record, directory, fallback) always yields the same result.
func ResolveEmail(rec models.BacklogRecord, directory map[string]string, fallback map[string]string) ResolvedRecord {
	resolved := ResolvedRecord{BacklogRecord: rec}

	if email, ok := directory[utils.NormalizeKey(rec.RequestOwner)]; ok && !utils.IsBlank(email) {
		resolved.Email = email
		resolved.Source = SourceDirectory
		return resolved
	}

	if email, ok := fallback[utils.NormalizeKey(rec.ResponsibleArea)]; ok && !utils.IsBlank(email) {
		resolved.Email = email
		resolved.Source = SourceFallback
		return resolved
	}

	resolved.Source = SourceUnresolved
	return resolved
}

// ResolveAll enriches every record, preserving order.
func ResolveAll(records []models.BacklogRecord, directory map[string]string, fallback map[string]string) []ResolvedRecord {
	resolved := make([]ResolvedRecord, 0, len(records))
	for _, rec := range records {
		resolved = append(resolved, ResolveEmail(rec, directory, fallback))
	}
	return resolved
}
