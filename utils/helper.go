package utils

import (
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeKey uppercases and trims a join key the same way the upstream
// tables normalize theirs, so lookups survive casing and padding drift.
func NormalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// SplitList parses a comma-separated value into trimmed, non-empty items.
func SplitList(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

// FormatDate renders a nullable date for report cells. Empty when nil.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// DaysBetween returns whole calendar days from `from` to `to`, ignoring the
// time-of-day component on both ends. Negative when `from` is in the future.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
