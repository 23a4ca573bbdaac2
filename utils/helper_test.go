package utils

import (
	"testing"
	"time"
)

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"jdoe", "JDOE"},
		{"  jDoe  ", "JDOE"},
		{"FINANCE_OPS", "FINANCE_OPS"},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := NormalizeKey(tc.in); got != tc.expected {
			t.Fatalf("NormalizeKey(%q) expected %q, got %q", tc.in, tc.expected, got)
		}
	}
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2026, 8, 1, 23, 59, 0, 0, time.UTC)
	to := time.Date(2026, 8, 20, 0, 1, 0, 0, time.UTC)

	if got := DaysBetween(from, to); got != 19 {
		t.Fatalf("expected 19 calendar days, got %d", got)
	}
	if got := DaysBetween(to, from); got != -19 {
		t.Fatalf("expected -19 for future issue date, got %d", got)
	}
	if got := DaysBetween(to, to); got != 0 {
		t.Fatalf("expected 0 for same day, got %d", got)
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" a@x.com , , b@x.com,")
	if len(got) != 2 || got[0] != "a@x.com" || got[1] != "b@x.com" {
		t.Fatalf("unexpected split result %v", got)
	}
	if got := SplitList("   "); got != nil {
		t.Fatalf("expected nil for blank input, got %v", got)
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"j@x.com", "finance.ops@example.com", "a+b@sub.domain.org"}
	invalid := []string{"", "not-an-address", "@x.com", "a@", "a b@x.com"}
	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Fatalf("expected %q to be valid", e)
		}
	}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Fatalf("expected %q to be invalid", e)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(nil); got != "" {
		t.Fatalf("expected empty for nil, got %q", got)
	}
	d := time.Date(2026, 8, 20, 15, 4, 5, 0, time.UTC)
	if got := FormatDate(&d); got != "2026-08-20" {
		t.Fatalf("expected 2026-08-20, got %q", got)
	}
}
