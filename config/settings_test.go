package config

import (
	"testing"
)

func setRequiredSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("SMTP_USER", "svc@example.com")
	t.Setenv("SMTP_PASSWORD", "hunter2")
}

func TestLoadAlertSettings_Defaults(t *testing.T) {
	setRequiredSecrets(t)

	s, err := LoadAlertSettings()
	if err != nil {
		t.Fatalf("LoadAlertSettings: %v", err)
	}

	if s.FlagValue != "Pending" || s.CostCenter != "D010" || s.SlaDays != 15 || s.MaxRows != 2000 {
		t.Fatalf("unexpected business defaults: %+v", s)
	}
	if len(s.ExcludedTasks) != 4 {
		t.Fatalf("expected 4 default excluded tasks, got %v", s.ExcludedTasks)
	}
	if s.FallbackEmails["FINANCE"] != "finance.ops@example.com" {
		t.Fatalf("expected FINANCE fallback, got %v", s.FallbackEmails)
	}
	if s.SMTPHost != "smtp.office365.com" || s.SMTPPort != 587 {
		t.Fatalf("unexpected SMTP defaults: %s:%d", s.SMTPHost, s.SMTPPort)
	}
	if len(s.EmailTo) != 1 || s.EmailTo[0] != "alerts@example.com" {
		t.Fatalf("unexpected default recipients: %v", s.EmailTo)
	}
}

func TestLoadAlertSettings_EnvOverrides(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("COST_CENTER", "X777")
	t.Setenv("SLA_DAYS", "30")
	t.Setenv("MAX_ROWS", "50")
	t.Setenv("EXCLUDED_TASKS", "Auto - Archive, Auto - Purge")
	t.Setenv("ALERT_EMAIL_TO", "a@x.com, b@x.com")

	s, err := LoadAlertSettings()
	if err != nil {
		t.Fatalf("LoadAlertSettings: %v", err)
	}
	if s.CostCenter != "X777" || s.SlaDays != 30 || s.MaxRows != 50 {
		t.Fatalf("env overrides not applied: %+v", s)
	}
	if len(s.ExcludedTasks) != 2 || s.ExcludedTasks[0] != "Auto - Archive" {
		t.Fatalf("unexpected excluded tasks: %v", s.ExcludedTasks)
	}
	if len(s.EmailTo) != 2 || s.EmailTo[1] != "b@x.com" {
		t.Fatalf("unexpected recipients: %v", s.EmailTo)
	}
}

func TestLoadAlertSettings_FallbackRuleTableParsing(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("FALLBACK_EMAILS", " fin =fin-team@x.com; WAREHOUSE=wh@x.com ;broken;=x@x.com;empty=")

	s, err := LoadAlertSettings()
	if err != nil {
		t.Fatalf("LoadAlertSettings: %v", err)
	}

	if len(s.FallbackEmails) != 2 {
		t.Fatalf("expected 2 parsed rules, got %v", s.FallbackEmails)
	}
	if s.FallbackEmails["FIN"] != "fin-team@x.com" {
		t.Fatalf("expected normalized FIN key, got %v", s.FallbackEmails)
	}
	if s.FallbackEmails["WAREHOUSE"] != "wh@x.com" {
		t.Fatalf("expected WAREHOUSE rule, got %v", s.FallbackEmails)
	}
}

func TestLoadAlertSettings_MissingCredentialsFail(t *testing.T) {
	t.Setenv("SMTP_USER", "")
	t.Setenv("SMTP_PASSWORD", "")

	if _, err := LoadAlertSettings(); err == nil {
		t.Fatalf("expected validation error without SMTP credentials")
	}
}

func TestLoadAlertSettings_RejectsBadRecipient(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("ALERT_EMAIL_TO", "not-an-address")

	if _, err := LoadAlertSettings(); err == nil {
		t.Fatalf("expected validation error for malformed recipient")
	}
}

func TestDryRunToggle(t *testing.T) {
	cases := map[string]bool{
		"":     false,
		"0":    false,
		"no":   false,
		"1":    true,
		"true": true,
		"YES":  true,
	}
	for v, want := range cases {
		t.Setenv("ALERT_DRY_RUN", v)
		if DryRun() != want {
			t.Fatalf("ALERT_DRY_RUN=%q: expected %t", v, want)
		}
	}
}
