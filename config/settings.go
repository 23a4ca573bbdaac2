package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/acmeops/backlog-alerts/utils"
)

// AlertSettings is the full configuration surface of one alert run. It is
// built once at run start and passed down by value; nothing mutates it
// mid-run. Credentials come from env (or the platform secret store mapped
// into env) and are never logged.
type AlertSettings struct {
	Label          string `validate:"required"`
	FlagValue      string `validate:"required"`
	CostCenter     string `validate:"required"`
	SlaDays        int    `validate:"min=0"`
	MaxRows        int    `validate:"min=1"`
	ExcludedTasks  []string
	FallbackEmails map[string]string `validate:"dive,email"`

	SMTPHost     string `validate:"required"`
	SMTPPort     int    `validate:"min=1,max=65535"`
	SMTPUser     string `validate:"required,email"`
	SMTPPassword string `validate:"required"`

	EmailTo []string `validate:"min=1,dive,email"`
	EmailCc []string `validate:"dive,email"`
}

// Defaults mirror the operational rules this job has always run with.
const (
	defaultLabel      = "ACME"
	defaultFlagValue  = "Pending"
	defaultCostCenter = "D010"
	defaultSlaDays    = 15
	defaultMaxRows    = 2000
	defaultSMTPHost   = "smtp.office365.com"
	defaultSMTPPort   = 587
)

// Automated housekeeping tasks that never need a human nudge.
var defaultExcludedTasks = []string{
	"Auto - Sync Metadata",
	"Auto - Retry Integration",
	"Auto - Generate Reference Doc",
	"End - Finalized",
}

// Area aliases used when the request owner is missing from the directory.
var defaultFallbackEmails = map[string]string{
	"WAREHOUSE":        "warehouse.team@example.com",
	"CUSTOMER_SUPPORT": "support.team@example.com",
	"FINANCE_OPS":      "finance.ops@example.com",
	"FINANCE":          "finance.ops@example.com",
}

// LoadAlertSettings assembles the run configuration from env with the
// defaults above, then validates it. The error message names the offending
// fields; secrets are never echoed back.
func LoadAlertSettings() (AlertSettings, error) {
	s := AlertSettings{
		Label:          stringFromEnv("ALERT_LABEL", defaultLabel),
		FlagValue:      stringFromEnv("FLAG_VALUE", defaultFlagValue),
		CostCenter:     stringFromEnv("COST_CENTER", defaultCostCenter),
		SlaDays:        intFromEnv("SLA_DAYS", defaultSlaDays),
		MaxRows:        intFromEnv("MAX_ROWS", defaultMaxRows),
		ExcludedTasks:  listFromEnv("EXCLUDED_TASKS", defaultExcludedTasks),
		FallbackEmails: ruleTableFromEnv("FALLBACK_EMAILS", defaultFallbackEmails),

		SMTPHost:     stringFromEnv("SMTP_SERVER", defaultSMTPHost),
		SMTPPort:     intFromEnv("SMTP_PORT", defaultSMTPPort),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		EmailTo: listFromEnv("ALERT_EMAIL_TO", []string{"alerts@example.com"}),
		EmailCc: listFromEnv("ALERT_EMAIL_CC", []string{"ops@example.com"}),
	}

	if err := validator.New().Struct(s); err != nil {
		return AlertSettings{}, fmt.Errorf("invalid alert settings: %w", err)
	}
	return s, nil
}

func stringFromEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func listFromEnv(key string, def []string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return def
	}
	return utils.SplitList(raw)
}

// ruleTableFromEnv parses "AREA=addr;AREA2=addr" into a normalized-key rule
// table. Malformed pairs are skipped rather than failing the run; validation
// of the surviving addresses happens on the settings struct.
func ruleTableFromEnv(key string, def map[string]string) map[string]string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	table := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		k, v, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		k = utils.NormalizeKey(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		table[k] = v
	}
	if len(table) == 0 {
		return def
	}
	return table
}

// DryRun short-circuits dispatch: the report is written locally and no mail
// leaves the building. Set via env:
// - ALERT_DRY_RUN=true
func DryRun() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("ALERT_DRY_RUN")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
