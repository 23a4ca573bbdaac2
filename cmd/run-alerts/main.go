package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/acmeops/backlog-alerts/config"
	"github.com/acmeops/backlog-alerts/mailer"
	"github.com/acmeops/backlog-alerts/reports"
	"github.com/acmeops/backlog-alerts/workflow"
)

// One-shot alert evaluation, for platform schedulers that exec a binary
// instead of hitting the HTTP trigger, and for operators re-running a
// failed dispatch by hand.
func main() {
	costCenter := flag.String("cost-center", "", "Optional: override COST_CENTER for this run.")
	slaDays := flag.Int("sla-days", -1, "Optional: override SLA_DAYS for this run.")
	maxRows := flag.Int("max-rows", 0, "Optional: override MAX_ROWS for this run.")
	dryRun := flag.Bool("dry-run", false, "Build the report locally without sending mail.")
	outDir := flag.String("out", "", "Directory for the dry-run report (default: temp dir).")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	config.ConnectRedis()

	settings, err := config.LoadAlertSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}
	if strings.TrimSpace(*costCenter) != "" {
		settings.CostCenter = strings.TrimSpace(*costCenter)
	}
	if *slaDays >= 0 {
		settings.SlaDays = *slaDays
	}
	if *maxRows > 0 {
		settings.MaxRows = *maxRows
	}

	var dispatcher workflow.Dispatcher
	if *dryRun || config.DryRun() {
		dispatcher = &mailer.DryRunDispatcher{OutputDir: *outDir, Logger: config.GetLogger()}
	} else {
		dispatcher = &mailer.SMTPDispatcher{
			Host:     settings.SMTPHost,
			Port:     settings.SMTPPort,
			Username: settings.SMTPUser,
			Password: settings.SMTPPassword,
		}
	}

	coordinator := &workflow.Coordinator{
		Source:     workflow.DatabaseSource{},
		Writer:     reports.ExcelWriter{},
		Dispatcher: dispatcher,
		Settings:   settings,
		Logger:     config.GetLogger(),
	}

	metrics, err := coordinator.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "alert run failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("status=%s filtered=%d excel_rows=%d unresolved=%d truncated=%t cost_center=%s\n",
		metrics.Status, metrics.FilteredRecords, metrics.ExcelRows,
		metrics.Unresolved, metrics.Truncated, metrics.CostCenter)
}
