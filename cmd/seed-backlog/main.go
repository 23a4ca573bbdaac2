package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/acmeops/backlog-alerts/config"
	"github.com/acmeops/backlog-alerts/models"
	"github.com/acmeops/backlog-alerts/utils"
)

// Seeds sample source tables for local development: a handful of overdue
// pending documents plus noise rows that every filter predicate should drop,
// and a small user directory with a deliberate gap so the fallback path is
// exercised end to end.
func main() {
	rows := flag.Int("rows", 20, "Total backlog rows to create.")
	overdue := flag.Int("overdue", 3, "How many of them should be overdue and pending for cost center D010.")
	flag.Parse()

	if *overdue > *rows {
		fmt.Fprintln(os.Stderr, "-overdue cannot exceed -rows")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	users := []models.UserDirectoryEntry{
		{Username: "jdoe", Email: "j@example.com"},
		{Username: "asilva", Email: "a.silva@example.com"},
		// mnoowner intentionally absent: those rows resolve via area fallback.
	}
	for _, u := range users {
		if err := db.Where("username = ?", u.Username).FirstOrCreate(&u).Error; err != nil {
			utils.ErrorPanic(err)
		}
	}

	now := time.Now()
	owners := []string{"jdoe", "asilva", "mnoowner"}
	areas := []string{"FINANCE_OPS", "WAREHOUSE", "UNKNOWN_AREA"}

	for i := 0; i < *rows; i++ {
		issue := now.AddDate(0, 0, -5)
		flagValue := "Processed"
		costCenter := "C900"
		if i < *overdue {
			issue = now.AddDate(0, 0, -(16 + i))
			flagValue = "Pending"
			costCenter = "D010"
		}

		rec := models.BacklogRecord{
			DocumentId:       i + 1,
			DocumentNumber:   fmt.Sprintf("DOC-%05d", i+1),
			DocumentKey:      uuid.NewString(),
			DocumentAmount:   decimal.NewFromInt(int64(1000 + i*37)),
			IssueDate:        &issue,
			DueDate:          nil,
			ClientName:       fmt.Sprintf("Client %d", i+1),
			SupplierName:     fmt.Sprintf("Supplier %d", i+1),
			ProcessingStatus: "In Queue",
			ProcessingFlag:   flagValue,
			DocumentCategory: "Invoice",
			ResponsibleArea:  areas[i%len(areas)],
			RequestOwner:     owners[i%len(owners)],
			TaskName:         "Manual Review",
			BusinessUnit:     "BU-01",
			CostCenter:       costCenter,
		}
		if err := db.Where("document_id = ?", rec.DocumentId).FirstOrCreate(&rec).Error; err != nil {
			utils.ErrorPanic(err)
		}
	}

	fmt.Printf("seeded %d backlog rows (%d overdue) and %d directory users\n", *rows, *overdue, len(users))
}
