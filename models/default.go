package models

import "github.com/acmeops/backlog-alerts/config"

// MigrateTable creates the source tables. Production reads replicas owned by
// the warehouse; this exists for local development and integration tests.
func MigrateTable() {
	db := config.GetDB()
	db.AutoMigrate(
		&BacklogRecord{},
		&UserDirectoryEntry{},
	)
}
