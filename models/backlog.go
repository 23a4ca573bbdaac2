package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/acmeops/backlog-alerts/config"
)

// BacklogRecord is one pending document awaiting processing, as exposed by
// the analytics fact table. Rows are read-only snapshots taken per run.
type BacklogRecord struct {
	DocumentId       int             `gorm:"primary_key" json:"document_id"`
	DocumentNumber   string          `gorm:"size:100" json:"document_number"`
	DocumentKey      string          `gorm:"size:100;index" json:"document_key"`
	DocumentAmount   decimal.Decimal `gorm:"type:decimal(20,2)" json:"document_amount"`
	IssueDate        *time.Time      `json:"issue_date"`
	DueDate          *time.Time      `json:"due_date"`
	ClientTaxId      string          `gorm:"size:50" json:"client_tax_id"`
	ClientName       string          `gorm:"size:255" json:"client_name"`
	SupplierTaxId    string          `gorm:"size:50" json:"supplier_tax_id"`
	SupplierName     string          `gorm:"size:255" json:"supplier_name"`
	ProcessingStatus string          `gorm:"size:100" json:"processing_status"`
	ProcessingFlag   string          `gorm:"size:50;index" json:"processing_flag"`
	ProcessingDays   int             `json:"processing_days"`
	DocumentLink     string          `gorm:"size:500" json:"document_link"`
	DocumentCategory string          `gorm:"size:100" json:"document_category"`
	ResolutionType   string          `gorm:"size:100" json:"resolution_type"`
	ResponsibleArea  string          `gorm:"size:100" json:"responsible_area"`
	RequestOwner     string          `gorm:"size:100;index" json:"request_owner"`
	TaskName         string          `gorm:"size:255" json:"task_name"`
	BusinessUnit     string          `gorm:"size:100" json:"business_unit"`
	CostCenter       string          `gorm:"size:50;index" json:"cost_center"`
}

func (BacklogRecord) TableName() string {
	return "fact_documents_backlog"
}

// FetchBacklogRecords reads the full backlog snapshot for this run.
// Business predicates are applied downstream by the pipeline so they stay
// testable against plain slices.
func FetchBacklogRecords(ctx context.Context) ([]BacklogRecord, error) {
	var records []BacklogRecord
	db := config.GetDB()
	if err := db.WithContext(ctx).Order("document_id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
