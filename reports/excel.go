// Package reports materializes a workflow report into an Excel workbook,
// the tabular artifact attached to the alert mail.
package reports

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"github.com/acmeops/backlog-alerts/utils"
	"github.com/acmeops/backlog-alerts/workflow"
)

const sheetName = "Pending Items"

// Column layout of the attachment. Order is fixed; readers filter on it.
var headings = []string{
	"Document ID",
	"Document Number",
	"Document Key",
	"Amount",
	"Issue Date",
	"Due Date",
	"Client Tax ID",
	"Client Name",
	"Supplier Tax ID",
	"Supplier Name",
	"Processing Status",
	"Days Pending",
	"Document Link",
	"Category",
	"Resolution Type",
	"Responsible Area",
	"Request Owner",
	"Task",
	"Processing Flag",
	"Business Unit",
	"Cost Center",
	"Notification Email",
}

func cellValues(rec workflow.ResolvedRecord) []interface{} {
	return []interface{}{
		rec.DocumentId,
		rec.DocumentNumber,
		rec.DocumentKey,
		rec.DocumentAmount.InexactFloat64(),
		utils.FormatDate(rec.IssueDate),
		utils.FormatDate(rec.DueDate),
		rec.ClientTaxId,
		rec.ClientName,
		rec.SupplierTaxId,
		rec.SupplierName,
		rec.ProcessingStatus,
		rec.ProcessingDays,
		rec.DocumentLink,
		rec.DocumentCategory,
		rec.ResolutionType,
		rec.ResponsibleArea,
		rec.RequestOwner,
		rec.TaskName,
		rec.ProcessingFlag,
		rec.BusinessUnit,
		rec.CostCenter,
		rec.Email,
	}
}

// ExcelWriter implements workflow.ReportWriter with an xlsx workbook.
type ExcelWriter struct{}

func (ExcelWriter) Write(report workflow.Report) ([]byte, error) {
	f, err := BuildWorkbook(report)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildWorkbook renders the report rows in order, one header row plus one
// row per record. Row count, order and field values survive the round trip.
func BuildWorkbook(report workflow.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, err
	}

	for col, heading := range headings {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, heading); err != nil {
			f.Close()
			return nil, err
		}
	}

	for i, rec := range report.Rows {
		for col, value := range cellValues(rec) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	return f, nil
}

// SaveWorkbook writes the report to a local file, the dry-run sink.
func SaveWorkbook(report workflow.Report, filename string) error {
	f, err := BuildWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(filename)
}
