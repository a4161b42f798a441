package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Findings"

// ExportExcel writes the run's findings to an xlsx workbook at path: one
// summary row block followed by one row per finding.
func ExportExcel(path string, run *Run) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	summary := [][]any{
		{"Run", run.ID},
		{"Root", run.Root},
		{"Status", run.Status},
		{"Started", run.StartedAt.Format("2006-01-02 15:04:05")},
		{"Finished", run.FinishedAt.Format("2006-01-02 15:04:05")},
		{"Message", run.Message},
	}
	row := 1
	for _, cells := range summary {
		if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", row), &cells); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
		row++
	}

	row++ // blank separator
	header := []any{"Level", "Folder", "File", "Message", "Time"}
	if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", row), &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	for _, finding := range run.Findings {
		row++
		cells := []any{
			string(finding.Level),
			finding.Folder,
			finding.File,
			finding.Message,
			finding.Time.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", row), &cells); err != nil {
			return fmt.Errorf("write finding row: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
