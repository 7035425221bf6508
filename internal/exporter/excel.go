package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"pulsecli/internal/analytics"
)

// WriteReportsExcel writes every report table into a single workbook,
// one sheet per report.
func (w *ReportWriter) WriteReportsExcel(ctx context.Context, reports *analytics.Reports, filename string) error {
	path := w.csv.resolvePath(filename)

	w.logger.InfoContext(ctx, "writing Excel report",
		slog.String("path", path))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name    string
		headers []string
		records [][]string
	}{
		{ReportTransactions, transactionHeaders(), transactionRecords(reports.Transactions)},
		{ReportCategories, categoryHeaders(), categoryRecords(reports.Categories)},
		{ReportDevices, deviceHeaders(), deviceRecords(reports.Devices)},
		{ReportInsurance, insuranceHeaders(), insuranceRecords(reports.Insurance)},
		{ReportEngagement, engagementHeaders(), engagementRecords(reports.Engagement)},
		{ReportGrowth, growthHeaders(), growthRecords(reports.Growth)},
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.name); err != nil {
				return fmt.Errorf("rename sheet %s: %w", sheet.name, err)
			}
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return fmt.Errorf("create sheet %s: %w", sheet.name, err)
			}
		}

		if err := writeSheet(f, sheet.name, sheet.headers, sheet.records); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	w.logger.InfoContext(ctx, "Excel report written",
		slog.String("path", path),
		slog.Int("sheet_count", len(sheets)))

	return nil
}

// writeSheet fills one sheet with a header row followed by records
func writeSheet(f *excelize.File, sheet string, headers []string, records [][]string) error {
	if err := setRow(f, sheet, 1, headers); err != nil {
		return fmt.Errorf("write header of sheet %s: %w", sheet, err)
	}
	for i, record := range records {
		if err := setRow(f, sheet, i+2, record); err != nil {
			return fmt.Errorf("write row %d of sheet %s: %w", i+2, sheet, err)
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
