package dataset

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"pulsecli/internal/errors"
)

// Sheet names recognized in workbook-shaped data drops.
const (
	SheetTransactions = "Transactions"
	SheetDevices      = "Devices"
	SheetInsurance    = "Insurance"
	SheetEngagement   = "Engagement"
)

// LoadWorkbook reads a single Excel workbook containing one sheet per
// raw table. Sheets that are missing are skipped; a workbook with no
// recognized sheet at all is an error.
func (l *Loader) LoadWorkbook(ctx context.Context, path string) (*Dataset, error) {
	l.logger.InfoContext(ctx, "loading dataset workbook",
		slog.String("path", path))

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewDatasetError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	ds := &Dataset{}
	var loaded int

	if records, ok := sheetRecords(f, SheetTransactions, 6); ok {
		rows, err := l.parseTransactionRecords(records, path)
		if err != nil {
			return nil, err
		}
		ds.Transactions = rows
		loaded++
	}
	if records, ok := sheetRecords(f, SheetDevices, 6); ok {
		rows, err := l.parseDeviceRecords(records, path)
		if err != nil {
			return nil, err
		}
		ds.Devices = rows
		loaded++
	}
	if records, ok := sheetRecords(f, SheetInsurance, 5); ok {
		rows, err := l.parseInsuranceRecords(records, path)
		if err != nil {
			return nil, err
		}
		ds.Insurance = rows
		loaded++
	}
	if records, ok := sheetRecords(f, SheetEngagement, 5); ok {
		rows, err := l.parseEngagementRecords(records, path)
		if err != nil {
			return nil, err
		}
		ds.Engagement = rows
		loaded++
	}

	if loaded == 0 {
		return nil, errors.NewDatasetError(
			fmt.Sprintf("workbook %s contains no recognized sheets", path), nil)
	}

	l.logger.InfoContext(ctx, "dataset workbook loaded",
		slog.Int("sheet_count", loaded),
		slog.Int("transaction_rows", len(ds.Transactions)),
		slog.Int("device_rows", len(ds.Devices)),
		slog.Int("insurance_rows", len(ds.Insurance)),
		slog.Int("engagement_rows", len(ds.Engagement)))

	return ds, nil
}

// sheetRecords returns the data rows of a sheet without its header,
// dropping trailing rows that are shorter than minFields or entirely
// empty. Excel pads ragged rows, so short rows here mean stray cells,
// not data.
func sheetRecords(f *excelize.File, sheet string, minFields int) ([][]string, bool) {
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		return nil, false
	}

	var records [][]string
	for _, row := range rows[1:] {
		if len(row) < minFields {
			continue
		}
		empty := true
		for _, cell := range row {
			if cell != "" {
				empty = false
				break
			}
		}
		if !empty {
			records = append(records, row)
		}
	}

	return records, len(records) > 0
}
