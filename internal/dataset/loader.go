package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"pulsecli/internal/config"
	"pulsecli/internal/errors"
	"pulsecli/pkg/contracts/domain"
)

// Loader reads the raw aggregated data files into memory. Rows are
// validated on load so downstream computations can assume well-formed
// input.
type Loader struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewLoader creates a new dataset loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger.With(slog.String("component", "dataset_loader")),
		validate: validator.New(),
	}
}

// LoadAll loads every configured dataset file concurrently and returns
// the assembled Dataset. Missing files are an error; the reports are
// meaningless without their inputs.
func (l *Loader) LoadAll(ctx context.Context, cfg *config.Config) (*Dataset, error) {
	l.logger.InfoContext(ctx, "loading dataset",
		slog.String("dir", cfg.Dataset.Dir))

	ds := &Dataset{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := l.LoadTransactions(ctx, cfg.DatasetPath(cfg.Dataset.TransactionsFile))
		if err != nil {
			return err
		}
		ds.Transactions = rows
		return nil
	})
	g.Go(func() error {
		rows, err := l.LoadDevices(ctx, cfg.DatasetPath(cfg.Dataset.DevicesFile))
		if err != nil {
			return err
		}
		ds.Devices = rows
		return nil
	})
	g.Go(func() error {
		rows, err := l.LoadInsurance(ctx, cfg.DatasetPath(cfg.Dataset.InsuranceFile))
		if err != nil {
			return err
		}
		ds.Insurance = rows
		return nil
	})
	g.Go(func() error {
		rows, err := l.LoadEngagement(ctx, cfg.DatasetPath(cfg.Dataset.EngagementFile))
		if err != nil {
			return err
		}
		ds.Engagement = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.Int("transaction_rows", len(ds.Transactions)),
		slog.Int("device_rows", len(ds.Devices)),
		slog.Int("insurance_rows", len(ds.Insurance)),
		slog.Int("engagement_rows", len(ds.Engagement)))

	return ds, nil
}

// LoadTransactions reads the aggregated transactions table.
// Expected columns: State, Year, Quarter, Category, Count, Amount.
func (l *Loader) LoadTransactions(ctx context.Context, path string) ([]domain.TransactionRow, error) {
	records, err := l.readCSV(ctx, path, 6)
	if err != nil {
		return nil, err
	}
	return l.parseTransactionRecords(records, path)
}

// LoadDevices reads the device registrations table.
// Expected columns: State, Year, Quarter, Brand, RegisteredUsers, PercentageUsage.
func (l *Loader) LoadDevices(ctx context.Context, path string) ([]domain.DeviceRow, error) {
	records, err := l.readCSV(ctx, path, 6)
	if err != nil {
		return nil, err
	}
	return l.parseDeviceRecords(records, path)
}

// LoadInsurance reads the insurance table.
// Expected columns: State, Year, Quarter, PolicyCount, PolicyValue.
func (l *Loader) LoadInsurance(ctx context.Context, path string) ([]domain.InsuranceRow, error) {
	records, err := l.readCSV(ctx, path, 5)
	if err != nil {
		return nil, err
	}
	return l.parseInsuranceRecords(records, path)
}

// LoadEngagement reads the app-engagement table.
// Expected columns: State, Year, Quarter, RegisteredUsers, AppOpens.
func (l *Loader) LoadEngagement(ctx context.Context, path string) ([]domain.EngagementRow, error) {
	records, err := l.readCSV(ctx, path, 5)
	if err != nil {
		return nil, err
	}
	return l.parseEngagementRecords(records, path)
}

func (l *Loader) parseTransactionRecords(records [][]string, source string) ([]domain.TransactionRow, error) {
	rows := make([]domain.TransactionRow, 0, len(records))
	for i, rec := range records {
		year, quarter, err := parsePeriod(rec[1], rec[2])
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("transactions row %d of %s", i+2, source), err)
		}
		count, err := parseInt(rec[4])
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("transactions row %d: invalid count %q", i+2, rec[4]), err)
		}
		amount, err := parseFloat(rec[5])
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("transactions row %d: invalid amount %q", i+2, rec[5]), err)
		}

		row := domain.TransactionRow{
			State:    strings.TrimSpace(rec[0]),
			Year:     year,
			Quarter:  quarter,
			Category: strings.TrimSpace(rec[3]),
			Count:    count,
			Amount:   amount,
		}
		if err := l.validate.Struct(row); err != nil {
			return nil, errors.NewAppValidationError(
				fmt.Sprintf("transactions row %d: %v", i+2, err))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (l *Loader) parseDeviceRecords(records [][]string, source string) ([]domain.DeviceRow, error) {
	rows := make([]domain.DeviceRow, 0, len(records))
	for i, rec := range records {
		year, quarter, err := parsePeriod(rec[1], rec[2])
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("devices row %d of %s", i+2, source), err)
		}
		users, err := parseInt(rec[4])
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("devices row %d: invalid registered users %q", i+2, rec[4]), err)
		}
		usage, err := parseFloat(rec[5])
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("devices row %d: invalid percentage usage %q", i+2, rec[5]), err)
		}

		row := domain.DeviceRow{
			State:           strings.TrimSpace(rec[0]),
			Year:            year,
			Quarter:         quarter,
			Brand:           strings.TrimSpace(rec[3]),
			RegisteredUsers: users,
			PercentageUsage: usage,
		}
		if err := l.validate.Struct(row); err != nil {
			return nil, errors.NewAppValidationError(
				fmt.Sprintf("devices row %d: %v", i+2, err))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (l *Loader) parseInsuranceRecords(records [][]string, source string) ([]domain.InsuranceRow, error) {
	rows := make([]domain.InsuranceRow, 0, len(records))
	for i, rec := range records {
		year, quarter, err := parsePeriod(rec[1], rec[2])
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("insurance row %d of %s", i+2, source), err)
		}
		policies, err := parseInt(rec[3])
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("insurance row %d: invalid policy count %q", i+2, rec[3]), err)
		}
		value, err := parseFloat(rec[4])
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("insurance row %d: invalid policy value %q", i+2, rec[4]), err)
		}

		row := domain.InsuranceRow{
			State:       strings.TrimSpace(rec[0]),
			Year:        year,
			Quarter:     quarter,
			PolicyCount: policies,
			PolicyValue: value,
		}
		if err := l.validate.Struct(row); err != nil {
			return nil, errors.NewAppValidationError(
				fmt.Sprintf("insurance row %d: %v", i+2, err))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (l *Loader) parseEngagementRecords(records [][]string, source string) ([]domain.EngagementRow, error) {
	rows := make([]domain.EngagementRow, 0, len(records))
	for i, rec := range records {
		year, quarter, err := parsePeriod(rec[1], rec[2])
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("engagement row %d of %s", i+2, source), err)
		}
		users, err := parseInt(rec[3])
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("engagement row %d: invalid registered users %q", i+2, rec[3]), err)
		}
		opens, err := parseInt(rec[4])
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("engagement row %d: invalid app opens %q", i+2, rec[4]), err)
		}

		row := domain.EngagementRow{
			State:           strings.TrimSpace(rec[0]),
			Year:            year,
			Quarter:         quarter,
			RegisteredUsers: users,
			AppOpens:        opens,
		}
		if err := l.validate.Struct(row); err != nil {
			return nil, errors.NewAppValidationError(
				fmt.Sprintf("engagement row %d: %v", i+2, err))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// readCSV opens a CSV file, skips the header row and returns all data
// records, each guaranteed to have at least minFields columns.
func (l *Loader) readCSV(ctx context.Context, path string, minFields int) ([][]string, error) {
	l.logger.DebugContext(ctx, "reading CSV file", slog.String("path", path))

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDatasetError(fmt.Sprintf("failed to open dataset file %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	// Header row is documentation, not data.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, errors.NewDatasetError(fmt.Sprintf("dataset file %s is empty", path), nil)
		}
		return nil, errors.NewParsingError(fmt.Sprintf("failed to read header of %s", path), err)
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("failed to read %s", path), err)
		}
		if len(rec) < minFields {
			return nil, errors.NewParsingError(
				fmt.Sprintf("%s: expected at least %d columns, got %d", path, minFields, len(rec)), nil)
		}
		records = append(records, rec)
	}

	return records, nil
}

// parsePeriod parses the year and quarter columns. Quarters are
// accepted as "1".."4" or "Q1".."Q4".
func parsePeriod(yearField, quarterField string) (int, int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(yearField))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q: %w", yearField, err)
	}

	q := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(quarterField)), "Q")
	quarter, err := strconv.Atoi(q)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid quarter %q: %w", quarterField, err)
	}

	return year, quarter, nil
}

func parseInt(field string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(field), 10, 64)
}

func parseFloat(field string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(field), 64)
}
