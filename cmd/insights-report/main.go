package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pulsecli/internal/analytics"
	"pulsecli/internal/config"
	"pulsecli/internal/dataset"
	"pulsecli/internal/exporter"
	"pulsecli/internal/growth"
	"pulsecli/internal/infrastructure"
)

func main() {
	dataDir := flag.String("data", "", "directory containing the dataset CSV files (defaults to configured dataset dir)")
	workbook := flag.String("workbook", "", "load the dataset from a single XLSX workbook instead of CSV files")
	outputDir := flag.String("out", "", "output directory for report files (defaults to configured reports dir)")
	format := flag.String("format", "", "report format: csv or xlsx (defaults to configured format)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *dataDir != "" {
		cfg.Dataset.Dir = *dataDir
	}
	if *outputDir != "" {
		cfg.Reports.Dir = *outputDir
	}
	if *format != "" {
		cfg.Reports.Format = strings.ToLower(*format)
	}
	if cfg.Reports.Format != "csv" && cfg.Reports.Format != "xlsx" {
		slog.Error("Invalid report format", "format", cfg.Reports.Format, "hint", "use csv or xlsx")
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogger()

	ctx := context.Background()
	loader := dataset.NewLoader(logger)

	var ds *dataset.Dataset
	if *workbook != "" {
		logger.Info("loading dataset workbook", slog.String("path", *workbook))
		ds, err = loader.LoadWorkbook(ctx, *workbook)
	} else {
		logger.Info("loading dataset", slog.String("dir", cfg.Dataset.Dir))
		ds, err = loader.LoadAll(ctx, cfg)
	}
	if err != nil {
		logger.Error("Failed to load dataset", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if ds.IsEmpty() {
		logger.Error("Dataset is empty", slog.String("dir", cfg.Dataset.Dir))
		os.Exit(1)
	}

	aggregator := analytics.NewAggregator(logger, growth.NewAnalyzer(logger, growth.DefaultAnalyzerConfig()))
	reports, err := aggregator.ComputeAll(ctx, ds)
	if err != nil {
		logger.Error("Failed to compute reports", slog.String("error", err.Error()))
		os.Exit(1)
	}

	writer := exporter.NewReportWriter(logger, cfg.Reports.Dir)
	switch cfg.Reports.Format {
	case "xlsx":
		filename := "pulse_insights.xlsx"
		if err := writer.WriteReportsExcel(ctx, reports, filename); err != nil {
			logger.Error("Failed to write Excel report", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("report written", slog.String("path", filepath.Join(cfg.Reports.Dir, filename)))
	default:
		if err := writer.WriteReportsCSV(ctx, reports); err != nil {
			logger.Error("Failed to write CSV reports", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("reports written", slog.String("dir", cfg.Reports.Dir))
	}
}
