// Package exporter writes computed report tables to CSV files and
// Excel workbooks.
package exporter
