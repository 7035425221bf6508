// Package analytics turns raw aggregated rows into the report tables
// served by the API and written by the report CLI: transaction
// dynamics, category trends, device dominance, insurance penetration,
// user engagement and quarter-over-quarter market expansion.
package analytics
