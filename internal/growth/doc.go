// Package growth computes quarter-over-quarter growth for pre-aggregated
// metric series keyed by (entity, year, quarter).
//
// The analyzer is a pure transformation: it builds a bucket index from
// the input series, resolves each bucket's preceding quarter (rolling
// Q1 back to Q4 of the prior year), and emits one growth record per
// input point with absolute and percentage change. Division by a zero
// baseline is defined to produce an absent percentage rather than an
// error.
package growth
