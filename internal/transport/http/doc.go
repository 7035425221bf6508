// Package http contains the Chi HTTP handlers for the insights API.
//
// Handlers depend on service interfaces rather than concrete services
// so tests can substitute mocks. Errors flow through the shared
// ErrorHandler, which maps application errors to structured JSON
// responses.
package http
