// Package report renders the results of an availability run. Both
// renderers are pure: they read the run results and return a string,
// leaving printing to the caller.
package report

import "github.com/emiller/permitwatch/internal/availability"

// PermitResult is the outcome of checking one permit.
type PermitResult struct {
	PermitID   int
	PermitName string
	// Available and Total are the permit's division counts: divisions
	// with matching dates, and all divisions regardless of the filter.
	Available int
	Total     int
	Divisions []availability.AvailableDivision
}

// RunResult collects per-permit outcomes in request order.
type RunResult []PermitResult
