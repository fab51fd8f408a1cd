// Package checker orchestrates an availability run: it checks each
// requested permit against the recreation service, aggregates the
// results, and renders them with exactly one of the two report formats.
package checker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/emiller/permitwatch/internal/availability"
	"github.com/emiller/permitwatch/internal/report"
)

// Checker runs availability checks against a recreation service.
type Checker struct {
	svc     availability.Service
	log     *slog.Logger
	workers int
}

// New creates a Checker. The cache is optional; pass nil to fetch
// metadata on every run. workers bounds the concurrent month fetches
// within one permit.
func New(svc availability.Service, cache MetadataCache, log *slog.Logger, workers int) *Checker {
	if cache != nil {
		svc = &cachingService{Service: svc, cache: cache, log: log}
	}
	return &Checker{svc: svc, log: log, workers: workers}
}

// Options are the parameters of one availability run, shared by every
// permit it checks.
type Options struct {
	StartDate       time.Time
	EndDate         time.Time
	WeekendsOnly    bool
	IncludeHolidays bool
	MinRemaining    int
	JSONOutput      bool
}

// Run checks every permit in order and renders the combined results.
// It returns the rendered output and whether any permit had
// availability. The first fetch failure aborts the run.
func (c *Checker) Run(ctx context.Context, permits []int, opts Options) (string, bool, error) {
	results := make(report.RunResult, 0, len(permits))

	for _, permitID := range permits {
		pr, err := c.checkPermit(ctx, permitID, opts)
		if err != nil {
			return "", false, fmt.Errorf("check permit %d: %w", permitID, err)
		}
		results = append(results, pr)
	}

	if opts.JSONOutput {
		return report.JSON(results)
	}
	out, hasAvailabilities := report.Human(results, opts.StartDate, opts.EndDate)
	return out, hasAvailabilities, nil
}

func (c *Checker) checkPermit(ctx context.Context, permitID int, opts Options) (report.PermitResult, error) {
	info, pa, err := availability.FetchPermit(ctx, c.svc, permitID, opts.StartDate, opts.EndDate, c.workers)
	if err != nil {
		return report.PermitResult{}, err
	}

	c.log.Debug("normalized permit availability",
		"permit", permitID, "name", info.Name, "divisions", pa.Len())

	agg := availability.Aggregate(pa, opts.StartDate, opts.EndDate, availability.Options{
		Filter: availability.DateFilter{
			WeekendsOnly:    opts.WeekendsOnly,
			IncludeHolidays: opts.IncludeHolidays,
		},
		MinRemaining: opts.MinRemaining,
	})

	c.log.Info("checked permit", "permit", permitID, "name", info.Name,
		"available_divisions", agg.AvailableDivisions, "total_divisions", agg.TotalDivisions)

	return report.PermitResult{
		PermitID:   permitID,
		PermitName: info.Name,
		Available:  agg.AvailableDivisions,
		Total:      agg.TotalDivisions,
		Divisions:  agg.Divisions,
	}, nil
}
