// Package availability is the core of permitwatch: it normalizes the
// recreation service's monthly availability payloads into per-division
// date records and aggregates them against a requested date window.
package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/emiller/permitwatch/internal/recreation"
	"github.com/emiller/permitwatch/pkg/dateutil"
)

// Service is the slice of the recreation client the normalizer needs.
type Service interface {
	GetPermitAvailability(ctx context.Context, permitID int, month time.Time) (*recreation.MonthlyAvailability, error)
	GetPermitInfo(ctx context.Context, permitID int) (*recreation.PermitContent, error)
}

// monthsInRange lists the first day of every calendar month overlapping
// [start, end].
func monthsInRange(start, end time.Time) []time.Time {
	var months []time.Time
	for m := dateutil.FirstOfMonth(start); !m.After(end); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

// FetchPermit retrieves a permit's metadata and its availability for the
// requested window, merged across all overlapping months into one
// record per division with dates sorted ascending.
//
// Months are fetched concurrently, bounded by workers, with responses
// re-assembled in month order so the merge stays deterministic. Any
// fetch failure aborts the whole call.
//
// Divisions with no surviving dates stay in the result with empty date
// lists; pruning them is the aggregator's job.
func FetchPermit(ctx context.Context, svc Service, permitID int, start, end time.Time, workers int) (*PermitInfo, *PermitAvailability, error) {
	months := monthsInRange(start, end)
	monthly := make([]*recreation.MonthlyAvailability, len(months))

	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, month := range months {
		i, month := i, month
		g.Go(func() error {
			resp, err := svc.GetPermitAvailability(gctx, permitID, month)
			if err != nil {
				return err
			}
			monthly[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	content, err := svc.GetPermitInfo(ctx, permitID)
	if err != nil {
		return nil, nil, err
	}

	info := &PermitInfo{
		ID:        permitID,
		Name:      content.Payload.Name,
		Divisions: make(map[string]string, len(content.Payload.Divisions)),
	}
	if info.Name == "" {
		info.Name = fmt.Sprintf("Permit %d", permitID)
	}
	for id, div := range content.Payload.Divisions {
		info.Divisions[id] = div.Name
	}

	pa := NewPermitAvailability()
	for _, month := range monthly {
		if err := mergeMonth(pa, info, month, start, end); err != nil {
			return nil, nil, err
		}
	}

	for _, div := range pa.Divisions() {
		// Lexicographic order of ISO date strings is chronological order.
		sort.Slice(div.AvailableDates, func(i, j int) bool {
			return div.AvailableDates[i].Date < div.AvailableDates[j].Date
		})
	}

	return info, pa, nil
}

// mergeMonth folds one monthly response into the accumulated divisions,
// dropping exhausted dates and dates outside [start, end). Division ids
// are visited in sorted order so first-appearance order is stable from
// run to run.
func mergeMonth(pa *PermitAvailability, info *PermitInfo, month *recreation.MonthlyAvailability, start, end time.Time) error {
	ids := make([]string, 0, len(month.Payload.Availability))
	for id := range month.Payload.Availability {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		div := pa.Division(id, info.DivisionName(id))

		for dateStr, count := range month.Payload.Availability[id].DateAvailability {
			if count.Remaining <= 0 {
				continue
			}
			date, err := dateutil.ParseService(dateStr)
			if err != nil {
				return fmt.Errorf("division %s: parse availability date %q: %w", id, dateStr, err)
			}
			if !withinFetchWindow(date, start, end) {
				continue
			}
			div.AvailableDates = append(div.AvailableDates, DateAvailability{
				Date:      dateStr,
				Remaining: count.Remaining,
				Total:     count.Total,
			})
		}
	}
	return nil
}
