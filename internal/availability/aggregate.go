package availability

import "time"

// Options controls which normalized dates count as available.
type Options struct {
	Filter DateFilter
	// MinRemaining is the smallest remaining-slot count a date needs to
	// count as available. Values below 1 are treated as 1.
	MinRemaining int
}

// Aggregate intersects normalized availability with the candidate-date
// set for [start, end) and the minimum-remaining threshold. Divisions
// with no matching dates are dropped from Divisions entirely, but still
// count toward TotalDivisions. Ordering is inherited: dates ascending,
// divisions in first-appearance order.
func Aggregate(pa *PermitAvailability, start, end time.Time, opts Options) AggregateResult {
	minRemaining := opts.MinRemaining
	if minRemaining < 1 {
		minRemaining = 1
	}
	candidates := CandidateDates(start, end, opts.Filter)

	res := AggregateResult{TotalDivisions: pa.Len()}

	for _, div := range pa.Divisions() {
		var matching []DateAvailability
		for _, d := range div.AvailableDates {
			if _, ok := candidates[d.Date]; !ok {
				continue
			}
			if d.Remaining < minRemaining {
				continue
			}
			matching = append(matching, d)
		}
		if len(matching) == 0 {
			continue
		}
		res.Divisions = append(res.Divisions, AvailableDivision{
			ID:    div.ID,
			Name:  div.Name,
			Dates: matching,
		})
	}

	res.AvailableDivisions = len(res.Divisions)
	return res
}
