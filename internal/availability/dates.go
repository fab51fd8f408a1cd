package availability

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"

	"github.com/emiller/permitwatch/pkg/dateutil"
)

// The two window predicates below look unifiable but are not: candidate
// enumeration walks backward from the end of the window, while the
// normalizer filters fetched dates against [start, end). Keep them
// separate so neither boundary silently shifts.

// withinFetchWindow reports whether a fetched date belongs to the
// requested window: start inclusive, end exclusive.
func withinFetchWindow(d, start, end time.Time) bool {
	return !d.Before(start) && d.Before(end)
}

// candidateWindowDays is the number of backward steps from end used to
// enumerate candidate dates; end itself is never a candidate.
func candidateWindowDays(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Friday || wd == time.Saturday
}

// federalHolidays covers the observed US federal holidays; launch dates
// on a holiday, or the day before one, count as weekend-equivalent when
// holiday mode is on.
var federalHolidays = func() *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ColumbusDay,
		us.VeteransDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	)
	return c
}()

func isHolidayLaunch(d time.Time) bool {
	if _, observed, _ := federalHolidays.IsHoliday(d); observed {
		return true
	}
	_, observed, _ := federalHolidays.IsHoliday(d.AddDate(0, 0, 1))
	return observed
}

// DateFilter restricts the candidate-date set.
type DateFilter struct {
	// WeekendsOnly keeps only Friday and Saturday launch dates.
	WeekendsOnly bool
	// IncludeHolidays additionally keeps observed US federal holidays and
	// their eves. Only consulted in weekend mode.
	IncludeHolidays bool
}

// CandidateDates enumerates the dates of the availability window as a
// membership set of service-format strings. The window covers start
// through the day before end; end <= start yields an empty set.
func CandidateDates(start, end time.Time, filter DateFilter) map[string]struct{} {
	set := make(map[string]struct{})
	days := candidateWindowDays(start, end)
	for i := 1; i <= days; i++ {
		d := end.AddDate(0, 0, -i)
		if filter.WeekendsOnly && !isWeekend(d) {
			if !filter.IncludeHolidays || !isHolidayLaunch(d) {
				continue
			}
		}
		set[d.Format(dateutil.ServiceFormat)] = struct{}{}
	}
	return set
}
