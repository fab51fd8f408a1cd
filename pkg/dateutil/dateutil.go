// Package dateutil holds the date layouts shared by the CLI, the
// recreation client, and the availability core.
package dateutil

import "time"

const (
	// InputFormat is the YYYY-MM-DD form accepted on the command line and
	// used in human-readable output.
	InputFormat = "2006-01-02"
	// ServiceFormat is the day-granular ISO form the recreation service
	// uses for availability keys.
	ServiceFormat = "2006-01-02T15:04:05Z"
)

// ParseInput parses a YYYY-MM-DD date in UTC.
func ParseInput(s string) (time.Time, error) {
	return time.Parse(InputFormat, s)
}

// ParseService parses a date in the recreation service's ISO form.
func ParseService(s string) (time.Time, error) {
	return time.Parse(ServiceFormat, s)
}

// FirstOfMonth returns midnight UTC on the first day of t's month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
