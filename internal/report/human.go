package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/emiller/permitwatch/pkg/dateutil"
)

const (
	successGlyph = "🚣"
	failureGlyph = "❌"
)

// Human renders a multi-line human-readable report and reports whether
// any permit had availability. The headline always comes first; each
// permit gets a summary line, and permits with availability list their
// open dates. Division sub-headers are suppressed only for permits that
// are single-division overall.
func Human(results RunResult, start, end time.Time) (string, bool) {
	var out []string
	hasAvailabilities := false

	for _, pr := range results {
		glyph := failureGlyph
		if pr.Available > 0 {
			glyph = successGlyph
			hasAvailabilities = true
		}

		out = append(out, fmt.Sprintf(
			"%s %s (%d): %d division(s) with availability out of %d division(s)",
			glyph, pr.PermitName, pr.PermitID, pr.Available, pr.Total,
		))

		if len(pr.Divisions) == 0 {
			continue
		}

		showDivisionHeaders := len(pr.Divisions) > 1 || pr.Total > 1
		indent := ""
		if showDivisionHeaders {
			indent = "  "
		}

		for _, div := range pr.Divisions {
			if showDivisionHeaders {
				out = append(out, fmt.Sprintf("  * %s (Division %s):", div.Name, div.ID))
			}
			for _, d := range div.Dates {
				out = append(out, fmt.Sprintf(
					"  %s* %s: %d/%d permits remaining",
					indent, humanDate(d.Date), d.Remaining, d.Total,
				))
			}
		}
	}

	headline := "There are no permits available :("
	if hasAvailabilities {
		headline = fmt.Sprintf(
			"there are permits available from %s to %s!!!",
			start.Format(dateutil.InputFormat), end.Format(dateutil.InputFormat),
		)
	}

	return strings.Join(append([]string{headline}, out...), "\n"), hasAvailabilities
}

// humanDate reduces a service-format date to YYYY-MM-DD, falling back to
// the raw string for anything unparseable.
func humanDate(s string) string {
	t, err := dateutil.ParseService(s)
	if err != nil {
		return s
	}
	return t.Format(dateutil.InputFormat)
}
