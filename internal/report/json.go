package report

import (
	"encoding/json"
	"fmt"

	"github.com/emiller/permitwatch/internal/availability"
)

type jsonDivision struct {
	Name  string                          `json:"name"`
	Dates []availability.DateAvailability `json:"dates"`
}

// JSON renders a single object keyed by permit id, mapping each permit
// with availability to its divisions and matching dates. Permits with
// no availability are omitted entirely. The second return reports
// whether anything was available.
func JSON(results RunResult) (string, bool, error) {
	byPermit := make(map[int]map[string]jsonDivision)
	hasAvailabilities := false

	for _, pr := range results {
		if pr.Available == 0 {
			continue
		}
		hasAvailabilities = true

		divisions := make(map[string]jsonDivision, len(pr.Divisions))
		for _, div := range pr.Divisions {
			divisions[div.ID] = jsonDivision{Name: div.Name, Dates: div.Dates}
		}
		byPermit[pr.PermitID] = divisions
	}

	b, err := json.Marshal(byPermit)
	if err != nil {
		return "", false, fmt.Errorf("encode report: %w", err)
	}
	return string(b), hasAvailabilities, nil
}
