package availability

import "fmt"

// DateAvailability is one launch date with open slots. Date keeps the
// service's ISO form so it can be matched against candidate-date sets
// without re-parsing.
type DateAvailability struct {
	Date      string `json:"date"`
	Remaining int    `json:"remaining"`
	Total     int    `json:"total"`
}

// DivisionAvailability accumulates one division's open dates across the
// monthly fetches for a permit.
type DivisionAvailability struct {
	ID             string
	Name           string
	AvailableDates []DateAvailability
}

// PermitAvailability holds a permit's divisions in order of first
// appearance across the monthly scan. A plain map would lose that order,
// which the aggregate and the human report both inherit.
type PermitAvailability struct {
	divisions []*DivisionAvailability
	index     map[string]*DivisionAvailability
}

func NewPermitAvailability() *PermitAvailability {
	return &PermitAvailability{index: make(map[string]*DivisionAvailability)}
}

// Division returns the record for id, creating it with the given display
// name on first sight.
func (p *PermitAvailability) Division(id, name string) *DivisionAvailability {
	if d, ok := p.index[id]; ok {
		return d
	}
	d := &DivisionAvailability{ID: id, Name: name}
	p.index[id] = d
	p.divisions = append(p.divisions, d)
	return d
}

// Divisions returns all divisions in first-appearance order, including
// ones with no surviving dates.
func (p *PermitAvailability) Divisions() []*DivisionAvailability {
	return p.divisions
}

// Len is the raw division count, independent of any filtering.
func (p *PermitAvailability) Len() int {
	return len(p.divisions)
}

// PermitInfo is the display metadata for a permit: its name and the
// division id to name mapping.
type PermitInfo struct {
	ID        int
	Name      string
	Divisions map[string]string
}

// DivisionName resolves a division's display name, synthesizing a
// placeholder when the metadata is missing that id.
func (pi *PermitInfo) DivisionName(id string) string {
	if pi != nil {
		if name, ok := pi.Divisions[id]; ok && name != "" {
			return name
		}
	}
	return fmt.Sprintf("Division %s", id)
}

// AvailableDivision is one division that survived aggregation, with only
// its matching dates.
type AvailableDivision struct {
	ID    string             `json:"-"`
	Name  string             `json:"name"`
	Dates []DateAvailability `json:"dates"`
}

// AggregateResult is the per-permit summary produced by Aggregate.
// TotalDivisions counts every division in the normalized input, whether
// or not it had matching dates.
type AggregateResult struct {
	AvailableDivisions int
	TotalDivisions     int
	Divisions          []AvailableDivision
}
