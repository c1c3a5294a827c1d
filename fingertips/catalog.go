// ABOUTME: Static catalog of diabetes care indicators published by the Fingertips service.
// ABOUTME: Lookup degrades to a generic placeholder for unknown ids instead of failing.

package fingertips

import "sort"

// Indicator describes one health-care-quality metric.
type Indicator struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// catalog holds the eight diabetes indicators the dashboard covers.
var catalog = map[int]Indicator{
	94146: {94146, "Type 1 - All 9 care processes", "% receiving all annual checks"},
	94147: {94147, "Type 2 - All 9 care processes", "% receiving all annual checks"},
	94148: {94148, "Type 1 - Retinal screening", "% getting eye exams (prevents blindness)"},
	94149: {94149, "Type 2 - Retinal screening", "% getting eye exams"},
	94150: {94150, "Type 1 - All 3 treatment targets", "% with HbA1c, BP & cholesterol under control"},
	94151: {94151, "Type 2 - All 3 treatment targets", "% with HbA1c, BP & cholesterol under control"},
	94152: {94152, "Type 1 - Statin prescription", "% prescribed statins for heart disease prevention"},
	94153: {94153, "Type 2 - Statin prescription", "% prescribed statins for heart disease prevention"},
}

// Lookup returns the indicator for the given id. Unknown ids return a
// placeholder so downstream prompt construction never fails on a stale or
// novel id.
func Lookup(id int) Indicator {
	if ind, ok := catalog[id]; ok {
		return ind
	}
	return Indicator{
		ID:          id,
		Name:        "Health indicator",
		Description: "a health care quality indicator",
	}
}

// Known reports whether the id is in the catalog.
func Known(id int) bool {
	_, ok := catalog[id]
	return ok
}

// Catalog returns all indicators ordered by id.
func Catalog() []Indicator {
	out := make([]Indicator, 0, len(catalog))
	for _, ind := range catalog {
		out = append(out, ind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
