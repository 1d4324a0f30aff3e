package nutrition

import (
	"sort"
	"strings"
)

// houseSeparator joins co-resident houses in a single raw location name,
// e.g. "Dunster and Mather House".
const houseSeparator = " and "

// houseNames maps a normalized base form (see baseKey) to the authoritative
// display name. Hall and House spellings share a key, so "Annenberg House"
// resolves to "Annenberg Hall" and "Quincy Hall" to "Quincy House".
var houseNames = map[string]string{
	"adams":       "Adams House",
	"cabot":       "Cabot House",
	"currier":     "Currier House",
	"dunster":     "Dunster House",
	"eliot":       "Eliot House",
	"kirkland":    "Kirkland House",
	"leverett":    "Leverett House",
	"lowell":      "Lowell House",
	"mather":      "Mather House",
	"pforzheimer": "Pforzheimer House",
	"quincy":      "Quincy House",
	"winthrop":    "Winthrop House",
	"annenberg":   "Annenberg Hall",
}

// RawLocation is a location record as published by the dining feed.
type RawLocation struct {
	Number string `json:"location_number"`
	Name   string `json:"location_name"`
}

// Location is a normalized, single-house location.
type Location struct {
	Number        string `json:"number"`
	CanonicalName string `json:"canonical_name"`
	OriginalName  string `json:"original_name"`
}

// baseKey collapses whitespace, strips a trailing "House" or "Hall" token,
// and lowercases.
func baseKey(name string) string {
	fields := strings.Fields(name)
	if n := len(fields); n > 1 {
		last := strings.ToLower(fields[n-1])
		if last == "house" || last == "hall" {
			fields = fields[:n-1]
		}
	}
	return strings.ToLower(strings.Join(fields, " "))
}

// CanonicalHouseName returns the authoritative display name for name when
// its base form is a known house or hall, and the trimmed input otherwise.
// It is idempotent.
func CanonicalHouseName(name string) string {
	if canonical, ok := houseNames[baseKey(name)]; ok {
		return canonical
	}
	return strings.TrimSpace(name)
}

// IsKnownHouse reports whether name resolves to a house or hall.
func IsKnownHouse(name string) bool {
	_, ok := houseNames[baseKey(name)]
	return ok
}

// SplitHouses splits a raw location name on the " and " separator.
// Empty pieces are dropped.
func SplitHouses(rawName string) []string {
	var out []string
	for _, part := range strings.Split(rawName, houseSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NormalizeLocations expands multi-house records, canonicalizes each name,
// deduplicates by (canonical name, number), and sorts by canonical name.
// The first record seen for a pair supplies OriginalName.
func NormalizeLocations(raw []RawLocation) []Location {
	type key struct{ name, number string }
	seen := make(map[key]bool)
	out := make([]Location, 0, len(raw))

	for _, r := range raw {
		number := strings.TrimSpace(r.Number)
		for _, part := range SplitHouses(r.Name) {
			canonical := CanonicalHouseName(part)
			k := key{canonical, number}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, Location{
				Number:        number,
				CanonicalName: canonical,
				OriginalName:  r.Name,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CanonicalName != out[j].CanonicalName {
			return out[i].CanonicalName < out[j].CanonicalName
		}
		return out[i].Number < out[j].Number
	})
	return out
}
