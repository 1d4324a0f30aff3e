package nutrition

import (
	"sort"
	"strings"
)

// TemplateItem is one selected menu item inside a saved meal template,
// with the nutrient snapshot taken when it was saved.
type TemplateItem struct {
	Name      string    `json:"name"`
	Nutrients Nutrients `json:"nutrients,omitempty"`
}

// MealTemplate is the part of a saved meal plan the matcher needs.
type MealTemplate struct {
	MealType string         `json:"meal_type"`
	Items    []TemplateItem `json:"items"`
}

// Availability says whether a template can be assembled from a day's menu.
type Availability struct {
	CanMake             bool     `json:"canMake"`
	MatchingMealPeriods []string `json:"matchingMealPeriods"`
}

// MenuIndex is a day's menu flattened for matching. Build it once with
// IndexMenu and reuse it across templates.
type MenuIndex struct {
	recipes  []string
	byPeriod map[string][]string
}

// IndexMenu flattens menu into the lowercased recipe names served that day
// and the set of meal periods being served. Unnamed recipes are ignored.
func IndexMenu(menu DayMenu) MenuIndex {
	idx := MenuIndex{byPeriod: make(map[string][]string)}
	all := make(map[string]bool)
	periodSeen := make(map[string]map[string]bool)

	for _, periods := range menu {
		for period, categories := range periods {
			period = NormalizeMealPeriod(period)
			if period == "" {
				continue
			}
			for _, recipes := range categories {
				for _, r := range recipes {
					name := matchKey(r.Name)
					if name == "" {
						continue
					}
					if periodSeen[period] == nil {
						periodSeen[period] = make(map[string]bool)
					}
					if !periodSeen[period][name] {
						periodSeen[period][name] = true
						idx.byPeriod[period] = append(idx.byPeriod[period], name)
					}
					if !all[name] {
						all[name] = true
						idx.recipes = append(idx.recipes, name)
					}
				}
			}
		}
	}
	sort.Strings(idx.recipes)
	for _, names := range idx.byPeriod {
		sort.Strings(names)
	}
	return idx
}

// Empty reports whether the index holds no servable recipes.
func (idx MenuIndex) Empty() bool { return len(idx.recipes) == 0 }

// Serves reports whether period is being served at all.
func (idx MenuIndex) Serves(period string) bool {
	return len(idx.byPeriod[NormalizeMealPeriod(period)]) > 0
}

// Periods returns the served meal periods, sorted.
func (idx MenuIndex) Periods() []string {
	out := make([]string, 0, len(idx.byPeriod))
	for p := range idx.byPeriod {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Has reports whether any recipe served that day matches item.
func (idx MenuIndex) Has(item string) bool {
	return anyMatch(idx.recipes, matchKey(item))
}

// MatchTemplate decides whether every item in t is obtainable from the
// indexed menu. The template's meal period must be served, and each item
// must match some recipe under a case-insensitive substring test in either
// direction, so "Grilled Chicken" matches "Grilled Chicken Breast". This is
// a heuristic: short names like "Chicken" match any chicken dish.
//
// An empty menu, an empty template, or an unserved period yields
// CanMake=false. MatchingMealPeriods lists the served periods that carry at
// least one of the template's items.
func MatchTemplate(idx MenuIndex, t MealTemplate) Availability {
	result := Availability{MatchingMealPeriods: []string{}}
	if idx.Empty() || len(t.Items) == 0 {
		return result
	}

	wanted := make([]string, 0, len(t.Items))
	for _, item := range t.Items {
		wanted = append(wanted, matchKey(item.Name))
	}

	for _, period := range idx.Periods() {
		for _, w := range wanted {
			if anyMatch(idx.byPeriod[period], w) {
				result.MatchingMealPeriods = append(result.MatchingMealPeriods, period)
				break
			}
		}
	}

	if !idx.Serves(t.MealType) {
		return result
	}
	for _, item := range t.Items {
		if !idx.Has(item.Name) {
			return result
		}
	}
	result.CanMake = true
	return result
}

// CheckAvailability indexes menu and matches t against it.
func CheckAvailability(menu DayMenu, t MealTemplate) Availability {
	return MatchTemplate(IndexMenu(menu), t)
}

func matchKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// anyMatch applies the bidirectional substring test. An empty wanted name
// never matches.
func anyMatch(available []string, wanted string) bool {
	if wanted == "" {
		return false
	}
	for _, a := range available {
		if strings.Contains(a, wanted) || strings.Contains(wanted, a) {
			return true
		}
	}
	return false
}
