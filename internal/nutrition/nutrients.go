// Package nutrition derives personalized daily nutrient targets from a user
// profile, checks them against safety floors, normalizes dining locations,
// matches saved meal templates against a day's menu, and aggregates progress
// toward goals. Everything here is pure: no I/O, no shared mutable state.
package nutrition

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Nutrient ids used as keys in Metrics and Nutrients.
const (
	Calories      = "calories"
	Protein       = "protein"
	Carbohydrates = "carbohydrates"
	Fat           = "fat"
	Fiber         = "fiber"
	Sodium        = "sodium"
	Cholesterol   = "cholesterol"
	SaturatedFat  = "saturated_fat"
	TransFat      = "trans_fat"
)

// nutrientInfo describes a nutrient's display label and canonical unit.
type nutrientInfo struct {
	ID    string
	Label string
	Unit  string
}

// catalog is the fixed display order for nutrients. Progress bars and
// generated presets follow this order.
var catalog = []nutrientInfo{
	{Calories, "Calories", "kcal"},
	{Protein, "Protein", "g"},
	{Carbohydrates, "Carbohydrates", "g"},
	{Fat, "Fat", "g"},
	{Fiber, "Fiber", "g"},
	{Sodium, "Sodium", "mg"},
	{Cholesterol, "Cholesterol", "mg"},
	{SaturatedFat, "Saturated Fat", "g"},
	{TransFat, "Trans Fat", "g"},
}

func lookupNutrient(id string) (nutrientInfo, bool) {
	for _, n := range catalog {
		if n.ID == id {
			return n, true
		}
	}
	return nutrientInfo{}, false
}

// NutrientLabel returns the display label for id, or id itself when unknown.
func NutrientLabel(id string) string {
	if n, ok := lookupNutrient(id); ok {
		return n.Label
	}
	return id
}

// NutrientUnit returns the canonical unit for id, or "" when unknown.
func NutrientUnit(id string) string {
	if n, ok := lookupNutrient(id); ok {
		return n.Unit
	}
	return ""
}

// Metric is one daily target inside a nutrition plan.
type Metric struct {
	Target  float64 `json:"target"`
	Unit    string  `json:"unit"`
	Enabled bool    `json:"enabled"`
}

// Metrics maps nutrient id to its target.
type Metrics map[string]Metric

// orderedIDs returns the keys of m in catalog order, followed by any
// unknown ids sorted alphabetically.
func (m Metrics) orderedIDs() []string {
	ids := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, n := range catalog {
		if _, ok := m[n.ID]; ok {
			ids = append(ids, n.ID)
			seen[n.ID] = true
		}
	}
	var rest []string
	for id := range m {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(ids, rest...)
}

// Clone returns a copy of m that shares nothing with it.
func (m Metrics) Clone() Metrics {
	out := make(Metrics, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Nutrients is an additive bag of nutrient amounts keyed by nutrient id,
// in the nutrient's canonical unit.
type Nutrients map[string]float64

// feedNutrientKeys maps the dining feed's recipe field names onto nutrient
// ids, so a snapshot copied straight from a recipe aggregates correctly.
var feedNutrientKeys = map[string]string{
	"total_fat":          Fat,
	"total_carbohydrate": Carbohydrates,
	"dietary_fiber":      Fiber,
}

// UnmarshalJSON decodes a snapshot whose amounts may be numbers or numeric
// strings. Non-numeric amounts become zero, and anything other than an
// object decodes to nil. Feed field names are accepted alongside nutrient ids.
func (n *Nutrients) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil || raw == nil {
		*n = nil
		return nil
	}
	out := make(Nutrients, len(raw))
	for key, v := range raw {
		id := strings.ToLower(strings.TrimSpace(key))
		if alias, ok := feedNutrientKeys[id]; ok {
			id = alias
		}
		out[id] += CoerceNumber(v)
	}
	*n = out
	return nil
}

// Add returns the element-wise sum of n and other without modifying either.
func (n Nutrients) Add(other Nutrients) Nutrients {
	out := make(Nutrients, len(n)+len(other))
	for k, v := range n {
		out[k] += v
	}
	for k, v := range other {
		out[k] += v
	}
	return out
}

// Number is a float64 that decodes from a JSON number or a numeric string.
// Anything else (null, "", "n/a", objects) decodes to zero without error.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = 0
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	if f, ok := toFloat(v); ok {
		*n = Number(f)
	}
	return nil
}

// Float returns n as a float64.
func (n Number) Float() float64 { return float64(n) }

// toFloat coerces loosely typed numeric values. The bool result is false
// when v is not numeric.
func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CoerceNumber returns v as a float64, treating non-numeric or missing
// values as zero.
func CoerceNumber(v any) float64 {
	f, _ := toFloat(v)
	return f
}
