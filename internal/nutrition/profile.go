package nutrition

import (
	"strings"
	"time"
)

// Gender is the normalized gender used by the energy formulas. The zero
// value means the profile did not provide one.
type Gender string

const (
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderOther       Gender = "other"
	GenderUnspecified Gender = "unspecified"
)

var genderAliases = map[string]Gender{
	"male":       GenderMale,
	"m":          GenderMale,
	"man":        GenderMale,
	"female":     GenderFemale,
	"f":          GenderFemale,
	"woman":      GenderFemale,
	"other":      GenderOther,
	"non-binary": GenderOther,
	"nonbinary":  GenderOther,
	"non binary": GenderOther,
}

// NormalizeGender maps free text to a Gender. Empty input yields "";
// anything present but unrecognised yields GenderUnspecified.
func NormalizeGender(s string) Gender {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if g, ok := genderAliases[s]; ok {
		return g
	}
	return GenderUnspecified
}

// Profile holds the biometric fields the calculators need. Zero numeric
// values mean "not provided".
type Profile struct {
	Age              int      `json:"age,omitempty"`
	Gender           Gender   `json:"gender,omitempty"`
	HeightInches     float64  `json:"height_inches,omitempty"`
	WeightLbs        float64  `json:"weight_lbs,omitempty"`
	ActivityLevel    string   `json:"activity_level,omitempty"`
	HealthConditions []string `json:"health_conditions,omitempty"`
	DietaryPattern   string   `json:"dietary_pattern,omitempty"`
}

const (
	cmPerInch = 2.54
	kgPerLb   = 0.453592
	maxAge    = 130
)

// WeightKg returns the profile weight in kilograms.
func (p Profile) WeightKg() float64 { return p.WeightLbs * kgPerLb }

// HeightCm returns the profile height in centimeters.
func (p Profile) HeightCm() float64 { return p.HeightInches * cmPerInch }

// NormalizeProfile extracts a Profile from a loosely typed profile document
// (as decoded from JSON). now anchors birthday-based age derivation.
// Unparseable fields are left at their zero value; the calculators decide
// whether what remains is enough.
func NormalizeProfile(doc map[string]any, now time.Time) Profile {
	var p Profile
	if doc == nil {
		return p
	}

	p.Age = profileAge(doc, now)
	p.Gender = NormalizeGender(stringField(doc, "gender", "sex"))
	p.HeightInches = profileHeightInches(doc)
	p.WeightLbs = profileWeightLbs(doc)
	p.ActivityLevel = NormalizeActivityLevel(stringField(doc, "activityLevel", "activity_level"))
	p.HealthConditions = stringList(firstPresent(doc, "healthConditions", "health_conditions"))
	p.DietaryPattern = strings.TrimSpace(stringField(doc, "dietaryPattern", "dietary_pattern"))
	return p
}

func profileAge(doc map[string]any, now time.Time) int {
	if v := firstPresent(doc, "age"); v != nil {
		if f, ok := toFloat(v); ok && f > 0 && f <= maxAge {
			return int(f)
		}
	}
	raw := stringField(doc, "birthday", "dateOfBirth", "date_of_birth")
	if raw == "" {
		return 0
	}
	dob, ok := parseDate(raw)
	if !ok {
		return 0
	}
	age := now.Year() - dob.Year()
	if now.Before(dob.AddDate(age, 0, 0)) {
		age--
	}
	if age <= 0 || age > maxAge {
		return 0
	}
	return age
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func profileHeightInches(doc map[string]any) float64 {
	if v := firstPresent(doc, "height"); v != nil {
		if in := heightValueInches(v); in > 0 {
			return in
		}
	}
	if f, ok := toFloat(firstPresent(doc, "heightInches", "height_inches")); ok && f > 0 {
		return f
	}
	if f, ok := toFloat(firstPresent(doc, "heightCm", "height_cm")); ok && f > 0 {
		return f / cmPerInch
	}
	return 0
}

// heightValueInches reads {feet, inches}, {value, unit}, or a bare number
// of inches.
func heightValueInches(v any) float64 {
	m, isMap := v.(map[string]any)
	if !isMap {
		if f, ok := toFloat(v); ok && f > 0 {
			return f
		}
		return 0
	}
	if _, hasFeet := m["feet"]; hasFeet {
		feet, _ := toFloat(m["feet"])
		inches, _ := toFloat(m["inches"])
		total := feet*12 + inches
		if feet < 0 || inches < 0 || total <= 0 {
			return 0
		}
		return total
	}
	f, ok := toFloat(m["value"])
	if !ok || f <= 0 {
		return 0
	}
	switch strings.ToLower(strings.TrimSpace(CoerceString(m["unit"]))) {
	case "cm", "centimeter", "centimeters":
		return f / cmPerInch
	case "", "in", "inch", "inches":
		return f
	default:
		return 0
	}
}

func profileWeightLbs(doc map[string]any) float64 {
	if v := firstPresent(doc, "weight"); v != nil {
		if lbs := weightValueLbs(v); lbs > 0 {
			return lbs
		}
	}
	if f, ok := toFloat(firstPresent(doc, "weightLbs", "weight_lbs")); ok && f > 0 {
		return f
	}
	if f, ok := toFloat(firstPresent(doc, "weightKg", "weight_kg")); ok && f > 0 {
		return f / kgPerLb
	}
	return 0
}

func weightValueLbs(v any) float64 {
	m, isMap := v.(map[string]any)
	if !isMap {
		if f, ok := toFloat(v); ok && f > 0 {
			return f
		}
		return 0
	}
	f, ok := toFloat(m["value"])
	if !ok || f <= 0 {
		return 0
	}
	switch strings.ToLower(strings.TrimSpace(CoerceString(m["unit"]))) {
	case "kg", "kgs", "kilogram", "kilograms":
		return f / kgPerLb
	case "", "lb", "lbs", "pound", "pounds":
		return f
	default:
		return 0
	}
}

func firstPresent(doc map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := doc[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringField(doc map[string]any, keys ...string) string {
	return strings.TrimSpace(CoerceString(firstPresent(doc, keys...)))
}

// CoerceString returns v when it is a string and "" otherwise.
func CoerceString(v any) string {
	s, _ := v.(string)
	return s
}

// stringList accepts []any, []string, or a comma-separated string.
func stringList(v any) []string {
	var raw []string
	switch t := v.(type) {
	case []string:
		raw = t
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case string:
		raw = strings.Split(t, ",")
	}
	var out []string
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
