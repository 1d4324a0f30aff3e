package nutrition

import (
	"math"
	"strings"
)

// Activity tiers, from least to most active.
const (
	Sedentary        = "sedentary"
	LightlyActive    = "lightly-active"
	ModeratelyActive = "moderately-active"
	VeryActive       = "very-active"
	ExtremelyActive  = "extremely-active"
)

// activityMultipliers maps each activity tier to its TDEE multiplier.
// Unknown tiers fall back to the sedentary multiplier.
var activityMultipliers = map[string]float64{
	Sedentary:        1.2,
	LightlyActive:    1.375,
	ModeratelyActive: 1.55,
	VeryActive:       1.725,
	ExtremelyActive:  1.9,
}

var activityAliases = map[string]string{
	"light":        LightlyActive,
	"moderate":     ModeratelyActive,
	"extra-active": ExtremelyActive,
}

// NormalizeActivityLevel lowercases s and folds underscores and spaces to
// hyphens. Known aliases map to their tier; unknown values pass through so
// the multiplier lookup can default them.
func NormalizeActivityLevel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	if tier, ok := activityAliases[s]; ok {
		return tier
	}
	return s
}

// IsActivityLevel reports whether s names one of the five tiers.
func IsActivityLevel(s string) bool {
	_, ok := activityMultipliers[NormalizeActivityLevel(s)]
	return ok
}

// ActivityMultiplier returns the TDEE multiplier for level, defaulting to
// the sedentary multiplier.
func ActivityMultiplier(level string) float64 {
	if m, ok := activityMultipliers[NormalizeActivityLevel(level)]; ok {
		return m
	}
	return activityMultipliers[Sedentary]
}

// Energy is the calculator's output in whole kcal/day.
type Energy struct {
	BMR  int `json:"bmr"`
	TDEE int `json:"tdee"`
}

// ComputeEnergy computes BMR (Mifflin-St Jeor) and TDEE for p. It returns an
// *InsufficientInputError when age, gender, height, or weight is missing or
// non-positive rather than computing from placeholder values.
func ComputeEnergy(p Profile) (Energy, error) {
	var missing []string
	if p.Age <= 0 {
		missing = append(missing, "age")
	}
	if p.Gender == "" {
		missing = append(missing, "gender")
	}
	if !(p.HeightInches > 0) {
		missing = append(missing, "height")
	}
	if !(p.WeightLbs > 0) {
		missing = append(missing, "weight")
	}
	if len(missing) > 0 {
		return Energy{}, &InsufficientInputError{Missing: missing}
	}

	base := 10*p.WeightKg() + 6.25*p.HeightCm() - 5*float64(p.Age)
	var bmrF float64
	switch p.Gender {
	case GenderMale:
		bmrF = base + 5
	case GenderFemale:
		bmrF = base - 161
	default:
		// Mean of the male and female formulas.
		bmrF = ((base + 5) + (base - 161)) / 2
	}

	bmr := int(math.Round(bmrF))
	tdee := int(math.Round(float64(bmr) * ActivityMultiplier(p.ActivityLevel)))
	return Energy{BMR: bmr, TDEE: tdee}, nil
}
