package nutrition

import (
	"math"
	"strings"
)

// PresetID names a bundle of daily targets.
type PresetID string

const (
	PresetBalanced     PresetID = "balanced"
	PresetHighProtein  PresetID = "high-protein"
	PresetLowSodium    PresetID = "low-sodium"
	PresetHeartHealthy PresetID = "heart-healthy"
	PresetCustom       PresetID = "custom"
)

// Presets lists the generated presets in display order.
var Presets = []PresetID{PresetBalanced, PresetHighProtein, PresetLowSodium, PresetHeartHealthy}

// ParsePresetID validates s. Unknown ids return ok=false.
func ParsePresetID(s string) (PresetID, bool) {
	id := PresetID(strings.ToLower(strings.TrimSpace(s)))
	switch id {
	case PresetBalanced, PresetHighProtein, PresetLowSodium, PresetHeartHealthy, PresetCustom:
		return id, true
	}
	return "", false
}

var presetLabels = map[PresetID]string{
	PresetBalanced:     "Balanced",
	PresetHighProtein:  "High Protein",
	PresetLowSodium:    "Low Sodium",
	PresetHeartHealthy: "Heart Healthy",
	PresetCustom:       "Custom",
}

const (
	minDailyCalories   = 1200
	highProteinSurplus = 300
	fiberAgeBand       = 50
)

// presetParams are the per-preset knobs of the personalized formulas.
type presetParams struct {
	calorieAdjust    float64
	proteinPerKg     float64
	carbShare        float64
	fatShare         float64
	lowSodium        bool
	heartHealthy     bool
	saturatedFatCeil float64
	transFatCeil     *float64
}

var zeroGrams = 0.0

var presetTable = map[PresetID]presetParams{
	PresetBalanced: {
		proteinPerKg: 1.6, carbShare: 0.50, fatShare: 0.30, saturatedFatCeil: 20,
	},
	PresetHighProtein: {
		calorieAdjust: highProteinSurplus, proteinPerKg: 2.2, carbShare: 0.40, fatShare: 0.30, saturatedFatCeil: 22,
	},
	PresetLowSodium: {
		proteinPerKg: 1.6, carbShare: 0.45, fatShare: 0.30, lowSodium: true, saturatedFatCeil: 20,
	},
	PresetHeartHealthy: {
		proteinPerKg: 1.6, carbShare: 0.45, fatShare: 0.25, lowSodium: true, heartHealthy: true,
		saturatedFatCeil: 13, transFatCeil: &zeroGrams,
	},
}

// defaultTargets is the non-personalized table used when the profile cannot
// be personalized and when the user picks "custom" (seeded from balanced).
var defaultTargets = map[PresetID]map[string]float64{
	PresetBalanced: {
		Calories: 2000, Protein: 50, Carbohydrates: 250, Fat: 67,
		Fiber: 28, Sodium: 2300, Cholesterol: 300, SaturatedFat: 20,
	},
	PresetHighProtein: {
		Calories: 2300, Protein: 120, Carbohydrates: 230, Fat: 77,
		Fiber: 28, Sodium: 2300, Cholesterol: 300, SaturatedFat: 22,
	},
	PresetLowSodium: {
		Calories: 2000, Protein: 50, Carbohydrates: 225, Fat: 67,
		Fiber: 28, Sodium: 1500, Cholesterol: 300, SaturatedFat: 20,
	},
	PresetHeartHealthy: {
		Calories: 2000, Protein: 50, Carbohydrates: 225, Fat: 56,
		Fiber: 28, Sodium: 1500, Cholesterol: 200, SaturatedFat: 13,
	},
}

// fiberRDA is grams/day by gender, under and at-or-over fiberAgeBand.
var fiberRDA = map[Gender][2]float64{
	GenderMale:   {38, 30},
	GenderFemale: {25, 21},
	GenderOther:  {31, 25},
}

var (
	bloodPressureKeywords = []string{"blood pressure", "hypertension", "hypertensive", "high bp"}
	cholesterolKeywords   = []string{"cholesterol", "heart", "cardiac", "cardiovascular"}
)

// PresetTargets is one generated preset.
type PresetTargets struct {
	ID           PresetID `json:"id"`
	Label        string   `json:"label"`
	Personalized bool     `json:"personalized"`
	Metrics      Metrics  `json:"metrics"`
}

// GeneratePresets returns every preset for p in display order.
func GeneratePresets(p Profile) []PresetTargets {
	out := make([]PresetTargets, 0, len(Presets))
	for _, id := range Presets {
		out = append(out, GeneratePreset(id, p))
	}
	return out
}

// GeneratePreset derives the targets for one preset. When energy cannot be
// computed from p, or id is custom or unknown, the literal default table is
// used instead.
func GeneratePreset(id PresetID, p Profile) PresetTargets {
	params, known := presetTable[id]
	energy, err := ComputeEnergy(p)
	if !known || err != nil {
		return DefaultPreset(id)
	}

	calories := math.Max(minDailyCalories, float64(energy.TDEE)+params.calorieAdjust)
	kg := p.WeightKg()

	values := map[string]float64{
		Calories:      calories,
		Protein:       kg * params.proteinPerKg,
		Carbohydrates: calories * params.carbShare / 4,
		Fat:           calories * params.fatShare / 9,
		Fiber:         fiberTarget(p.Gender, p.Age),
		Sodium:        sodiumTarget(params, p.HealthConditions),
		Cholesterol:   cholesterolTarget(params, p.HealthConditions),
	}
	if params.saturatedFatCeil > 0 {
		values[SaturatedFat] = params.saturatedFatCeil
	}
	if params.transFatCeil != nil {
		values[TransFat] = *params.transFatCeil
	}

	return PresetTargets{
		ID:           id,
		Label:        presetLabels[id],
		Personalized: true,
		Metrics:      buildMetrics(values),
	}
}

// DefaultPreset returns the non-personalized targets for id. Custom and
// unknown ids get the balanced table under their own id.
func DefaultPreset(id PresetID) PresetTargets {
	values, ok := defaultTargets[id]
	if !ok {
		values = defaultTargets[PresetBalanced]
	}
	label, ok := presetLabels[id]
	if !ok {
		id, label = PresetCustom, presetLabels[PresetCustom]
	}
	return PresetTargets{ID: id, Label: label, Metrics: buildMetrics(values)}
}

// buildMetrics rounds each value and drops any that round to zero.
func buildMetrics(values map[string]float64) Metrics {
	m := make(Metrics, len(values))
	for id, v := range values {
		target := math.Round(v)
		if target <= 0 {
			continue
		}
		m[id] = Metric{Target: target, Unit: NutrientUnit(id), Enabled: true}
	}
	return m
}

func fiberTarget(g Gender, age int) float64 {
	band, ok := fiberRDA[g]
	if !ok {
		band = fiberRDA[GenderOther]
	}
	if age < fiberAgeBand {
		return band[0]
	}
	return band[1]
}

func sodiumTarget(params presetParams, conditions []string) float64 {
	if params.lowSodium || mentionsAny(conditions, bloodPressureKeywords) {
		return 1500
	}
	return 2300
}

func cholesterolTarget(params presetParams, conditions []string) float64 {
	if params.heartHealthy || mentionsAny(conditions, cholesterolKeywords) {
		return 200
	}
	return 300
}

func mentionsAny(tags []string, keywords []string) bool {
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}
