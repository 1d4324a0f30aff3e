package nutrition

// ProgressBar is the pair of percentages shown for one nutrient: what has
// been consumed today and what the candidate meal would add. Each percent is
// clamped to [0, 100] on its own; together they may exceed 100.
type ProgressBar struct {
	Nutrient       string  `json:"nutrient"`
	Label          string  `json:"label"`
	Unit           string  `json:"unit"`
	Target         float64 `json:"target"`
	Current        float64 `json:"current"`
	Meal           float64 `json:"meal"`
	CurrentPercent float64 `json:"current_percent"`
	MealPercent    float64 `json:"meal_percent"`
}

// SumNutrients adds item snapshots into one total.
func SumNutrients(items ...Nutrients) Nutrients {
	total := Nutrients{}
	for _, it := range items {
		for k, v := range it {
			total[k] += v
		}
	}
	return total
}

// SumTemplate totals the nutrient snapshots of a template's items.
func SumTemplate(t MealTemplate) Nutrients {
	snapshots := make([]Nutrients, 0, len(t.Items))
	for _, it := range t.Items {
		snapshots = append(snapshots, it.Nutrients)
	}
	return SumNutrients(snapshots...)
}

// ComputeProgress returns one bar per enabled target with a positive value,
// in catalog order. Nutrients with a zero or missing target get no bar.
func ComputeProgress(targets Metrics, consumed, meal Nutrients) []ProgressBar {
	bars := []ProgressBar{}
	for _, id := range targets.orderedIDs() {
		metric := targets[id]
		if !metric.Enabled || !(metric.Target > 0) {
			continue
		}
		current := consumed[id]
		mealValue := meal[id]
		bars = append(bars, ProgressBar{
			Nutrient:       id,
			Label:          NutrientLabel(id),
			Unit:           metric.Unit,
			Target:         metric.Target,
			Current:        current,
			Meal:           mealValue,
			CurrentPercent: percentOf(current, metric.Target),
			MealPercent:    percentOf(mealValue, metric.Target),
		})
	}
	return bars
}

func percentOf(value, target float64) float64 {
	p := 100 * value / target
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
