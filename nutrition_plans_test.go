package main

import (
	"testing"
	"time"

	"github.com/cs1060f25/nutri-project-sub001/internal/nutrition"
)

func TestResolveTargets(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	doc := map[string]any{
		"age":           22,
		"gender":        "female",
		"height":        map[string]any{"feet": 5, "inches": 5},
		"weight":        map[string]any{"value": 140, "unit": "lbs"},
		"activityLevel": "lightly active",
	}
	saved := nutrition.PlanVersion{
		Version: 2,
		Plan: nutrition.NutritionPlan{Preset: nutrition.PresetCustom, Metrics: nutrition.Metrics{
			nutrition.Calories: {Target: 1800, Unit: "kcal", Enabled: true},
		}},
		CreatedAt: now,
	}

	cases := []struct {
		name         string
		history      nutrition.PlanHistory
		doc          map[string]any
		wantSource   string
		wantCalories float64
	}{
		{"active plan wins", nutrition.NewPlanHistory([]nutrition.PlanVersion{saved}, 2), doc, "plan", 1800},
		{"balanced preset for a complete profile", nutrition.NewPlanHistory(nil, 0), doc, "preset", 1920},
		{"defaults for an empty profile", nutrition.NewPlanHistory(nil, 0), map[string]any{}, "default", 2000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveTargets(tc.history, tc.doc, now)
			if got.Source != tc.wantSource {
				t.Errorf("source = %q, want %q", got.Source, tc.wantSource)
			}
			if c := got.Metrics[nutrition.Calories].Target; c != tc.wantCalories {
				t.Errorf("calories = %v, want %v", c, tc.wantCalories)
			}
			if (got.Version != nil) != (tc.wantSource == "plan") {
				t.Errorf("version = %v for source %q", got.Version, got.Source)
			}
		})
	}
}
