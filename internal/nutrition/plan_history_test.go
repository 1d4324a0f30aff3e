package nutrition

import (
	"errors"
	"testing"
	"time"
)

func samplePlan(calories float64) NutritionPlan {
	return NutritionPlan{
		Preset: PresetBalanced,
		Metrics: Metrics{
			Calories: enabled(calories, "kcal"),
			Fiber:    {Target: 30, Unit: "g", Enabled: false},
		},
	}
}

// TestPlanHistory_AppendIsCopyOnWrite verifies appends never change an
// existing history value and always activate the new version.
func TestPlanHistory_AppendIsCopyOnWrite(t *testing.T) {
	var empty PlanHistory
	empty.active = -1
	if _, ok := empty.Active(); ok {
		t.Fatal("expected empty history to have no active version")
	}

	h1, v1 := NewPlanHistory(nil, 0).Append(samplePlan(2000), fixedNow)
	if v1.Version != 1 {
		t.Errorf("first version = %d, want 1", v1.Version)
	}
	if _, ok := v1.Plan.Metrics[Fiber]; ok {
		t.Error("expected disabled metric not to be stored")
	}

	h2, v2 := h1.Append(samplePlan(2200), fixedNow.Add(time.Hour))
	if v2.Version != 2 || h2.Len() != 2 {
		t.Errorf("second append = v%d len %d", v2.Version, h2.Len())
	}
	if h1.Len() != 1 {
		t.Errorf("original history grew to %d", h1.Len())
	}
	active, _ := h2.Active()
	if active.Version != 2 {
		t.Errorf("active = v%d, want v2", active.Version)
	}
}

func TestPlanHistory_Activate(t *testing.T) {
	h, _ := NewPlanHistory(nil, 0).Append(samplePlan(2000), fixedNow)
	h, _ = h.Append(samplePlan(1800), fixedNow)

	rolled, err := h.Activate(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	active, _ := rolled.Active()
	if active.Version != 1 || active.Plan.Metrics[Calories].Target != 2000 {
		t.Errorf("active = %+v, want version 1", active)
	}
	if latest, _ := h.Active(); latest.Version != 2 {
		t.Error("Activate modified its receiver")
	}
	if rolled.NextVersion() != 3 {
		t.Errorf("NextVersion = %d, want 3", rolled.NextVersion())
	}

	if _, err := h.Activate(9); !errors.Is(err, ErrPlanVersionNotFound) {
		t.Errorf("expected ErrPlanVersionNotFound, got %v", err)
	}
}

func TestNewPlanHistory_ActivePointer(t *testing.T) {
	versions := []PlanVersion{
		{Version: 1, Plan: samplePlan(2000)},
		{Version: 2, Plan: samplePlan(2100)},
		{Version: 3, Plan: samplePlan(2200)},
	}
	h := NewPlanHistory(versions, 2)
	if active, _ := h.Active(); active.Version != 2 {
		t.Errorf("active = v%d, want v2", active.Version)
	}
	// An unknown pointer falls back to the latest snapshot.
	if active, _ := NewPlanHistory(versions, 0).Active(); active.Version != 3 {
		t.Errorf("active = v%d, want v3", active.Version)
	}
	// Rebuilt histories do not alias caller-owned metrics.
	versions[0].Plan.Metrics[Calories] = enabled(1, "kcal")
	if got := h.Versions()[0].Plan.Metrics[Calories].Target; got != 2000 {
		t.Errorf("stored snapshot changed to %v", got)
	}
}
