package nutrition

import (
	"fmt"
	"time"
)

// NutritionPlan is a saved set of daily targets.
type NutritionPlan struct {
	Preset  PresetID `json:"preset"`
	Metrics Metrics  `json:"metrics"`
}

// PlanVersion is one immutable snapshot in a user's plan history.
type PlanVersion struct {
	Version   int           `json:"version"`
	Plan      NutritionPlan `json:"plan"`
	CreatedAt time.Time     `json:"created_at"`
}

// PlanHistory is an append-only arena of plan snapshots with a pointer to
// the active one. Methods never modify the receiver; they return a new
// history that shares the immutable snapshots.
type PlanHistory struct {
	versions []PlanVersion
	active   int // index into versions, -1 when empty
}

// NewPlanHistory rebuilds a history from stored versions (ascending by
// Version) and the active version number. An unknown activeVersion points
// at the latest snapshot.
func NewPlanHistory(versions []PlanVersion, activeVersion int) PlanHistory {
	h := PlanHistory{versions: make([]PlanVersion, len(versions)), active: len(versions) - 1}
	for i, v := range versions {
		v.Plan.Metrics = v.Plan.Metrics.Clone()
		h.versions[i] = v
		if v.Version == activeVersion {
			h.active = i
		}
	}
	return h
}

// Len returns the number of stored versions.
func (h PlanHistory) Len() int { return len(h.versions) }

// Versions returns a copy of every snapshot, oldest first.
func (h PlanHistory) Versions() []PlanVersion {
	out := make([]PlanVersion, len(h.versions))
	copy(out, h.versions)
	return out
}

// Active returns the active snapshot; ok is false for an empty history.
func (h PlanHistory) Active() (PlanVersion, bool) {
	if h.active < 0 || h.active >= len(h.versions) {
		return PlanVersion{}, false
	}
	return h.versions[h.active], true
}

// NextVersion is the version number Append will assign.
func (h PlanHistory) NextVersion() int {
	if len(h.versions) == 0 {
		return 1
	}
	return h.versions[len(h.versions)-1].Version + 1
}

// Append adds plan as a new snapshot and makes it active. Disabled metrics
// are not stored.
func (h PlanHistory) Append(plan NutritionPlan, at time.Time) (PlanHistory, PlanVersion) {
	stored := NutritionPlan{Preset: plan.Preset, Metrics: make(Metrics, len(plan.Metrics))}
	for id, m := range plan.Metrics {
		if m.Enabled {
			stored.Metrics[id] = m
		}
	}
	v := PlanVersion{Version: h.NextVersion(), Plan: stored, CreatedAt: at}

	next := PlanHistory{versions: make([]PlanVersion, len(h.versions), len(h.versions)+1)}
	copy(next.versions, h.versions)
	next.versions = append(next.versions, v)
	next.active = len(next.versions) - 1
	return next, v
}

// Activate moves the active pointer to version without touching any
// snapshot.
func (h PlanHistory) Activate(version int) (PlanHistory, error) {
	for i, v := range h.versions {
		if v.Version == version {
			next := PlanHistory{versions: h.versions, active: i}
			return next, nil
		}
	}
	return h, fmt.Errorf("%w: version %d", ErrPlanVersionNotFound, version)
}
