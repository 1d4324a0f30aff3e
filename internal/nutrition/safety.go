package nutrition

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// safetyFloor is an absolute minimum for a daily target.
type safetyFloor struct {
	ID      string
	Minimum float64
	Unit    string
}

// safetyFloors apply regardless of preset. Order is the order warnings are
// reported in.
var safetyFloors = []safetyFloor{
	{Calories, 1200, "kcal"},
	{Protein, 46, "g"},
	{Carbohydrates, 130, "g"},
	{Fat, 20, "g"},
	{Fiber, 14, "g"},
	{Sodium, 500, "mg"},
}

// SafetyWarning flags an enabled target below its safe minimum.
type SafetyWarning struct {
	Metric  string  `json:"metric"`
	Label   string  `json:"label"`
	Current float64 `json:"current"`
	Minimum float64 `json:"minimum"`
	Unit    string  `json:"unit"`
	Message string  `json:"message"`
}

// ValidateSafety returns one warning per enabled metric whose target is below
// the floor for that nutrient. Metrics in a different unit than the floor are
// not compared.
func ValidateSafety(m Metrics) []SafetyWarning {
	var warnings []SafetyWarning
	for _, floor := range safetyFloors {
		metric, ok := m[floor.ID]
		if !ok || !metric.Enabled {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(metric.Unit), floor.Unit) {
			continue
		}
		if metric.Target >= floor.Minimum {
			continue
		}
		label := NutrientLabel(floor.ID)
		warnings = append(warnings, SafetyWarning{
			Metric:  floor.ID,
			Label:   label,
			Current: metric.Target,
			Minimum: floor.Minimum,
			Unit:    floor.Unit,
			Message: fmt.Sprintf("%s target of %s %s is below the recommended minimum of %s %s.",
				label, formatAmount(metric.Target), floor.Unit, formatAmount(floor.Minimum), floor.Unit),
		})
	}
	return warnings
}

// SafetyReview is the outcome of checking a submission. Token identifies the
// exact metrics reviewed; resubmitting it acknowledges the warnings.
type SafetyReview struct {
	Warnings []SafetyWarning `json:"warnings"`
	Token    string          `json:"token"`
	Blocked  bool            `json:"blocked"`
}

// ReviewSubmission validates m and decides whether a save may proceed. A save
// with warnings is blocked unless ackToken equals the fingerprint of these
// same metrics; any edit changes the fingerprint and voids the acknowledgment.
func ReviewSubmission(m Metrics, ackToken string) SafetyReview {
	warnings := ValidateSafety(m)
	if warnings == nil {
		warnings = []SafetyWarning{}
	}
	token := MetricsFingerprint(m)
	return SafetyReview{
		Warnings: warnings,
		Token:    token,
		Blocked:  len(warnings) > 0 && ackToken != token,
	}
}

// MetricsFingerprint hashes the enabled entries of m in a stable order.
func MetricsFingerprint(m Metrics) string {
	h := sha256.New()
	for _, id := range m.orderedIDs() {
		metric := m[id]
		if !metric.Enabled {
			continue
		}
		fmt.Fprintf(h, "%s=%s %s;", id, strconv.FormatFloat(metric.Target, 'g', -1, 64), metric.Unit)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// MetricInput is a submitted target before validation. Target is left
// untyped so non-numeric input can be rejected with a precise error.
type MetricInput struct {
	Target  any    `json:"target"`
	Unit    string `json:"unit"`
	Enabled *bool  `json:"enabled"`
}

// ParseMetricsInput validates submitted targets. Disabled entries are
// dropped; missing units default to the nutrient's canonical unit; a target
// that is not a non-negative number yields *InvalidNumericError.
func ParseMetricsInput(in map[string]MetricInput) (Metrics, error) {
	ids := make([]string, 0, len(in))
	for id := range in {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make(Metrics, len(in))
	for _, id := range ids {
		raw := in[id]
		if raw.Enabled != nil && !*raw.Enabled {
			continue
		}
		target, ok := toFloat(raw.Target)
		if !ok || target < 0 {
			return nil, &InvalidNumericError{Field: id, Value: raw.Target}
		}
		unit := strings.TrimSpace(raw.Unit)
		if unit == "" {
			unit = NutrientUnit(id)
		}
		out[id] = Metric{Target: target, Unit: unit, Enabled: true}
	}
	return out, nil
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
