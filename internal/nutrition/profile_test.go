package nutrition

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

// decodeDoc parses a JSON profile document the way the service receives it.
func decodeDoc(t *testing.T, body string) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return doc
}

func TestNormalizeProfile_FullDocument(t *testing.T) {
	doc := decodeDoc(t, `{
		"birthday": "2004-03-01",
		"gender": "Female",
		"height": {"feet": 5, "inches": 5},
		"weight": 140,
		"activityLevel": "Lightly Active",
		"healthConditions": ["  hypertension ", "", "asthma"],
		"dietaryPattern": " vegetarian "
	}`)
	got := NormalizeProfile(doc, fixedNow)
	want := Profile{
		Age:              22,
		Gender:           GenderFemale,
		HeightInches:     65,
		WeightLbs:        140,
		ActivityLevel:    LightlyActive,
		HealthConditions: []string{"hypertension", "asthma"},
		DietaryPattern:   "vegetarian",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
}

// TestNormalizeProfile_BirthdayNotYetReached verifies the age is one less
// when this year's birthday is still ahead.
func TestNormalizeProfile_BirthdayNotYetReached(t *testing.T) {
	got := NormalizeProfile(map[string]any{"birthday": "2000-12-25"}, fixedNow)
	if got.Age != 25 {
		t.Errorf("Age = %d, want 25", got.Age)
	}
}

func TestNormalizeProfile_AgeFieldWins(t *testing.T) {
	got := NormalizeProfile(map[string]any{"age": "31", "birthday": "1990-01-01"}, fixedNow)
	if got.Age != 31 {
		t.Errorf("Age = %d, want 31", got.Age)
	}
}

func TestNormalizeProfile_Units(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		wantHeight float64
		wantWeight float64
	}{
		{"metric objects", `{"height":{"value":165.1,"unit":"cm"},"weight":{"value":63.50288,"unit":"kg"}}`, 65, 140},
		{"bare numbers", `{"height":70,"weight":"180"}`, 70, 180},
		{"flat metric keys", `{"heightCm":177.8,"weightKg":81.64656}`, 70, 180},
		{"snake case keys", `{"height_inches":"68","weight_lbs":150}`, 68, 150},
		{"feet only", `{"height":{"feet":6},"weight":{"value":200,"unit":"lbs"}}`, 72, 200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeProfile(decodeDoc(t, tc.body), fixedNow)
			if math.Abs(got.HeightInches-tc.wantHeight) > 1e-6 {
				t.Errorf("HeightInches = %v, want %v", got.HeightInches, tc.wantHeight)
			}
			if math.Abs(got.WeightLbs-tc.wantWeight) > 1e-6 {
				t.Errorf("WeightLbs = %v, want %v", got.WeightLbs, tc.wantWeight)
			}
		})
	}
}

// TestNormalizeProfile_GarbageIsMissing verifies junk never becomes a zero
// that the calculator would use; ComputeEnergy must refuse it.
func TestNormalizeProfile_GarbageIsMissing(t *testing.T) {
	doc := decodeDoc(t, `{
		"age": "twenty",
		"birthday": "not-a-date",
		"gender": "",
		"height": {"value": 5, "unit": "furlongs"},
		"weight": -10
	}`)
	p := NormalizeProfile(doc, fixedNow)
	if p.Age != 0 || p.Gender != "" || p.HeightInches != 0 || p.WeightLbs != 0 {
		t.Errorf("expected all biometric fields empty, got %+v", p)
	}
	if _, err := ComputeEnergy(p); err == nil {
		t.Error("expected ComputeEnergy to refuse an empty profile")
	}
}

func TestNormalizeProfile_Nil(t *testing.T) {
	if got := NormalizeProfile(nil, fixedNow); !reflect.DeepEqual(got, Profile{}) {
		t.Errorf("got %+v, want zero Profile", got)
	}
}

func TestNormalizeGender(t *testing.T) {
	cases := map[string]Gender{
		"M":                 GenderMale,
		" woman ":           GenderFemale,
		"Non-Binary":        GenderOther,
		"prefer not to say": GenderUnspecified,
		"":                  "",
	}
	for in, want := range cases {
		if got := NormalizeGender(in); got != want {
			t.Errorf("NormalizeGender(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeProfile_CommaSeparatedConditions(t *testing.T) {
	got := NormalizeProfile(map[string]any{"health_conditions": "high cholesterol, diabetes ,"}, fixedNow)
	want := []string{"high cholesterol", "diabetes"}
	if !reflect.DeepEqual(got.HealthConditions, want) {
		t.Errorf("HealthConditions = %v, want %v", got.HealthConditions, want)
	}
}
