package nutrition

import (
	"reflect"
	"testing"
)

func TestNormalizeLocations_SplitsCoResidentHouses(t *testing.T) {
	got := NormalizeLocations([]RawLocation{{Number: "05", Name: "Dunster and Mather House"}})
	want := []Location{
		{Number: "05", CanonicalName: "Dunster House", OriginalName: "Dunster and Mather House"},
		{Number: "05", CanonicalName: "Mather House", OriginalName: "Dunster and Mather House"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
}

func TestCanonicalHouseName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Quincy", "Quincy House"},
		{"Quincy House", "Quincy House"},
		{"  quincy   house ", "Quincy House"},
		{"QUINCY", "Quincy House"},
		{"Quincy Hall", "Quincy House"},
		{"Annenberg", "Annenberg Hall"},
		{"Annenberg House", "Annenberg Hall"},
		{"Pforzheimer House", "Pforzheimer House"},
		{"Hillel", "Hillel"},
		{" Fly-By ", "Fly-By"},
		{"House", "House"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := CanonicalHouseName(tc.in); got != tc.want {
				t.Errorf("CanonicalHouseName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

// TestCanonicalHouseName_Idempotent re-normalizes each output.
func TestCanonicalHouseName_Idempotent(t *testing.T) {
	for _, in := range []string{"Quincy", "dunster house", "Annenberg", "Hillel", "Leverett Hall"} {
		once := CanonicalHouseName(in)
		if twice := CanonicalHouseName(once); twice != once {
			t.Errorf("CanonicalHouseName not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeLocations_DedupesAndSorts(t *testing.T) {
	raw := []RawLocation{
		{Number: "14", Name: "Winthrop"},
		{Number: "05", Name: "Dunster and Mather House"},
		{Number: "05", Name: "Mather"},
		{Number: "08", Name: "Mather House"},
		{Number: "30", Name: "Hillel"},
		{Number: "14", Name: "Winthrop House"},
	}
	got := NormalizeLocations(raw)

	var names []string
	for _, l := range got {
		names = append(names, l.CanonicalName+"#"+l.Number)
	}
	want := []string{
		"Dunster House#05",
		"Hillel#30",
		"Mather House#05",
		"Mather House#08",
		"Winthrop House#14",
	}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("got %v, want %v", names, want)
	}
	// The first record for a pair supplies the provenance.
	if got[2].OriginalName != "Dunster and Mather House" {
		t.Errorf("OriginalName = %q", got[2].OriginalName)
	}
}

// TestNormalizeLocations_Idempotent feeds normalized output back in.
func TestNormalizeLocations_Idempotent(t *testing.T) {
	first := NormalizeLocations([]RawLocation{
		{Number: "05", Name: "Dunster and Mather House"},
		{Number: "01", Name: "Annenberg"},
	})
	var again []RawLocation
	for _, l := range first {
		again = append(again, RawLocation{Number: l.Number, Name: l.CanonicalName})
	}
	second := NormalizeLocations(again)
	for i := range first {
		if first[i].CanonicalName != second[i].CanonicalName || first[i].Number != second[i].Number {
			t.Errorf("entry %d changed: %+v → %+v", i, first[i], second[i])
		}
	}
}

func TestNormalizeLocations_Empty(t *testing.T) {
	if got := NormalizeLocations(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %+v", got)
	}
}

func TestIsKnownHouse(t *testing.T) {
	for _, name := range []string{"Eliot House", "eliot", "Annenberg House", "  Lowell   House "} {
		if !IsKnownHouse(name) {
			t.Errorf("IsKnownHouse(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"", "Fly-By", "Hillel"} {
		if IsKnownHouse(name) {
			t.Errorf("IsKnownHouse(%q) = true, want false", name)
		}
	}
}
