package nutrition

import (
	"encoding/json"
	"reflect"
	"testing"
)

// sampleMenu is a two-house day with no dinner service.
func sampleMenu() DayMenu {
	return DayMenu{
		"Dunster and Mather House": {
			"Lunch": {
				"Entrees": {
					{Name: "Grilled Chicken Breast", Calories: 220, Protein: 40},
					{Name: "Vegan Chili"},
				},
				"Sides": {{Name: "Steamed Broccoli"}},
			},
			"breakfast": {
				"Hot": {{Name: "Scrambled Eggs"}},
			},
		},
		"Annenberg": {
			"lunch": {
				"Grill": {{Name: "  Cheeseburger "}},
			},
		},
	}
}

func template(mealType string, names ...string) MealTemplate {
	t := MealTemplate{MealType: mealType}
	for _, n := range names {
		t.Items = append(t.Items, TemplateItem{Name: n})
	}
	return t
}

/* ─── Matching ───────────────────────────────────────────────────────── */

func TestMatchTemplate_SubstringEitherDirection(t *testing.T) {
	idx := IndexMenu(sampleMenu())
	cases := []struct {
		name string
		tmpl MealTemplate
		want bool
	}{
		{"wanted inside available", template("lunch", "Grilled Chicken"), true},
		{"available inside wanted", template("lunch", "Cheeseburger Deluxe"), true},
		{"case and whitespace", template("LUNCH", " vegan CHILI "), true},
		{"all items required", template("lunch", "Grilled Chicken", "Tofu Stir Fry"), false},
		{"items across houses", template("lunch", "Cheeseburger", "Steamed Broccoli"), true},
		{"empty item name", template("lunch", ""), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchTemplate(idx, tc.tmpl).CanMake; got != tc.want {
				t.Errorf("CanMake = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestMatchTemplate_UnservedPeriod verifies that a dinner template is not
// makeable on a day with no dinner, even though the items are on the menu.
func TestMatchTemplate_UnservedPeriod(t *testing.T) {
	got := CheckAvailability(sampleMenu(), template("dinner", "Grilled Chicken"))
	if got.CanMake {
		t.Error("expected CanMake=false when dinner is not served")
	}
	if !reflect.DeepEqual(got.MatchingMealPeriods, []string{"lunch"}) {
		t.Errorf("MatchingMealPeriods = %v, want [lunch]", got.MatchingMealPeriods)
	}
}

func TestMatchTemplate_MatchingMealPeriods(t *testing.T) {
	got := CheckAvailability(sampleMenu(), template("breakfast", "Eggs", "Chicken"))
	if !got.CanMake {
		t.Error("expected CanMake=true")
	}
	if !reflect.DeepEqual(got.MatchingMealPeriods, []string{"breakfast", "lunch"}) {
		t.Errorf("MatchingMealPeriods = %v", got.MatchingMealPeriods)
	}
}

/* ─── Empty inputs ───────────────────────────────────────────────────── */

func TestMatchTemplate_EmptyInputs(t *testing.T) {
	cases := []struct {
		name string
		menu DayMenu
		tmpl MealTemplate
	}{
		{"nil menu", nil, template("lunch", "Grilled Chicken")},
		{"menu without recipes", DayMenu{"Quincy": {"lunch": {"Entrees": {}}}}, template("lunch", "Soup")},
		{"unnamed recipes only", DayMenu{"Quincy": {"lunch": {"Entrees": {{Name: " "}}}}}, template("lunch", "Soup")},
		{"template without items", sampleMenu(), template("lunch")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CheckAvailability(tc.menu, tc.tmpl)
			if got.CanMake {
				t.Error("expected CanMake=false")
			}
			if got.MatchingMealPeriods == nil {
				t.Error("expected non-nil MatchingMealPeriods")
			}
		})
	}
}

/* ─── Feed decoding ──────────────────────────────────────────────────── */

// TestBuildDayMenu_CoercesNumbers decodes feed rows whose nutrient fields
// arrive as strings or junk.
func TestBuildDayMenu_CoercesNumbers(t *testing.T) {
	body := `[
		{"location_number":"05","location_name":"Dunster and Mather House","meal_name":"Lunch",
		 "menu_category_name":"Entrees","name":"Grilled Chicken Breast",
		 "calories":"220","protein":"n/a","total_fat":4.5},
		{"location_number":"05","location_name":"Dunster and Mather House","meal_name":"Lunch",
		 "menu_category_name":"Entrees","name":""},
		{"location_number":"01","location_name":"","meal_name":"Lunch","name":"Orphan"}
	]`
	var rows []MenuRow
	if err := json.Unmarshal([]byte(body), &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	menu := BuildDayMenu(rows)

	recipes := menu["Dunster and Mather House"]["lunch"]["Entrees"]
	if len(recipes) != 1 {
		t.Fatalf("got %d recipes, want 1", len(recipes))
	}
	n := recipes[0].Nutrients()
	if n[Calories] != 220 || n[Protein] != 0 || n[Fat] != 4.5 || n[Carbohydrates] != 0 {
		t.Errorf("nutrients = %v", n)
	}
	if snap := recipes[0].Snapshot; snap[Calories] != 220 || snap[Fat] != 4.5 {
		t.Errorf("snapshot = %v, want it filled from the recipe", snap)
	}
	if len(menu) != 1 {
		t.Errorf("expected rows without a location to be skipped, got %v", menu)
	}
}

/* ─── Template items ─────────────────────────────────────────────────── */

// TestTemplateItem_CoercesSnapshot decodes snapshots sent with string
// amounts and with the feed's own field names.
func TestTemplateItem_CoercesSnapshot(t *testing.T) {
	body := `[
		{"name":"Grilled Chicken","nutrients":{"calories":"220","protein":"40","sodium":"n/a"}},
		{"name":"Rice","nutrients":{"Calories":200,"total_carbohydrate":"45","total_fat":1,"dietary_fiber":"0.5"}},
		{"name":"Water","nutrients":null},
		{"name":"Mystery","nutrients":[1,2]}
	]`
	var items []TemplateItem
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	chicken := items[0].Nutrients
	if chicken[Calories] != 220 || chicken[Protein] != 40 || chicken[Sodium] != 0 {
		t.Errorf("chicken = %v", chicken)
	}
	rice := items[1].Nutrients
	want := Nutrients{Calories: 200, Carbohydrates: 45, Fat: 1, Fiber: 0.5}
	if !reflect.DeepEqual(rice, want) {
		t.Errorf("rice = %v, want %v", rice, want)
	}
	if items[2].Nutrients != nil || items[3].Nutrients != nil {
		t.Errorf("expected nil snapshots, got %v and %v", items[2].Nutrients, items[3].Nutrients)
	}

	total := SumTemplate(MealTemplate{Items: items})
	if total[Calories] != 420 || total[Protein] != 40 {
		t.Errorf("total = %v", total)
	}
}

func TestMenuIndex_Has(t *testing.T) {
	idx := IndexMenu(sampleMenu())
	for _, item := range []string{"grilled chicken", "CHEESEBURGER", "Scrambled Eggs and Toast"} {
		if !idx.Has(item) {
			t.Errorf("Has(%q) = false, want true", item)
		}
	}
	for _, item := range []string{"", "  ", "Lobster"} {
		if idx.Has(item) {
			t.Errorf("Has(%q) = true, want false", item)
		}
	}
}
