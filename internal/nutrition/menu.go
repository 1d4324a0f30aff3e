package nutrition

import "strings"

// Meal periods served by the dining halls.
const (
	Breakfast = "breakfast"
	Lunch     = "lunch"
	Dinner    = "dinner"
)

// NormalizeMealPeriod lowercases and trims a meal period name.
func NormalizeMealPeriod(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Recipe is one menu item. Nutrient fields may arrive from the feed as
// strings; Number coerces them and treats junk as zero.
type Recipe struct {
	Name         string `json:"name"`
	Calories     Number `json:"calories"`
	Protein      Number `json:"protein"`
	TotalFat     Number `json:"total_fat"`
	TotalCarb    Number `json:"total_carbohydrate"`
	DietaryFiber Number `json:"dietary_fiber,omitempty"`
	Sodium       Number `json:"sodium,omitempty"`
	Cholesterol  Number `json:"cholesterol,omitempty"`
	SaturatedFat Number `json:"saturated_fat,omitempty"`
	TransFat     Number `json:"trans_fat,omitempty"`

	// Snapshot is filled by BuildDayMenu with the recipe's amounts keyed by
	// nutrient id, ready to be saved on a template item or log entry.
	Snapshot Nutrients `json:"nutrients,omitempty"`
}

// Nutrients returns the recipe's nutrient amounts keyed by nutrient id.
func (r Recipe) Nutrients() Nutrients {
	return Nutrients{
		Calories:      r.Calories.Float(),
		Protein:       r.Protein.Float(),
		Fat:           r.TotalFat.Float(),
		Carbohydrates: r.TotalCarb.Float(),
		Fiber:         r.DietaryFiber.Float(),
		Sodium:        r.Sodium.Float(),
		Cholesterol:   r.Cholesterol.Float(),
		SaturatedFat:  r.SaturatedFat.Float(),
		TransFat:      r.TransFat.Float(),
	}
}

// MealMenu maps a category (e.g. "Entrees") to its recipes.
type MealMenu map[string][]Recipe

// LocationMenu maps a meal period to what is served in it.
type LocationMenu map[string]MealMenu

// DayMenu maps a location name to its menu for one day.
type DayMenu map[string]LocationMenu

// MenuRow is one flat record of the dining feed's menu endpoint. The feed
// publishes one row per (location, meal, category, recipe).
type MenuRow struct {
	LocationNumber string `json:"location_number"`
	LocationName   string `json:"location_name"`
	MealName       string `json:"meal_name"`
	CategoryName   string `json:"menu_category_name"`
	Recipe
}

// BuildDayMenu nests flat feed rows into a DayMenu. Rows without a location,
// meal, or recipe name are skipped.
func BuildDayMenu(rows []MenuRow) DayMenu {
	menu := make(DayMenu)
	for _, row := range rows {
		loc := strings.TrimSpace(row.LocationName)
		period := NormalizeMealPeriod(row.MealName)
		if loc == "" || period == "" || strings.TrimSpace(row.Name) == "" {
			continue
		}
		category := strings.TrimSpace(row.CategoryName)
		if menu[loc] == nil {
			menu[loc] = make(LocationMenu)
		}
		if menu[loc][period] == nil {
			menu[loc][period] = make(MealMenu)
		}
		recipe := row.Recipe
		recipe.Snapshot = recipe.Nutrients()
		menu[loc][period][category] = append(menu[loc][period][category], recipe)
	}
	return menu
}
