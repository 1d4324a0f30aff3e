package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/cs1060f25/nutri-project-sub001/internal/nutrition"
)

const dateLayout = "2006-01-02"

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(dateLayout) + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"`+dateLayout+`"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns into DateOnly. NULL zeroes the time.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Rows ───────────────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// userProfile maps to user_profiles. Doc is the loosely-typed profile document
// the client writes; the normalizer turns it into a nutrition.Profile on read.
type userProfile struct {
	UserID            int            `json:"user_id" db:"user_id"`
	Doc               map[string]any `json:"profile" db:"doc"`
	ActivePlanVersion *int           `json:"active_plan_version" db:"active_plan_version"`
	UpdatedAt         *time.Time     `json:"updated_at" db:"updated_at"`
}

// nutritionPlanRow maps to nutrition_plans: one immutable snapshot per version.
type nutritionPlanRow struct {
	ID        int               `db:"id"`
	UserID    int               `db:"user_id"`
	Version   int               `db:"version"`
	Preset    string            `db:"preset"`
	Metrics   nutrition.Metrics `db:"metrics"`
	CreatedAt time.Time         `db:"created_at"`
}

func (r nutritionPlanRow) planVersion() nutrition.PlanVersion {
	return nutrition.PlanVersion{
		Version:   r.Version,
		Plan:      nutrition.NutritionPlan{Preset: nutrition.PresetID(r.Preset), Metrics: r.Metrics},
		CreatedAt: r.CreatedAt,
	}
}

// savedMealPlan maps to saved_meal_plans. Items carry the nutrient snapshot
// taken when the template was saved.
type savedMealPlan struct {
	ID             int                      `json:"id" db:"id"`
	UserID         int                      `json:"user_id" db:"user_id"`
	Title          string                   `json:"title" db:"title"`
	MealType       string                   `json:"meal_type" db:"meal_type"`
	LocationNumber *string                  `json:"location_number" db:"location_number"`
	LocationName   *string                  `json:"location_name" db:"location_name"`
	Items          []nutrition.TemplateItem `json:"items" db:"items"`
	UseCount       int                      `json:"use_count" db:"use_count"`
	Rating         int                      `json:"rating" db:"rating"`
	CreatedAt      *time.Time               `json:"created_at" db:"created_at"`
	UpdatedAt      *time.Time               `json:"updated_at" db:"updated_at"`
}

func (p savedMealPlan) template() nutrition.MealTemplate {
	return nutrition.MealTemplate{MealType: p.MealType, Items: p.Items}
}

// mealLogItem maps to meal_log_items. Nullable nutrient columns use pointers
// so pgx can scan NULLs and JSON shows them as null.
type mealLogItem struct {
	ID              int        `json:"id" db:"id"`
	UserID          int        `json:"user_id" db:"user_id"`
	Date            DateOnly   `json:"date" db:"date"`
	MealType        string     `json:"meal_type" db:"meal_type"`
	ItemName        string     `json:"item_name" db:"item_name"`
	LocationName    *string    `json:"location_name" db:"location_name"`
	Calories        float64    `json:"calories" db:"calories"`
	ProteinG        *float64   `json:"protein_g" db:"protein_g"`
	CarbsG          *float64   `json:"carbs_g" db:"carbs_g"`
	FatG            *float64   `json:"fat_g" db:"fat_g"`
	FiberG          *float64   `json:"fiber_g" db:"fiber_g"`
	SodiumMg        *float64   `json:"sodium_mg" db:"sodium_mg"`
	CholesterolMg   *float64   `json:"cholesterol_mg" db:"cholesterol_mg"`
	SaturatedFatG   *float64   `json:"saturated_fat_g" db:"saturated_fat_g"`
	SavedMealPlanID *int       `json:"saved_meal_plan_id" db:"saved_meal_plan_id"`
	CreatedAt       *time.Time `json:"created_at" db:"created_at"`
}

// nutrients converts the row's columns into the core's nutrient map.
// NULL columns are left out rather than counted as zero.
func (i mealLogItem) nutrients() nutrition.Nutrients {
	n := nutrition.Nutrients{nutrition.Calories: i.Calories}
	set := func(id string, v *float64) {
		if v != nil {
			n[id] = *v
		}
	}
	set(nutrition.Protein, i.ProteinG)
	set(nutrition.Carbohydrates, i.CarbsG)
	set(nutrition.Fat, i.FatG)
	set(nutrition.Fiber, i.FiberG)
	set(nutrition.Sodium, i.SodiumMg)
	set(nutrition.Cholesterol, i.CholesterolMg)
	set(nutrition.SaturatedFat, i.SaturatedFatG)
	return n
}

/* ─── Requests ───────────────────────────────────────────────────────── */

// metricsRequest is shared by POST /api/nutrition/validate and
// POST /api/nutrition-plans. Targets may arrive as numbers or strings.
type metricsRequest struct {
	Preset            string                           `json:"preset"`
	Metrics           map[string]nutrition.MetricInput `json:"metrics"`
	AcknowledgedToken string                           `json:"acknowledged_token"`
}

// createSavedMealPlanRequest is the request body for POST /api/saved-meal-plans.
type createSavedMealPlanRequest struct {
	Title          string                   `json:"title"`
	MealType       string                   `json:"meal_type"`
	LocationNumber *string                  `json:"location_number"`
	LocationName   *string                  `json:"location_name"`
	Items          []nutrition.TemplateItem `json:"items"`
}

// createMealLogItemRequest is the request body for POST /api/meal-log/items.
type createMealLogItemRequest struct {
	Date          string   `json:"date"`
	MealType      string   `json:"meal_type"`
	ItemName      string   `json:"item_name"`
	LocationName  *string  `json:"location_name"`
	Calories      float64  `json:"calories"`
	ProteinG      *float64 `json:"protein_g"`
	CarbsG        *float64 `json:"carbs_g"`
	FatG          *float64 `json:"fat_g"`
	FiberG        *float64 `json:"fiber_g"`
	SodiumMg      *float64 `json:"sodium_mg"`
	CholesterolMg *float64 `json:"cholesterol_mg"`
	SaturatedFatG *float64 `json:"saturated_fat_g"`
}

// previewMealRequest is the request body for POST /api/meal-log/preview.
// Either SavedMealPlanID or Items describes the candidate meal.
type previewMealRequest struct {
	Date            string                   `json:"date"`
	SavedMealPlanID *int                     `json:"saved_meal_plan_id"`
	Items           []nutrition.TemplateItem `json:"items"`
}

/* ─── Responses ──────────────────────────────────────────────────────── */

// profileResponse is the response shape for GET/PATCH /api/profile.
// Energy is null and Missing lists the absent fields when BMR can't be computed.
type profileResponse struct {
	Profile           map[string]any    `json:"profile"`
	Normalized        nutrition.Profile `json:"normalized"`
	Energy            *nutrition.Energy `json:"energy"`
	Missing           []string          `json:"missing"`
	ActivePlanVersion *int              `json:"active_plan_version"`
}

// presetsResponse is the response shape for the preset endpoints.
type presetsResponse struct {
	Personalized bool                      `json:"personalized"`
	Energy       *nutrition.Energy         `json:"energy"`
	Missing      []string                  `json:"missing"`
	Presets      []nutrition.PresetTargets `json:"presets"`
}

// activePlanResponse is the response shape for GET /api/nutrition-plans/active.
// Source is "plan" for a saved version, "preset" when targets were derived
// from the profile, and "default" when the profile is insufficient.
type activePlanResponse struct {
	Source  string             `json:"source"`
	Version *int               `json:"version"`
	Preset  nutrition.PresetID `json:"preset"`
	Metrics nutrition.Metrics  `json:"metrics"`
}

// planHistoryResponse is the response shape for GET /api/nutrition-plans.
type planHistoryResponse struct {
	ActiveVersion *int                    `json:"active_version"`
	Versions      []nutrition.PlanVersion `json:"versions"`
}

// templateAvailability is one template's entry in the availability responses.
type templateAvailability struct {
	SavedMealPlanID int    `json:"saved_meal_plan_id"`
	Title           string `json:"title"`
	MealType        string `json:"meal_type"`
	nutrition.Availability
}

// availabilityResponse is the response shape for GET /api/saved-meal-plans/availability.
type availabilityResponse struct {
	Date          string                 `json:"date"`
	MenuAvailable bool                   `json:"menu_available"`
	ServedPeriods []string               `json:"served_periods"`
	Results       []templateAvailability `json:"results"`
}

// planningDay is one day of the GET /api/planning/week calendar.
type planningDay struct {
	Date          DateOnly               `json:"date"`
	MenuAvailable bool                   `json:"menu_available"`
	ServedPeriods []string               `json:"served_periods"`
	Templates     []templateAvailability `json:"templates"`
}

// planningWeek is the response shape for GET /api/planning/week.
type planningWeek struct {
	WeekStart DateOnly           `json:"week_start"`
	Locations []locationResponse `json:"locations"`
	Days      []planningDay      `json:"days"`
}

// dailyLogSummary is the response shape for GET /api/meal-log/daily.
type dailyLogSummary struct {
	Date         string                  `json:"date"`
	Items        []mealLogItem           `json:"items"`
	Consumed     nutrition.Nutrients     `json:"consumed"`
	TargetSource string                  `json:"target_source"`
	Targets      nutrition.Metrics       `json:"targets"`
	Progress     []nutrition.ProgressBar `json:"progress"`
}

// mealPreview is the response shape for POST /api/meal-log/preview.
type mealPreview struct {
	Date     string                  `json:"date"`
	Consumed nutrition.Nutrients     `json:"consumed"`
	Meal     nutrition.Nutrients     `json:"meal"`
	Progress []nutrition.ProgressBar `json:"progress"`
}
