package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/cs1060f25/nutri-project-sub001/internal/nutrition"
)

// validMealLogTypes are the meal types accepted by the meal log. Reject
// unknown values with 400 rather than letting the DB return a cryptic 500.
var validMealLogTypes = map[string]bool{
	nutrition.Breakfast: true,
	nutrition.Lunch:     true,
	nutrition.Dinner:    true,
	"snack":             true,
}

const insertMealLogItemSQL = `INSERT INTO meal_log_items
	(user_id, date, meal_type, item_name, location_name,
	 calories, protein_g, carbs_g, fat_g, fiber_g, sodium_mg, cholesterol_mg, saturated_fat_g,
	 saved_meal_plan_id)
 VALUES
	(@userID, @date, @mealType, @itemName, @locationName,
	 @calories, @proteinG, @carbsG, @fatG, @fiberG, @sodiumMg, @cholesterolMg, @saturatedFatG,
	 @savedMealPlanID)
 RETURNING *`

// logItemArgs builds the insert arguments for one logged item. Nutrients
// absent from n are stored as NULL.
func logItemArgs(userID int, date time.Time, mealType, itemName string, locationName *string, n nutrition.Nutrients) pgx.NamedArgs {
	opt := func(id string) *float64 {
		if v, ok := n[id]; ok {
			return &v
		}
		return nil
	}
	return pgx.NamedArgs{
		"userID":          userID,
		"date":            date.Format(dateLayout),
		"mealType":        mealType,
		"itemName":        itemName,
		"locationName":    locationName,
		"calories":        n[nutrition.Calories],
		"proteinG":        opt(nutrition.Protein),
		"carbsG":          opt(nutrition.Carbohydrates),
		"fatG":            opt(nutrition.Fat),
		"fiberG":          opt(nutrition.Fiber),
		"sodiumMg":        opt(nutrition.Sodium),
		"cholesterolMg":   opt(nutrition.Cholesterol),
		"saturatedFatG":   opt(nutrition.SaturatedFat),
		"savedMealPlanID": nil,
	}
}

// loggedOn returns the user's meal log items for one day, oldest first.
func (h *Handler) loggedOn(ctx context.Context, userID int, date time.Time) ([]mealLogItem, error) {
	items, err := queryMany[mealLogItem](h.db, ctx,
		`SELECT * FROM meal_log_items
		 WHERE user_id = @userID AND date = @date
		 ORDER BY created_at, id`,
		pgx.NamedArgs{"userID": userID, "date": date.Format(dateLayout)})
	if err != nil {
		return nil, err
	}
	// Ensure items is an empty array (not null) in JSON
	if items == nil {
		items = []mealLogItem{}
	}
	return items, nil
}

func consumedTotals(items []mealLogItem) nutrition.Nutrients {
	all := make([]nutrition.Nutrients, 0, len(items))
	for _, it := range items {
		all = append(all, it.nutrients())
	}
	return nutrition.SumNutrients(all...)
}

// getDailyLog returns the day's logged items, consumed totals, and progress
// toward the targets currently in force.
// GET /api/meal-log/daily?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDailyLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}

	items, err := h.loggedOn(c, userID, date)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch items")
		return
	}
	targets, err := h.currentTargets(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch targets")
		return
	}

	consumed := consumedTotals(items)
	c.JSON(http.StatusOK, dailyLogSummary{
		Date:         date.Format(dateLayout),
		Items:        items,
		Consumed:     consumed,
		TargetSource: targets.Source,
		Targets:      targets.Metrics,
		Progress:     nutrition.ComputeProgress(targets.Metrics, consumed, nil),
	})
}

// createMealLogItem logs one item.
// POST /api/meal-log/items.
func (h *Handler) createMealLogItem(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req createMealLogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ItemName = strings.TrimSpace(req.ItemName)
	if req.ItemName == "" {
		apiError(c, http.StatusBadRequest, "item_name is required")
		return
	}
	mealType := nutrition.NormalizeMealPeriod(req.MealType)
	if !validMealLogTypes[mealType] {
		apiError(c, http.StatusBadRequest, "meal_type must be one of: breakfast, lunch, dinner, snack")
		return
	}
	date := today()
	if req.Date != "" {
		t, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = t
	}

	if req.Calories < 0 {
		apiError(c, http.StatusBadRequest, "calories must not be negative")
		return
	}

	n := nutrition.Nutrients{nutrition.Calories: req.Calories}
	for id, v := range map[string]*float64{
		nutrition.Protein:       req.ProteinG,
		nutrition.Carbohydrates: req.CarbsG,
		nutrition.Fat:           req.FatG,
		nutrition.Fiber:         req.FiberG,
		nutrition.Sodium:        req.SodiumMg,
		nutrition.Cholesterol:   req.CholesterolMg,
		nutrition.SaturatedFat:  req.SaturatedFatG,
	} {
		if v != nil {
			if *v < 0 {
				apiError(c, http.StatusBadRequest, "nutrient amounts must not be negative")
				return
			}
			n[id] = *v
		}
	}

	item, err := queryOne[mealLogItem](h.db, c, insertMealLogItemSQL,
		logItemArgs(userID, date, mealType, req.ItemName, req.LocationName, n))
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// deleteMealLogItem removes a logged item.
// DELETE /api/meal-log/items/:id. Returns 204 on success, 404 if not found.
func (h *Handler) deleteMealLogItem(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM meal_log_items WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "item not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// previewMealProgress shows what a candidate meal would add on top of what
// is already logged, without logging anything.
// POST /api/meal-log/preview. Body: { date?, saved_meal_plan_id? | items? }.
func (h *Handler) previewMealProgress(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req previewMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	date := today()
	if req.Date != "" {
		t, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = t
	}

	candidate := nutrition.MealTemplate{Items: req.Items}
	if req.SavedMealPlanID != nil {
		plan, err := queryOne[savedMealPlan](h.db, c,
			"SELECT * FROM saved_meal_plans WHERE id = @id AND user_id = @userID",
			pgx.NamedArgs{"id": *req.SavedMealPlanID, "userID": userID})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				apiError(c, http.StatusNotFound, "saved meal plan not found")
			} else {
				apiError(c, http.StatusInternalServerError, "failed to fetch saved meal plan")
			}
			return
		}
		candidate = plan.template()
	}

	items, err := h.loggedOn(c, userID, date)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch items")
		return
	}
	targets, err := h.currentTargets(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch targets")
		return
	}

	c.JSON(http.StatusOK, buildMealPreview(date, targets.Metrics, consumedTotals(items), candidate))
}

func buildMealPreview(date time.Time, targets nutrition.Metrics, consumed nutrition.Nutrients, candidate nutrition.MealTemplate) mealPreview {
	meal := nutrition.SumTemplate(candidate)
	return mealPreview{
		Date:     date.Format(dateLayout),
		Consumed: consumed,
		Meal:     meal,
		Progress: nutrition.ComputeProgress(targets, consumed, meal),
	}
}
