package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/cs1060f25/nutri-project-sub001/internal/nutrition"
)

// validTemplateMealTypes are the meal periods a saved meal plan can target.
var validTemplateMealTypes = map[string]bool{
	nutrition.Breakfast: true,
	nutrition.Lunch:     true,
	nutrition.Dinner:    true,
}

func (h *Handler) listSavedMealPlans(ctx context.Context, userID int) ([]savedMealPlan, error) {
	plans, err := queryMany[savedMealPlan](h.db, ctx,
		`SELECT * FROM saved_meal_plans
		 WHERE user_id = @userID
		 ORDER BY created_at DESC, id DESC`,
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []savedMealPlan{}
	}
	return plans, nil
}

// getSavedMealPlans returns the user's saved meal templates, newest first.
// GET /api/saved-meal-plans.
func (h *Handler) getSavedMealPlans(c *gin.Context) {
	userID := c.GetInt("user_id")

	plans, err := h.listSavedMealPlans(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch saved meal plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}

// createSavedMealPlan saves a set of menu items as a reusable template.
// POST /api/saved-meal-plans. Body: { title, meal_type, items, location_number?, location_name? }.
func (h *Handler) createSavedMealPlan(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req createSavedMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		apiError(c, http.StatusBadRequest, "title is required")
		return
	}
	mealType := nutrition.NormalizeMealPeriod(req.MealType)
	if !validTemplateMealTypes[mealType] {
		apiError(c, http.StatusBadRequest, "meal_type must be one of: breakfast, lunch, dinner")
		return
	}

	items := make([]nutrition.TemplateItem, 0, len(req.Items))
	for _, it := range req.Items {
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" {
			apiError(c, http.StatusBadRequest, "every item needs a name")
			return
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		apiError(c, http.StatusBadRequest, "items are required")
		return
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid items")
		return
	}

	// Templates remember the house by its display name so later menu lookups
	// and badges agree regardless of how the feed spelled it.
	var locationName *string
	if req.LocationName != nil && strings.TrimSpace(*req.LocationName) != "" {
		name := nutrition.CanonicalHouseName(*req.LocationName)
		locationName = &name
	}

	plan, err := queryOne[savedMealPlan](h.db, c,
		`INSERT INTO saved_meal_plans (user_id, title, meal_type, location_number, location_name, items)
		 VALUES (@userID, @title, @mealType, @locationNumber, @locationName, @items::jsonb)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID":         userID,
			"title":          req.Title,
			"mealType":       mealType,
			"locationNumber": req.LocationNumber,
			"locationName":   locationName,
			"items":          string(itemsJSON),
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create saved meal plan")
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// bindUseDate reads the optional { "date" } body of a use request. A missing
// body, including an empty chunked one, means today. On failure it writes a
// 400 and returns ok=false.
func bindUseDate(c *gin.Context) (time.Time, bool) {
	var body struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return time.Time{}, false
	}
	if body.Date == "" {
		return today(), true
	}
	t, err := time.Parse(dateLayout, body.Date)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// useSavedMealPlan logs every item of a template into the meal log and
// increments its usage counter, in one transaction.
// POST /api/saved-meal-plans/:id/use. Body (optional): { "date": "YYYY-MM-DD" }.
func (h *Handler) useSavedMealPlan(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	date, ok := bindUseDate(c)
	if !ok {
		return
	}

	tx, err := h.db.Begin(c)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to use saved meal plan")
		return
	}
	defer tx.Rollback(c)

	rows, err := tx.Query(c,
		`UPDATE saved_meal_plans
		 SET use_count = use_count + 1, updated_at = now()
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to use saved meal plan")
		return
	}
	plan, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[savedMealPlan])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "saved meal plan not found")
		} else {
			logger.Errorw("[useSavedMealPlan] scan error", "error", err)
			apiError(c, http.StatusInternalServerError, "failed to use saved meal plan")
		}
		return
	}

	for _, item := range plan.Items {
		args := logItemArgs(userID, date, plan.MealType, item.Name, plan.LocationName, item.Nutrients)
		args["savedMealPlanID"] = plan.ID
		if _, err := tx.Exec(c, insertMealLogItemSQL, args); err != nil {
			logger.Errorw("[useSavedMealPlan] log insert failed", "plan_id", plan.ID, "error", err)
			apiError(c, http.StatusInternalServerError, "failed to use saved meal plan")
			return
		}
	}
	if err := tx.Commit(c); err != nil {
		apiError(c, http.StatusInternalServerError, "failed to use saved meal plan")
		return
	}

	logger.Infow("[useSavedMealPlan] template logged", "plan_id", plan.ID, "items", len(plan.Items),
		"date", date.Format(dateLayout))
	c.JSON(http.StatusOK, plan)
}

// rateSavedMealPlan sets a template's star rating.
// PUT /api/saved-meal-plans/:id/rating. Body: { "rating": 0-5 }.
func (h *Handler) rateSavedMealPlan(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body struct {
		Rating *int `json:"rating"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Rating == nil || *body.Rating < 0 || *body.Rating > 5 {
		apiError(c, http.StatusBadRequest, "rating must be between 0 and 5")
		return
	}

	plan, err := queryOne[savedMealPlan](h.db, c,
		`UPDATE saved_meal_plans SET rating = @rating, updated_at = now()
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{"id": id, "userID": userID, "rating": *body.Rating})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "saved meal plan not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to rate saved meal plan")
		}
		return
	}

	c.JSON(http.StatusOK, plan)
}

// deleteSavedMealPlan removes a template. Items already logged from it stay
// in the meal log.
// DELETE /api/saved-meal-plans/:id. Returns 204 on success, 404 if not found.
func (h *Handler) deleteSavedMealPlan(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM saved_meal_plans WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete saved meal plan")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "saved meal plan not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// matchTemplates checks every template against one day's menu index.
func matchTemplates(idx nutrition.MenuIndex, plans []savedMealPlan) []templateAvailability {
	out := make([]templateAvailability, 0, len(plans))
	for _, p := range plans {
		out = append(out, templateAvailability{
			SavedMealPlanID: p.ID,
			Title:           p.Title,
			MealType:        p.MealType,
			Availability:    nutrition.MatchTemplate(idx, p.template()),
		})
	}
	return out
}

// getTemplateAvailability reports, per template, whether it can be made from
// the given day's menu. An unreachable feed yields canMake=false everywhere
// with menu_available=false rather than an error.
// GET /api/saved-meal-plans/availability?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getTemplateAvailability(c *gin.Context) {
	userID := c.GetInt("user_id")
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}

	plans, err := h.listSavedMealPlans(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch saved meal plans")
		return
	}

	menu, fetched := h.feed.menuOrEmpty(c.Request.Context(), date)
	idx := nutrition.IndexMenu(menu)

	c.JSON(http.StatusOK, availabilityResponse{
		Date:          date.Format(dateLayout),
		MenuAvailable: fetched && !idx.Empty(),
		ServedPeriods: idx.Periods(),
		Results:       matchTemplates(idx, plans),
	})
}
