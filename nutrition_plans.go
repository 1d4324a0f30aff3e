package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cs1060f25/nutri-project-sub001/internal/nutrition"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// loadPlanHistory rebuilds the user's plan history from nutrition_plans and
// the active pointer stored on the profile row, which is returned with it.
func (h *Handler) loadPlanHistory(ctx context.Context, userID int) (nutrition.PlanHistory, userProfile, error) {
	rows, err := queryMany[nutritionPlanRow](h.db, ctx,
		"SELECT * FROM nutrition_plans WHERE user_id = @userID ORDER BY version",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return nutrition.PlanHistory{}, userProfile{}, err
	}
	profile, err := h.loadProfile(ctx, userID)
	if err != nil {
		return nutrition.PlanHistory{}, userProfile{}, err
	}

	versions := make([]nutrition.PlanVersion, 0, len(rows))
	for _, r := range rows {
		versions = append(versions, r.planVersion())
	}
	active := 0
	if profile.ActivePlanVersion != nil {
		active = *profile.ActivePlanVersion
	}
	return nutrition.NewPlanHistory(versions, active), profile, nil
}

// currentTargets loads what resolveTargets needs for userID.
func (h *Handler) currentTargets(ctx context.Context, userID int) (activePlanResponse, error) {
	history, profile, err := h.loadPlanHistory(ctx, userID)
	if err != nil {
		return activePlanResponse{}, err
	}
	return resolveTargets(history, profile.Doc, time.Now()), nil
}

// resolveTargets picks the targets progress is measured against: the active
// saved plan, else the balanced preset for the profile, else the balanced
// defaults.
func resolveTargets(history nutrition.PlanHistory, doc map[string]any, now time.Time) activePlanResponse {
	if v, ok := history.Active(); ok {
		version := v.Version
		return activePlanResponse{Source: "plan", Version: &version, Preset: v.Plan.Preset, Metrics: v.Plan.Metrics}
	}

	p, energy, _ := assessProfile(doc, now)
	preset := nutrition.GeneratePreset(nutrition.PresetBalanced, p)
	source := "preset"
	if energy == nil {
		source = "default"
	}
	return activePlanResponse{Source: source, Preset: preset.ID, Metrics: preset.Metrics}
}

// setActivePlanVersion moves the active pointer on the profile row,
// creating the row if the user has none yet.
func setActivePlanVersion(ctx context.Context, db execer, userID, version int) error {
	_, err := db.Exec(ctx,
		`INSERT INTO user_profiles (user_id, active_plan_version)
		 VALUES (@userID, @version)
		 ON CONFLICT (user_id) DO UPDATE
		   SET active_plan_version = EXCLUDED.active_plan_version, updated_at = now()`,
		pgx.NamedArgs{"userID": userID, "version": version})
	return err
}

// getPlanHistory returns every saved plan version and the active pointer.
// GET /api/nutrition-plans.
func (h *Handler) getPlanHistory(c *gin.Context) {
	userID := c.GetInt("user_id")

	history, _, err := h.loadPlanHistory(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch plan history")
		return
	}
	resp := planHistoryResponse{Versions: history.Versions()}
	if v, ok := history.Active(); ok {
		version := v.Version
		resp.ActiveVersion = &version
	}
	c.JSON(http.StatusOK, resp)
}

// getActivePlan returns the targets currently in force.
// GET /api/nutrition-plans/active.
func (h *Handler) getActivePlan(c *gin.Context) {
	userID := c.GetInt("user_id")

	targets, err := h.currentTargets(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch active plan")
		return
	}
	c.JSON(http.StatusOK, targets)
}

// saveNutritionPlan appends a new plan version and makes it active.
// POST /api/nutrition-plans. Body: { "preset"?, "metrics", "acknowledged_token"? }.
// Targets below a safety floor are rejected with 409 and the warnings until
// the client resends the same metrics with the review token.
func (h *Handler) saveNutritionPlan(c *gin.Context) {
	userID := c.GetInt("user_id")

	req, metrics, ok := bindMetrics(c)
	if !ok {
		return
	}
	preset := nutrition.PresetCustom
	if req.Preset != "" {
		id, known := nutrition.ParsePresetID(req.Preset)
		if !known {
			apiError(c, http.StatusBadRequest, "unknown preset")
			return
		}
		preset = id
	}

	review := nutrition.ReviewSubmission(metrics, req.AcknowledgedToken)
	if review.Blocked {
		c.JSON(http.StatusConflict, gin.H{
			"error":    "targets below safe minimums must be acknowledged",
			"warnings": review.Warnings,
			"token":    review.Token,
		})
		return
	}

	history, _, err := h.loadPlanHistory(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch plan history")
		return
	}
	_, saved := history.Append(nutrition.NutritionPlan{Preset: preset, Metrics: metrics}, time.Now().UTC())

	metricsJSON, err := json.Marshal(saved.Plan.Metrics)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save plan")
		return
	}

	tx, err := h.db.Begin(c)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save plan")
		return
	}
	defer tx.Rollback(c)

	_, err = tx.Exec(c,
		`INSERT INTO nutrition_plans (user_id, version, preset, metrics, created_at)
		 VALUES (@userID, @version, @preset, @metrics::jsonb, @createdAt)`,
		pgx.NamedArgs{
			"userID":    userID,
			"version":   saved.Version,
			"preset":    string(saved.Plan.Preset),
			"metrics":   string(metricsJSON),
			"createdAt": saved.CreatedAt,
		})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			apiError(c, http.StatusConflict, "plan history changed, retry")
			return
		}
		logger.Errorw("[saveNutritionPlan] insert failed", "user_id", userID, "error", err)
		apiError(c, http.StatusInternalServerError, "failed to save plan")
		return
	}
	if err := setActivePlanVersion(c, tx, userID, saved.Version); err != nil {
		logger.Errorw("[saveNutritionPlan] activate failed", "user_id", userID, "error", err)
		apiError(c, http.StatusInternalServerError, "failed to save plan")
		return
	}
	if err := tx.Commit(c); err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save plan")
		return
	}

	logger.Infow("[saveNutritionPlan] plan saved", "user_id", userID, "version", saved.Version,
		"acknowledged_warnings", len(review.Warnings))
	c.JSON(http.StatusCreated, saved)
}

// activatePlanVersion points the active plan at an earlier (or later) version.
// POST /api/nutrition-plans/:version/activate. Returns 404 for unknown versions.
func (h *Handler) activatePlanVersion(c *gin.Context) {
	userID := c.GetInt("user_id")

	version, err := strconv.Atoi(c.Param("version"))
	if err != nil || version <= 0 {
		apiError(c, http.StatusBadRequest, "invalid version")
		return
	}

	history, _, err := h.loadPlanHistory(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch plan history")
		return
	}
	history, err = history.Activate(version)
	if err != nil {
		if errors.Is(err, nutrition.ErrPlanVersionNotFound) {
			apiError(c, http.StatusNotFound, "plan version not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to activate plan")
		}
		return
	}
	if err := setActivePlanVersion(c, h.db, userID, version); err != nil {
		apiError(c, http.StatusInternalServerError, "failed to activate plan")
		return
	}

	active, _ := history.Active()
	c.JSON(http.StatusOK, active)
}
