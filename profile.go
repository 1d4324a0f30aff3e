package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/cs1060f25/nutri-project-sub001/internal/nutrition"
)

// loadProfile returns the user's stored profile row. A user without a row
// gets an empty document rather than an error.
func (h *Handler) loadProfile(ctx context.Context, userID int) (userProfile, error) {
	p, err := queryOne[userProfile](h.db, ctx,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return userProfile{UserID: userID, Doc: map[string]any{}}, nil
	}
	if err != nil {
		return userProfile{}, err
	}
	if p.Doc == nil {
		p.Doc = map[string]any{}
	}
	return p, nil
}

// assessProfile normalizes doc and computes BMR/TDEE. Energy is nil when the
// profile is insufficient, and missing names the absent fields.
func assessProfile(doc map[string]any, now time.Time) (nutrition.Profile, *nutrition.Energy, []string) {
	p := nutrition.NormalizeProfile(doc, now)
	energy, err := nutrition.ComputeEnergy(p)
	if err != nil {
		var insufficient *nutrition.InsufficientInputError
		if errors.As(err, &insufficient) {
			return p, nil, insufficient.Missing
		}
		return p, nil, nil
	}
	return p, &energy, []string{}
}

func newProfileResponse(row userProfile) profileResponse {
	p, energy, missing := assessProfile(row.Doc, time.Now())
	return profileResponse{
		Profile:           row.Doc,
		Normalized:        p,
		Energy:            energy,
		Missing:           missing,
		ActivePlanVersion: row.ActivePlanVersion,
	}
}

// getProfile returns the stored profile document, its normalized form, and
// BMR/TDEE when the profile is complete enough.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	row, err := h.loadProfile(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(row))
}

// validActivityLevelPatch reports whether the activity level keys in body,
// when present, hold a known level. An empty string or null clears the level.
// Anything else would be read back as sedentary, so it is refused.
func validActivityLevelPatch(body map[string]any) bool {
	for _, key := range []string{"activityLevel", "activity_level"} {
		v, ok := body[key]
		if !ok || v == nil {
			continue
		}
		s, isString := v.(string)
		if !isString {
			return false
		}
		if strings.TrimSpace(s) != "" && !nutrition.IsActivityLevel(s) {
			return false
		}
	}
	return true
}

// patchProfile merges the body's keys into the stored profile document.
// PATCH /api/profile. Keys not sent keep their stored values; the document
// stays loosely typed and is normalized on every read.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil || body == nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if !validActivityLevelPatch(body) {
		apiError(c, http.StatusBadRequest,
			"activityLevel must be one of: sedentary, lightly-active, moderately-active, very-active, extremely-active")
		return
	}

	patch, err := json.Marshal(body)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := queryOne[userProfile](h.db, c,
		`INSERT INTO user_profiles (user_id, doc)
		 VALUES (@userID, @patch::jsonb)
		 ON CONFLICT (user_id) DO UPDATE
		   SET doc = user_profiles.doc || EXCLUDED.doc, updated_at = now()
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "patch": string(patch)})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	logger.Infow("[patchProfile] profile updated", "user_id", userID, "keys", len(body))
	c.JSON(http.StatusOK, newProfileResponse(row))
}
