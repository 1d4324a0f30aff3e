package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cs1060f25/nutri-project-sub001/internal/nutrition"
)

// presetsFor generates the four presets for a profile document. When the
// document is insufficient the presets are the fixed defaults and Missing
// says what to ask the user for.
func presetsFor(doc map[string]any, now time.Time) presetsResponse {
	p, energy, missing := assessProfile(doc, now)
	return presetsResponse{
		Personalized: energy != nil,
		Energy:       energy,
		Missing:      missing,
		Presets:      nutrition.GeneratePresets(p),
	}
}

// getPresets returns presets for the stored profile.
// GET /api/nutrition/presets.
func (h *Handler) getPresets(c *gin.Context) {
	userID := c.GetInt("user_id")

	row, err := h.loadProfile(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, presetsFor(row.Doc, time.Now()))
}

// previewPresets returns presets for a profile document sent in the body,
// used during onboarding before anything is saved.
// POST /api/nutrition/presets/preview.
func (h *Handler) previewPresets(c *gin.Context) {
	var doc map[string]any
	if err := c.ShouldBindJSON(&doc); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	c.JSON(http.StatusOK, presetsFor(doc, time.Now()))
}

// bindMetrics decodes a metricsRequest and validates its targets. On failure
// it writes a 400 and returns ok=false.
func bindMetrics(c *gin.Context) (metricsRequest, nutrition.Metrics, bool) {
	var req metricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return req, nil, false
	}
	if len(req.Metrics) == 0 {
		apiError(c, http.StatusBadRequest, "metrics are required")
		return req, nil, false
	}
	metrics, err := nutrition.ParseMetricsInput(req.Metrics)
	if err != nil {
		var invalid *nutrition.InvalidNumericError
		if errors.As(err, &invalid) {
			apiError(c, http.StatusBadRequest, invalid.Error())
		} else {
			apiError(c, http.StatusBadRequest, "invalid metrics")
		}
		return req, nil, false
	}
	if len(metrics) == 0 {
		apiError(c, http.StatusBadRequest, "at least one enabled metric is required")
		return req, nil, false
	}
	return req, metrics, true
}

// validationResponse is the response shape for POST /api/nutrition/validate.
type validationResponse struct {
	nutrition.SafetyReview
	Metrics nutrition.Metrics `json:"metrics"`
}

// validateTargets runs the safety review without saving anything. The
// returned token can be sent back as acknowledged_token when saving.
// POST /api/nutrition/validate.
func (h *Handler) validateTargets(c *gin.Context) {
	req, metrics, ok := bindMetrics(c)
	if !ok {
		return
	}
	review := nutrition.ReviewSubmission(metrics, req.AcknowledgedToken)
	c.JSON(http.StatusOK, validationResponse{SafetyReview: review, Metrics: metrics})
}
