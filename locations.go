package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cs1060f25/nutri-project-sub001/internal/nutrition"
)

// locationResponse is a normalized location plus its presentation style.
type locationResponse struct {
	nutrition.Location
	Style locationStyle `json:"style"`
}

func withStyles(locs []nutrition.Location) []locationResponse {
	out := make([]locationResponse, 0, len(locs))
	for _, l := range locs {
		out = append(out, locationResponse{Location: l, Style: styleFor(l.CanonicalName)})
	}
	return out
}

// getLocations returns the feed's locations with co-resident houses split
// into separate entries.
// GET /api/locations.
func (h *Handler) getLocations(c *gin.Context) {
	locs, err := h.feed.locations(c.Request.Context())
	if err != nil {
		logger.Errorw("[getLocations] dining feed error", "error", err)
		apiError(c, http.StatusBadGateway, "dining feed unavailable")
		return
	}
	c.JSON(http.StatusOK, withStyles(locs))
}

// getMenu returns the nested menu (location → meal → category → recipes).
// GET /api/menu?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getMenu(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}
	menu, err := h.feed.menu(c.Request.Context(), date)
	if err != nil {
		logger.Errorw("[getMenu] dining feed error", "error", err)
		apiError(c, http.StatusBadGateway, "dining feed unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date.Format(dateLayout), "menu": menu})
}

// parseDateParam reads a YYYY-MM-DD query param, defaulting to today. On a
// malformed value it writes a 400 and returns ok=false.
func parseDateParam(c *gin.Context, name string) (time.Time, bool) {
	s := c.Query(name)
	if s == "" {
		return today(), true
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid "+name+", expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// today is the current date at midnight UTC.
func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
