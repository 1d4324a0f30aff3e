package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/cs1060f25/nutri-project-sub001/internal/nutrition"
)

// maxConcurrentMenuFetches bounds parallel requests to the dining feed.
const maxConcurrentMenuFetches = 4

// currentMonday returns the Monday of the current week at midnight UTC.
// Uses AddDate to safely handle month/year boundaries.
func currentMonday() time.Time {
	return mondayOf(time.Now().UTC())
}

// mondayOf returns the Monday on or before t, at midnight UTC.
func mondayOf(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday()) // 0=Sun
	if weekday == 0 {
		weekday = 7 // treat Sunday as day 7 so Mon=1..Sun=7
	}
	return t.AddDate(0, 0, -(weekday - 1)).Truncate(24 * time.Hour)
}

// buildPlanningWeek fetches the seven menus starting at weekStart in parallel
// and matches every template against each day. A day whose menu can't be
// fetched is reported with menu_available=false; only cancellation of ctx
// fails the whole week.
func buildPlanningWeek(ctx context.Context, feed *diningFeed, plans []savedMealPlan, weekStart time.Time) ([]planningDay, error) {
	days := make([]planningDay, 7)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentMenuFetches)

	for i := range days {
		i := i
		date := weekStart.AddDate(0, 0, i)
		g.Go(func() error {
			menu, fetched := feed.menuOrEmpty(gctx, date)
			if err := gctx.Err(); err != nil {
				return err
			}
			idx := nutrition.IndexMenu(menu)
			// Each goroutine writes only its own slot.
			days[i] = planningDay{
				Date:          DateOnly{date},
				MenuAvailable: fetched && !idx.Empty(),
				ServedPeriods: idx.Periods(),
				Templates:     matchTemplates(idx, plans),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return days, nil
}

// getPlanningWeek returns a 7-day calendar of template availability plus the
// normalized location list.
// GET /api/planning/week?week_start=YYYY-MM-DD (defaults to the current week).
func (h *Handler) getPlanningWeek(c *gin.Context) {
	userID := c.GetInt("user_id")

	var weekStart time.Time
	if s := c.Query("week_start"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid week_start, expected YYYY-MM-DD")
			return
		}
		weekStart = t
	} else {
		weekStart = currentMonday()
	}

	plans, err := h.listSavedMealPlans(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch saved meal plans")
		return
	}

	ctx := c.Request.Context()
	days, err := buildPlanningWeek(ctx, h.feed, plans, weekStart)
	if err != nil {
		logger.Warnw("[getPlanningWeek] request cancelled", "error", err)
		apiError(c, http.StatusServiceUnavailable, "request cancelled")
		return
	}

	locs, err := h.feed.locations(ctx)
	if err != nil {
		logger.Warnw("[getPlanningWeek] locations unavailable", "error", err)
		locs = nil
	}

	c.JSON(http.StatusOK, planningWeek{
		WeekStart: DateOnly{weekStart},
		Locations: withStyles(locs),
		Days:      days,
	})
}
