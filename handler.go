package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds shared dependencies (db pool, dining feed) for all route handlers.
type Handler struct {
	db   *pgxpool.Pool
	feed *diningFeed // menu and location collaborator (base URL overridable for tests)
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](pool *pgxpool.Pool, ctx context.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		logger.Errorw("[queryOne] query error", "error", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && err != pgx.ErrNoRows {
		logger.Errorw("[queryOne] scan error", "error", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](pool *pgxpool.Pool, ctx context.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		logger.Errorw("[queryMany] query error", "error", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		logger.Errorw("[queryMany] scan error", "error", err)
	}
	return results, err
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn) because
// the hosted Postgres closes idle connections after a few minutes.
func getDBPool(dbURL string) *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Simple protocol avoids "cached plan must not change result type" after
	// migrations. jsonb parameters are therefore sent as text with ::jsonb casts.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	logger.Info("DB pool ready")
	return pool
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())

	api.GET("/profile", h.getProfile)
	api.PATCH("/profile", h.patchProfile)

	api.GET("/nutrition/presets", h.getPresets)
	api.POST("/nutrition/presets/preview", h.previewPresets)
	api.POST("/nutrition/validate", h.validateTargets)

	api.GET("/nutrition-plans", h.getPlanHistory)
	api.GET("/nutrition-plans/active", h.getActivePlan)
	api.POST("/nutrition-plans", h.saveNutritionPlan)
	api.POST("/nutrition-plans/:version/activate", h.activatePlanVersion)

	api.GET("/locations", h.getLocations)
	api.GET("/menu", h.getMenu)

	api.GET("/saved-meal-plans", h.getSavedMealPlans)
	api.POST("/saved-meal-plans", h.createSavedMealPlan)
	api.GET("/saved-meal-plans/availability", h.getTemplateAvailability)
	api.POST("/saved-meal-plans/:id/use", h.useSavedMealPlan)
	api.PUT("/saved-meal-plans/:id/rating", h.rateSavedMealPlan)
	api.DELETE("/saved-meal-plans/:id", h.deleteSavedMealPlan)

	api.GET("/planning/week", h.getPlanningWeek)

	api.GET("/meal-log/daily", h.getDailyLog)
	api.POST("/meal-log/items", h.createMealLogItem)
	api.DELETE("/meal-log/items/:id", h.deleteMealLogItem)
	api.POST("/meal-log/preview", h.previewMealProgress)
}
