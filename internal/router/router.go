package router

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bitthal/Deals-Agent/internal/events"
	"github.com/bitthal/Deals-Agent/internal/middleware"
	"github.com/bitthal/Deals-Agent/internal/suggestions"
)

// NewRouter wires the admin surface: health/ready are public, everything
// else sits behind operator tokens. The API only reads rows and performs
// the two writes the pipeline contract allows from outside (feedback on a
// non-terminal suggestion, reset of a failed one).
func NewRouter(
	pool *pgxpool.Pool,
	eventRepo events.Repository,
	suggestionRepo suggestions.Repository,
) *gin.Engine {

	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	eventHandler := events.NewHandler(eventRepo)
	suggestionHandler := suggestions.NewHandler(suggestionRepo)

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.GET("/events", eventHandler.ListEvents())
		admin.GET("/events/:id", eventHandler.GetEvent())

		admin.GET("/suggestions", suggestionHandler.ListSuggestions())
		admin.GET("/suggestions/:id", suggestionHandler.GetSuggestion())
		admin.POST("/suggestions/:id/feedback", suggestionHandler.SubmitFeedback())
		admin.POST("/suggestions/:id/reset", suggestionHandler.ResetFailed())

		admin.GET("/stuck", stuckHandler(eventRepo, suggestionRepo))
	}

	return r
}

// stuckHandler surfaces rows claimed longer than the threshold with no
// terminal outcome, for the reconciliation sweep.
func stuckHandler(eventRepo events.Repository, suggestionRepo suggestions.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		thresholdMinutes := 30
		if raw := c.Query("threshold_minutes"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "threshold_minutes must be a positive integer"})
				return
			}
			thresholdMinutes = v
		}
		threshold := time.Duration(thresholdMinutes) * time.Minute

		stuckEvents, err := eventRepo.ListStuck(c.Request.Context(), threshold)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		stuckSuggestions, err := suggestionRepo.ListStuck(c.Request.Context(), threshold)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"threshold_minutes": thresholdMinutes,
			"events":            stuckEvents,
			"suggestions":       stuckSuggestions,
		})
	}
}
