package events

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

//
// --------------------------------------------------
// GET /admin/events?processed=true|false&limit=N
// --------------------------------------------------
//

func (h *Handler) ListEvents() gin.HandlerFunc {
	return func(c *gin.Context) {
		var processed *bool
		if raw := c.Query("processed"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "processed must be true or false"})
				return
			}
			processed = &v
		}

		limit := 100
		if raw := c.Query("limit"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 1 || v > 1000 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be 1-1000"})
				return
			}
			limit = v
		}

		list, err := h.repo.List(c.Request.Context(), processed, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": list, "count": len(list)})
	}
}

//
// --------------------------------------------------
// GET /admin/events/:id
// --------------------------------------------------
//

func (h *Handler) GetEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		e, err := h.repo.GetByID(c.Request.Context(), id)
		if err == ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		c.JSON(http.StatusOK, e)
	}
}
