package suggestions

import (
	"errors"
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
// GET /admin/suggestions?status=...&limit=N
// --------------------------------------------------
//

func (h *Handler) ListSuggestions() gin.HandlerFunc {
	return func(c *gin.Context) {
		var status *Status
		if raw := c.Query("status"); raw != "" {
			s := Status(raw)
			if !s.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
				return
			}
			status = &s
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

		list, err := h.repo.List(c.Request.Context(), status, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"suggestions": list, "count": len(list)})
	}
}

//
// --------------------------------------------------
// GET /admin/suggestions/:id
// --------------------------------------------------
//

func (h *Handler) GetSuggestion() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid suggestion id"})
			return
		}

		s, err := h.repo.GetByID(c.Request.Context(), id)
		if err == ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "suggestion not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

//
// --------------------------------------------------
// POST /admin/suggestions/:id/feedback
// --------------------------------------------------
//

func (h *Handler) SubmitFeedback() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid suggestion id"})
			return
		}

		var req struct {
			Feedback Feedback `json:"feedback"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || !req.Feedback.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "feedback must be 'accepted' or 'rejected'"})
			return
		}

		err = h.repo.SubmitFeedback(c.Request.Context(), id, req.Feedback)
		if errors.Is(err, ErrIllegalTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": "suggestion is not awaiting feedback"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db update failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "feedback recorded", "feedback": req.Feedback})
	}
}

//
// --------------------------------------------------
// POST /admin/suggestions/:id/reset
//
// Operator re-enqueue for deal_post_failed rows only.
// --------------------------------------------------
//

func (h *Handler) ResetFailed() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid suggestion id"})
			return
		}

		err = h.repo.ResetFailed(c.Request.Context(), id)
		if errors.Is(err, ErrIllegalTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": "only deal_post_failed suggestions can be reset"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db update failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "suggestion re-enqueued for publishing"})
	}
}
