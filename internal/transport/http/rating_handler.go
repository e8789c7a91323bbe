package handlers

import (
	"net/http"

	"upbmy/internal/application/usecase"
	"upbmy/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RatingHandler struct {
	ratings *usecase.RatingUseCase
}

func NewRatingHandler(ratings *usecase.RatingUseCase) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

// POST /api/ratings/course/:courseId
func (h *RatingHandler) Rate(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad course id"})
		return
	}
	var req struct {
		Score int `json:"score" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.ratings.Rate(c.Request.Context(), middleware.CurrentUser(c), courseID, req.Score)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// GET /api/ratings/course/:courseId/mine
func (h *RatingHandler) Mine(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad course id"})
		return
	}

	rating, err := h.ratings.MyRating(c.Request.Context(), middleware.CurrentUser(c).ID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// GET /api/ratings/course/:courseId/summary
func (h *RatingHandler) Summary(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad course id"})
		return
	}

	summary, err := h.ratings.Summary(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// DELETE /api/ratings/course/:courseId
func (h *RatingHandler) Delete(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad course id"})
		return
	}

	if err := h.ratings.Delete(c.Request.Context(), middleware.CurrentUser(c).ID, courseID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
