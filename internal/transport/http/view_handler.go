package handlers

import (
	"net/http"

	"upbmy/internal/application/usecase"
	"upbmy/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ViewHandler struct {
	views *usecase.ViewUseCase
}

func NewViewHandler(views *usecase.ViewUseCase) *ViewHandler {
	return &ViewHandler{views: views}
}

// POST /api/views/video/:videoId - регистрация просмотра, аноним тоже может
func (h *ViewHandler) Register(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad video id"})
		return
	}

	var userID *uuid.UUID
	if user := middleware.CurrentUser(c); user != nil {
		userID = &user.ID
	}

	event, err := h.views.RegisterView(c.Request.Context(), videoID, userID, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// GET /api/views/video/:videoId/count
func (h *ViewHandler) VideoCount(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad video id"})
		return
	}

	n, err := h.views.CountByVideo(c.Request.Context(), videoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"videoId": videoID, "views": n})
}

// GET /api/views/course/:courseId/count
func (h *ViewHandler) CourseCount(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad course id"})
		return
	}

	n, err := h.views.CountByCourse(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courseId": courseID, "views": n})
}

// GET /api/views/my-history
func (h *ViewHandler) MyHistory(c *gin.Context) {
	events, err := h.views.History(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}
