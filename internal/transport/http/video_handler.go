package handlers

import (
	"net/http"
	"strconv"

	"upbmy/internal/application/usecase"
	"upbmy/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VideoHandler struct {
	videos *usecase.VideoUseCase
}

func NewVideoHandler(videos *usecase.VideoUseCase) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// POST /api/courses/:id/videos (multipart: file + поля)
func (h *VideoHandler) Upload(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad course id"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	position, _ := strconv.Atoi(c.PostForm("position"))
	duration, _ := strconv.Atoi(c.PostForm("durationSec"))
	in := usecase.VideoInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Position:    position,
		DurationSec: duration,
	}

	video, err := h.videos.Upload(c.Request.Context(), middleware.CurrentUser(c), courseID, in, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, video)
}

// PUT /api/videos/:id
func (h *VideoHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad video id"})
		return
	}
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Position    int    `json:"position"`
		DurationSec int    `json:"durationSec"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	video, err := h.videos.Update(c.Request.Context(), middleware.CurrentUser(c), id, usecase.VideoInput{
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
		DurationSec: req.DurationSec,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// DELETE /api/videos/:id
func (h *VideoHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad video id"})
		return
	}

	if err := h.videos.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/videos/:id
func (h *VideoHandler) GetOne(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad video id"})
		return
	}

	video, err := h.videos.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// GET /api/courses/:id/videos
func (h *VideoHandler) ListByCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad course id"})
		return
	}

	videos, err := h.videos.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

// GET /api/videos/:id/file - отдача самого файла
func (h *VideoHandler) Stream(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad video id"})
		return
	}

	path, err := h.videos.FilePath(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.File(path)
}
