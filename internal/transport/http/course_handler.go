package handlers

import (
	"net/http"

	"upbmy/internal/application/usecase"
	"upbmy/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CourseHandler struct {
	courses *usecase.CourseUseCase
}

func NewCourseHandler(courses *usecase.CourseUseCase) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// GET /api/courses?search=...&category=...
func (h *CourseHandler) List(c *gin.Context) {
	search := c.Query("search")

	var categoryID *uuid.UUID
	if raw := c.Query("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad category id"})
			return
		}
		categoryID = &id
	}

	courses, err := h.courses.ListPublished(c.Request.Context(), search, categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GET /api/courses/:id
func (h *CourseHandler) GetOne(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad course id"})
		return
	}

	course, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// POST /api/courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req usecase.CourseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.courses.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// PUT /api/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad course id"})
		return
	}
	var req usecase.CourseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.courses.Update(c.Request.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// POST /api/courses/:id/publish
func (h *CourseHandler) Publish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad course id"})
		return
	}

	course, err := h.courses.Publish(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// DELETE /api/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad course id"})
		return
	}

	if err := h.courses.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/courses/mine
func (h *CourseHandler) Mine(c *gin.Context) {
	courses, err := h.courses.MyCourses(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GET /api/categories
func (h *CourseHandler) Categories(c *gin.Context) {
	categories, err := h.courses.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
