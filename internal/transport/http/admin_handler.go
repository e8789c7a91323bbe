package handlers

import (
	"net/http"

	"upbmy/internal/application/usecase"
	"upbmy/internal/client"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	admin   *usecase.AdminUseCase
	upbolis *client.UpbolisClient
}

func NewAdminHandler(admin *usecase.AdminUseCase, upbolis *client.UpbolisClient) *AdminHandler {
	return &AdminHandler{admin: admin, upbolis: upbolis}
}

// GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/admin/users
func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// PATCH /api/admin/users/:id/active
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad user id"})
		return
	}
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.admin.SetUserActive(c.Request.Context(), id, *req.Active); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/admin/courses
func (h *AdminHandler) Courses(c *gin.Context) {
	courses, err := h.admin.ListCourses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GET /api/admin/upbolis/test-connection
func (h *AdminHandler) TestUpbolis(c *gin.Context) {
	if err := h.upbolis.VerifyConnectivity(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"connected": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": true})
}
