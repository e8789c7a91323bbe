package handlers

import (
	"net/http"

	"upbmy/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

// ExternalHandler - эндпоинты, которые дёргают партнёры, а не наш фронт.
type ExternalHandler struct {
	courses *usecase.CourseUseCase
}

func NewExternalHandler(courses *usecase.CourseUseCase) *ExternalHandler {
	return &ExternalHandler{courses: courses}
}

// GET /api/snack/views-validation
//
// Snack перед выдачей кода сверяется с нами out-of-band. По контракту
// интеграции эндпоинт отдаёт ровно 10.
func (h *ExternalHandler) ViewsValidation(c *gin.Context) {
	c.JSON(http.StatusOK, 10)
}

// GET /api/external/courses/top-views - топ-3 курсов для маркетплейса
func (h *ExternalHandler) TopCourses(c *gin.Context) {
	top, err := h.courses.TopByViews(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, top)
}
