package handlers

import (
	"net/http"

	"upbmy/internal/application/usecase"
	"upbmy/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CouponHandler struct {
	coupons *usecase.CouponUseCase
}

func NewCouponHandler(coupons *usecase.CouponUseCase) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// GET /api/coupons/course/:courseId/available
func (h *CouponHandler) Available(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad course id"})
		return
	}

	coupon, err := h.coupons.AvailableForCourse(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

// GET /api/coupons/course/:courseId
func (h *CouponHandler) ListByCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad course id"})
		return
	}

	coupons, err := h.coupons.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupons)
}

// POST /api/coupons/mark-used
func (h *CouponHandler) MarkUsed(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coupon, err := h.coupons.MarkUsed(c.Request.Context(), req.Code, middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

// GET /api/admin/coupons
func (h *CouponHandler) ListAll(c *gin.Context) {
	coupons, err := h.coupons.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupons)
}
