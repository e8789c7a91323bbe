package domain

import (
	"time"

	"github.com/google/uuid"
)

// Coupon - купон, выданный партнёром Snack за достижение порога просмотров.
// На пару (курс, порог) может существовать максимум один купон.
type Coupon struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID        uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uk_coupon_course_threshold"`
	Code            string    `gorm:"uniqueIndex"`
	Threshold       int64     `gorm:"uniqueIndex:uk_coupon_course_threshold"` // 10, 50, 100, 500, 1000
	DiscountPercent int
	Active          bool       `gorm:"default:true"`
	Used            bool       `gorm:"default:false"`
	UsedByUserID    *uuid.UUID `gorm:"type:uuid"`

	GeneratedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt   *time.Time
	UsedAt      *time.Time
}

// Valid - купон ещё можно применить.
func (c *Coupon) Valid(now time.Time) bool {
	if !c.Active || c.Used {
		return false
	}
	if c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
		return false
	}
	return true
}

// MarkUsed проставляет поля использования. Повторно не вызывается:
// флаг Used обратно не снимается.
func (c *Coupon) MarkUsed(userID uuid.UUID, now time.Time) {
	c.Used = true
	c.UsedByUserID = &userID
	c.UsedAt = &now
}
