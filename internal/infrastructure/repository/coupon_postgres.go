package repository

import (
	"context"
	"errors"

	"upbmy/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}
	return err
}

func (r *CouponRepository) Update(ctx context.Context, c *domain.Coupon) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var c domain.Coupon
	err := r.db.WithContext(ctx).First(&c, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &c, err
}

func (r *CouponRepository) ExistsForMilestone(ctx context.Context, courseID uuid.UUID, threshold int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Coupon{}).
		Where("course_id = ? AND threshold = ?", courseID, threshold).
		Count(&n).Error
	return n > 0, err
}

func (r *CouponRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Coupon, error) {
	var coupons []domain.Coupon
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("generated_at desc").
		Find(&coupons).Error
	return coupons, err
}

// FirstAvailable - первый живой купон курса (активный, не использованный).
func (r *CouponRepository) FirstAvailable(ctx context.Context, courseID uuid.UUID) (*domain.Coupon, error) {
	var c domain.Coupon
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND active = ? AND used = ?", courseID, true, false).
		Order("generated_at asc").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &c, err
}

func (r *CouponRepository) ListAll(ctx context.Context) ([]domain.Coupon, error) {
	var coupons []domain.Coupon
	err := r.db.WithContext(ctx).Order("generated_at desc").Find(&coupons).Error
	return coupons, err
}
