package repository

import (
	"context"
	"errors"

	"upbmy/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(ctx context.Context, v *domain.Video) error {
	err := r.db.WithContext(ctx).Create(v).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// занята позиция в курсе
		return domain.ErrConflict
	}
	return err
}

func (r *VideoRepository) Update(ctx context.Context, v *domain.Video) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Video, error) {
	var v domain.Video
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &v, err
}

func (r *VideoRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Video, error) {
	var videos []domain.Video
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position asc").
		Find(&videos).Error
	return videos, err
}

func (r *VideoRepository) CountByCourse(ctx context.Context, courseID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Video{}).
		Where("course_id = ?", courseID).Count(&n).Error
	return n, err
}

func (r *VideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Video{}, "id = ?", id).Error
}

func (r *VideoRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Video{}).Count(&n).Error
	return n, err
}
