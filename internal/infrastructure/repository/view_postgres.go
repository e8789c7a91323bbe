package repository

import (
	"context"

	"upbmy/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ViewRepository struct {
	db *gorm.DB
}

func NewViewRepository(db *gorm.DB) *ViewRepository {
	return &ViewRepository{db: db}
}

func (r *ViewRepository) Create(ctx context.Context, v *domain.ViewEvent) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *ViewRepository) CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.ViewEvent{}).
		Where("video_id = ?", videoID).Count(&n).Error
	return n, err
}

// CountByCourse суммирует просмотры всех видео курса. Явный join вместо
// хождения по связям модели: courseId на событии не хранится.
func (r *ViewRepository) CountByCourse(ctx context.Context, courseID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.ViewEvent{}).
		Joins("JOIN videos ON videos.id = view_events.video_id").
		Where("videos.course_id = ?", courseID).
		Count(&n).Error
	return n, err
}

func (r *ViewRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ViewEvent, error) {
	var events []domain.ViewEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("viewed_at desc").
		Find(&events).Error
	return events, err
}

func (r *ViewRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.ViewEvent{}).Count(&n).Error
	return n, err
}
