package repository

import (
	"context"
	"errors"

	"upbmy/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	err := r.db.WithContext(ctx).Create(rating).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}
	return err
}

func (r *RatingRepository) Update(ctx context.Context, rating *domain.Rating) error {
	return r.db.WithContext(ctx).Save(rating).Error
}

func (r *RatingRepository) GetByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*domain.Rating, error) {
	var rating domain.Rating
	err := r.db.WithContext(ctx).
		First(&rating, "user_id = ? AND course_id = ?", userID, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &rating, err
}

func (r *RatingRepository) Delete(ctx context.Context, userID, courseID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Delete(&domain.Rating{}, "user_id = ? AND course_id = ?", userID, courseID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Summary считает среднее и распределение только по существующим строкам:
// кто не оценил, в статистику не попадает.
func (r *RatingRepository) Summary(ctx context.Context, courseID uuid.UUID) (*domain.RatingSummary, error) {
	type row struct {
		Score int
		N     int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&domain.Rating{}).
		Select("score, count(*) as n").
		Where("course_id = ?", courseID).
		Group("score").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &domain.RatingSummary{
		CourseID:     courseID,
		Distribution: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	var sum int64
	for _, rw := range rows {
		summary.Distribution[rw.Score] = rw.N
		summary.Total += rw.N
		sum += int64(rw.Score) * rw.N
	}
	if summary.Total > 0 {
		summary.Average = float64(sum) / float64(summary.Total)
	}
	return summary, nil
}

func (r *RatingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Rating{}).Count(&n).Error
	return n, err
}
