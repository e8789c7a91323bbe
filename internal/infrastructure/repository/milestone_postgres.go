package repository

import (
	"context"
	"errors"

	"upbmy/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MilestoneRepository struct {
	db *gorm.DB
}

func NewMilestoneRepository(db *gorm.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

// TryClaim атомарно занимает пару (курс, порог). Возвращает true ровно
// один раз за всю жизнь системы; все последующие вызовы - false.
//
// Никаких count-then-check: два конкурентных запроса могут одновременно
// увидеть before=9/after=10, поэтому единственный барьер - INSERT в
// таблицу с уникальным индексом. Кому БД вернула duplicate key, тот
// проиграл гонку и ничего не отправляет.
func (r *MilestoneRepository) TryClaim(ctx context.Context, courseID uuid.UUID, threshold int64) (bool, error) {
	claim := domain.MilestoneClaim{CourseID: courseID, Threshold: threshold}
	err := r.db.WithContext(ctx).Create(&claim).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *MilestoneRepository) CountClaims(ctx context.Context, courseID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.MilestoneClaim{}).
		Where("course_id = ?", courseID).Count(&n).Error
	return n, err
}
