package usecase

import (
	"context"
	"errors"

	"upbmy/internal/domain"
	"upbmy/internal/infrastructure/repository"

	"github.com/google/uuid"
)

type RatingUseCase struct {
	ratings *repository.RatingRepository
	courses *repository.CourseRepository
}

func NewRatingUseCase(ratings *repository.RatingRepository, courses *repository.CourseRepository) *RatingUseCase {
	return &RatingUseCase{ratings: ratings, courses: courses}
}

// Rate ставит или обновляет оценку. На пару (user, course) всегда одна
// строка: повторная отправка перезаписывает score, а не вставляет вторую.
func (uc *RatingUseCase) Rate(ctx context.Context, user *domain.User, courseID uuid.UUID, score int) (*domain.Rating, error) {
	if score < 1 || score > 5 {
		return nil, domain.ErrValidation
	}

	course, err := uc.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID == user.ID {
		// свой курс не оцениваем
		return nil, domain.ErrForbidden
	}

	existing, err := uc.ratings.GetByUserAndCourse(ctx, user.ID, courseID)
	if err == nil {
		existing.Score = score
		if err := uc.ratings.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	rating := &domain.Rating{
		ID:       uuid.New(),
		UserID:   user.ID,
		CourseID: courseID,
		Score:    score,
	}
	if err := uc.ratings.Create(ctx, rating); err != nil {
		// гонка двух одновременных отправок: уникальный индекс сработал,
		// значит строка уже есть - обновляем её
		if errors.Is(err, domain.ErrConflict) {
			existing, gerr := uc.ratings.GetByUserAndCourse(ctx, user.ID, courseID)
			if gerr != nil {
				return nil, gerr
			}
			existing.Score = score
			if uerr := uc.ratings.Update(ctx, existing); uerr != nil {
				return nil, uerr
			}
			return existing, nil
		}
		return nil, err
	}
	return rating, nil
}

func (uc *RatingUseCase) MyRating(ctx context.Context, userID, courseID uuid.UUID) (*domain.Rating, error) {
	return uc.ratings.GetByUserAndCourse(ctx, userID, courseID)
}

func (uc *RatingUseCase) Summary(ctx context.Context, courseID uuid.UUID) (*domain.RatingSummary, error) {
	if _, err := uc.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return uc.ratings.Summary(ctx, courseID)
}

func (uc *RatingUseCase) Delete(ctx context.Context, userID, courseID uuid.UUID) error {
	return uc.ratings.Delete(ctx, userID, courseID)
}
