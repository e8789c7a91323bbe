package usecase

import (
	"context"

	"upbmy/internal/domain"
	"upbmy/internal/infrastructure/repository"

	"github.com/google/uuid"
)

type AdminUseCase struct {
	users      *repository.UserRepository
	courses    *repository.CourseRepository
	videos     *repository.VideoRepository
	views      *repository.ViewRepository
	ratings    *repository.RatingRepository
	categories *repository.CategoryRepository
}

func NewAdminUseCase(
	users *repository.UserRepository,
	courses *repository.CourseRepository,
	videos *repository.VideoRepository,
	views *repository.ViewRepository,
	ratings *repository.RatingRepository,
	categories *repository.CategoryRepository,
) *AdminUseCase {
	return &AdminUseCase{
		users:      users,
		courses:    courses,
		videos:     videos,
		views:      views,
		ratings:    ratings,
		categories: categories,
	}
}

// Stats - сводка по платформе для админки.
func (uc *AdminUseCase) Stats(ctx context.Context) (map[string]any, error) {
	totalUsers, err := uc.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	students, err := uc.users.CountByRole(ctx, domain.RoleStudent)
	if err != nil {
		return nil, err
	}
	instructors, err := uc.users.CountByRole(ctx, domain.RoleInstructor)
	if err != nil {
		return nil, err
	}
	totalCourses, err := uc.courses.Count(ctx)
	if err != nil {
		return nil, err
	}
	published, err := uc.courses.CountPublished(ctx)
	if err != nil {
		return nil, err
	}
	totalVideos, err := uc.videos.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalViews, err := uc.views.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalRatings, err := uc.ratings.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalCategories, err := uc.categories.Count(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"totalUsers":      totalUsers,
		"students":        students,
		"instructors":     instructors,
		"totalCourses":    totalCourses,
		"publishedCourses": published,
		"draftCourses":    totalCourses - published,
		"totalVideos":     totalVideos,
		"totalViews":      totalViews,
		"totalRatings":    totalRatings,
		"totalCategories": totalCategories,
	}, nil
}

func (uc *AdminUseCase) ListUsers(ctx context.Context) ([]domain.User, error) {
	return uc.users.List(ctx)
}

func (uc *AdminUseCase) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error {
	return uc.users.SetActive(ctx, userID, active)
}

func (uc *AdminUseCase) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return uc.courses.ListAll(ctx)
}
