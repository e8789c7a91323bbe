package usecase

import (
	"context"

	"upbmy/internal/client"
	"upbmy/internal/domain"
	"upbmy/internal/infrastructure/repository"
	"upbmy/internal/infrastructure/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Marketplace - наружу к UPBolis.
type Marketplace interface {
	CreateProduct(ctx context.Context, name, description string, price float64) (*client.Product, error)
	RecreateWithPrice(ctx context.Context, oldProductID *int64, name, description string, newPrice float64) (*client.Product, error)
	DeactivateProduct(ctx context.Context, productID int64) error
}

type CourseUseCase struct {
	courses    *repository.CourseRepository
	categories *repository.CategoryRepository
	videos     *repository.VideoRepository
	views      *repository.ViewRepository
	market     Marketplace
	files      *storage.LocalStorage
	log        *zap.SugaredLogger
}

func NewCourseUseCase(
	courses *repository.CourseRepository,
	categories *repository.CategoryRepository,
	videos *repository.VideoRepository,
	views *repository.ViewRepository,
	market Marketplace,
	files *storage.LocalStorage,
	log *zap.SugaredLogger,
) *CourseUseCase {
	return &CourseUseCase{
		courses:    courses,
		categories: categories,
		videos:     videos,
		views:      views,
		market:     market,
		files:      files,
		log:        log,
	}
}

type CourseInput struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	CategoryID  uuid.UUID `json:"categoryId" binding:"required"`
	CoverURL    string    `json:"coverUrl"`
	Price       float64   `json:"price"`
}

func (uc *CourseUseCase) Create(ctx context.Context, instructor *domain.User, in CourseInput) (*domain.Course, error) {
	if _, err := uc.categories.GetByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	course := &domain.Course{
		ID:           uuid.New(),
		Title:        in.Title,
		Description:  in.Description,
		InstructorID: instructor.ID,
		CategoryID:   in.CategoryID,
		CoverURL:     in.CoverURL,
		Price:        in.Price,
		Published:    false,
	}
	if err := uc.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Update правит курс. Смена цены у курса, уже заведённого на маркетплейсе,
// запускает пересоздание товара (цена там иммутабельна). Партнёрская часть
// best effort: сам апдейт курса от неё не зависит.
func (uc *CourseUseCase) Update(ctx context.Context, actor *domain.User, courseID uuid.UUID, in CourseInput) (*domain.Course, error) {
	course, err := uc.ownedCourse(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.categories.GetByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	priceChanged := course.Price != in.Price

	course.Title = in.Title
	course.Description = in.Description
	course.CategoryID = in.CategoryID
	if in.CoverURL != "" {
		course.CoverURL = in.CoverURL
	}
	course.Price = in.Price

	if err := uc.courses.Update(ctx, course); err != nil {
		return nil, err
	}

	if priceChanged && course.UpbolisProductID != nil {
		product, err := uc.market.RecreateWithPrice(ctx, course.UpbolisProductID, course.Title, course.Description, in.Price)
		if err != nil {
			uc.log.Errorw("upbolis price recreate failed", "courseId", courseID, "err", err)
		} else {
			if err := uc.courses.SetUpbolisProductID(ctx, courseID, &product.ID); err != nil {
				return nil, err
			}
			course.UpbolisProductID = &product.ID
		}
	}

	return course, nil
}

// Publish переводит курс в published. Нужен хотя бы один видеоролик.
// Первая публикация регистрирует курс как товар в UPBolis.
func (uc *CourseUseCase) Publish(ctx context.Context, actor *domain.User, courseID uuid.UUID) (*domain.Course, error) {
	course, err := uc.ownedCourse(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	n, err := uc.videos.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrValidation
	}

	if err := uc.courses.SetPublished(ctx, courseID, true); err != nil {
		return nil, err
	}
	course.Published = true

	if course.UpbolisProductID == nil {
		product, err := uc.market.CreateProduct(ctx, course.Title, course.Description, course.Price)
		if err != nil {
			uc.log.Errorw("upbolis product registration failed", "courseId", courseID, "err", err)
		} else {
			if err := uc.courses.SetUpbolisProductID(ctx, courseID, &product.ID); err != nil {
				return nil, err
			}
			course.UpbolisProductID = &product.ID
		}
	}

	return course, nil
}

// Delete удаляет курс вместе с файлами видео. Товар на маркетплейсе
// деактивируется best effort.
func (uc *CourseUseCase) Delete(ctx context.Context, actor *domain.User, courseID uuid.UUID) error {
	course, err := uc.ownedCourse(ctx, actor, courseID)
	if err != nil {
		return err
	}

	videos, err := uc.videos.ListByCourse(ctx, courseID)
	if err != nil {
		return err
	}
	for _, v := range videos {
		if err := uc.files.Delete(v.FileURL); err != nil {
			uc.log.Warnw("video file cleanup failed", "videoId", v.ID, "err", err)
		}
	}

	if course.UpbolisProductID != nil {
		if err := uc.market.DeactivateProduct(ctx, *course.UpbolisProductID); err != nil {
			uc.log.Warnw("upbolis deactivate failed", "courseId", courseID, "err", err)
		}
	}

	return uc.courses.Delete(ctx, courseID)
}

func (uc *CourseUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	return uc.courses.GetWithVideos(ctx, id)
}

func (uc *CourseUseCase) ListPublished(ctx context.Context, search string, categoryID *uuid.UUID) ([]domain.Course, error) {
	if categoryID != nil {
		if _, err := uc.categories.GetByID(ctx, *categoryID); err != nil {
			return nil, err
		}
	}
	return uc.courses.ListPublished(ctx, search, categoryID)
}

func (uc *CourseUseCase) MyCourses(ctx context.Context, instructorID uuid.UUID) ([]domain.Course, error) {
	return uc.courses.ListByInstructor(ctx, instructorID)
}

func (uc *CourseUseCase) Categories(ctx context.Context) ([]domain.Category, error) {
	return uc.categories.List(ctx)
}

// TopByViews - топ-3 курсов по просмотрам, отдаётся маркетплейсу.
func (uc *CourseUseCase) TopByViews(ctx context.Context) ([]repository.CourseViewCount, error) {
	return uc.courses.TopByViews(ctx, 3)
}

// ownedCourse достаёт курс и проверяет право actor'а им распоряжаться:
// владелец-инструктор или админ.
func (uc *CourseUseCase) ownedCourse(ctx context.Context, actor *domain.User, courseID uuid.UUID) (*domain.Course, error) {
	course, err := uc.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != actor.ID && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return course, nil
}
