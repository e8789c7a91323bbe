package usecase

import (
	"context"
	"mime/multipart"

	"upbmy/internal/domain"
	"upbmy/internal/infrastructure/repository"
	"upbmy/internal/infrastructure/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VideoUseCase struct {
	videos  *repository.VideoRepository
	courses *repository.CourseRepository
	files   *storage.LocalStorage
	log     *zap.SugaredLogger
}

func NewVideoUseCase(
	videos *repository.VideoRepository,
	courses *repository.CourseRepository,
	files *storage.LocalStorage,
	log *zap.SugaredLogger,
) *VideoUseCase {
	return &VideoUseCase{videos: videos, courses: courses, files: files, log: log}
}

type VideoInput struct {
	Title       string
	Description string
	Position    int
	DurationSec int
}

// Upload сохраняет файл и заводит видео в курсе. Позиция в курсе
// уникальна - занятая вернёт ErrConflict, файл при этом подчищается.
func (uc *VideoUseCase) Upload(ctx context.Context, actor *domain.User, courseID uuid.UUID, in VideoInput, file *multipart.FileHeader) (*domain.Video, error) {
	if in.Title == "" || in.Position < 1 {
		return nil, domain.ErrValidation
	}
	if _, err := uc.ownedCourse(ctx, actor, courseID); err != nil {
		return nil, err
	}

	name, err := uc.files.Save(file)
	if err != nil {
		return nil, err
	}

	video := &domain.Video{
		ID:          uuid.New(),
		CourseID:    courseID,
		Title:       in.Title,
		Description: in.Description,
		FileURL:     name,
		Position:    in.Position,
		DurationSec: in.DurationSec,
	}
	if err := uc.videos.Create(ctx, video); err != nil {
		if derr := uc.files.Delete(name); derr != nil {
			uc.log.Warnw("orphan upload cleanup failed", "file", name, "err", derr)
		}
		return nil, err
	}
	return video, nil
}

func (uc *VideoUseCase) Update(ctx context.Context, actor *domain.User, videoID uuid.UUID, in VideoInput) (*domain.Video, error) {
	video, err := uc.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.ownedCourse(ctx, actor, video.CourseID); err != nil {
		return nil, err
	}

	if in.Title != "" {
		video.Title = in.Title
	}
	video.Description = in.Description
	if in.Position > 0 {
		video.Position = in.Position
	}
	if in.DurationSec > 0 {
		video.DurationSec = in.DurationSec
	}

	if err := uc.videos.Update(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

func (uc *VideoUseCase) Delete(ctx context.Context, actor *domain.User, videoID uuid.UUID) error {
	video, err := uc.videos.GetByID(ctx, videoID)
	if err != nil {
		return err
	}
	if _, err := uc.ownedCourse(ctx, actor, video.CourseID); err != nil {
		return err
	}

	if err := uc.files.Delete(video.FileURL); err != nil {
		uc.log.Warnw("video file delete failed", "videoId", videoID, "err", err)
	}
	return uc.videos.Delete(ctx, videoID)
}

func (uc *VideoUseCase) Get(ctx context.Context, videoID uuid.UUID) (*domain.Video, error) {
	return uc.videos.GetByID(ctx, videoID)
}

func (uc *VideoUseCase) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Video, error) {
	if _, err := uc.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return uc.videos.ListByCourse(ctx, courseID)
}

// FilePath отдаёт путь к файлу видео для стриминга.
func (uc *VideoUseCase) FilePath(ctx context.Context, videoID uuid.UUID) (string, error) {
	video, err := uc.videos.GetByID(ctx, videoID)
	if err != nil {
		return "", err
	}
	path, err := uc.files.Path(video.FileURL)
	if err != nil {
		return "", domain.ErrNotFound
	}
	return path, nil
}

func (uc *VideoUseCase) ownedCourse(ctx context.Context, actor *domain.User, courseID uuid.UUID) (*domain.Course, error) {
	course, err := uc.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != actor.ID && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return course, nil
}
