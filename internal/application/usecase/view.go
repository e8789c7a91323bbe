package usecase

import (
	"context"
	"sync"
	"time"

	"upbmy/internal/domain"
	"upbmy/internal/infrastructure/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dispatchTimeout = 30 * time.Second

// CouponIssuer - то, что запускается при пересечении порога. Ошибки
// гасит внутри себя: регистрация просмотра не должна знать о здоровье
// партнёрских API.
type CouponIssuer interface {
	IssueForMilestone(ctx context.Context, courseID uuid.UUID, threshold, totalViews int64)
}

type ViewUseCase struct {
	views      *repository.ViewRepository
	videos     *repository.VideoRepository
	milestones *repository.MilestoneRepository
	coupons    CouponIssuer
	log        *zap.SugaredLogger

	// считает живые диспатчи, чтобы шатдаун мог их дождаться
	inflight sync.WaitGroup
}

func NewViewUseCase(
	views *repository.ViewRepository,
	videos *repository.VideoRepository,
	milestones *repository.MilestoneRepository,
	coupons CouponIssuer,
	log *zap.SugaredLogger,
) *ViewUseCase {
	return &ViewUseCase{
		views:      views,
		videos:     videos,
		milestones: milestones,
		coupons:    coupons,
		log:        log,
	}
}

// RegisterView пишет событие просмотра и, если курс только что пересёк
// порог, асинхронно запускает выдачу купона. Ответ не ждёт партнёра:
// горутина стартует уже после того, как событие закоммичено в БД.
func (uc *ViewUseCase) RegisterView(ctx context.Context, videoID uuid.UUID, userID *uuid.UUID, ip string) (*domain.ViewEvent, error) {
	video, err := uc.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	// счётчик курса ДО новой вьюшки
	before, err := uc.views.CountByCourse(ctx, video.CourseID)
	if err != nil {
		return nil, err
	}

	event := &domain.ViewEvent{
		ID:      uuid.New(),
		VideoID: videoID,
		UserID:  userID,
		IPAddr:  ip,
	}
	if err := uc.views.Create(ctx, event); err != nil {
		return nil, err
	}

	after := before + 1
	if threshold, ok := domain.CrossedThreshold(before, after); ok {
		uc.log.Infow("course crossed view threshold",
			"courseId", video.CourseID, "threshold", threshold, "views", after)
		uc.dispatchAsync(video.CourseID, threshold, after)
	}

	return event, nil
}

// dispatchAsync пытается занять майлстоун и, если получилось, дёргает
// выдачу купона. Claim идёт через уникальный индекс в БД, поэтому из
// любого числа конкурентных регистраций до партнёра дойдёт одна.
func (uc *ViewUseCase) dispatchAsync(courseID uuid.UUID, threshold, totalViews int64) {
	uc.inflight.Add(1)
	go func() {
		defer uc.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		claimed, err := uc.milestones.TryClaim(ctx, courseID, threshold)
		if err != nil {
			uc.log.Errorw("milestone claim failed",
				"courseId", courseID, "threshold", threshold, "err", err)
			return
		}
		if !claimed {
			// кто-то успел раньше - его диспатч, не наш
			return
		}

		uc.coupons.IssueForMilestone(ctx, courseID, threshold, totalViews)
	}()
}

// Wait дожидается запущенных диспатчей. Зовётся при graceful shutdown;
// если процесс умирает жёстко, claim уже в БД и повтора не будет.
func (uc *ViewUseCase) Wait() {
	uc.inflight.Wait()
}

func (uc *ViewUseCase) CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	if _, err := uc.videos.GetByID(ctx, videoID); err != nil {
		return 0, err
	}
	return uc.views.CountByVideo(ctx, videoID)
}

func (uc *ViewUseCase) CountByCourse(ctx context.Context, courseID uuid.UUID) (int64, error) {
	return uc.views.CountByCourse(ctx, courseID)
}

func (uc *ViewUseCase) History(ctx context.Context, userID uuid.UUID) ([]domain.ViewEvent, error) {
	return uc.views.ListByUser(ctx, userID)
}
