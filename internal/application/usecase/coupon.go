package usecase

import (
	"context"
	"strings"
	"time"

	"upbmy/internal/client"
	"upbmy/internal/domain"
	"upbmy/internal/infrastructure/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Маркер в описании курса, за которым перечисляются коды купонов.
// Текст фиксированный: по нему же ищем, чтобы не плодить секции.
const couponMarker = "Códigos de descuento en Snack: "

// SnackAPI - наружу к купонному партнёру.
type SnackAPI interface {
	RequestCoupon(ctx context.Context, req client.CouponRequest) (*client.CouponGrant, error)
	NotifyUsed(ctx context.Context, code string, userID uuid.UUID) error
}

type CouponUseCase struct {
	coupons *repository.CouponRepository
	courses *repository.CourseRepository
	snack   SnackAPI
	log     *zap.SugaredLogger
}

func NewCouponUseCase(
	coupons *repository.CouponRepository,
	courses *repository.CourseRepository,
	snack SnackAPI,
	log *zap.SugaredLogger,
) *CouponUseCase {
	return &CouponUseCase{coupons: coupons, courses: courses, snack: snack, log: log}
}

// IssueForMilestone выпускает купон за пересечённый порог. Вызывается
// после успешного claim, так что конкурентных дублей тут уже нет;
// проверка существующего купона ловит ручные повторы админа.
//
// Ошибок наружу нет: купон - побочный эффект трекинга просмотров,
// и сломанный партнёр не должен ронять ничего выше.
func (uc *CouponUseCase) IssueForMilestone(ctx context.Context, courseID uuid.UUID, threshold, totalViews int64) {
	course, err := uc.courses.GetByID(ctx, courseID)
	if err != nil {
		uc.log.Errorw("coupon issue: course lookup failed", "courseId", courseID, "err", err)
		return
	}

	exists, err := uc.coupons.ExistsForMilestone(ctx, courseID, threshold)
	if err != nil {
		uc.log.Errorw("coupon issue: existence check failed", "courseId", courseID, "err", err)
		return
	}
	if exists {
		uc.log.Infow("coupon already issued for milestone",
			"courseId", courseID, "threshold", threshold)
		return
	}

	grant, err := uc.snack.RequestCoupon(ctx, client.CouponRequest{
		CourseID:   courseID,
		CourseName: course.Title,
		TotalViews: totalViews,
		Threshold:  threshold,
	})
	if err != nil {
		uc.log.Errorw("snack coupon request failed",
			"courseId", courseID, "threshold", threshold, "err", err)
		return
	}

	coupon := &domain.Coupon{
		ID:              uuid.New(),
		CourseID:        courseID,
		Code:            grant.Code,
		Threshold:       threshold,
		DiscountPercent: grant.DiscountPercent,
		Active:          true,
		ExpiresAt:       grant.ExpiresAt,
	}
	if err := uc.coupons.Create(ctx, coupon); err != nil {
		uc.log.Errorw("coupon persist failed", "courseId", courseID, "code", grant.Code, "err", err)
		return
	}

	uc.log.Infow("coupon issued", "courseId", courseID, "threshold", threshold, "code", grant.Code)

	if err := uc.AppendCouponCode(ctx, courseID, grant.Code); err != nil {
		uc.log.Errorw("description update failed", "courseId", courseID, "code", grant.Code, "err", err)
	}
}

// AppendCouponCode дописывает код в описание курса. Секция с маркером
// создаётся один раз, дальше коды идут через запятую. Код, который уже
// есть в тексте, повторно не дописывается.
func (uc *CouponUseCase) AppendCouponCode(ctx context.Context, courseID uuid.UUID, code string) error {
	course, err := uc.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	desc := course.Description
	if strings.Contains(desc, code) {
		return nil
	}

	switch {
	case strings.Contains(desc, couponMarker):
		desc += ", " + code
	case desc == "":
		desc = couponMarker + code
	default:
		desc += "\n\n" + couponMarker + code
	}

	return uc.courses.UpdateDescription(ctx, courseID, desc)
}

// MarkUsed помечает купон использованным. Флаг назад не снимается,
// повторное использование - конфликт.
func (uc *CouponUseCase) MarkUsed(ctx context.Context, code string, userID uuid.UUID) (*domain.Coupon, error) {
	coupon, err := uc.coupons.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !coupon.Valid(now) {
		return nil, domain.ErrConflict
	}

	coupon.MarkUsed(userID, now)
	if err := uc.coupons.Update(ctx, coupon); err != nil {
		return nil, err
	}

	// уведомление партнёра - best effort
	if err := uc.snack.NotifyUsed(ctx, code, userID); err != nil {
		uc.log.Warnw("snack mark-used notify failed", "code", code, "err", err)
	}

	return coupon, nil
}

func (uc *CouponUseCase) AvailableForCourse(ctx context.Context, courseID uuid.UUID) (*domain.Coupon, error) {
	return uc.coupons.FirstAvailable(ctx, courseID)
}

func (uc *CouponUseCase) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Coupon, error) {
	return uc.coupons.ListByCourse(ctx, courseID)
}

func (uc *CouponUseCase) ListAll(ctx context.Context) ([]domain.Coupon, error) {
	return uc.coupons.ListAll(ctx)
}
