package usecase

import (
	"context"
	"sync"
	"testing"

	"upbmy/internal/domain"
	"upbmy/internal/infrastructure/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type dispatchCall struct {
	courseID   uuid.UUID
	threshold  int64
	totalViews int64
}

type fakeIssuer struct {
	mu    sync.Mutex
	calls []dispatchCall
}

func (f *fakeIssuer) IssueForMilestone(_ context.Context, courseID uuid.UUID, threshold, totalViews int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, dispatchCall{courseID: courseID, threshold: threshold, totalViews: totalViews})
}

func (f *fakeIssuer) snapshot() []dispatchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dispatchCall(nil), f.calls...)
}

func newViewFixture(t *testing.T) (*ViewUseCase, *fakeIssuer, *domain.Course, *domain.Video, *gorm.DB) {
	db := openTestDB(t)
	course := seedCourse(t, db)
	video := seedVideo(t, db, course.ID, 1)

	issuer := &fakeIssuer{}
	uc := NewViewUseCase(
		repository.NewViewRepository(db),
		repository.NewVideoRepository(db),
		repository.NewMilestoneRepository(db),
		issuer,
		testLogger(),
	)
	return uc, issuer, course, video, db
}

func TestRegisterView_TenthViewFiresSingleDispatch(t *testing.T) {
	uc, issuer, course, video, _ := newViewFixture(t)
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		_, err := uc.RegisterView(ctx, video.ID, nil, "10.0.0.1")
		require.NoError(t, err)
	}
	uc.Wait()
	require.Empty(t, issuer.snapshot(), "no dispatch below the threshold")

	_, err := uc.RegisterView(ctx, video.ID, nil, "10.0.0.1")
	require.NoError(t, err)
	uc.Wait()

	calls := issuer.snapshot()
	require.Len(t, calls, 1)
	require.Equal(t, course.ID, calls[0].courseID)
	require.EqualValues(t, 10, calls[0].threshold)
	require.EqualValues(t, 10, calls[0].totalViews)

	// 11-я вьюшка порог уже не пересекает
	_, err = uc.RegisterView(ctx, video.ID, nil, "10.0.0.1")
	require.NoError(t, err)
	uc.Wait()
	require.Len(t, issuer.snapshot(), 1)
}

func TestRegisterView_CountsAcrossCourseVideos(t *testing.T) {
	uc, issuer, course, video, db := newViewFixture(t)
	ctx := context.Background()

	// порог считается по курсу целиком, не по отдельному ролику
	second := seedVideo(t, db, course.ID, 2)

	for i := 0; i < 5; i++ {
		_, err := uc.RegisterView(ctx, video.ID, nil, "10.0.0.2")
		require.NoError(t, err)
	}
	for i := 0; i < 5; i++ {
		_, err := uc.RegisterView(ctx, second.ID, nil, "10.0.0.2")
		require.NoError(t, err)
	}
	uc.Wait()

	calls := issuer.snapshot()
	require.Len(t, calls, 1)
	require.Equal(t, course.ID, calls[0].courseID)
	require.EqualValues(t, 10, calls[0].threshold)

	n, err := uc.CountByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.EqualValues(t, 10, n)
}

func TestRegisterView_StoresUserAndAnonymous(t *testing.T) {
	uc, _, _, video, _ := newViewFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	event, err := uc.RegisterView(ctx, video.ID, &userID, "192.168.0.5")
	require.NoError(t, err)
	require.Equal(t, userID, *event.UserID)

	anon, err := uc.RegisterView(ctx, video.ID, nil, "192.168.0.6")
	require.NoError(t, err)
	require.Nil(t, anon.UserID)

	n, err := uc.CountByVideo(ctx, video.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestRegisterView_UnknownVideo(t *testing.T) {
	uc, issuer, _, _, _ := newViewFixture(t)

	_, err := uc.RegisterView(context.Background(), uuid.New(), nil, "10.0.0.3")
	require.ErrorIs(t, err, domain.ErrNotFound)
	uc.Wait()
	require.Empty(t, issuer.snapshot())
}
