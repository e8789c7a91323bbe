package usecase

import (
	"context"
	"testing"

	"upbmy/internal/domain"
	"upbmy/internal/infrastructure/repository"

	"github.com/stretchr/testify/require"
)

func newRatingFixture(t *testing.T) (*RatingUseCase, *domain.Course, *domain.User) {
	db := openTestDB(t)
	course := seedCourse(t, db)
	student := seedStudent(t, db)
	uc := NewRatingUseCase(repository.NewRatingRepository(db), repository.NewCourseRepository(db, nil))
	return uc, course, student
}

func TestRate_ResubmitUpdatesExistingRow(t *testing.T) {
	uc, course, student := newRatingFixture(t)
	ctx := context.Background()

	first, err := uc.Rate(ctx, student, course.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 3, first.Score)

	second, err := uc.Rate(ctx, student, course.ID, 5)
	require.NoError(t, err)
	require.Equal(t, 5, second.Score)
	require.Equal(t, first.ID, second.ID, "resubmit must not create a second row")

	summary, err := uc.Summary(ctx, course.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, summary.Total)
	require.Equal(t, 5.0, summary.Average)
}

func TestRate_ValidatesScoreRange(t *testing.T) {
	uc, course, student := newRatingFixture(t)
	ctx := context.Background()

	for _, score := range []int{0, 6, -1} {
		_, err := uc.Rate(ctx, student, course.ID, score)
		require.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestRate_OwnCourseForbidden(t *testing.T) {
	uc, course, _ := newRatingFixture(t)

	instructor := &domain.User{ID: course.InstructorID, Role: domain.RoleInstructor}
	_, err := uc.Rate(context.Background(), instructor, course.ID, 5)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSummary_DistributionCoversAllScores(t *testing.T) {
	uc, course, student := newRatingFixture(t)
	ctx := context.Background()

	_, err := uc.Rate(ctx, student, course.ID, 4)
	require.NoError(t, err)

	summary, err := uc.Summary(ctx, course.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, summary.Distribution[4])
	for _, score := range []int{1, 2, 3, 5} {
		require.EqualValues(t, 0, summary.Distribution[score])
	}
}

func TestDelete_RemovesRating(t *testing.T) {
	uc, course, student := newRatingFixture(t)
	ctx := context.Background()

	_, err := uc.Rate(ctx, student, course.ID, 2)
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, student.ID, course.ID))

	_, err = uc.MyRating(ctx, student.ID, course.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
