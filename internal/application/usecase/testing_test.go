package usecase

import (
	"fmt"
	"testing"

	"upbmy/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB - in-memory sqlite со схемой проекта. TranslateError
// включён как в проде: на него опираются claim порогов и апсерты.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Course{},
		&domain.Video{},
		&domain.ViewEvent{},
		&domain.MilestoneClaim{},
		&domain.Coupon{},
		&domain.Rating{},
	))
	return db
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// seedCourse заводит преподавателя, категорию и опубликованный курс.
func seedCourse(t *testing.T, db *gorm.DB) *domain.Course {
	t.Helper()

	instructor := &domain.User{
		ID:        uuid.New(),
		FirstName: "Laura",
		LastName:  "Gómez",
		Email:     uuid.NewString() + "@upb.edu.co",
		Role:      domain.RoleInstructor,
		Active:    true,
	}
	require.NoError(t, db.Create(instructor).Error)

	category := &domain.Category{ID: uuid.New(), Name: "Programación-" + uuid.NewString()}
	require.NoError(t, db.Create(category).Error)

	course := &domain.Course{
		ID:           uuid.New(),
		Title:        "Curso de Go",
		InstructorID: instructor.ID,
		CategoryID:   category.ID,
		Published:    true,
		Price:        49.9,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func seedVideo(t *testing.T, db *gorm.DB, courseID uuid.UUID, position int) *domain.Video {
	t.Helper()

	video := &domain.Video{
		ID:       uuid.New(),
		CourseID: courseID,
		Title:    fmt.Sprintf("Lección %d", position),
		FileURL:  uuid.NewString() + ".mp4",
		Position: position,
	}
	require.NoError(t, db.Create(video).Error)
	return video
}

func seedStudent(t *testing.T, db *gorm.DB) *domain.User {
	t.Helper()

	student := &domain.User{
		ID:        uuid.New(),
		FirstName: "Andrés",
		LastName:  "Ruiz",
		Email:     uuid.NewString() + "@upb.edu.co",
		Role:      domain.RoleStudent,
		Active:    true,
	}
	require.NoError(t, db.Create(student).Error)
	return student
}
