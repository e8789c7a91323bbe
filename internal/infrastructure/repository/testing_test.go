package repository

import (
	"fmt"
	"testing"

	"upbmy/internal/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB поднимает изолированную in-memory sqlite со схемой проекта.
// TranslateError включён как в проде: на него опирается claim порогов.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// одно соединение, иначе конкурентные врайтеры ловят SQLITE_BUSY
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
