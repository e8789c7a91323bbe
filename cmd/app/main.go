package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"upbmy/config"
	"upbmy/internal/application/usecase"
	"upbmy/internal/client"
	"upbmy/internal/domain"
	"upbmy/internal/infrastructure/repository"
	"upbmy/internal/infrastructure/security"
	"upbmy/internal/infrastructure/storage"
	"upbmy/internal/middleware"
	handlers "upbmy/internal/transport/http"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	// TranslateError обязателен: claim порогов опирается на
	// gorm.ErrDuplicatedKey от уникального индекса
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Course{},
		&domain.Video{},
		&domain.ViewEvent{},
		&domain.MilestoneClaim{},
		&domain.Coupon{},
		&domain.Rating{},
	); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	files, err := storage.NewLocalStorage(cfg.StorageDir)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	courseRepo := repository.NewCourseRepository(db, rdb)
	videoRepo := repository.NewVideoRepository(db)
	viewRepo := repository.NewViewRepository(db)
	milestoneRepo := repository.NewMilestoneRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	if err := seedCategories(context.Background(), categoryRepo); err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	hasher := security.NewPasswordHasher()
	tokenManager := security.NewTokenManager(cfg.JWTSecret)

	snack := client.NewSnackClient(cfg.SnackAPIURL, cfg.SnackUsername, cfg.SnackPassword, log)
	upbolis := client.NewUpbolisClient(cfg.UpbolisAPIURL, cfg.UpbolisUsername, cfg.UpbolisPassword, log)

	authUC := usecase.NewAuthUseCase(userRepo, hasher, tokenManager)
	couponUC := usecase.NewCouponUseCase(couponRepo, courseRepo, snack, log)
	viewUC := usecase.NewViewUseCase(viewRepo, videoRepo, milestoneRepo, couponUC, log)
	courseUC := usecase.NewCourseUseCase(courseRepo, categoryRepo, videoRepo, viewRepo, upbolis, files, log)
	videoUC := usecase.NewVideoUseCase(videoRepo, courseRepo, files, log)
	ratingUC := usecase.NewRatingUseCase(ratingRepo, courseRepo)
	adminUC := usecase.NewAdminUseCase(userRepo, courseRepo, videoRepo, viewRepo, ratingRepo, categoryRepo)

	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:     handlers.NewAuthHandler(authUC),
		Courses:  handlers.NewCourseHandler(courseUC),
		Videos:   handlers.NewVideoHandler(videoUC),
		Views:    handlers.NewViewHandler(viewUC),
		Coupons:  handlers.NewCouponHandler(couponUC),
		Ratings:  handlers.NewRatingHandler(ratingUC),
		External: handlers.NewExternalHandler(courseUC),
		Admin:    handlers.NewAdminHandler(adminUC, upbolis),

		Authenticate: middleware.Authenticate(tokenManager, userRepo),
		OptionalAuth: middleware.OptionalAuth(tokenManager, userRepo),
		Limiter:      middleware.NewRateLimiter(rdb),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Infof("UPBmy API is running on port %s...", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Forced shutdown: %v", err)
	}

	// дожидаемся фоновых выдач купонов, иначе потеряем claim без купона
	viewUC.Wait()
	log.Info("Server stopped")
}

// seedCategories заводит базовый набор категорий на пустой базе.
func seedCategories(ctx context.Context, categories *repository.CategoryRepository) error {
	n, err := categories.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	for _, name := range []string{"Programación", "Diseño", "Matemáticas", "Idiomas", "Negocios"} {
		c := &domain.Category{ID: uuid.New(), Name: name}
		if err := categories.Create(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
