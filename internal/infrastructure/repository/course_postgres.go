package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"upbmy/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	courseListCacheTTL   = 10 * time.Minute
	courseDetailCacheTTL = time.Hour
)

type CourseRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

// rdb может быть nil (тесты) - тогда работаем без кеша.
func NewCourseRepository(db *gorm.DB, rdb *redis.Client) *CourseRepository {
	return &CourseRepository{db: db, rdb: rdb}
}

func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CourseRepository) Update(ctx context.Context, c *domain.Course) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return err
	}
	r.invalidateDetail(ctx, c.ID)
	return nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	var c domain.Course
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Preload("Category").
		First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &c, err
}

// GetWithVideos кеширует деталку курса в Redis на час.
func (r *CourseRepository) GetWithVideos(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	key := "course:detail:" + id.String()

	if r.rdb != nil {
		if val, err := r.rdb.Get(ctx, key).Result(); err == nil {
			var c domain.Course
			if json.Unmarshal([]byte(val), &c) == nil {
				return &c, nil
			}
		}
	}

	var c domain.Course
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Preload("Category").
		Preload("Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if r.rdb != nil {
		if data, err := json.Marshal(c); err == nil {
			r.rdb.Set(ctx, key, data, courseDetailCacheTTL)
		}
	}
	return &c, nil
}

// ListPublished - опубликованные курсы с поиском по названию и фильтром
// по категории. Список кешируется на 10 минут, инвалидация - по TTL.
func (r *CourseRepository) ListPublished(ctx context.Context, search string, categoryID *uuid.UUID) ([]domain.Course, error) {
	key := "courses:list:" + search
	if categoryID != nil {
		key += ":" + categoryID.String()
	}

	if r.rdb != nil {
		if val, err := r.rdb.Get(ctx, key).Result(); err == nil {
			var cached []domain.Course
			if json.Unmarshal([]byte(val), &cached) == nil {
				return cached, nil
			}
		}
	}

	query := r.db.WithContext(ctx).
		Preload("Instructor").
		Preload("Category").
		Where("published = ?", true)
	if search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var courses []domain.Course
	if err := query.Order("created_at desc").Find(&courses).Error; err != nil {
		return nil, err
	}

	if r.rdb != nil {
		if data, err := json.Marshal(courses); err == nil {
			r.rdb.Set(ctx, key, data, courseListCacheTTL)
		}
	}
	return courses, nil
}

func (r *CourseRepository) ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("instructor_id = ?", instructorID).
		Order("created_at desc").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListAll(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Preload("Category").
		Order("created_at desc").
		Find(&courses).Error
	return courses, err
}

// UpdateDescription пишет только поле описания, не трогая остальные.
func (r *CourseRepository) UpdateDescription(ctx context.Context, id uuid.UUID, description string) error {
	res := r.db.WithContext(ctx).Model(&domain.Course{}).
		Where("id = ?", id).
		Update("description", description)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	r.invalidateDetail(ctx, id)
	return nil
}

func (r *CourseRepository) SetUpbolisProductID(ctx context.Context, id uuid.UUID, productID *int64) error {
	return r.db.WithContext(ctx).Model(&domain.Course{}).
		Where("id = ?", id).
		Update("upbolis_product_id", productID).Error
}

func (r *CourseRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	return r.db.WithContext(ctx).Model(&domain.Course{}).
		Where("id = ?", id).
		Update("published", published).Error
}

func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.invalidateDetail(ctx, id)
	return r.db.WithContext(ctx).Delete(&domain.Course{}, "id = ?", id).Error
}

func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Course{}).Count(&n).Error
	return n, err
}

func (r *CourseRepository) CountPublished(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Course{}).Where("published = ?", true).Count(&n).Error
	return n, err
}

// TopByViews - топ курсов по количеству просмотров. Отдаётся наружу
// маркетплейсу, поэтому только опубликованные.
func (r *CourseRepository) TopByViews(ctx context.Context, limit int) ([]CourseViewCount, error) {
	var rows []CourseViewCount
	err := r.db.WithContext(ctx).Model(&domain.Course{}).
		Select("courses.id as course_id, courses.title, count(view_events.id) as views").
		Joins("LEFT JOIN videos ON videos.course_id = courses.id").
		Joins("LEFT JOIN view_events ON view_events.video_id = videos.id").
		Where("courses.published = ?", true).
		Group("courses.id, courses.title").
		Order("views desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

type CourseViewCount struct {
	CourseID uuid.UUID `json:"courseId"`
	Title    string    `json:"title"`
	Views    int64     `json:"views"`
}

func (r *CourseRepository) invalidateDetail(ctx context.Context, id uuid.UUID) {
	if r.rdb != nil {
		r.rdb.Del(ctx, "course:detail:"+id.String())
	}
}
