package usecase

import (
	"context"
	"sync"
	"testing"

	"upbmy/internal/client"
	"upbmy/internal/domain"
	"upbmy/internal/infrastructure/repository"
	"upbmy/internal/infrastructure/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeMarketplace struct {
	mu          sync.Mutex
	nextID      int64
	created     []client.Product
	recreated   []int64 // старые ID, переданные в RecreateWithPrice
	deactivated []int64
	err         error
}

func (f *fakeMarketplace) CreateProduct(_ context.Context, name, description string, price float64) (*client.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	p := client.Product{ID: f.nextID, Name: name, Description: description, Price: price, IsActive: true}
	f.created = append(f.created, p)
	return &p, nil
}

func (f *fakeMarketplace) RecreateWithPrice(ctx context.Context, oldProductID *int64, name, description string, newPrice float64) (*client.Product, error) {
	f.mu.Lock()
	if oldProductID != nil {
		f.recreated = append(f.recreated, *oldProductID)
	}
	f.mu.Unlock()
	return f.CreateProduct(ctx, name, description, newPrice)
}

func (f *fakeMarketplace) DeactivateProduct(_ context.Context, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivated = append(f.deactivated, productID)
	return f.err
}

func newCourseFixture(t *testing.T) (*CourseUseCase, *fakeMarketplace, *gorm.DB, *domain.User, *domain.Category) {
	db := openTestDB(t)

	instructor := &domain.User{
		ID:        uuid.New(),
		FirstName: "Laura",
		LastName:  "Gómez",
		Email:     uuid.NewString() + "@upb.edu.co",
		Role:      domain.RoleInstructor,
		Active:    true,
	}
	require.NoError(t, db.Create(instructor).Error)

	category := &domain.Category{ID: uuid.New(), Name: "Diseño-" + uuid.NewString()}
	require.NoError(t, db.Create(category).Error)

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	market := &fakeMarketplace{}
	uc := NewCourseUseCase(
		repository.NewCourseRepository(db, nil),
		repository.NewCategoryRepository(db),
		repository.NewVideoRepository(db),
		repository.NewViewRepository(db),
		market,
		files,
		testLogger(),
	)
	return uc, market, db, instructor, category
}

func TestCourseCreate_StartsAsDraft(t *testing.T) {
	uc, market, _, instructor, category := newCourseFixture(t)

	course, err := uc.Create(context.Background(), instructor, CourseInput{
		Title:      "Curso de Figma",
		CategoryID: category.ID,
		Price:      25,
	})
	require.NoError(t, err)
	require.False(t, course.Published)
	require.Nil(t, course.UpbolisProductID)
	// до публикации на маркетплейс не ходим
	require.Empty(t, market.created)
}

func TestCourseCreate_UnknownCategory(t *testing.T) {
	uc, _, _, instructor, _ := newCourseFixture(t)

	_, err := uc.Create(context.Background(), instructor, CourseInput{
		Title:      "Curso sin categoría",
		CategoryID: uuid.New(),
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCoursePublish_RequiresVideoAndRegistersProduct(t *testing.T) {
	uc, market, db, instructor, category := newCourseFixture(t)
	ctx := context.Background()

	course, err := uc.Create(ctx, instructor, CourseInput{
		Title:      "Curso de Go",
		CategoryID: category.ID,
		Price:      49.9,
	})
	require.NoError(t, err)

	// без видео публикация не проходит
	_, err = uc.Publish(ctx, instructor, course.ID)
	require.ErrorIs(t, err, domain.ErrValidation)

	seedVideo(t, db, course.ID, 1)

	published, err := uc.Publish(ctx, instructor, course.ID)
	require.NoError(t, err)
	require.True(t, published.Published)
	require.NotNil(t, published.UpbolisProductID)
	require.Len(t, market.created, 1)
	require.Equal(t, 49.9, market.created[0].Price)

	// повторная публикация товар заново не создаёт
	_, err = uc.Publish(ctx, instructor, course.ID)
	require.NoError(t, err)
	require.Len(t, market.created, 1)
}

func TestCourseUpdate_PriceChangeRecreatesProduct(t *testing.T) {
	uc, market, db, instructor, category := newCourseFixture(t)
	ctx := context.Background()

	course, err := uc.Create(ctx, instructor, CourseInput{
		Title:      "Curso de Go",
		CategoryID: category.ID,
		Price:      49.9,
	})
	require.NoError(t, err)
	seedVideo(t, db, course.ID, 1)

	published, err := uc.Publish(ctx, instructor, course.ID)
	require.NoError(t, err)
	oldProductID := *published.UpbolisProductID

	updated, err := uc.Update(ctx, instructor, course.ID, CourseInput{
		Title:      "Curso de Go",
		CategoryID: category.ID,
		Price:      79.9,
	})
	require.NoError(t, err)
	require.Equal(t, 79.9, updated.Price)
	require.NotEqual(t, oldProductID, *updated.UpbolisProductID)
	require.Equal(t, []int64{oldProductID}, market.recreated)

	// апдейт без смены цены товар не трогает
	_, err = uc.Update(ctx, instructor, course.ID, CourseInput{
		Title:      "Curso de Go (edición 2)",
		CategoryID: category.ID,
		Price:      79.9,
	})
	require.NoError(t, err)
	require.Len(t, market.recreated, 1)
}

func TestCourseUpdate_PriceChangeBeforePublishSkipsMarketplace(t *testing.T) {
	uc, market, _, instructor, category := newCourseFixture(t)
	ctx := context.Background()

	course, err := uc.Create(ctx, instructor, CourseInput{
		Title:      "Borrador",
		CategoryID: category.ID,
		Price:      10,
	})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, instructor, course.ID, CourseInput{
		Title:      "Borrador",
		CategoryID: category.ID,
		Price:      20,
	})
	require.NoError(t, err)
	require.Equal(t, 20.0, updated.Price)
	require.Empty(t, market.recreated)
	require.Empty(t, market.created)
}

func TestCourseMutation_ForeignInstructorForbidden(t *testing.T) {
	uc, _, _, instructor, category := newCourseFixture(t)
	ctx := context.Background()

	course, err := uc.Create(ctx, instructor, CourseInput{
		Title:      "Curso ajeno",
		CategoryID: category.ID,
	})
	require.NoError(t, err)

	outsider := &domain.User{ID: uuid.New(), Role: domain.RoleInstructor}
	_, err = uc.Update(ctx, outsider, course.ID, CourseInput{Title: "x", CategoryID: category.ID})
	require.ErrorIs(t, err, domain.ErrForbidden)

	err = uc.Delete(ctx, outsider, course.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	// админу можно
	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	_, err = uc.Update(ctx, admin, course.ID, CourseInput{Title: "renombrado", CategoryID: category.ID})
	require.NoError(t, err)
}

func TestCourseDelete_DeactivatesMarketplaceProduct(t *testing.T) {
	uc, market, db, instructor, category := newCourseFixture(t)
	ctx := context.Background()

	course, err := uc.Create(ctx, instructor, CourseInput{
		Title:      "Curso efímero",
		CategoryID: category.ID,
		Price:      15,
	})
	require.NoError(t, err)
	seedVideo(t, db, course.ID, 1)

	published, err := uc.Publish(ctx, instructor, course.ID)
	require.NoError(t, err)
	productID := *published.UpbolisProductID

	require.NoError(t, uc.Delete(ctx, instructor, course.ID))
	require.Equal(t, []int64{productID}, market.deactivated)

	_, err = uc.Get(ctx, course.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
