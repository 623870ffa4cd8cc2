package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoriesStorage struct {
	categories map[string]*models.Category
	nextID     int64
}

func newFakeCategoriesStorage(categories ...*models.Category) *fakeCategoriesStorage {
	s := &fakeCategoriesStorage{categories: make(map[string]*models.Category), nextID: 1}
	for _, c := range categories {
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
		s.categories[c.Slug] = c
	}
	return s
}

func (s *fakeCategoriesStorage) Insert(_ context.Context, name, slug string) (*models.Category, error) {
	if _, ok := s.categories[slug]; ok {
		return nil, storage.ErrConflict
	}
	c := &models.Category{ID: s.nextID, Name: name, Slug: slug}
	s.nextID++
	s.categories[slug] = c
	return c, nil
}

func (s *fakeCategoriesStorage) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	if c, ok := s.categories[slug]; ok {
		return c, nil
	}
	return nil, storage.ErrNotFound
}

func (s *fakeCategoriesStorage) List(_ context.Context, _ string, _ filters.Filters) ([]models.Category, int, error) {
	var result []models.Category
	for _, c := range s.categories {
		result = append(result, *c)
	}
	return result, len(result), nil
}

func (s *fakeCategoriesStorage) DeleteBySlug(_ context.Context, slug string) error {
	if _, ok := s.categories[slug]; !ok {
		return storage.ErrNotFound
	}
	delete(s.categories, slug)
	return nil
}

type fakeGenresStorage struct {
	genres map[string]*models.Genre
	nextID int64
}

func newFakeGenresStorage(genres ...*models.Genre) *fakeGenresStorage {
	s := &fakeGenresStorage{genres: make(map[string]*models.Genre), nextID: 1}
	for _, g := range genres {
		if g.ID >= s.nextID {
			s.nextID = g.ID + 1
		}
		s.genres[g.Slug] = g
	}
	return s
}

func (s *fakeGenresStorage) Insert(_ context.Context, name, slug string) (*models.Genre, error) {
	if _, ok := s.genres[slug]; ok {
		return nil, storage.ErrConflict
	}
	g := &models.Genre{ID: s.nextID, Name: name, Slug: slug}
	s.nextID++
	s.genres[slug] = g
	return g, nil
}

func (s *fakeGenresStorage) GetBySlugs(_ context.Context, slugs []string) ([]models.Genre, error) {
	result := make([]models.Genre, 0, len(slugs))
	for _, slug := range slugs {
		g, ok := s.genres[slug]
		if !ok {
			return nil, storage.ErrNotFound
		}
		result = append(result, *g)
	}
	return result, nil
}

func (s *fakeGenresStorage) List(_ context.Context, _ string, _ filters.Filters) ([]models.Genre, int, error) {
	var result []models.Genre
	for _, g := range s.genres {
		result = append(result, *g)
	}
	return result, len(result), nil
}

func (s *fakeGenresStorage) DeleteBySlug(_ context.Context, slug string) error {
	if _, ok := s.genres[slug]; !ok {
		return storage.ErrNotFound
	}
	delete(s.genres, slug)
	return nil
}

type titleRecord struct {
	name        string
	year        int32
	description *string
	categoryID  *int64
	genreIDs    []int64
}

type fakeTitlesStorage struct {
	titles     map[int64]*titleRecord
	categories *fakeCategoriesStorage
	genres     *fakeGenresStorage
	nextID     int64
}

func (s *fakeTitlesStorage) Get(_ context.Context, id int64) (*models.Title, error) {
	record, ok := s.titles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	title := &models.Title{ID: id, Name: record.name, Year: record.year, Description: record.description}
	if record.categoryID != nil {
		for _, c := range s.categories.categories {
			if c.ID == *record.categoryID {
				title.Category = c
			}
		}
	}
	for _, genreID := range record.genreIDs {
		for _, g := range s.genres.genres {
			if g.ID == genreID {
				title.Genres = append(title.Genres, *g)
			}
		}
	}
	return title, nil
}

func (s *fakeTitlesStorage) Insert(_ context.Context, name string, year int32, description *string, categoryID *int64, genreIDs []int64) (int64, error) {
	id := s.nextID
	s.nextID++
	s.titles[id] = &titleRecord{name: name, year: year, description: description, categoryID: categoryID, genreIDs: genreIDs}
	return id, nil
}

func (s *fakeTitlesStorage) List(_ context.Context, _ filters.TitleFilters) ([]models.Title, int, error) {
	var result []models.Title
	for id := range s.titles {
		title, _ := s.Get(context.Background(), id)
		result = append(result, *title)
	}
	return result, len(result), nil
}

func (s *fakeTitlesStorage) Update(_ context.Context, id int64, name string, year int32, description *string, categoryID *int64, genreIDs []int64) error {
	record, ok := s.titles[id]
	if !ok {
		return storage.ErrNotFound
	}
	record.name = name
	record.year = year
	record.description = description
	record.categoryID = categoryID
	if genreIDs != nil {
		record.genreIDs = genreIDs
	}
	return nil
}

func (s *fakeTitlesStorage) Delete(_ context.Context, id int64) error {
	if _, ok := s.titles[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.titles, id)
	return nil
}

func newTestService(categories *fakeCategoriesStorage, genres *fakeGenresStorage) (*CatalogService, *fakeTitlesStorage) {
	titles := &fakeTitlesStorage{
		titles:     make(map[int64]*titleRecord),
		categories: categories,
		genres:     genres,
		nextID:     1,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, categories, genres, titles), titles
}

func strPtr(s string) *string { return &s }

func TestCategories(t *testing.T) {
	ctx := context.Background()
	t.Run("duplicate slug", func(t *testing.T) {
		service, _ := newTestService(newFakeCategoriesStorage(), newFakeGenresStorage())
		_, err := service.CreateCategory(ctx, "Movies", "movies")
		require.NoError(t, err)
		_, err = service.CreateCategory(ctx, "Movies again", "movies")
		assert.ErrorIs(t, err, ErrCategoryExists)
	})
	t.Run("delete unknown slug", func(t *testing.T) {
		service, _ := newTestService(newFakeCategoriesStorage(), newFakeGenresStorage())
		err := service.DeleteCategory(ctx, "missing")
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestCreateTitle(t *testing.T) {
	ctx := context.Background()
	categories := newFakeCategoriesStorage(&models.Category{ID: 1, Name: "Movies", Slug: "movies"})
	genres := newFakeGenresStorage(
		&models.Genre{ID: 1, Name: "Drama", Slug: "drama"},
		&models.Genre{ID: 2, Name: "Comedy", Slug: "comedy"},
	)

	t.Run("resolves relations by slug", func(t *testing.T) {
		service, _ := newTestService(categories, genres)
		title, err := service.CreateTitle(ctx, "Some Movie", 1999, nil, strPtr("movies"), []string{"drama", "comedy"})
		require.NoError(t, err)
		require.NotNil(t, title.Category)
		assert.Equal(t, "movies", title.Category.Slug)
		assert.Len(t, title.Genres, 2)
	})
	t.Run("no category", func(t *testing.T) {
		service, _ := newTestService(categories, genres)
		title, err := service.CreateTitle(ctx, "Uncategorized", 2020, nil, nil, nil)
		require.NoError(t, err)
		assert.Nil(t, title.Category)
	})
	t.Run("unknown category slug", func(t *testing.T) {
		service, _ := newTestService(categories, genres)
		_, err := service.CreateTitle(ctx, "Some Movie", 1999, nil, strPtr("books"), nil)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
	t.Run("unknown genre slug", func(t *testing.T) {
		service, _ := newTestService(categories, genres)
		_, err := service.CreateTitle(ctx, "Some Movie", 1999, nil, strPtr("movies"), []string{"drama", "horror"})
		assert.ErrorIs(t, err, ErrGenreNotFound)
	})
}

func TestUpdateTitle(t *testing.T) {
	ctx := context.Background()
	categories := newFakeCategoriesStorage(
		&models.Category{ID: 1, Name: "Movies", Slug: "movies"},
		&models.Category{ID: 2, Name: "Books", Slug: "books"},
	)
	genres := newFakeGenresStorage(
		&models.Genre{ID: 1, Name: "Drama", Slug: "drama"},
		&models.Genre{ID: 2, Name: "Comedy", Slug: "comedy"},
	)

	setup := func(t *testing.T) (*CatalogService, int64) {
		service, _ := newTestService(categories, genres)
		title, err := service.CreateTitle(ctx, "Some Movie", 1999, strPtr("original"), strPtr("movies"), []string{"drama"})
		require.NoError(t, err)
		return service, title.ID
	}

	t.Run("nil fields keep current values", func(t *testing.T) {
		service, id := setup(t)
		year := int32(2001)
		title, err := service.UpdateTitle(ctx, id, nil, &year, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "Some Movie", title.Name)
		assert.Equal(t, int32(2001), title.Year)
		require.NotNil(t, title.Category)
		assert.Equal(t, "movies", title.Category.Slug)
		assert.Len(t, title.Genres, 1)
	})
	t.Run("replaces the category", func(t *testing.T) {
		service, id := setup(t)
		title, err := service.UpdateTitle(ctx, id, nil, nil, nil, strPtr("books"), nil)
		require.NoError(t, err)
		require.NotNil(t, title.Category)
		assert.Equal(t, "books", title.Category.Slug)
	})
	t.Run("replaces the genre set", func(t *testing.T) {
		service, id := setup(t)
		title, err := service.UpdateTitle(ctx, id, nil, nil, nil, nil, []string{"comedy"})
		require.NoError(t, err)
		require.Len(t, title.Genres, 1)
		assert.Equal(t, "comedy", title.Genres[0].Slug)
	})
	t.Run("unknown title", func(t *testing.T) {
		service, _ := newTestService(categories, genres)
		_, err := service.UpdateTitle(ctx, 99, nil, nil, nil, nil, nil)
		assert.ErrorIs(t, err, ErrTitleNotFound)
	})
}
