package catalog

import (
	"context"
	"errors"
	"log/slog"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"
)

type CategoriesStorage interface {
	Insert(ctx context.Context, name, slug string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context, search string, f filters.Filters) ([]models.Category, int, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type GenresStorage interface {
	Insert(ctx context.Context, name, slug string) (*models.Genre, error)
	GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	List(ctx context.Context, search string, f filters.Filters) ([]models.Genre, int, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type TitlesStorage interface {
	Get(ctx context.Context, id int64) (*models.Title, error)
	Insert(ctx context.Context, name string, year int32, description *string, categoryID *int64, genreIDs []int64) (int64, error)
	List(ctx context.Context, f filters.TitleFilters) ([]models.Title, int, error)
	Update(ctx context.Context, id int64, name string, year int32, description *string, categoryID *int64, genreIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

type CatalogService struct {
	log        *slog.Logger
	categories CategoriesStorage
	genres     GenresStorage
	titles     TitlesStorage
}

func New(log *slog.Logger, categories CategoriesStorage, genres GenresStorage, titles TitlesStorage) *CatalogService {
	return &CatalogService{
		log:        log,
		categories: categories,
		genres:     genres,
		titles:     titles,
	}
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	const op = "catalog.CatalogService.CreateCategory"
	log := s.log.With("op", op, "slug", slug)
	category, err := s.categories.Insert(ctx, name, slug)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("category already exists")
			return nil, ErrCategoryExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, search string, f filters.Filters) ([]models.Category, int, error) {
	const op = "catalog.CatalogService.ListCategories"
	categories, total, err := s.categories.List(ctx, search, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return categories, total, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	const op = "catalog.CatalogService.DeleteCategory"
	log := s.log.With("op", op, "slug", slug)
	if err := s.categories.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("category not found")
			return ErrCategoryNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *CatalogService) CreateGenre(ctx context.Context, name, slug string) (*models.Genre, error) {
	const op = "catalog.CatalogService.CreateGenre"
	log := s.log.With("op", op, "slug", slug)
	genre, err := s.genres.Insert(ctx, name, slug)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("genre already exists")
			return nil, ErrGenreExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return genre, nil
}

func (s *CatalogService) ListGenres(ctx context.Context, search string, f filters.Filters) ([]models.Genre, int, error) {
	const op = "catalog.CatalogService.ListGenres"
	genres, total, err := s.genres.List(ctx, search, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return genres, total, nil
}

func (s *CatalogService) DeleteGenre(ctx context.Context, slug string) error {
	const op = "catalog.CatalogService.DeleteGenre"
	log := s.log.With("op", op, "slug", slug)
	if err := s.genres.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("genre not found")
			return ErrGenreNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *CatalogService) GetTitle(ctx context.Context, id int64) (*models.Title, error) {
	const op = "catalog.CatalogService.GetTitle"
	log := s.log.With("op", op, "id", id)
	title, err := s.titles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return nil, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return title, nil
}

func (s *CatalogService) ListTitles(ctx context.Context, f filters.TitleFilters) ([]models.Title, int, error) {
	const op = "catalog.CatalogService.ListTitles"
	titles, total, err := s.titles.List(ctx, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return titles, total, nil
}

func (s *CatalogService) CreateTitle(ctx context.Context, name string, year int32, description *string, categorySlug *string, genreSlugs []string) (*models.Title, error) {
	const op = "catalog.CatalogService.CreateTitle"
	log := s.log.With("op", op, "name", name, "year", year)
	categoryID, genreIDs, err := s.resolveRelations(ctx, categorySlug, genreSlugs)
	if err != nil {
		return nil, err
	}
	id, err := s.titles.Insert(ctx, name, year, description, categoryID, genreIDs)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return s.GetTitle(ctx, id)
}

// UpdateTitle applies a partial update: nil fields keep their current value,
// nil genreSlugs keeps the current genre set.
func (s *CatalogService) UpdateTitle(ctx context.Context, id int64, name *string, year *int32, description *string, categorySlug *string, genreSlugs []string) (*models.Title, error) {
	const op = "catalog.CatalogService.UpdateTitle"
	log := s.log.With("op", op, "id", id)
	title, err := s.GetTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		title.Name = *name
	}
	if year != nil {
		title.Year = *year
	}
	if description != nil {
		title.Description = description
	}
	categoryID := (*int64)(nil)
	if categorySlug == nil && title.Category != nil {
		categoryID = &title.Category.ID
	}
	var genreIDs []int64
	resolvedCategoryID, resolvedGenreIDs, err := s.resolveRelations(ctx, categorySlug, genreSlugs)
	if err != nil {
		return nil, err
	}
	if categorySlug != nil {
		categoryID = resolvedCategoryID
	}
	genreIDs = resolvedGenreIDs
	if err := s.titles.Update(ctx, id, title.Name, title.Year, title.Description, categoryID, genreIDs); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return s.GetTitle(ctx, id)
}

func (s *CatalogService) DeleteTitle(ctx context.Context, id int64) error {
	const op = "catalog.CatalogService.DeleteTitle"
	log := s.log.With("op", op, "id", id)
	if err := s.titles.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return ErrTitleNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *CatalogService) resolveRelations(ctx context.Context, categorySlug *string, genreSlugs []string) (*int64, []int64, error) {
	var categoryID *int64
	if categorySlug != nil {
		category, err := s.categories.GetBySlug(ctx, *categorySlug)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, nil, ErrCategoryNotFound
			}
			return nil, nil, err
		}
		categoryID = &category.ID
	}
	var genreIDs []int64
	if genreSlugs != nil {
		genres, err := s.genres.GetBySlugs(ctx, dedupe(genreSlugs))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, nil, ErrGenreNotFound
			}
			return nil, nil, err
		}
		genreIDs = make([]int64, 0, len(genres))
		for _, genre := range genres {
			genreIDs = append(genreIDs, genre.ID)
		}
	}
	return categoryID, genreIDs, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
