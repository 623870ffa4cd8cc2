package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TitleModel struct {
	DB *pgxpool.Pool
}

// titleRow is a flattened title row with its category and the read-time
// rating. The rating is recomputed on every read so it always reflects the
// current review set.
type titleRow struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Year         int32     `db:"year"`
	Description  *string   `db:"description"`
	Rating       *int32    `db:"rating"`
	CategoryID   *int64    `db:"category_id"`
	CategoryName *string   `db:"category_name"`
	CategorySlug *string   `db:"category_slug"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r titleRow) toDomain() models.Title {
	title := models.Title{
		ID:          r.ID,
		Name:        r.Name,
		Year:        r.Year,
		Rating:      r.Rating,
		Description: r.Description,
		Genres:      []models.Genre{},
		CreatedAt:   r.CreatedAt,
	}
	if r.CategoryID != nil {
		title.Category = &models.Category{ID: *r.CategoryID, Name: *r.CategoryName, Slug: *r.CategorySlug}
	}
	return title
}

const titleColumns = `
	t.id, t.name, t.year, t.description, t.created_at,
	(SELECT ROUND(AVG(r.score))::int FROM reviews r WHERE r.title_id = t.id) AS rating,
	c.id AS category_id, c.name AS category_name, c.slug AS category_slug`

func (m *TitleModel) Get(ctx context.Context, id int64) (*models.Title, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf(`SELECT %s FROM titles t LEFT JOIN categories c ON c.id = t.category_id WHERE t.id = $1`, titleColumns),
		id,
	)
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[titleRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	title := row.toDomain()
	genres, err := m.genresForTitles(ctx, []int64{title.ID})
	if err != nil {
		return nil, err
	}
	if g, ok := genres[title.ID]; ok {
		title.Genres = g
	}
	return &title, nil
}

func (m *TitleModel) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := m.DB.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM titles WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

func (m *TitleModel) Insert(ctx context.Context, name string, year int32, description *string, categoryID *int64, genreIDs []int64) (int64, error) {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)
	var id int64
	err = tx.QueryRow(
		ctx,
		"INSERT INTO titles (name, year, description, category_id) VALUES ($1, $2, $3, $4) RETURNING id",
		name,
		year,
		description,
		categoryID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	for _, genreID := range genreIDs {
		if _, err := tx.Exec(ctx, "INSERT INTO genres_titles (title_id, genre_id) VALUES ($1, $2)", id, genreID); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (m *TitleModel) List(ctx context.Context, f filters.TitleFilters) ([]models.Title, int, error) {
	query := fmt.Sprintf(`
	SELECT count(*) OVER(), %s
	FROM titles t LEFT JOIN categories c ON c.id = t.category_id
	WHERE (t.name ILIKE '%%' || $1 || '%%' OR $1 = '')
	AND (c.slug = $2 OR $2 = '')
	AND (t.year = $3 OR $3 = 0)
	AND ($4 = '' OR EXISTS (
		SELECT 1 FROM genres_titles gt JOIN genres g ON g.id = gt.genre_id
		WHERE gt.title_id = t.id AND g.slug = $4
	))
	ORDER BY %s %s, t.id ASC
	LIMIT $5 OFFSET $6
	`, titleColumns, f.SortColumn(), f.SortDirection())
	args := []any{f.Name, f.Category, f.Year, f.Genre, f.Limit(), f.Offset()}
	rows, _ := m.DB.Query(ctx, query, args...)
	type row struct {
		Count int
		titleRow
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	titles := make([]models.Title, 0, len(outputRows))
	ids := make([]int64, 0, len(outputRows))
	for _, row := range outputRows {
		titles = append(titles, row.toDomain())
		ids = append(ids, row.ID)
	}
	if len(titles) == 0 {
		return titles, 0, nil
	}
	genres, err := m.genresForTitles(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range titles {
		if g, ok := genres[titles[i].ID]; ok {
			titles[i].Genres = g
		}
	}
	return titles, outputRows[0].Count, nil
}

// Update replaces the title row. A nil genreIDs keeps the existing genre
// set, an empty slice clears it.
func (m *TitleModel) Update(ctx context.Context, id int64, name string, year int32, description *string, categoryID *int64, genreIDs []int64) error {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	status, err := tx.Exec(
		ctx,
		"UPDATE titles SET name = $1, year = $2, description = $3, category_id = $4 WHERE id = $5",
		name,
		year,
		description,
		categoryID,
		id,
	)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	if genreIDs != nil {
		if _, err := tx.Exec(ctx, "DELETE FROM genres_titles WHERE title_id = $1", id); err != nil {
			return err
		}
		for _, genreID := range genreIDs {
			if _, err := tx.Exec(ctx, "INSERT INTO genres_titles (title_id, genre_id) VALUES ($1, $2)", id, genreID); err != nil {
				return err
			}
		}
	}
	return tx.Commit(ctx)
}

func (m *TitleModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM titles WHERE id = $1", id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *TitleModel) genresForTitles(ctx context.Context, titleIDs []int64) (map[int64][]models.Genre, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT gt.title_id, g.id, g.name, g.slug FROM genres_titles gt
		JOIN genres g ON g.id = gt.genre_id
		WHERE gt.title_id = ANY($1)
		ORDER BY g.name`,
		titleIDs,
	)
	type row struct {
		TitleID int64 `db:"title_id"`
		models.Genre
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, err
	}
	genres := make(map[int64][]models.Genre, len(titleIDs))
	for _, row := range outputRows {
		genres[row.TitleID] = append(genres[row.TitleID], row.Genre)
	}
	return genres, nil
}
