package models

import (
	"context"
	"errors"
	"fmt"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"
	"reviewhub/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewModel struct {
	DB *pgxpool.Pool
}

const reviewColumns = `r.id, r.title_id, r.text, r.score, r.author_id, r.created_at, u.username AS author`

// Insert relies on the (author_id, title_id) unique constraint as the
// race-safe backstop for the one-review-per-title invariant.
func (m *ReviewModel) Insert(ctx context.Context, titleID, authorID int64, text string, score int32) (int64, error) {
	var id int64
	err := m.DB.QueryRow(
		ctx,
		"INSERT INTO reviews (title_id, author_id, text, score) VALUES ($1, $2, $3, $4) RETURNING id",
		titleID,
		authorID,
		text,
		score,
	).Scan(&id)
	if err != nil {
		var pgxErr *pgconn.PgError
		if errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode {
			return 0, storage.ErrConflict
		}
		return 0, err
	}
	return id, nil
}

func (m *ReviewModel) Exists(ctx context.Context, titleID, authorID int64) (bool, error) {
	var exists bool
	err := m.DB.QueryRow(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM reviews WHERE title_id = $1 AND author_id = $2)",
		titleID,
		authorID,
	).Scan(&exists)
	return exists, err
}

func (m *ReviewModel) Get(ctx context.Context, titleID, id int64) (*models.Review, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf(`SELECT %s FROM reviews r JOIN users u ON u.id = r.author_id WHERE r.title_id = $1 AND r.id = $2`, reviewColumns),
		titleID,
		id,
	)
	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Review])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (m *ReviewModel) ListForTitle(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, int, error) {
	query := fmt.Sprintf(`
	SELECT count(*) OVER(), %s FROM reviews r
	JOIN users u ON u.id = r.author_id
	WHERE r.title_id = $1
	ORDER BY %s %s, r.id ASC
	LIMIT $2 OFFSET $3
	`, reviewColumns, "r."+f.SortColumn(), f.SortDirection())
	rows, _ := m.DB.Query(ctx, query, titleID, f.Limit(), f.Offset())
	type row struct {
		Count int
		models.Review
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	reviews := make([]models.Review, 0, len(outputRows))
	for _, row := range outputRows {
		reviews = append(reviews, row.Review)
	}
	if len(outputRows) == 0 {
		return reviews, 0, nil
	}
	return reviews, outputRows[0].Count, nil
}

func (m *ReviewModel) Update(ctx context.Context, id int64, text string, score int32) error {
	status, err := m.DB.Exec(ctx, "UPDATE reviews SET text = $1, score = $2 WHERE id = $3", text, score, id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *ReviewModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM reviews WHERE id = $1", id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
