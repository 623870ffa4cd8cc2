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

type UserModel struct {
	DB *pgxpool.Pool
}

const userColumns = `id, username, email, first_name, last_name, bio, role, is_superuser, created_at, updated_at`

func (m *UserModel) Insert(ctx context.Context, user *models.User) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf(`INSERT INTO users (username, email, first_name, last_name, bio, role)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING %s`, userColumns),
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role.String(),
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		var pgxErr *pgconn.PgError
		if errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &inserted, nil
}

func (m *UserModel) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return m.getBy(ctx, "id = $1", id)
}

func (m *UserModel) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.getBy(ctx, "username = $1", username)
}

func (m *UserModel) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.getBy(ctx, "email = $1", email)
}

// GetByPair matches a (username, email) pair exactly. A row matching only
// one of the two fields does not count.
func (m *UserModel) GetByPair(ctx context.Context, username, email string) (*models.User, error) {
	return m.getBy(ctx, "username = $1 AND email = $2", username, email)
}

func (m *UserModel) getBy(ctx context.Context, where string, args ...any) (*models.User, error) {
	rows, _ := m.DB.Query(ctx, fmt.Sprintf("SELECT %s FROM users WHERE %s", userColumns, where), args...)
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (m *UserModel) List(ctx context.Context, search string, f filters.Filters) ([]models.User, int, error) {
	query := fmt.Sprintf(`
	SELECT count(*) OVER(), %s FROM users
	WHERE (username ILIKE '%%' || $1 || '%%' OR $1 = '')
	ORDER BY %s %s, id ASC
	LIMIT $2 OFFSET $3
	`, userColumns, f.SortColumn(), f.SortDirection())
	rows, _ := m.DB.Query(ctx, query, search, f.Limit(), f.Offset())
	type row struct {
		Count int
		models.User
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	users := make([]models.User, 0, len(outputRows))
	for _, row := range outputRows {
		users = append(users, row.User)
	}
	if len(outputRows) == 0 {
		return users, 0, nil
	}
	return users, outputRows[0].Count, nil
}

func (m *UserModel) Update(ctx context.Context, user *models.User) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf(`UPDATE users SET username = $1, email = $2, first_name = $3, last_name = $4,
		bio = $5, role = $6, updated_at = now() WHERE id = $7 RETURNING %s`, userColumns),
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role.String(),
		user.ID,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		var pgxErr *pgconn.PgError
		switch {
		case errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode:
			return nil, storage.ErrConflict
		case errors.Is(err, pgx.ErrNoRows):
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (m *UserModel) DeleteByUsername(ctx context.Context, username string) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM users WHERE username = $1", username)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
