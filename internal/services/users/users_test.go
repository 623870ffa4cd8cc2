package users

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

type fakeUsersStorage struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUsersStorage(users ...*models.User) *fakeUsersStorage {
	s := &fakeUsersStorage{users: make(map[int64]*models.User), nextID: 1}
	for _, u := range users {
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUsersStorage) hasConflict(user *models.User) bool {
	for _, u := range s.users {
		if u.ID == user.ID {
			continue
		}
		if u.Username == user.Username || u.Email == user.Email {
			return true
		}
	}
	return false
}

func (s *fakeUsersStorage) Insert(_ context.Context, user *models.User) (*models.User, error) {
	if s.hasConflict(user) {
		return nil, storage.ErrConflict
	}
	saved := *user
	saved.ID = s.nextID
	s.nextID++
	s.users[saved.ID] = &saved
	return &saved, nil
}

func (s *fakeUsersStorage) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			found := *u
			return &found, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeUsersStorage) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeUsersStorage) List(_ context.Context, _ string, _ filters.Filters) ([]models.User, int, error) {
	var result []models.User
	for _, u := range s.users {
		result = append(result, *u)
	}
	return result, len(result), nil
}

func (s *fakeUsersStorage) Update(_ context.Context, user *models.User) (*models.User, error) {
	if _, ok := s.users[user.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	if s.hasConflict(user) {
		return nil, storage.ErrConflict
	}
	saved := *user
	s.users[user.ID] = &saved
	return &saved, nil
}

func (s *fakeUsersStorage) DeleteByUsername(_ context.Context, username string) error {
	for id, u := range s.users {
		if u.Username == username {
			delete(s.users, id)
			return nil
		}
	}
	return storage.ErrNotFound
}

func newTestService(s *fakeUsersStorage) *UserService {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), s)
}

func strPtr(s string) *string { return &s }

func TestCreate(t *testing.T) {
	ctx := context.Background()
	existing := &models.User{ID: 1, Username: "gopher", Email: "gopher@example.com", Role: models.RoleUser}

	t.Run("creates with the given role", func(t *testing.T) {
		service := newTestService(newFakeUsersStorage())
		user, err := service.Create(ctx, "mod", "mod@example.com", models.RoleModerator, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, models.RoleModerator, user.Role)
	})
	t.Run("username conflict", func(t *testing.T) {
		service := newTestService(newFakeUsersStorage(existing))
		_, err := service.Create(ctx, "gopher", "new@example.com", models.RoleUser, nil, nil, nil)
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})
	t.Run("email conflict", func(t *testing.T) {
		service := newTestService(newFakeUsersStorage(existing))
		_, err := service.Create(ctx, "newbie", "gopher@example.com", models.RoleUser, nil, nil, nil)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("nil fields keep current values", func(t *testing.T) {
		service := newTestService(newFakeUsersStorage(&models.User{
			ID: 1, Username: "gopher", Email: "gopher@example.com",
			Bio: strPtr("old bio"), Role: models.RoleUser,
		}))
		user, err := service.Update(ctx, "gopher", Patch{Bio: strPtr("new bio")})
		require.NoError(t, err)
		assert.Equal(t, "gopher", user.Username)
		assert.Equal(t, "new bio", *user.Bio)
		assert.Equal(t, models.RoleUser, user.Role)
	})
	t.Run("role change", func(t *testing.T) {
		service := newTestService(newFakeUsersStorage(&models.User{
			ID: 1, Username: "gopher", Email: "gopher@example.com", Role: models.RoleUser,
		}))
		role := models.RoleModerator
		user, err := service.Update(ctx, "gopher", Patch{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, models.RoleModerator, user.Role)
	})
	t.Run("rename onto a taken username", func(t *testing.T) {
		service := newTestService(newFakeUsersStorage(
			&models.User{ID: 1, Username: "gopher", Email: "gopher@example.com"},
			&models.User{ID: 2, Username: "other", Email: "other@example.com"},
		))
		_, err := service.Update(ctx, "gopher", Patch{Username: strPtr("other")})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})
	t.Run("email collision keeps the username unblamed", func(t *testing.T) {
		service := newTestService(newFakeUsersStorage(
			&models.User{ID: 1, Username: "gopher", Email: "gopher@example.com"},
			&models.User{ID: 2, Username: "other", Email: "other@example.com"},
		))
		_, err := service.Update(ctx, "gopher", Patch{Email: strPtr("other@example.com")})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
	t.Run("unknown user", func(t *testing.T) {
		service := newTestService(newFakeUsersStorage())
		_, err := service.Update(ctx, "nobody", Patch{})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newFakeUsersStorage(
		&models.User{ID: 1, Username: "gopher", Email: "gopher@example.com"},
	))
	require.NoError(t, service.Delete(ctx, "gopher"))
	assert.ErrorIs(t, service.Delete(ctx, "gopher"), ErrUserNotFound)
}
