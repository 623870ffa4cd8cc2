package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsersStorage struct {
	users  map[int64]*models.User
	nextID int64
	// insertConflict forces Insert to fail as if a concurrent signup won.
	insertConflict bool
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

func (s *fakeUsersStorage) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (s *fakeUsersStorage) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeUsersStorage) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeUsersStorage) GetByPair(_ context.Context, username, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username && u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeUsersStorage) Insert(_ context.Context, user *models.User) (*models.User, error) {
	if s.insertConflict {
		return nil, storage.ErrConflict
	}
	saved := *user
	saved.ID = s.nextID
	s.nextID++
	s.users[saved.ID] = &saved
	return &saved, nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) Send(recipient string, tmplName string, tmplData any) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, recipient)
	return nil
}

func newTestService(s *fakeUsersStorage, m *fakeMailer) *AuthService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, s, m, "test-secret", time.Hour, 24*time.Hour)
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	t.Run("new user", func(t *testing.T) {
		fakeStorage := newFakeUsersStorage()
		mailer := &fakeMailer{}
		service := newTestService(fakeStorage, mailer)

		user, err := service.Signup(ctx, "gopher", "gopher@example.com")
		require.NoError(t, err)
		assert.Equal(t, "gopher", user.Username)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.Equal(t, []string{"gopher@example.com"}, mailer.sent)
	})
	t.Run("repeated signup reuses the user", func(t *testing.T) {
		fakeStorage := newFakeUsersStorage()
		mailer := &fakeMailer{}
		service := newTestService(fakeStorage, mailer)

		first, err := service.Signup(ctx, "gopher", "gopher@example.com")
		require.NoError(t, err)
		second, err := service.Signup(ctx, "gopher", "gopher@example.com")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, mailer.sent, 2)
		assert.Len(t, fakeStorage.users, 1)
	})
	t.Run("username taken", func(t *testing.T) {
		fakeStorage := newFakeUsersStorage(&models.User{ID: 1, Username: "gopher", Email: "other@example.com"})
		service := newTestService(fakeStorage, &fakeMailer{})

		_, err := service.Signup(ctx, "gopher", "gopher@example.com")
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})
	t.Run("email taken", func(t *testing.T) {
		fakeStorage := newFakeUsersStorage(&models.User{ID: 1, Username: "other", Email: "gopher@example.com"})
		service := newTestService(fakeStorage, &fakeMailer{})

		_, err := service.Signup(ctx, "gopher", "gopher@example.com")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
	t.Run("lost insert race", func(t *testing.T) {
		fakeStorage := newFakeUsersStorage()
		fakeStorage.insertConflict = true
		service := newTestService(fakeStorage, &fakeMailer{})

		_, err := service.Signup(ctx, "gopher", "gopher@example.com")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
	t.Run("delivery failure fails the signup", func(t *testing.T) {
		fakeStorage := newFakeUsersStorage()
		mailer := &fakeMailer{err: errors.New("smtp down")}
		service := newTestService(fakeStorage, mailer)

		_, err := service.Signup(ctx, "gopher", "gopher@example.com")
		assert.ErrorIs(t, err, ErrCodeDelivery)
	})
}

func TestConfirmationCode(t *testing.T) {
	service := newTestService(newFakeUsersStorage(), &fakeMailer{})
	user := &models.User{ID: 1, Username: "gopher", Email: "gopher@example.com", Role: models.RoleUser}
	now := time.Now()

	t.Run("valid in the same window", func(t *testing.T) {
		code := service.ConfirmationCode(user, now)
		assert.True(t, service.CheckConfirmationCode(user, code, now))
	})
	t.Run("valid in the next window", func(t *testing.T) {
		code := service.ConfirmationCode(user, now)
		assert.True(t, service.CheckConfirmationCode(user, code, now.Add(24*time.Hour)))
	})
	t.Run("expired after two windows", func(t *testing.T) {
		code := service.ConfirmationCode(user, now)
		assert.False(t, service.CheckConfirmationCode(user, code, now.Add(48*time.Hour)))
	})
	t.Run("rejects a tampered code", func(t *testing.T) {
		assert.False(t, service.CheckConfirmationCode(user, "deadbeefdeadbeefdead", now))
	})
	t.Run("bound to identity fields", func(t *testing.T) {
		code := service.ConfirmationCode(user, now)
		other := *user
		other.Email = "changed@example.com"
		assert.False(t, service.CheckConfirmationCode(&other, code, now))
	})
}

func TestIssueTokenAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: 7, Username: "gopher", Email: "gopher@example.com", Role: models.RoleModerator}
	fakeStorage := newFakeUsersStorage(user)
	service := newTestService(fakeStorage, &fakeMailer{})

	t.Run("roundtrip", func(t *testing.T) {
		code := service.ConfirmationCode(user, time.Now())
		token, err := service.IssueToken(ctx, "gopher", code)
		require.NoError(t, err)

		authenticated, err := service.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, authenticated.ID)
		assert.Equal(t, models.RoleModerator, authenticated.Role)
	})
	t.Run("unknown user", func(t *testing.T) {
		_, err := service.IssueToken(ctx, "nobody", "whatever")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
	t.Run("invalid code", func(t *testing.T) {
		_, err := service.IssueToken(ctx, "gopher", "bogus")
		assert.ErrorIs(t, err, ErrInvalidCode)
	})
	t.Run("garbage token", func(t *testing.T) {
		_, err := service.Authenticate(ctx, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
	t.Run("token signed with a different secret", func(t *testing.T) {
		otherService := New(
			slog.New(slog.NewTextHandler(io.Discard, nil)),
			fakeStorage, &fakeMailer{}, "other-secret", time.Hour, 24*time.Hour,
		)
		code := otherService.ConfirmationCode(user, time.Now())
		token, err := otherService.IssueToken(ctx, "gopher", code)
		require.NoError(t, err)

		_, err = service.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
	t.Run("deleted user", func(t *testing.T) {
		code := service.ConfirmationCode(user, time.Now())
		token, err := service.IssueToken(ctx, "gopher", code)
		require.NoError(t, err)

		delete(fakeStorage.users, user.ID)
		_, err = service.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
