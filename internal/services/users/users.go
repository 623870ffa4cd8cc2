package users

import (
	"context"
	"errors"
	"log/slog"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"
)

type UsersStorage interface {
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, search string, f filters.Filters) ([]models.User, int, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	DeleteByUsername(ctx context.Context, username string) error
}

type UserService struct {
	log     *slog.Logger
	storage UsersStorage
}

func New(log *slog.Logger, storage UsersStorage) *UserService {
	return &UserService{
		log:     log,
		storage: storage,
	}
}

// Patch carries a partial user update. Nil fields keep their current value.
// Role must stay nil on the self-service profile path; only the admin
// handlers may set it.
type Patch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *models.Role
}

// Create registers a user directly, bypassing the signup flow. Admin only.
func (s *UserService) Create(ctx context.Context, username, email string, role models.Role, firstName, lastName, bio *string) (*models.User, error) {
	const op = "users.UserService.Create"
	log := s.log.With("op", op, "username", username)
	user, err := s.storage.Insert(ctx, &models.User{
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Bio:       bio,
		Role:      role,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("user already exists")
			return nil, s.conflictField(ctx, 0, username)
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	const op = "users.UserService.Get"
	user, err := s.storage.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, search string, f filters.Filters) ([]models.User, int, error) {
	const op = "users.UserService.List"
	users, total, err := s.storage.List(ctx, search, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UserService) Update(ctx context.Context, username string, patch Patch) (*models.User, error) {
	const op = "users.UserService.Update"
	log := s.log.With("op", op, "username", username)
	user, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		user.FirstName = patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = patch.LastName
	}
	if patch.Bio != nil {
		user.Bio = patch.Bio
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	updated, err := s.storage.Update(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("user update conflict")
			return nil, s.conflictField(ctx, user.ID, user.Username)
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	const op = "users.UserService.Delete"
	log := s.log.With("op", op, "username", username)
	if err := s.storage.DeleteByUsername(ctx, username); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return ErrUserNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

// conflictField resolves which unique column caused a conflict so the
// caller can key the error to the right field. excludeID skips the row
// being updated itself.
func (s *UserService) conflictField(ctx context.Context, excludeID int64, username string) error {
	if u, err := s.storage.GetByUsername(ctx, username); err == nil && u.ID != excludeID {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}
