package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"
)

type UsersStorage interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPair(ctx context.Context, username, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (*models.User, error)
}

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type AuthService struct {
	log      *slog.Logger
	storage  UsersStorage
	mailer   MailProvider
	secret   []byte
	tokenTTL time.Duration
	codeTTL  time.Duration
}

func New(
	log *slog.Logger,
	storage UsersStorage,
	mailer MailProvider,
	secret string,
	tokenTTL time.Duration,
	codeTTL time.Duration,
) *AuthService {
	return &AuthService{
		log:      log,
		storage:  storage,
		mailer:   mailer,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		codeTTL:  codeTTL,
	}
}

// Signup gets or creates the user for an exact (username, email) pair and
// delivers a confirmation code to the email address. Re-running it for the
// same pair is idempotent: the existing row is reused and a fresh code is
// sent. A pair colliding with a different existing row on either field is
// rejected.
func (a *AuthService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	const op = "auth.AuthService.Signup"
	log := a.log.With("op", op, "username", username)
	user, err := a.storage.GetByPair(ctx, username, email)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		user, err = a.createUser(ctx, username, email)
		if err != nil {
			return nil, err
		}
		log.Info("registered new user")
	default:
		log.Error(err.Error())
		return nil, err
	}
	code := a.ConfirmationCode(user, time.Now())
	err = a.mailer.Send(user.Email, "confirmation_code.html", map[string]any{
		"username":         user.Username,
		"confirmationCode": code,
		"expiresIn":        a.codeTTL.String(),
	})
	if err != nil {
		// a signup the user never hears about is a failed signup
		log.Error("sending confirmation email failed", "errMsg", err.Error())
		return nil, ErrCodeDelivery
	}
	return user, nil
}

func (a *AuthService) createUser(ctx context.Context, username, email string) (*models.User, error) {
	if _, err := a.storage.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if _, err := a.storage.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	user, err := a.storage.Insert(ctx, &models.User{
		Username: username,
		Email:    email,
		Role:     models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			// lost a race with a concurrent signup; resolve the field the
			// same way the pre-check would have
			if _, uerr := a.storage.GetByUsername(ctx, username); uerr == nil {
				return nil, ErrUsernameTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}
