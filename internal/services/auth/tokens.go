package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/storage"

	"github.com/golang-jwt/jwt/v5"
)

// The confirmation code is never stored: it is an HMAC over the user's
// identity fields and a coarse time window, recomputed on verification.
// Changing username, email or role invalidates outstanding codes.

func (a *AuthService) codeForWindow(user *models.User, window int64) string {
	mac := hmac.New(sha256.New, a.secret)
	fmt.Fprintf(mac, "%d:%s:%s:%s:%d", user.ID, user.Username, user.Email, user.Role, window)
	return hex.EncodeToString(mac.Sum(nil)[:10])
}

func (a *AuthService) ConfirmationCode(user *models.User, at time.Time) string {
	return a.codeForWindow(user, at.Unix()/int64(a.codeTTL.Seconds()))
}

// CheckConfirmationCode accepts the current and the immediately previous
// window, so a code stays valid for at least codeTTL and at most 2*codeTTL.
func (a *AuthService) CheckConfirmationCode(user *models.User, code string, at time.Time) bool {
	window := at.Unix() / int64(a.codeTTL.Seconds())
	for _, w := range []int64{window, window - 1} {
		if hmac.Equal([]byte(code), []byte(a.codeForWindow(user, w))) {
			return true
		}
	}
	return false
}

// IssueToken exchanges a valid confirmation code for a signed access token.
func (a *AuthService) IssueToken(ctx context.Context, username, code string) (string, error) {
	const op = "auth.AuthService.IssueToken"
	log := a.log.With("op", op, "username", username)
	user, err := a.storage.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return "", ErrUserNotFound
		}
		log.Error(err.Error())
		return "", err
	}
	if !a.CheckConfirmationCode(user, code, time.Now()) {
		log.Info("confirmation code mismatch")
		return "", ErrInvalidCode
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"uid":      user.ID,
		"username": user.Username,
		"role":     user.Role.String(),
		"iat":      now.Unix(),
		"exp":      now.Add(a.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		log.Error(err.Error())
		return "", err
	}
	return signed, nil
}

// Authenticate resolves a bearer token to its user.
func (a *AuthService) Authenticate(ctx context.Context, tokenStr string) (*models.User, error) {
	parsed, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	user, err := a.storage.GetByID(ctx, int64(uid))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}
