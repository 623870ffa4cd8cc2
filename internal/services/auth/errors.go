package auth

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username is already taken")
	ErrEmailTaken    = errors.New("email is already taken")
	ErrInvalidCode   = errors.New("invalid or expired confirmation code")
	ErrCodeDelivery  = errors.New("failed to deliver confirmation code")
	ErrInvalidToken  = errors.New("invalid or expired token")
)
