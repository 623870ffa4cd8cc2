package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewhub/proj/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func runMiddleware(mw func(http.Handler) http.Handler, user *models.User) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(context.WithValue(request.Context(), CtxKeyUser, user))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw(next).ServeHTTP(recorder, request)
	return recorder
}

func TestRequireAuthenticatedUser(t *testing.T) {
	app := NewTestApplication(nil, t)
	t.Run("authenticated", func(t *testing.T) {
		recorder := runMiddleware(app.requireAuthenticatedUser, &models.User{
			ID:       1,
			Username: "test",
			Email:    "test@gmail.com",
			Role:     models.RoleUser,
		})
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
	t.Run("anonymous", func(t *testing.T) {
		recorder := runMiddleware(app.requireAuthenticatedUser, models.AnonymousUser)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestRecoverer(t *testing.T) {
	app := NewTestApplication(nil, t)
	cases := []struct {
		name  string
		panic any
	}{
		{"error value", assert.AnError},
		{"string value", "missing user in request context"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(tc.panic)
			})
			assert.NotPanics(t, func() {
				app.Recoverer(next).ServeHTTP(recorder, request)
			})
			assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	app := NewTestApplication(nil, t)
	cases := []struct {
		name     string
		user     *models.User
		expected int
	}{
		{"admin", &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}, http.StatusOK},
		{"superuser", &models.User{ID: 2, Username: "root", Role: models.RoleUser, IsSuperuser: true}, http.StatusOK},
		{"moderator", &models.User{ID: 3, Username: "mod", Role: models.RoleModerator}, http.StatusForbidden},
		{"user", &models.User{ID: 4, Username: "user", Role: models.RoleUser}, http.StatusForbidden},
		{"anonymous", models.AnonymousUser, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := runMiddleware(app.requireAdmin, tc.user)
			assert.Equal(t, tc.expected, recorder.Code)
		})
	}
}
