package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(app.RateLimiter)
	router.Use(app.Authenticate)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", app.listCategories)
			r.With(app.requireAdmin).Post("/", app.createCategory)
			r.With(app.requireAdmin).Delete("/{slug}", app.deleteCategory)
		})
		r.Route("/genres", func(r chi.Router) {
			r.Get("/", app.listGenres)
			r.With(app.requireAdmin).Post("/", app.createGenre)
			r.With(app.requireAdmin).Delete("/{slug}", app.deleteGenre)
		})
		r.Route("/titles", func(r chi.Router) {
			r.Get("/", app.listTitles)
			r.With(app.requireAdmin).Post("/", app.createTitle)
			r.Route("/{titleID}", func(r chi.Router) {
				r.Get("/", app.getTitle)
				r.With(app.requireAdmin).Patch("/", app.updateTitle)
				r.With(app.requireAdmin).Delete("/", app.deleteTitle)
				r.Route("/reviews", func(r chi.Router) {
					r.Get("/", app.listReviews)
					r.With(app.requireAuthenticatedUser).Post("/", app.createReview)
					r.Route("/{reviewID}", func(r chi.Router) {
						r.Get("/", app.getReview)
						r.With(app.requireAuthenticatedUser).Patch("/", app.updateReview)
						r.With(app.requireAuthenticatedUser).Delete("/", app.deleteReview)
						r.Route("/comments", func(r chi.Router) {
							r.Get("/", app.listComments)
							r.With(app.requireAuthenticatedUser).Post("/", app.createComment)
							r.Route("/{commentID}", func(r chi.Router) {
								r.Get("/", app.getComment)
								r.With(app.requireAuthenticatedUser).Patch("/", app.updateComment)
								r.With(app.requireAuthenticatedUser).Delete("/", app.deleteComment)
							})
						})
					})
				})
			})
		})
		r.Route("/users", func(r chi.Router) {
			r.With(app.requireAuthenticatedUser).Get("/me", app.getProfile)
			r.With(app.requireAuthenticatedUser).Patch("/me", app.updateProfile)
			r.With(app.requireAdmin).Get("/", app.listUsers)
			r.With(app.requireAdmin).Post("/", app.createUser)
			r.With(app.requireAdmin).Get("/{username}", app.getUser)
			r.With(app.requireAdmin).Patch("/{username}", app.updateUser)
			r.With(app.requireAdmin).Delete("/{username}", app.deleteUser)
		})
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", app.signup)
			r.Post("/token", app.token)
		})
	})
	return router
}
