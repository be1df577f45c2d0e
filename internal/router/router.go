// Package router sets up all HTTP routes and middleware chains for the
// YaMDb API. Reads are public; writes pass through authentication and,
// for the catalog, an admin role check.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"yamdb/internal/handlers"
	"yamdb/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. limiter may be nil to disable rate limiting.
func New(sessions middleware.SessionGetter, limiter *middleware.RateLimiter, auth *handlers.Auth, catalog *handlers.Catalog, titles *handlers.Titles, reviews *handlers.Reviews) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Use(middleware.LoadSession(sessions))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", auth.Signup)
			r.Post("/token", auth.Token)
			r.With(middleware.RequireAuth).Post("/logout", auth.Logout)
		})

		r.With(middleware.RequireAuth).Get("/users/me", auth.Me)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", catalog.ListCategories)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth, middleware.RequireAdmin)
				r.Post("/", catalog.CreateCategory)
				r.Delete("/{slug}", catalog.DeleteCategory)
			})
		})

		r.Route("/genres", func(r chi.Router) {
			r.Get("/", catalog.ListGenres)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth, middleware.RequireAdmin)
				r.Post("/", catalog.CreateGenre)
				r.Delete("/{slug}", catalog.DeleteGenre)
			})
		})

		r.Route("/titles", func(r chi.Router) {
			r.Get("/", titles.List)
			r.With(middleware.RequireAuth, middleware.RequireAdmin).Post("/", titles.Create)

			r.Route("/{title_id}", func(r chi.Router) {
				r.Get("/", titles.Get)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAuth, middleware.RequireAdmin)
					r.Patch("/", titles.Update)
					r.Delete("/", titles.Delete)
				})

				r.Route("/reviews", func(r chi.Router) {
					r.Get("/", reviews.ListReviews)
					r.With(middleware.RequireAuth).Post("/", reviews.CreateReview)

					// Ownership is checked by the handlers against the loaded review.
					r.Route("/{review_id}", func(r chi.Router) {
						r.Get("/", reviews.GetReview)
						r.With(middleware.RequireAuth).Patch("/", reviews.UpdateReview)
						r.With(middleware.RequireAuth).Delete("/", reviews.DeleteReview)

						r.Route("/comments", func(r chi.Router) {
							r.Get("/", reviews.ListComments)
							r.With(middleware.RequireAuth).Post("/", reviews.CreateComment)
							r.Get("/{comment_id}", reviews.GetComment)
							r.With(middleware.RequireAuth).Patch("/{comment_id}", reviews.UpdateComment)
							r.With(middleware.RequireAuth).Delete("/{comment_id}", reviews.DeleteComment)
						})
					})
				})
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}
