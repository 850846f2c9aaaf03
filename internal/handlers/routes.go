package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"checklist/internal/logutils"
)

// Routes builds the router serving the JSON API and the frontend.
func (h *Handlers) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(logutils.RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			h.respondError(w, http.StatusNotFound, "Not found")
		})

		// Task API routes
		r.Get("/tasks", h.ListTasks)
		r.Post("/tasks", h.CreateTask)
		r.Get("/tasks/{id}", h.GetTask)
		r.Put("/tasks/{id}", h.UpdateTask)
		r.Delete("/tasks/{id}", h.DeleteTask)

		// Step API routes
		r.Post("/tasks/{id}/steps", h.AddStep)
		r.Patch("/tasks/{id}/steps/{stepId}", h.ToggleStep)
		r.Delete("/tasks/{id}/steps/{stepId}", h.DeleteStep)

		r.Get("/stats", h.Stats)
	})

	// Frontend
	if h.static != nil {
		r.Handle("/*", http.FileServer(http.FS(h.static)))
	}

	return r
}
