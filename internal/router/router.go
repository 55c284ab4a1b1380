package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"fitcoach-backend/internal/handlers"
	"fitcoach-backend/internal/middleware"
)

type Deps struct {
	Auth           *middleware.SessionAuth
	MessageLimiter *middleware.RateLimiter
	Sessions       *handlers.SessionHandler
	Chat           *handlers.ChatHandler
	Tools          *handlers.ToolsHandler
	WebSocket      http.HandlerFunc
	FrontendURL    string
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(d.FrontendURL))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Session Routes ────
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", d.Sessions.Create)

			r.Route("/me", func(r chi.Router) {
				r.Use(d.Auth.Middleware)
				r.Delete("/", d.Sessions.Delete)
				r.Get("/settings", d.Sessions.GetSettings)
				r.Put("/settings", d.Sessions.UpdateSettings)
				r.Get("/export", d.Sessions.Export)
				r.Get("/messages", d.Chat.Messages)

				// Every one of these may call the model.
				r.Group(func(r chi.Router) {
					if d.MessageLimiter != nil {
						r.Use(d.MessageLimiter.Middleware)
					}
					r.Post("/messages", d.Chat.Send)
					r.Post("/quick/workout", d.Chat.QuickWorkout)
					r.Post("/quick/meal", d.Chat.QuickMeal)
				})
			})
		})

		// ──── Tool Routes (public) ────
		r.Route("/tools", func(r chi.Router) {
			r.Get("/", d.Tools.List)
			r.Post("/{name}", d.Tools.Run)
		})

		// ──── WebSocket ────
		if d.WebSocket != nil {
			r.Get("/ws", d.WebSocket)
		}
	})

	return r
}
