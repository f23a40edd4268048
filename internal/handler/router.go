package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	widgetHandler "github.com/oakline/concierge/internal/handler/widget"
	middlewarePkg "github.com/oakline/concierge/internal/middleware"
)

// NewRouter wires HTTP routes to the widget handler.
func NewRouter(widget *widgetHandler.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		// The assist endpoint is rate-limited upstream; keep a modest cap
		// here too so a chatty page cannot pile up exchanges.
		api.Use(middleware.Throttle(64))
		widget.RegisterRoutes(api)
	})

	return r
}
