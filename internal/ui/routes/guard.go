package routes

import (
	"log/slog"
	"net/http"

	"github.com/infinity-booking/provider-ui/internal/logger"
	"github.com/infinity-booking/provider-ui/internal/ui/session"
)

// Decide applies the navigation rules and returns the name of the route to redirect to, or "" to continue.
//
//  1. a route that requires a provider redirects guests to Login
//  2. Login and Register redirect logged in providers to ProviderHome
func Decide(route Route, authenticated bool) string {
	if route.Meta.RequiresProvider && !authenticated {
		return Login
	}
	if (route.Name == Login || route.Name == Register) && authenticated {
		return ProviderHome
	}
	return ""
}

// Guard loads the session for each navigation and enforces the route meta
type Guard struct {
	sessions *session.Manager
}

func NewGuard(sessions *session.Manager) *Guard {
	return &Guard{sessions: sessions}
}

// Middleware returns the guard for one route. The loaded session is stored in the request context for the handlers.
func (g *Guard) Middleware(route Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := logger.ContextRequestLogger(r.Context())

			s := g.sessions.Load(r)
			authenticated := s.Authenticated()

			if s.Status == session.TokenExpired {
				reqLogger.Debug("provider token expired - clearing session",
					slog.String("component", "ui.Guard"),
				)
				g.sessions.Clear(w)
			}

			if target := Decide(route, authenticated); target != "" {
				reqLogger.Debug("navigation redirected",
					slog.String("component", "ui.Guard"),
					slog.String("route", route.Name),
					slog.String("redirect", target),
					slog.String("status", s.Status.String()),
				)
				Redirect(w, r, URL(target))
				return
			}

			if authenticated {
				_ = logger.ContextWithLogAttrs(r.Context(), slog.String("provider_id", s.Provider.ID))
			}

			next.ServeHTTP(w, r.WithContext(session.ContextWithSession(r.Context(), s)))
		})
	}
}

// Redirect sends the browser to path. HTMX requests get an HX-Redirect header instead of a 303.
func Redirect(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
