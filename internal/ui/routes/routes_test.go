package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/infinity-booking/provider-ui/internal/ui/session"
	"github.com/infinity-booking/provider-ui/internal/ui/types"
)

func TestDecide(t *testing.T) {
	login, _ := Lookup(Login)
	register, _ := Lookup(Register)
	home, _ := Lookup(Home)
	bookings, _ := Lookup(ProviderBookings)

	tests := []struct {
		name          string
		route         Route
		authenticated bool
		want          string
	}{
		{"guest on dashboard", bookings, false, Login},
		{"provider on dashboard", bookings, true, ""},
		{"guest on login", login, false, ""},
		{"provider on login", login, true, ProviderHome},
		{"guest on register", register, false, ""},
		{"provider on register", register, true, ProviderHome},
		{"guest on public page", home, false, ""},
		{"provider on public page", home, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.route, tt.authenticated); got != tt.want {
				t.Errorf("Decide() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlattenInheritsMeta(t *testing.T) {
	routes := Flatten(Table)

	for _, r := range routes {
		want := r.Path == "/provider" || strings.HasPrefix(r.Path, "/provider/") || r.Name == Logout
		if r.Meta.RequiresProvider != want {
			t.Errorf("route %q (%s) RequiresProvider = %v, want %v", r.Name, r.Path, r.Meta.RequiresProvider, want)
		}
	}

	// the /provider redirect plus 11 dashboard pages, 13 public pages, AuthTest and Logout
	if len(routes) != 27 {
		t.Errorf("Flatten() returned %d routes, want 27", len(routes))
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		name   string
		route  string
		params []string
		want   string
	}{
		{"root", Home, nil, "/"},
		{"public", HowItWorks, nil, "/how-it-works"},
		{"dashboard", ProviderHome, nil, "/provider/home"},
		{"with param", ServiceDetails, []string{"id", "svc-1"}, "/provider/services/svc-1"},
		{"nested param", TimeSlots, []string{"id", "svc-1"}, "/provider/services/svc-1/time-slots"},
		{"escaped param", ResetPassword, []string{"token", "a/b c"}, "/reset-password/a%2Fb%20c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := URL(tt.route, tt.params...); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestURLPanicsOnProgrammingErrors(t *testing.T) {
	tests := []struct {
		name   string
		route  string
		params []string
	}{
		{"unknown route", "Nope", nil},
		{"missing param", ServiceDetails, nil},
		{"odd params", ServiceDetails, []string{"id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			URL(tt.route, tt.params...)
		})
	}
}

// newTestRouter mounts the route table with pages that answer 200 and the route name
func newTestRouter(t *testing.T) (*chi.Mux, *session.Manager) {
	t.Helper()

	codec, err := session.NewCodec("routes-test-secret")
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}
	sessions := session.NewManager(codec, false)

	pages := make(map[string]Page)
	for _, r := range Flatten(Table) {
		if r.Name == "" {
			continue
		}
		name := r.Name
		handler := func(w http.ResponseWriter, r *http.Request) {
			if _, ok := session.ContextSession(r.Context()); !ok {
				t.Errorf("session missing from context for %s", name)
			}
			_, _ = w.Write([]byte(name))
		}
		pages[name] = Page{Get: handler, Post: handler}
	}

	router := chi.NewRouter()
	if err := Mount(router, Table, pages, NewGuard(sessions)); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return router, sessions
}

func loggedInCookies(t *testing.T, sessions *session.Manager) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := sessions.Save(rec, "tok", types.Provider{ID: "p1"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return rec.Result().Cookies()
}

func TestRegisteredNavigation(t *testing.T) {
	router, sessions := newTestRouter(t)
	cookies := loggedInCookies(t, sessions)

	tests := []struct {
		name         string
		method       string
		path         string
		loggedIn     bool
		wantStatus   int
		wantLocation string
		wantBody     string
	}{
		{"guest on public page", http.MethodGet, "/about", false, http.StatusOK, "", About},
		{"guest on home", http.MethodGet, "/", false, http.StatusOK, "", Home},
		{"guest on dashboard", http.MethodGet, "/provider/bookings", false, http.StatusSeeOther, "/login", ""},
		{"guest on service details", http.MethodGet, "/provider/services/abc", false, http.StatusSeeOther, "/login", ""},
		{"guest posting a dashboard form", http.MethodPost, "/provider/settings", false, http.StatusSeeOther, "/login", ""},
		{"provider on dashboard", http.MethodGet, "/provider/bookings", true, http.StatusOK, "", ProviderBookings},
		{"provider on time slots", http.MethodGet, "/provider/services/abc/time-slots", true, http.StatusOK, "", TimeSlots},
		{"provider on login", http.MethodGet, "/login", true, http.StatusSeeOther, "/provider/home", ""},
		{"provider on register", http.MethodGet, "/register", true, http.StatusSeeOther, "/provider/home", ""},
		{"guest on login", http.MethodGet, "/login", false, http.StatusOK, "", Login},
		{"dashboard root redirect", http.MethodGet, "/provider", true, http.StatusSeeOther, "/provider/home", ""},
		{"unknown path falls back to home", http.MethodGet, "/does/not/exist", false, http.StatusSeeOther, "/", ""},
		{"reset password token", http.MethodGet, "/reset-password/xyz", false, http.StatusOK, "", ResetPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.loggedIn {
				for _, c := range cookies {
					req.AddCookie(c)
				}
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if loc := rr.Header().Get("Location"); loc != tt.wantLocation {
				t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
			}
			if tt.wantBody != "" && rr.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rr.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestExpiredTokenClearsSession(t *testing.T) {
	router, sessions := newTestRouter(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "p1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	expired, err := token.SignedString([]byte("api-signing-key"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	rec := httptest.NewRecorder()
	if err := sessions.Save(rec, expired, types.Provider{ID: "p1"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	cookies := rec.Result().Cookies()

	tests := []struct {
		name         string
		path         string
		wantStatus   int
		wantLocation string
	}{
		{"dashboard sends the provider to login", "/provider/home", http.StatusSeeOther, "/login"},
		{"login page is shown", "/login", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for _, c := range cookies {
				req.AddCookie(c)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if loc := rr.Header().Get("Location"); loc != tt.wantLocation {
				t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
			}

			cleared := 0
			for _, c := range rr.Result().Cookies() {
				if c.MaxAge < 0 {
					cleared++
				}
			}
			if cleared != 2 {
				t.Errorf("expected both session cookies to be cleared, got %d", cleared)
			}
		})
	}
}

func TestHTMXRedirect(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/provider/home", nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	if got := rr.Header().Get("HX-Redirect"); got != "/login" {
		t.Errorf("HX-Redirect = %q, want /login", got)
	}
}

func TestMountRequiresPages(t *testing.T) {
	codec, _ := session.NewCodec("x")
	err := Mount(chi.NewRouter(), Table, map[string]Page{}, NewGuard(session.NewManager(codec, false)))
	if err == nil {
		t.Error("expected an error for missing pages")
	}
}
