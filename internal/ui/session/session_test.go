package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/infinity-booking/provider-ui/internal/ui/config"
	"github.com/infinity-booking/provider-ui/internal/ui/types"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	codec, err := NewCodec("test-secret-test-secret-test-secret")
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}
	return NewManager(codec, false)
}

// requestWithCookies copies the cookies set on rec into a new request
func requestWithCookies(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/provider/home", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "provider-1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	s, err := token.SignedString([]byte("api-signing-key"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return s
}

func TestCodecRoundTrip(t *testing.T) {
	codec, err := NewCodec("secret")
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}

	sealed, err := codec.Seal("provider_token", []byte("abc123"))
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if sealed == "abc123" {
		t.Fatal("Seal() returned the plain value")
	}

	got, err := codec.Open("provider_token", sealed)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if string(got) != "abc123" {
		t.Errorf("Open() = %q, want %q", got, "abc123")
	}
}

func TestCodecRejects(t *testing.T) {
	codec, _ := NewCodec("secret")
	other, _ := NewCodec("another secret")
	sealed, _ := codec.Seal("provider_token", []byte("abc123"))

	tampered := []byte(sealed)
	if tampered[30] == 'A' {
		tampered[30] = 'B'
	} else {
		tampered[30] = 'A'
	}

	tests := []struct {
		name    string
		codec   *Codec
		cookie  string
		encoded string
	}{
		{"wrong key", other, "provider_token", sealed},
		{"wrong cookie name", codec, "loggedProvider", sealed},
		{"not base64", codec, "provider_token", "%%%"},
		{"too short", codec, "provider_token", "AAAA"},
		{"tampered", codec, "provider_token", string(tampered)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.codec.Open(tt.cookie, tt.encoded); err == nil {
				t.Error("Open() expected an error")
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	m := newTestManager(t)
	provider := types.Provider{ID: "p1", FullName: "Abebe Kebede", Email: "abebe@example.com"}

	rec := httptest.NewRecorder()
	if err := m.Save(rec, "opaque-token", provider); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	for _, c := range cookies {
		if !c.HttpOnly {
			t.Errorf("cookie %s is not HttpOnly", c.Name)
		}
		if c.Value == "opaque-token" {
			t.Errorf("cookie %s holds the token in clear text", c.Name)
		}
	}

	s := m.Load(requestWithCookies(rec))
	if !s.Authenticated() {
		t.Fatalf("expected authenticated session, got %+v", s)
	}
	if s.Token != "opaque-token" {
		t.Errorf("Token = %q", s.Token)
	}
	if s.Provider.Email != provider.Email {
		t.Errorf("Provider.Email = %q", s.Provider.Email)
	}
}

func TestLoadPartialSessions(t *testing.T) {
	m := newTestManager(t)
	rec := httptest.NewRecorder()
	if err := m.Save(rec, "opaque-token", types.Provider{ID: "p1"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var tokenCookie, providerCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		switch c.Name {
		case config.ProviderTokenCookieName:
			tokenCookie = c
		case config.LoggedProviderCookieName:
			providerCookie = c
		}
	}

	tests := []struct {
		name    string
		cookies []*http.Cookie
	}{
		{"no cookies", nil},
		{"token only", []*http.Cookie{tokenCookie}},
		{"provider only", []*http.Cookie{providerCookie}},
		{"unsealed token", []*http.Cookie{{Name: config.ProviderTokenCookieName, Value: "plain"}, providerCookie}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for _, c := range tt.cookies {
				req.AddCookie(c)
			}
			if s := m.Load(req); s.Authenticated() {
				t.Errorf("expected unauthenticated session, got %+v", s)
			}
		})
	}
}

func TestTokenStatus(t *testing.T) {
	m := newTestManager(t)

	tests := []struct {
		name  string
		token string
		want  TokenStatus
	}{
		{"opaque token", "not-a-jwt", TokenValid},
		{"unexpired jwt", signedToken(t, time.Now().Add(time.Hour)), TokenValid},
		{"expired jwt", signedToken(t, time.Now().Add(-time.Minute)), TokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := m.Save(rec, tt.token, types.Provider{ID: "p1"}); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			s := m.Load(requestWithCookies(rec))
			if s.Status != tt.want {
				t.Errorf("Status = %v, want %v", s.Status, tt.want)
			}
			if (tt.want == TokenValid) != s.Authenticated() {
				t.Errorf("Authenticated() = %v for status %v", s.Authenticated(), s.Status)
			}
		})
	}
}

func TestClear(t *testing.T) {
	m := newTestManager(t)
	rec := httptest.NewRecorder()
	m.Clear(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	for _, c := range cookies {
		if c.MaxAge >= 0 {
			t.Errorf("cookie %s MaxAge = %d, want negative", c.Name, c.MaxAge)
		}
	}
}

func TestContextToken(t *testing.T) {
	ctx := context.Background()
	if _, ok := ContextToken(ctx); ok {
		t.Error("expected no token on empty context")
	}

	ctx = ContextWithSession(ctx, &Session{Token: "abc", Status: TokenValid})
	if tok, ok := ContextToken(ctx); !ok || tok != "abc" {
		t.Errorf("ContextToken() = %q, %v", tok, ok)
	}

	expired := ContextWithSession(context.Background(), &Session{Token: "abc", Status: TokenExpired})
	if _, ok := ContextToken(expired); ok {
		t.Error("expired token should not be returned")
	}
}
