// Package session holds the provider's login state between requests.
//
// The state is two values, the provider token and the logged-in provider record, each kept in its own sealed cookie.
// A session is authenticated when both values are present.
package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/infinity-booking/provider-ui/internal/ui/config"
	"github.com/infinity-booking/provider-ui/internal/ui/types"
)

// TokenStatus describes the provider token found on a request
type TokenStatus int

const (
	TokenMissing TokenStatus = iota
	TokenExpired
	TokenValid
)

var tokenStatusNames = []string{"TokenMissing", "TokenExpired", "TokenValid"}

func (t TokenStatus) String() string {
	if t < 0 || int(t) >= len(tokenStatusNames) {
		return fmt.Sprintf("TokenStatus(%d)", int(t))
	}
	return tokenStatusNames[t]
}

// Session is the state read from the request cookies. Provider is nil when the loggedProvider cookie is absent or unreadable.
type Session struct {
	Token    string
	Provider *types.Provider
	Status   TokenStatus
}

// Authenticated reports whether both the token and the provider record are present
func (s *Session) Authenticated() bool {
	return s != nil && s.Status == TokenValid && s.Token != "" && s.Provider != nil
}

// Manager reads and writes session cookies
type Manager struct {
	codec  *Codec
	secure bool
	maxAge time.Duration
	now    func() time.Time
}

const defaultMaxAge = 7 * 24 * time.Hour

func NewManager(codec *Codec, secure bool) *Manager {
	return &Manager{
		codec:  codec,
		secure: secure,
		maxAge: defaultMaxAge,
		now:    time.Now,
	}
}

// Load reads the session from the request cookies. It never fails: unreadable cookies are treated as absent.
func (m *Manager) Load(r *http.Request) *Session {
	s := &Session{Status: TokenMissing}

	if c, err := r.Cookie(config.ProviderTokenCookieName); err == nil {
		if v, err := m.codec.Open(config.ProviderTokenCookieName, c.Value); err == nil && len(v) > 0 {
			s.Token = string(v)
			s.Status = m.tokenStatus(s.Token)
		}
	}

	if c, err := r.Cookie(config.LoggedProviderCookieName); err == nil {
		if v, err := m.codec.Open(config.LoggedProviderCookieName, c.Value); err == nil {
			var p types.Provider
			if err := json.Unmarshal(v, &p); err == nil {
				s.Provider = &p
			}
		}
	}

	return s
}

// tokenStatus treats tokens that are not JWTs as valid by presence.
// JWTs carrying an exp claim in the past are reported as expired.
func (m *Manager) tokenStatus(token string) TokenStatus {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := &jwt.RegisteredClaims{}

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return TokenValid
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(m.now()) {
		return TokenExpired
	}
	return TokenValid
}

// Save sets both session cookies after a successful login
func (m *Manager) Save(w http.ResponseWriter, token string, provider types.Provider) error {
	providerJSON, err := json.Marshal(provider)
	if err != nil {
		return fmt.Errorf("failed to marshal provider: %w", err)
	}

	sealedToken, err := m.codec.Seal(config.ProviderTokenCookieName, []byte(token))
	if err != nil {
		return err
	}
	sealedProvider, err := m.codec.Seal(config.LoggedProviderCookieName, providerJSON)
	if err != nil {
		return err
	}

	http.SetCookie(w, m.cookie(config.ProviderTokenCookieName, sealedToken, int(m.maxAge.Seconds())))
	http.SetCookie(w, m.cookie(config.LoggedProviderCookieName, sealedProvider, int(m.maxAge.Seconds())))
	return nil
}

// UpdateProvider replaces the loggedProvider record, e.g. after a profile edit
func (m *Manager) UpdateProvider(w http.ResponseWriter, provider types.Provider) error {
	providerJSON, err := json.Marshal(provider)
	if err != nil {
		return fmt.Errorf("failed to marshal provider: %w", err)
	}
	sealed, err := m.codec.Seal(config.LoggedProviderCookieName, providerJSON)
	if err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(config.LoggedProviderCookieName, sealed, int(m.maxAge.Seconds())))
	return nil
}

// Clear removes both session cookies
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie(config.ProviderTokenCookieName, "", -1))
	http.SetCookie(w, m.cookie(config.LoggedProviderCookieName, "", -1))
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
