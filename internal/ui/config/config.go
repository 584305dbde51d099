package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Netflix/go-env"
)

// Config holds the UI server settings, loaded from the environment
type Config struct {
	Environment    string        `env:"ENVIRONMENT,default=dev"`
	Host           string        `env:"HOST,default=0.0.0.0"`
	Port           int           `env:"PORT,default=3000"`
	LogLevel       string        `env:"LOG_LEVEL,default=debug"`
	ReadTimeout    time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout   time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout    time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	APIBaseURL     string        `env:"API_BASE_URL"` // overrides the environment based base url (see ResolveAPIBaseURL)
	APITimeout     time.Duration `env:"API_TIMEOUT,default=15s"`
	APIProxyTarget string        `env:"API_PROXY_TARGET,default=https://infinity-booking-backend1-1.onrender.com/infinity-booking"`
	CookieSecret   string        `env:"COOKIE_SECRET"`
	StaticDir      string        `env:"STATIC_DIR,default=./web/static"`
	RateLimitRPS   int           `env:"RATE_LIMIT_RPS,default=5"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST,default=10"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS,separator=|"`
}

const (
	ProviderTokenCookieName  = "provider_token"
	LoggedProviderCookieName = "loggedProvider"

	// DevProxyPath is the relative prefix used for API calls in the dev environment.
	// Requests under it are forwarded to APIProxyTarget by the UI server.
	DevProxyPath = "/api"

	// ProductionAPIBaseURL is the booking API origin used outside of dev
	ProductionAPIBaseURL = "https://infinity-booking-backend1-1.onrender.com/infinity-booking"

	ServerShutdownTimeout = 10 * time.Second
	MinCookieSecretLength = 32
	CORSMaxAgeInSeconds   = 86400
)

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"staging": true,
	"prod":    true,
}

func NewConfig() (*Config, error) {
	var cfg Config

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateUIConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// ResolveAPIBaseURL returns the base URL used by the api client.
//
// An explicit API_BASE_URL always wins. In dev the relative proxy path is used, resolved against the
// UI server's own address so the calls pass through the dev proxy. Other environments call the
// production API directly.
func (c *Config) ResolveAPIBaseURL() string {
	if c.APIBaseURL != "" {
		return strings.TrimRight(c.APIBaseURL, "/")
	}
	if c.IsDev() {
		host := c.Host
		if host == "" || host == "0.0.0.0" {
			host = "127.0.0.1"
		}
		return fmt.Sprintf("http://%s:%d%s", host, c.Port, DevProxyPath)
	}
	return ProductionAPIBaseURL
}

func (c *Config) IsDev() bool {
	return c.Environment == "dev"
}

// SecureCookies reports whether cookies should carry the Secure flag
func (c *Config) SecureCookies() bool {
	return c.Environment == "prod" || c.Environment == "staging"
}

func validateUIConfig(cfg *Config) error {
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid environment '%s'. Valid environments: dev, test, staging, prod", cfg.Environment)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}

	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive, got %v", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive, got %v", cfg.WriteTimeout)
	}
	if cfg.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive, got %v", cfg.IdleTimeout)
	}
	if cfg.APITimeout <= 0 {
		return fmt.Errorf("api timeout must be positive, got %v", cfg.APITimeout)
	}

	if cfg.APIBaseURL != "" {
		u, err := url.ParseRequestURI(cfg.APIBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("API_BASE_URL is not a valid absolute URL: %s", cfg.APIBaseURL)
		}
	}

	if cfg.IsDev() {
		u, err := url.ParseRequestURI(cfg.APIProxyTarget)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("API_PROXY_TARGET is not a valid absolute URL: %s", cfg.APIProxyTarget)
		}
	}

	if !cfg.IsDev() && len(cfg.CookieSecret) < MinCookieSecretLength {
		return fmt.Errorf("COOKIE_SECRET must be at least %d characters in %s environment", MinCookieSecretLength, cfg.Environment)
	}

	if cfg.RateLimitRPS < 1 || cfg.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be at least 1")
	}

	// default to all origins for the dev proxy
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	return nil
}
