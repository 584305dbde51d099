package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/infinity-booking/provider-ui/internal/logger"
	"github.com/infinity-booking/provider-ui/internal/ui/config"
)

// newDevProxy forwards requests under the dev proxy path to target with the prefix removed,
// e.g. /api/services/mine -> <target>/services/mine
func newDevProxy(target string) (http.Handler, error) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API proxy target %q", target)
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(u)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			reqLogger := logger.ContextRequestLogger(r.Context())
			reqLogger.Error("API proxy error",
				slog.String("component", "proxy"),
				slog.String("target", u.String()),
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()),
			)
			w.WriteHeader(http.StatusBadGateway)
		},
	}

	return http.StripPrefix(config.DevProxyPath, proxy), nil
}
