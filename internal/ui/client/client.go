// Package client calls the remote booking API on behalf of the UI handlers.
//
// Every request carries the provider's bearer token when the request context holds one.
// Failures are normalized into *ClientError (see errors.go): the user message is rendered to the provider, the log message is for the caller's logs.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/infinity-booking/provider-ui/internal/logger"
)

const DefaultTimeout = 15 * time.Second

// TokenSource returns the bearer token to use for a request, if any
type TokenSource func(ctx context.Context) (string, bool)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client handles communication with the booking API
type Client struct {
	baseURL string
	http    *resty.Client
	tokens  TokenSource
}

func NewClient(cfg Config, tokens TokenSource) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tokens:  tokens,
	}

	c.http = resty.New().
		SetBaseURL(c.baseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		OnBeforeRequest(c.prepareRequest)

	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// prepareRequest attaches the bearer token and request id before the request is sent
func (c *Client) prepareRequest(_ *resty.Client, req *resty.Request) error {
	ctx := req.Context()

	if c.tokens != nil {
		if token, ok := c.tokens(ctx); ok && token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		}
	}

	requestID := chimiddleware.GetReqID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.SetHeader("X-Request-ID", requestID)

	logger.ContextRequestLogger(ctx).Debug(fmt.Sprintf("%s %s%s", strings.ToUpper(req.Method), c.baseURL, req.URL),
		slog.String("component", "client"),
	)
	return nil
}

// call describes one request to the booking API
type call struct {
	method     string
	path       string
	pathParams map[string]string
	query      url.Values
	body       any
	result     any // decoded from the response body when not nil
	while      string
}

func (c *Client) do(ctx context.Context, cl call) error {
	req := c.http.R().SetContext(ctx)
	if cl.pathParams != nil {
		req.SetPathParams(cl.pathParams)
	}
	if cl.query != nil {
		req.SetQueryParamsFromValues(cl.query)
	}
	if cl.body != nil {
		req.SetBody(cl.body)
	}

	res, err := req.Execute(cl.method, cl.path)
	if err != nil {
		return c.fail(ctx, req, cl, res, NewClientTransportError(err))
	}
	if res.IsError() {
		return c.fail(ctx, req, cl, res, NewClientAPIError(res))
	}

	logger.ContextRequestLogger(ctx).Debug(fmt.Sprintf("%s %s - Success", cl.method, cl.path),
		slog.String("component", "client"),
		slog.Int("status", res.StatusCode()),
	)

	// acknowledgement-only answers (e.g. 204) leave result at its zero value
	if cl.result == nil || len(bytes.TrimSpace(res.Body())) == 0 {
		return nil
	}
	if err := decodeBody(res.Body(), cl.result); err != nil {
		return c.fail(ctx, req, cl, res, NewClientInternalError(err, cl.while))
	}
	return nil
}

// fail logs the details of a failed call and returns the normalized error
func (c *Client) fail(ctx context.Context, req *resty.Request, cl call, res *resty.Response, ce *ClientError) *ClientError {
	attrs := []any{
		slog.String("component", "client"),
		slog.String("full_url", fullURL(c.baseURL, req, cl)),
		slog.String("method", cl.method),
		slog.String("message", ce.LogMessage),
		slog.String("code", string(ce.Code)),
	}
	if res != nil && res.RawResponse != nil {
		attrs = append(attrs,
			slog.Int("status", res.StatusCode()),
			slog.String("status_text", res.Status()),
		)
	}
	logger.ContextRequestLogger(ctx).Error("API error", attrs...)
	return ce
}

// fullURL returns the URL that was sent. When the request was never built the path params are expanded here.
func fullURL(baseURL string, req *resty.Request, cl call) string {
	if req != nil && req.RawRequest != nil && req.RawRequest.URL != nil {
		return req.RawRequest.URL.String()
	}
	path := cl.path
	for k, v := range cl.pathParams {
		path = strings.ReplaceAll(path, "{"+k+"}", url.PathEscape(v))
	}
	return baseURL + path
}

// decodeBody decodes a non-empty response into v. Responses wrapped in a {"data": ...} envelope are unwrapped first.
func decodeBody(body []byte, v any) error {
	body = bytes.TrimSpace(body)
	if body[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err == nil {
			if data, ok := envelope["data"]; ok && len(data) > 0 && string(data) != "null" {
				return json.Unmarshal(data, v)
			}
		}
	}
	return json.Unmarshal(body, v)
}
