package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/infinity-booking/provider-ui/internal/ui/types"
)

// Login authenticates a provider and returns the token and provider record to keep in the session
func (c *Client) Login(ctx context.Context, email, password string) (*types.LoginResponse, error) {
	var res types.LoginResponse

	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/providers/login",
		body:   types.LoginRequest{Email: email, Password: password},
		result: &res,
		while:  "decoding login response",
	})
	if err != nil {
		return nil, err
	}

	if res.Token == "" {
		return nil, NewClientInternalError(fmt.Errorf("token missing"), "reading login response")
	}
	return &res, nil
}

func (c *Client) Register(ctx context.Context, input types.RegisterRequest) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/providers/register",
		body:   input,
	})
}

// ForgotPassword asks the API to email a password reset link
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/providers/forgot-password",
		body:   map[string]string{"email": email},
	})
}

func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) error {
	return c.do(ctx, call{
		method:     http.MethodPost,
		path:       "/providers/reset-password/{token}",
		pathParams: map[string]string{"token": resetToken},
		body:       map[string]string{"password": password},
	})
}
