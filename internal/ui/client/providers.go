package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/infinity-booking/provider-ui/internal/ui/types"
)

func (c *Client) GetProfile(ctx context.Context) (*types.Provider, error) {
	var p types.Provider
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/providers/me",
		result: &p,
		while:  "decoding provider profile",
	}); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile saves the profile and returns the updated provider record
func (c *Client) UpdateProfile(ctx context.Context, input types.ProfileUpdate) (*types.Provider, error) {
	var p types.Provider
	if err := c.do(ctx, call{
		method: http.MethodPut,
		path:   "/providers/me",
		body:   input,
		result: &p,
		while:  "decoding updated provider profile",
	}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ChangePassword(ctx context.Context, input types.PasswordChange) error {
	return c.do(ctx, call{
		method: http.MethodPut,
		path:   "/providers/me/password",
		body:   input,
	})
}

func (c *Client) GetEarnings(ctx context.Context) (*types.EarningsSummary, error) {
	var e types.EarningsSummary
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/providers/me/earnings",
		result: &e,
		while:  "decoding earnings",
	}); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) ListReviews(ctx context.Context) ([]types.Review, error) {
	var reviews []types.Review
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/providers/me/reviews",
		result: &reviews,
		while:  "decoding reviews",
	}); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListProviders returns the public provider directory, optionally filtered by a search term
func (c *Client) ListProviders(ctx context.Context, search string) ([]types.Provider, error) {
	var query url.Values
	if search != "" {
		query = url.Values{"search": []string{search}}
	}

	var providers []types.Provider
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/providers",
		query:  query,
		result: &providers,
		while:  "decoding provider list",
	}); err != nil {
		return nil, err
	}
	return providers, nil
}
