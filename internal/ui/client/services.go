package client

import (
	"context"
	"net/http"

	"github.com/infinity-booking/provider-ui/internal/ui/types"
)

// ListServices returns the services offered by the logged in provider
func (c *Client) ListServices(ctx context.Context) ([]types.Service, error) {
	var services []types.Service
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/services/mine",
		result: &services,
		while:  "decoding services",
	}); err != nil {
		return nil, err
	}
	return services, nil
}

func (c *Client) GetService(ctx context.Context, serviceID string) (*types.Service, error) {
	var s types.Service
	if err := c.do(ctx, call{
		method:     http.MethodGet,
		path:       "/services/{id}",
		pathParams: map[string]string{"id": serviceID},
		result:     &s,
		while:      "decoding service",
	}); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) CreateService(ctx context.Context, input types.ServiceInput) (*types.Service, error) {
	var s types.Service
	if err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/services",
		body:   input,
		result: &s,
		while:  "decoding created service",
	}); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) ListTimeSlots(ctx context.Context, serviceID string) ([]types.TimeSlot, error) {
	var slots []types.TimeSlot
	if err := c.do(ctx, call{
		method:     http.MethodGet,
		path:       "/services/{id}/slots",
		pathParams: map[string]string{"id": serviceID},
		result:     &slots,
		while:      "decoding time slots",
	}); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *Client) CreateTimeSlots(ctx context.Context, serviceID string, slots []types.TimeSlot) error {
	return c.do(ctx, call{
		method:     http.MethodPost,
		path:       "/services/{id}/slots",
		pathParams: map[string]string{"id": serviceID},
		body:       types.TimeSlotsInput{Slots: slots},
	})
}
