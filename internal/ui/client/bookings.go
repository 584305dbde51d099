package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/infinity-booking/provider-ui/internal/ui/types"
)

// ListBookings returns the bookings made against the logged in provider's services.
// An empty status returns all bookings.
func (c *Client) ListBookings(ctx context.Context, status types.BookingStatus) ([]types.Booking, error) {
	cl := call{
		method: http.MethodGet,
		path:   "/bookings/provider",
		while:  "decoding bookings",
	}
	if status != "" {
		cl.query = map[string][]string{"status": {string(status)}}
	}

	var bookings []types.Booking
	cl.result = &bookings
	if err := c.do(ctx, cl); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) UpdateBookingStatus(ctx context.Context, bookingID string, status types.BookingStatus) error {
	if !types.ValidBookingStatuses[status] {
		return NewClientInternalError(fmt.Errorf("invalid booking status %q", status), "updating booking status")
	}
	return c.do(ctx, call{
		method:     http.MethodPatch,
		path:       "/bookings/{id}/status",
		pathParams: map[string]string{"id": bookingID},
		body:       types.BookingStatusUpdate{Status: status},
	})
}
