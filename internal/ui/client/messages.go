package client

import (
	"context"
	"net/http"

	"github.com/infinity-booking/provider-ui/internal/ui/types"
)

func (c *Client) ListMessages(ctx context.Context) ([]types.Message, error) {
	var messages []types.Message
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/messages",
		result: &messages,
		while:  "decoding messages",
	}); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *Client) SendMessage(ctx context.Context, input types.MessageInput) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/messages",
		body:   input,
	})
}

// SubmitFeedback posts the public feedback form
func (c *Client) SubmitFeedback(ctx context.Context, input types.FeedbackInput) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/feedback",
		body:   input,
	})
}

// SendContact posts the public contact form
func (c *Client) SendContact(ctx context.Context, input types.ContactInput) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/contact",
		body:   input,
	})
}
