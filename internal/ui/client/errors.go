package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/infinity-booking/provider-ui/internal/apperrors"
)

const (
	timeoutMessage     = "Request timeout. Server is taking too long to respond."
	networkMessage     = "Cannot connect to server. Please check your internet connection."
	serverErrorMessage = "Server error occurred"
	internalMessage    = "An error occurred. Please try again later."
)

// ClientError is the single error shape returned by every client method.
//
// StatusCode 0 means no response was received (timeout or network failure), >0 means the booking API answered with an error.
// Handlers render UserError() to the provider and log Error().
type ClientError struct {
	StatusCode  int                 `json:"status_code"`
	Code        apperrors.ErrorCode `json:"code"`
	UserMessage string              `json:"message"`
	LogMessage  string              `json:"-"`
}

func (e *ClientError) Error() string {
	return e.LogMessage
}

func (e *ClientError) UserError() string {
	return e.UserMessage
}

// IsUnauthorized reports whether the API rejected the provider token
func (e *ClientError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// AsClientError unwraps err into a *ClientError
func AsClientError(err error) (*ClientError, bool) {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// NewClientTransportError classifies a failure where no response was received.
// Timeouts and aborted requests become ECONNABORTED, everything else NETWORK_ERROR.
func NewClientTransportError(err error) *ClientError {
	if isTimeout(err) {
		return &ClientError{
			Code:        apperrors.ErrCodeRequestTimeout,
			UserMessage: timeoutMessage,
			LogMessage:  fmt.Sprintf("request timeout: %v", err),
		}
	}
	return &ClientError{
		Code:        apperrors.ErrCodeNetworkError,
		UserMessage: networkMessage,
		LogMessage:  fmt.Sprintf("network error: %v", err),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// NewClientInternalError creates a ClientError for failures on our side, supply the error and what was being done when it occurred
func NewClientInternalError(err error, while string) *ClientError {
	return &ClientError{
		Code:        apperrors.ErrCodeInternalClientError,
		UserMessage: internalMessage,
		LogMessage:  fmt.Sprintf("internal error: %v while %v", err, while),
	}
}

// NewClientAPIError creates a ClientError from an error response sent by the booking API.
// The server's message is passed through to the provider.
func NewClientAPIError(res *resty.Response) *ClientError {
	var payload struct {
		Code    apperrors.ErrorCode `json:"code"`
		Message string              `json:"message"`
		Error   string              `json:"error"`
	}
	_ = json.Unmarshal(res.Body(), &payload)

	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = serverErrorMessage
	}

	code := payload.Code
	if code == "" {
		code = codeForStatus(res.StatusCode())
	}

	return &ClientError{
		StatusCode:  res.StatusCode(),
		Code:        code,
		UserMessage: msg,
		LogMessage:  fmt.Sprintf("booking api status %d - %s", res.StatusCode(), msg),
	}
}

func codeForStatus(status int) apperrors.ErrorCode {
	switch status {
	case http.StatusUnauthorized:
		return apperrors.ErrCodeUnauthorized
	case http.StatusForbidden:
		return apperrors.ErrCodeForbidden
	case http.StatusNotFound:
		return apperrors.ErrCodeNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusConflict:
		return apperrors.ErrCodeValidation
	case http.StatusTooManyRequests:
		return apperrors.ErrCodeRateLimitExceeded
	default:
		return apperrors.ErrCodeServerError
	}
}
