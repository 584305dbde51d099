package apperrors

// ErrorCode identifies a class of failure reported by the booking API or raised while calling it.
type ErrorCode string

const (
	// transport failures raised by the api client
	ErrCodeRequestTimeout ErrorCode = "ECONNABORTED"
	ErrCodeNetworkError   ErrorCode = "NETWORK_ERROR"

	// failures reported by the booking API
	ErrCodeServerError         ErrorCode = "SERVER_ERROR"
	ErrCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden           ErrorCode = "FORBIDDEN"
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeValidation          ErrorCode = "VALIDATION_ERROR"
	ErrCodeRateLimitExceeded   ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternalClientError ErrorCode = "CLIENT_INTERNAL_ERROR"
)
