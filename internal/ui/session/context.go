package session

import "context"

type contextKey struct {
	name string
}

var sessionKey = contextKey{"session"}

func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func ContextSession(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok
}

// ContextToken returns the provider token of the session stored in ctx, if any.
// Expired tokens are not returned.
func ContextToken(ctx context.Context) (string, bool) {
	s, ok := ContextSession(ctx)
	if !ok || s.Status != TokenValid || s.Token == "" {
		return "", false
	}
	return s.Token, true
}
