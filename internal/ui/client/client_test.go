package client

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/infinity-booking/provider-ui/internal/apperrors"
	"github.com/infinity-booking/provider-ui/internal/ui/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenKey struct{}

// contextTokens reads the bearer token placed in the context by withToken
func contextTokens(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(tokenKey{}).(string)
	return tok, ok
}

func withToken(token string) context.Context {
	return context.WithValue(context.Background(), tokenKey{}, token)
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	return NewClient(Config{BaseURL: serverURL, Timeout: 2 * time.Second}, contextTokens)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestBearerTokenInjectedWhenPresent(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		writeJSON(t, w, http.StatusOK, []types.Service{})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.ListServices(withToken("tok-123"))

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		writeJSON(t, w, http.StatusOK, []types.Provider{})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.ListProviders(context.Background(), "")

	require.NoError(t, err)
	assert.False(t, hasAuth)
}

func TestBaseURLPathIsKept(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(t, w, http.StatusOK, types.Provider{ID: "p1"})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/infinity-booking/"}, contextTokens)
	_, err := c.GetProfile(withToken("t"))

	require.NoError(t, err)
	assert.Equal(t, "/infinity-booking/providers/me", gotPath)
	assert.Equal(t, srv.URL+"/infinity-booking", c.BaseURL())
}

func TestTimeoutIsNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, contextTokens)
	_, err := c.ListServices(context.Background())

	require.Error(t, err)
	ce, ok := AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeRequestTimeout, ce.Code)
	assert.Equal(t, "Request timeout. Server is taking too long to respond.", ce.UserError())
	assert.Zero(t, ce.StatusCode)
}

func TestNetworkErrorIsNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url)
	_, err := c.ListServices(context.Background())

	require.Error(t, err)
	ce, ok := AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNetworkError, ce.Code)
	assert.Equal(t, "Cannot connect to server. Please check your internet connection.", ce.UserError())
}

func TestServerErrorPayloadIsPassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusConflict, map[string]string{
			"message": "Slot overlaps an existing slot",
			"code":    "SLOT_OVERLAP",
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.CreateTimeSlots(withToken("t"), "svc1", []types.TimeSlot{{Date: "2025-01-01", StartTime: "09:00", EndTime: "10:00"}})

	ce, ok := AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, ce.StatusCode)
	assert.Equal(t, apperrors.ErrorCode("SLOT_OVERLAP"), ce.Code)
	assert.Equal(t, "Slot overlaps an existing slot", ce.UserError())
}

func TestServerErrorFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantCode apperrors.ErrorCode
		unauth   bool
	}{
		{"empty body", http.StatusInternalServerError, "", "Server error occurred", apperrors.ErrCodeServerError, false},
		{"html body", http.StatusBadGateway, "<html>bad gateway</html>", "Server error occurred", apperrors.ErrCodeServerError, false},
		{"error field", http.StatusBadRequest, `{"error":"email is required"}`, "email is required", apperrors.ErrCodeValidation, false},
		{"unauthorized", http.StatusUnauthorized, `{"message":"jwt expired"}`, "jwt expired", apperrors.ErrCodeUnauthorized, true},
		{"not found", http.StatusNotFound, `{}`, "Server error occurred", apperrors.ErrCodeNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL)
			_, err := c.GetProfile(withToken("t"))

			ce, ok := AsClientError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, ce.StatusCode)
			assert.Equal(t, tt.wantMsg, ce.UserError())
			assert.Equal(t, tt.wantCode, ce.Code)
			assert.Equal(t, tt.unauth, ce.IsUnauthorized())
		})
	}
}

func TestUndecodableSuccessIsInternalError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.ListBookings(withToken("t"), "")

	ce, ok := AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInternalClientError, ce.Code)
}

func TestEmptySuccessBodyIsAcknowledgement(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"no content", http.StatusNoContent},
		{"ok without body", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL)

			updated, err := c.UpdateProfile(withToken("t"), types.ProfileUpdate{FullName: "Abebe Kebede"})
			require.NoError(t, err)
			assert.Empty(t, updated.ID)

			created, err := c.CreateService(withToken("t"), types.ServiceInput{Title: "Haircut", Price: 250, Duration: 30})
			require.NoError(t, err)
			assert.Empty(t, created.ID)
		})
	}
}

func TestFailureLogsExpandedURL(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(previous)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"message": "service not found"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.GetService(withToken("t"), "svc42")
	require.Error(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, srv.URL+"/services/svc42", entry["full_url"])
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/providers/login", r.URL.Path)

		var req types.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "abebe@example.com", req.Email)

		writeJSON(t, w, http.StatusOK, types.LoginResponse{
			Token:    "tok",
			Provider: types.Provider{ID: "p1", Email: req.Email},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	res, err := c.Login(context.Background(), "abebe@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, "p1", res.Provider.ID)
}

func TestLoginWithoutTokenFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"provider": map[string]string{"_id": "p1"}})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Login(context.Background(), "a@example.com", "x")

	ce, ok := AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInternalClientError, ce.Code)
}

func TestEnvelopedListIsUnwrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "confirmed", r.URL.Query().Get("status"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data":    []types.Booking{{ID: "b1", Status: types.BookingConfirmed}},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	bookings, err := c.ListBookings(withToken("t"), types.BookingConfirmed)

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "b1", bookings[0].ID)
}

func TestPathParamsAreEscaped(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		writeJSON(t, w, http.StatusOK, types.Service{ID: "a/b"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.GetService(withToken("t"), "a/b")

	require.NoError(t, err)
	assert.Equal(t, "/services/a%2Fb", gotPath)
}

func TestUpdateBookingStatus(t *testing.T) {
	var got types.BookingStatusUpdate
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/bookings/b1/status", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	require.NoError(t, c.UpdateBookingStatus(withToken("t"), "b1", types.BookingConfirmed))
	assert.Equal(t, types.BookingConfirmed, got.Status)

	err := c.UpdateBookingStatus(withToken("t"), "b1", "archived")
	require.Error(t, err)
}
