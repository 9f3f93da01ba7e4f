package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communityticketing/internal/delivery/http/helpers"
)

type stubVerifier struct {
	userID string
	err    error
}

func (s stubVerifier) Verify(string) (string, error) {
	return s.userID, s.err
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("valid token reaches the handler with the user in context", func(t *testing.T) {
		var gotUserID string
		handler := RequireAuth(stubVerifier{userID: "u-42"}, logger)(func(w http.ResponseWriter, r *http.Request) {
			gotUserID, _ = UserIDFromContext(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()
		handler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u-42", gotUserID)
	})

	rejections := []struct {
		name   string
		header string
		err    error
	}{
		{"no header", "", nil},
		{"wrong scheme", "Basic dXNlcg==", nil},
		{"bearer with empty token", "Bearer   ", nil},
		{"verifier rejects", "Bearer expired", errors.New("token is expired")},
	}

	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireAuth(stubVerifier{userID: "u-42", err: tt.err}, logger)(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not run")
			})

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
			require.NotNil(t, envelope.Error)
			assert.Equal(t, helpers.ErrCodeUnauthorized, envelope.Error.Code)
		})
	}
}
