package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeValidator accepts a single token string and returns a fixed user ID.
type fakeValidator struct {
	token  string
	userID uuid.UUID
}

type fakeClaims struct {
	userID uuid.UUID
}

func (c *fakeClaims) GetUserID() uuid.UUID { return c.userID }

func (v *fakeValidator) ValidateToken(tokenString string) (UserIDGetter, error) {
	if tokenString != v.token {
		return nil, errors.New("invalid token")
	}
	return &fakeClaims{userID: v.userID}, nil
}

func TestAuth(t *testing.T) {
	userID := uuid.New()
	validator := &fakeValidator{token: "valid-token", userID: userID}

	var gotUserID uuid.UUID
	var gotErr error
	handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, gotErr = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"Valid bearer token", "Bearer valid-token", http.StatusOK},
		{"Lowercase scheme accepted", "bearer valid-token", http.StatusOK},
		{"Missing header", "", http.StatusUnauthorized},
		{"Wrong scheme", "Basic valid-token", http.StatusUnauthorized},
		{"Missing token", "Bearer", http.StatusUnauthorized},
		{"Invalid token", "Bearer other-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				r.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				require.NoError(t, gotErr)
				assert.Equal(t, userID, gotUserID)
			}
		})
	}
}

func TestGetUserIDMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := GetUserID(r)
	assert.Error(t, err)
}

func TestWithUserID(t *testing.T) {
	userID := uuid.New()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(WithUserID(r.Context(), userID))

	got, err := GetUserID(r)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}
