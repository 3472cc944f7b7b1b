package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, userID string, roles []string, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(testSecret)

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, testSecret, "user-1", []string{"admin"}, time.Now().Add(time.Hour))

		claims, err := v.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.True(t, claims.HasRole(RoleAdmin))
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", "user-1", []string{"admin"}, time.Now().Add(time.Hour))

		_, err := v.Validate(token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testSecret, "user-1", []string{"admin"}, time.Now().Add(-time.Hour))

		_, err := v.Validate(token)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := v.Validate("not.a.token")
		assert.Error(t, err)
	})
}

func TestRequireAdmin(t *testing.T) {
	v := NewValidator(testSecret)

	var gotUserID string
	var gotRoles []string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		gotRoles = GetRoles(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdmin(v)(next)

	tests := []struct {
		name       string
		authz      string
		wantStatus int
	}{
		{
			name:       "missing header",
			authz:      "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			authz:      "Basic Zm9vOmJhcg==",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authz:      "Bearer garbage",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token without admin role",
			authz:      "Bearer " + signToken(t, testSecret, "user-2", []string{"viewer"}, time.Now().Add(time.Hour)),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "valid admin token",
			authz:      "Bearer " + signToken(t, testSecret, "admin-1", []string{"viewer", "admin"}, time.Now().Add(time.Hour)),
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/incidents", nil)
			if tt.authz != "" {
				req.Header.Set("Authorization", tt.authz)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	assert.Equal(t, "admin-1", gotUserID)
	assert.Equal(t, []string{"viewer", "admin"}, gotRoles)
}
