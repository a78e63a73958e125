package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "b8a3c2267dc85f855dea9b46b452bf20"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func instructorToken(t *testing.T) string {
	return signToken(t, testSecret, jwt.MapClaims{
		"user_id":       float64(7),
		"is_instructor": true,
		"exp":           time.Now().Add(time.Hour).Unix(),
	})
}

func TestInstructorAuth(t *testing.T) {
	var gotUserID int
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, gotOK = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := InstructorAuth(testSecret)(next)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{
			name:           "valid instructor token",
			authHeader:     "Bearer " + instructorToken(t),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed header",
			authHeader:     "Token abc",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong secret",
			authHeader: "Bearer " + signToken(t, "other-secret", jwt.MapClaims{
				"user_id":       float64(7),
				"is_instructor": true,
				"exp":           time.Now().Add(time.Hour).Unix(),
			}),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			authHeader: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"user_id":       float64(7),
				"is_instructor": true,
				"exp":           time.Now().Add(-time.Hour).Unix(),
			}),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "non-instructor token",
			authHeader: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"user_id":       float64(9),
				"is_instructor": false,
				"exp":           time.Now().Add(time.Hour).Unix(),
			}),
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "missing user_id claim",
			authHeader: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"is_instructor": true,
				"exp":           time.Now().Add(time.Hour).Unix(),
			}),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID, gotOK = 0, false

			req := httptest.NewRequest(http.MethodGet, "/sessions/x/tree", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.True(t, gotOK)
				assert.Equal(t, 7, gotUserID)
			} else {
				assert.False(t, gotOK)
			}
		})
	}
}

func TestGetToken(t *testing.T) {
	token := instructorToken(t)

	var gotToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = GetToken(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	InstructorAuth(testSecret)(next).ServeHTTP(rec, req)

	assert.Equal(t, token, gotToken)
}
