package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tutor_backend/internal/config"
	"tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(config.AuthConfig{JWTSecret: testSecret}), func(c *gin.Context) {
		util.Success(c, gin.H{"userId": util.GetUserFromContext(c).UserID()})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter()
	valid, err := util.GenerateJWT("user_1", testSecret, time.Hour)
	require.NoError(t, err)
	forged, err := util.GenerateJWT("user_1", "wrong", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
		header string
		want   int
	}{
		{"missing token", "/me", "", http.StatusUnauthorized},
		{"bearer token", "/me", "Bearer " + valid, http.StatusOK},
		{"query token", "/me?token=" + valid, "", http.StatusOK},
		{"bad signature", "/me", "Bearer " + forged, http.StatusUnauthorized},
		{"not bearer", "/me", "Basic " + valid, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Contains(t, w.Body.String(), "user_1")
			}
		})
	}
}

type fakeExchanger struct {
	err error
}

func (f fakeExchanger) Exchange(claims *util.Claims) (*util.StoreCredential, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &util.StoreCredential{Role: util.RoleAuthenticated, UserID: claims.UserID()}, nil
}

func (f fakeExchanger) Anonymous() *util.StoreCredential {
	return &util.StoreCredential{Role: util.RoleAnon}
}

func TestStoreCredentialMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	token, err := util.GenerateJWT("user_1", testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		ex       fakeExchanger
		wantRole string
	}{
		{"exchange succeeds", fakeExchanger{}, util.RoleAuthenticated},
		{"exchange fails", fakeExchanger{err: errors.New("auth provider down")}, util.RoleAnon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *util.StoreCredential
			r := gin.New()
			r.GET("/x", AuthMiddleware(config.AuthConfig{JWTSecret: testSecret}), StoreCredentialMiddleware(tt.ex), func(c *gin.Context) {
				got = util.StoreCredentialFromContext(c.Request.Context())
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusNoContent, w.Code)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantRole, got.Role)
		})
	}
}
