package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnpath_backend/internal/config"
	"learnpath_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(cfg *config.Config, mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", mw, func(c *gin.Context) {
		c.String(http.StatusOK, util.CurrentLearner(c))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "secret"}}
	token, err := util.GenerateJWT("learner-1", "student", "", "secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		mw         gin.HandlerFunc
		header     string
		wantStatus int
		wantBody   string
	}{
		{"required with token", AuthMiddleware(cfg), "Bearer " + token, http.StatusOK, "learner-1"},
		{"required without token", AuthMiddleware(cfg), "", http.StatusUnauthorized, ""},
		{"required with bad token", AuthMiddleware(cfg), "Bearer nope", http.StatusUnauthorized, ""},
		{"optional with token", TryAuthMiddleware(cfg), "Bearer " + token, http.StatusOK, "learner-1"},
		{"optional anonymous", TryAuthMiddleware(cfg), "", http.StatusOK, ""},
		{"optional with bad token", TryAuthMiddleware(cfg), "Bearer nope", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			newRouter(cfg, tt.mw).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
