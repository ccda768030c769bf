package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"nextchapter-be/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limiterTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth())
	r.Use(RateLimit())
	r.POST("/api/payment/verify", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimit_AuthenticatedKeyedByUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := user.GenerateJWT(7701, "ada@example.com", user.RoleUser)
	require.NoError(t, err)

	r := limiterTestRouter()

	// Same user from rotating addresses shares one strict bucket, so
	// the burst runs out regardless of source IP.
	for i := 0; i < burstStrict; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/payment/verify", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		req.RemoteAddr = fmt.Sprintf("10.0.0.%d:1234", i+1)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payment/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.RemoteAddr = "10.0.0.250:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimit_AnonymousKeyedByIP(t *testing.T) {
	r := limiterTestRouter()

	// Each address gets its own bucket.
	for i := 0; i < burstStrict; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/payment/verify", nil)
		req.RemoteAddr = "203.0.113.50:1234"
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	exhausted := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payment/verify", nil)
	req.RemoteAddr = "203.0.113.50:1234"
	r.ServeHTTP(exhausted, req)
	assert.Equal(t, http.StatusTooManyRequests, exhausted.Code)

	fresh := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/payment/verify", nil)
	req.RemoteAddr = "203.0.113.51:1234"
	r.ServeHTTP(fresh, req)
	assert.Equal(t, http.StatusOK, fresh.Code)
}
