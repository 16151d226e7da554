package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/hospicare/appointment-system/config"
	"github.com/stretchr/testify/assert"
)

func runRateLimitedRequest(cfg RateLimitConfig) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.POST("/login", RateLimiter(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.ServeHTTP(w, httptest.NewRequest("POST", "/login", nil))
	return w
}

func TestRateLimiter_NoRedisAllowsRequest(t *testing.T) {
	config.SetRedisClientForTesting(nil)
	w := runRateLimitedRequest(RateLimitConfig{Limit: 1, Window: time.Minute})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_UnderLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	config.SetRedisClientForTesting(client)
	defer config.SetRedisClientForTesting(nil)

	key := "ratelimit:/login:192.0.2.1"
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetVal(true)

	w := runRateLimitedRequest(RateLimitConfig{Limit: 3, Window: time.Minute})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_OverLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	config.SetRedisClientForTesting(client)
	defer config.SetRedisClientForTesting(nil)

	key := "ratelimit:/login:192.0.2.1"
	mock.ExpectIncr(key).SetVal(4)
	mock.ExpectExpire(key, time.Minute).SetVal(true)

	w := runRateLimitedRequest(RateLimitConfig{Limit: 3, Window: time.Minute})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetRateLimit_NoRedis(t *testing.T) {
	config.SetRedisClientForTesting(nil)
	assert.Error(t, ResetRateLimit("127.0.0.1", "/login"))
}
