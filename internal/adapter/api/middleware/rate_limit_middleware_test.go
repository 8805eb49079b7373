package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPRateLimiterBlocksAfterBudget(t *testing.T) {
	rl := NewIPRateLimiter(3, time.Minute)

	e := echo.New()
	h := rl.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		require.NoError(t, h(c))
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do())
	}
	assert.Equal(t, http.StatusTooManyRequests, do())
}

func TestIPRateLimiterIsolatesClients(t *testing.T) {
	rl := NewIPRateLimiter(1, time.Minute)

	e := echo.New()
	h := rl.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		require.NoError(t, h(c))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("203.0.113.7:4000"))
	assert.Equal(t, http.StatusTooManyRequests, do("203.0.113.7:4000"))
	assert.Equal(t, http.StatusOK, do("203.0.113.8:4000"))
}

func TestIPRateLimiterResetsAfterWindow(t *testing.T) {
	rl := NewIPRateLimiter(1, 10*time.Millisecond)

	allowed, _ := rl.take("203.0.113.9")
	assert.True(t, allowed)

	allowed, resetAt := rl.take("203.0.113.9")
	assert.False(t, allowed)
	assert.False(t, resetAt.IsZero())

	time.Sleep(15 * time.Millisecond)

	allowed, _ = rl.take("203.0.113.9")
	assert.True(t, allowed)
}
