package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pestpro/pestpro-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
	_ = logger.Initialize(logger.Config{Level: "error", Environment: "development"})
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 0.001, 2).WithMessage("Too many submissions")
	router := gin.New()
	router.POST("/api/contact", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/contact", http.NoBody)
		req.RemoteAddr = "203.0.113.7:5555"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.JSONEq(t, `{"error":"Too many submissions"}`, w.Body.String())
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// A different visitor has its own bucket
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", http.NoBody)
	req.RemoteAddr = "198.51.100.9:5555"
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_SweepDropsIdleVisitors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 1000, 1)
	rl.getVisitor("203.0.113.7").Allow()
	require.Equal(t, 1, rl.visitorCount())

	// At 1000/s the single token is back well within this wait
	time.Sleep(20 * time.Millisecond)
	rl.sweep()
	assert.Equal(t, 0, rl.visitorCount())
}

func TestBodySizeLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.POST("/api/send-quote", BodySizeLimitMiddleware(8), func(c *gin.Context) {
		if _, err := c.GetRawData(); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/send-quote", strings.NewReader(`{"a":1}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/send-quote", strings.NewReader(`{"name":"Asha Rao"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	for _, hsts := range []bool{false, true} {
		router := gin.New()
		router.Use(SecurityHeadersMiddleware(hsts))
		router.GET("/api/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/healthcheck", http.NoBody))

		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
		assert.Equal(t, hsts, w.Header().Get("Strict-Transport-Security") != "")
	}
}

func TestObservabilityMiddleware_PassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(ObservabilityMiddleware())
	router.GET("/api/address/suggest", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"suggestions": []string{}})
	})

	for _, target := range []string{"/api/address/suggest?q=bandra", "/nope"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, http.NoBody))
		if target == "/nope" {
			assert.Equal(t, http.StatusNotFound, w.Code)
		} else {
			assert.Equal(t, http.StatusOK, w.Code)
		}
	}
}

func TestObservabilityMiddleware_DoesNotLogLocations(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	previous := logger.Log
	logger.Log = zap.New(core)
	defer func() { logger.Log = previous }()

	router := gin.New()
	router.Use(ObservabilityMiddleware())
	router.GET("/api/address/reverse", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/address/reverse?lat=19.07&lng=72.88&form=quote", http.NoBody))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "/api/address/reverse", fields["path"])
	assert.Equal(t, map[string]string{"form": "quote"}, fields["query_params"])
}
