package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Healthcheck(t *testing.T) {
	tests := []struct {
		name    string
		journal Pinger
		want    string
	}{
		{"no journal", nil, `{"status":"ok","journal":"disabled"}`},
		{"journal ok", pingerFunc(func(context.Context) error { return nil }), `{"status":"ok","journal":"ok"}`},
		{"journal down", pingerFunc(func(context.Context) error { return errors.New("refused") }), `{"status":"ok","journal":"unreachable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			handler := NewHealthHandler(tt.journal)
			router := gin.New()
			router.GET("/healthcheck", handler.Healthcheck)

			// Create request
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/healthcheck", http.NoBody)

			// Execute
			router.ServeHTTP(w, req)

			// Assert
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}
