package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pestpro/pestpro-api/pkg/logger"
	"github.com/pestpro/pestpro-api/pkg/metrics"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// loggedQueryParams are the only query parameters copied into error logs.
// Address lookups carry customer locations (q, lat, lng) and are never logged.
var loggedQueryParams = map[string]bool{
	"form": true,
}

// ObservabilityMiddleware records request metrics and writes one log line per request
func ObservabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		metrics.ActiveRequests.WithLabelValues(method).Inc()
		defer metrics.ActiveRequests.WithLabelValues(method).Dec()

		c.Next()

		duration := metrics.MeasureDuration(start)
		status := c.Writer.Status()
		route := routeLabel(c)

		metrics.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration)
		metrics.HTTPRequestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()

		fields := []zap.Field{
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("response_size", c.Writer.Size()),
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
		}
		if status >= 400 {
			fields = append(fields, failureFields(c)...)
		}

		logger.LogHTTPRequest(method, c.Request.URL.Path, status, duration, fields...)
	}
}

// routeLabel is the matched route template, so metrics stay low-cardinality
func routeLabel(c *gin.Context) string {
	if path := c.FullPath(); path != "" {
		return path
	}
	return "unmatched"
}

func failureFields(c *gin.Context) []zap.Field {
	var fields []zap.Field

	kept := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		if loggedQueryParams[strings.ToLower(k)] && len(v) > 0 {
			kept[k] = v[0]
		}
	}
	if len(kept) > 0 {
		fields = append(fields, zap.Any("query_params", kept))
	}

	if c.Request.ContentLength > 0 {
		fields = append(fields, zap.Int64("request_size", c.Request.ContentLength))
	}
	if len(c.Errors) > 0 {
		fields = append(fields, zap.String("error", c.Errors.String()))
	}
	return fields
}
