package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultLeadBodyLimit caps lead form bodies, which are a handful of short fields.
const DefaultLeadBodyLimit int64 = 16 * 1024

// BodySizeLimitMiddleware limits the size of request bodies
// SECURITY: Rejects oversized form posts before they are decoded
func BodySizeLimitMiddleware(maxBodySize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip for GET, HEAD, OPTIONS requests (no body)
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		// Limit the request body size
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)

		c.Next()
	}
}
