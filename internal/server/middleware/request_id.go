package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is read from the request when present and always echoed on the response.
const RequestIDHeader = "X-Request-ID"

// RequestContext assigns a request id and stores it with the client IP on the request context.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.New().String()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(WithRequest(c.Request.Context(), id, c.ClientIP()))
		c.Next()
	}
}
