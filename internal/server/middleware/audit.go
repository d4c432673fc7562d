package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// AffectedRowsKey is the gin context key a handler sets (int64) so Audit can record the row count.
const AffectedRowsKey = "audit.affected_rows"

// AuditRecorder persists one audit event. Implementations are best-effort.
type AuditRecorder interface {
	LogEvent(ctx context.Context, action, resource string, affected int64, metadata string)
}

// Audit records an audit entry after the handler completes with a 2xx status.
// Failed requests are not audited because nothing was changed.
func Audit(rec AuditRecorder, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if rec == nil {
			return
		}
		if s := c.Writer.Status(); s < 200 || s >= 300 {
			return
		}
		var affected int64
		if v, ok := c.Get(AffectedRowsKey); ok {
			affected, _ = v.(int64)
		}
		ctx := c.Request.Context()
		meta := ""
		if id, ok := GetRequestID(ctx); ok {
			meta = "request_id=" + id
		}
		rec.LogEvent(ctx, action, resource, affected, meta)
	}
}
