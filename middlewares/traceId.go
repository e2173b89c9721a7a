package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceID propagates the caller's trace id or mints one.
func TraceID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		traceID := ctx.GetHeader(HeaderTraceID)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		ctx.Set(TraceIDKey, traceID)
		ctx.Writer.Header().Set(HeaderTraceID, traceID)
		ctx.Next()
	}
}
