package middlewares

import (
	"strings"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/Kariqs/bookstore-api/services"
	"github.com/gin-gonic/gin"
)

const (
	IdentityKey   = "identity"
	TraceIDKey    = "trace_id"
	HeaderTraceID = "X-Trace-Id"
)

// GetIdentity returns the identity set by RequireAuth or OptionalAuth.
func GetIdentity(ctx *gin.Context) (*services.Identity, bool) {
	v, ok := ctx.Get(IdentityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*services.Identity)
	return id, ok && id != nil
}

func GetTraceID(ctx *gin.Context) string {
	return ctx.GetString(TraceIDKey)
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func abortWithError(ctx *gin.Context, err error) {
	appErr := apperrors.As(err)
	ctx.AbortWithStatusJSON(appErr.Kind.Status, gin.H{"message": appErr.Message, "code": appErr.Kind.Code})
}
