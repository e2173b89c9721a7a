package middlewares

import (
	"context"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/gin-gonic/gin"
)

type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uint) (bool, error)
}

// RequireAdmin must run after RequireAuth. The admin flag is read from the store
// on every request, never from the token.
func RequireAdmin(checker AdminChecker) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, exists := GetIdentity(ctx)
		if !exists {
			abortWithError(ctx, apperrors.Auth("User not found in context"))
			return
		}

		isAdmin, err := checker.IsAdmin(ctx.Request.Context(), identity.UserID)
		if err != nil {
			abortWithError(ctx, err)
			return
		}
		if !isAdmin {
			abortWithError(ctx, apperrors.Forbidden("Admin privileges required"))
			return
		}

		ctx.Next()
	}
}
