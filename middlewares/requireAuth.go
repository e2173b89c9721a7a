package middlewares

import (
	"context"

	"github.com/Kariqs/bookstore-api/apperrors"
	"github.com/Kariqs/bookstore-api/services"
	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Identity, error)
}

func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := BearerToken(ctx)
		if token == "" {
			abortWithError(ctx, apperrors.Auth("Missing Authorization Header"))
			return
		}

		identity, err := auth.Authenticate(ctx.Request.Context(), token)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		ctx.Set(IdentityKey, identity)
		ctx.Next()
	}
}

// OptionalAuth sets the identity when a valid token is present and never rejects.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token := BearerToken(ctx); token != "" {
			if identity, err := auth.Authenticate(ctx.Request.Context(), token); err == nil {
				ctx.Set(IdentityKey, identity)
			}
		}
		ctx.Next()
	}
}
