package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	gwerrors "photoshare/api_gateway/internal/errors"
	"photoshare/api_gateway/internal/loaders"
	"photoshare/api_gateway/internal/store"
	"photoshare/pkg/ctxkeys"
	"photoshare/pkg/models"
)

// WithCurrentUser stores the session user in ctx.
func WithCurrentUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxkeys.KeyCurrentUser, u)
}

// CurrentUser returns the session user or nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	if u, ok := ctx.Value(ctxkeys.KeyCurrentUser).(*models.User); ok {
		return u
	}
	return nil
}

// RequireUser returns the session user or an authorization error.
func RequireUser(ctx context.Context, message string) (*models.User, error) {
	if u := CurrentUser(ctx); u != nil {
		return u, nil
	}
	return nil, gwerrors.Unauthorized(message)
}

// LoadersMiddleware attaches fresh request-scoped loaders.
func LoadersMiddleware(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(loaders.WithLoaders(c.Request.Context(), s))
		c.Next()
	}
}
