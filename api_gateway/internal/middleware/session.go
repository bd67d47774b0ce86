package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"photoshare/api_gateway/internal/session"
	"photoshare/pkg/ctxkeys"
	"photoshare/pkg/logging"
	pkgmiddleware "photoshare/pkg/middleware"
)

// SessionMiddleware resolves the Authorization header to a user before any
// resolver runs. Unknown tokens and lookup failures leave the request
// anonymous; they never fail it.
func SessionMiddleware(resolver session.Resolver, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := session.TokenFromHeader(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		user, err := resolver.Resolve(ctx, token)
		if err != nil {
			pkgmiddleware.GetContextLogger(c, logger).WithError(err).Warn("Session lookup failed; continuing anonymously")
			c.Next()
			return
		}
		if user == nil {
			c.Next()
			return
		}

		ctx = context.WithValue(ctx, ctxkeys.KeyAuthToken, token)
		ctx = WithCurrentUser(ctx, user)
		c.Request = c.Request.WithContext(ctx)
		c.Set(pkgmiddleware.GinKeyGithubLogin, user.GithubLogin)
		c.Next()
	}
}
