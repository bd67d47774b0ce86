package middleware

import (
	"github.com/gin-gonic/gin"

	"photoshare/pkg/ctxkeys"
	"photoshare/pkg/logging"
)

// SetupCommonMiddleware adds all common middleware to a router
func SetupCommonMiddleware(r *gin.Engine, logger logging.Logger) {
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(logger))
	r.Use(RecoveryMiddleware(logger))
	r.Use(CORSMiddleware())
}

// GetRequestID gets the request ID from the context
func GetRequestID(c *gin.Context) string {
	return c.GetString(string(ctxkeys.KeyRequestID))
}

// GetContextLogger gets a logger with request context
func GetContextLogger(c *gin.Context, logger logging.Logger) logging.Entry {
	fields := logging.Fields{
		"request_id": GetRequestID(c),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"client_ip":  c.ClientIP(),
	}
	if login := c.GetString(GinKeyGithubLogin); login != "" {
		fields["github_login"] = login
	}
	return logger.WithFields(fields)
}
