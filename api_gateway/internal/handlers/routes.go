package handlers

import (
	"net/http"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const welcomeText = "Welcome to the PhotoShare API"

// Routes describes everything mounted on the public router.
type Routes struct {
	GraphQL *GraphQLHandler
	// AuthCodeURL builds the provider sign-in page for a state value. Nil
	// disables /auth/github.
	AuthCodeURL       func(state string) string
	PlaygroundEnabled bool
	// Middleware runs in front of /graphql only.
	Middleware []gin.HandlerFunc
}

// Register mounts the API routes on r.
func Register(r gin.IRouter, routes Routes) {
	r.GET("/", Welcome())

	gql := r.Group("/graphql", routes.Middleware...)
	gql.POST("", routes.GraphQL.Handle())
	gql.GET("", routes.GraphQL.Handle())

	if routes.PlaygroundEnabled {
		r.GET("/playground", gin.WrapH(playground.Handler("PhotoShare", "/graphql")))
	}
	if routes.AuthCodeURL != nil {
		r.GET("/auth/github", GitHubSignIn(routes.AuthCodeURL))
	}
}

// Welcome answers GET / with a plain greeting.
func Welcome() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, welcomeText)
	}
}

// GitHubSignIn redirects to the provider's authorization page. The provider
// sends the browser back to the configured redirect URI with a code that the
// client passes to githubAuth.
func GitHubSignIn(authCodeURL func(state string) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, authCodeURL(uuid.NewString()))
	}
}
