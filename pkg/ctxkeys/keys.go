// Package ctxkeys defines typed context keys shared by the HTTP middleware and
// the GraphQL resolvers.
package ctxkeys

import "context"

// Key is a typed context key to prevent collisions.
type Key string

// Session keys
const (
	KeyCurrentUser Key = "current_user"
	KeyAuthToken   Key = "auth_token"
)

// Request keys
const (
	KeyRequestID     Key = "request_id"
	KeyLoaders       Key = "loaders"
	KeyOperationName Key = "operation_name"
)

// GetAuthToken extracts the raw session token from context.
func GetAuthToken(ctx context.Context) string {
	if v, ok := ctx.Value(KeyAuthToken).(string); ok {
		return v
	}
	return ""
}

// GetRequestID extracts request_id from context.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(KeyRequestID).(string); ok {
		return v
	}
	return ""
}

// GetOperationName extracts the GraphQL operation name from context.
func GetOperationName(ctx context.Context) string {
	if v, ok := ctx.Value(KeyOperationName).(string); ok {
		return v
	}
	return ""
}
