package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/vektah/gqlparser/v2/ast"

	gwerrors "photoshare/api_gateway/internal/errors"
	"photoshare/api_gateway/internal/middleware"
	"photoshare/pkg/ctxkeys"
	"photoshare/pkg/logging"
	pkgmiddleware "photoshare/pkg/middleware"
)

// Executor runs a GraphQL document. *graphql.Schema satisfies it.
type Executor interface {
	Exec(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) *graphql.Response
}

type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQLHandler serves POST and GET /graphql.
type GraphQLHandler struct {
	schema   Executor
	logger   logging.Logger
	maxDepth int
}

// NewGraphQLHandler creates the endpoint. maxDepth <= 0 disables the depth limit.
func NewGraphQLHandler(schema Executor, logger logging.Logger, maxDepth int) *GraphQLHandler {
	return &GraphQLHandler{schema: schema, logger: logger, maxDepth: maxDepth}
}

// Handle decodes the request, applies query limits and executes it.
func (h *GraphQLHandler) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := decodeRequest(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse(err.Error(), gwerrors.CodeBadUserInput))
			return
		}
		if req.Query == "" {
			c.JSON(http.StatusBadRequest, errorResponse("missing query", gwerrors.CodeBadUserInput))
			return
		}

		ctx := c.Request.Context()
		log := pkgmiddleware.GetContextLogger(c, h.logger)

		// Parse failures fall through so the engine reports them in its own format.
		if info, inspectErr := middleware.InspectOperation(req.Query, req.OperationName); inspectErr == nil {
			if c.Request.Method == http.MethodGet && info.Type != ast.Query {
				c.Header("Allow", http.MethodPost)
				c.JSON(http.StatusMethodNotAllowed, errorResponse("only queries may be sent with GET", gwerrors.CodeBadUserInput))
				return
			}
			if h.maxDepth > 0 && info.Depth > h.maxDepth {
				log.WithFields(logging.Fields{
					"operation": info.Name,
					"depth":     info.Depth,
					"max_depth": h.maxDepth,
				}).Warn("GraphQL query rejected by depth limit")
				msg := fmt.Sprintf("query exceeds maximum depth of %d (got %d)", h.maxDepth, info.Depth)
				c.JSON(http.StatusUnprocessableEntity, errorResponse(msg, gwerrors.CodeBadUserInput))
				return
			}
			if info.Name != "" {
				ctx = context.WithValue(ctx, ctxkeys.KeyOperationName, info.Name)
				log = log.WithField("operation", info.Name)
			}
		}

		resp := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
		for _, qe := range resp.Errors {
			entry := log.WithField("message", qe.Message)
			if len(qe.Path) > 0 {
				entry = entry.WithField("path", qe.Path)
			}
			if qe.ResolverError != nil {
				entry = entry.WithError(qe.ResolverError)
			}
			entry.Info("GraphQL error returned")
		}

		c.JSON(http.StatusOK, resp)
	}
}

func decodeRequest(c *gin.Context) (graphQLRequest, error) {
	var req graphQLRequest
	if c.Request.Method == http.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if raw := c.Query("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				return req, fmt.Errorf("invalid variables: %v", err)
			}
		}
		return req, nil
	}
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("invalid request body: %v", err)
	}
	return req, nil
}

func errorResponse(message, code string) *graphql.Response {
	return &graphql.Response{Errors: []*gqlerrors.QueryError{{
		Message:    message,
		Extensions: map[string]interface{}{"code": code},
	}}}
}
