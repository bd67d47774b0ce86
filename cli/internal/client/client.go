// Package client sends the embedded PhotoShare operations to a GraphQL
// endpoint.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	pkggraphql "photoshare/pkg/graphql"
)

type Config struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

type Client struct {
	http     *resty.Client
	endpoint string
}

func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	h := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if cfg.Token != "" {
		h.SetAuthToken(cfg.Token)
	}
	return &Client{http: h, endpoint: cfg.Endpoint}
}

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors Errors          `json:"errors"`
}

// Error is one entry of a GraphQL errors list.
type Error struct {
	Message    string                 `json:"message"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// Code returns extensions.code, or "".
func (e Error) Code() string {
	code, _ := e.Extensions["code"].(string)
	return code
}

// Errors is returned when the response carries a non-empty errors list. Any
// data that did resolve is still decoded.
type Errors []Error

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Message
	}
	return strings.Join(msgs, "; ")
}

// HasCode reports whether any entry carries code.
func (e Errors) HasCode(code string) bool {
	for _, err := range e {
		if err.Code() == code {
			return true
		}
	}
	return false
}

// Do runs the named embedded operation and decodes data into out.
func (c *Client) Do(ctx context.Context, operation string, vars map[string]interface{}, out interface{}) error {
	doc, err := pkggraphql.Operation(operation)
	if err != nil {
		return err
	}

	var env envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(request{Query: doc, OperationName: operation, Variables: vars}).
		SetResult(&env).
		SetError(&env).
		Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}

	if len(env.Data) > 0 && string(env.Data) != "null" && out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s: decode data: %w", operation, err)
		}
	}
	if len(env.Errors) > 0 {
		return env.Errors
	}
	if resp.IsError() {
		return fmt.Errorf("%s: endpoint returned %s", operation, resp.Status())
	}
	return nil
}
