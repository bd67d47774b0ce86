// Package errors holds the gateway's error taxonomy and the presenter that
// turns resolver errors into GraphQL error entries carrying extensions.code.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

const (
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeNotFound      = "NOT_FOUND"
	CodeUpstream      = "UPSTREAM_ERROR"
	CodeBadUserInput  = "BAD_USER_INPUT"
	CodeInternal      = "INTERNAL"
	defaultPublicText = "internal error"
)

var (
	ErrUnauthorized = stderrors.New("unauthorized")
	ErrNotFound     = stderrors.New("not found")
	ErrInvalidInput = stderrors.New("invalid input")
)

// Error is a classified error whose Message is safe to show clients.
type Error struct {
	Message string
	Kind    error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func Unauthorized(message string) error {
	return &Error{Message: message, Kind: ErrUnauthorized}
}

func NotFound(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...), Kind: ErrNotFound}
}

func InvalidInput(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...), Kind: ErrInvalidInput}
}

// UpstreamError reports a failed call to an external collaborator. Message is
// the collaborator's own description when it supplied one.
type UpstreamError struct {
	Service string
	Message string
	// Temporary marks transport failures and 5xx/429 responses; only these
	// count against the circuit breaker.
	Temporary bool
	Err       error
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
	}
	return e.Service + " request failed"
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsTemporaryUpstream reports whether err should trip a circuit breaker.
func IsTemporaryUpstream(err error) bool {
	var up *UpstreamError
	if stderrors.As(err, &up) {
		return up.Temporary
	}
	return err != nil
}

// Code classifies err into an extensions.code value.
func Code(err error) string {
	var up *UpstreamError
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case stderrors.Is(err, ErrNotFound):
		return CodeNotFound
	case stderrors.Is(err, ErrInvalidInput):
		return CodeBadUserInput
	case stderrors.As(err, &up):
		return CodeUpstream
	default:
		return CodeInternal
	}
}

// GraphQLError is the value handed to the execution engine. The engine reads
// Extensions through a direct type assertion, so resolvers must return it
// unwrapped.
type GraphQLError struct {
	Message string
	Code    string
	Err     error
}

func (e *GraphQLError) Error() string { return e.Message }
func (e *GraphQLError) Unwrap() error { return e.Err }

func (e *GraphQLError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

// Present classifies err and sanitizes its message. nil stays nil.
func Present(err error) error {
	if err == nil {
		return nil
	}
	var presented *GraphQLError
	if stderrors.As(err, &presented) {
		return presented
	}
	return &GraphQLError{
		Message: SanitizeErrorMessage(err, defaultPublicText),
		Code:    Code(err),
		Err:     err,
	}
}

// SanitizeErrorMessage keeps messages of classified errors and hides
// everything else (driver errors, panics) behind fallback.
func SanitizeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallbackMessage(fallback)
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	if Code(err) == CodeInternal {
		return fallbackMessage(fallback)
	}
	var classified *Error
	if stderrors.As(err, &classified) {
		return classified.Message
	}
	var up *UpstreamError
	if stderrors.As(err, &up) {
		return up.Error()
	}
	return fallbackMessage(fallback)
}

func fallbackMessage(fallback string) string {
	if fallback == "" {
		return defaultPublicText
	}
	return fallback
}
