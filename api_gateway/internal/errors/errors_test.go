package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "unauthorized", err: Unauthorized("only an authorized user can post a photo"), want: CodeUnauthorized},
		{name: "wrapped not found", err: fmt.Errorf("resolve: %w", NotFound("missing")), want: CodeNotFound},
		{name: "invalid input", err: InvalidInput("count must be at least 1"), want: CodeBadUserInput},
		{name: "upstream", err: &UpstreamError{Service: "github", Message: "bad_verification_code"}, want: CodeUpstream},
		{name: "plain error", err: errors.New("connection reset"), want: CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Code(tc.err); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestSanitizeErrorMessage(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{name: "nil uses fallback", err: nil, fallback: "fallback", want: "fallback"},
		{name: "classified keeps message", err: NotFound(`Cannot find user with githubLogin "x"`), want: `Cannot find user with githubLogin "x"`},
		{name: "wrapped classified keeps inner message", err: fmt.Errorf("ctx: %w", Unauthorized("nope")), want: "nope"},
		{name: "upstream keeps provider message", err: &UpstreamError{Service: "github", Message: "The code passed is incorrect or expired."}, want: "The code passed is incorrect or expired."},
		{name: "upstream without message", err: &UpstreamError{Service: "randomuser", Err: errors.New("EOF")}, want: "randomuser request failed: EOF"},
		{name: "internal hidden", err: errors.New("mongo: server selection timeout"), fallback: "", want: "internal error"},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: "request timed out"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeErrorMessage(tc.err, tc.fallback); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPresentCarriesExtensions(t *testing.T) {
	err := Present(fmt.Errorf("wrap: %w", NotFound("gone")))

	var gqlErr *GraphQLError
	if !errors.As(err, &gqlErr) {
		t.Fatalf("expected *GraphQLError, got %T", err)
	}
	if gqlErr.Message != "gone" {
		t.Fatalf("expected message gone, got %q", gqlErr.Message)
	}
	if gqlErr.Extensions()["code"] != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", gqlErr.Extensions()["code"])
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("expected presented error to keep the sentinel in its chain")
	}

	if Present(nil) != nil {
		t.Fatal("expected nil to stay nil")
	}
	if again := Present(err); again != err {
		t.Fatal("expected presenting twice to be idempotent")
	}
}

func TestIsTemporaryUpstream(t *testing.T) {
	if !IsTemporaryUpstream(&UpstreamError{Temporary: true}) {
		t.Fatal("expected temporary upstream error to count")
	}
	if IsTemporaryUpstream(&UpstreamError{Message: "bad_verification_code"}) {
		t.Fatal("expected permanent upstream error not to count")
	}
	if !IsTemporaryUpstream(errors.New("dial tcp: refused")) {
		t.Fatal("expected unclassified errors to count")
	}
	if IsTemporaryUpstream(nil) {
		t.Fatal("expected nil not to count")
	}
}
