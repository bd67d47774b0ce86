package randomuser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	gwerrors "photoshare/api_gateway/internal/errors"
)

func fakeService(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		n, err := strconv.Atoi(r.URL.Query().Get("results"))
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"results must be a number"}`))
			return
		}
		fmt.Fprint(w, `{"results":[`)
		for i := 0; i < n; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"login":{"username":"user%d","sha1":"sha%d"},"name":{"first":"First%d","last":"Last%d"},"picture":{"thumbnail":"https://img.example/%d.jpg"}}`, i, i, i, i, i)
		}
		fmt.Fprint(w, `]}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateMapsResults(t *testing.T) {
	var calls atomic.Int32
	srv := fakeService(t, &calls)
	c := NewClient(Config{URL: srv.URL + "/api/", Timeout: 2 * time.Second})

	users, err := c.Generate(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, "user0", users[0].GithubLogin)
	require.Equal(t, "First0 Last0", users[0].Name)
	require.Equal(t, "https://img.example/0.jpg", users[0].Avatar)
	require.Equal(t, "sha0", users[0].GithubToken)
	require.Equal(t, "user2", users[2].GithubLogin)
}

func TestGenerateRejectsNonPositiveCount(t *testing.T) {
	var calls atomic.Int32
	srv := fakeService(t, &calls)
	c := NewClient(Config{URL: srv.URL})

	for _, n := range []int{0, -2} {
		_, err := c.Generate(context.Background(), n)
		require.ErrorIs(t, err, gwerrors.ErrInvalidInput)
	}
	require.EqualValues(t, 0, calls.Load(), "no external call for invalid counts")
}

func TestGenerateServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Uh oh, something has gone wrong."}`))
	}))
	defer srv.Close()

	_, err := NewClient(Config{URL: srv.URL}).Generate(context.Background(), 1)
	var up *gwerrors.UpstreamError
	require.True(t, errors.As(err, &up))
	require.Equal(t, "Uh oh, something has gone wrong.", up.Message)
	require.True(t, up.Temporary)
}

func TestGenerateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	_, err := NewClient(Config{URL: srv.URL, Timeout: 50 * time.Millisecond}).Generate(context.Background(), 1)
	require.Error(t, err)
	require.Equal(t, gwerrors.CodeUpstream, gwerrors.Code(err))
}
