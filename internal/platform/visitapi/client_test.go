package visitapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitly/visitly/internal/platform/visitapi"
)

func TestClientSuccessfulVisits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns the counter value", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "abc", r.URL.Query().Get("uid"))
			assert.Equal(t, "IND", r.URL.Query().Get("region"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"SuccessfulVisits": 1500}`))
		}))
		defer srv.Close()

		client := visitapi.NewClient(srv.URL+"/visit?uid={uid}&region=IND", 5*time.Second)
		visits, err := client.SuccessfulVisits(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, 1500, visits)
	})

	t.Run("escapes the uid placeholder", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "a b&c", r.URL.Query().Get("uid"))
			_, _ = w.Write([]byte(`{"SuccessfulVisits": 0}`))
		}))
		defer srv.Close()

		client := visitapi.NewClient(srv.URL+"/visit?uid={uid}", 5*time.Second)
		_, err := client.SuccessfulVisits(ctx, "a b&c")
		require.NoError(t, err)
	})

	t.Run("non-success status surfaces as StatusError", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := visitapi.NewClient(srv.URL+"/visit?uid={uid}", 5*time.Second)
		_, err := client.SuccessfulVisits(ctx, "abc")

		var statusErr *visitapi.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	})

	t.Run("payload without the counter field", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"region": "IND"}`))
		}))
		defer srv.Close()

		client := visitapi.NewClient(srv.URL+"/visit?uid={uid}", 5*time.Second)
		_, err := client.SuccessfulVisits(ctx, "abc")
		assert.ErrorIs(t, err, visitapi.ErrMissingField)
	})

	t.Run("malformed payload is a plain error", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		client := visitapi.NewClient(srv.URL+"/visit?uid={uid}", 5*time.Second)
		_, err := client.SuccessfulVisits(ctx, "abc")
		require.Error(t, err)
		assert.NotErrorIs(t, err, visitapi.ErrMissingField)
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()
		failing := doerFunc(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})
		client := visitapi.NewClientWithDoer("http://example.invalid/visit?uid={uid}", failing)
		_, err := client.SuccessfulVisits(ctx, "abc")
		require.Error(t, err)
	})

	t.Run("request honors context cancellation", func(t *testing.T) {
		t.Parallel()
		blocked := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-blocked
		}))
		defer srv.Close()
		defer close(blocked)

		client := visitapi.NewClient(srv.URL+"/visit?uid={uid}", time.Minute)
		cancelCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		_, err := client.SuccessfulVisits(cancelCtx, "abc")
		require.Error(t, err)
	})
}

type doerFunc func(req *http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }
