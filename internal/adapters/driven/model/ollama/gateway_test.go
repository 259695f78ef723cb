package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
)

func newTestGateway(baseURL string) *Gateway {
	return New(Config{
		BaseURL:         baseURL,
		Model:           "test-model",
		RequestTimeout:  5 * time.Second,
		MaxRetries:      1,
		StartupAttempts: 1,
		StartupInterval: 10 * time.Millisecond,
		AutoStart:       false,
	})
}

func TestEnsureAvailable(t *testing.T) {
	t.Run("healthy service with model present", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/tags", r.URL.Path)
			json.NewEncoder(w).Encode(tagsResponse{
				Models: []struct {
					Name string `json:"name"`
				}{{Name: "test-model"}},
			})
		}))
		defer server.Close()

		g := newTestGateway(server.URL)
		err := g.EnsureAvailable(context.Background())
		assert.NoError(t, err)
	})

	t.Run("missing model triggers pull", func(t *testing.T) {
		pulled := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/tags":
				json.NewEncoder(w).Encode(tagsResponse{})
			case "/api/pull":
				pulled = true
				w.WriteHeader(http.StatusOK)
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))
		defer server.Close()

		g := newTestGateway(server.URL)
		err := g.EnsureAvailable(context.Background())
		require.NoError(t, err)
		assert.True(t, pulled)
	})

	t.Run("unreachable service without auto-start", func(t *testing.T) {
		g := newTestGateway("http://127.0.0.1:1")
		err := g.EnsureAvailable(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrModelUnavailable))
	})
}

func TestGenerate(t *testing.T) {
	t.Run("successful generation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/generate", r.URL.Path)

			var req generateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "test-model", req.Model)
			assert.False(t, req.Stream)
			require.NotNil(t, req.Options)
			assert.Equal(t, 0.1, req.Options.Temperature)
			assert.Equal(t, 500, req.Options.NumPredict)

			json.NewEncoder(w).Encode(generateResponse{
				Response: `  {"title": "Test"}  `,
				Done:     true,
			})
		}))
		defer server.Close()

		g := newTestGateway(server.URL)
		text, err := g.Generate(context.Background(), "extract fields")
		require.NoError(t, err)
		assert.Equal(t, `{"title": "Test"}`, text)
	})

	t.Run("retries transient server errors", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(generateResponse{Response: "ok", Done: true})
		}))
		defer server.Close()

		g := newTestGateway(server.URL)
		g.cfg.MaxRetries = 2

		text, err := g.Generate(context.Background(), "prompt")
		require.NoError(t, err)
		assert.Equal(t, "ok", text)
		assert.Equal(t, 2, calls)
	})

	t.Run("exhausted retries classify as unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		g := newTestGateway(server.URL)
		_, err := g.Generate(context.Background(), "prompt")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrModelUnavailable))
	})
}

func TestModelName(t *testing.T) {
	g := newTestGateway("http://127.0.0.1:1")
	assert.Equal(t, "test-model", g.ModelName())
}

func TestShutdownWithoutProcess(t *testing.T) {
	g := newTestGateway("http://127.0.0.1:1")
	assert.NoError(t, g.Shutdown())
}

func TestBackoffDelay(t *testing.T) {
	for attempt := 1; attempt <= 6; attempt++ {
		delay := backoffDelay(attempt)
		assert.GreaterOrEqual(t, delay, backoffBase, "attempt %d", attempt)
		assert.LessOrEqual(t, delay, backoffCap+backoffCap/2, "attempt %d", attempt)
	}
}
