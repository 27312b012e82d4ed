package assist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/labforge/pkg/cache"
	lferrors "github.com/matzehuels/labforge/pkg/errors"
	"github.com/matzehuels/labforge/pkg/topology"
)

func chatServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func reply(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":` + quote(text) + `}}]}`))
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newClient(t *testing.T, endpoint string, c cache.Cache) *ChatClient {
	t.Helper()
	client, err := NewChatClient(ChatConfig{
		Endpoint: endpoint,
		Model:    "test-model",
		APIKey:   "secret",
		Attempts: 3,
		Backoff:  time.Millisecond,
		Cache:    c,
		CacheTTL: time.Hour,
	})
	require.NoError(t, err)
	return client
}

func TestChatClientSummarize(t *testing.T) {
	var got chatRequest
	srv, _ := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		reply(w, "  1. Add a NAS.\n")
	})

	snap := topology.DefaultSeed()
	text, err := newClient(t, srv.URL+"/v1/chat/completions", nil).Summarize(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, "1. Add a NAS.", text)

	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, Prompt(snap), got.Messages[0].Content)
}

func TestChatClientCachesResponses(t *testing.T) {
	srv, calls := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, "cached text")
	})
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	client := newClient(t, srv.URL, fc)
	for range 3 {
		text, err := client.Summarize(context.Background(), topology.DefaultSeed())
		require.NoError(t, err)
		assert.Equal(t, "cached text", text)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestChatClientRetriesServerErrors(t *testing.T) {
	var calls *atomic.Int32
	srv, calls := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Load() < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		reply(w, "third time")
	})

	text, err := newClient(t, srv.URL, nil).Summarize(context.Background(), topology.DefaultSeed())
	require.NoError(t, err)
	assert.Equal(t, "third time", text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestChatClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler func(w http.ResponseWriter, r *http.Request)
		code    lferrors.Code
		calls   int32
	}{
		{
			name:    "ClientError",
			handler: func(w http.ResponseWriter, r *http.Request) { http.Error(w, "bad model", http.StatusBadRequest) },
			code:    lferrors.ErrCodeUnavailable,
			calls:   1,
		},
		{
			name:    "ServerErrorExhausted",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) },
			code:    lferrors.ErrCodeUnavailable,
			calls:   3,
		},
		{
			name:    "RateLimited",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) },
			code:    lferrors.ErrCodeRateLimited,
			calls:   3,
		},
		{
			name:    "NoChoices",
			handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"choices":[]}`)) },
			code:    lferrors.ErrCodeUnavailable,
			calls:   1,
		},
		{
			name:    "Garbage",
			handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`<html>`)) },
			code:    lferrors.ErrCodeUnavailable,
			calls:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := chatServer(t, tt.handler)
			_, err := newClient(t, srv.URL, nil).Summarize(context.Background(), topology.DefaultSeed())
			require.Error(t, err)
			assert.Equal(t, tt.code, lferrors.GetCode(err), "err: %v", err)
			assert.Equal(t, tt.calls, calls.Load())
		})
	}
}

func TestChatClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	_, err := newClient(t, endpoint, nil).Summarize(context.Background(), topology.DefaultSeed())
	require.Error(t, err)
	assert.Equal(t, lferrors.ErrCodeNetwork, lferrors.GetCode(err))
}

func TestNewChatClientRejectsEndpoint(t *testing.T) {
	for _, endpoint := range []string{"", "ftp://example.com", "not a url"} {
		_, err := NewChatClient(ChatConfig{Endpoint: endpoint})
		assert.Error(t, err, "endpoint %q", endpoint)
	}
}

func TestPrompt(t *testing.T) {
	assert.Equal(t, `{"nodes":5,"links":4}`, Summary(topology.DefaultSeed()))
	assert.Equal(t,
		`You are an infrastructure assistant. Analyze: {"nodes":0,"links":0}. Give 3 concise recommendations.`,
		Prompt(topology.Snapshot{}))
}
