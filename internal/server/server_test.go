package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/labforge/pkg/advisor"
	"github.com/matzehuels/labforge/pkg/assist"
	"github.com/matzehuels/labforge/pkg/observability"
	"github.com/matzehuels/labforge/pkg/session"
	"github.com/matzehuels/labforge/pkg/topology"
)

func quiet() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newServer(t *testing.T, store *topology.Store) (*Server, *session.Session) {
	t.Helper()
	sess := session.New(session.Options{Logger: quiet(), Store: store})
	t.Cleanup(sess.Close)
	return New(Options{Session: sess, Logger: quiet()}), sess
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	srv, sess := newServer(t, nil)
	rec := do(t, srv, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[healthResponse](t, rec)
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, sess.ID(), got.Session)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv, _ := newServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123<script>")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123script", rec.Header().Get(RequestIDHeader))
}

func TestTopology(t *testing.T) {
	srv, _ := newServer(t, nil)
	rec := do(t, srv, http.MethodGet, "/api/v1/topology", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[topologyResponse](t, rec)
	assert.Len(t, got.Nodes, 5)
	assert.Len(t, got.Links, 4)
	assert.Equal(t, session.Stats{Nodes: 5, Links: 4}, got.Stats)
}

func TestAddNodeAndLink(t *testing.T) {
	srv, _ := newServer(t, topology.New())

	rec := do(t, srv, http.MethodPost, "/api/v1/nodes", `{"name":"head-01","type":"Head-Server","ram":64}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, srv, http.MethodPost, "/api/v1/nodes", `{"name":"nas-01","type":"NAS/Storage"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/v1/links", `{"source":"head-01","target":"nas-01","bw":1,"media":"Ethernet"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	v := decodeBody[session.View](t, rec)
	assert.Equal(t, session.Stats{Nodes: 2, Links: 1}, v.Stats)
	assert.Contains(t, v.Advice, advisor.MsgAddSwitch)
	assert.Contains(t, strings.Join(v.Advice, "\n"), "at 1 Gbps")
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"Duplicate", http.MethodPost, "/api/v1/nodes", `{"name":"head-01"}`, http.StatusConflict, "DUPLICATE_NAME"},
		{"NegativeRAM", http.MethodPost, "/api/v1/nodes", `{"name":"x","ram":-4}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"BadJSON", http.MethodPost, "/api/v1/nodes", `{"name":`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"UnknownField", http.MethodPost, "/api/v1/nodes", `{"name":"x","gpu":true}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"EmptyBody", http.MethodPost, "/api/v1/nodes", ``, http.StatusBadRequest, "INVALID_INPUT"},
		{"UnknownEndpoint", http.MethodPost, "/api/v1/links", `{"source":"head-01","target":"ghost","bw":10}`, http.StatusUnprocessableEntity, "UNKNOWN_ENDPOINT"},
		{"ZeroBandwidth", http.MethodPost, "/api/v1/links", `{"source":"head-01","target":"nas-01","bw":0}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"SeedDuplicate", http.MethodPost, "/api/v1/seed", ``, http.StatusConflict, "DUPLICATE_NAME"},
		{"ReplaceEmpty", http.MethodPut, "/api/v1/topology", ``, http.StatusBadRequest, "INVALID_INPUT"},
		{"AssistantMissingField", http.MethodPut, "/api/v1/assistant", `{}`, http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, sess := newServer(t, nil)
			before := sess.View().Version

			rec := do(t, srv, tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			got := decodeBody[errorResponse](t, rec)
			assert.Equal(t, tt.code, got.Error)
			assert.NotEmpty(t, got.Message)
			assert.NotEmpty(t, got.RequestID)
			assert.Equal(t, before, sess.View().Version)
		})
	}
}

func TestSeedReplaceReset(t *testing.T) {
	srv, _ := newServer(t, topology.New())

	rec := do(t, srv, http.MethodPost, "/api/v1/seed", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, session.Stats{Nodes: 5, Links: 4}, decodeBody[session.View](t, rec).Stats)

	rec = do(t, srv, http.MethodPut, "/api/v1/topology", `{"nodes":[{"name":"a","type":"Switch"}],"links":[]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, session.Stats{Nodes: 1}, decodeBody[session.View](t, rec).Stats)

	rec = do(t, srv, http.MethodDelete, "/api/v1/topology", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.Stats{}, decodeBody[session.View](t, rec).Stats)
}

func TestSeedAppendsToLiveTopology(t *testing.T) {
	srv, _ := newServer(t, topology.NewSeeded())

	rec := do(t, srv, http.MethodPost, "/api/v1/seed",
		`{"nodes":[],"links":[{"source":"head-01","target":"mini-02","bw":10,"media":"Ethernet"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, session.Stats{Nodes: 5, Links: 5}, decodeBody[session.View](t, rec).Stats)

	rec = do(t, srv, http.MethodPost, "/api/v1/seed",
		`{"nodes":[{"name":"nas-02","type":"NAS/Storage"}],"links":[{"source":"nas-02","target":"sw-10g","bw":10}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, session.Stats{Nodes: 6, Links: 6}, decodeBody[session.View](t, rec).Stats)
}

func TestSeedRejectsUnknownEndpointAtomically(t *testing.T) {
	srv, sess := newServer(t, topology.NewSeeded())

	rec := do(t, srv, http.MethodPost, "/api/v1/seed",
		`{"nodes":[{"name":"nas-02"}],"links":[{"source":"nas-02","target":"ghost","bw":1}]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(t, session.Stats{Nodes: 5, Links: 4}, sess.View().Stats)
}

func TestAdvice(t *testing.T) {
	srv, _ := newServer(t, topology.New())
	rec := do(t, srv, http.MethodGet, "/api/v1/advice", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[adviceResponse](t, rec)
	assert.Equal(t, []string{advisor.MsgAddHeadServer, advisor.MsgAddNAS, advisor.MsgAddSwitch}, got.Advice)
	require.Len(t, got.Findings, 3)
	assert.Equal(t, advisor.RulePresence, got.Findings[0].Rule)
	assert.Equal(t, assist.StateDisabled, got.Assistant.State)
	assert.Len(t, got.Display, 3)
}

func TestAssistantToggle(t *testing.T) {
	srv, sess := newServer(t, nil)

	rec := do(t, srv, http.MethodPut, "/api/v1/assistant", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, assist.StateLoading, decodeBody[session.View](t, rec).Assistant.State)

	// No summarizer is configured, so the background call fails.
	assert.Eventually(t, func() bool {
		return sess.View().Assistant.State == assist.StateUnavailable
	}, 2*time.Second, 10*time.Millisecond)

	rec = do(t, srv, http.MethodPut, "/api/v1/assistant", `{"enabled":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, assist.StateDisabled, decodeBody[session.View](t, rec).Assistant.State)
}

func TestExports(t *testing.T) {
	srv, _ := newServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/api/v1/export/json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "homelab_topology.json")
	assert.Contains(t, rec.Body.String(), `"power_budget_w": 1200`)

	rec = do(t, srv, http.MethodGet, "/api/v1/export/plan", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "build_plan.yaml")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "bill_of_materials:\n"))
}

func TestRender(t *testing.T) {
	srv, _ := newServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/api/v1/render.dot?detailed=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "graph"), rec.Body.String())
	assert.Contains(t, rec.Body.String(), "head-01")

	rec = do(t, srv, http.MethodGet, "/api/v1/render.svg", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
}

func TestNotFound(t *testing.T) {
	srv, _ := newServer(t, nil)
	rec := do(t, srv, http.MethodGet, "/api/v2/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody[errorResponse](t, rec).Error)
}

type serveRecorder struct {
	mu     sync.Mutex
	routes []string
}

func (r *serveRecorder) OnServe(_ context.Context, method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, method+" "+route+" "+http.StatusText(status))
}

func TestServerHooksSeeRoutePatterns(t *testing.T) {
	rec := &serveRecorder{}
	observability.SetServerHooks(rec)
	t.Cleanup(observability.Reset)

	srv, _ := newServer(t, nil)
	do(t, srv, http.MethodGet, "/api/v1/advice", "")
	do(t, srv, http.MethodPost, "/api/v1/nodes", `{"name":"head-01"}`)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []string{
		"GET /api/v1/advice OK",
		"POST /api/v1/nodes Conflict",
	}, rec.routes)
}

func TestMetricsMount(t *testing.T) {
	sess := session.New(session.Options{Logger: quiet()})
	t.Cleanup(sess.Close)
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "labforge_up 1\n")
	})
	srv := New(Options{Session: sess, Logger: quiet(), Metrics: metrics})

	rec := do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "labforge_up 1\n", rec.Body.String())
}

func TestRunStopsOnCancel(t *testing.T) {
	srv, _ := newServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
