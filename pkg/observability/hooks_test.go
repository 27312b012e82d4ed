package observability

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	NoopTopologyHooks{}.OnMutation(ctx, "add_node", nil)
	NoopTopologyHooks{}.OnAdvise(ctx, 3, time.Millisecond)
	NoopAssistantHooks{}.OnAssistStart(ctx)
	NoopAssistantHooks{}.OnAssistComplete(ctx, OutcomeOK, time.Second)
	NoopCacheHooks{}.OnCacheHit(ctx, "assist")
	NoopCacheHooks{}.OnCacheMiss(ctx, "assist")
	NoopCacheHooks{}.OnCacheSet(ctx, "assist", 1024)
	NoopHTTPHooks{}.OnRequest(ctx, "POST", "api.example.com", "/v1/chat/completions")
	NoopHTTPHooks{}.OnResponse(ctx, "POST", "api.example.com", "/v1/chat/completions", 200, time.Second)
	NoopHTTPHooks{}.OnError(ctx, "POST", "api.example.com", "/v1/chat/completions", nil)
	NoopServerHooks{}.OnServe(ctx, "GET", "/api/v1/advice", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Topology().(NoopTopologyHooks); !ok {
		t.Error("Topology() should return NoopTopologyHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	custom := &testTopologyHooks{}
	SetTopologyHooks(custom)
	if Topology() != custom {
		t.Error("SetTopologyHooks should set custom hooks")
	}

	SetTopologyHooks(nil)
	if Topology() != custom {
		t.Error("SetTopologyHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Topology().(NoopTopologyHooks); !ok {
		t.Error("Reset() should restore NoopTopologyHooks")
	}
}

func TestPrometheusInstall(t *testing.T) {
	t.Cleanup(Reset)
	p := NewPrometheus()
	p.Install()

	if Topology() != p || Assistant() != p || Cache() != p || HTTP() != p || Server() != p {
		t.Error("Install() did not register every hook category")
	}
}

func TestPrometheusCounters(t *testing.T) {
	ctx := context.Background()
	p := NewPrometheus()

	p.OnMutation(ctx, "add_node", nil)
	p.OnMutation(ctx, "add_node", errors.New("duplicate"))
	p.OnMutation(ctx, "add_node", nil)
	p.OnAdvise(ctx, 4, time.Millisecond)
	p.OnAssistStart(ctx)
	p.OnAssistComplete(ctx, OutcomeStale, time.Second)
	p.OnCacheMiss(ctx, "assist")
	p.OnServe(ctx, "GET", "/api/v1/advice", 200, time.Millisecond)

	if got := testutil.ToFloat64(p.mutations.WithLabelValues("add_node", "ok")); got != 2 {
		t.Errorf("ok mutations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.mutations.WithLabelValues("add_node", "error")); got != 1 {
		t.Errorf("failed mutations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.findings); got != 4 {
		t.Errorf("findings = %v, want 4", got)
	}
	if got := testutil.ToFloat64(p.assistInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(p.assistTotal.WithLabelValues(OutcomeStale)); got != 1 {
		t.Errorf("stale = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.serverRequests.WithLabelValues("GET", "/api/v1/advice", "200")); got != 1 {
		t.Errorf("server requests = %v, want 1", got)
	}
}

func TestPrometheusHandler(t *testing.T) {
	p := NewPrometheus()
	p.OnMutation(context.Background(), "seed", nil)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `labforge_topology_mutations_total{op="seed",result="ok"} 1`) {
		t.Errorf("metrics output missing mutation counter:\n%s", body)
	}
}

type testTopologyHooks struct{ NoopTopologyHooks }
