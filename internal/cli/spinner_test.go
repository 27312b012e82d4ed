package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labforge/pkg/assist"
	"github.com/matzehuels/labforge/pkg/cache"
	"github.com/matzehuels/labforge/pkg/config"
	"github.com/matzehuels/labforge/pkg/session"
	"github.com/matzehuels/labforge/pkg/topology"
)

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Asking assistant...")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Asking assistant...") {
		t.Errorf("spinner never drew its message: %q", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("spinner line not cleared: %q", out)
	}
}

func TestSpinnerStopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*spinnerInterval)
	defer cancel()

	s := newSpinner(ctx, io.Discard, "Asking assistant...")
	s.Start()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after its context ended")
	}
	// The timeout path in awaitAssistant still calls Stop.
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), io.Discard, "Asking assistant...")
	s.Start()
	s.Stop()
	s.Stop()
	s.StopWithSuccess("Assistant answered")
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Asking assistant...")
	s.Stop()
	s.Start()

	if buf.Len() != 0 {
		t.Errorf("stopped spinner wrote %q", buf.String())
	}
}

func newAssistWorkspace(t *testing.T, fn assist.Summarizer, timeout time.Duration) *workspace {
	t.Helper()
	cfg := config.Default()
	cfg.Assistant.Timeout = config.Duration{Duration: timeout}
	sess := session.New(session.Options{
		Logger:     log.NewWithOptions(io.Discard, log.Options{}),
		Summarizer: fn,
	})
	ws := &workspace{Session: sess, cfg: cfg, cache: cache.NewNullCache()}
	t.Cleanup(ws.Close)
	return ws
}

func TestAwaitAssistantReady(t *testing.T) {
	ws := newAssistWorkspace(t, assist.SummarizerFunc(func(context.Context, topology.Snapshot) (string, error) {
		return "add a UPS", nil
	}), time.Second)

	v := New(io.Discard, LogInfo).awaitAssistant(context.Background(), ws)

	if v.Assistant.State != assist.StateReady {
		t.Fatalf("state = %s, want ready", v.Assistant.State)
	}
	if v.Assistant.Text != "add a UPS" {
		t.Errorf("text = %q", v.Assistant.Text)
	}
}

func TestAwaitAssistantTimesOut(t *testing.T) {
	ws := newAssistWorkspace(t, assist.SummarizerFunc(func(ctx context.Context, _ topology.Snapshot) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), 20*time.Millisecond)

	v := New(io.Discard, LogInfo).awaitAssistant(context.Background(), ws)

	if v.Assistant.State != assist.StateDisabled {
		t.Errorf("state = %s, want disabled after timeout", v.Assistant.State)
	}
}

func TestAwaitAssistantUnavailable(t *testing.T) {
	ws := newAssistWorkspace(t, nil, time.Second)

	v := New(io.Discard, LogInfo).awaitAssistant(context.Background(), ws)

	if v.Assistant.State != assist.StateUnavailable {
		t.Errorf("state = %s, want unavailable", v.Assistant.State)
	}
}
