package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/matzehuels/labforge/pkg/topology"
)

// ErrNotConfigured is returned by [Noop].
var ErrNotConfigured = errors.New("no assistant endpoint configured")

// Summarizer produces free-text recommendations for a topology.
// Implementations must honour ctx cancellation.
type Summarizer interface {
	Summarize(ctx context.Context, snap topology.Snapshot) (string, error)
}

// Noop is the default summarizer. It always fails with [ErrNotConfigured].
type Noop struct{}

// Summarize implements [Summarizer].
func (Noop) Summarize(context.Context, topology.Snapshot) (string, error) {
	return "", ErrNotConfigured
}

// SummarizerFunc adapts a function to [Summarizer].
type SummarizerFunc func(ctx context.Context, snap topology.Snapshot) (string, error)

// Summarize implements [Summarizer].
func (f SummarizerFunc) Summarize(ctx context.Context, snap topology.Snapshot) (string, error) {
	return f(ctx, snap)
}

type summary struct {
	Nodes int `json:"nodes"`
	Links int `json:"links"`
}

// Summary is the compact topology description sent to the assistant,
// e.g. {"nodes":5,"links":4}.
func Summary(snap topology.Snapshot) string {
	data, _ := json.Marshal(summary{Nodes: len(snap.Nodes), Links: len(snap.Links)})
	return string(data)
}

// Prompt is the single user message sent to the assistant.
func Prompt(snap topology.Snapshot) string {
	return fmt.Sprintf("You are an infrastructure assistant. Analyze: %s. Give 3 concise recommendations.", Summary(snap))
}
