// Package session owns one labforge workspace.
//
// A [Session] bundles the topology store, the advisor engine and the
// assistant runner behind a mutex. Every command mutates the store,
// re-evaluates the rule battery and publishes a fresh [View] to subscribers
// before it returns. Views are values: subscribers may keep them.
//
//	s := session.New(session.Options{Logger: logger})
//	defer s.Close()
//	unsubscribe := s.Subscribe(func(v session.View) { render(v) })
//	defer unsubscribe()
//	if _, err := s.AddNode(ctx, topology.Node{Name: "nas-02", Type: topology.TypeNAS}); err != nil {
//	    return err // coded, see pkg/errors
//	}
package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/labforge/pkg/advisor"
	"github.com/matzehuels/labforge/pkg/assist"
	lferrors "github.com/matzehuels/labforge/pkg/errors"
	lfio "github.com/matzehuels/labforge/pkg/io"
	"github.com/matzehuels/labforge/pkg/observability"
	"github.com/matzehuels/labforge/pkg/plan"
	"github.com/matzehuels/labforge/pkg/topology"
)

// Stats are the counters shown after every mutation.
type Stats struct {
	Nodes int `json:"nodes"`
	Links int `json:"links"`
}

// View is everything a UI needs to draw the workspace.
type View struct {
	ID string `json:"id"`
	// Version increases with every published view. Subscribers may receive
	// views out of order and should drop versions older than the last one
	// they drew.
	Version   uint64            `json:"version"`
	Topology  topology.Snapshot `json:"topology"`
	Findings  []advisor.Finding `json:"findings"`
	Advice    []string          `json:"advice"`
	Assistant assist.Status     `json:"assistant"`
	Display   []assist.Line     `json:"display"`
	Stats     Stats             `json:"stats"`
}

// Options configures [New].
type Options struct {
	Logger     *log.Logger
	Summarizer assist.Summarizer // nil means assist.Noop
	Policy     *lfio.Policy      // nil means lfio.DefaultPolicy()
	Store      *topology.Store   // nil means topology.NewSeeded()
}

// Session is a single-writer workspace. All methods are safe for concurrent
// use.
type Session struct {
	id     string
	logger *log.Logger
	policy lfio.Policy
	engine *advisor.Engine
	runner *assist.Runner

	mu      sync.Mutex
	store   *topology.Store
	view    View
	subs    map[int]func(View)
	nextSub int
}

// New creates a session. Without an explicit store it starts from the demo
// seed.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	policy := lfio.DefaultPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}
	store := opts.Store
	if store == nil {
		store = topology.NewSeeded()
	}

	s := &Session{
		id:     uuid.NewString(),
		policy: policy,
		engine: advisor.New(),
		store:  store,
		subs:   make(map[int]func(View)),
	}
	s.logger = logger.With("session", s.id[:8])
	s.runner = assist.NewRunner(opts.Summarizer, s.logger, s.assistantUpdated)

	s.mu.Lock()
	s.refreshLocked(context.Background())
	s.publishLocked(s.runner.Status())
	s.mu.Unlock()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Policy returns the static policy block written by JSON export.
func (s *Session) Policy() lfio.Policy { return s.policy }

// View returns the latest view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Snapshot returns a copy of the current topology.
func (s *Session) Snapshot() topology.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// Subscribe registers fn to receive every published view and returns a
// function that removes it. fn runs outside the session lock and may call
// back into the session.
func (s *Session) Subscribe(fn func(View)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// AddNode adds n to the topology. Errors carry a pkg/errors code.
func (s *Session) AddNode(ctx context.Context, n topology.Node) (View, error) {
	return s.mutate(ctx, "add_node", func(st *topology.Store) error {
		if err := lferrors.ValidateNodeName(n.Name); err != nil {
			return err
		}
		return st.AddNode(n)
	})
}

// AddLink adds l to the topology. Errors carry a pkg/errors code.
func (s *Session) AddLink(ctx context.Context, l topology.Link) (View, error) {
	if l.IsSelfLoop() {
		s.logger.Debug("accepting self-loop link", "node", l.Source)
	}
	return s.mutate(ctx, "add_link", func(st *topology.Store) error {
		return st.AddLink(l)
	})
}

// Seed appends nodes then links. Nothing is added if any element is
// rejected.
func (s *Session) Seed(ctx context.Context, nodes []topology.Node, links []topology.Link) (View, error) {
	return s.mutate(ctx, "seed", func(st *topology.Store) error {
		return lfio.Seed(st, nodes, links)
	})
}

// Replace swaps the whole topology for snap. The current topology is kept
// if snap is rejected.
func (s *Session) Replace(ctx context.Context, snap topology.Snapshot) (View, error) {
	return s.mutate(ctx, "replace", func(st *topology.Store) error {
		next := topology.New()
		if err := lfio.Seed(next, snap.Nodes, snap.Links); err != nil {
			return err
		}
		*st = *next
		return nil
	})
}

// Reset empties the topology.
func (s *Session) Reset(ctx context.Context) View {
	v, _ := s.mutate(ctx, "reset", func(st *topology.Store) error {
		st.Reset()
		return nil
	})
	return v
}

// SetAssistant switches the assistant on or off. Switching it on starts a
// background request; the result arrives as a later view.
func (s *Session) SetAssistant(ctx context.Context, enabled bool) View {
	return s.switchAssistant(ctx, func(bool) bool { return enabled })
}

// ToggleAssistant flips the assistant state. An unavailable assistant
// counts as off.
func (s *Session) ToggleAssistant(ctx context.Context) View {
	return s.switchAssistant(ctx, func(on bool) bool { return !on })
}

// switchAssistant decides the new state from the current one under the
// session lock, so concurrent toggles see each other.
func (s *Session) switchAssistant(ctx context.Context, next func(on bool) bool) View {
	s.mu.Lock()
	enabled := next(s.runner.Status().Enabled())
	var st assist.Status
	if enabled {
		st = s.runner.Enable(ctx, s.store.Snapshot())
	} else {
		st = s.runner.Disable()
	}
	s.logger.Info("assistant toggled", "enabled", enabled)
	v, subs := s.publishLocked(st)
	s.mu.Unlock()

	notify(subs, v)
	return v
}

// ExportJSON writes the topology document with the session policy.
func (s *Session) ExportJSON(w io.Writer) error {
	return lfio.WriteJSON(s.Snapshot(), s.policy, w)
}

// ExportPlan writes the build plan.
func (s *Session) ExportPlan(w io.Writer) error {
	return plan.Write(w, plan.Build(s.Snapshot()))
}

// Close stops the assistant and waits for it.
func (s *Session) Close() {
	s.runner.Close()
}

// mutate applies fn, re-advises on success and publishes the result.
func (s *Session) mutate(ctx context.Context, op string, fn func(*topology.Store) error) (View, error) {
	s.mu.Lock()
	err := lferrors.FromTopology(fn(s.store))
	observability.Topology().OnMutation(ctx, op, err)
	if err != nil {
		v := s.view
		s.mu.Unlock()
		s.logger.Debug("command rejected", "op", op, "err", err)
		return v, err
	}
	s.refreshLocked(ctx)
	st := s.runner.Refresh(ctx, s.store.Snapshot())
	v, subs := s.publishLocked(st)
	s.mu.Unlock()

	s.logger.Debug("command applied", "op", op, "nodes", v.Stats.Nodes, "links", v.Stats.Links)
	notify(subs, v)
	return v, nil
}

// refreshLocked re-runs the advisor against the store.
func (s *Session) refreshLocked(ctx context.Context) {
	start := time.Now()
	snap := s.store.Snapshot()
	findings := s.engine.Findings(snap)
	observability.Topology().OnAdvise(ctx, len(findings), time.Since(start))

	advice := make([]string, len(findings))
	for i, f := range findings {
		advice[i] = f.Message
	}
	s.view.ID = s.id
	s.view.Topology = snap
	s.view.Findings = findings
	s.view.Advice = advice
	s.view.Stats = Stats{Nodes: len(snap.Nodes), Links: len(snap.Links)}
}

// publishLocked merges st into the view, stamps a new version and returns
// the subscribers to notify.
func (s *Session) publishLocked(st assist.Status) (View, []func(View)) {
	s.view.Assistant = st
	s.view.Display = assist.Compose(s.view.Assistant, s.view.Advice)
	s.view.Version++
	subs := make([]func(View), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return s.view, subs
}

// assistantUpdated runs on the runner goroutine. The runner may have moved
// on since it reported, so the current status wins over the reported one.
func (s *Session) assistantUpdated(assist.Status) {
	s.mu.Lock()
	v, subs := s.publishLocked(s.runner.Status())
	s.mu.Unlock()
	notify(subs, v)
}

func notify(subs []func(View), v View) {
	for _, fn := range subs {
		fn(v)
	}
}
