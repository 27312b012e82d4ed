package assist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labforge/pkg/observability"
	"github.com/matzehuels/labforge/pkg/topology"
)

// State is the lifecycle of the assistant path.
type State string

const (
	StateDisabled    State = "disabled"
	StateLoading     State = "loading"
	StateReady       State = "ready"
	StateUnavailable State = "unavailable"
)

// Status is a point-in-time view of the runner.
type Status struct {
	State State  `json:"state"`
	Text  string `json:"text,omitempty"`  // set when Ready
	Error string `json:"error,omitempty"` // set when Unavailable
}

// Enabled reports whether the assistant path is switched on.
func (s Status) Enabled() bool {
	return s.State == StateLoading || s.State == StateReady
}

// Runner runs a [Summarizer] in the background. It is safe for concurrent
// use. Only the most recent request may publish a result.
type Runner struct {
	summarizer Summarizer
	logger     *log.Logger
	onUpdate   func(Status)

	mu     sync.Mutex
	gen    uint64
	status Status
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner returns a disabled runner. onUpdate is called from the
// background goroutine whenever a request finishes and is still current;
// it may be nil. A nil summarizer means [Noop].
func NewRunner(s Summarizer, logger *log.Logger, onUpdate func(Status)) *Runner {
	if s == nil {
		s = Noop{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		summarizer: s,
		logger:     logger,
		onUpdate:   onUpdate,
		status:     Status{State: StateDisabled},
	}
}

// Status returns the current status.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Enable switches the assistant on and starts a request for snap. The
// returned status is Loading; the outcome is delivered to onUpdate.
// ctx supplies values only: the request outlives it and is cancelled by
// [Runner.Disable] or a later [Runner.Refresh].
func (r *Runner) Enable(ctx context.Context, snap topology.Snapshot) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startLocked(ctx, snap)
}

// Refresh restarts the request for snap if the assistant is enabled and
// returns the resulting status. A disabled or unavailable runner is left
// alone.
func (r *Runner) Refresh(ctx context.Context, snap topology.Snapshot) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.status.Enabled() {
		return r.status
	}
	return r.startLocked(ctx, snap)
}

// Disable switches the assistant off. An in-flight request is cancelled and
// its result discarded.
func (r *Runner) Disable() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
	r.status = Status{State: StateDisabled}
	return r.status
}

// Wait blocks until every background request has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close disables the runner and waits for in-flight requests.
func (r *Runner) Close() {
	r.Disable()
	r.Wait()
}

func (r *Runner) stopLocked() {
	r.gen++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Runner) startLocked(ctx context.Context, snap topology.Snapshot) Status {
	r.stopLocked()
	gen := r.gen
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.cancel = cancel
	r.status = Status{State: StateLoading}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		r.run(runCtx, gen, snap)
	}()
	return r.status
}

func (r *Runner) run(ctx context.Context, gen uint64, snap topology.Snapshot) {
	hooks := observability.Assistant()
	hooks.OnAssistStart(ctx)
	start := time.Now()

	text, err := r.summarizer.Summarize(ctx, snap)

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		hooks.OnAssistComplete(ctx, observability.OutcomeStale, time.Since(start))
		r.logger.Debug("dropped stale assistant result", "generation", gen)
		return
	}
	var st Status
	if err != nil {
		// A failure switches the path off until the user enables it again.
		r.gen++
		r.cancel = nil
		st = Status{State: StateUnavailable, Error: err.Error()}
	} else {
		st = Status{State: StateReady, Text: text}
	}
	r.status = st
	r.mu.Unlock()

	if err != nil {
		outcome := observability.OutcomeUnavailable
		if errors.Is(err, context.Canceled) {
			outcome = observability.OutcomeStale
		}
		hooks.OnAssistComplete(ctx, outcome, time.Since(start))
		r.logger.Warn("assistant unavailable", "err", err)
	} else {
		hooks.OnAssistComplete(ctx, observability.OutcomeOK, time.Since(start))
		r.logger.Debug("assistant ready", "duration", time.Since(start).Round(time.Millisecond))
	}

	if r.onUpdate != nil {
		r.onUpdate(st)
	}
}
