package advisor

import (
	"github.com/matzehuels/labforge/pkg/topology"
)

// rule is one step of the battery. idx resolves node names for the snapshot.
type rule func(snap topology.Snapshot, idx map[string]topology.Node, e *emitter)

// battery is the fixed evaluation order.
var battery = []rule{
	presence,
	links,
	capability,
	aggregate,
}

// Engine evaluates the rule battery. It holds no state and is safe for
// concurrent use.
type Engine struct{}

// New returns an Engine.
func New() *Engine { return &Engine{} }

// Findings evaluates every rule and returns the deduplicated findings in
// emission order. When nothing fires it returns a single [SeverityOK]
// finding carrying [NoIssues].
func (*Engine) Findings(snap topology.Snapshot) []Finding {
	idx := snap.Index()
	e := &emitter{}
	for _, r := range battery {
		r(snap, idx, e)
	}

	out := dedup(e.findings)
	if len(out) == 0 {
		return []Finding{{Severity: SeverityOK, Message: NoIssues}}
	}
	return out
}

// Advise returns the advice messages for snap. See [Engine.Findings].
func (eng *Engine) Advise(snap topology.Snapshot) []string {
	findings := eng.Findings(snap)
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Message
	}
	return out
}

// dedup drops findings whose message was already seen, keeping the first.
func dedup(in []Finding) []Finding {
	seen := make(map[string]struct{}, len(in))
	out := make([]Finding, 0, len(in))
	for _, f := range in {
		if _, ok := seen[f.Message]; ok {
			continue
		}
		seen[f.Message] = struct{}{}
		out = append(out, f)
	}
	return out
}
