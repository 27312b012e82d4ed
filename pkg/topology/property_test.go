package topology

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestStoreInvariants checks the store's integrity rules over random
// sequences of operations.
func TestStoreInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	// Short names over a tiny alphabet so collisions are frequent.
	names := gen.SliceOf(pick("a", "b", "c", "d", "", " a"))

	properties.Property("names stay unique", prop.ForAll(
		func(seq []string) bool {
			s := New()
			for _, n := range seq {
				before := s.NodeCount()
				if err := s.AddNode(Node{Name: n}); err != nil && s.NodeCount() != before {
					return false
				}
			}
			seen := map[string]bool{}
			for _, n := range s.Snapshot().Nodes {
				if seen[n.Name] {
					return false
				}
				seen[n.Name] = true
			}
			return true
		},
		names,
	))

	properties.Property("links only reference existing nodes", prop.ForAll(
		func(nodes []string, src, dst string) bool {
			s := New()
			for _, n := range nodes {
				_ = s.AddNode(Node{Name: n})
			}
			err := s.AddLink(Link{Source: src, Target: dst, BW: 1})
			for _, l := range s.Snapshot().Links {
				if !s.Has(l.Source) || !s.Has(l.Target) {
					return false
				}
			}
			if !s.Has(src) || !s.Has(dst) {
				return err != nil && s.LinkCount() == 0
			}
			return true
		},
		names,
		pick("a", "b", "x", ""),
		pick("a", "c", "y", ""),
	))

	properties.TestingRun(t)
}

// pick generates one of the given strings.
func pick(choices ...string) gopter.Gen {
	return gen.IntRange(0, len(choices)-1).Map(func(i int) string { return choices[i] })
}
