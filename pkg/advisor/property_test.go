package advisor

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/labforge/pkg/topology"
)

func genNode() gopter.Gen {
	types := make([]topology.NodeType, len(topology.KnownTypes))
	copy(types, topology.KnownTypes)
	return gopter.CombineGens(
		gen.IntRange(0, 5),
		gen.IntRange(0, len(types)-1),
		gen.Float64Range(0, 128),
		gen.Float64Range(0, 24),
	).Map(func(v []interface{}) topology.Node {
		return topology.Node{
			Name: string(rune('a' + v[0].(int))),
			Type: types[v[1].(int)],
			RAM:  v[2].(float64),
			VRAM: v[3].(float64),
		}
	})
}

func genLink() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 5),
		gen.IntRange(0, 5),
		gen.Float64Range(0.5, 40),
		gen.Bool(),
	).Map(func(v []interface{}) topology.Link {
		media := topology.MediaEthernet
		if v[3].(bool) {
			media = topology.MediaThunderbolt
		}
		return topology.Link{
			Source: string(rune('a' + v[0].(int))),
			Target: string(rune('a' + v[1].(int))),
			BW:     v[2].(float64),
			Media:  media,
		}
	})
}

func TestEngineProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	eng := New()

	build := func(nodes []topology.Node, links []topology.Link) topology.Snapshot {
		s := topology.New()
		for _, n := range nodes {
			_ = s.AddNode(n)
		}
		for _, l := range links {
			_ = s.AddLink(l)
		}
		return s.Snapshot()
	}

	properties.Property("advice is deterministic", prop.ForAll(
		func(nodes []topology.Node, links []topology.Link) bool {
			snap := build(nodes, links)
			return reflect.DeepEqual(eng.Advise(snap), eng.Advise(snap))
		},
		gen.SliceOf(genNode()),
		gen.SliceOf(genLink()),
	))

	properties.Property("advice is never empty and has no duplicates", prop.ForAll(
		func(nodes []topology.Node, links []topology.Link) bool {
			got := eng.Advise(build(nodes, links))
			if len(got) == 0 {
				return false
			}
			seen := map[string]bool{}
			for _, m := range got {
				if seen[m] {
					return false
				}
				seen[m] = true
			}
			return true
		},
		gen.SliceOf(genNode()),
		gen.SliceOf(genLink()),
	))

	properties.Property("advising leaves the snapshot untouched", prop.ForAll(
		func(nodes []topology.Node, links []topology.Link) bool {
			snap := build(nodes, links)
			before := build(nodes, links)
			eng.Advise(snap)
			return reflect.DeepEqual(snap, before)
		},
		gen.SliceOf(genNode()),
		gen.SliceOf(genLink()),
	))

	properties.TestingRun(t)
}
