package nodelink

import (
	"math"

	"github.com/matzehuels/labforge/pkg/topology"
)

// DefaultNodeColor is used for types outside [topology.KnownTypes].
const DefaultNodeColor = "#89a2ad"

var nodeColors = map[topology.NodeType]string{
	topology.TypeHeadServer: "#49ff00",
	topology.TypeMiniPC:     "#52c41a",
	topology.TypeNAS:        "#1e90ff",
	topology.TypeSwitch:     "#ffb020",
	topology.TypeEGPU:       "#ff4d4f",
	topology.TypeService:    "#b388ff",
}

// NodeColor returns the fill colour for a node type.
func NodeColor(t topology.NodeType) string {
	if c, ok := nodeColors[t]; ok {
		return c
	}
	return DefaultNodeColor
}

// Link colours by bandwidth class.
const (
	LinkColorSlow = "#ff6666"
	LinkColorMid  = "#ffb020"
	LinkColorFast = "#49ff00"
)

// LinkColor returns the edge colour for a bandwidth in Gbps.
func LinkColor(bw float64) string {
	switch {
	case bw < 10:
		return LinkColorSlow
	case bw >= 25:
		return LinkColorFast
	default:
		return LinkColorMid
	}
}

// LinkWidth returns the pen width for a bandwidth in Gbps.
func LinkWidth(bw float64) float64 {
	return math.Max(0.5, math.Log2(bw))
}
