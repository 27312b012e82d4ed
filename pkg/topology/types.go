package topology

import (
	"fmt"
	"slices"
)

// NodeType is the category of an infrastructure unit.
//
// Values outside the known set are kept verbatim so that imported topologies
// round-trip unchanged; they are treated as the default category.
type NodeType string

// Known node categories.
const (
	TypeHeadServer NodeType = "Head-Server"
	TypeMiniPC     NodeType = "Mini-PC"
	TypeNAS        NodeType = "NAS/Storage"
	TypeSwitch     NodeType = "Switch"
	TypeEGPU       NodeType = "eGPU"
	TypeService    NodeType = "Service (VM/Container)"
)

// KnownTypes lists the closed set of categories in display order.
var KnownTypes = []NodeType{
	TypeHeadServer,
	TypeMiniPC,
	TypeNAS,
	TypeSwitch,
	TypeEGPU,
	TypeService,
}

// Known reports whether t is one of [KnownTypes].
func (t NodeType) Known() bool { return slices.Contains(KnownTypes, t) }

// Common link media. Media is free-form; only Thunderbolt has dedicated rules.
const (
	MediaEthernet    = "Ethernet"
	MediaDAC         = "SFP+/DAC"
	MediaThunderbolt = "Thunderbolt"
)

// Node is one physical or virtual infrastructure unit.
type Node struct {
	Name string   `json:"name" yaml:"name"`
	Type NodeType `json:"type" yaml:"type"`
	CPU  float64  `json:"cpu" yaml:"cpu" validate:"gte=0"`   // cores
	RAM  float64  `json:"ram" yaml:"ram" validate:"gte=0"`   // GB
	Net  float64  `json:"net" yaml:"net" validate:"gte=0"`   // NIC speed, Gbps
	VRAM float64  `json:"vram" yaml:"vram" validate:"gte=0"` // GB, 0 if none
}

// Label is the one-line summary used for tooltips and listings.
func (n Node) Label() string {
	return fmt.Sprintf("%s\n%s • %gC/%gGB • Net %gGbps • VRAM %gGB", n.Name, n.Type, n.CPU, n.RAM, n.Net, n.VRAM)
}

// Link is a logically undirected connection between two nodes, stored as a
// pair of node names.
type Link struct {
	Source string  `json:"source" yaml:"source"`
	Target string  `json:"target" yaml:"target"`
	BW     float64 `json:"bw" yaml:"bw" validate:"gt=0"` // Gbps
	Media  string  `json:"media" yaml:"media"`
}

// IsSelfLoop reports whether both ends name the same node.
func (l Link) IsSelfLoop() bool { return l.Source == l.Target }

// Snapshot is a point-in-time copy of a store's contents.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Resolve looks a node up by name within the snapshot.
// It is the snapshot counterpart of [Store.Resolve] and runs in O(n).
func (s Snapshot) Resolve(name string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return Node{}, false
}

// Index builds a name lookup for repeated resolution.
func (s Snapshot) Index() map[string]Node {
	idx := make(map[string]Node, len(s.Nodes))
	for _, n := range s.Nodes {
		idx[n.Name] = n
	}
	return idx
}

// HasType reports whether any node has type t.
func (s Snapshot) HasType(t NodeType) bool {
	return slices.ContainsFunc(s.Nodes, func(n Node) bool { return n.Type == t })
}
