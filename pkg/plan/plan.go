package plan

import (
	"fmt"

	"github.com/matzehuels/labforge/pkg/topology"
)

// Thresholds for the bill of materials.
const (
	// TenGigBW is the link bandwidth (Gbps) at which a 10GbE switch is
	// recommended.
	TenGigBW = 10.0

	// GPUNodeVRAM is the VRAM (GB) at which a node counts as GPU-capable.
	GPUNodeVRAM = 12.0
)

// Bill of materials recommendations.
const (
	Switch10G      = "10GbE 8-Port + 4x DAC"
	SwitchStarter  = "2.5GbE Switch (Start)"
	StorageDefault = "ZFS Mirror (2x HDD) + NVMe Cache"
	GPUDeferred    = "Optional eGPU/PCIe later"
)

// BOM is the bill of materials.
type BOM struct {
	Switch  string   `json:"switch"`
	Storage string   `json:"storage"`
	Compute []string `json:"compute"`
	GPU     string   `json:"gpu"`
}

// Plan is the build plan for one topology.
type Plan struct {
	BOM            BOM             `json:"bill_of_materials"`
	AnsibleTargets []string        `json:"ansible_targets"`
	Links          []topology.Link `json:"links"`
}

// ansibleTypes are the node types that run an OS Ansible can manage.
var ansibleTypes = map[topology.NodeType]bool{
	topology.TypeHeadServer: true,
	topology.TypeMiniPC:     true,
	topology.TypeNAS:        true,
}

// Build derives the plan for snap. It does not modify snap.
func Build(snap topology.Snapshot) Plan {
	p := Plan{
		BOM: BOM{
			Switch:  SwitchStarter,
			Storage: StorageDefault,
			Compute: make([]string, 0, len(snap.Nodes)),
			GPU:     GPUDeferred,
		},
		AnsibleTargets: []string{},
		Links:          append([]topology.Link{}, snap.Links...),
	}

	for _, l := range snap.Links {
		if l.BW >= TenGigBW {
			p.BOM.Switch = Switch10G
			break
		}
	}

	gpus := 0
	for _, n := range snap.Nodes {
		p.BOM.Compute = append(p.BOM.Compute, fmt.Sprintf("%s: %gC/%gGB Net %gGbps", n.Name, n.CPU, n.RAM, n.Net))
		if n.VRAM >= GPUNodeVRAM {
			gpus++
		}
		if ansibleTypes[n.Type] {
			p.AnsibleTargets = append(p.AnsibleTargets, n.Name)
		}
	}
	if gpus > 0 {
		p.BOM.GPU = fmt.Sprintf("%dx GPU-capable nodes", gpus)
	}
	return p
}

// Tree returns the plan as an ordered tree for [Emit].
func (p Plan) Tree() Map {
	compute := make(List, len(p.BOM.Compute))
	for i, c := range p.BOM.Compute {
		compute[i] = c
	}
	targets := make(List, len(p.AnsibleTargets))
	for i, t := range p.AnsibleTargets {
		targets[i] = t
	}
	links := make(List, len(p.Links))
	for i, l := range p.Links {
		links[i] = Map{
			{"source", l.Source},
			{"target", l.Target},
			{"bw", l.BW},
			{"media", l.Media},
		}
	}

	return Map{
		{"bill_of_materials", Map{
			{"switch", p.BOM.Switch},
			{"storage", p.BOM.Storage},
			{"compute", compute},
			{"gpu", p.BOM.GPU},
		}},
		{"ansible_targets", targets},
		{"links", links},
	}
}
