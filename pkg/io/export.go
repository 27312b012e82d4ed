package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/labforge/pkg/topology"
)

// Policy is the static operations block attached to every export.
type Policy struct {
	Redundancy   string `json:"redundancy" yaml:"redundancy" toml:"redundancy"`
	Backup       string `json:"backup" yaml:"backup" toml:"backup"`
	PowerBudgetW int    `json:"power_budget_w" yaml:"power_budget_w" toml:"power_budget_w" validate:"gte=0"`
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{Redundancy: "zfs-mirror", Backup: "daily", PowerBudgetW: 1200}
}

type document struct {
	Nodes  []topology.Node `json:"nodes" yaml:"nodes"`
	Links  []topology.Link `json:"links" yaml:"links"`
	Policy *Policy         `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// WriteJSON encodes snap with policy p and writes it to w, indented by two
// spaces. The output can be read back with [ReadJSON].
func WriteJSON(snap topology.Snapshot, p Policy, w io.Writer) error {
	out := document{
		Nodes:  snap.Nodes,
		Links:  snap.Links,
		Policy: &p,
	}
	if out.Nodes == nil {
		out.Nodes = []topology.Node{}
	}
	if out.Links == nil {
		out.Links = []topology.Link{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes snap to a JSON file at path.
func ExportJSON(snap topology.Snapshot, p Policy, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(snap, p, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
