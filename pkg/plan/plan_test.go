package plan

import (
	"bytes"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/labforge/pkg/topology"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name        string
		snap        topology.Snapshot
		wantSwitch  string
		wantGPU     string
		wantTargets []string
	}{
		{
			name:        "Empty",
			snap:        topology.Snapshot{},
			wantSwitch:  SwitchStarter,
			wantGPU:     GPUDeferred,
			wantTargets: []string{},
		},
		{
			name:        "DefaultSeed",
			snap:        topology.DefaultSeed(),
			wantSwitch:  Switch10G,
			wantGPU:     "1x GPU-capable nodes",
			wantTargets: []string{"head-01", "nas-01", "mini-01", "mini-02"},
		},
		{
			name: "SlowLinksOnly",
			snap: topology.Snapshot{
				Nodes: []topology.Node{
					{Name: "a", Type: topology.TypeMiniPC, VRAM: 12},
					{Name: "b", Type: topology.TypeEGPU, VRAM: 16},
					{Name: "svc", Type: topology.TypeService},
				},
				Links: []topology.Link{{Source: "a", Target: "b", BW: 9.9}},
			},
			wantSwitch:  SwitchStarter,
			wantGPU:     "2x GPU-capable nodes",
			wantTargets: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Build(tt.snap)
			if p.BOM.Switch != tt.wantSwitch {
				t.Errorf("Switch = %q, want %q", p.BOM.Switch, tt.wantSwitch)
			}
			if p.BOM.GPU != tt.wantGPU {
				t.Errorf("GPU = %q, want %q", p.BOM.GPU, tt.wantGPU)
			}
			if p.BOM.Storage != StorageDefault {
				t.Errorf("Storage = %q, want %q", p.BOM.Storage, StorageDefault)
			}
			if len(p.AnsibleTargets) != len(tt.wantTargets) {
				t.Fatalf("AnsibleTargets = %q, want %q", p.AnsibleTargets, tt.wantTargets)
			}
			for i := range tt.wantTargets {
				if p.AnsibleTargets[i] != tt.wantTargets[i] {
					t.Errorf("AnsibleTargets[%d] = %q, want %q", i, p.AnsibleTargets[i], tt.wantTargets[i])
				}
			}
			if len(p.BOM.Compute) != len(tt.snap.Nodes) {
				t.Errorf("Compute has %d lines, want %d", len(p.BOM.Compute), len(tt.snap.Nodes))
			}
		})
	}
}

func TestWriteDefaultSeed(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Build(topology.DefaultSeed())); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := `bill_of_materials:
  switch: 10GbE 8-Port + 4x DAC
  storage: ZFS Mirror (2x HDD) + NVMe Cache
  compute:
    - head-01: 16C/64GB Net 10Gbps
    - nas-01: 4C/16GB Net 10Gbps
    - sw-10g: 0C/0GB Net 10Gbps
    - mini-01: 8C/32GB Net 2.5Gbps
    - mini-02: 8C/32GB Net 2.5Gbps
  gpu: 1x GPU-capable nodes
ansible_targets:
  - head-01
  - nas-01
  - mini-01
  - mini-02
links:
  - source: head-01
    target: sw-10g
    bw: 10
    media: SFP+/DAC
  - source: nas-01
    target: sw-10g
    bw: 10
    media: SFP+/DAC
  - source: mini-01
    target: sw-10g
    bw: 2.5
    media: Ethernet
  - source: mini-02
    target: sw-10g
    bw: 2.5
    media: Ethernet
`
	if got := buf.String(); got != want {
		t.Errorf("Write() =\n%s\nwant:\n%s", got, want)
	}
}

func TestEmitEmptyCollections(t *testing.T) {
	got := Emit(Build(topology.Snapshot{}).Tree())
	want := `bill_of_materials:
  switch: 2.5GbE Switch (Start)
  storage: ZFS Mirror (2x HDD) + NVMe Cache
  compute: []
  gpu: Optional eGPU/PCIe later
ansible_targets: []
links: []`
	if got != want {
		t.Errorf("Emit() =\n%s\nwant:\n%s", got, want)
	}
}

func TestEmitNested(t *testing.T) {
	got := Emit(Map{
		{"a", Map{{"b", Map{{"c", 1}}}}},
		{"l", List{List{"x", "y"}, true}},
	})
	want := "a:\n  b:\n    c: 1\nl:\n  - - x\n    - y\n  - true"
	if got != want {
		t.Errorf("Emit() = %q, want %q", got, want)
	}
}

// The link section must stay machine-readable for inventory tooling.
func TestEmittedLinksParse(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Build(topology.DefaultSeed())); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		AnsibleTargets []string        `yaml:"ansible_targets"`
		Links          []topology.Link `yaml:"links"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if len(doc.Links) != 4 || doc.Links[2].BW != 2.5 || doc.Links[0].Media != topology.MediaDAC {
		t.Errorf("links = %+v", doc.Links)
	}
	if len(doc.AnsibleTargets) != 4 {
		t.Errorf("ansible_targets = %q", doc.AnsibleTargets)
	}
}
