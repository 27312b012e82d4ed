package advisor

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/labforge/pkg/topology"
)

// Rule identifiers, in evaluation order.
const (
	RulePresence   = "presence"
	RuleLinkSpeed  = "link-bandwidth"
	RuleMedium     = "medium"
	RuleCapability = "capability"
	RuleAggregate  = "aggregate-sizing"
)

// Severity classifies a finding for display.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityHint    Severity = "hint"
	SeverityOK      Severity = "ok"
)

// Thresholds used by the rule battery.
const (
	// MinCriticalBW is the bandwidth (Gbps) below which links touching a head
	// server or NAS are flagged.
	MinCriticalBW = 10.0

	// MinThunderboltBW is the bandwidth (Gbps) below which Thunderbolt links
	// are flagged.
	MinThunderboltBW = 20.0

	// GPUHintVRAM is the VRAM (GB) at which a Mini-PC gets a passthrough hint.
	GPUHintVRAM = 8.0

	// BackupRAMThreshold is the total RAM (GB) above which missing storage is
	// called out a second time.
	BackupRAMThreshold = 64.0
)

// Advice messages. Per-node and per-link messages are built by the msg*
// helpers below.
const (
	MsgAddHeadServer = "Add a head server (plenty of RAM, GPU option)."
	MsgAddNAS        = "Add a NAS/storage node (ZFS mirror/RAIDZ2)."
	MsgAddSwitch     = "Add a switch (10 GbE minimum) and connect all nodes."
	MsgBackupPlan    = "Lots of RAM detected: without a NAS there are no snapshots/backups. Plan a NAS."

	// NoIssues is reported when no rule fires.
	NoIssues = "Everything looks solid. Increase bandwidth only where needed."
)

func msgLowBandwidth(a, b topology.Node, bw float64) string {
	return fmt.Sprintf("Link %s ⇄ %s at %s Gbps: too low for training/render/storage traffic → 10–25 Gbps.",
		a.Name, b.Name, formatGbps(bw))
}

func msgThunderbolt(a, b topology.Node) string {
	return fmt.Sprintf("TB link %s ⇄ %s: check cable/generation (TB4 minimum, short cables for stability).",
		a.Name, b.Name)
}

func msgGPUHint(n topology.Node) string {
	return fmt.Sprintf("%s: good GPU VRAM baseline. Plan a PCIe/TB path (passthrough or eGPU).", n.Name)
}

// formatGbps renders a bandwidth without trailing zeros (1, 2.5, 10).
func formatGbps(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Finding is one emitted message with the rule that produced it.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Subjects []string `json:"subjects,omitempty"` // node names the finding is about
}

// emitter collects findings in emission order.
type emitter struct {
	findings []Finding
}

func (e *emitter) add(rule string, sev Severity, msg string, subjects ...string) {
	e.findings = append(e.findings, Finding{Rule: rule, Severity: sev, Message: msg, Subjects: subjects})
}

// presence emits one message per missing core role.
func presence(snap topology.Snapshot, _ map[string]topology.Node, e *emitter) {
	var hasHead, hasNAS, hasSwitch bool
	for _, n := range snap.Nodes {
		switch n.Type {
		case topology.TypeHeadServer:
			hasHead = true
		case topology.TypeNAS:
			hasNAS = true
		case topology.TypeSwitch:
			hasSwitch = true
		}
	}
	if !hasHead {
		e.add(RulePresence, SeverityWarning, MsgAddHeadServer)
	}
	if !hasNAS {
		e.add(RulePresence, SeverityWarning, MsgAddNAS)
	}
	if !hasSwitch {
		e.add(RulePresence, SeverityWarning, MsgAddSwitch)
	}
}

// links runs the link adequacy and medium rules in one pass.
func links(snap topology.Snapshot, idx map[string]topology.Node, e *emitter) {
	for _, l := range snap.Links {
		a, okA := idx[l.Source]
		b, okB := idx[l.Target]
		if !okA || !okB {
			continue
		}
		if l.BW < MinCriticalBW && (isCritical(a) || isCritical(b)) {
			e.add(RuleLinkSpeed, SeverityWarning, msgLowBandwidth(a, b, l.BW), a.Name, b.Name)
		}
		if l.Media == topology.MediaThunderbolt && l.BW < MinThunderboltBW {
			e.add(RuleMedium, SeverityWarning, msgThunderbolt(a, b), a.Name, b.Name)
		}
	}
}

func isCritical(n topology.Node) bool {
	return n.Type == topology.TypeHeadServer || n.Type == topology.TypeNAS
}

// capability emits one hint per GPU-capable Mini-PC.
func capability(snap topology.Snapshot, _ map[string]topology.Node, e *emitter) {
	for _, n := range snap.Nodes {
		if n.Type == topology.TypeMiniPC && n.VRAM >= GPUHintVRAM {
			e.add(RuleCapability, SeverityHint, msgGPUHint(n), n.Name)
		}
	}
}

// aggregate flags large RAM totals that have no storage to back them up.
// It overlaps with the NAS presence message on purpose: both are reported.
func aggregate(snap topology.Snapshot, _ map[string]topology.Node, e *emitter) {
	var total float64
	for _, n := range snap.Nodes {
		total += n.RAM
	}
	if total >= BackupRAMThreshold && !snap.HasType(topology.TypeNAS) {
		e.add(RuleAggregate, SeverityWarning, MsgBackupPlan)
	}
}
