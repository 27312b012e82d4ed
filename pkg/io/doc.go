// Package io reads and writes lab topologies.
//
// # JSON Format
//
// Exports carry the nodes and links of a snapshot plus a static policy
// block that is not derived from the topology:
//
//	{
//	  "nodes": [
//	    {"name": "head-01", "type": "Head-Server", "cpu": 16, "ram": 64, "net": 10, "vram": 24}
//	  ],
//	  "links": [
//	    {"source": "head-01", "target": "sw-10g", "bw": 10, "media": "SFP+/DAC"}
//	  ],
//	  "policy": {"redundancy": "zfs-mirror", "backup": "daily", "power_budget_w": 1200}
//	}
//
// On import the policy block is ignored. Nodes and links are replayed
// through [topology.Store] so the usual uniqueness and endpoint checks
// apply; a document that violates them is rejected as a whole.
//
// # YAML
//
// [ReadYAML] accepts the same shape written by hand:
//
//	nodes:
//	  - name: head-01
//	    type: Head-Server
//	    ram: 64
//	links:
//	  - {source: head-01, target: nas-01, bw: 10, media: SFP+/DAC}
//
// [Import] picks the decoder from the file extension.
package io
