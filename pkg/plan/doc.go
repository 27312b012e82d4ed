// Package plan turns a topology snapshot into a build plan: a bill of
// materials, the hosts to hand to Ansible and the raw link list.
//
// [Build] derives the plan, [Write] serializes it with a small YAML-like
// emitter:
//
//	bill_of_materials:
//	  switch: 10GbE 8-Port + 4x DAC
//	  storage: ZFS Mirror (2x HDD) + NVMe Cache
//	  compute:
//	    - head-01: 16C/64GB Net 10Gbps
//	  gpu: 1x GPU-capable nodes
//	ansible_targets:
//	  - head-01
//	links:
//	  - source: head-01
//	    target: sw-10g
//	    bw: 10
//	    media: SFP+/DAC
//
// The emitter keeps key order, indents by two spaces and never quotes
// scalars. It is meant for people and simple tooling; it is not a general
// YAML encoder and the compute lines in particular read as mappings to a
// strict parser.
package plan
