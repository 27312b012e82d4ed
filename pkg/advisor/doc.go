// Package advisor derives configuration advice from a lab topology.
//
// # Overview
//
// The [Engine] is a pure function of a [topology.Snapshot]: it never mutates
// the store, performs no I/O and returns the same ordered output for the
// same input. It evaluates a fixed battery of rules; every applicable rule
// fires, none short-circuits.
//
//  1. Presence: a head server, a NAS and a switch should exist.
//  2. Link adequacy: links below 10 Gbps touching a head server or NAS.
//  3. Medium: Thunderbolt links below 20 Gbps.
//  4. Capability: Mini-PCs with at least 8 GB VRAM get a passthrough hint.
//  5. Aggregate sizing: 64 GB or more of total RAM without any NAS.
//
// Rules 2 and 3 run in a single pass over the links, so their messages are
// interleaved per link.
//
// # Output
//
// Messages are deduplicated by exact string equality, keeping the first
// occurrence. An empty result is replaced by [NoIssues]:
//
//	advice := advisor.New().Advise(store.Snapshot())
//	for _, line := range advice {
//	    fmt.Println("•", line)
//	}
//
// Links whose endpoints cannot be resolved are skipped by the link rules.
// They are not reported as errors.
package advisor
