// Package topology holds the in-memory home-lab graph: nodes (servers,
// storage, switches, GPUs, services) and the links between them.
//
// # Overview
//
// A [Store] is the single authority over one lab sketch. It keeps nodes and
// links in insertion order for display stability, indexes nodes by name, and
// guarantees referential integrity for links:
//
//	s := topology.New()
//	_ = s.AddNode(topology.Node{Name: "head-01", Type: topology.TypeHeadServer, CPU: 16, RAM: 64})
//	_ = s.AddNode(topology.Node{Name: "nas-01", Type: topology.TypeNAS, RAM: 16})
//	_ = s.AddLink(topology.Link{Source: "head-01", Target: "nas-01", BW: 10, Media: topology.MediaDAC})
//
// # Links
//
// Links always refer to nodes by name. [Store.Resolve] is the one lookup used
// to turn a name into a node; nothing in the module stores node pointers on
// links.
//
// # Snapshots
//
// [Store.Snapshot] returns an independent copy of the current nodes and links.
// Consumers (the advisor, exporters, the renderer) work on snapshots only and
// never observe a half-applied mutation.
//
// # Concurrency
//
// A Store is not safe for concurrent use. The session package serializes
// commands against a store.
package topology
