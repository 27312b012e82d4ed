// Package pkg provides the core libraries for Labforge home-lab planning.
//
// # Overview
//
// Labforge models a home lab as a small undirected topology of machines and
// the links between them, checks it against a fixed battery of sizing rules
// and optionally asks a chat-completion endpoint for a second opinion. The
// pkg directory is organized into four areas:
//
//  1. Domain: [topology] (nodes, links, the store) and [advisor] (rules).
//  2. Orchestration: [session] serializes edits and publishes views, and
//     [assist] runs the optional assistant beside the rules.
//  3. Formats: [io] (topology documents), [plan] (build plans) and [render]
//     (node-link diagrams).
//  4. Infrastructure: [cache], [config], [errors], [httputil],
//     [observability] and [buildinfo].
//
// # Architecture
//
// Every edit flows through a session:
//
//	command (CLI, editor, HTTP)
//	         ↓
//	    [session] (mutate store, re-run rules)
//	         ↓
//	    [advisor] findings + [assist] status
//	         ↓
//	    View → subscribers, exports, diagrams
//
// # Quick Start
//
// Advise on the demo lab:
//
//	sess := session.New(session.Options{})
//	defer sess.Close()
//
//	v, err := sess.AddNode(ctx, topology.Node{Name: "nas-02", Type: topology.TypeNAS, RAM: 16})
//	if err != nil {
//	    return err
//	}
//	for _, line := range v.Advice {
//	    fmt.Println("•", line)
//	}
//
// Render the topology:
//
//	dot := nodelink.ToDOT(sess.Snapshot(), nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Error Handling
//
// Operations that can fail return errors carrying a code from [errors], so
// the CLI and the HTTP API report the same failure the same way:
//
//	if lferrors.Is(err, lferrors.ErrCodeUnknownEndpoint) {
//	    // a link named a node that does not exist
//	}
//
// # Concurrency
//
// [topology.Store] is not safe for concurrent use on its own; [session.Session]
// guards it with a mutex and applies one command at a time. The assistant
// request runs in the background and its result arrives as a later view.
//
// [topology]: github.com/matzehuels/labforge/pkg/topology
// [advisor]: github.com/matzehuels/labforge/pkg/advisor
// [session]: github.com/matzehuels/labforge/pkg/session
// [session.Session]: github.com/matzehuels/labforge/pkg/session#Session
// [topology.Store]: github.com/matzehuels/labforge/pkg/topology#Store
// [assist]: github.com/matzehuels/labforge/pkg/assist
// [io]: github.com/matzehuels/labforge/pkg/io
// [plan]: github.com/matzehuels/labforge/pkg/plan
// [render]: github.com/matzehuels/labforge/pkg/render
// [cache]: github.com/matzehuels/labforge/pkg/cache
// [config]: github.com/matzehuels/labforge/pkg/config
// [errors]: github.com/matzehuels/labforge/pkg/errors
// [httputil]: github.com/matzehuels/labforge/pkg/httputil
// [observability]: github.com/matzehuels/labforge/pkg/observability
// [buildinfo]: github.com/matzehuels/labforge/pkg/buildinfo
package pkg
