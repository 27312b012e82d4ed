// Package nodelink draws a lab topology as a Graphviz node-link diagram.
//
// # Usage
//
//	dot := nodelink.ToDOT(store.Snapshot(), nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Styling
//
// Node fill colours follow the node type ([NodeColor]); unknown types use
// the default grey. Links are undirected edges coloured by bandwidth
// ([LinkColor]): red below 10 Gbps, green from 25 Gbps, amber in between.
// Pen width grows with log2 of the bandwidth, never thinner than 0.5.
//
// The diagram uses the neato spring layout by default since a lab has no
// natural hierarchy. Set [Options.Layout] to "dot" for a ranked layout.
//
// Rendering to SVG happens in-process via [github.com/goccy/go-graphviz].
package nodelink
