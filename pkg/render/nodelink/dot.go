package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/labforge/pkg/topology"
)

// Options configures diagram generation.
type Options struct {
	// Detailed labels nodes with their type and capacities.
	// When false, only the name is shown.
	Detailed bool

	// Layout is the Graphviz engine ("neato" when empty).
	Layout string
}

// ToDOT converts a topology snapshot to Graphviz DOT source.
//
// Links are emitted in snapshot order as undirected edges. Links whose
// endpoints are not in the snapshot are skipped.
func ToDOT(snap topology.Snapshot, opts Options) string {
	layout := opts.Layout
	if layout == "" {
		layout = "neato"
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", layout)
	buf.WriteString("  bgcolor=\"#0b0f10\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fontcolor=\"#d9e6ea\", fontsize=12, color=\"#0b0f10\"];\n")
	buf.WriteString("  edge [fontcolor=\"#d9e6ea\", fontsize=10];\n")
	buf.WriteString("\n")

	idx := snap.Index()
	for _, n := range snap.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Name, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, l := range snap.Links {
		if _, ok := idx[l.Source]; !ok {
			continue
		}
		if _, ok := idx[l.Target]; !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", l.Source, l.Target, strings.Join(linkAttrs(l), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n topology.Node, detailed bool) []string {
	label := n.Name
	if detailed {
		label = n.Label()
	}
	return []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("tooltip=%q", n.Label()),
		fmt.Sprintf("fillcolor=%q", NodeColor(n.Type)),
	}
}

func linkAttrs(l topology.Link) []string {
	bw := strconv.FormatFloat(l.BW, 'f', -1, 64)
	attrs := []string{
		fmt.Sprintf("color=%q", LinkColor(l.BW)),
		fmt.Sprintf("penwidth=%s", strconv.FormatFloat(LinkWidth(l.BW), 'f', 2, 64)),
		fmt.Sprintf("label=%q", bw+"G"),
	}
	if l.Media != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", l.Media+" "+bw+" Gbps"))
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales to its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
