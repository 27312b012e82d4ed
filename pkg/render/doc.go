// Package render converts rendered topology diagrams between formats.
//
// Diagrams are produced as SVG by [nodelink]. [ToPDF] and [ToPNG] convert
// that SVG with the external rsvg-convert tool from librsvg:
//
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(snap, nodelink.Options{}))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [nodelink]: github.com/matzehuels/labforge/pkg/render/nodelink
package render
