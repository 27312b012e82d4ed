package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labforge/pkg/render"
	"github.com/matzehuels/labforge/pkg/render/nodelink"
	"github.com/matzehuels/labforge/pkg/topology"
)

const defaultPNGScale = 2.0

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple outputs)
	formats  []string // output formats: "dot", "svg", "pdf", "png"
	detailed bool     // label nodes with type and capacities
	layout   string   // Graphviz layout engine
	scale    float64  // PNG scale factor
}

// renderCommand creates the render command for drawing the topology.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: defaultPNGScale}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw the topology as a node-link diagram",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return runRender(cmd.Context(), argPath(args), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with type and capacities")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "Graphviz layout engine (default neato)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(parts[i]))
	}
	return parts
}

// validateFormats checks that all requested formats are supported.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(render.Formats, f) {
			return fmt.Errorf("invalid format: %s (must be one of %s)", f, strings.Join(render.Formats, ", "))
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input, falling back to
// "homelab" for the demo lab. A known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return "homelab"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(render.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runRender loads the topology and writes one file per requested format.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	store, err := loadStore(input)
	if err != nil {
		return err
	}
	snap := store.Snapshot()
	logger.Debug("loaded topology", "nodes", len(snap.Nodes), "links", len(snap.Links))

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := base + "." + format
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}

		data, err := renderTopologyAs(ctx, snap, format, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Debug("generated", "format", format, "bytes", len(data))
		printFile(path)
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(opts.formats)))
	return nil
}

// renderTopologyAs produces the bytes for one output format.
func renderTopologyAs(ctx context.Context, snap topology.Snapshot, format string, opts *renderOpts) ([]byte, error) {
	dot := nodelink.ToDOT(snap, nodelink.Options{Detailed: opts.detailed, Layout: opts.layout})
	if format == render.FormatDOT {
		return []byte(dot), nil
	}

	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case render.FormatSVG:
		return svg, nil
	case render.FormatPDF:
		return render.ToPDF(ctx, svg)
	case render.FormatPNG:
		return render.ToPNG(ctx, svg, opts.scale)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
