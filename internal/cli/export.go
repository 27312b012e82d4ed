package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	lferrors "github.com/matzehuels/labforge/pkg/errors"
)

// Export kinds.
const (
	exportJSON = "json"
	exportPlan = "plan"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export json|plan [file]",
		Short: "Write the topology JSON document or the build plan",
		Long: `Write the topology as a JSON document (nodes, links and the static policy
block) or as a YAML-style build plan (bill of materials, ansible targets and
links). Output goes to stdout unless --output is given.`,
		ValidArgs: []string{exportJSON, exportPlan},
		Args:      cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], argPath(args[1:]), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, kind, path, output string) error {
	ws, err := c.openWorkspace(ctx, path)
	if err != nil {
		return err
	}
	defer ws.Close()

	var buf bytes.Buffer
	switch kind {
	case exportJSON:
		err = ws.ExportJSON(&buf)
	case exportPlan:
		err = ws.ExportPlan(&buf)
	default:
		return lferrors.New(lferrors.ErrCodeInvalidInput, "unknown export kind %q (want json or plan)", kind)
	}
	if err != nil {
		return err
	}

	if output == "" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Exported %s", kind)
	printFile(output)
	if kind == exportJSON {
		printNextStep("Advise on it", "labforge advise "+output)
	}
	return nil
}
