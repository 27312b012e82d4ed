package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labforge/pkg/session"
)

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit the topology interactively",
		Long: `Open an interactive editor over the topology. Nodes and links can be added
through forms; the advice panel updates after every change. Exports are
written to --out-dir.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), argPath(args), outDir)
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory for JSON and plan exports")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, path, outDir string) error {
	// Log lines would tear the alt screen.
	ctx = withLogger(ctx, quietLogger(c.Logger))

	ws, err := c.openWorkspace(ctx, path)
	if err != nil {
		return err
	}
	defer ws.Close()

	p := tea.NewProgram(NewEditorModel(ctx, ws.Session, outDir), tea.WithAltScreen(), tea.WithContext(ctx))
	// Commands issued from Update publish synchronously, so sending from this
	// goroutine would block the event loop. Out-of-order views are dropped
	// by version.
	unsubscribe := ws.Subscribe(func(v session.View) { go p.Send(viewMsg(v)) })
	defer unsubscribe()

	_, err = p.Run()
	return err
}
