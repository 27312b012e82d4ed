package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labforge/pkg/assist"
	"github.com/matzehuels/labforge/pkg/session"
)

// adviseOpts holds the command-line flags for the advise command.
type adviseOpts struct {
	assistant bool // also ask the external assistant
	jsonOut   bool // print findings as JSON instead of text
	quiet     bool // advice only, no topology table
}

// adviseCommand creates the advise command.
func (c *CLI) adviseCommand() *cobra.Command {
	var opts adviseOpts

	cmd := &cobra.Command{
		Use:   "advise [file]",
		Short: "Print the topology and configuration advice",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAdvise(cmd.Context(), argPath(args), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.assistant, "assistant", "a", false, "also ask the configured assistant")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print findings as JSON")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "print advice only")

	return cmd
}

func (c *CLI) runAdvise(ctx context.Context, path string, opts adviseOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	ws, err := c.openWorkspace(ctx, path)
	if err != nil {
		return err
	}
	defer ws.Close()

	view := ws.View()
	if opts.assistant || ws.cfg.Assistant.Enabled {
		view = c.awaitAssistant(ctx, ws)
	}
	prog.done(fmt.Sprintf("Advised on %s", formatStats(view.Stats)))

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(struct {
			Findings  any `json:"findings"`
			Assistant any `json:"assistant"`
		}{view.Findings, view.Assistant})
	}

	if !opts.quiet {
		fmt.Println(renderTopology(view.Topology))
		fmt.Print(renderLinks(view.Topology))
		printStats(view.Stats)
		printNewline()
	}
	fmt.Print(renderDisplay(view.Display, view.Findings))
	return nil
}

// awaitAssistant enables the assistant and waits for it with a spinner,
// bounded by the configured timeout.
func (c *CLI) awaitAssistant(ctx context.Context, ws *workspace) (view session.View) {
	done := make(chan session.View, 1)
	unsubscribe := ws.Subscribe(func(v session.View) {
		if v.Assistant.State == assist.StateReady || v.Assistant.State == assist.StateUnavailable {
			select {
			case done <- v:
			default:
			}
		}
	})
	defer unsubscribe()

	timeout := ws.cfg.Assistant.Timeout.Duration
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, 2*timeout)
	defer cancel()

	spin := newSpinner(ctx, os.Stderr, "Asking assistant...")
	spin.Start()
	ws.SetAssistant(ctx, true)

	select {
	case view = <-done:
		if view.Assistant.State == assist.StateReady {
			spin.StopWithSuccess("Assistant answered")
		} else {
			spin.Stop()
		}
	case <-ctx.Done():
		spin.Stop()
		ws.SetAssistant(context.Background(), false)
		printWarning("Assistant did not answer in time")
		view = ws.View()
	}
	return view
}
