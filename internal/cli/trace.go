package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stresslayout/pkg/core/majorize"
	"github.com/matzehuels/stresslayout/pkg/graph"
)

// traceCommand creates the trace command for inspecting convergence.
func (c *CLI) traceCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "trace [layout.json]",
		Short: "Browse the convergence trace of a layout",
		Long: `Browse the convergence trace of a layout.

Each row is one iteration: the generic algorithm records the mean displacement
of the nodes, the flat algorithm the summed displacement. Use --plain to print
the whole trace as a table instead of opening the interactive browser.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := graph.ReadLayoutFile(args[0])
			if err != nil {
				return fmt.Errorf("load layout %s: %w", args[0], err)
			}
			if plain {
				return printTrace(cmd.OutOrStdout(), layout)
			}
			p := tea.NewProgram(NewTraceModel(layout), tea.WithContext(cmd.Context()), tea.WithOutput(os.Stderr))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the trace as a table")

	return cmd
}

// printTrace writes the summary and the full trace table to w.
func printTrace(w io.Writer, l graph.Layout) error {
	tr := majorize.Trace(l.Trace)
	if _, err := fmt.Fprintln(w, traceSummary(l)); err != nil {
		return err
	}
	if len(tr) == 0 {
		_, err := fmt.Fprintln(w, listDimStyle.Render("(empty trace)"))
		return err
	}
	_, err := fmt.Fprintln(w, traceTable(tr, tr.Peak(), 0, len(tr), -1).Render())
	return err
}
