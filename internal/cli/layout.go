package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stresslayout/pkg/graph"
	"github.com/matzehuels/stresslayout/pkg/pipeline"
)

// layoutCommand creates the layout command for solving a problem.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [problem.json|problem.toml]",
		Short: "Solve a layout problem",
		Long: `Solve a layout problem.

The layout command reads a problem document (nodes with initial positions,
optional per-pair targets and ignored pairs) and runs stress majorization
until the positions stop moving. The output is a layout.json file that can be
rendered with the 'visualize' command or inspected with 'trace'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.resolveOptions(&opts, ""); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addSolveFlags(cmd, &opts)

	return cmd
}

// runLayout loads the problem, solves it, and writes the layout.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	problem, err := graph.ReadProblemFile(input)
	if err != nil {
		return fmt.Errorf("load problem %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	layout, cacheHit, err := c.solve(ctx, runner, problem, opts)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = trimInputExt(input) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(layout.Nodes), layout.Iterations, layout.Converged, cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)
	printNextStep("Inspect", appName+" trace "+outputPath)

	return nil
}

// solve runs the solve stage behind a spinner.
func (c *CLI) solve(ctx context.Context, runner *pipeline.Runner, problem graph.Problem, opts pipeline.Options) (graph.Layout, bool, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Solving %d nodes (%s)...", len(problem.Nodes), opts.Algorithm))
	spinner.Start()

	layout, cacheHit, err := runner.SolveWithCacheInfo(ctx, problem, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return graph.Layout{}, false, fmt.Errorf("solve: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return graph.Layout{}, false, ctx.Err()
	}
	logger.Debug("solve finished", "iterations", layout.Iterations, "converged", layout.Converged, "cached", cacheHit)
	prog.done(fmt.Sprintf("Solved %d nodes", len(layout.Nodes)))
	return layout, cacheHit, nil
}
