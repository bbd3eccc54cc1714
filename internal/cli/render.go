package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stresslayout/pkg/graph"
	"github.com/matzehuels/stresslayout/pkg/pipeline"
)

// renderCommand creates the render command: solve and render in one step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		keepLayout bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [problem.json|problem.toml]",
		Short: "Solve a problem and render the layout",
		Long: `Solve a problem and render the layout.

Equivalent to 'layout' followed by 'visualize'. Use --keep-layout to also
write the intermediate layout.json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.resolveOptions(&opts, formatsStr); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache, keepLayout)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&keepLayout, "keep-layout", false, "also write <input>.layout.json")
	addSolveFlags(cmd, &opts)
	addRenderFlags(cmd, &opts, &formatsStr)

	return cmd
}

// runRender solves the problem and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache, keepLayout bool) error {
	problem, err := graph.ReadProblemFile(input)
	if err != nil {
		return fmt.Errorf("load problem %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	layout, solveHit, err := c.solve(ctx, runner, problem, opts)
	if err != nil {
		return err
	}
	if keepLayout {
		path := trimInputExt(input) + ".layout.json"
		if err := graph.WriteLayoutFile(layout, path); err != nil {
			return fmt.Errorf("write layout %s: %w", path, err)
		}
		printFile(path)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()
	artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  renderHit,
	}); err != nil {
		return err
	}
	printStats(len(layout.Nodes), layout.Iterations, layout.Converged, solveHit)
	return nil
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactWriteParams groups the inputs of writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cacheHit  bool
}

// writeArtifacts writes each artifact to disk. With a single format and an
// explicit output, the output is the file name; otherwise files are named
// <base>.<format>.
func writeArtifacts(p artifactWriteParams) error {
	paths := artifactPaths(p.formats, p.input, p.output)
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			return fmt.Errorf("renderer produced no %s output", format)
		}
		path := paths[format]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	status := "Rendered"
	if p.cacheHit {
		status = "Rendered (cached)"
	}
	printSuccess("%s %s", status, strings.Join(p.formats, ", "))
	for _, format := range p.formats {
		printFile(paths[format])
	}
	return nil
}

// artifactPaths maps each format to its output file.
func artifactPaths(formats []string, input, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, format := range formats {
		paths[format] = base + "." + format
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return trimInputExt(input)
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

