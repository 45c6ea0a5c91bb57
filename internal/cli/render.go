package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhertel/xdsmview/pkg/pipeline"
	"github.com/mhertel/xdsmview/pkg/xdsm"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output        string   // output file path (or base path for multiple formats)
	formats       []string // output formats: "dot", "svg", "png", "json"
	root          string   // diagram to start from
	showVariables bool     // label edges with coupling variables
	statuses      bool     // color nodes by execution status
	noCache       bool     // bypass the artifact cache
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		root: xdsm.RootName,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a workflow document to DOT, SVG, or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, c.Config.Render.Format)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, json (comma-separated)")
	cmd.Flags().StringVar(&opts.root, "root", opts.root, "diagram to start from")
	cmd.Flags().BoolVar(&opts.showVariables, "variables", c.Config.Render.ShowVariables, "label edges with coupling variables")
	cmd.Flags().BoolVar(&opts.statuses, "statuses", false, "color nodes by execution status")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts *renderOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Path:          path,
		Root:          opts.root,
		Formats:       opts.formats,
		ShowVariables: opts.showVariables,
		Statuses:      opts.statuses,
		Refresh:       opts.noCache,
		Logger:        c.Logger,
	})
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", filepath.Base(path))
	printStats(result.Stats.DiagramCount, result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)

	for _, format := range opts.formats {
		out := outputPath(path, opts.output, format, len(opts.formats) > 1)
		if err := os.WriteFile(out, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		printFile(out)
	}
	return nil
}

// outputPath derives the output filename for a format. With multiple formats
// the explicit output acts as a base path and each format gets its own
// extension.
func outputPath(input, output, format string, multi bool) string {
	if output != "" && !multi {
		return output
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	out := base + "." + format
	// Never clobber the input document.
	if out == input {
		out = base + ".out." + format
	}
	return out
}
