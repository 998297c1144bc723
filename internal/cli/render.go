package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deepgen/famtree/pkg/config"
	"github.com/deepgen/famtree/pkg/layout"
	"github.com/deepgen/famtree/pkg/pipeline"
	"github.com/deepgen/famtree/pkg/source"
)

// treeFlags are the tree-shaping flags shared by render and view.
type treeFlags struct {
	root        string
	mode        string
	generations int
}

func (f *treeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.root, "root", "r", "", "root person: name, @XREF@ or a suggestion label")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "tree mode: ancestors or descendants (default from config)")
	cmd.Flags().IntVarP(&f.generations, "generations", "g", 0, "generations to show, 1-16 (default from config)")
}

// apply overlays the flags that were set on opts.
func (f *treeFlags) apply(opts *pipeline.Options) {
	opts.Root = f.root
	if f.mode != "" {
		opts.Mode = layout.Mode(f.mode)
	}
	if f.generations != 0 {
		opts.Generations = f.generations
	}
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	treeFlags
	formats []string
	output  string // output file, or base path when several formats are written
	width   int
	height  int
	noCache bool
	refresh bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "render <people-file>",
		Short: "Render a family tree to SVG, DOT or JSON",
		Long: `Render builds the tree rooted at --root from a JSON or YAML person list
and writes it in one or more formats. With a single format and no --output the
result goes to stdout.`,
		Example: `  famtree render people.json --root "Ada Lovelace" -o ada.svg
  famtree render people.yaml -r @I1@ -m descendants -g 3 -f svg,json -o ada`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, graphviz (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "SVG viewport width (default 1200)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "SVG viewport height (default 800)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{pipeline.FormatSVG, pipeline.FormatDOT, pipeline.FormatJSON, pipeline.FormatGraphviz},
		cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("mode", cobra.FixedCompletions(
		[]string{string(layout.Ancestors), string(layout.Descendants)}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cfg config.Config, path string, opts *renderOpts) error {
	prog := newProgress(c.Logger)

	persons, err := source.NewFile(path).Load(ctx)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded people", "path", path, "count", len(persons))

	popts := cfg.PipelineOptions()
	opts.apply(&popts)
	popts.Formats = opts.formats
	popts.ViewportWidth = opts.width
	popts.ViewportHeight = opts.height
	popts.Refresh = opts.refresh

	runner := c.newRunner(ctx, cfg, opts.noCache)
	defer runner.Close()

	res, err := runner.Build(ctx, pipeline.NewDataset(persons), popts)
	if err != nil {
		return err
	}
	artifacts, cached, err := runner.Render(ctx, res, popts)
	if err != nil {
		return err
	}

	if len(opts.formats) == 1 && opts.output == "" {
		_, err := c.out.Write(artifacts[opts.formats[0]])
		return err
	}

	written := make([]string, 0, len(opts.formats))
	for _, format := range opts.formats {
		dst := outputPath(opts.output, path, format, len(opts.formats) > 1)
		if err := os.WriteFile(dst, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
		written = append(written, dst)
	}

	printSuccess(c.out, "%s", res.Status)
	printStats(c.out, res.Stats.NodeCount, res.Stats.EdgeCount, cached)
	for _, f := range written {
		printFile(c.out, f)
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(written)))
	return nil
}

// parseFormats parses the --format flag. Empty means svg.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []string{pipeline.FormatSVG}
	}
	return out
}

// formatExt is the file extension written for each format.
var formatExt = map[string]string{
	pipeline.FormatSVG:      ".svg",
	pipeline.FormatDOT:      ".dot",
	pipeline.FormatJSON:     ".json",
	pipeline.FormatGraphviz: ".graphviz.svg",
}

// outputPath picks the file for one format. Without --output the input file
// name is reused; with several formats --output is a base path whose
// extension, if any, is replaced.
func outputPath(output, input, format string, multi bool) string {
	if output != "" && !multi {
		return output
	}
	base := output
	if base == "" {
		base = input
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + formatExt[format]
}
