package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Gor-c/emind/pkg/config"
	"github.com/Gor-c/emind/pkg/export"
	mindio "github.com/Gor-c/emind/pkg/io"
	"github.com/Gor-c/emind/pkg/pipeline"
	"github.com/Gor-c/emind/pkg/tree"
)

const (
	formatPNG  = "png"
	formatSVG  = "svg"
	formatJSON = "json"

	defaultJobs = 4
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatPNG: true, formatSVG: true, formatJSON: true}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (one input, one format), base path (one input), or directory
	formats []string // png, svg, json
	width   int      // viewport width
	height  int      // viewport height
	noCache bool
	jobs    int // inputs rendered at once
}

// rendered is the outcome for one input file.
type rendered struct {
	input  string
	files  []string
	nodes  int
	edges  int
	cached bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{jobs: defaultJobs}

	cmd := &cobra.Command{
		Use:   "render <tree.json|tree.yaml>...",
		Short: "Export mind maps to PNG, SVG, or JSON",
		Long: `Export mind maps to PNG, SVG, or JSON.

Each input is a JSON or YAML tree. PNG is the default; svg writes the
vector document the PNG is drawn from and json writes the tree back out.
Files are named VisionMind_<root>.<format> unless -o is given.

With several inputs, -o names a directory and the inputs are rendered
concurrently.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, base path, or directory (several inputs)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), svg, json (comma-separated)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "viewport height (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "inputs rendered concurrently")

	return cmd
}

// parseFormats parses the --format flag. If empty, defaults to ["png"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatPNG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	if len(formats) == 0 {
		return fmt.Errorf("no output format given")
	}
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'png', 'svg', or 'json')", f)
		}
	}
	return nil
}

// runRender renders every input and reports the written files.
func (c *CLI) runRender(ctx context.Context, cfg config.Config, inputs []string, opts renderOpts) error {
	if opts.width <= 0 {
		opts.width = cfg.Server.Width
	}
	if opts.height <= 0 {
		opts.height = cfg.Server.Height
	}
	if len(inputs) > 1 && opts.output != "" {
		if err := os.MkdirAll(opts.output, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	store, err := c.newCache(cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()
	keyer := newKeyer()

	prog := newProgress(loggerFromContext(ctx))
	spin := newSpinner(ctx, fmt.Sprintf("Rendering %d file(s)...", len(inputs)))
	spin.Start()

	results := make([]rendered, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.jobs))
	for i, input := range inputs {
		g.Go(func() error {
			runner, err := pipeline.NewRunner(cfg, store, keyer, c.Logger)
			if err != nil {
				return err
			}
			res, err := renderFile(gctx, runner, input, len(inputs) > 1, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			results[i] = res
			return nil
		})
	}
	err = g.Wait()
	spin.Stop()
	if err != nil {
		if spin.Cancelled() {
			return ctx.Err()
		}
		printError("Render failed")
		return err
	}

	for _, r := range results {
		printSuccess("Rendered %s", r.input)
		for _, f := range r.files {
			printFile(f)
		}
		printStats(r.nodes, r.edges, r.cached)
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(inputs)))
	return nil
}

// renderFile loads one input, renders it, and writes every format.
func renderFile(ctx context.Context, runner *pipeline.Runner, input string, multi bool, opts renderOpts) (rendered, error) {
	out := rendered{input: input}

	root, err := mindio.Import(input)
	if err != nil {
		return out, err
	}
	if err := runner.Render(ctx, root, opts.width, opts.height); err != nil {
		return out, err
	}
	d := runner.Diagram()
	out.nodes, out.edges = len(d.Layout.Nodes), len(d.Layout.Edges)

	prefix := runner.Config().Export.Prefix
	for _, format := range opts.formats {
		data, cached, err := artifact(ctx, runner, root, format)
		if err != nil {
			return out, fmt.Errorf("%s: %w", format, err)
		}
		out.cached = out.cached || cached
		path := outputPath(opts.output, prefix, root.Name, format, multi, len(opts.formats) > 1)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return out, fmt.Errorf("write %s: %w", path, err)
		}
		out.files = append(out.files, path)
	}
	return out, nil
}

// artifact produces one output format for the runner's current diagram.
func artifact(ctx context.Context, runner *pipeline.Runner, root *tree.Node, format string) ([]byte, bool, error) {
	switch format {
	case formatPNG:
		res, err := runner.ExportImage(ctx)
		if err != nil {
			return nil, false, err
		}
		return res.PNG, res.Cached, nil
	case formatSVG:
		doc, err := runner.ExportDocument()
		return doc, false, err
	case formatJSON:
		var buf bytes.Buffer
		if err := mindio.WriteJSON(root, &buf); err != nil {
			return nil, false, err
		}
		return buf.Bytes(), false, nil
	default:
		return nil, false, fmt.Errorf("unknown format: %s", format)
	}
}

// outputPath picks the file for one format of one input.
//
// Without -o, files go to the working directory under their export name.
// With several inputs, -o is a directory. With one input and several
// formats, -o is a base path whose extension is replaced per format.
func outputPath(output, prefix, rootName, format string, multi, multiFormat bool) string {
	name := strings.TrimSuffix(export.SafeFileName(prefix, rootName), ".png") + "." + format
	switch {
	case output == "":
		return name
	case multi:
		return filepath.Join(output, name)
	case multiFormat:
		return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
	default:
		return output
	}
}
