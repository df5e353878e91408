package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Gor-c/emind/pkg/config"
	"github.com/Gor-c/emind/pkg/pipeline"
)

const defaultDebounce = 200 * time.Millisecond

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var formatsStr string
	var debounce time.Duration
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "watch <tree.json|tree.yaml>",
		Short: "Re-export a mind map whenever its file changes",
		Long: `Re-export a mind map whenever its file changes.

Every save is a new diagram. A save that does not parse or lay out is
logged and the files from the last good save are left in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), cfg, args[0], opts, debounce)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default: working directory)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), svg, json (comma-separated)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "viewport height (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "wait this long after the last change before rendering")

	return cmd
}

// reloader renders one input on demand, remembering the last good result.
type reloader struct {
	runner *pipeline.Runner
	logger *log.Logger
	input  string
	opts   renderOpts
	last   rendered
	good   bool
}

// reload renders the input again. On failure the previous outputs are
// untouched and the error is returned.
func (r *reloader) reload(ctx context.Context) error {
	res, err := renderFile(ctx, r.runner, r.input, r.opts.output != "", r.opts)
	if err != nil {
		r.logger.Error("render failed", "file", r.input, "err", err)
		return err
	}
	r.last, r.good = res, true
	printSuccess("Rendered %s", r.input)
	for _, f := range res.files {
		printFile(f)
	}
	return nil
}

func (c *CLI) runWatch(ctx context.Context, cfg config.Config, input string, opts renderOpts, debounce time.Duration) error {
	if opts.width <= 0 {
		opts.width = cfg.Server.Width
	}
	if opts.height <= 0 {
		opts.height = cfg.Server.Height
	}
	if opts.output != "" {
		if err := os.MkdirAll(opts.output, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	runner, err := c.newRunner(cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	// Editors often save by renaming a temp file over the original, so
	// watch the directory and filter by name.
	target, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	r := &reloader{runner: runner, logger: c.Logger, input: input, opts: opts}
	_ = r.reload(ctx)
	printNextStep("Watching", input+" (ctrl+c to stop)")

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !sameFile(ev.Name, target) || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			c.Logger.Debug("file changed", "file", ev.Name, "op", ev.Op)
			pending = time.After(debounce)
		case <-pending:
			pending = nil
			_ = r.reload(ctx)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "err", err)
		}
	}
}

func sameFile(name, target string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return abs == target
}
