package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	mindio "github.com/Gor-c/emind/pkg/io"
	"github.com/Gor-c/emind/pkg/layout"
	"github.com/Gor-c/emind/pkg/tree"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		asTable bool
	)

	cmd := &cobra.Command{
		Use:   "layout <tree.json|tree.yaml>",
		Short: "Print the computed layout of a mind map",
		Long: `Print the computed layout of a mind map.

The output is JSON: the spacing in use, the number of root branches on each
side, and every node with its depth, side, and (along, across) position.
Edges are [parent, child] index pairs into the node list.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asTable {
				return c.runLayoutTable(cmd.Context(), args[0])
			}
			return c.runLayout(cmd.Context(), args[0], output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&asTable, "table", false, "print a table instead of JSON")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, output string, noCache bool) error {
	root, err := mindio.Import(input)
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	data, cached, err := runner.LayoutJSON(ctx, root)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	data = append(data, '\n')

	if output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Layout complete")
	printFile(output)
	n := tree.Count(root)
	printStats(n, n-1, cached)
	printNewline()
	printNextStep("Render", appName+" render "+input)
	return nil
}

func (c *CLI) runLayoutTable(ctx context.Context, input string) error {
	root, err := mindio.Import(input)
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	l, err := layout.Compute(root, cfg.Layout)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	fmt.Fprintln(stdout, layoutTable(l))
	printKeyValue("vertical", strconv.FormatFloat(l.Spacing.Vertical, 'f', -1, 64))
	printKeyValue("horizontal", strconv.FormatFloat(l.Spacing.Horizontal, 'f', -1, 64))
	return nil
}

// layoutTable renders the positioned nodes as a bordered table.
func layoutTable(l *layout.Layout) string {
	rows := make([][]string, len(l.Nodes))
	for i, n := range l.Nodes {
		rows[i] = []string{
			strconv.Itoa(i),
			n.Name(),
			strconv.Itoa(n.Depth),
			n.Side.String(),
			strconv.FormatFloat(n.Along, 'f', 1, 64),
			strconv.FormatFloat(n.Across, 'f', 1, 64),
		}
	}
	header := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Name", "Depth", "Side", "Along", "Across").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return header
			}
			if row == 0 {
				return lipgloss.NewStyle().Foreground(colorIndigo).Bold(true)
			}
			return lipgloss.NewStyle()
		}).
		String()
}
