package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Gor-c/emind/pkg/config"
	"github.com/Gor-c/emind/pkg/export"
	mindio "github.com/Gor-c/emind/pkg/io"
	"github.com/Gor-c/emind/pkg/pipeline"
	"github.com/Gor-c/emind/pkg/scene"
	"github.com/Gor-c/emind/pkg/tree"
)

// A terminal cell stands for cellW×cellH screen pixels.
const (
	cellW = 8
	cellH = 16

	frameInterval = time.Second / 30
	panStep       = 4 * cellW
	zoomStep      = 100.0 // wheel delta per key press
	edgeSamples   = 24
)

var (
	viewEdgeStyle   = lipgloss.NewStyle().Foreground(colorDim)
	viewNodeStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	viewRootStyle   = lipgloss.NewStyle().Foreground(colorIndigo).Bold(true)
	viewStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	viewHelp        = "←↓↑→/hjkl pan  +/- zoom  drag pan  f fit  r reset  e export  q quit"
)

// viewCommand creates the view command.
func (c *CLI) viewCommand() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "view <tree.json|tree.yaml>",
		Short: "Pan and zoom a mind map in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runView(cmd.Context(), cfg, args[0], outDir)
		},
	}
	cmd.Flags().StringVarP(&outDir, "output-dir", "o", ".", "directory for images exported with 'e'")
	return cmd
}

func (c *CLI) runView(ctx context.Context, cfg config.Config, input, outDir string) error {
	root, err := mindio.Import(input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(cfg, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	// The alternate screen owns the terminal; keep render logs out of it.
	runner.Logger = log.New(io.Discard)

	m := newViewModel(ctx, runner, root, input, outDir)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if vm, ok := final.(*viewModel); ok && vm.exported != "" {
		printSuccess("Exported")
		printFile(vm.exported)
	}
	return nil
}

type tickMsg time.Time

// viewModel draws the current diagram as text through the runner's
// viewport controller.
type viewModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	root   *tree.Node
	input  string
	outDir string

	cols, rows int
	dragging   bool
	lastX      int
	lastY      int
	ticking    bool
	status     string
	exported   string
	err        error
}

func newViewModel(ctx context.Context, runner *pipeline.Runner, root *tree.Node, input, outDir string) *viewModel {
	return &viewModel{ctx: ctx, runner: runner, root: root, input: input, outDir: outDir, status: viewHelp}
}

func (m *viewModel) Init() tea.Cmd { return nil }

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, max(1, msg.Height-2)
		if err := m.runner.Render(m.ctx, m.root, m.cols*cellW, m.rows*cellH); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, m.animate()

	case tickMsg:
		m.ticking = false
		if ctrl := m.runner.Controller(); ctrl != nil && ctrl.Advance(frameInterval) {
			return m, m.animate()
		}
		return m, nil

	case tea.KeyMsg:
		return m.key(msg)

	case tea.MouseMsg:
		m.mouse(msg)
	}
	return m, nil
}

func (m *viewModel) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.runner.Controller()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	}
	if ctrl == nil {
		return m, nil
	}

	cx, cy := float64(m.cols*cellW)/2, float64(m.rows*cellH)/2
	switch msg.String() {
	case "left", "h":
		ctrl.Pan(panStep, 0)
	case "right", "l":
		ctrl.Pan(-panStep, 0)
	case "up", "k":
		ctrl.Pan(0, panStep)
	case "down", "j":
		ctrl.Pan(0, -panStep)
	case "+", "=":
		ctrl.Wheel(cx, cy, -zoomStep)
	case "-", "_":
		ctrl.Wheel(cx, cy, zoomStep)
	case "f":
		if err := m.runner.AutoFit(); err != nil {
			m.status = err.Error()
		}
		return m, m.animate()
	case "r":
		if err := m.runner.ResetView(); err != nil {
			m.status = err.Error()
		}
		return m, m.animate()
	case "e":
		m.export()
	}
	return m, nil
}

func (m *viewModel) mouse(msg tea.MouseMsg) {
	ctrl := m.runner.Controller()
	if ctrl == nil {
		return
	}
	x, y := float64(msg.X*cellW), float64(msg.Y*cellH)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		ctrl.Wheel(x, y, -zoomStep)
	case msg.Button == tea.MouseButtonWheelDown:
		ctrl.Wheel(x, y, zoomStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		ctrl.Press()
		m.dragging, m.lastX, m.lastY = true, msg.X, msg.Y
	case msg.Action == tea.MouseActionMotion && m.dragging:
		ctrl.Pan(float64((msg.X-m.lastX)*cellW), float64((msg.Y-m.lastY)*cellH))
		m.lastX, m.lastY = msg.X, msg.Y
	case msg.Action == tea.MouseActionRelease:
		ctrl.Release()
		m.dragging = false
	}
}

// animate schedules the next frame while a transition runs.
func (m *viewModel) animate() tea.Cmd {
	ctrl := m.runner.Controller()
	if m.ticking || ctrl == nil || !ctrl.Animating() {
		return nil
	}
	m.ticking = true
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *viewModel) export() {
	res, err := m.runner.ExportImage(m.ctx)
	if err != nil {
		m.status = "export failed: " + err.Error()
		return
	}
	path := filepath.Join(m.outDir, export.SafeFileName(m.runner.Config().Export.Prefix, m.root.Name))
	if err := os.WriteFile(path, res.PNG, 0o644); err != nil {
		m.status = "export failed: " + err.Error()
		return
	}
	m.exported = path
	m.status = fmt.Sprintf("exported %s (%dx%d)", path, res.Width, res.Height)
}

func (m *viewModel) View() string {
	if m.err != nil {
		return m.err.Error() + "\n"
	}
	d := m.runner.Diagram()
	ctrl := m.runner.Controller()
	if d == nil || ctrl == nil || m.cols == 0 {
		return "loading...\n"
	}

	c := newCanvas(m.cols, m.rows)
	for _, e := range d.Scene.Edges {
		c.edge(e, ctrl.WorldToScreen)
	}
	for _, n := range d.Scene.Nodes {
		c.node(n, ctrl.WorldToScreen)
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(d.Name()))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s  %s", m.input, ctrl.Transform())))
	b.WriteString("\n")
	b.WriteString(c.String())
	b.WriteString(viewStatusStyle.Render(m.status))
	return b.String()
}

// =============================================================================
// Text Canvas
// =============================================================================

type cellStyle uint8

const (
	cellBlank cellStyle = iota
	cellEdge
	cellNode
	cellRoot
)

type canvas struct {
	cols, rows int
	runes      []rune
	styles     []cellStyle
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, runes: make([]rune, cols*rows), styles: make([]cellStyle, cols*rows)}
	for i := range c.runes {
		c.runes[i] = ' '
	}
	return c
}

func (c *canvas) set(col, row int, r rune, s cellStyle) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	i := row*c.cols + col
	if s < c.styles[i] {
		return
	}
	c.runes[i], c.styles[i] = r, s
}

func cell(x, y float64) (int, int) {
	return int(math.Floor(x / cellW)), int(math.Floor(y / cellH))
}

type project func(x, y float64) (float64, float64)

// edge samples the edge curve and marks every cell it passes through.
func (c *canvas) edge(e scene.EdgeShape, to project) {
	mx := (e.X0 + e.X1) / 2
	for i := 0; i <= edgeSamples; i++ {
		t := float64(i) / edgeSamples
		u := 1 - t
		x := u*u*u*e.X0 + 3*u*u*t*mx + 3*u*t*t*mx + t*t*t*e.X1
		y := u*u*u*e.Y0 + 3*u*u*t*e.Y0 + 3*u*t*t*e.Y1 + t*t*t*e.Y1
		col, row := cell(to(x, y))
		c.set(col, row, '·', cellEdge)
	}
}

func (c *canvas) node(n scene.NodeShape, to project) {
	col, row := cell(to(n.X, n.Y))
	style := cellNode
	marker := '○'
	switch n.Kind {
	case scene.KindPill:
		style = cellRoot
		marker = 0
	case scene.KindSolid:
		marker = '●'
	}

	label := []rune(n.Label.Text)
	start := col + 2
	switch n.Label.Anchor {
	case scene.AnchorMiddle:
		start = col - len(label)/2
	case scene.AnchorEnd:
		start = col - 1 - len(label)
	}
	if marker != 0 {
		c.set(col, row, marker, style)
	}
	for i, r := range label {
		c.set(start+i, row, r, style)
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		line := row * c.cols
		for col := 0; col < c.cols; {
			s := c.styles[line+col]
			end := col
			for end < c.cols && c.styles[line+end] == s {
				end++
			}
			b.WriteString(renderRun(string(c.runes[line+col:line+end]), s))
			col = end
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderRun(text string, s cellStyle) string {
	switch s {
	case cellEdge:
		return viewEdgeStyle.Render(text)
	case cellNode:
		return viewNodeStyle.Render(text)
	case cellRoot:
		return viewRootStyle.Render(text)
	default:
		return text
	}
}
