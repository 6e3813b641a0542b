package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/graph"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/layout"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/pipeline"
)

const (
	// frameInterval is the delay between ticks while the layout runs.
	frameInterval = 30 * time.Millisecond

	// nudgeStep is how far one key press moves a pinned node.
	nudgeStep = 10.0

	// plot size in terminal cells.
	plotCols = 60
	plotRows = 18
)

var (
	watchSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	watchPinnedStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	watchDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	watchPlotStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)

// watchCommand creates the watch command for interactive layout.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		output string
		config string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "watch [graph]",
		Short: "Watch a layout settle and pin nodes interactively",
		Long: `Watch a layout settle and pin nodes interactively.

The layout phases run first, then the layout keeps ticking in the terminal.
Select a node with the arrow keys, pin it in place with p and move a pinned
node with w, a, s and d. Moving or releasing a node resumes the layout.

With --output the final positions are written as JSON, YAML or TOML when
the view closes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if config != "" {
				if err := applyConfigFile(cmd.Flags(), config, &opts); err != nil {
					return err
				}
			}
			return c.runWatch(cmd.Context(), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write final positions to this file")
	cmd.Flags().StringVarP(&config, "config", "c", "", "TOML file with layout options")
	bindLayoutFlags(cmd.Flags(), &opts)
	cmd.Flags().IntVar(&opts.MaxTicks, "max-ticks", pipeline.DefaultMaxTicks, "ticks after which the layout pauses")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input string, opts pipeline.Options, output string) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	opts.Logger = c.Logger
	l, err := pipeline.NewLayout(g, opts)
	if err != nil {
		return err
	}
	if err := l.Start(ctx, opts.Iterations, true, !opts.NoCenter); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	final, err := tea.NewProgram(newWatchModel(g, l, opts.MaxTicks), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	m := final.(watchModel)
	if m.err != nil {
		return m.err
	}
	if output == "" {
		return nil
	}

	res, err := graph.NewResult(g, l)
	if err != nil {
		return err
	}
	if err := graph.WriteResultFile(output, res); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Positions saved")
	printFile(output)
	return nil
}

// =============================================================================
// watchModel - Interactive layout view
// =============================================================================

// frameMsg advances the layout by one tick.
type frameMsg time.Time

// watchModel is the bubbletea model that ticks a running layout.
type watchModel struct {
	graph    *graph.Graph
	layout   *layout.Layout
	maxTicks int

	cursor int
	ticks  int
	paused bool
	ended  bool
	err    error
}

func newWatchModel(g *graph.Graph, l *layout.Layout, maxTicks int) watchModel {
	if maxTicks <= 0 {
		maxTicks = layout.DefaultMaxTicks
	}
	return watchModel{graph: g, layout: l, maxTicks: maxTicks}
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m watchModel) Init() tea.Cmd {
	return frame()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if m.paused || m.ended {
			return m, nil
		}
		return m.step()
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

// step runs one tick and schedules the next frame while the layout runs.
func (m watchModel) step() (tea.Model, tea.Cmd) {
	if m.layout.Tick() {
		m.ended = true
		return m, nil
	}
	m.ticks++
	if m.ticks >= m.maxTicks {
		m.paused = true
		return m, nil
	}
	return m, frame()
}

// resume restarts ticking after an interaction.
func (m watchModel) resume() (tea.Model, tea.Cmd) {
	wasIdle := m.paused || m.ended
	m.layout.Resume()
	m.paused, m.ended = false, false
	m.ticks = 0
	if wasIdle {
		return m, frame()
	}
	return m, nil
}

func (m watchModel) handleKey(key string) (tea.Model, tea.Cmd) {
	nodes := m.layout.Nodes()
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(nodes)-1 {
			m.cursor++
		}
	case " ":
		if m.paused || m.ended {
			return m.resume()
		}
		m.paused = true
	case "p":
		if len(nodes) == 0 {
			return m, nil
		}
		v := nodes[m.cursor]
		if v.Fixed {
			m.err = m.layout.Unpin(m.cursor)
			return m.resume()
		}
		m.err = m.layout.Pin(m.cursor, v.X, v.Y)
	case "w", "a", "s", "d":
		if len(nodes) == 0 || !nodes[m.cursor].Fixed {
			return m, nil
		}
		v := nodes[m.cursor]
		dx, dy := nudge(key)
		m.err = m.layout.Pin(m.cursor, v.PX+dx, v.PY+dy)
		return m.resume()
	}
	return m, nil
}

func nudge(key string) (dx, dy float64) {
	switch key {
	case "w":
		return 0, -nudgeStep
	case "s":
		return 0, nudgeStep
	case "a":
		return -nudgeStep, 0
	case "d":
		return nudgeStep, 0
	}
	return 0, 0
}

func (m watchModel) status() string {
	switch {
	case m.ended:
		return StyleSuccess.Render("settled")
	case m.paused:
		return StyleWarning.Render("paused")
	}
	return StyleHighlight.Render("running")
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Clustermap"))
	b.WriteString("  ")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(watchDimStyle.Render(fmt.Sprintf("tick %d · alpha %.4g · stress %.4g",
		m.layout.Ticks(), m.layout.Alpha(), m.layout.Stress())))
	b.WriteString("\n\n")

	b.WriteString(watchPlotStyle.Render(plot(m.layout.Nodes(), m.cursor, plotCols, plotRows)))
	b.WriteString("\n")
	b.WriteString(m.nodeTable())
	b.WriteString("\n")
	b.WriteString(watchDimStyle.Render("↑/↓ select  p pin  w/a/s/d move  space pause  q quit"))
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styleIconError.Render(iconError + " " + m.err.Error()))
	}
	return b.String()
}

// nodeTable lists the nodes around the cursor.
func (m watchModel) nodeTable() string {
	nodes := m.layout.Nodes()
	const visible = 8
	offset := max(0, min(m.cursor-visible/2, len(nodes)-visible))
	end := min(offset+visible, len(nodes))

	rows := make([][]string, 0, end-offset)
	for i := offset; i < end; i++ {
		v := nodes[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		pinned := ""
		if v.Fixed {
			pinned = "pinned"
		}
		rows = append(rows, []string{cursor, m.graph.Nodes[i].DisplayLabel(), fmtCoord(v.X), fmtCoord(v.Y), pinned})
	}

	return newTable([]string{"", "Node", "X", "Y", ""}, rows, func(row, col int) lipgloss.Style {
		i := offset + row
		switch {
		case i == m.cursor:
			return watchSelectedStyle
		case i < len(nodes) && nodes[i].Fixed:
			return watchPinnedStyle
		}
		return lipgloss.NewStyle()
	}).Render()
}

// plot draws node centres on a cols x rows character grid scaled to the
// bounding box of all nodes. The node at cursor is drawn as @, pinned nodes
// as +, others as *.
func plot(nodes []*layout.Node, cursor, cols, rows int) string {
	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", cols))
	}
	if len(nodes) > 0 {
		minX, maxX := nodes[0].X, nodes[0].X
		minY, maxY := nodes[0].Y, nodes[0].Y
		for _, v := range nodes[1:] {
			minX, maxX = min(minX, v.X), max(maxX, v.X)
			minY, maxY = min(minY, v.Y), max(maxY, v.Y)
		}
		cell := func(v, lo, hi float64, n int) int {
			if hi-lo < 1e-9 {
				return n / 2
			}
			return min(n-1, int((v-lo)/(hi-lo)*float64(n-1)+0.5))
		}
		for i, v := range nodes {
			c, r := cell(v.X, minX, maxX, cols), cell(v.Y, minY, maxY, rows)
			mark := '*'
			if v.Fixed {
				mark = '+'
			}
			if grid[r][c] != '@' {
				grid[r][c] = mark
			}
			if i == cursor {
				grid[r][c] = '@'
			}
		}
	}
	lines := make([]string, rows)
	for r := range grid {
		lines[r] = string(grid[r])
	}
	return strings.Join(lines, "\n")
}
