package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	fterrors "github.com/deepgen/famtree/pkg/errors"
	"github.com/deepgen/famtree/pkg/person"
	"github.com/deepgen/famtree/pkg/pipeline"
	"github.com/deepgen/famtree/pkg/render/sink"
	"github.com/deepgen/famtree/pkg/resolve"
	"github.com/deepgen/famtree/pkg/source"
	"github.com/deepgen/famtree/pkg/viewport"
)

const (
	// panCells is how far one arrow key press pans, in cells.
	panCells = 4

	// Rows used by the header and help lines around the canvas.
	headerRows = 1
	footerRows = 1
)

var (
	viewHelpStyle     = lipgloss.NewStyle().Foreground(colorDim)
	viewStatusStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	viewEmptyStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	viewSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewNormalStyle   = lipgloss.NewStyle().Foreground(colorGray)
)

type viewOpts struct {
	treeFlags
	watch bool
}

func (c *CLI) viewCommand() *cobra.Command {
	var opts viewOpts

	cmd := &cobra.Command{
		Use:   "view <people-file>",
		Short: "Explore a family tree in the terminal",
		Long: `View draws the tree in the terminal and lets you move around it.

  arrows, hjkl   pan
  + / -          zoom in or out at the center
  mouse wheel    zoom at the pointer
  drag           pan
  click          re-root on the clicked person
  a              switch between ancestors and descendants
  [ / ]          fewer or more generations
  /              search for a root person
  f              fit the tree to the window
  q              quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			file := source.NewFile(args[0])
			persons, err := file.Load(cmd.Context())
			if err != nil {
				return err
			}

			popts := cfg.PipelineOptions()
			opts.apply(&popts)

			// Logs would tear the alternate screen.
			runner := pipeline.NewRunner(nil, nil, newLogger(io.Discard, LogInfo))
			runner.Viewport = cfg.Controller()

			m := newViewModel(cmd.Context(), runner, pipeline.NewDataset(persons), popts)
			return c.runView(cmd.Context(), m, file, opts.watch)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload when the person file changes")
	return cmd
}

func (c *CLI) runView(ctx context.Context, m viewModel, file *source.File, watch bool) error {
	defer m.session.Dispose()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if watch {
		w, err := source.Watch(ctx, file, func(persons []person.Record, err error) {
			p.Send(reloadMsg{persons: persons, err: err})
		}, nil)
		if err != nil {
			return fmt.Errorf("watch %s: %w", file.Path, err)
		}
		defer w.Stop()
	}

	_, err := p.Run()
	return err
}

// =============================================================================
// Model
// =============================================================================

// reloadMsg carries a reloaded person list from the file watcher.
type reloadMsg struct {
	persons []person.Record
	err     error
}

// viewModel is the bubbletea model for the interactive tree view.
type viewModel struct {
	ctx     context.Context
	runner  *pipeline.Runner
	ctrl    *viewport.Controller
	session *viewport.Session
	dataset *pipeline.Dataset
	opts    pipeline.Options

	res    *pipeline.Result
	status string
	empty  bool // status is an empty-state message, not a tree summary

	width, height int
	cellW, cellH  float64
	needsFit      bool

	searching   bool
	search      textinput.Model
	suggestions []resolve.Suggestion
	fuzzy       bool
	selected    int
}

func newViewModel(ctx context.Context, runner *pipeline.Runner, ds *pipeline.Dataset, opts pipeline.Options) viewModel {
	ti := textinput.New()
	ti.Placeholder = "name or @XREF@"
	ti.Prompt = "/ "
	ti.CharLimit = 120

	opts.Formats = nil
	opts.SetDefaults()

	m := viewModel{
		ctx:     ctx,
		runner:  runner,
		ctrl:    runner.Viewport,
		session: viewport.NewSession(),
		dataset: ds,
		opts:    opts,
		cellW:   sink.DefaultCellWidth,
		cellH:   sink.DefaultCellHeight,
		search:  ti,
	}
	m.rebuild(true)
	if m.res == nil && strings.TrimSpace(opts.Root) == "" && !ds.Empty() {
		m.openSearch()
	}
	return m
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.fitIfNeeded()
		if m.session.Wire() {
			return m, tea.EnableMouseCellMotion
		}
		return m, nil

	case reloadMsg:
		if msg.err != nil {
			m.status = "Reload failed: " + fterrors.UserMessage(msg.err)
			m.empty = true
			return m, nil
		}
		m.dataset = pipeline.NewDataset(msg.persons)
		m.rebuild(m.res == nil)
		m.fitIfNeeded()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)

	case tea.MouseMsg:
		if !m.searching {
			m.updateMouse(msg)
		}
		return m, nil
	}
	return m, nil
}

func (m viewModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := panCells * m.cellW
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		_ = m.ctrl.Pan(m.session, step, 0)
	case "right", "l":
		_ = m.ctrl.Pan(m.session, -step, 0)
	case "up", "k":
		_ = m.ctrl.Pan(m.session, 0, panCells*m.cellH/2)
	case "down", "j":
		_ = m.ctrl.Pan(m.session, 0, -panCells*m.cellH/2)
	case "+", "=":
		_ = m.ctrl.ZoomCenter(m.session, m.canvasSize(), viewport.ZoomIn)
	case "-", "_":
		_ = m.ctrl.ZoomCenter(m.session, m.canvasSize(), viewport.ZoomOut)
	case "f":
		m.needsFit = true
		m.fitIfNeeded()
	case "a":
		m.opts.Mode = m.opts.Mode.Toggle()
		m.rebuild(true)
		m.fitIfNeeded()
	case "[":
		if m.opts.Generations > 1 {
			m.opts.Generations--
			m.rebuild(true)
			m.fitIfNeeded()
		}
	case "]":
		if m.opts.Generations < fterrors.MaxGenerations {
			m.opts.Generations++
			m.rebuild(true)
			m.fitIfNeeded()
		}
	case "/":
		m.openSearch()
		return m, textinput.Blink
	}
	return m, nil
}

func (m viewModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.closeSearch()
		return m, nil
	case "enter":
		root := m.search.Value()
		if m.selected < len(m.suggestions) {
			root = m.suggestions[m.selected].Xref
		}
		m.closeSearch()
		m.opts.Root = root
		m.rebuild(true)
		m.fitIfNeeded()
		return m, nil
	case "up", "ctrl+p":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "ctrl+n", "tab":
		if m.selected < len(m.suggestions)-1 {
			m.selected++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.suggestions, m.fuzzy = resolve.SuggestOrFuzzy(m.search.Value(), m.dataset.Persons(), resolve.DefaultLimit)
	m.selected = 0
	return m, cmd
}

func (m *viewModel) updateMouse(msg tea.MouseMsg) {
	p, inCanvas := m.screenPoint(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp && inCanvas:
		_ = m.ctrl.ZoomAt(m.session, p, viewport.ZoomIn)
	case msg.Button == tea.MouseButtonWheelDown && inCanvas:
		_ = m.ctrl.ZoomAt(m.session, p, viewport.ZoomOut)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && inCanvas:
		_ = m.ctrl.PointerDown(m.session, p)
	case msg.Action == tea.MouseActionMotion:
		_ = m.ctrl.PointerMove(m.session, p)
	case msg.Action == tea.MouseActionRelease:
		click, err := m.ctrl.PointerUp(m.session, p)
		if err != nil || !click || !inCanvas || m.res == nil {
			return
		}
		i, err := m.ctrl.HitTest(m.session, m.res.Layout, p)
		if err != nil {
			return
		}
		if xref, ok := pipeline.RerootTarget(m.res, i); ok && xref != m.res.Root.Xref {
			m.opts.Root = xref
			m.rebuild(true)
			m.fitIfNeeded()
		}
	}
}

// rebuild runs the pipeline for the current options. Empty states clear the
// tree and show their message instead.
func (m *viewModel) rebuild(refit bool) {
	res, err := m.runner.Build(m.ctx, m.dataset, m.opts)
	if err != nil {
		m.res = nil
		m.status = fterrors.UserMessage(err)
		m.empty = true
		return
	}
	m.res = res
	m.status = res.Status
	m.empty = false
	if refit {
		m.needsFit = true
	}
}

// fitIfNeeded fits the tree once the terminal size is known.
func (m *viewModel) fitIfNeeded() {
	if !m.needsFit || m.res == nil {
		return
	}
	if err := m.ctrl.FitAndCenter(m.session, m.res.Layout.Bounds, m.canvasSize()); err == nil {
		m.needsFit = false
	}
}

func (m *viewModel) openSearch() {
	m.searching = true
	m.search.SetValue("")
	m.search.Focus()
	m.suggestions, m.fuzzy, m.selected = nil, false, 0
}

func (m *viewModel) closeSearch() {
	m.searching = false
	m.search.Blur()
	m.suggestions = nil
}

// =============================================================================
// Geometry
// =============================================================================

func (m viewModel) searchRows() int {
	if !m.searching {
		return 0
	}
	return 1 + max(len(m.suggestions), 1)
}

func (m viewModel) canvasTop() int { return headerRows + m.searchRows() }

func (m viewModel) canvasCells() (cols, rows int) {
	return max(m.width, 0), max(m.height-m.canvasTop()-footerRows, 0)
}

// canvasSize is the canvas in screen units.
func (m viewModel) canvasSize() viewport.Size {
	cols, rows := m.canvasCells()
	return viewport.Size{Width: float64(cols) * m.cellW, Height: float64(rows) * m.cellH}
}

// screenPoint maps a terminal cell to the screen point at its center and
// reports whether the cell is on the canvas.
func (m viewModel) screenPoint(x, y int) (viewport.Point, bool) {
	cols, rows := m.canvasCells()
	row := y - m.canvasTop()
	p := viewport.Point{
		X: (float64(x) + 0.5) * m.cellW,
		Y: (float64(row) + 0.5) * m.cellH,
	}
	return p, x >= 0 && x < cols && row >= 0 && row < rows
}

// =============================================================================
// View
// =============================================================================

func (m viewModel) View() string {
	if m.width == 0 {
		return ""
	}
	var b strings.Builder

	header := StyleTitle.Render(appName) + " "
	if m.empty {
		header += viewEmptyStyle.Render(m.status)
	} else {
		header += viewStatusStyle.Render(m.status)
	}
	b.WriteString(lipgloss.NewStyle().MaxWidth(m.width).Render(header))
	b.WriteString("\n")

	if m.searching {
		b.WriteString(m.search.View())
		b.WriteString("\n")
		b.WriteString(m.suggestionLines())
	}

	cols, rows := m.canvasCells()
	if m.res != nil {
		t := m.session.Transform()
		b.WriteString(sink.RenderTerm(m.res.Scene,
			sink.WithTermSize(cols, rows),
			sink.WithTermCell(m.cellW, m.cellH),
			sink.WithTermTransform(t.X, t.Y, t.K),
			sink.WithTermHighlight(m.res.Scene.RootKey),
			sink.WithTermColor()))
	} else {
		b.WriteString(lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, viewEmptyStyle.Render(m.status)))
	}
	b.WriteString("\n")

	help := fmt.Sprintf("%s · %d gen · %.0f%%   hjkl pan  +/- zoom  a mode  [/] gens  / search  f fit  q quit",
		m.opts.Mode, m.opts.Generations, m.session.Transform().K*100)
	b.WriteString(viewHelpStyle.MaxWidth(m.width).Render(help))
	return b.String()
}

func (m viewModel) suggestionLines() string {
	if len(m.suggestions) == 0 {
		msg := "  type a name or identifier"
		if m.search.Value() != "" {
			msg = "  no matches"
		}
		return viewHelpStyle.Render(msg) + "\n"
	}

	var b strings.Builder
	for i, s := range m.suggestions {
		line := fmt.Sprintf("  %s  %s", s.Label(), s.Lifespan)
		if i == 0 && m.fuzzy {
			line += "  (closest match)"
		}
		if i == m.selected {
			b.WriteString(viewSelectedStyle.Render("▸" + line[1:]))
		} else {
			b.WriteString(viewNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
