// Command treelist renders a node forest from a JSONL or SQLite file as a
// navigable, virtualized tree in the terminal.
//
// Usage:
//
//	treelist [flags] [data-file]
//
// Keys: j/k move, enter toggles the node under the cursor, space selects,
// c copies the selected node's id, d toggles the detail pane, q quits.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treelist/internal/datasource"
	"github.com/vanderheijden86/treelist/pkg/config"
	"github.com/vanderheijden86/treelist/pkg/debug"
	"github.com/vanderheijden86/treelist/pkg/tree"
	"github.com/vanderheijden86/treelist/pkg/ui"
	"github.com/vanderheijden86/treelist/pkg/watcher"
)

func main() {
	openAll := flag.Bool("open-all", false, "Open every node on load")
	noWatch := flag.Bool("no-watch", false, "Disable live reload of the data file")
	themeName := flag.String("theme", "", "Theme: dark, light, or auto")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if *openAll {
		cfg.Load.OpenAll = true
	}
	if *noWatch {
		cfg.Load.Watch = false
	}
	if *themeName != "" {
		cfg.UI.Theme = *themeName
	}

	dataPath := cfg.Load.DataPath
	if flag.NArg() > 0 {
		dataPath = flag.Arg(0)
	}
	if dataPath == "" {
		fmt.Fprintln(os.Stderr, "usage: treelist [flags] <data-file>")
		os.Exit(2)
	}

	forest, err := datasource.LoadForest(dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "treelist: %v\n", err)
		os.Exit(1)
	}

	m := newModel(cfg, dataPath, forest)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if cfg.Load.Watch {
		w, err := watcher.New(dataPath, watcher.WithOnChange(func() {
			p.Send(reloadMsg{})
		}))
		if err == nil && w.Start() == nil {
			defer w.Stop()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "treelist: %v\n", err)
		os.Exit(1)
	}
}

type reloadMsg struct{}

type model struct {
	cfg      config.Config
	dataPath string

	store    *tree.Store[string]
	renderer *ui.Renderer
	viewport *ui.Viewport
	theme    ui.Theme
	md       *glamour.TermRenderer

	cursor     int
	width      int
	height     int
	showDetail bool
	status     string
	progress   float64
	ready      bool
}

func newModel(cfg config.Config, dataPath string, forest []*tree.Node) *model {
	r := lipgloss.NewRenderer(os.Stdout)
	theme := ui.ThemeByName(cfg.UI.Theme, r)
	renderer := ui.NewRenderer(theme, 80)
	vp := ui.NewViewport(80, 20)

	store := tree.New(renderer.Row)
	store.AttachViewport(vp)

	m := &model{
		cfg:        cfg,
		dataPath:   dataPath,
		store:      store,
		renderer:   renderer,
		viewport:   vp,
		theme:      theme,
		showDetail: cfg.ShowDetail(),
	}
	vp.OnScroll(store.NotifyScroll)
	store.Subscribe(func(ev tree.Event) {
		switch e := ev.(type) {
		case tree.Selected:
			if e.Node != nil {
				m.status = "selected " + e.Node.ID
			} else {
				m.status = ""
			}
		case tree.ScrollProgress:
			m.progress = e.Progress
		}
	})

	m.md, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(60),
	)

	if err := store.Load(forest, cfg.Load.OpenAll); err != nil {
		debug.Log("load: %v", err)
	}
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true

	case reloadMsg:
		forest, err := datasource.LoadForest(m.dataPath)
		if err != nil {
			m.status = fmt.Sprintf("reload failed: %v", err)
			break
		}
		if err := m.store.Load(forest, m.cfg.Load.OpenAll); err == nil {
			m.cursor = 0
			m.status = "reloaded"
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.store.Destroy()
			return m, tea.Quit
		case "j", "down":
			m.moveCursor(1)
		case "k", "up":
			m.moveCursor(-1)
		case "ctrl+d":
			m.moveCursor(m.viewport.Height() / 2)
		case "ctrl+u":
			m.moveCursor(-m.viewport.Height() / 2)
		case "g":
			m.cursor = 0
			m.viewport.ScrollTo(m.cursor)
		case "G":
			m.cursor = m.store.Len() - 1
			m.viewport.ScrollTo(m.cursor)
		case "enter", "l", "right":
			if n := m.cursorNode(); n != nil {
				if _, err := m.store.Toggle(n); err != nil {
					m.status = err.Error()
				}
			}
		case "h", "left":
			m.collapseOrClimb()
		case " ":
			if n := m.cursorNode(); n != nil {
				if _, err := m.store.Select(n); err != nil {
					m.status = err.Error()
				}
			}
		case "c":
			if sel := m.store.SelectedNode(); sel != nil && sel.ID != "" {
				if err := clipboard.WriteAll(sel.ID); err != nil {
					m.status = "clipboard unavailable"
				} else {
					m.status = "copied " + sel.ID
				}
			}
		case "d":
			m.showDetail = !m.showDetail
			m.resize()
		}
	}
	return m, nil
}

// moveCursor shifts the cursor within the visible node range and keeps it
// inside the scroll window.
func (m *model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if max := m.store.Len() - 1; m.cursor > max {
		m.cursor = max
	}
	m.viewport.ScrollTo(m.cursor)
}

func (m *model) cursorNode() *tree.Node {
	nodes := m.store.Nodes()
	if m.cursor < 0 || m.cursor >= len(nodes) {
		return nil
	}
	return nodes[m.cursor]
}

// collapseOrClimb closes an open node, or moves the cursor to the parent
// of a closed one.
func (m *model) collapseOrClimb() {
	n := m.cursorNode()
	if n == nil {
		return
	}
	if n.State.Open {
		if _, err := m.store.Close(n); err != nil {
			m.status = err.Error()
		}
		return
	}
	if p := m.store.ParentOf(n); p != nil {
		nodes := m.store.Nodes()
		for i, cand := range nodes {
			if cand == p {
				m.cursor = i
				m.viewport.ScrollTo(i)
				return
			}
		}
	}
}

func (m *model) resize() {
	treeWidth := m.width
	if m.showDetail && m.width > 100 {
		treeWidth = m.width * 6 / 10
	}
	height := m.height - 2 // header + status line
	if m.cfg.UI.ViewportHeight > 0 && m.cfg.UI.ViewportHeight < height {
		height = m.cfg.UI.ViewportHeight
	}
	if height < 3 {
		height = 3
	}
	m.renderer.SetWidth(treeWidth)
	m.viewport.Resize(treeWidth, height)
	m.store.Refresh()
	m.viewport.ScrollTo(m.cursor)
}

func (m *model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := m.theme.Header.Width(m.width).Render("  treelist — " + m.dataPath)
	body := m.highlightCursor(m.viewport.View())

	if m.showDetail && m.width > 100 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.detailPane())
	}

	status := m.theme.MutedText.Render(fmt.Sprintf(" %d nodes · %3.0f%% · %s",
		m.store.Len(), m.progress*100, m.status))

	return strings.Join([]string{header, body, status}, "\n")
}

// highlightCursor overlays the cursor bar on the row under the cursor.
// Selection styling is baked into the rows by the renderer; the cursor is
// a view concern layered on top.
func (m *model) highlightCursor(view string) string {
	lines := strings.Split(view, "\n")
	at := m.cursor - m.viewport.Offset()
	if at >= 0 && at < len(lines) {
		lines[at] = m.theme.Selected.Render(lines[at])
	}
	return strings.Join(lines, "\n")
}

func (m *model) detailPane() string {
	sel := m.store.SelectedNode()
	if sel == nil {
		sel = m.cursorNode()
	}
	if sel == nil {
		return ""
	}
	title := sel.Str("title")
	if title == "" {
		title = sel.ID
	}
	md := fmt.Sprintf("# %s\n\n%s", title, sel.Str("description"))
	rendered := md
	if m.md != nil {
		if out, err := m.md.Render(md); err == nil {
			rendered = out
		}
	}
	w := m.width - m.width*6/10 - 2
	return m.theme.Renderer.NewStyle().
		Width(w).
		MaxWidth(w).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(m.theme.Border).
		Render(rendered)
}
