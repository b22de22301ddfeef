package view

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/evalf/runview/config"
	"github.com/evalf/runview/internal/stream"
	"github.com/evalf/runview/internal/theater"
	"github.com/evalf/runview/internal/transport"
)

type pane int

const (
	paneLog pane = iota
	paneTheater
)

// refreshMsg signals that the session has new data to render.
type refreshMsg struct{}

// Model is the bubbletea model behind `runview watch`.
type Model struct {
	session   *Session
	cfg       config.Config
	statePath string

	state  State
	active pane
	nav    *theater.Navigator
	scrub  *theater.Scrubber

	keys       KeyMap
	styles     Styles
	gridStyles GridStyles
	vp         viewport.Model
	help       help.Model

	rows   []Row
	cursor int
	status string

	width, height int
	ready         bool

	// Cached overview layout; recomputed only when the focused context or
	// the viewport changes.
	gridCtx      int
	gridN        int
	gridW, gridH int
	grid         theater.Grid
}

// NewModel builds the watch model around a started session, restoring the
// persisted view state from statePath.
func NewModel(session *Session, cfg config.Config, statePath string) Model {
	m := Model{
		session:    session,
		cfg:        cfg,
		statePath:  statePath,
		state:      LoadState(statePath, cfg.LogLevel),
		nav:        theater.NewNavigator(session.Registry()),
		scrub:      theater.NewScrubber(cfg.ScrubThreshold),
		keys:       DefaultKeyMap(),
		styles:     DefaultStyles(),
		gridStyles: DefaultGridStyles(),
		help:       help.New(),
		gridCtx:    -1,
	}
	if m.state.ShowTheater {
		m.active = paneTheater
	}
	session.Do(func() {
		if m.state.Theater.Href != "" {
			m.nav.Select(m.state.Theater.Href)
		}
		m.nav.SetLocked(m.state.Theater.Locked)
		m.nav.SetOverview(m.state.Theater.Overview)
	})
	return m
}

// Run starts the session and the bubbletea program.
func Run(ctx context.Context, session *Session, cfg config.Config, statePath string) error {
	session.Start(ctx)
	program := tea.NewProgram(
		NewModel(session, cfg, statePath),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	_, err := program.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.waitUpdate()
}

func (m Model) waitUpdate() tea.Cmd {
	updates := m.session.Updates()
	return func() tea.Msg {
		<-updates
		return refreshMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.refresh()
		m.syncGrid()
		return m, m.waitUpdate()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		body := m.bodyHeight()
		if !m.ready {
			m.vp = viewport.New(msg.Width, body)
			m.ready = true
		} else {
			m.vp.Width, m.vp.Height = msg.Width, body
		}
		m.refresh()
		m.syncGrid()
		return m, nil

	case tea.FocusMsg:
		m.session.SetVisible(true)
		return m, nil

	case tea.BlurMsg:
		m.session.SetVisible(false)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveState()
		return m, tea.Quit
	case key.Matches(msg, m.keys.SwitchPane):
		if m.active == paneLog {
			m.active = paneTheater
		} else {
			m.active = paneLog
		}
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if m.active == paneLog {
		return m.handleLogKey(msg)
	}
	return m.handleTheaterKey(msg)
}

func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(m.rows) {
			row := m.rows[m.cursor]
			if row.Node != nil {
				m.state.Log.Collapsed[row.Node.ID] = !m.state.Log.Collapsed[row.Node.ID]
			} else if row.Href != "" {
				m.session.Do(func() { m.nav.Select(row.Href) })
				m.active = paneTheater
				m.syncGrid()
			}
		}
	case key.Matches(msg, m.keys.Level):
		s := msg.String()
		if len(s) == 1 && s[0] >= '0' && s[0] <= '4' {
			m.state.Log.LogLevel = int(s[0] - '0')
		}
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

func (m Model) handleTheaterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		m.session.Do(m.nav.Next)
	case key.Matches(msg, m.keys.Prev):
		m.session.Do(m.nav.Previous)
	case key.Matches(msg, m.keys.First):
		m.session.Do(m.nav.First)
	case key.Matches(msg, m.keys.Last):
		m.session.Do(m.nav.Last)
	case key.Matches(msg, m.keys.Lock):
		m.nav.SetLocked(!m.nav.Locked())
	case key.Matches(msg, m.keys.Overview):
		m.nav.SetOverview(!m.nav.Overview())
	case key.Matches(msg, m.keys.Origin):
		m.jumpToOrigin()
	default:
		return m, nil
	}
	m.syncGrid()
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.active != paneTheater {
		return m, nil
	}
	switch {
	case msg.Button == tea.MouseButtonWheelUp && msg.Action == tea.MouseActionPress:
		m.session.Do(m.nav.Previous)
	case msg.Button == tea.MouseButtonWheelDown && msg.Action == tea.MouseActionPress:
		m.session.Do(m.nav.Next)
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		m.scrub.Start(float64(msg.Y))
	case msg.Action == tea.MouseActionMotion && m.scrub.Active():
		m.session.Do(func() {
			index := m.nav.Index()
			if index < 0 {
				return
			}
			next := m.scrub.Move(float64(msg.Y), index, m.nav.Len())
			m.nav.Step(next - index)
		})
	case msg.Action == tea.MouseActionRelease:
		m.scrub.End()
	}
	m.syncGrid()
	return m, nil
}

// jumpToOrigin switches to the log pane with the cursor on the focused
// plot's emission point.
func (m *Model) jumpToOrigin() {
	var anchor string
	m.session.Do(func() {
		if p := m.nav.Current(); p != nil {
			anchor = p.AnchorID
		}
	})
	if anchor == "" {
		return
	}
	for i, row := range m.rows {
		if row.Anchor == anchor {
			m.cursor = i
			m.active = paneLog
			return
		}
	}
}

// refresh re-reads the session and rebuilds the log rows and status line.
func (m *Model) refresh() {
	m.session.Render(func(tree *stream.Tree, reg *theater.Registry, progress transport.Progress, tailErr error) {
		m.rows = TreeRows(tree, m.state.Log, m.styles)
		if errors.Is(tailErr, context.Canceled) {
			tailErr = nil
		}
		m.status = RenderStatus(progress, tailErr, m.styles)
	})
	if m.cursor > len(m.rows)-1 {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.ready {
		m.vp.SetContent(m.logContent())
		m.scrollToCursor()
	}
}

func (m *Model) logContent() string {
	lines := make([]string, len(m.rows))
	for i, row := range m.rows {
		if i == m.cursor && m.active == paneLog {
			lines[i] = m.styles.Cursor.Render("›") + " " + row.Text
		} else {
			lines[i] = "  " + row.Text
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) scrollToCursor() {
	if m.cursor < m.vp.YOffset {
		m.vp.SetYOffset(m.cursor)
	} else if m.cursor >= m.vp.YOffset+m.vp.Height {
		m.vp.SetYOffset(m.cursor - m.vp.Height + 1)
	}
}

func (m *Model) bodyHeight() int {
	h := m.height - 3 // header + status + help
	if h < 1 {
		h = 1
	}
	return h
}

// syncGrid recomputes the overview layout, but only when the focused
// context, its plot count or the viewport changed; moving the selection
// within one context keeps the layout and just re-marks the cells.
func (m *Model) syncGrid() {
	m.session.Do(func() {
		current := m.nav.Current()
		if !m.nav.Overview() || current == nil {
			return
		}
		n := len(m.nav.ContextPlots())
		w, h := m.width, m.bodyHeight()
		if current.ContextID == m.gridCtx && n == m.gridN && w == m.gridW && h == m.gridH {
			return
		}
		// Terminal cells are about twice as tall as wide; scale height so
		// the aspect constraint works in the same units as width.
		m.grid = theater.BestGrid(n, float64(w), float64(h)*2, m.cfg.PlotAspect)
		m.gridCtx, m.gridN, m.gridW, m.gridH = current.ContextID, n, w, h
	})
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	title := "log"
	if m.active == paneTheater {
		title = "theater"
	}
	header := m.styles.Title.Render("runview · " + title)

	var body string
	if m.active == paneLog {
		m.vp.SetContent(m.logContent())
		body = m.vp.View()
	} else {
		body = m.theaterView()
	}

	footer := m.status + "\n" + m.help.View(m.keys)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) theaterView() string {
	var out string
	m.session.Do(func() {
		current := m.nav.Current()
		if current == nil {
			out = lipgloss.NewStyle().Faint(true).Render("no plots yet")
			return
		}
		if m.nav.Overview() {
			out = RenderGrid(m.nav.ContextPlots(), current, m.grid, m.width, m.bodyHeight(), m.gridStyles)
			return
		}
		out = RenderFocus(current, m.nav.Locked(), m.width, m.bodyHeight(), m.gridStyles)
	})
	return out
}

// saveState persists the view state for the next invocation.
func (m *Model) saveState() {
	m.state.ShowTheater = m.active == paneTheater
	m.session.Do(func() {
		if p := m.nav.Current(); p != nil {
			m.state.Theater.Href = p.Href
		}
		m.state.Theater.Locked = m.nav.Locked()
		m.state.Theater.Overview = m.nav.Overview()
	})
	if m.statePath == "" {
		return
	}
	if err := m.state.Save(m.statePath); err != nil {
		logrus.WithError(err).Warn("could not save view state")
	}
}
