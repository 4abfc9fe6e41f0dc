// Package ui provides the Bubble Tea TUI for marsview.
package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marsview/internal/listings"
	"github.com/five82/marsview/internal/prefs"
	"github.com/five82/marsview/internal/state"
)

// Fetcher is what the UI needs to request listings.
type Fetcher interface {
	Fetch(filter listings.Filter)
	Refresh()
	Filter() listings.Filter
}

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewDetail
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Fetcher   Fetcher
	Store     *state.Store
	ThemeName string
	PrefsPath string
	Logger    *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	fetcher   Fetcher
	store     *state.Store
	feed      *storeFeed
	prefsPath string
	logger    *slog.Logger
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	help        help.Model
	spinner     spinner.Model
	spinning    bool
	selectedRow int

	// Data state
	snapshot state.Snapshot
	version  uint64

	// Detail state
	detail         listings.Property
	detailViewport viewport.Model
}

// New creates a new Bubble Tea model subscribed to opts.Store.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:         ctx,
		fetcher:     opts.Fetcher,
		store:       opts.Store,
		prefsPath:   prefsPath,
		logger:      logger,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewList,
		help:        help.New(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	if m.store != nil {
		m.feed = newStoreFeed(m.store)
		m.snapshot = m.store.Snapshot()
		m.spinning = m.snapshot.Status == state.StatusLoading
	}
	m.applyTheme()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.feed.next()}
	if m.spinning {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detailViewport = viewport.New(msg.Width, m.contentHeight())
			m.applyTheme()
		}
		m.detailViewport.Width = msg.Width
		m.detailViewport.Height = m.contentHeight()
		m.ready = true
		m.help.Width = msg.Width
		m.updateDetailViewport()
		return m, nil

	case changeMsg:
		return m.handleChange(state.Change(msg))

	case spinner.TickMsg:
		if m.snapshot.Status != state.StatusLoading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.currentView == ViewDetail {
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleChange applies a store change. A pending selection is consumed here,
// exactly once, and opens the detail view.
func (m Model) handleChange(c state.Change) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.feed.next()}

	if c.Version > m.version {
		m.version = c.Version
		m.snapshot = c.Snapshot
	}

	if _, pending := m.snapshot.Selection.Pending(); pending && m.store != nil {
		if p, ok := m.store.ConsumeSelection(); ok {
			m.detail = p
			m.currentView = ViewDetail
			m.updateDetailViewport()
		}
	}

	if m.selectedRow >= len(m.snapshot.Properties) {
		m.selectedRow = max(len(m.snapshot.Properties)-1, 0)
	}

	if m.snapshot.Status == state.StatusLoading && !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		m.updateDetailViewport()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.FilterRent):
		return m.setFilter(listings.FilterRent)
	case key.Matches(msg, m.keys.FilterBuy):
		return m.setFilter(listings.FilterBuy)
	case key.Matches(msg, m.keys.FilterAll):
		return m.setFilter(listings.FilterAll)

	case key.Matches(msg, m.keys.Refresh):
		if m.fetcher != nil {
			m.fetcher.Refresh()
		}
		return m, nil
	}

	switch m.currentView {
	case ViewDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	itemCount := len(m.snapshot.Properties)
	if itemCount == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < itemCount-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = itemCount - 1
	case key.Matches(msg, m.keys.Open):
		// Navigation happens when the selection change arrives.
		if m.store != nil && m.snapshot.Status == state.StatusDone {
			m.store.Select(m.snapshot.Properties[m.selectedRow])
		}
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		m.currentView = ViewList
		return m, nil
	}
	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m Model) setFilter(f listings.Filter) (tea.Model, tea.Cmd) {
	m.currentView = ViewList
	m.selectedRow = 0
	if m.fetcher != nil {
		m.fetcher.Fetch(f)
	}
	m.savePrefs()
	return m, nil
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name}
	if m.fetcher != nil {
		p.Filter = m.fetcher.Filter().Value()
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.spinner.Style = styles.AccentText
	m.help.Styles.ShortKey = styles.WarningText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
	m.help.Styles.FullKey = styles.WarningText
	m.help.Styles.FullDesc = styles.Text
	m.help.Styles.FullSeparator = styles.FaintText
	m.detailViewport.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text))
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context ends.
func Run(opts Options) error {
	m := New(opts)
	defer m.feed.close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
