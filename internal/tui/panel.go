package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fruitstand-signage/fruitstand/internal/dom"
	"github.com/fruitstand-signage/fruitstand/internal/logging"
)

// refreshInterval is how often the panel repaints to pick up values the
// store and renderer write from their own goroutines.
const refreshInterval = 250 * time.Millisecond

// Renderer is the render surface the panel drives.
type Renderer interface {
	Render(ctx context.Context) error
	Rendering() bool
}

// Store is the configuration store the panel resets and flushes.
type Store interface {
	Reset()
	Flush() error
}

// PanelOptions configures the demo panel.
type PanelOptions struct {
	Title       string
	PreviewPath string
	Context     context.Context
}

var (
	panelLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(28)
	panelCursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	panelValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	panelMirrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	panelErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	panelOKStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	panelURLBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
	panelBusyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	panelSectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true).MarginTop(1)
)

// panelRow is one editable input on the page.
type panelRow struct {
	input  *dom.Input
	label  string
	mirror *dom.Text
	text   textinput.Model
}

type refreshMsg struct{}

type renderDoneMsg struct {
	err error
}

// panelModel is the bubbletea model of the demo page.
type panelModel struct {
	page     *dom.Page
	urlInput *dom.Input
	rows     []*panelRow
	cursor   int
	editing  bool

	renderer Renderer
	store    Store
	opts     PanelOptions

	status   string
	err      error
	quitting bool
	width    int
}

// urlID is the element holding the last rendered URL. It is shown rather
// than edited.
var urlID = dom.ID("iframe_url")

func newPanelModel(page *dom.Page, renderer Renderer, store Store, opts PanelOptions) *panelModel {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Title == "" {
		opts.Title = "fruitstand demo"
	}

	m := &panelModel{
		page:     page,
		urlInput: page.Input(urlID),
		renderer: renderer,
		store:    store,
		opts:     opts,
	}
	for _, in := range page.Inputs() {
		if in.ID() == urlID {
			continue
		}
		ti := textinput.New()
		ti.CharLimit = 512
		ti.Width = 40
		m.rows = append(m.rows, &panelRow{
			input:  in,
			label:  strings.TrimPrefix(in.ID(), dom.IDPrefix),
			mirror: page.Output(in.ID() + "_value"),
			text:   ti,
		})
	}
	return m
}

func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (m *panelModel) Init() tea.Cmd {
	return refresh()
}

func (m *panelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case refreshMsg:
		if m.quitting {
			return m, nil
		}
		return m, refresh()

	case renderDoneMsg:
		m.err = msg.err
		if msg.err != nil {
			m.status = ""
		} else {
			m.status = "render started"
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m *panelModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	row := m.current()
	switch msg.Type {
	case tea.KeyEnter:
		value := row.text.Value()
		m.stopEditing()
		row.input.Change(value)
		m.status = fmt.Sprintf("%s updated", row.label)
		m.err = nil
		return m, nil
	case tea.KeyEsc:
		m.stopEditing()
		return m, nil
	}

	var cmd tea.Cmd
	row.text, cmd = row.text.Update(msg)
	return m, cmd
}

func (m *panelModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "j", "down", "tab":
		m.move(1)
	case "k", "up", "shift+tab":
		m.move(-1)
	case "enter", "e", " ":
		row := m.current()
		if row == nil {
			return m, nil
		}
		if row.input.IsCheckbox() {
			row.input.Toggle()
			m.status = fmt.Sprintf("%s %s", row.label, onOff(row.input.Checked()))
			m.err = nil
			return m, nil
		}
		if msg.String() == " " {
			return m, nil
		}
		return m, m.startEditing()
	case "r", "ctrl+r":
		return m, m.render()
	case "x", "ctrl+x":
		m.store.Reset()
		m.status = "reset to defaults"
		m.err = nil
	}
	return m, nil
}

func (m *panelModel) current() *panelRow {
	if len(m.rows) == 0 {
		return nil
	}
	return m.rows[m.cursor]
}

func (m *panelModel) move(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.rows)) % len(m.rows)
}

func (m *panelModel) startEditing() tea.Cmd {
	row := m.current()
	m.editing = true
	row.text.SetValue(row.input.Value())
	row.text.CursorEnd()
	row.text.Focus()
	return textinput.Blink
}

func (m *panelModel) stopEditing() {
	if row := m.current(); row != nil {
		row.text.Blur()
	}
	m.editing = false
}

func (m *panelModel) render() tea.Cmd {
	if m.renderer.Rendering() {
		m.status = "render already in flight"
		return nil
	}
	m.status = "resolving parameters..."
	m.err = nil
	renderer, ctx := m.renderer, m.opts.Context
	return func() tea.Msg {
		return renderDoneMsg{err: renderer.Render(ctx)}
	}
}

func (m *panelModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.opts.Title))
	b.WriteString("\n")

	for i, row := range m.rows {
		cursor := "  "
		if i == m.cursor {
			cursor = panelCursorStyle.Render("> ")
		}
		b.WriteString(cursor)
		b.WriteString(panelLabelStyle.Render(row.label))

		switch {
		case row.input.IsCheckbox():
			box := "[ ]"
			if row.input.Checked() {
				box = "[x]"
			}
			b.WriteString(panelValueStyle.Render(box))
		case m.editing && i == m.cursor:
			b.WriteString(row.text.View())
		default:
			b.WriteString(panelValueStyle.Render(row.input.Value()))
		}
		if row.mirror != nil {
			b.WriteString("  ")
			b.WriteString(panelMirrorStyle.Render(row.mirror.Text()))
		}
		b.WriteString("\n")
	}

	b.WriteString(panelSectionStyle.Render("Preview"))
	b.WriteString("\n")
	url := "(not rendered yet)"
	if m.urlInput != nil && m.urlInput.Value() != "" {
		url = m.urlInput.Value()
	}
	b.WriteString(panelURLBoxStyle.Render(url))
	b.WriteString("\n")
	if m.opts.PreviewPath != "" {
		b.WriteString(panelMirrorStyle.Render("image: " + m.opts.PreviewPath))
		b.WriteString("\n")
	}

	switch {
	case m.renderer.Rendering():
		b.WriteString(panelBusyStyle.Render("● rendering"))
	case m.err != nil:
		b.WriteString(panelErrorStyle.Render("✗ " + m.err.Error()))
	case m.status != "":
		b.WriteString(panelOKStyle.Render("✓ " + m.status))
	}
	b.WriteString("\n")

	help := "[↑/↓] Move  [enter] Edit/Toggle  [r] Render  [x] Reset  [q] Quit"
	if m.editing {
		help = "[enter] Apply  [esc] Cancel"
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// RunPanel runs the interactive demo panel over page until the user
// quits, then persists any pending configuration change.
func RunPanel(page *dom.Page, renderer Renderer, store Store, opts PanelOptions) error {
	m := newPanelModel(page, renderer, store, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, runErr := p.Run()
	if err := store.Flush(); err != nil {
		logging.Warn("failed to save config on exit", "error", err)
		if runErr == nil {
			return err
		}
	}
	return runErr
}
