package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fruitstand-signage/fruitstand/internal/history"
)

// HistorySource lists displays with render history.
type HistorySource interface {
	Displays() ([]string, error)
	Tail(display string, n int) ([]history.Event, error)
}

// displayItem implements list.Item for a display with render history.
type displayItem struct {
	display string
	last    *history.Event
}

func (i displayItem) Title() string {
	return i.display
}

func (i displayItem) Description() string {
	if i.last == nil {
		return "no events"
	}
	desc := fmt.Sprintf("%s %s | %s",
		eventIcon(i.last.Type),
		i.last.Type,
		i.last.Timestamp.Format(time.DateTime),
	)
	if i.last.URL != "" {
		desc += " | " + truncateURL(i.last.URL, 50)
	}
	return desc
}

func (i displayItem) FilterValue() string {
	return i.display
}

func eventIcon(t history.EventType) string {
	switch t {
	case history.EventLoaded:
		return "✓"
	case history.EventTimeout:
		return "⚠"
	case history.EventError:
		return "✗"
	default:
		return "●"
	}
}

func truncateURL(url string, maxLen int) string {
	if len(url) <= maxLen {
		return url
	}
	return url[:maxLen-3] + "..."
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the display picker
type Model struct {
	list     list.Model
	selected string
	quitting bool
}

func displayItems(src HistorySource) ([]list.Item, error) {
	displays, err := src.Displays()
	if err != nil {
		return nil, err
	}
	items := make([]list.Item, 0, len(displays))
	for _, d := range displays {
		item := displayItem{display: d}
		if events, err := src.Tail(d, 1); err == nil && len(events) == 1 {
			item.last = &events[0]
		}
		items = append(items, item)
	}
	return items, nil
}

// NewPicker creates a picker over the given display items
func NewPicker(items []list.Item) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 80, 20)
	l.Title = "fruitstand - Render History"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(displayItem); ok {
				m.selected = item.display
				m.quitting = true
				return m, tea.Quit
			}
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	help := helpStyle.Render("[enter] Show  [/] Filter  [q] Quit")
	return m.list.View() + "\n" + help
}

// Selected returns the chosen display key, or "" if the picker was quit.
func (m Model) Selected() string {
	return m.selected
}

// RunPicker lets the user choose a display with render history.
func RunPicker(src HistorySource) (string, error) {
	items, err := displayItems(src)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", nil
	}

	p := tea.NewProgram(NewPicker(items), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}
	return finalModel.(Model).Selected(), nil
}

// SimpleList renders the displays with render history as plain text for
// non-interactive output.
func SimpleList(src HistorySource) (string, error) {
	items, err := displayItems(src)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("fruitstand - Render History\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(items) == 0 {
		sb.WriteString("No renders recorded.\n")
		sb.WriteString("Start one with: fruitstand demo\n")
		return sb.String(), nil
	}

	for i, it := range items {
		item := it.(displayItem)
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, item.display))
		sb.WriteString(fmt.Sprintf("   %s\n\n", item.Description()))
	}
	return sb.String(), nil
}
