// Package tui provides terminal user interface components for fruitstand.
//
// This package uses the Bubble Tea framework for the interactive demo
// panel and the render history picker.
//
// # Demo Panel
//
// The panel draws every input of a demo page and edits it in place. A
// committed edit goes through the element's change listeners, so the
// bound field and the configuration store see it exactly as they would
// see a user typing into the page:
//
//	page := demo.Page(inputs)
//	controls := demo.NewControls(page, inputs)
//	...
//	err := tui.RunPanel(page, renderer, store, tui.PanelOptions{
//	    PreviewPath: paths.PreviewFile,
//	})
//
// Keys: ↑/↓ or j/k move, enter edits a text input or toggles a checkbox,
// r renders, x resets to defaults, q quits. The store is flushed on exit.
//
// # History Picker
//
// The picker lists display keys that have render history and returns the
// chosen one:
//
//	display, err := tui.RunPicker(historyLogger)
//
// SimpleList renders the same list as plain text.
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components (list, textinput)
//   - github.com/charmbracelet/lipgloss - Styling
package tui
