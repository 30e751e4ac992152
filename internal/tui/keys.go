package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines key bindings used across the TUI.
type KeyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Quit     key.Binding
	Refresh  key.Binding

	// Dashboard actions
	GetSignal   key.Binding
	SubmitBig   key.Binding
	SubmitSmall key.Binding
	NewSession  key.Binding
	Export      key.Binding
	Dismiss     key.Binding

	// History
	Up   key.Binding
	Down key.Binding
	Undo key.Binding

	// Confirmation prompt
	Confirm key.Binding
	Cancel  key.Binding

	// Importer
	Left       key.Binding
	Right      key.Binding
	Submit     key.Binding
	ClearSlots key.Binding
}

// DefaultKeyMap provides the default key bindings for the TUI.
var DefaultKeyMap = KeyMap{
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
	ShiftTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Refresh:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),

	GetSignal:   key.NewBinding(key.WithKeys("g", " "), key.WithHelp("g", "get signal")),
	SubmitBig:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "result BIG")),
	SubmitSmall: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "result SMALL")),
	NewSession:  key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new session")),
	Export:      key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export csv")),
	Dismiss:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),

	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Undo: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo entry")),

	Confirm: key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "confirm")),
	Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel")),

	Left:       key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev slot")),
	Right:      key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next slot")),
	Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save / upload")),
	ClearSlots: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear slots")),
}
