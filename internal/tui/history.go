package tui

import (
	"strings"

	"signal-desk/internal/dashboard"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// HistoryModel lists trades and tracks the entry the undo key acts on.
type HistoryModel struct {
	ctrl   *dashboard.Controller
	cursor int
	width  int
	height int
}

func NewHistoryModel(ctrl *dashboard.Controller) HistoryModel {
	return HistoryModel{ctrl: ctrl}
}

func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.ctrl.History().Entries())-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

// Selected returns the entry under the cursor.
func (m HistoryModel) Selected() (dashboard.HistoryEntry, bool) {
	return m.ctrl.History().Entry(m.cursor)
}

// Clamp keeps the cursor inside the list after a refresh shrinks it.
func (m *HistoryModel) Clamp() {
	n := len(m.ctrl.History().Entries())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m HistoryModel) View() string {
	hv := m.ctrl.History()
	lines := []string{HeaderStyle.Render("  " + m.ctrl.Text().History)}
	if hv.Empty() {
		lines = append(lines, SubtextStyle.Render("  "+hv.Placeholder()))
		return strings.Join(lines, "\n")
	}

	entries := hv.Entries()
	start, end := 0, len(entries)
	if visible := m.height - 3; visible > 0 && len(entries) > visible {
		start = m.cursor - visible/2
		if start < 0 {
			start = 0
		}
		end = start + visible
		if end > len(entries) {
			end = len(entries)
			start = end - visible
		}
	}
	for i := start; i < end; i++ {
		e := entries[i]
		lines = append(lines, FormatHistoryEntry(e, hv.ClassLabel(e.Class), i == m.cursor))
	}
	lines = append(lines, SubtextStyle.Render("  u: "+m.ctrl.Text().Undo))
	return strings.Join(lines, "\n")
}

func (m *HistoryModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Cursor returns the selected index (for testing).
func (m HistoryModel) Cursor() int { return m.cursor }
