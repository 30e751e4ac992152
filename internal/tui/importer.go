package tui

import (
	"fmt"
	"strings"

	"signal-desk/internal/dashboard"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type importRequest int

const (
	importNone importRequest = iota
	importSave
	importUpload
)

// ImporterModel edits the pattern slots and the screenshot path. Focus index
// len(slots) is the path input.
type ImporterModel struct {
	ctrl  *dashboard.Controller
	slots []textinput.Model
	path  textinput.Model
	focus int
	width int
}

func NewImporterModel(ctrl *dashboard.Controller) ImporterModel {
	m := ImporterModel{ctrl: ctrl}
	imp := ctrl.Importer()
	if imp == nil {
		return m
	}
	m.slots = make([]textinput.Model, imp.Len())
	for i := range m.slots {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = "·"
		ti.CharLimit = 1
		ti.Width = 1
		m.slots[i] = ti
	}
	m.path = textinput.New()
	m.path.Placeholder = ctrl.Text().ScreenshotPath
	m.path.CharLimit = 512
	m.path.Width = 50
	return m
}

func (m ImporterModel) Enabled() bool { return m.ctrl.Importer() != nil }

func (m ImporterModel) Update(msg tea.Msg) (ImporterModel, tea.Cmd, importRequest) {
	if !m.Enabled() {
		return m, nil, importNone
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, DefaultKeyMap.Submit):
			if m.onPath() {
				return m, nil, importUpload
			}
			return m, nil, importSave
		case key.Matches(msg, DefaultKeyMap.ClearSlots):
			m.ctrl.Importer().Clear()
			m.Sync()
			return m, nil, importNone
		case key.Matches(msg, DefaultKeyMap.Left):
			if !m.onPath() {
				m.setFocus(m.focus - 1)
				return m, nil, importNone
			}
		case key.Matches(msg, DefaultKeyMap.Right):
			if !m.onPath() {
				m.setFocus(m.focus + 1)
				return m, nil, importNone
			}
		case msg.Type == tea.KeyDown:
			m.setFocus(len(m.slots))
			return m, nil, importNone
		case msg.Type == tea.KeyUp:
			m.setFocus(0)
			return m, nil, importNone
		}
	}

	var cmd tea.Cmd
	if m.onPath() {
		m.path, cmd = m.path.Update(msg)
		return m, cmd, importNone
	}
	before := m.slots[m.focus].Value()
	m.slots[m.focus], cmd = m.slots[m.focus].Update(msg)
	after := m.slots[m.focus].Value()
	if after != before {
		m.ctrl.Importer().SetSlot(m.focus, strings.ToUpper(after))
		m.slots[m.focus].SetValue(m.ctrl.Importer().Slot(m.focus))
		if after != "" {
			m.setFocus(m.focus + 1)
		}
	}
	return m, cmd, importNone
}

// Sync reloads the inputs from the controller after OCR fills or an import
// clears the slots.
func (m *ImporterModel) Sync() {
	imp := m.ctrl.Importer()
	if imp == nil {
		return
	}
	for i := range m.slots {
		m.slots[i].SetValue(imp.Slot(i))
	}
}

// ResetPath clears the screenshot path once an upload has settled.
func (m *ImporterModel) ResetPath() { m.path.Reset() }

// Focus gives keyboard focus to the current input.
func (m *ImporterModel) Focus() {
	if m.Enabled() {
		m.setFocus(m.focus)
	}
}

// Blur removes focus from every input.
func (m *ImporterModel) Blur() {
	for i := range m.slots {
		m.slots[i].Blur()
	}
	m.path.Blur()
}

// Path is the screenshot path typed so far.
func (m ImporterModel) Path() string { return m.path.Value() }

func (m ImporterModel) View() string {
	text := m.ctrl.Text()
	if !m.Enabled() {
		return SubtextStyle.Render("  " + text.ImportTitle + ": off")
	}
	imp := m.ctrl.Importer()

	cells := make([]string, len(m.slots))
	for i := range m.slots {
		style := BorderStyle
		if i == m.focus {
			style = style.BorderForeground(SpinnerColor)
		}
		cells[i] = style.Render(m.slots[i].View())
	}

	lines := []string{
		HeaderStyle.Render("  " + text.ImportTitle),
		SubtextStyle.Render("  " + text.ImportHint),
		lipgloss.JoinHorizontal(lipgloss.Top, cells...),
		"",
		"  " + text.ScreenshotPath + ": " + m.path.View(),
	}
	if imp.Uploading() {
		lines = append(lines, NoticeStyle.Render(fmt.Sprintf("  %s %s", text.Uploading, imp.SelectedPath())))
	}
	return strings.Join(lines, "\n")
}

func (m *ImporterModel) SetSize(w, h int) {
	m.width = w
	if w > 20 {
		m.path.Width = w - 20
	}
}

// FocusIndex returns the focused input (for testing).
func (m ImporterModel) FocusIndex() int { return m.focus }

func (m ImporterModel) onPath() bool { return m.focus >= len(m.slots) }

func (m *ImporterModel) setFocus(i int) {
	if i < 0 {
		i = 0
	}
	if i > len(m.slots) {
		i = len(m.slots)
	}
	m.Blur()
	m.focus = i
	if m.onPath() {
		m.path.Focus()
		return
	}
	m.slots[i].Focus()
}
