package tui

import (
	"context"
	"errors"
	"fmt"

	"signal-desk/internal/dashboard"
	"signal-desk/internal/domain"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab represents a screen tab in the TUI.
type Tab int

const (
	TabDashboard Tab = iota
	TabHistory
	TabImport
)

// completionMsg carries a settled backend call back onto the UI loop.
type completionMsg dashboard.Completion

// AppModel is the root Bubble Tea model. It owns no dashboard state itself:
// every action goes through the controller, and every view reads from it.
type AppModel struct {
	services  Services
	ctrl      *dashboard.Controller
	tabs      []Tab
	activeTab Tab
	dashboard DashboardModel
	history   HistoryModel
	importer  ImporterModel
	spinner   spinner.Model
	flash     string
	width     int
	height    int
	quitting  bool
}

// NewAppModel creates the root application model with all child screens.
func NewAppModel(svc Services) AppModel {
	if svc.Ctx == nil {
		svc.Ctx = context.Background()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(SpinnerColor)

	tabs := []Tab{TabDashboard, TabHistory}
	if svc.Controller.Importer() != nil {
		tabs = append(tabs, TabImport)
	}
	return AppModel{
		services:  svc,
		ctrl:      svc.Controller,
		tabs:      tabs,
		activeTab: TabDashboard,
		dashboard: NewDashboardModel(svc.Controller),
		history:   NewHistoryModel(svc.Controller),
		importer:  NewImporterModel(svc.Controller),
		spinner:   sp,
	}
}

// Init loads the first snapshot so result entry is ready during data collection.
func (m AppModel) Init() tea.Cmd {
	p, err := m.ctrl.Refresh()
	if err != nil {
		return nil
	}
	return tea.Batch(m.run(p), m.spinner.Tick)
}

// Update handles incoming messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.propagateSize()
		return m, nil

	case completionMsg:
		next := m.ctrl.Complete(dashboard.Completion(msg))
		m.importer.Sync()
		if msg.Kind == dashboard.ActionOCR {
			m.importer.ResetPath()
		}
		m.history.Clamp()
		if next != nil {
			return m, m.run(next)
		}
		return m, nil

	case spinner.TickMsg:
		if _, busy := m.ctrl.Busy(); !busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if _, ok := m.ctrl.Confirmation(); ok {
			return m.updateConfirm(msg)
		}
		return m.updateKey(msg)
	}

	if m.activeTab == TabImport {
		var cmd tea.Cmd
		m.importer, cmd, _ = m.importer.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m AppModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Confirm):
		started := m.start(m.ctrl.Confirm())
		return m, started
	case key.Matches(msg, DefaultKeyMap.Cancel):
		m.ctrl.Cancel()
	}
	return m, nil
}

func (m AppModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Tab):
		m.switchTab(m.tabOffset(1))
		return m, nil
	case key.Matches(msg, DefaultKeyMap.ShiftTab):
		m.switchTab(m.tabOffset(-1))
		return m, nil
	}

	// The importer inputs take every other key.
	if m.activeTab == TabImport {
		var (
			cmd tea.Cmd
			req importRequest
		)
		m.importer, cmd, req = m.importer.Update(msg)
		switch req {
		case importSave:
			started := m.start(m.ctrl.SubmitPattern())
			return m, tea.Batch(cmd, started)
		case importUpload:
			started := m.start(m.ctrl.UploadScreenshot(m.importer.Path()))
			return m, tea.Batch(cmd, started)
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, DefaultKeyMap.Quit):
		m.quitting = true
		return m, tea.Quit
	case msg.String() >= "1" && msg.String() <= "3":
		idx := int(msg.String()[0] - '1')
		if idx < len(m.tabs) {
			m.switchTab(m.tabs[idx])
		}
		return m, nil
	case key.Matches(msg, DefaultKeyMap.Refresh):
		started := m.start(m.ctrl.Refresh())
		return m, started
	case key.Matches(msg, DefaultKeyMap.NewSession):
		m.flash = flashText(m.ctrl, m.ctrl.AskNewSession())
		return m, nil
	case key.Matches(msg, DefaultKeyMap.Export):
		started := m.start(m.ctrl.Export())
		return m, started
	case key.Matches(msg, DefaultKeyMap.Dismiss):
		m.ctrl.DismissNotice()
		m.flash = ""
		return m, nil
	}

	switch m.activeTab {
	case TabDashboard:
		switch {
		case key.Matches(msg, DefaultKeyMap.GetSignal):
			started := m.start(m.ctrl.RequestSignal())
			return m, started
		case key.Matches(msg, DefaultKeyMap.SubmitBig):
			started := m.start(m.ctrl.SubmitResult(domain.OutcomeBig))
			return m, started
		case key.Matches(msg, DefaultKeyMap.SubmitSmall):
			started := m.start(m.ctrl.SubmitResult(domain.OutcomeSmall))
			return m, started
		}
	case TabHistory:
		if key.Matches(msg, DefaultKeyMap.Undo) {
			if e, ok := m.history.Selected(); ok {
				m.flash = flashText(m.ctrl, m.ctrl.AskUndo(e.TradeID))
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}
	return m, nil
}

// start turns a controller action into a command. Refusals become a flash line
// and never touch the network.
func (m *AppModel) start(p *dashboard.Pending, err error) tea.Cmd {
	m.flash = flashText(m.ctrl, err)
	if err != nil || p == nil {
		return nil
	}
	return tea.Batch(m.run(p), m.spinner.Tick)
}

func (m AppModel) run(p *dashboard.Pending) tea.Cmd {
	ctx := m.services.Ctx
	return func() tea.Msg {
		return completionMsg(p.Run(ctx))
	}
}

// flashText explains why an action could not start. Validation failures are
// already reported by the controller's notice.
func flashText(ctrl *dashboard.Controller, err error) string {
	text := ctrl.Text()
	switch {
	case err == nil, dashboard.IsValidation(err):
		return ""
	case errors.Is(err, dashboard.ErrBusy):
		return text.Busy
	case errors.Is(err, dashboard.ErrNoPrediction):
		return text.NoPrediction
	case errors.Is(err, dashboard.ErrControlsDisabled):
		return text.ControlsLocked
	}
	return text.ErrorPrefix + err.Error()
}

// View renders the tab bar and active screen.
func (m AppModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var content string
	switch m.activeTab {
	case TabDashboard:
		content = m.dashboard.View(m.spinner.View())
	case TabHistory:
		content = m.history.View()
	case TabImport:
		content = m.importer.View()
	}

	sections := []string{m.renderHeader(), content}
	if c, ok := m.ctrl.Confirmation(); ok {
		text := m.ctrl.Text()
		sections = append(sections, ModalStyle.Render(fmt.Sprintf("%s\n[y] %s  [n] %s", c.Prompt, text.Yes, text.No)))
	}
	if line := m.renderNotice(); line != "" {
		sections = append(sections, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates dimensions on the root model and propagates to children.
func (m *AppModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.propagateSize()
}

// ActiveTab returns the currently active tab (for testing).
func (m AppModel) ActiveTab() Tab { return m.activeTab }

// Flash returns the last refusal message (for testing).
func (m AppModel) Flash() string { return m.flash }

func (m AppModel) tabOffset(delta int) Tab {
	cur := 0
	for i, t := range m.tabs {
		if t == m.activeTab {
			cur = i
		}
	}
	next := (cur + delta + len(m.tabs)) % len(m.tabs)
	return m.tabs[next]
}

func (m *AppModel) switchTab(tab Tab) {
	if tab == TabImport && m.activeTab != TabImport {
		m.importer.Focus()
	} else if m.activeTab == TabImport && tab != TabImport {
		m.importer.Blur()
	}
	m.activeTab = tab
}

func (m *AppModel) propagateSize() {
	contentHeight := m.height - 4 // tab bar and notice line
	m.dashboard.SetSize(m.width, contentHeight)
	m.history.SetSize(m.width, contentHeight)
	m.importer.SetSize(m.width, contentHeight)
}

func (m AppModel) renderHeader() string {
	text := m.ctrl.Text()
	var tabs []string
	for i, t := range m.tabs {
		name := fmt.Sprintf("%d:%s", i+1, tabName(text.Title, text.History, text.ImportTitle, t))
		if t == m.activeTab {
			tabs = append(tabs, ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(name))
		}
	}
	if label := m.services.Session.Label(); label != "" {
		tabs = append(tabs, SubtextStyle.Render("  "+label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func tabName(dash, history, imp string, t Tab) string {
	switch t {
	case TabHistory:
		return history
	case TabImport:
		return imp
	}
	return dash
}

func (m AppModel) renderNotice() string {
	if m.flash != "" {
		return WarningStyle.Render(m.flash)
	}
	n, ok := m.ctrl.Notice()
	if !ok {
		return ""
	}
	if n.Level == dashboard.NoticeError {
		return ErrorStyle.Render(n.Text)
	}
	return NoticeStyle.Render(n.Text)
}
