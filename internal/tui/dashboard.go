package tui

import (
	"fmt"
	"strings"

	"signal-desk/internal/dashboard"

	"github.com/charmbracelet/lipgloss"
)

// DashboardModel renders the prediction, alert and progress regions.
type DashboardModel struct {
	ctrl   *dashboard.Controller
	width  int
	height int
}

func NewDashboardModel(ctrl *dashboard.Controller) DashboardModel {
	return DashboardModel{ctrl: ctrl}
}

// View renders the dashboard. spin is shown while a signal is being analyzed.
func (m DashboardModel) View(spin string) string {
	text := m.ctrl.Text()
	var sections []string

	for _, banner := range []string{
		RenderBanner(text.DragonBanner, m.ctrl.Alerts().DragonBanner(), DragonBannerStyle),
		RenderBanner(text.RiskBanner, m.ctrl.Alerts().RiskBanner(), RiskBannerStyle),
	} {
		if banner != "" {
			sections = append(sections, banner)
		}
	}

	width := m.width - 2
	if width < 40 {
		width = 40
	}
	sections = append(sections, BorderStyle.Width(width).Render(m.renderSignal(spin)))
	sections = append(sections, BorderStyle.Width(width).Render(m.renderStatuses()))
	sections = append(sections, BorderStyle.Width(width).Render(m.renderProgress()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *DashboardModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m DashboardModel) renderSignal(spin string) string {
	text := m.ctrl.Text()
	sv := m.ctrl.Signal()
	if sv.Analyzing() {
		return fmt.Sprintf("  %s %s", spin, HeaderStyle.Render(text.Analyzing))
	}

	d := sv.Display()
	label := PredictionStyle.Inherit(ToneStyle(d.Tone)).Render(d.Label)
	if d.Reduced {
		label = ReducedStyle.Render(label)
	}

	lines := []string{
		"  " + label,
		"  " + SubtextStyle.Render(d.Source),
		"  " + sv.PatternBadge(),
	}
	if d.Phase == dashboard.PhaseShowing {
		lines = append(lines, "  "+RenderBar(text.Confidence, d.Confidence, 20, ToneStyle(d.Tone)))
		if d.Probability != nil {
			lines = append(lines, "  "+RenderBar(text.Probability, *d.Probability, 20, InfoStyle))
		}
	}
	return strings.Join(lines, "\n")
}

func (m DashboardModel) renderStatuses() string {
	text := m.ctrl.Text()
	alerts := m.ctrl.Alerts()
	lines := []string{
		"  " + RenderStatus(text.RiskStatus, alerts.RiskStatus()),
		"  " + RenderStatus(text.RecoveryStatus, alerts.Recovery()),
	}
	if st, ok := alerts.ProbabilityStatus(); ok {
		lines = append(lines, "  "+RenderStatus(text.ProbabilityStatus, st))
	}
	if width, status, tone, ok := m.ctrl.Volatility().Reading(); ok {
		lines = append(lines, "  "+RenderBar(text.Volatility, width, 20, ToneStyle(tone))+" "+ToneStyle(tone).Render(string(status)))
	}
	return strings.Join(lines, "\n")
}

func (m DashboardModel) renderProgress() string {
	text := m.ctrl.Text()
	p := m.ctrl.Progress()
	if !p.Loaded {
		return SubtextStyle.Render("  " + text.NeutralSource)
	}
	return strings.Join([]string{
		fmt.Sprintf("  %-20s %.1f%%", text.Accuracy, p.Accuracy),
		"  " + RenderBar(text.Learning, p.LearningPercent, 20, InfoStyle),
		"  " + SubtextStyle.Render(text.PatternsTrackedText(p.Collected)+" · "+text.OptimizationText(p.LearningPercent)),
	}, "\n")
}
