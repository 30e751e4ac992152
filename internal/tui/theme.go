package tui

import (
	"signal-desk/internal/dashboard"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Tab bar styles
	TabStyle       = lipgloss.NewStyle().Padding(0, 2)
	ActiveTabStyle = TabStyle.Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))
	InactiveTabStyle = TabStyle.
				Foreground(lipgloss.Color("#888888"))

	// Tone colors
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	DangerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))
	InfoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00BFFF"))
	CalmStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	EscalatedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF00FF")).Bold(true)
	HighRiskStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4500")).Bold(true)

	// Prediction display
	PredictionStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	ReducedStyle    = lipgloss.NewStyle().Faint(true)

	// Alert banners
	DragonBannerStyle = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#8B008B")).
				Padding(0, 1)
	RiskBannerStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FF4500")).
			Padding(0, 1)

	// General styles
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	SubtextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	BorderStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#555555"))
	ModalStyle   = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#FFFF00")).Padding(0, 1)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	NoticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00BFFF"))
	CursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	SpinnerColor = lipgloss.Color("#7D56F4")
)

// ToneStyle maps a semantic tone to its terminal style.
func ToneStyle(t dashboard.Tone) lipgloss.Style {
	switch t {
	case dashboard.ToneSuccess:
		return SuccessStyle
	case dashboard.ToneDanger:
		return DangerStyle
	case dashboard.ToneWarning:
		return WarningStyle
	case dashboard.ToneInfo:
		return InfoStyle
	case dashboard.ToneCalm:
		return CalmStyle
	case dashboard.ToneEscalated:
		return EscalatedStyle
	case dashboard.ToneHighRisk:
		return HighRiskStyle
	}
	return HeaderStyle
}

// ClassStyle colors a history tag.
func ClassStyle(c dashboard.EntryClass) lipgloss.Style {
	switch c {
	case dashboard.ClassWin:
		return SuccessStyle
	case dashboard.ClassLoss:
		return DangerStyle
	}
	return InfoStyle
}
