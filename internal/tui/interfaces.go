package tui

import (
	"context"

	"signal-desk/internal/dashboard"
)

// Session identifies who is driving a dashboard. Operator is empty for the
// local terminal.
type Session struct {
	Operator string
	Remote   string
}

// Label is the header suffix shown for remote sessions.
func (s Session) Label() string {
	if s.Operator == "" {
		return ""
	}
	if s.Remote == "" {
		return s.Operator
	}
	return s.Operator + "@" + s.Remote
}

// Services bundles what the TUI needs from the outside. Ctx bounds every
// backend call the dashboard issues and is cancelled when the session ends.
type Services struct {
	Controller *dashboard.Controller
	Ctx        context.Context
	Session    Session
}
