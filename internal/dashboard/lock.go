package dashboard

import (
	"errors"
	"time"
)

// ErrBusy is returned when an action is attempted while another one is in flight.
var ErrBusy = errors.New("another action is in flight")

// ActionKind names the action currently holding the lock.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSignal
	ActionSubmit
	ActionRefresh
	ActionUndo
	ActionNewSession
	ActionImport
	ActionOCR
	ActionExport
)

func (k ActionKind) String() string {
	switch k {
	case ActionSignal:
		return "signal"
	case ActionSubmit:
		return "submit"
	case ActionRefresh:
		return "refresh"
	case ActionUndo:
		return "undo"
	case ActionNewSession:
		return "new_session"
	case ActionImport:
		return "import"
	case ActionOCR:
		return "ocr"
	case ActionExport:
		return "export"
	}
	return "none"
}

// ActionLock is the single in-flight guard: Idle -> Locked(kind) -> Idle, with
// Locked(kind) -> Locked(refresh) when a mutation chains its refresh.
type ActionLock struct {
	kind  ActionKind
	since time.Time
	now   func() time.Time
}

func (l *ActionLock) clock() time.Time {
	if l.now != nil {
		return l.now()
	}
	return time.Now()
}

// Acquire moves the lock from Idle to Locked(kind).
func (l *ActionLock) Acquire(kind ActionKind) error {
	if l.kind != ActionNone {
		return ErrBusy
	}
	l.kind = kind
	l.since = l.clock()
	return nil
}

// Handoff passes a held lock to the follow-up action without going through Idle,
// so no other action can slip in between a mutation and its refresh. It reports
// how long the previous holder had the lock.
func (l *ActionLock) Handoff(kind ActionKind) time.Duration {
	now := l.clock()
	held := time.Duration(0)
	if l.kind != ActionNone {
		held = now.Sub(l.since)
	}
	l.kind = kind
	l.since = now
	return held
}

// Release returns the lock to Idle and reports how long it was held.
func (l *ActionLock) Release() time.Duration {
	held := time.Duration(0)
	if l.kind != ActionNone {
		held = l.clock().Sub(l.since)
	}
	l.kind = ActionNone
	l.since = time.Time{}
	return held
}

// Held reports the current holder, if any.
func (l *ActionLock) Held() (ActionKind, bool) {
	return l.kind, l.kind != ActionNone
}
