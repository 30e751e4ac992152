package dashboard

import (
	"signal-desk/internal/domain"
	"signal-desk/internal/locale"
)

// Status is one labelled indicator.
type Status struct {
	Text string
	Tone Tone
}

// Banner is an alert box. It is visible iff Message is non-empty.
type Banner struct {
	Message domain.Alert
}

func (b Banner) Visible() bool { return b.Message.Present() }

// AlertPresenter derives the alert banners and manager statuses from a signal.
type AlertPresenter struct {
	text        locale.Table
	probability bool

	risk     Banner
	dragon   Banner
	riskSt   Status
	recovery Status
	probSt   Status
}

func NewAlertPresenter(text locale.Table, features Features) *AlertPresenter {
	return &AlertPresenter{
		text:        text,
		probability: features.Probability,
		riskSt:      Status{Text: text.Active, Tone: ToneDefault},
		recovery:    Status{Text: text.Idle, Tone: ToneCalm},
		probSt:      Status{Text: text.Active, Tone: ToneDefault},
	}
}

// Apply shows each banner whose message is present and recomputes the statuses.
// A dragon alert outranks a risk alert for the risk status color.
func (a *AlertPresenter) Apply(sig domain.SignalReady) {
	a.risk = Banner{Message: sig.RiskAlert}
	a.dragon = Banner{Message: sig.DragonAlert}

	switch {
	case sig.DragonAlert.Present():
		a.riskSt = Status{Text: a.text.Intervening, Tone: ToneEscalated}
	case sig.RiskAlert.Present():
		a.riskSt = Status{Text: a.text.Intervening, Tone: ToneHighRisk}
	default:
		a.riskSt = Status{Text: a.text.Active, Tone: ToneDefault}
	}

	if sig.HasAlert() {
		a.recovery = Status{Text: a.text.RecoveryActive, Tone: ToneSuccess}
		a.probSt = Status{Text: a.text.Cautious, Tone: ToneWarning}
	} else {
		a.recovery = Status{Text: a.text.Idle, Tone: ToneCalm}
		a.probSt = Status{Text: a.text.Active, Tone: ToneDefault}
	}
}

func (a *AlertPresenter) HideBanners() {
	a.risk = Banner{}
	a.dragon = Banner{}
}

func (a *AlertPresenter) RiskBanner() Banner   { return a.risk }
func (a *AlertPresenter) DragonBanner() Banner { return a.dragon }
func (a *AlertPresenter) RiskStatus() Status   { return a.riskSt }
func (a *AlertPresenter) Recovery() Status     { return a.recovery }

// ProbabilityStatus is only reported when the probability region exists.
func (a *AlertPresenter) ProbabilityStatus() (Status, bool) {
	return a.probSt, a.probability
}
