package dashboard

import (
	"signal-desk/internal/domain"
	"signal-desk/internal/locale"
)

// SignalPhase is what the prediction region currently shows.
type SignalPhase int

const (
	PhaseNeutral SignalPhase = iota
	PhaseCollecting
	PhaseShowing
)

// SignalDisplay is the rendered state of the prediction region.
type SignalDisplay struct {
	Phase       SignalPhase
	Label       string
	Tone        Tone
	Reduced     bool
	Confidence  int
	Probability *int
	Source      string
	Pattern     string
}

// SignalView renders one signal result and owns the analyzing state.
type SignalView struct {
	text        locale.Table
	probability bool
	analyzing   bool
	d           SignalDisplay
}

func NewSignalView(text locale.Table, features Features) *SignalView {
	v := &SignalView{text: text, probability: features.Probability}
	v.Reset(false)
	return v
}

func (v *SignalView) Display() SignalDisplay { return v.d }

func (v *SignalView) Analyzing() bool { return v.analyzing }

func (v *SignalView) SetAnalyzing(on bool) { v.analyzing = on }

// PatternBadge returns the badge text including the placeholder.
func (v *SignalView) PatternBadge() string { return v.text.PatternBadge(v.d.Pattern) }

// Show renders a ready signal. The pattern badge is only overwritten when the
// signal carries a pattern.
func (v *SignalView) Show(sig domain.SignalReady) {
	d := SignalDisplay{
		Phase:      PhaseShowing,
		Label:      string(sig.Prediction),
		Confidence: clampPercent(sig.Confidence),
		Source:     sig.Source,
		Pattern:    v.d.Pattern,
	}
	switch {
	case sig.Prediction == domain.PredictionSkip:
		d.Tone = ToneWarning
		d.Reduced = true
	case sig.Warning == domain.WarningOrange:
		d.Tone = ToneWarning
	case sig.Prediction == domain.PredictionBig:
		d.Tone = ToneSuccess
	default:
		d.Tone = ToneDanger
	}
	if v.probability && sig.Probability != nil {
		p := clampPercent(*sig.Probability)
		d.Probability = &p
	}
	if sig.DetectedPattern != "" {
		d.Pattern = sig.DetectedPattern
	}
	v.d = d
	v.analyzing = false
}

// ShowCollecting switches to the data-collection placeholder.
func (v *SignalView) ShowCollecting() {
	v.d = SignalDisplay{
		Phase:   PhaseCollecting,
		Label:   v.text.WaitLabel,
		Tone:    ToneWarning,
		Source:  v.text.CollectSource,
		Pattern: v.d.Pattern,
	}
	v.analyzing = false
}

// Reset returns to the neutral placeholder (or the collecting one) and clears
// the pattern badge.
func (v *SignalView) Reset(collecting bool) {
	v.d = SignalDisplay{
		Phase:  PhaseNeutral,
		Label:  v.text.NeutralLabel,
		Tone:   ToneDefault,
		Source: v.text.NeutralSource,
	}
	if collecting {
		v.ShowCollecting()
	}
	v.analyzing = false
}
