package domain

import "strings"

// Prediction is the label the backend attaches to a signal or a logged trade.
type Prediction string

const (
	PredictionBig   Prediction = "BIG"
	PredictionSmall Prediction = "SMALL"
	PredictionSkip  Prediction = "SKIP/RISKY"
	// PredictionInitial marks bootstrap entries recorded during data collection.
	PredictionInitial Prediction = "INITIAL"
)

// Outcome is an actual round result entered by the operator.
type Outcome string

const (
	OutcomeBig   Outcome = "BIG"
	OutcomeSmall Outcome = "SMALL"
)

func (o Outcome) IsValid() bool {
	return o == OutcomeBig || o == OutcomeSmall
}

// Letter returns the single-letter pattern form of the outcome.
func (o Outcome) Letter() string {
	switch o {
	case OutcomeBig:
		return "B"
	case OutcomeSmall:
		return "S"
	}
	return ""
}

// OutcomeFromLetter resolves B/S (case-insensitive) and the long forms BIG/SMALL.
func OutcomeFromLetter(s string) (Outcome, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "B", "BIG":
		return OutcomeBig, true
	case "S", "SMALL":
		return OutcomeSmall, true
	}
	return "", false
}

// DefaultBetAmount is the fixed stake sent with every result submission.
const DefaultBetAmount = 10

// WaitingChoice is the user choice committed while the backend is still collecting data.
const WaitingChoice = "WAIT"

type TradeRecord struct {
	TradeID      string
	Timestamp    string
	AIPrediction Prediction
	AIConfidence int
	ActualResult *Outcome
}

// DisplayTime returns the second space-separated token of the timestamp, or
// the raw value when there is none.
func (t TradeRecord) DisplayTime() string {
	if parts := strings.Split(t.Timestamp, " "); len(parts) > 1 {
		return parts[1]
	}
	return t.Timestamp
}

type VolatilityStatus string

const (
	VolatilityExtreme  VolatilityStatus = "EXTREME"
	VolatilityVolatile VolatilityStatus = "VOLATILE"
	VolatilityNormal   VolatilityStatus = "NORMAL"
	VolatilityStable   VolatilityStatus = "STABLE"
)

type Volatility struct {
	Score  float64
	Status VolatilityStatus
}

type DashboardSnapshot struct {
	Accuracy        float64
	TotalCollected  int
	LearningPercent int
	TargetTrades    int
	Trades          []TradeRecord
	Volatility      *Volatility
}

// Collecting reports whether the backend is still in its data-collection phase.
func (s DashboardSnapshot) Collecting() bool {
	return s.TotalCollected < s.TargetTrades
}

// Alert is an optional banner message. The empty string means no alert.
type Alert string

func (a Alert) Present() bool { return a != "" }

type WarningColor string

const (
	WarningNone   WarningColor = ""
	WarningOrange WarningColor = "Orange"
)

// SignalResult is the decoded get-signal response: SignalReady or SignalWaiting.
// Rejections are reported as *RejectedError instead.
type SignalResult interface {
	signalResult()
}

type SignalReady struct {
	Prediction      Prediction
	Confidence      int
	Probability     *int
	Source          string
	DetectedPattern string
	RiskAlert       Alert
	DragonAlert     Alert
	Warning         WarningColor
	Volatility      *Volatility
}

type SignalWaiting struct {
	Message string
}

func (SignalReady) signalResult()   {}
func (SignalWaiting) signalResult() {}

// HasAlert reports whether either banner message is present.
func (s SignalReady) HasAlert() bool {
	return s.RiskAlert.Present() || s.DragonAlert.Present()
}

type Submission struct {
	Result     Outcome
	UserChoice string
	BetAmount  int
}

// Ack is the success payload of a mutating endpoint.
type Ack struct {
	Message string
}
