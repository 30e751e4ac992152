package api

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"signal-desk/internal/domain"
)

const (
	statusSuccess = "success"
	statusWaiting = "waiting"
	statusError   = "error"
)

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (e *envelope) header() *envelope { return e }

type statusCarrier interface {
	header() *envelope
}

// optionalText decodes a field the backend may send as a string, null, or false.
// Only a non-empty JSON string counts as present.
type optionalText string

func (t *optionalText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*t = ""
		return nil
	}
	*t = optionalText(s)
	return nil
}

// flexString accepts both JSON strings and numbers (trade ids are opaque).
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	*f = flexString(strings.TrimSpace(string(b)))
	return nil
}

type signalResponse struct {
	envelope
	Prediction       string       `json:"prediction"`
	Confidence       float64      `json:"confidence"`
	Probability      *float64     `json:"probability"`
	Source           string       `json:"source"`
	DetectedPattern  optionalText `json:"detected_pattern"`
	RiskAlert        optionalText `json:"risk_alert"`
	DragonAlert      optionalText `json:"dragon_alert"`
	WarningColor     optionalText `json:"warning_color"`
	VolatilityScore  *float64     `json:"volatility_score"`
	VolatilityStatus optionalText `json:"volatility_status"`
}

func (r signalResponse) toDomain() domain.SignalReady {
	out := domain.SignalReady{
		Prediction:      domain.Prediction(strings.ToUpper(strings.TrimSpace(r.Prediction))),
		Confidence:      percent(r.Confidence),
		Source:          r.Source,
		DetectedPattern: string(r.DetectedPattern),
		RiskAlert:       domain.Alert(r.RiskAlert),
		DragonAlert:     domain.Alert(r.DragonAlert),
		Volatility:      volatility(r.VolatilityScore, r.VolatilityStatus),
	}
	if r.Probability != nil {
		p := percent(*r.Probability)
		out.Probability = &p
	}
	if strings.EqualFold(string(r.WarningColor), string(domain.WarningOrange)) {
		out.Warning = domain.WarningOrange
	}
	return out
}

type tradeWire struct {
	TradeID      flexString   `json:"trade_id"`
	Timestamp    string       `json:"timestamp"`
	AIPrediction string       `json:"ai_prediction"`
	AIConfidence float64      `json:"ai_confidence"`
	ActualResult optionalText `json:"actual_result"`
}

type dashboardResponse struct {
	envelope
	Accuracy         float64      `json:"accuracy"`
	TotalCollected   int          `json:"total_collected"`
	LearningPercent  float64      `json:"learning_percent"`
	TargetTrades     int          `json:"target_trades"`
	Trades           []tradeWire  `json:"trades"`
	VolatilityScore  *float64     `json:"volatility_score"`
	VolatilityStatus optionalText `json:"volatility_status"`
}

func (r dashboardResponse) toDomain() domain.DashboardSnapshot {
	trades := make([]domain.TradeRecord, 0, len(r.Trades))
	for _, tw := range r.Trades {
		rec := domain.TradeRecord{
			TradeID:      string(tw.TradeID),
			Timestamp:    tw.Timestamp,
			AIPrediction: domain.Prediction(strings.ToUpper(strings.TrimSpace(tw.AIPrediction))),
			AIConfidence: percent(tw.AIConfidence),
		}
		if tw.ActualResult != "" {
			res := domain.Outcome(strings.ToUpper(strings.TrimSpace(string(tw.ActualResult))))
			rec.ActualResult = &res
		}
		trades = append(trades, rec)
	}
	return domain.DashboardSnapshot{
		Accuracy:        r.Accuracy,
		TotalCollected:  r.TotalCollected,
		LearningPercent: percent(r.LearningPercent),
		TargetTrades:    r.TargetTrades,
		Trades:          trades,
		Volatility:      volatility(r.VolatilityScore, r.VolatilityStatus),
	}
}

type ocrResponse struct {
	envelope
	Results []string `json:"results"`
}

type submitRequest struct {
	Result     string `json:"result"`
	UserChoice string `json:"user_choice"`
	BetAmount  int    `json:"bet_amount"`
}

type undoRequest struct {
	TradeID string `json:"trade_id"`
}

type bulkPatternRequest struct {
	Pattern []string `json:"pattern"`
}

func volatility(score *float64, status optionalText) *domain.Volatility {
	if score == nil {
		return nil
	}
	return &domain.Volatility{
		Score:  *score,
		Status: domain.VolatilityStatus(strings.ToUpper(strings.TrimSpace(string(status)))),
	}
}

// percent rounds a 0-100 value to an int and clamps it.
func percent(v float64) int {
	n := int(math.Round(v))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
