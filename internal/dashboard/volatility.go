package dashboard

import (
	"math"

	"signal-desk/internal/domain"
)

// VolatilityGauge renders the volatility meter. A nil gauge means the region is
// absent and every method is a no-op.
type VolatilityGauge struct {
	width  int
	status domain.VolatilityStatus
	tone   Tone
	known  bool
}

func NewVolatilityGauge(features Features) *VolatilityGauge {
	if !features.Volatility {
		return nil
	}
	return &VolatilityGauge{tone: ToneCalm}
}

// Apply updates the meter. A nil reading leaves the gauge unchanged.
func (g *VolatilityGauge) Apply(v *domain.Volatility) {
	if g == nil || v == nil {
		return
	}
	g.width = clampPercent(int(math.Round(v.Score)))
	g.status = v.Status
	g.tone = VolatilityTone(v.Status)
	g.known = true
}

// Reading returns bar width, status and tone, and whether a reading was ever applied.
func (g *VolatilityGauge) Reading() (width int, status domain.VolatilityStatus, tone Tone, ok bool) {
	if g == nil {
		return 0, "", ToneCalm, false
	}
	return g.width, g.status, g.tone, g.known
}

// VolatilityTone maps a status tag to its meter color.
func VolatilityTone(s domain.VolatilityStatus) Tone {
	switch s {
	case domain.VolatilityExtreme:
		return ToneDanger
	case domain.VolatilityVolatile:
		return ToneWarning
	case domain.VolatilityNormal:
		return ToneInfo
	}
	return ToneCalm
}
