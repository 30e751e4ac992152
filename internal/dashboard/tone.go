package dashboard

// Tone is a semantic color slot. The presentation layer maps tones to styles.
type Tone int

const (
	ToneDefault Tone = iota
	ToneSuccess
	ToneDanger
	ToneWarning
	ToneInfo
	ToneCalm
	ToneEscalated
	ToneHighRisk
)

func (t Tone) String() string {
	switch t {
	case ToneSuccess:
		return "success"
	case ToneDanger:
		return "danger"
	case ToneWarning:
		return "warning"
	case ToneInfo:
		return "info"
	case ToneCalm:
		return "calm"
	case ToneEscalated:
		return "escalated"
	case ToneHighRisk:
		return "high_risk"
	}
	return "default"
}

// Features toggles the optional regions of the dashboard.
type Features struct {
	Probability bool
	Volatility  bool
	Importer    bool
}

// AllFeatures enables every optional region.
func AllFeatures() Features {
	return Features{Probability: true, Volatility: true, Importer: true}
}

// FeaturesFrom enables the regions named in names. Unknown names are ignored.
func FeaturesFrom(names []string) Features {
	var f Features
	for _, n := range names {
		switch n {
		case "probability":
			f.Probability = true
		case "volatility":
			f.Volatility = true
		case "importer":
			f.Importer = true
		}
	}
	return f
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
