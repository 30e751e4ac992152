// Package locale holds the display strings of the dashboard.
package locale

import (
	"fmt"

	"golang.org/x/text/language"
)

// Table is one language's set of display strings.
type Table struct {
	Tag language.Tag

	Title         string
	GetSignal     string
	Analyzing     string
	WaitLabel     string
	NeutralLabel  string
	CollectSource string
	NeutralSource string
	PatternPrefix string
	NoPattern     string

	Confidence  string
	Probability string
	Accuracy    string
	Learning    string
	Volatility  string

	RiskStatus        string
	RecoveryStatus    string
	ProbabilityStatus string
	Intervening       string
	Active            string
	RecoveryActive    string
	Idle              string
	Cautious          string
	RiskBanner        string
	DragonBanner      string

	History      string
	EmptyHistory string
	Win          string
	Loss         string
	Data         string
	Unknown      string
	Undo         string

	ConfirmUndo       string
	ConfirmNewSession string
	Yes               string
	No                string

	ImportTitle     string
	ImportHint      string
	ScreenshotPath  string
	Uploading       string
	InvalidSlot     string // slot number, value
	PatternTooShort string // minimum length
	NoOCRResults    string

	ConnectionError string
	ErrorPrefix     string
	ExportSaved     string // file path
	ExportFailed    string
	Busy            string
	NoPrediction    string
	ControlsLocked  string

	PatternsTracked string // count
	Optimization    string // percent
}

// PatternsTrackedText renders the learning stats line.
func (t Table) PatternsTrackedText(n int) string {
	return fmt.Sprintf(t.PatternsTracked, n)
}

// OptimizationText renders the learning progress caption.
func (t Table) OptimizationText(pct int) string {
	return fmt.Sprintf(t.Optimization, pct)
}

// PatternBadge renders the detected-pattern badge, falling back to the placeholder.
func (t Table) PatternBadge(pattern string) string {
	if pattern == "" {
		pattern = t.NoPattern
	}
	return t.PatternPrefix + pattern
}

var English = Table{
	Tag: language.English,

	Title:         "Signal Desk",
	GetSignal:     "GET SIGNAL",
	Analyzing:     "ANALYZING...",
	WaitLabel:     "WAIT",
	NeutralLabel:  "---",
	CollectSource: "Data Collection Phase",
	NeutralSource: "Waiting...",
	PatternPrefix: "Pattern: ",
	NoPattern:     "---",

	Confidence:  "Confidence",
	Probability: "Probability",
	Accuracy:    "Live Accuracy",
	Learning:    "AI Learning",
	Volatility:  "Market Volatility",

	RiskStatus:        "Risk Manager",
	RecoveryStatus:    "Recovery",
	ProbabilityStatus: "Probability Engine",
	Intervening:       "INTERVENING",
	Active:            "Active",
	RecoveryActive:    "ACTIVE",
	Idle:              "Idle",
	Cautious:          "CAUTIOUS",
	RiskBanner:        "CID SCANNER",
	DragonBanner:      "DRAGON ALERT",

	History:      "Trade History",
	EmptyHistory: "No trades yet. Get a signal to start!",
	Win:          "WIN",
	Loss:         "LOSS",
	Data:         "DATA",
	Unknown:      "???",
	Undo:         "Undo",

	ConfirmUndo:       "Delete this entry and correct AI memory?",
	ConfirmNewSession: "Start a New Session? This will archive current data and reset the AI short-term memory (PEM) for better market adaptation.",
	Yes:               "yes",
	No:                "no",

	ImportTitle:     "Bulk Pattern Import",
	ImportHint:      "Enter B or S per slot, newest first",
	ScreenshotPath:  "Screenshot path",
	Uploading:       "Reading screenshot...",
	InvalidSlot:     "Invalid entry in slot %d: %q. Use B or S.",
	PatternTooShort: "Enter at least %d results.",
	NoOCRResults:    "No results found in screenshot.",

	ConnectionError: "Connection error. Try again.",
	ErrorPrefix:     "Error: ",
	ExportSaved:     "CVC data saved to %s",
	ExportFailed:    "Failed to download CVC data.",
	Busy:            "Please wait for the current action to finish.",
	NoPrediction:    "Get a signal first.",
	ControlsLocked:  "Result entry is disabled until the next signal.",

	PatternsTracked: "%d Patterns Tracked",
	Optimization:    "%d%% Optimization",
}

var Bengali = Table{
	Tag: language.Bengali,

	Title:         "সিগন্যাল ডেস্ক",
	GetSignal:     "সিগন্যাল নিন",
	Analyzing:     "বিশ্লেষণ চলছে...",
	WaitLabel:     "অপেক্ষা",
	NeutralLabel:  "---",
	CollectSource: "ডেটা সংগ্রহ পর্ব",
	NeutralSource: "অপেক্ষমাণ...",
	PatternPrefix: "প্যাটার্ন: ",
	NoPattern:     "---",

	Confidence:  "আত্মবিশ্বাস",
	Probability: "সম্ভাবনা",
	Accuracy:    "লাইভ নির্ভুলতা",
	Learning:    "এআই শিক্ষণ",
	Volatility:  "বাজারের অস্থিরতা",

	RiskStatus:        "ঝুঁকি ব্যবস্থাপক",
	RecoveryStatus:    "পুনরুদ্ধার",
	ProbabilityStatus: "সম্ভাবনা ইঞ্জিন",
	Intervening:       "হস্তক্ষেপ করছে",
	Active:            "সক্রিয়",
	RecoveryActive:    "সক্রিয়",
	Idle:              "নিষ্ক্রিয়",
	Cautious:          "সতর্ক",
	RiskBanner:        "সিআইডি স্ক্যানার",
	DragonBanner:      "ড্রাগন সতর্কতা",

	History:      "ট্রেড ইতিহাস",
	EmptyHistory: "এখনো কোনো ট্রেড নেই। শুরু করতে সিগন্যাল নিন!",
	Win:          "জয়",
	Loss:         "হার",
	Data:         "ডেটা",
	Unknown:      "???",
	Undo:         "বাতিল",

	ConfirmUndo:       "এই এন্ট্রি মুছে এআই মেমরি সংশোধন করবেন?",
	ConfirmNewSession: "নতুন সেশন শুরু করবেন? বর্তমান ডেটা আর্কাইভ হবে এবং এআই-এর স্বল্পমেয়াদি মেমরি (PEM) রিসেট হবে।",
	Yes:               "হ্যাঁ",
	No:                "না",

	ImportTitle:     "বাল্ক প্যাটার্ন ইমপোর্ট",
	ImportHint:      "প্রতিটি ঘরে B বা S লিখুন, সর্বশেষটি আগে",
	ScreenshotPath:  "স্ক্রিনশটের পাথ",
	Uploading:       "স্ক্রিনশট পড়া হচ্ছে...",
	InvalidSlot:     "ঘর %d-এ ভুল এন্ট্রি: %q। B বা S ব্যবহার করুন।",
	PatternTooShort: "কমপক্ষে %dটি ফলাফল দিন।",
	NoOCRResults:    "স্ক্রিনশটে কোনো ফলাফল পাওয়া যায়নি।",

	ConnectionError: "সংযোগ ত্রুটি। আবার চেষ্টা করুন।",
	ErrorPrefix:     "ত্রুটি: ",
	ExportSaved:     "CVC ডেটা সংরক্ষিত হয়েছে: %s",
	ExportFailed:    "CVC ডেটা ডাউনলোড ব্যর্থ হয়েছে।",
	Busy:            "বর্তমান কাজ শেষ হওয়া পর্যন্ত অপেক্ষা করুন।",
	NoPrediction:    "আগে একটি সিগন্যাল নিন।",
	ControlsLocked:  "পরবর্তী সিগন্যাল না আসা পর্যন্ত ফলাফল দেওয়া বন্ধ।",

	PatternsTracked: "%dটি প্যাটার্ন ট্র্যাক করা হয়েছে",
	Optimization:    "%d%% অপ্টিমাইজেশন",
}

var (
	tables  = []Table{English, Bengali}
	matcher = language.NewMatcher([]language.Tag{language.English, language.Bengali})
)

// Lookup returns the table that best matches a BCP 47 tag or Accept-Language style
// list such as "bn-BD" or "bn,en;q=0.8". Unknown input falls back to English.
func Lookup(pref string) Table {
	tags, _, err := language.ParseAcceptLanguage(pref)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return English
	}
	return tables[idx]
}
