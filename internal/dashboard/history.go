package dashboard

import (
	"signal-desk/internal/domain"
	"signal-desk/internal/locale"
)

// EntryClass is the win/loss tag of a history entry.
type EntryClass string

const (
	ClassData EntryClass = "data"
	ClassWin  EntryClass = "win"
	ClassLoss EntryClass = "loss"
)

// HistoryEntry is one rendered trade. TradeID is what the undo control acts on.
type HistoryEntry struct {
	TradeID    string
	Time       string
	Prediction string
	Result     string
	Confidence int
	Class      EntryClass
}

// Classify tags a trade. Bootstrap entries are always data; otherwise a trade
// wins only when a recorded result equals the prediction.
func Classify(tr domain.TradeRecord) EntryClass {
	if tr.AIPrediction == domain.PredictionInitial {
		return ClassData
	}
	if tr.ActualResult != nil && string(*tr.ActualResult) == string(tr.AIPrediction) {
		return ClassWin
	}
	return ClassLoss
}

// HistoryView renders the trade list in server order.
type HistoryView struct {
	text    locale.Table
	entries []HistoryEntry
}

func NewHistoryView(text locale.Table) *HistoryView {
	return &HistoryView{text: text}
}

// Render replaces every entry with the given trades.
func (h *HistoryView) Render(trades []domain.TradeRecord) {
	entries := make([]HistoryEntry, 0, len(trades))
	for _, tr := range trades {
		result := h.text.Unknown
		if tr.ActualResult != nil {
			result = string(*tr.ActualResult)
		}
		entries = append(entries, HistoryEntry{
			TradeID:    tr.TradeID,
			Time:       tr.DisplayTime(),
			Prediction: string(tr.AIPrediction),
			Result:     result,
			Confidence: tr.AIConfidence,
			Class:      Classify(tr),
		})
	}
	h.entries = entries
}

func (h *HistoryView) Entries() []HistoryEntry { return h.entries }

func (h *HistoryView) Empty() bool { return len(h.entries) == 0 }

// Placeholder is shown instead of the list when there are no entries.
func (h *HistoryView) Placeholder() string { return h.text.EmptyHistory }

// ClassLabel returns the localized tag text.
func (h *HistoryView) ClassLabel(c EntryClass) string {
	switch c {
	case ClassWin:
		return h.text.Win
	case ClassLoss:
		return h.text.Loss
	}
	return h.text.Data
}

// Entry returns the entry at i, if any.
func (h *HistoryView) Entry(i int) (HistoryEntry, bool) {
	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, false
	}
	return h.entries[i], true
}
