package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"signal-desk/internal/domain"
)

const (
	DefaultPatternSlots = 15
	MinPatternLength    = 5
)

var ErrPatternTooShort = fmt.Errorf("pattern needs at least %d results", MinPatternLength)

// InvalidSlotError reports a slot holding something other than B or S.
type InvalidSlotError struct {
	Index int
	Value string
}

func (e *InvalidSlotError) Error() string {
	return fmt.Sprintf("slot %d: invalid value %q", e.Index+1, e.Value)
}

// PatternImporter holds the manual entry slots and the screenshot upload state.
type PatternImporter struct {
	slots     []string
	uploading bool
	path      string
}

func NewPatternImporter(slots int) *PatternImporter {
	if slots <= 0 {
		slots = DefaultPatternSlots
	}
	return &PatternImporter{slots: make([]string, slots)}
}

func (p *PatternImporter) Len() int { return len(p.slots) }

func (p *PatternImporter) Slot(i int) string {
	if i < 0 || i >= len(p.slots) {
		return ""
	}
	return p.slots[i]
}

// Slots returns a copy of the slot contents.
func (p *PatternImporter) Slots() []string {
	return append([]string(nil), p.slots...)
}

func (p *PatternImporter) SetSlot(i int, value string) {
	if i < 0 || i >= len(p.slots) {
		return
	}
	p.slots[i] = strings.TrimSpace(value)
}

func (p *PatternImporter) Clear() {
	for i := range p.slots {
		p.slots[i] = ""
	}
}

// Pattern validates the slots in order, skipping empty ones.
func (p *PatternImporter) Pattern() ([]domain.Outcome, error) {
	out := make([]domain.Outcome, 0, len(p.slots))
	for i, v := range p.slots {
		if v == "" {
			continue
		}
		if len(v) != 1 {
			return nil, &InvalidSlotError{Index: i, Value: v}
		}
		o, ok := domain.OutcomeFromLetter(v)
		if !ok {
			return nil, &InvalidSlotError{Index: i, Value: v}
		}
		out = append(out, o)
	}
	if len(out) < MinPatternLength {
		return nil, ErrPatternTooShort
	}
	return out, nil
}

// Fill replaces every slot with OCR letters, newest first. Letters beyond the
// slot count are dropped.
func (p *PatternImporter) Fill(letters []string) {
	p.Clear()
	for i, l := range letters {
		if i >= len(p.slots) {
			break
		}
		l = strings.TrimSpace(l)
		if o, ok := domain.OutcomeFromLetter(l); ok {
			l = o.Letter()
		}
		p.slots[i] = l
	}
}

func (p *PatternImporter) Uploading() bool { return p.uploading }

// SelectedPath is the screenshot currently being uploaded.
func (p *PatternImporter) SelectedPath() string { return p.path }

func (p *PatternImporter) beginUpload(path string) {
	p.uploading = true
	p.path = path
}

func (p *PatternImporter) endUpload() {
	p.uploading = false
	p.path = ""
}

// IsValidation reports whether err is a local pattern validation failure.
func IsValidation(err error) bool {
	var slot *InvalidSlotError
	return errors.As(err, &slot) || errors.Is(err, ErrPatternTooShort)
}
