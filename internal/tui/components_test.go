package tui

import (
	"strings"
	"testing"

	"signal-desk/internal/dashboard"
)

func TestRenderBarClamps(t *testing.T) {
	full := RenderBar("Confidence", 140, 10, SuccessStyle)
	if !strings.Contains(full, strings.Repeat("█", 10)) || !strings.HasSuffix(full, "100%") {
		t.Fatalf("expected full bar, got %q", full)
	}
	empty := RenderBar("Confidence", -5, 10, SuccessStyle)
	if strings.Contains(empty, "█") || !strings.HasSuffix(empty, " 0%") {
		t.Fatalf("expected empty bar, got %q", empty)
	}
}

func TestRenderBannerHiddenWithoutMessage(t *testing.T) {
	if got := RenderBanner("DRAGON ALERT", dashboard.Banner{}, DragonBannerStyle); got != "" {
		t.Fatalf("expected hidden banner, got %q", got)
	}
	got := RenderBanner("DRAGON ALERT", dashboard.Banner{Message: "6x BIG"}, DragonBannerStyle)
	if !strings.Contains(got, "DRAGON ALERT: 6x BIG") {
		t.Fatalf("unexpected banner %q", got)
	}
}

func TestFormatHistoryEntryMarksSelection(t *testing.T) {
	e := dashboard.HistoryEntry{Time: "10:02:00", Prediction: "BIG", Result: "BIG", Confidence: 70, Class: dashboard.ClassWin}
	if got := FormatHistoryEntry(e, "WIN", true); !strings.Contains(got, "> ") || !strings.Contains(got, "WIN") {
		t.Fatalf("unexpected selected line %q", got)
	}
	if got := FormatHistoryEntry(e, "WIN", false); strings.Contains(got, ">") {
		t.Fatalf("unexpected cursor on unselected line %q", got)
	}
}

func TestToneStyleCoversEveryTone(t *testing.T) {
	tones := []dashboard.Tone{
		dashboard.ToneSuccess, dashboard.ToneDanger, dashboard.ToneWarning, dashboard.ToneInfo,
		dashboard.ToneCalm, dashboard.ToneEscalated, dashboard.ToneHighRisk,
	}
	def := ToneStyle(dashboard.ToneDefault).GetForeground()
	for _, tone := range tones {
		if ToneStyle(tone).GetForeground() == def {
			t.Fatalf("tone %s shares the default color", tone)
		}
	}
}
