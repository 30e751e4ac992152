package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestOutcomeFromLetter(t *testing.T) {
	cases := map[string]Outcome{"b": OutcomeBig, "B": OutcomeBig, " big ": OutcomeBig, "s": OutcomeSmall, "SMALL": OutcomeSmall}
	for in, want := range cases {
		got, ok := OutcomeFromLetter(in)
		if !ok || got != want {
			t.Fatalf("OutcomeFromLetter(%q) = %q,%v want %q", in, got, ok, want)
		}
	}
	for _, in := range []string{"", "X", "BS", "1"} {
		if _, ok := OutcomeFromLetter(in); ok {
			t.Fatalf("expected %q to be rejected", in)
		}
	}
}

func TestOutcomeLetter(t *testing.T) {
	if OutcomeBig.Letter() != "B" || OutcomeSmall.Letter() != "S" {
		t.Fatal("unexpected letters")
	}
	if Outcome("x").Letter() != "" || Outcome("x").IsValid() {
		t.Fatal("expected invalid outcome")
	}
}

func TestTradeRecordDisplayTime(t *testing.T) {
	tr := TradeRecord{Timestamp: "2026-02-18 12:00:05"}
	if got := tr.DisplayTime(); got != "12:00:05" {
		t.Fatalf("expected time segment, got %q", got)
	}
	tr.Timestamp = "12:00:05"
	if got := tr.DisplayTime(); got != "12:00:05" {
		t.Fatalf("expected whole string, got %q", got)
	}
	tr.Timestamp = "2024-05-01 12:30:00 UTC"
	if got := tr.DisplayTime(); got != "12:30:00" {
		t.Fatalf("expected only the time token, got %q", got)
	}
}

func TestSnapshotCollecting(t *testing.T) {
	if !(DashboardSnapshot{TotalCollected: 12, TargetTrades: 20}).Collecting() {
		t.Fatal("expected collecting phase")
	}
	if (DashboardSnapshot{TotalCollected: 20, TargetTrades: 20}).Collecting() {
		t.Fatal("expected live phase at threshold")
	}
}

func TestAlertPresence(t *testing.T) {
	if Alert("").Present() {
		t.Fatal("empty alert must be absent")
	}
	ready := SignalReady{DragonAlert: "streak of 5"}
	if !ready.HasAlert() {
		t.Fatal("expected alert")
	}
}

func TestErrorsMatch(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &TransportError{Op: "get-signal", Err: errors.New("dial tcp")})
	if !errors.Is(err, ErrTransport) {
		t.Fatal("expected ErrTransport match")
	}
	var rej *RejectedError
	if errors.As(err, &rej) {
		t.Fatal("transport error must not match RejectedError")
	}
	if (&RejectedError{Op: "undo-trade"}).Error() != "undo-trade: rejected" {
		t.Fatal("unexpected empty-message rejection text")
	}
}
