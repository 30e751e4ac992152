package locale

import "testing"

func TestLookup(t *testing.T) {
	cases := map[string]Table{
		"":                 English,
		"en":               English,
		"en-US":            English,
		"bn":               Bengali,
		"bn-BD":            Bengali,
		"bn,en;q=0.8":      Bengali,
		"fr":               English,
		"not a tag at all": English,
	}
	for in, want := range cases {
		if got := Lookup(in); got.Tag != want.Tag {
			t.Fatalf("Lookup(%q) = %v, want %v", in, got.Tag, want.Tag)
		}
	}
}

func TestTablesComplete(t *testing.T) {
	for _, tbl := range tables {
		if tbl.ConnectionError == "" || tbl.EmptyHistory == "" || tbl.WaitLabel == "" || tbl.Intervening == "" {
			t.Fatalf("table %v is missing required strings", tbl.Tag)
		}
	}
}

func TestFormatters(t *testing.T) {
	if got := English.PatternsTrackedText(12); got != "12 Patterns Tracked" {
		t.Fatalf("unexpected stats text %q", got)
	}
	if got := English.OptimizationText(60); got != "60% Optimization" {
		t.Fatalf("unexpected progress text %q", got)
	}
	if got := English.PatternBadge(""); got != "Pattern: ---" {
		t.Fatalf("unexpected placeholder badge %q", got)
	}
	if got := English.PatternBadge("BBSS"); got != "Pattern: BBSS" {
		t.Fatalf("unexpected badge %q", got)
	}
}
