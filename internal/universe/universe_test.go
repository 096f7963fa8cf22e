package universe

import (
	"testing"

	"QuadSig/pkg/config"
)

func TestDefaultIsValid(t *testing.T) {
	u := Default()
	for _, q := range Order {
		d := u.Definition(q)
		if d.Name == "" {
			t.Fatalf("quadrant %s has no name", q)
		}
		if n := len(d.Indicators); n < 2 || n > 4 {
			t.Fatalf("quadrant %s has %d indicators", q, n)
		}
	}
}

func TestNewRejectsMissingQuadrant(t *testing.T) {
	defs := defaultDefinitions()
	delete(defs, Q3)
	if _, err := New(defs, nil); err == nil {
		t.Fatalf("expected error for missing quadrant")
	}
}

func TestNewRejectsBadIndicatorCount(t *testing.T) {
	defs := defaultDefinitions()
	d := defs[Q1]
	d.Indicators = []string{"QQQ"}
	defs[Q1] = d
	if _, err := New(defs, nil); err == nil {
		t.Fatalf("expected error for single indicator")
	}
}

func TestNewRejectsNonPositiveLeverage(t *testing.T) {
	defs := defaultDefinitions()
	d := defs[Q2]
	d.Leverage = 0
	defs[Q2] = d
	if _, err := New(defs, nil); err == nil {
		t.Fatalf("expected error for zero leverage")
	}
}

func TestNewRejectsNonPositiveWeight(t *testing.T) {
	defs := defaultDefinitions()
	d := defs[Q4]
	d.Allocations = map[string]float64{"TLT": -0.1}
	defs[Q4] = d
	if _, err := New(defs, nil); err == nil {
		t.Fatalf("expected error for negative weight")
	}
}

func TestCategoryDefault(t *testing.T) {
	u := Default()
	if got := u.Category("QQQ"); got != "growth" {
		t.Fatalf("expected growth, got %s", got)
	}
	if got := u.Category("ZZZZ"); got != "other" {
		t.Fatalf("expected other for unknown ticker, got %s", got)
	}
}

func TestSymbolsSortedDeduped(t *testing.T) {
	u := Default()
	symbols := u.Symbols()
	if len(symbols) == 0 {
		t.Fatalf("expected symbols")
	}
	seen := make(map[string]bool)
	for i, s := range symbols {
		if seen[s] {
			t.Fatalf("duplicate symbol %s", s)
		}
		seen[s] = true
		if i > 0 && symbols[i-1] >= s {
			t.Fatalf("symbols not sorted: %s >= %s", symbols[i-1], s)
		}
	}
	// VUG is an indicator only; must still be fetched.
	if !seen["VUG"] {
		t.Fatalf("indicator-only symbol missing from universe")
	}
}

func TestQuadrantLabel(t *testing.T) {
	u := Default()
	// XLE is in both Q2 and Q3 tables.
	if got := u.QuadrantLabel("XLE", Q2, Q3); got != "Q2+Q3" {
		t.Fatalf("expected Q2+Q3, got %s", got)
	}
	if got := u.QuadrantLabel("QQQ", Q1, Q2); got != "Q1" {
		t.Fatalf("expected Q1, got %s", got)
	}
	if got := u.QuadrantLabel("QQQ", Q3, Q4); got != "unknown" {
		t.Fatalf("expected unknown, got %s", got)
	}
}

func TestFromConfigOverridesQuadrant(t *testing.T) {
	cfg := &config.Config{
		Quadrants: map[string]config.QuadrantConfig{
			"Q1": {
				Name:               "Custom",
				GrowthDirection:    "rising",
				InflationDirection: "falling",
				Indicators:         []string{"SPY", "QQQ"},
				Leverage:           2.0,
				Allocations:        map[string]float64{"SPY": 0.5},
			},
		},
		Categories: map[string]string{"SPY": "broad"},
	}

	u, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := u.Definition(Q1)
	if d.Name != "Custom" || d.Leverage != 2.0 {
		t.Fatalf("override not applied: %+v", d)
	}
	// Untouched quadrants keep defaults.
	if u.Definition(Q2).Name != "Reflation" {
		t.Fatalf("default quadrant lost")
	}
	if u.Category("SPY") != "broad" {
		t.Fatalf("category merge not applied")
	}
	if u.Category("QQQ") != "growth" {
		t.Fatalf("default category lost")
	}
}

func TestFromConfigRejectsUnknownQuadrant(t *testing.T) {
	cfg := &config.Config{
		Quadrants: map[string]config.QuadrantConfig{"Q5": {}},
	}
	if _, err := FromConfig(cfg); err == nil {
		t.Fatalf("expected error for unknown quadrant key")
	}
}
