package universe

import (
	"fmt"
	"sort"
	"strings"
)

// Quadrant identifies one of the four macro regimes.
type Quadrant string

const (
	Q1 Quadrant = "Q1" // Goldilocks
	Q2 Quadrant = "Q2" // Reflation
	Q3 Quadrant = "Q3" // Stagflation
	Q4 Quadrant = "Q4" // Deflation
)

// Order is the declaration order used for stable tie-breaking.
var Order = []Quadrant{Q1, Q2, Q3, Q4}

// Definition describes one quadrant: display metadata, the indicator
// symbols scored for momentum, a leverage multiplier, and the allocation
// table of base weights. Table weights encode relative proportions before
// volatility reweighting; they need not sum to 1.
type Definition struct {
	Name               string
	GrowthDirection    string
	InflationDirection string
	Description        string
	Color              string
	Indicators         []string
	Leverage           float64
	Allocations        map[string]float64
}

// Universe is the validated, read-only registry of quadrant definitions
// and the instrument→category lookup. It is data, not behavior: swapping
// the tables never touches engine logic.
type Universe struct {
	defs       map[Quadrant]Definition
	categories map[string]string
}

// New validates definitions and builds a Universe. Every quadrant in Order
// must be present, with 2-4 indicators, positive leverage, and positive
// base weights.
func New(defs map[Quadrant]Definition, categories map[string]string) (*Universe, error) {
	for _, q := range Order {
		d, ok := defs[q]
		if !ok {
			return nil, fmt.Errorf("universe: quadrant %s missing", q)
		}
		if n := len(d.Indicators); n < 2 || n > 4 {
			return nil, fmt.Errorf("universe: quadrant %s has %d indicators, want 2-4", q, n)
		}
		if d.Leverage <= 0 {
			return nil, fmt.Errorf("universe: quadrant %s leverage must be positive", q)
		}
		if len(d.Allocations) == 0 {
			return nil, fmt.Errorf("universe: quadrant %s allocation table empty", q)
		}
		for sym, w := range d.Allocations {
			if w <= 0 {
				return nil, fmt.Errorf("universe: quadrant %s weight for %s must be positive", q, sym)
			}
		}
	}
	cats := make(map[string]string, len(categories))
	for sym, cat := range categories {
		cats[sym] = cat
	}
	cp := make(map[Quadrant]Definition, len(defs))
	for q, d := range defs {
		cp[q] = d
	}
	return &Universe{defs: cp, categories: cats}, nil
}

// Definition returns the definition for q.
func (u *Universe) Definition(q Quadrant) Definition { return u.defs[q] }

// Category returns the display category for a symbol, defaulting to
// "other" for unknown tickers.
func (u *Universe) Category(symbol string) string {
	if c, ok := u.categories[symbol]; ok {
		return c
	}
	return "other"
}

// Symbols returns the full static universe: every allocation-table and
// indicator symbol, sorted and deduplicated.
func (u *Universe) Symbols() []string {
	seen := make(map[string]struct{})
	for _, d := range u.defs {
		for sym := range d.Allocations {
			seen[sym] = struct{}{}
		}
		for _, sym := range d.Indicators {
			seen[sym] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for sym := range seen {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// QuadrantLabel joins the subset of selected quadrants whose table holds
// the symbol, e.g. "Q1+Q2". Returns "unknown" when none match, which
// should not occur for engine-produced positions.
func (u *Universe) QuadrantLabel(symbol string, selected ...Quadrant) string {
	var parts []string
	for _, q := range selected {
		if _, ok := u.defs[q].Allocations[symbol]; ok {
			parts = append(parts, string(q))
		}
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "+")
}
