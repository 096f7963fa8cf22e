package universe

import (
	"fmt"

	"QuadSig/pkg/config"
)

// FromConfig builds the registry from canonical defaults with YAML
// overrides applied: quadrant entries replace the whole definition,
// category entries merge over the default lookup.
func FromConfig(cfg *config.Config) (*Universe, error) {
	defs := defaultDefinitions()
	for key, qc := range cfg.Quadrants {
		q := Quadrant(key)
		if _, ok := defs[q]; !ok {
			return nil, fmt.Errorf("universe: unknown quadrant %q in config", key)
		}
		defs[q] = Definition{
			Name:               qc.Name,
			GrowthDirection:    qc.GrowthDirection,
			InflationDirection: qc.InflationDirection,
			Description:        qc.Description,
			Color:              qc.Color,
			Indicators:         qc.Indicators,
			Leverage:           qc.Leverage,
			Allocations:        qc.Allocations,
		}
	}
	cats := defaultCategories()
	for sym, cat := range cfg.Categories {
		cats[sym] = cat
	}
	return New(defs, cats)
}
