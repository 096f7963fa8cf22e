package universe

// Default returns the canonical configuration: allocation tables, indicator
// lists, leverage multipliers, and the instrument→category lookup. YAML
// config may override any of it at startup.
func Default() *Universe {
	u, err := New(defaultDefinitions(), defaultCategories())
	if err != nil {
		// The baked-in tables are validated by tests; reaching here means
		// the defaults themselves are broken.
		panic(err)
	}
	return u
}

func defaultDefinitions() map[Quadrant]Definition {
	return map[Quadrant]Definition{
		Q1: {
			Name:               "Goldilocks",
			GrowthDirection:    "rising",
			InflationDirection: "falling",
			Description:        "Growth rising, inflation falling. Risk-on environment favoring growth assets.",
			Color:              "#22c55e",
			Indicators:         []string{"QQQ", "VUG", "IWM"},
			Leverage:           1.5,
			Allocations: map[string]float64{
				"QQQ":  0.24,
				"ARKK": 0.18,
				"IWM":  0.09,
				"IBIT": 0.06,
				"XLC":  0.075,
				"XLY":  0.075,
				"TLT":  0.05,
				"LQD":  0.05,
			},
		},
		Q2: {
			Name:               "Reflation",
			GrowthDirection:    "rising",
			InflationDirection: "rising",
			Description:        "Growth rising, inflation rising. Commodities and value stocks outperform.",
			Color:              "#f97316",
			Indicators:         []string{"XLE", "DBC", "GCC"},
			Leverage:           1.0,
			Allocations: map[string]float64{
				"XLE": 0.07,
				"DBC": 0.07,
				"GCC": 0.07,
				"XLF": 0.10,
				"XLI": 0.10,
				"XLB": 0.10,
				"XOP": 0.05,
				"VNQ": 0.05,
				"VTV": 0.05,
			},
		},
		Q3: {
			Name:               "Stagflation",
			GrowthDirection:    "falling",
			InflationDirection: "rising",
			Description:        "Growth falling, inflation rising. Defensive positioning with inflation hedges.",
			Color:              "#ef4444",
			Indicators:         []string{"GLD", "DBC", "DBA"},
			Leverage:           1.0,
			Allocations: map[string]float64{
				"FCG": 0.083,
				"XLE": 0.083,
				"XOP": 0.084,
				"GLD": 0.036,
				"DBC": 0.036,
				"DBA": 0.036,
				"TIP": 0.10,
				"VNQ": 0.05,
				"XLV": 0.05,
				"XLU": 0.05,
			},
		},
		Q4: {
			Name:               "Deflation",
			GrowthDirection:    "falling",
			InflationDirection: "falling",
			Description:        "Growth falling, inflation falling. Flight to quality, bonds outperform.",
			Color:              "#3b82f6",
			Indicators:         []string{"TLT", "XLU"},
			Leverage:           1.0,
			Allocations: map[string]float64{
				"VGLT": 0.25,
				"IEF":  0.25,
				"LQD":  0.10,
				"MUB":  0.10,
				"XLU":  0.0375,
				"XLP":  0.0375,
				"XLV":  0.0375,
			},
		},
	}
}

func defaultCategories() map[string]string {
	return map[string]string{
		"QQQ": "growth", "ARKK": "growth", "IWM": "growth", "VUG": "growth",
		"XLC": "growth", "XLY": "growth",
		"IBIT": "crypto", "ETHA": "crypto",
		"TLT": "bonds", "LQD": "bonds", "IEF": "bonds", "VGLT": "bonds",
		"MUB": "bonds", "TIP": "bonds", "VTIP": "bonds",
		"XLE": "commodities", "DBC": "commodities", "GCC": "commodities",
		"GLD": "commodities", "DBA": "commodities",
		"XOP": "energy", "FCG": "energy",
		"XLF": "cyclicals", "XLI": "cyclicals", "XLB": "cyclicals",
		"XLU": "defensive", "XLP": "defensive", "XLV": "defensive",
		"VNQ": "real_assets", "VTV": "value",
	}
}
