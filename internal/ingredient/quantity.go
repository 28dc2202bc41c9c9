package ingredient

import (
	"math"
	"strconv"
	"strings"
)

// Unparseable is returned by Evaluate when a quantity has no numeric reading.
const Unparseable = -1.0

// Evaluate reads a quantity string as a number. In order:
//
//  1. A vulgar fraction glyph: any leading number is the whole part (0 if
//     missing or garbage) and the glyph adds its value. "1½" is 1.5.
//  2. A "/": "<whole> <num>/<den>" or "<num>/<den>". Bad numbers read as 0
//     and a zero or bad denominator as 1.
//  3. A plain decimal.
//  4. Otherwise Unparseable.
func Evaluate(qty string) float64 {
	s := strings.TrimSpace(qty)

	for i, r := range s {
		if v, ok := glyphValue[r]; ok {
			return parseOr(s[:i], 0) + v
		}
	}

	if slash := strings.IndexByte(s, '/'); slash >= 0 {
		whole := 0.0
		frac := s
		if sp := strings.LastIndexByte(s[:slash], ' '); sp >= 0 {
			whole = parseOr(s[:sp], 0)
			frac = s[sp+1:]
		}
		num, den, _ := strings.Cut(frac, "/")
		d := parseOr(den, 1)
		if d == 0 {
			d = 1
		}
		return whole + parseOr(num, 0)/d
	}

	if v, ok := parseFinite(s); ok {
		return v
	}
	return Unparseable
}

func parseOr(s string, fallback float64) float64 {
	if v, ok := parseFinite(strings.TrimSpace(s)); ok {
		return v
	}
	return fallback
}

// parseFinite rejects "NaN" and "Inf", which ParseFloat accepts but which
// would poison quantity sorting.
func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
