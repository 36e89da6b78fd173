package domain

import (
	"math"
	"strconv"
	"strings"
)

// CoalesceStr returns the first value that is non-empty after trimming.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// NonNegative clamps negative values, NaN and infinities to zero.
func NonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// HoursFromAny converts a loosely typed JSON value into a non-negative hour
// count. Numeric strings are accepted; anything else yields zero.
func HoursFromAny(v any) float64 {
	switch n := v.(type) {
	case float64:
		return NonNegative(n)
	case float32:
		return NonNegative(float64(n))
	case int:
		return NonNegative(float64(n))
	case int64:
		return NonNegative(float64(n))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return NonNegative(f)
	default:
		return 0
	}
}
