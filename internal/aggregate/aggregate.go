// Package aggregate holds the numeric rules shared by every metric: null-safe
// coercion of driver values, guarded ratios, and count-weighted recombination
// of pre-aggregated (average, count) groups.
package aggregate

import (
	"database/sql"
	"strconv"
)

// Normalize coerces a raw database cell into a definite number. Aggregate
// functions (SUM, AVG, COUNT FILTER) return SQL NULL on empty input sets and
// lib/pq hands NUMERIC columns back as []byte, so every numeric field passes
// through here before it reaches a response.
func Normalize(raw interface{}) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case []byte:
		return parseDecimal(string(v))
	case string:
		return parseDecimal(v)
	case sql.NullFloat64:
		if !v.Valid {
			return 0
		}
		return v.Float64
	case sql.NullInt64:
		if !v.Valid {
			return 0
		}
		return float64(v.Int64)
	default:
		return 0
	}
}

// Float unwraps a nullable float, defaulting to 0.
func Float(v sql.NullFloat64) float64 {
	if !v.Valid {
		return 0
	}
	return v.Float64
}

// Ratio divides numerator by denominator, returning 0 on a zero denominator.
// Never NaN, never Inf: both would corrupt the JSON response.
func Ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// Percent is Ratio scaled to 0-100.
func Percent(part, total float64) float64 {
	return Ratio(part, total) * 100
}

// Delta returns newest minus previous. Kept as a named helper so period
// deltas are always computed in the same direction.
func Delta(newest, previous float64) float64 {
	return newest - previous
}

// Group is one pre-aggregated slice of a metric: the stored average and the
// number of underlying participants it covers.
type Group struct {
	Average float64
	Count   float64
}

// WeightedMean recombines groups of the same metric into a single average,
// weighting each group's average by its participant count.
//
// With excludeZeroAverages set, groups whose average is exactly 0 contribute
// to neither numerator nor denominator. The national-exam aggregate tables
// use a 0 average as a sentinel for "no valid participants" (absent and
// eliminated candidates are excluded upstream). The exclusion is scoped to
// those tables; internal school metrics where a true 0 average is meaningful
// must call this with the flag off.
func WeightedMean(groups []Group, excludeZeroAverages bool) float64 {
	var weighted, total float64
	for _, g := range groups {
		if excludeZeroAverages && g.Average == 0 {
			continue
		}
		weighted += g.Average * g.Count
		total += g.Count
	}
	return Ratio(weighted, total)
}

func parseDecimal(raw string) float64 {
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}
