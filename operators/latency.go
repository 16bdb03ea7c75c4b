package operators

import (
	"math"
	"regexp"
	"strconv"

	"github.com/montanaflynn/stats"
)

var latencyPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*ms`)

// ParseLatency extracts the millisecond value of a probe elapsed string like "12.5ms".
// Unparseable values count as 0.
func ParseLatency(elapsed string) float64 {
	match := latencyPattern.FindStringSubmatch(elapsed)
	if match == nil {
		return 0
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	return value
}

// Median returns the median of the values, 0 for an empty list.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	median, err := stats.Median(values)
	if err != nil {
		return 0
	}
	return median
}

// Average returns the arithmetic mean of the values, 0 for an empty list.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return mean
}

// medianLatency is the rounded median of the parsed latencies.
func medianLatency(elapsed []string) int64 {
	if len(elapsed) == 0 {
		return 0
	}
	values := make([]float64, len(elapsed))
	for i, e := range elapsed {
		values[i] = ParseLatency(e)
	}
	return int64(math.Round(Median(values)))
}
