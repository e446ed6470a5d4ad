// Package rating aggregates per-user article ratings.
package rating

const (
	MinValue = 1
	MaxValue = 5
)

// ComputeAverage returns the arithmetic mean of values, or 0 when there are none.
func ComputeAverage(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum int
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
