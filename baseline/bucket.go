package baseline

import (
	"math"

	"github.com/bitmark-inc/wayfarer-api/schema"
)

// Bucketize floors a value onto the bucket grid of the given width.
func Bucketize(value, width float64) int {
	return int(math.Floor(value/width) * width)
}

// Stats summarizes a list of metric values. Returns nil for an empty list.
// Var is the population variance (divide by N).
func Stats(values []float64) *schema.BucketStatistics {
	if len(values) == 0 {
		return nil
	}

	min, max, sum := values[0], values[0], 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean := sum / float64(len(values))

	sumSquares := 0.0
	for _, v := range values {
		d := v - mean
		sumSquares += d * d
	}

	return &schema.BucketStatistics{
		Mean: mean,
		Max:  max,
		Min:  min,
		Var:  sumSquares / float64(len(values)),
	}
}
