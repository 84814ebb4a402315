package baseline

import (
	"math"

	"github.com/bitmark-inc/wayfarer-api/schema"
)

// MatchFactors are the factors a scenario is matched against. Speed factors
// are part of the baseline but have no scenario-side counterpart.
var MatchFactors = []schema.Factor{
	schema.FactorTemperature,
	schema.FactorAltitude,
}

// Closest selects, per matchable factor, the populated baseline bucket
// nearest to the target's own bucket by absolute distance. Ties resolve to
// the first minimal bucket in the baseline's insertion order. Factors absent
// from the baseline are omitted from the result.
func Closest(b schema.Baseline, temperature, altitude float64) map[schema.Factor]schema.ClosestBucket {
	targets := map[schema.Factor]float64{
		schema.FactorTemperature: temperature,
		schema.FactorAltitude:    altitude,
	}

	closest := make(map[schema.Factor]schema.ClosestBucket)
	for _, factor := range MatchFactors {
		buckets := b[factor]
		if len(buckets) == 0 {
			continue
		}

		target := Bucketize(targets[factor], schema.FactorBucketWidths[factor])

		best := 0
		bestDistance := math.Abs(float64(buckets[0].Bucket - target))
		for i := 1; i < len(buckets); i++ {
			if d := math.Abs(float64(buckets[i].Bucket - target)); d < bestDistance {
				best = i
				bestDistance = d
			}
		}

		closest[factor] = schema.ClosestBucket{
			Bucket:  buckets[best].Bucket,
			Metrics: buckets[best].Metrics,
		}
	}

	return closest
}
