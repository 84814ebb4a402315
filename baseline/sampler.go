package baseline

import (
	"math/rand"
	"time"

	"github.com/bitmark-inc/wayfarer-api/schema"
)

// DefaultSampleSize caps the points processed per analysis. Each sampled
// point costs one external temperature lookup; the cap bounds the call
// volume and latency of a single analysis, not its accuracy.
const DefaultSampleSize = 10

// Sampler draws a bounded sample of telemetry points.
type Sampler interface {
	Sample(points []schema.TelemetryPoint) []schema.TelemetryPoint
}

type randomSampler struct {
	max int
	rng *rand.Rand
}

// Sample returns a uniform random sample of at most max points. When the
// input already fits the bound it is returned unshuffled.
func (s *randomSampler) Sample(points []schema.TelemetryPoint) []schema.TelemetryPoint {
	if len(points) <= s.max {
		return points
	}

	sampled := make([]schema.TelemetryPoint, 0, s.max)
	for _, i := range s.rng.Perm(len(points))[:s.max] {
		sampled = append(sampled, points[i])
	}
	return sampled
}

// NewRandomSampler - a sampler with an explicit bound and seed, so tests can
// pin bucket membership
func NewRandomSampler(max int, seed int64) Sampler {
	return &randomSampler{
		max: max,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewDefaultSampler - the production sampler: bound 10, time-seeded
func NewDefaultSampler() Sampler {
	return NewRandomSampler(DefaultSampleSize, time.Now().UnixNano())
}
