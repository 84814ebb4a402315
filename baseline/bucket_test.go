package baseline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketize(t *testing.T) {
	assert.Equal(t, 10, Bucketize(12, 10))
	assert.Equal(t, 20, Bucketize(29, 10))
	assert.Equal(t, -10, Bucketize(-3, 10))
	assert.Equal(t, 25, Bucketize(27.3, 5))
	assert.Equal(t, 0, Bucketize(4.99, 5))
	assert.Equal(t, -5, Bucketize(-0.1, 5))

	// speed grid: 5 km/h in m/s
	w := 25.0 / 18.0
	assert.Equal(t, 1, Bucketize(1.5, w))
	assert.Equal(t, 2, Bucketize(2.9, w))
}

func TestStats(t *testing.T) {
	s := Stats([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.NotNil(t, s)
	assert.Equal(t, 5.0, s.Mean)
	assert.Equal(t, 9.0, s.Max)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 4.0, s.Var, "variance must be the population variance")
}

func TestStatsSingleValue(t *testing.T) {
	s := Stats([]float64{72})
	assert.NotNil(t, s)
	assert.Equal(t, 72.0, s.Mean)
	assert.Equal(t, 72.0, s.Max)
	assert.Equal(t, 72.0, s.Min)
	assert.Equal(t, 0.0, s.Var)
}

func TestStatsEmpty(t *testing.T) {
	assert.Nil(t, Stats(nil))
	assert.Nil(t, Stats([]float64{}))
}
