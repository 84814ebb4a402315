package schema

import "time"

const (
	BaselineCollection = "baselines"
)

// Factor is an environmental dimension historical telemetry is bucketed by.
type Factor string

const (
	FactorTemperature     Factor = "temperature"
	FactorAltitude        Factor = "altitude"
	FactorHorizontalSpeed Factor = "horizontal_speed"
	FactorVerticalSpeed   Factor = "vertical_speed"
)

// FactorBucketWidths - bucket grid width per factor. Speeds are bucketed on a
// 5 km/h grid expressed in m/s.
var FactorBucketWidths = map[Factor]float64{
	FactorTemperature:     5,
	FactorAltitude:        10,
	FactorHorizontalSpeed: 25.0 / 18.0,
	FactorVerticalSpeed:   25.0 / 18.0,
}

const (
	MetricHeartRate      = "heart_rate"
	MetricCaloriesBurned = "calories_burned"
	MetricO2Saturation   = "o2_saturation"
)

// BaselineMetrics lists the health metrics collected into every bucket.
var BaselineMetrics = []string{MetricHeartRate, MetricCaloriesBurned, MetricO2Saturation}

// BucketStatistics summarizes one metric inside one bucket. Var is the
// population variance (divide by N, not N-1).
type BucketStatistics struct {
	Mean float64 `bson:"mean" json:"mean"`
	Max  float64 `bson:"max" json:"max"`
	Min  float64 `bson:"min" json:"min"`
	Var  float64 `bson:"var" json:"var"`
}

// BucketMetrics maps a metric name to its statistics. A metric that collected
// no values in the bucket maps to nil.
type BucketMetrics map[string]*BucketStatistics

// BucketSummary is one populated bucket of a factor.
type BucketSummary struct {
	Bucket  int           `bson:"bucket" json:"bucket"`
	Metrics BucketMetrics `bson:"metrics" json:"metrics"`
}

// FactorBaseline holds the populated buckets of one factor, in the order the
// buckets were first observed.
type FactorBaseline []BucketSummary

// Find returns the summary of a bucket value, or nil if not populated.
func (f FactorBaseline) Find(bucket int) *BucketSummary {
	for i := range f {
		if f[i].Bucket == bucket {
			return &f[i]
		}
	}
	return nil
}

// Baseline - a user's historical telemetry reduced to per-factor, per-bucket
// summary statistics.
type Baseline map[Factor]FactorBaseline

// BaselineSnapshot is a persisted baseline computed in the background.
type BaselineSnapshot struct {
	UserID     string    `bson:"user_id" json:"user_id"`
	ComputedAt time.Time `bson:"computed_at" json:"computed_at"`
	Baseline   Baseline  `bson:"baseline" json:"baseline"`
}

// ClosestBucket pairs the matched bucket of a factor with its statistics.
type ClosestBucket struct {
	Bucket  int           `json:"bucket"`
	Metrics BucketMetrics `json:"metrics"`
}
