package baseline

import (
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bitmark-inc/wayfarer-api/external/meteo"
	"github.com/bitmark-inc/wayfarer-api/schema"
)

const logPrefix = "baseline"

var allFactors = []schema.Factor{
	schema.FactorTemperature,
	schema.FactorAltitude,
	schema.FactorHorizontalSpeed,
	schema.FactorVerticalSpeed,
}

// TelemetryLister is the telemetry read surface the engine consumes.
type TelemetryLister interface {
	TelemetryList(userID string) ([]schema.TelemetryPoint, error)
}

// Analyzer reduces a user's telemetry history into per-factor bucketed
// statistics.
type Analyzer interface {
	Analyze(userID string, start, end time.Time) (schema.Baseline, error)
}

// Engine computes baselines from stored telemetry. Point temperatures come
// from one meteo lookup per sampled point.
type Engine struct {
	telemetry TelemetryLister
	meteo     meteo.Meteo
	sampler   Sampler
}

// NewEngine - new baseline engine
func NewEngine(telemetry TelemetryLister, meteoClient meteo.Meteo, sampler Sampler) *Engine {
	return &Engine{
		telemetry: telemetry,
		meteo:     meteoClient,
		sampler:   sampler,
	}
}

type factorAccumulator struct {
	order  []int
	values map[int]map[string][]float64
}

func newFactorAccumulator() *factorAccumulator {
	return &factorAccumulator{
		values: make(map[int]map[string][]float64),
	}
}

func (a *factorAccumulator) add(bucket int, metric string, value float64) {
	m, ok := a.values[bucket]
	if !ok {
		m = make(map[string][]float64)
		a.values[bucket] = m
		a.order = append(a.order, bucket)
	}
	m[metric] = append(m[metric], value)
}

// Analyze scans the user's telemetry, draws a bounded random sample and
// reduces it into per-factor, per-bucket metric statistics. The start/end
// range is accepted for contract compatibility but the scan deliberately
// covers the full history; see DESIGN.md. Output is non-deterministic across
// calls once the point count exceeds the sample bound. A temperature lookup
// failure on any sampled point fails the whole computation.
func (e *Engine) Analyze(userID string, start, end time.Time) (schema.Baseline, error) {
	points, err := e.telemetry.TelemetryList(userID)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"prefix": logPrefix,
		"user":   userID,
		"points": len(points),
	}).Info("analyzing telemetry history")

	accumulators := make(map[schema.Factor]*factorAccumulator, len(allFactors))
	for _, factor := range allFactors {
		accumulators[factor] = newFactorAccumulator()
	}

	for _, p := range e.sampler.Sample(points) {
		temperature, err := e.meteo.Temperature(p.Data.Latitude, p.Data.Longitude, p.Timestamp)
		if err != nil {
			return nil, err
		}

		factorValues := map[schema.Factor]float64{
			schema.FactorTemperature:     temperature,
			schema.FactorAltitude:        p.Data.Altitude,
			schema.FactorHorizontalSpeed: math.Hypot(p.Data.SpeedX, p.Data.SpeedY),
			schema.FactorVerticalSpeed:   math.Abs(p.Data.SpeedZ),
		}

		metricValues := map[string]*float64{
			schema.MetricHeartRate:      p.Data.HeartRate,
			schema.MetricCaloriesBurned: p.Data.CaloriesBurned,
			schema.MetricO2Saturation:   p.Data.O2Saturation,
		}

		for _, factor := range allFactors {
			bucket := Bucketize(factorValues[factor], schema.FactorBucketWidths[factor])
			for _, metric := range schema.BaselineMetrics {
				// metrics are independent: an absent one does not
				// exclude the point from the others
				if v := metricValues[metric]; v != nil {
					accumulators[factor].add(bucket, metric, *v)
				}
			}
		}
	}

	result := make(schema.Baseline, len(allFactors))
	for _, factor := range allFactors {
		acc := accumulators[factor]
		summary := make(schema.FactorBaseline, 0, len(acc.order))
		for _, bucket := range acc.order {
			metrics := make(schema.BucketMetrics, len(schema.BaselineMetrics))
			for _, metric := range schema.BaselineMetrics {
				metrics[metric] = Stats(acc.values[bucket][metric])
			}
			summary = append(summary, schema.BucketSummary{
				Bucket:  bucket,
				Metrics: metrics,
			})
		}
		result[factor] = summary
	}

	return result, nil
}
