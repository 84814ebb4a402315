package health

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bitmark-inc/wayfarer-api/baseline"
	"github.com/bitmark-inc/wayfarer-api/external/fsq"
	"github.com/bitmark-inc/wayfarer-api/external/riskai"
	"github.com/bitmark-inc/wayfarer-api/geo"
	"github.com/bitmark-inc/wayfarer-api/schema"
)

const (
	logPrefix = "health"

	pharmacyQuery        = "pharmacy"
	pharmacySearchRadius = 100
	maxPharmacyAlerts    = 2
)

// AlertStore is the alert write surface the pipeline dispatches to.
type AlertStore interface {
	AlertAdd(userID, timestamp string, metadata schema.AlertMetadata) error
}

// Outcome is the result of one pipeline run. A nil Outcome with a nil error
// means no location could be extracted or resolved; nothing was persisted.
type Outcome struct {
	Latitude       float64            `json:"latitude"`
	Longitude      float64            `json:"longitude"`
	ScenarioReport string             `json:"scenario_report"`
	Assessment     *riskai.Assessment `json:"assessment"`

	// fan-out result: pharmacy alerts persisted and the error that stopped
	// the fan-out, if any. A fan-out failure never fails the run.
	PharmacyAlerts int    `json:"pharmacy_alerts"`
	PharmacyError  string `json:"pharmacy_error,omitempty"`
}

// Generator runs the scenario decision pipeline: extract a destination from
// free text, enrich it, match it against the user's telemetry baseline,
// assess the risk and dispatch alerts.
type Generator struct {
	inference riskai.RiskAI
	resolver  geo.PlaceResolver
	engine    baseline.Analyzer
	alerts    AlertStore
	places    fsq.FSQ
}

// NewGenerator - new pipeline with explicit collaborators
func NewGenerator(
	inference riskai.RiskAI,
	resolver geo.PlaceResolver,
	engine baseline.Analyzer,
	alerts AlertStore,
	places fsq.FSQ,
) *Generator {
	return &Generator{
		inference: inference,
		resolver:  resolver,
		engine:    engine,
		alerts:    alerts,
		places:    places,
	}
}

// Run executes the pipeline for one user input. The health alert is
// dispatched whatever the verdict's is_severe flag says; the flag travels on
// the alert metadata so consumers can filter.
func (g *Generator) Run(userID, input string) (*Outcome, error) {
	dest, err := g.inference.ExtractDestination(input)
	if err != nil {
		return nil, err
	}
	if !dest.IsAddress && dest.Destination == "" {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"user":   userID,
		}).Info("no address mentioned, cannot infer scenario")
		return nil, nil
	}

	today := time.Now().UTC().Format("2006-01-02")
	place, err := g.resolver.Resolve(dest.Destination, today)
	if err != nil {
		return nil, err
	}
	if place == nil {
		log.WithFields(log.Fields{
			"prefix":      logPrefix,
			"user":        userID,
			"destination": dest.Destination,
		}).Info("destination could not be resolved")
		return nil, nil
	}

	analysis, err := g.engine.Analyze(userID, time.Time{}, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	closest := baseline.Closest(analysis, place.TemperatureC, place.AltitudeM)

	report := formatScenarioReport(place, closest)

	assessment, err := g.inference.AssessRisk(fmt.Sprintf(
		"Based on the following scenario details and user health data, generate any necessary health alerts with severity and medical advice.\nHealth metrics analysis report:\n%s\n\nUser is saying: %s",
		report, input,
	))
	if err != nil {
		return nil, err
	}

	if err := g.pushHealthAlert(userID, assessment); err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Latitude:       place.Latitude,
		Longitude:      place.Longitude,
		ScenarioReport: report,
		Assessment:     assessment,
	}

	pushed, err := g.pushPharmacyAlerts(userID, place.Latitude, place.Longitude, assessment.Message)
	outcome.PharmacyAlerts = pushed
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"user":   userID,
			"error":  err,
		}).Warn("pharmacy alert fan-out failed")
		outcome.PharmacyError = err.Error()
	}

	return outcome, nil
}

func (g *Generator) pushHealthAlert(userID string, assessment *riskai.Assessment) error {
	isSevere := assessment.IsSevere
	metadata := schema.AlertMetadata{
		Type:  schema.AlertTypeHealth,
		Title: assessment.AlertTitle,
		Description: assessment.Message +
			"\n Advice: " + assessment.MedicalAdvice +
			"\n\n Medication: " + assessment.CarryMedication,
		Severity: schema.AlertSeverity(strings.ToLower(assessment.Severity)),
		IsSevere: &isSevere,
	}

	return g.alerts.AlertAdd(userID, time.Now().UTC().Format(time.RFC3339Nano), metadata)
}

// pushPharmacyAlerts persists one pharmacy alert per nearby result, capped at
// maxPharmacyAlerts. It returns the number persisted; an error here is the
// caller's to log, not to propagate.
func (g *Generator) pushPharmacyAlerts(userID string, lat, lng float64, healthMessage string) (int, error) {
	results, err := g.places.Search(pharmacyQuery, lat, lng, pharmacySearchRadius)
	if err != nil {
		return 0, err
	}

	if len(results) > maxPharmacyAlerts {
		results = results[:maxPharmacyAlerts]
	}

	pushed := 0
	for _, place := range results {
		placeLat, placeLng := place.Latitude, place.Longitude
		metadata := schema.AlertMetadata{
			Type:        schema.AlertTypePharmacy,
			Title:       fmt.Sprintf("Nearby Pharmacy: %s", place.Name),
			Description: formatPharmacyDescription(place, healthMessage),
			Severity:    schema.AlertSeverityMedium,
			Latitude:    &placeLat,
			Longitude:   &placeLng,
		}

		if err := g.alerts.AlertAdd(userID, time.Now().UTC().Format(time.RFC3339Nano), metadata); err != nil {
			return pushed, err
		}
		pushed++
	}

	return pushed, nil
}
