package health

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bitmark-inc/wayfarer-api/baseline"
	"github.com/bitmark-inc/wayfarer-api/schema"
)

func factorUnit(factor schema.Factor) string {
	if factor == schema.FactorTemperature {
		return "°C"
	}
	return "meters"
}

// formatScenarioReport renders the enriched scenario and the matched
// baseline buckets as the textual report handed to the risk assessment.
// Factors without a match are left out.
func formatScenarioReport(place *schema.PlaceInfo, closest map[schema.Factor]schema.ClosestBucket) string {
	details := []string{
		fmt.Sprintf("Location: %s", place.Address),
		fmt.Sprintf("Latitude: %v, Longitude: %v", place.Latitude, place.Longitude),
		fmt.Sprintf("Altitude: %v meters", place.AltitudeM),
		fmt.Sprintf("Estimated Temperature: %v °C", place.TemperatureC),
	}

	for _, factor := range baseline.MatchFactors {
		match, ok := closest[factor]
		if !ok {
			continue
		}

		details = append(details, fmt.Sprintf("\nHealth data closest to %s bucket %d %s:", factor, match.Bucket, factorUnit(factor)))
		for _, metric := range schema.BaselineMetrics {
			stats := match.Metrics[metric]
			if stats == nil {
				continue
			}
			details = append(details, fmt.Sprintf("  %s: Mean=%v, Max=%v, Min=%v, Var=%v",
				metric, stats.Mean, stats.Max, stats.Min, stats.Var))
		}
	}

	return strings.Join(details, "\n")
}

func formatPharmacyDescription(place schema.Place, healthMessage string) string {
	keys := make([]string, 0, len(place.Location))
	for k, v := range place.Location {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, place.Location[k]))
	}

	tel := place.Tel
	if tel == "" {
		tel = "N/A"
	}
	website := place.Website
	if website == "" {
		website = "N/A"
	}

	return fmt.Sprintf("%s\nLocation:\n%s\nContact: %s\nWebsite: %s\n\nHealth Alert: %s",
		place.Name, strings.Join(lines, ",\n"), tel, website, healthMessage)
}
