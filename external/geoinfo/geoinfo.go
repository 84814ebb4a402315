package geoinfo

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"googlemaps.github.io/maps"
)

const (
	logPrefix      = "geoinfo"
	defaultTimeout = 5 * time.Second
)

var ErrNoElevationResult = fmt.Errorf("no elevation result")

// GeoInfo - interface to operate google maps
type GeoInfo interface {
	Geocode(place string) ([]maps.GeocodingResult, error)
	Elevation(lat, lng float64) (float64, error)
}

type geoInfo struct {
	client *maps.Client
}

// Geocode - forward-geocode a free-text place name
func (g geoInfo) Geocode(place string) ([]maps.GeocodingResult, error) {
	log.WithFields(log.Fields{
		"prefix": logPrefix,
		"place":  place,
	}).Info("query geocode")

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	return g.client.Geocode(ctx, &maps.GeocodingRequest{Address: place})
}

// Elevation - ground elevation in meters at a coordinate
func (g geoInfo) Elevation(lat, lng float64) (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	results, err := g.client.Elevation(ctx, &maps.ElevationRequest{
		Locations: []maps.LatLng{{Lat: lat, Lng: lng}},
	})
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, ErrNoElevationResult
	}

	return results[0].Elevation, nil
}

// New - new GeoInfo interface
func New(apiKey string) (GeoInfo, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"error":  err,
		}).Error("new map client")

		return nil, err
	}

	return &geoInfo{
		client: client,
	}, nil
}
