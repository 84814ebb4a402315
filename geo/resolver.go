package geo

import (
	log "github.com/sirupsen/logrus"

	"github.com/bitmark-inc/wayfarer-api/external/elevation"
	"github.com/bitmark-inc/wayfarer-api/external/geoinfo"
	"github.com/bitmark-inc/wayfarer-api/external/meteo"
	"github.com/bitmark-inc/wayfarer-api/schema"
)

const logPrefix = "geo"

// PlaceResolver - resolve a free-text place name into coordinates, address,
// altitude and the expected temperature for a date. A nil PlaceInfo with a
// nil error means the place could not be geocoded; that is a recognized
// no-op, not a failure.
type PlaceResolver interface {
	Resolve(place, date string) (*schema.PlaceInfo, error)
}

type placeResolver struct {
	geoClient       geoinfo.GeoInfo
	elevationClient elevation.Elevation
	meteoClient     meteo.Meteo
}

func (r *placeResolver) Resolve(place, date string) (*schema.PlaceInfo, error) {
	results, err := r.geoClient.Geocode(place)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"place":  place,
		}).Info("no geocoding result")
		return nil, nil
	}

	lat := results[0].Geometry.Location.Lat
	lng := results[0].Geometry.Location.Lng
	address := results[0].FormattedAddress

	altitude, err := r.geoClient.Elevation(lat, lng)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"error":  err,
		}).Warn("google elevation failed, falling back to open-elevation")

		altitude, err = r.elevationClient.Get(lat, lng)
		if err != nil {
			return nil, err
		}
	}

	temperature, err := r.meteoClient.Temperature(lat, lng, date+"T12:00:00")
	if err != nil {
		return nil, err
	}

	return &schema.PlaceInfo{
		Latitude:     lat,
		Longitude:    lng,
		Address:      address,
		AltitudeM:    altitude,
		TemperatureC: temperature,
	}, nil
}

// NewPlaceResolver - new PlaceResolver interface
func NewPlaceResolver(geoClient geoinfo.GeoInfo, elevationClient elevation.Elevation, meteoClient meteo.Meteo) PlaceResolver {
	return &placeResolver{
		geoClient:       geoClient,
		elevationClient: elevationClient,
		meteoClient:     meteoClient,
	}
}
