package schema

// PlaceInfo is a resolved place: coordinates, formatted address, altitude and
// the expected temperature for the requested date.
type PlaceInfo struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Address      string  `json:"address"`
	AltitudeM    float64 `json:"altitude_m"`
	TemperatureC float64 `json:"temperature_c"`
}

// Place is one result of the nearby place search.
type Place struct {
	Name      string            `json:"name"`
	Location  map[string]string `json:"location"`
	Tel       string            `json:"tel"`
	Website   string            `json:"website"`
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
}
