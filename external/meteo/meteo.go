package meteo

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"
)

const (
	defaultArchiveURL  = "https://archive-api.open-meteo.com/v1/archive"
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	// reported when the response carries no daily temperature block
	defaultTemperature = 25.0
)

// Meteo - daily mean temperature lookup. Dates before today (UTC) hit the
// historical archive, today and future dates hit the forecast.
type Meteo interface {
	Temperature(lat, lng float64, timestamp string) (float64, error)
}

type meteo struct {
	archiveURL  string
	forecastURL string
}

type dailyData struct {
	TemperatureMax []float64 `json:"temperature_2m_max"`
	TemperatureMin []float64 `json:"temperature_2m_min"`
}

type jsonResponse struct {
	Daily *dailyData `json:"daily"`
}

// Temperature returns the mean of the daily max and min temperature at the
// coordinate for the date part of an ISO-8601 timestamp.
func (m meteo) Temperature(lat, lng float64, timestamp string) (float64, error) {
	date := strings.SplitN(timestamp, "T", 2)[0]
	today := time.Now().UTC().Format("2006-01-02")

	base := m.forecastURL
	if date < today {
		base = m.archiveURL
	}

	query := fmt.Sprintf(
		"%s?latitude=%f&longitude=%f&start_date=%s&end_date=%s&daily=temperature_2m_max,temperature_2m_min&timezone=UTC",
		base, lat, lng, date, date,
	)
	resp, err := http.Get(query)
	if nil != err {
		return 0, err
	}

	d, err := ioutil.ReadAll(resp.Body)
	if nil != err {
		return 0, err
	}
	defer resp.Body.Close()

	var r jsonResponse
	err = json.Unmarshal(d, &r)
	if nil != err {
		return 0, err
	}

	if r.Daily == nil || len(r.Daily.TemperatureMax) == 0 || len(r.Daily.TemperatureMin) == 0 {
		return defaultTemperature, nil
	}

	return (r.Daily.TemperatureMax[0] + r.Daily.TemperatureMin[0]) / 2, nil
}

// New - new Meteo interface; empty URLs fall back to the public endpoints
func New(archiveURL, forecastURL string) Meteo {
	a := defaultArchiveURL
	if archiveURL != "" {
		a = archiveURL
	}
	f := defaultForecastURL
	if forecastURL != "" {
		f = forecastURL
	}

	return &meteo{
		archiveURL:  a,
		forecastURL: f,
	}
}
