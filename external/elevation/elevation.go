package elevation

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
)

const defaultURL = "https://api.open-elevation.com/api/v1/lookup"

var errNoResult = fmt.Errorf("no elevation result")

// Elevation - open-elevation lookup, fallback for the google elevation API
type Elevation interface {
	Get(lat, lng float64) (float64, error)
}

type elevation struct {
	url string
}

type resultData struct {
	Elevation float64 `json:"elevation"`
}

type jsonResponse struct {
	Results []resultData `json:"results"`
}

func (e elevation) Get(lat, lng float64) (float64, error) {
	query := fmt.Sprintf("%s?locations=%f,%f", e.url, lat, lng)
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

	if len(r.Results) == 0 {
		return 0, errNoResult
	}

	return r.Results[0].Elevation, nil
}

func New(url string) Elevation {
	u := defaultURL
	if url != "" {
		u = url
	}

	return &elevation{
		url: u,
	}
}
