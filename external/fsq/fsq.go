package fsq

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"

	"github.com/bitmark-inc/wayfarer-api/schema"
)

var errResponseStatus = fmt.Errorf("place search response status not ok")

// FSQ - nearby place search through the foursquare proxy service
type FSQ interface {
	Search(query string, lat, lng float64, radius int) ([]schema.Place, error)
}

type fsq struct {
	endpoint string
}

type jsonResponse struct {
	Results []schema.Place `json:"results"`
}

func (f fsq) Search(query string, lat, lng float64, radius int) ([]schema.Place, error) {
	v := url.Values{}
	v.Set("query", query)
	v.Set("ll", fmt.Sprintf("%f,%f", lat, lng))
	v.Set("radius", fmt.Sprintf("%d", radius))

	resp, err := http.Get(fmt.Sprintf("%s?%s", f.endpoint, v.Encode()))
	if nil != err {
		return nil, err
	}

	d, err := ioutil.ReadAll(resp.Body)
	if nil != err {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errResponseStatus
	}

	var r jsonResponse
	err = json.Unmarshal(d, &r)
	if nil != err {
		return nil, err
	}

	return r.Results, nil
}

// New - new FSQ interface pointing at the proxy's search endpoint
func New(endpoint string) FSQ {
	return &fsq{
		endpoint: endpoint,
	}
}
