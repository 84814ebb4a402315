// Package mocks provides testify doubles for the external collaborators.
package mocks

import (
	"github.com/stretchr/testify/mock"
	"googlemaps.github.io/maps"

	"github.com/bitmark-inc/wayfarer-api/external/riskai"
	"github.com/bitmark-inc/wayfarer-api/schema"
)

// MockGeoInfo mocks geoinfo.GeoInfo.
type MockGeoInfo struct {
	mock.Mock
}

func (m *MockGeoInfo) Geocode(place string) ([]maps.GeocodingResult, error) {
	args := m.Called(place)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]maps.GeocodingResult), args.Error(1)
}

func (m *MockGeoInfo) Elevation(lat, lng float64) (float64, error) {
	args := m.Called(lat, lng)
	return args.Get(0).(float64), args.Error(1)
}

// MockElevation mocks elevation.Elevation.
type MockElevation struct {
	mock.Mock
}

func (m *MockElevation) Get(lat, lng float64) (float64, error) {
	args := m.Called(lat, lng)
	return args.Get(0).(float64), args.Error(1)
}

// MockMeteo mocks meteo.Meteo.
type MockMeteo struct {
	mock.Mock
}

func (m *MockMeteo) Temperature(lat, lng float64, timestamp string) (float64, error) {
	args := m.Called(lat, lng, timestamp)
	return args.Get(0).(float64), args.Error(1)
}

// MockRiskAI mocks riskai.RiskAI.
type MockRiskAI struct {
	mock.Mock
}

func (m *MockRiskAI) ExtractDestination(text string) (*riskai.Destination, error) {
	args := m.Called(text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*riskai.Destination), args.Error(1)
}

func (m *MockRiskAI) InferScenario(text string) (*riskai.Scenario, error) {
	args := m.Called(text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*riskai.Scenario), args.Error(1)
}

func (m *MockRiskAI) AssessRisk(report string) (*riskai.Assessment, error) {
	args := m.Called(report)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*riskai.Assessment), args.Error(1)
}

// MockFSQ mocks fsq.FSQ.
type MockFSQ struct {
	mock.Mock
}

func (m *MockFSQ) Search(query string, lat, lng float64, radius int) ([]schema.Place, error) {
	args := m.Called(query, lat, lng, radius)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.Place), args.Error(1)
}
