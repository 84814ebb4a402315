package api

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/RichardKnop/machinery/v1/backends/result"
	"github.com/RichardKnop/machinery/v1/tasks"
	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/wayfarer-api/health"
	"github.com/bitmark-inc/wayfarer-api/schema"
	"github.com/bitmark-inc/wayfarer-api/store"
)

var testJWTSecret = []byte("test-jwt-secret")

type fakeMongo struct {
	telemetry []schema.TelemetryPoint
	alerts    []schema.Alert
	snapshots map[string]schema.BaselineSnapshot
	pingErr   error
}

func newFakeMongo() *fakeMongo {
	return &fakeMongo{snapshots: map[string]schema.BaselineSnapshot{}}
}

func (f *fakeMongo) TelemetryPut(point schema.TelemetryPoint) error {
	f.telemetry = append(f.telemetry, point)
	return nil
}

func (f *fakeMongo) TelemetryList(userID string) ([]schema.TelemetryPoint, error) {
	points := []schema.TelemetryPoint{}
	for _, p := range f.telemetry {
		if p.UserID == userID {
			points = append(points, p)
		}
	}
	return points, nil
}

func (f *fakeMongo) TelemetryListByTrip(userID, tripID string) ([]schema.TelemetryPoint, error) {
	points := []schema.TelemetryPoint{}
	for _, p := range f.telemetry {
		if p.UserID == userID && p.TripID == tripID {
			points = append(points, p)
		}
	}
	return points, nil
}

func (f *fakeMongo) AlertAdd(userID, timestamp string, metadata schema.AlertMetadata) error {
	if !schema.AlertTypes[metadata.Type] {
		return fmt.Errorf("%w: %q", store.ErrInvalidAlertType, metadata.Type)
	}
	if !schema.AlertSeverities[metadata.Severity] {
		return fmt.Errorf("%w: %q", store.ErrInvalidAlertSeverity, metadata.Severity)
	}
	f.alerts = append(f.alerts, schema.Alert{
		ID:        schema.AlertID(userID, timestamp),
		UserID:    userID,
		Timestamp: timestamp,
		Metadata:  metadata,
	})
	return nil
}

func (f *fakeMongo) AlertListByUser(userID string) ([]schema.Alert, error) {
	alerts := []schema.Alert{}
	for _, a := range f.alerts {
		if a.UserID == userID {
			alerts = append(alerts, a)
		}
	}
	return alerts, nil
}

func (f *fakeMongo) BaselineSnapshotSave(snapshot schema.BaselineSnapshot) error {
	f.snapshots[snapshot.UserID] = snapshot
	return nil
}

func (f *fakeMongo) BaselineSnapshotGet(userID string) (*schema.BaselineSnapshot, error) {
	snapshot, ok := f.snapshots[userID]
	if !ok {
		return nil, store.ErrNoBaselineSnapshot
	}
	return &snapshot, nil
}

func (f *fakeMongo) Ping() error { return f.pingErr }
func (f *fakeMongo) Close()      {}

type fakeEnqueuer struct {
	signatures []*tasks.Signature
	err        error
}

func (f *fakeEnqueuer) SendTask(signature *tasks.Signature) (*result.AsyncResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.signatures = append(f.signatures, signature)
	return nil, nil
}

type fakeScenario struct {
	outcome *health.Outcome
	err     error
	inputs  []string
}

func (f *fakeScenario) Run(userID, input string) (*health.Outcome, error) {
	f.inputs = append(f.inputs, input)
	return f.outcome, f.err
}

type fakeAnalyzer struct {
	baseline schema.Baseline
	err      error
}

func (f *fakeAnalyzer) Analyze(userID string, start, end time.Time) (schema.Baseline, error) {
	return f.baseline, f.err
}

func newTestServer(mongo *fakeMongo, analyzer *fakeAnalyzer, scenario *fakeScenario, enqueuer *fakeEnqueuer) *Server {
	return &Server{
		mongo:      mongo,
		engine:     analyzer,
		scenario:   scenario,
		background: enqueuer,
		jwtSecret:  testJWTSecret,
	}
}

func signedToken(t *testing.T, requester string) string {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   requester,
		ExpiresAt: now.Add(time.Hour).Unix(),
		IssuedAt:  now.Unix(),
	})
	tokenString, err := token.SignedString(testJWTSecret)
	assert.Nil(t, err, "wrong token signing")
	return tokenString
}

func doRequest(s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)

	var reader *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewBuffer(b)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.setupRouter().ServeHTTP(w, req)
	return w
}

func TestRequestJWT(t *testing.T) {
	viper.Set("auth.secret", "client-secret")
	viper.Set("jwt.expire", 24)
	defer viper.Set("auth.secret", "")

	s := newTestServer(newFakeMongo(), &fakeAnalyzer{}, &fakeScenario{}, &fakeEnqueuer{})

	timestamp := strconv.FormatInt(time.Now().UnixNano()/1000000, 10)
	mac := hmac.New(sha256.New, []byte("client-secret"))
	mac.Write([]byte("user-1" + timestamp))

	w := doRequest(s, "POST", "/api/auth", "", map[string]string{
		"requester": "user-1",
		"timestamp": timestamp,
		"signature": hex.EncodeToString(mac.Sum(nil)),
	})

	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")

	var jResp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &jResp)
	assert.Nil(t, err, "wrong json unmarshal")
	assert.NotEmpty(t, jResp["jwt_token"], "missing jwt token")
}

func TestRequestJWTBadSignature(t *testing.T) {
	viper.Set("auth.secret", "client-secret")
	defer viper.Set("auth.secret", "")

	s := newTestServer(newFakeMongo(), &fakeAnalyzer{}, &fakeScenario{}, &fakeEnqueuer{})

	timestamp := strconv.FormatInt(time.Now().UnixNano()/1000000, 10)
	w := doRequest(s, "POST", "/api/auth", "", map[string]string{
		"requester": "user-1",
		"timestamp": timestamp,
		"signature": hex.EncodeToString([]byte("not a mac")),
	})

	assert.Equal(t, 401, w.Code, "wrong status code")
}

func TestRequestJWTSkewedTimestamp(t *testing.T) {
	viper.Set("auth.secret", "client-secret")
	defer viper.Set("auth.secret", "")

	s := newTestServer(newFakeMongo(), &fakeAnalyzer{}, &fakeScenario{}, &fakeEnqueuer{})

	timestamp := strconv.FormatInt(time.Now().Add(-time.Hour).UnixNano()/1000000, 10)
	mac := hmac.New(sha256.New, []byte("client-secret"))
	mac.Write([]byte("user-1" + timestamp))

	w := doRequest(s, "POST", "/api/auth", "", map[string]string{
		"requester": "user-1",
		"timestamp": timestamp,
		"signature": hex.EncodeToString(mac.Sum(nil)),
	})

	assert.Equal(t, 401, w.Code, "wrong status code")

	var jResp ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &jResp)
	assert.Nil(t, err, "wrong json unmarshal")
	assert.Equal(t, errorRequestTimeTooSkewed.Code, jResp.Code)
}

func TestAddAlert(t *testing.T) {
	mongo := newFakeMongo()
	s := newTestServer(mongo, &fakeAnalyzer{}, &fakeScenario{}, &fakeEnqueuer{})

	w := doRequest(s, "POST", "/api/alerts", signedToken(t, "user-1"), map[string]string{
		"type":        "health",
		"title":       "Stay hydrated",
		"description": "Long exposure at altitude",
		"severity":    "medium",
	})

	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")
	assert.Equal(t, 1, len(mongo.alerts))
	assert.Equal(t, "user-1", mongo.alerts[0].UserID)
	assert.Equal(t, schema.AlertTypeHealth, mongo.alerts[0].Metadata.Type)
}

func TestAddAlertInvalidType(t *testing.T) {
	mongo := newFakeMongo()
	s := newTestServer(mongo, &fakeAnalyzer{}, &fakeScenario{}, &fakeEnqueuer{})

	w := doRequest(s, "POST", "/api/alerts", signedToken(t, "user-1"), map[string]string{
		"type":     "gossip",
		"title":    "x",
		"severity": "medium",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code, "wrong status code")

	var jResp ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &jResp)
	assert.Nil(t, err, "wrong json unmarshal")
	assert.Equal(t, errorInvalidAlertType.Code, jResp.Code)
	assert.Equal(t, 0, len(mongo.alerts))
}

func TestListAlerts(t *testing.T) {
	mongo := newFakeMongo()
	assert.Nil(t, mongo.AlertAdd("user-1", "2026-08-30T00:00:00Z", schema.AlertMetadata{
		Type: schema.AlertTypeHealth, Title: "t", Severity: schema.AlertSeverityLow,
	}))
	assert.Nil(t, mongo.AlertAdd("user-2", "2026-08-30T00:00:00Z", schema.AlertMetadata{
		Type: schema.AlertTypeHealth, Title: "t", Severity: schema.AlertSeverityLow,
	}))

	s := newTestServer(mongo, &fakeAnalyzer{}, &fakeScenario{}, &fakeEnqueuer{})
	w := doRequest(s, "GET", "/api/alerts", signedToken(t, "user-1"), nil)

	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")

	var jResp map[string][]schema.Alert
	err := json.Unmarshal(w.Body.Bytes(), &jResp)
	assert.Nil(t, err, "wrong json unmarshal")
	assert.Equal(t, 1, len(jResp["alerts"]), "alerts must be scoped to the requester")
}

func TestAddTelemetry(t *testing.T) {
	mongo := newFakeMongo()
	s := newTestServer(mongo, &fakeAnalyzer{}, &fakeScenario{}, &fakeEnqueuer{})

	w := doRequest(s, "POST", "/api/telemetry", signedToken(t, "user-1"), map[string]interface{}{
		"points": []map[string]interface{}{
			{
				"point_id":  "p1",
				"user_id":   "someone-else",
				"trip_id":   "trip-1",
				"timestamp": "2026-08-30T08:00:00Z",
			},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")
	assert.Equal(t, 1, len(mongo.telemetry))
	assert.Equal(t, "user-1", mongo.telemetry[0].UserID, "user id must come from the token, not the payload")
}

func TestListTelemetryByTrip(t *testing.T) {
	mongo := newFakeMongo()
	assert.Nil(t, mongo.TelemetryPut(schema.TelemetryPoint{PointID: "p1", UserID: "user-1", TripID: "trip-1", Timestamp: "2026-08-30T08:00:00Z"}))
	assert.Nil(t, mongo.TelemetryPut(schema.TelemetryPoint{PointID: "p2", UserID: "user-1", TripID: "trip-2", Timestamp: "2026-08-30T09:00:00Z"}))

	s := newTestServer(mongo, &fakeAnalyzer{}, &fakeScenario{}, &fakeEnqueuer{})
	w := doRequest(s, "GET", "/api/telemetry?trip_id=trip-1", signedToken(t, "user-1"), nil)

	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")

	var jResp map[string][]schema.TelemetryPoint
	err := json.Unmarshal(w.Body.Bytes(), &jResp)
	assert.Nil(t, err, "wrong json unmarshal")
	assert.Equal(t, 1, len(jResp["telemetry"]))
	assert.Equal(t, "p1", jResp["telemetry"][0].PointID)
}

func TestCheckScenarioNoOp(t *testing.T) {
	scenario := &fakeScenario{outcome: nil}
	s := newTestServer(newFakeMongo(), &fakeAnalyzer{}, scenario, &fakeEnqueuer{})

	w := doRequest(s, "POST", "/api/scenario/check", signedToken(t, "user-1"), map[string]string{
		"message": "I feel fine",
	})

	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")
	assert.JSONEq(t, "{}", w.Body.String(), "no-op must respond with an empty object")
	assert.Equal(t, []string{"I feel fine"}, scenario.inputs)
}

func TestCheckScenario(t *testing.T) {
	scenario := &fakeScenario{outcome: &health.Outcome{
		Latitude:       28.0,
		Longitude:      86.85,
		PharmacyAlerts: 2,
	}}
	s := newTestServer(newFakeMongo(), &fakeAnalyzer{}, scenario, &fakeEnqueuer{})

	w := doRequest(s, "POST", "/api/scenario/check", signedToken(t, "user-1"), map[string]string{
		"message": "heading to Everest Base Camp",
	})

	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")

	var jResp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &jResp)
	assert.Nil(t, err, "wrong json unmarshal")
	assert.Equal(t, 28.0, jResp["latitude"])
	assert.Equal(t, float64(2), jResp["pharmacy_alerts"])
}

func TestGetBaseline(t *testing.T) {
	analyzer := &fakeAnalyzer{baseline: schema.Baseline{
		schema.FactorTemperature: schema.FactorBaseline{
			{Bucket: 20, Metrics: schema.BucketMetrics{
				schema.MetricHeartRate: &schema.BucketStatistics{Mean: 70, Max: 80, Min: 60, Var: 25},
			}},
		},
	}}
	s := newTestServer(newFakeMongo(), analyzer, &fakeScenario{}, &fakeEnqueuer{})

	w := doRequest(s, "GET", "/api/baseline", signedToken(t, "user-1"), nil)

	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")

	var jResp struct {
		Baseline schema.Baseline `json:"baseline"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &jResp)
	assert.Nil(t, err, "wrong json unmarshal")
	assert.Equal(t, 1, len(jResp.Baseline[schema.FactorTemperature]))
}

func TestGetBaselineSnapshotNotFound(t *testing.T) {
	s := newTestServer(newFakeMongo(), &fakeAnalyzer{}, &fakeScenario{}, &fakeEnqueuer{})

	w := doRequest(s, "GET", "/api/baseline/snapshot", signedToken(t, "user-1"), nil)

	assert.Equal(t, http.StatusNotFound, w.Code, "wrong status code")

	var jResp ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &jResp)
	assert.Nil(t, err, "wrong json unmarshal")
	assert.Equal(t, errorNoBaselineSnapshot.Code, jResp.Code)
}

func TestRefreshBaseline(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	s := newTestServer(newFakeMongo(), &fakeAnalyzer{}, &fakeScenario{}, enqueuer)

	w := doRequest(s, "POST", "/api/baseline/refresh", signedToken(t, "user-1"), nil)

	assert.Equal(t, http.StatusAccepted, w.Code, "wrong status code")
	assert.Equal(t, 1, len(enqueuer.signatures))
	assert.Equal(t, "refresh_baseline", enqueuer.signatures[0].Name)
	assert.Equal(t, "user-1", enqueuer.signatures[0].Args[0].Value)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	s := newTestServer(newFakeMongo(), &fakeAnalyzer{}, &fakeScenario{}, &fakeEnqueuer{})

	w := doRequest(s, "GET", "/api/alerts", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "wrong status code")
}

func TestHealthz(t *testing.T) {
	s := newTestServer(newFakeMongo(), &fakeAnalyzer{}, &fakeScenario{}, &fakeEnqueuer{})

	w := doRequest(s, "GET", "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")
}
