package api

import (
	"context"
	"net/http"
	"time"

	"github.com/RichardKnop/machinery/v1/backends/result"
	"github.com/RichardKnop/machinery/v1/tasks"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/bitmark-inc/wayfarer-api/baseline"
	"github.com/bitmark-inc/wayfarer-api/health"
	"github.com/bitmark-inc/wayfarer-api/logmodule"
	"github.com/bitmark-inc/wayfarer-api/store"
)

var log *logrus.Entry

func init() {
	log = logrus.WithField("prefix", "gin")
}

// ScenarioRunner runs the scenario decision pipeline for one user input.
type ScenarioRunner interface {
	Run(userID, input string) (*health.Outcome, error)
}

// TaskEnqueuer submits background tasks. Satisfied by *machinery.Server.
type TaskEnqueuer interface {
	SendTask(signature *tasks.Signature) (*result.AsyncResult, error)
}

// Server to run a http server instance
type Server struct {
	// Server instance
	server *http.Server

	// Stores
	mongo store.MongoStore

	// baseline engine for live analysis
	engine baseline.Analyzer

	// scenario decision pipeline
	scenario ScenarioRunner

	// job pool enqueuer
	background TaskEnqueuer

	// JWT signing secret
	jwtSecret []byte
}

// NewServer new instance of server
func NewServer(
	mongoStore store.MongoStore,
	engine baseline.Analyzer,
	scenario ScenarioRunner,
	background TaskEnqueuer,
	jwtSecret []byte) *Server {
	return &Server{
		mongo:      mongoStore,
		engine:     engine,
		scenario:   scenario,
		background: background,
		jwtSecret:  jwtSecret,
	}
}

// Run to run the server
func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.setupRouter(),
	}

	return s.server.ListenAndServe()
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         10 * time.Second,
	}))

	apiRoute := r.Group("/api")
	apiRoute.Use(logmodule.Ginrus("API"))
	apiRoute.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowAllOrigins:  true,
		MaxAge:           12 * time.Hour,
	}))

	apiRoute.POST("/auth", s.requestJWT)

	// api route other than `/auth` will apply the following middleware
	apiRoute.Use(s.authMiddleware())

	alertRoute := apiRoute.Group("/alerts")
	{
		alertRoute.POST("", s.addAlert)
		alertRoute.GET("", s.listAlerts)
	}

	telemetryRoute := apiRoute.Group("/telemetry")
	{
		telemetryRoute.POST("", s.addTelemetry)
		telemetryRoute.GET("", s.listTelemetry)
	}

	baselineRoute := apiRoute.Group("/baseline")
	{
		baselineRoute.GET("", s.getBaseline)
		baselineRoute.GET("/snapshot", s.getBaselineSnapshot)
		baselineRoute.POST("/refresh", s.refreshBaseline)
	}

	scenarioRoute := apiRoute.Group("/scenario")
	{
		scenarioRoute.POST("/check", s.checkScenario)
	}

	secretRoute := r.Group("/secret")
	secretRoute.Use(logmodule.Ginrus("Secret"))
	secretRoute.Use(s.apikeyAuthentication(viper.GetString("server.apikey.admin")))
	{
		secretRoute.POST("/refresh-baseline", s.adminRefreshBaseline)
	}

	r.GET("/healthz", s.healthz)

	return r
}

// Shutdown to shutdown the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// shouldInterupt sends error message and determine if it should interupt the current flow
func shouldInterupt(err error, c *gin.Context) bool {
	if err == nil {
		return false
	}

	log.Error(err)
	abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
	return true
}

func (s *Server) healthz(c *gin.Context) {
	// Ping db
	err := s.mongo.Ping()
	if shouldInterupt(err, c) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"version": viper.GetString("server.version"),
	})
}

func responseWithEncoding(c *gin.Context, code int, obj ErrorResponse) {
	acceptEncoding := c.GetHeader("Accept-Encoding")
	switch acceptEncoding {
	default:
		c.JSON(code, obj)
	}
}

func abortWithEncoding(c *gin.Context, code int, obj ErrorResponse, errors ...error) {
	for _, err := range errors {
		c.Error(err)
	}
	responseWithEncoding(c, code, obj)
	c.Abort()
}
