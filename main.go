package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RichardKnop/machinery/v1"
	machineryconf "github.com/RichardKnop/machinery/v1/config"
	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/bitmark-inc/wayfarer-api/api"
	"github.com/bitmark-inc/wayfarer-api/baseline"
	"github.com/bitmark-inc/wayfarer-api/external/elevation"
	"github.com/bitmark-inc/wayfarer-api/external/fsq"
	"github.com/bitmark-inc/wayfarer-api/external/geoinfo"
	"github.com/bitmark-inc/wayfarer-api/external/meteo"
	"github.com/bitmark-inc/wayfarer-api/external/riskai"
	"github.com/bitmark-inc/wayfarer-api/geo"
	"github.com/bitmark-inc/wayfarer-api/health"
	"github.com/bitmark-inc/wayfarer-api/store"
)

var (
	server     *api.Server
	mongoStore store.MongoStore
)

func initLog() {
	logLevel, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stdout)

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}

func loadConfig(file string) {
	// Config from file
	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
	}

	viper.AddConfigPath("/.config/")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println("No config file. Read config from env.")
		viper.AllowEmptyEnv(false)
	}

	// Config from env if possible
	viper.AutomaticEnv()
	viper.SetEnvPrefix("wayfarer")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func main() {
	var configFile string

	initialCtx, cancelInitialization := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Server is preparing to shutdown")

		if initialCtx != nil && cancelInitialization != nil {
			log.Info("Cancelling initialization")
			cancelInitialization()
			<-initialCtx.Done()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if server != nil {
			log.Info("Shutdown api server")
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Server Shutdown:", err)
			}
		}

		if mongoStore != nil {
			log.Info("Shutting down mongo store")
			mongoStore.Close()
		}

		os.Exit(1)
	}()

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	// Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		log.Error(err)
	}
	log.WithField("prefix", "init").Info("Initialized sentry")

	// JWT signing secret
	jwtSecret := viper.GetString("jwt.secret")
	if jwtSecret == "" {
		log.Panic("missing jwt secret")
	}

	// Init redis
	machineryServer, err := machinery.NewServer(&machineryconf.Config{
		Broker:        viper.GetString("redis.conn"),
		DefaultQueue:  "wayfarer_background",
		ResultBackend: viper.GetString("redis.conn"),
	})
	if err != nil {
		log.Panic(err)
	}

	// initialise mongodb connections
	opts := options.Client().ApplyURI(viper.GetString("mongo.conn"))
	opts.SetMaxPoolSize(viper.GetUint64("mongo.pool"))
	mongoClient, err := mongo.NewClient(opts)
	if nil != err {
		log.Panicf("create mongo client with error: %s", err)
	}

	err = mongoClient.Connect(context.Background())
	if nil != err {
		log.Panicf("connect mongo database with error: %s", err)
	}

	mongoStore = store.NewMongoStore(
		mongoClient,
		viper.GetString("mongo.database"),
	)

	// external collaborators
	geoClient, err := geoinfo.New(viper.GetString("map.key"))
	if err != nil {
		log.Panicf("create geo client with error: %s", err)
	}

	elevationClient := elevation.New(viper.GetString("elevation.url"))
	meteoClient := meteo.New(
		viper.GetString("meteo.archive_url"),
		viper.GetString("meteo.forecast_url"),
	)
	placeClient := fsq.New(viper.GetString("fsq.endpoint"))
	inference := riskai.New(
		viper.GetString("anthropic.key"),
		viper.GetString("anthropic.model"),
	)

	resolver := geo.NewPlaceResolver(geoClient, elevationClient, meteoClient)
	engine := baseline.NewEngine(mongoStore, meteoClient, baseline.NewDefaultSampler())
	generator := health.NewGenerator(inference, resolver, engine, mongoStore, placeClient)

	// Init http server
	server = api.NewServer(
		mongoStore,
		engine,
		generator,
		machineryServer,
		[]byte(jwtSecret))
	log.WithField("prefix", "init").Info("Initialized http server")

	// Remove initial context
	initialCtx = nil
	cancelInitialization = nil

	log.Fatal(server.Run(":" + viper.GetString("server.port")))
}
