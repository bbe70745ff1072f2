package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/syslog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/buzkaaclicker/userconf"
	"github.com/buzkaaclicker/userconf/config"
	"github.com/buzkaaclicker/userconf/inmem"
	"github.com/buzkaaclicker/userconf/persistent"
	"github.com/buzkaaclicker/userconf/session"
	"github.com/buzkaaclicker/userconf/transport/rest"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	logrusys "github.com/sirupsen/logrus/hooks/syslog"
	"github.com/tidwall/buntdb"
)

var envFileFlag = flag.String("env", ".env", "dotenv file loaded before reading the environment")

var (
	loadEnv    = godotenv.Load
	loadConfig = config.Load
)

// loadEnvFile applies path to the environment. A missing file is not an error.
func loadEnvFile(path string) error {
	if err := loadEnv(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func newApp(cfg config.Config, service userconf.UserConfigService, activities userconf.ActivityStore) *fiber.App {
	profileController := rest.ProfileController{Service: service}
	activityController := rest.ActivityController{Store: activities}

	server := fiber.New(fiber.Config{ErrorHandler: rest.ErrorHandler})
	server.Use(rest.LogHandler())

	api := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: rest.ErrorHandler,
	})
	api.Use(cors.New(cors.Config{AllowOrigins: strings.Join(cfg.CORS.AllowedOrigins, ", ")}))

	api.Get("/status", monitor.New())
	profileController.InstallTo(api)
	activityController.InstallTo(api)

	server.Mount("/api/", api)
	server.Use(rest.NotFoundHandler)
	return server
}

func listenAndServe(cfg config.Config, service userconf.UserConfigService,
	activities userconf.ActivityStore) func() error {
	server := newApp(cfg, service, activities)
	go func() {
		if err := server.Listen(cfg.ListenAddr); err != nil {
			logrus.WithError(err).Errorln("Fiber listen failed.")
		}
	}()
	return server.Shutdown
}

// openDumps returns the dump store selected by cfg together with a closer for
// whatever connection backs it.
func openDumps(ctx context.Context, cfg config.DumpConfig) (userconf.DumpStore, io.Closer) {
	switch cfg.Backend {
	case config.BackendBuntdb:
		bdb, err := buntdb.Open(cfg.Buntdb.Path)
		if err != nil {
			logrus.WithError(err).Fatalln("Could not open buntdb.")
		}
		return &persistent.BuntDumpStore{Buntdb: bdb}, bdb
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logrus.WithError(err).Fatalln("Could not ping redis.")
		}
		return &persistent.RedisDumpStore{Client: client, Prefix: cfg.Redis.Prefix}, client
	default:
		return nil, nil
	}
}

func setupLogger(verbose bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.Stamp,
		FullTimestamp:   true,
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	syslogHook, err := logrusys.NewSyslogHook("", "", syslog.LOG_USER, "userconf")
	if err != nil {
		logrus.WithError(err).Warningln("Could not create syslog hook.")
		return
	}
	logrus.AddHook(syslogHook)
}

func awaitInterruption() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
}

func main() {
	flag.Parse()
	if err := loadEnvFile(*envFileFlag); err != nil {
		logrus.WithError(err).Warningln("Could not load env file.")
	}
	cfg, err := loadConfig()
	if err != nil {
		logrus.WithError(err).Fatalln("Invalid configuration.")
	}
	setupLogger(cfg.Debug)
	logrus.WithField("dump_backend", cfg.Dumps.Backend).Infoln("Starting userconf.")

	ctx := context.Background()

	// without postgres the activity log is kept in memory only
	var activities userconf.ActivityStore = inmem.NewActivityStore()
	dumps, closer := openDumps(ctx, cfg.Dumps)
	if dumps == nil {
		logrus.Infoln("Opening database.")
		pg := persistent.PgOpen(ctx, cfg.Dumps.Postgres.DSN, cfg.Dumps.Postgres.Verbose)
		if err := persistent.CreateSchema(ctx, pg); err != nil {
			logrus.WithError(err).Fatalln("Could not create schema.")
		}
		dumps = &persistent.PgDumpStore{DB: pg}
		activities = &persistent.ActivityStore{DB: pg}
		closer = pg
	}
	defer closer.Close()

	manager := session.NewManager(dumps, activities)

	logrus.WithField("addr", cfg.ListenAddr).Infoln("Starting listening... To shut down use ^C")
	shutdown := listenAndServe(cfg, manager, activities)

	awaitInterruption()

	logrus.Infoln("Shutting down...")
	if err := shutdown(); err != nil {
		logrus.WithError(err).Warningln("Fiber shutdown failed.")
	}
}
