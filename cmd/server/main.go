/*
Server is the fyyur web application: venue, artist and show listings
rendered as HTML.

Usage:

	server [flags]

Flags and FYYUR_* environment variables are described by --help.  Redis,
rate limiting, caching and listing events are configured through their
own REDIS_*, RATE_LIMIT_*, CACHE_* and EVENTS_* variables.

The schema is created on start unless --db-migrate=false.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fyyur/internal/config"
	"github.com/iliyamo/fyyur/internal/database"
	"github.com/iliyamo/fyyur/internal/handler"
	"github.com/iliyamo/fyyur/internal/middleware"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/router"
	"github.com/iliyamo/fyyur/internal/service"
	"github.com/iliyamo/fyyur/internal/view"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, config.ErrHelpWanted) {
			usage, uerr := config.Usage()
			if uerr != nil {
				return uerr
			}
			fmt.Println(usage)
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	logger.Infof("application initializing\n%s", cfg)

	db, err := database.Open(cfg.DB.Driver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	if cfg.DB.Migrate {
		if err := database.Migrate(context.Background(), db, cfg.DB.Driver); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
		logger.Info("redis connected")
	} else {
		logger.Info("redis disabled or unreachable; using in-process rate limiter")
	}

	eventsCfg := config.LoadEventsConfig()
	publisher, err := service.NewPublisher(eventsCfg, logger)
	if err != nil {
		logger.WithError(err).Warn("listing events disabled")
		publisher = service.NopPublisher{}
	}
	defer publisher.Close()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if eventsCfg.Consume && eventsCfg.Broker == config.BrokerAMQP {
		go func() {
			if err := queue.StartListingConsumer(ctx, eventsCfg.AMQPURL, eventsCfg.Destination, eventsCfg.LogDir, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Error("listing consumer stopped")
			}
		}()
	}

	renderer, err := view.New()
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	h := handler.New(
		repository.NewVenueRepo(db),
		repository.NewArtistRepo(db),
		repository.NewShowRepo(db),
		publisher,
		logger,
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Debug
	e.Renderer = renderer
	e.HTTPErrorHandler = h.HTTPErrorHandler
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())

	router.RegisterRoutes(e)
	router.RegisterSite(e, h,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger),
	)

	var accessLog io.Writer
	if cfg.Web.AccessLog != "" {
		f, err := os.OpenFile(cfg.Web.AccessLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening access log: %w", err)
		}
		defer f.Close()
		accessLog = f
	}

	server := http.Server{
		Addr:              cfg.Web.Addr,
		Handler:           router.Wrap(e, accessLog),
		ReadTimeout:       cfg.Web.ReadTimeout,
		ReadHeaderTimeout: cfg.Web.ReadTimeout,
		WriteTimeout:      cfg.Web.WriteTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("listening on %s", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("signal %v received, start shutdown", sig)
		stop()

		sctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(sctx); err != nil {
			logger.WithError(err).Warning("error during graceful shutdown of HTTP server")
			if cerr := server.Close(); cerr != nil {
				return fmt.Errorf("could not stop server gracefully: %w", cerr)
			}
		}
	}
	return nil
}
