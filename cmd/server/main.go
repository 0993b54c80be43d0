package main // Entry point package

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/ticket-shop/internal/config"   // Internal config loader
	"github.com/iliyamo/ticket-shop/internal/database" // Persistence registry
	"github.com/iliyamo/ticket-shop/internal/handler"
	"github.com/iliyamo/ticket-shop/internal/logging"
	"github.com/iliyamo/ticket-shop/internal/middleware"
	"github.com/iliyamo/ticket-shop/internal/queue"
	"github.com/iliyamo/ticket-shop/internal/router" // Internal router setup
)

func main() {
	cfg := config.Load() // Load environment config
	logging.Init(logging.ParseLevel(cfg.LogLevel))
	log := logrus.WithField("env", cfg.Env)

	dsn := cfg.DBDSN
	if dsn == "" {
		dsn = database.MySQLDSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	}
	reg := database.NewRegistry()
	database.ConfigureMySQL(reg, dsn)
	defer reg.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := reg.Migrate(ctx); err != nil {
		log.WithError(err).Fatal("database migration failed")
	}

	// Redis and RabbitMQ are optional; both degrade to no-ops.
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), config.NewRedisClient(ctx))
	qcfg := config.LoadQueueConfig()
	publisher := queue.NewPublisher(qcfg)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(middleware.RequestLogger(), middleware.Metrics())
	router.RegisterRoutes(e, reg)
	router.RegisterV1(e, reg, cache,
		handler.NewShowHandler(publisher, cache),
		handler.NewEventHandler(cache))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Infof("listening on %s", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return e.Shutdown(sctx)
	})
	if qcfg.ConsumerEnabled {
		g.Go(func() error { return queue.StartChangeLogConsumer(gctx, qcfg) })
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("server stopped with error")
	}
}
