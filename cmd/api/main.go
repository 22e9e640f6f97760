package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/sehatsathi/inventory-api/docs"
	"github.com/sehatsathi/inventory-api/internal/api"
	"github.com/sehatsathi/inventory-api/internal/core/ports"
	"github.com/sehatsathi/inventory-api/internal/core/service"
	mongostore "github.com/sehatsathi/inventory-api/internal/infrastructure/db/mongo"
	redisstore "github.com/sehatsathi/inventory-api/internal/infrastructure/db/redis"
	"github.com/sehatsathi/inventory-api/internal/infrastructure/db/sqlstore"
	"github.com/sehatsathi/inventory-api/internal/infrastructure/http/handlers"
	"github.com/sehatsathi/inventory-api/internal/infrastructure/worker"
	"github.com/sehatsathi/inventory-api/internal/pkg/config"
	"github.com/sehatsathi/inventory-api/pkg/logger"
)

// @title          SehatSathi Inventory API
// @version        1.0
// @description    Pharmacy stock reporting with government approval and aggregate dashboards.
// @host           localhost:8080
// @BasePath       /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "inventory-api",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// store bundles the repositories of whichever backend STORE_DRIVER selects.
type store struct {
	identities ports.IdentityRepository
	stocks     ports.StockRepository
	pinger     handlers.Pinger
	close      func(context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	if cfg.Store.Driver == "mongo" {
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &store{
			identities: mongostore.NewIdentityRepository(db),
			stocks:     mongostore.NewStockRepository(db),
			pinger:     mongostore.NewPinger(db),
			close:      client.Disconnect,
		}, nil
	}

	db, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver:     cfg.Store.Driver,
		SQLitePath: cfg.Store.SQLitePath,
		MySQLDSN:   cfg.Store.MySQLDSN,
	})
	if err != nil {
		return nil, err
	}
	return &store{
		identities: sqlstore.NewIdentityRepository(db),
		stocks:     sqlstore.NewStockRepository(db),
		pinger:     sqlstore.NewPinger(db),
		close:      func(context.Context) error { return sqlstore.Close(db) },
	}, nil
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Error().Err(err).Msg("closing store")
		}
	}()
	log.Info().Str("driver", cfg.Store.Driver).Msg("store ready")

	readiness := map[string]handlers.Pinger{cfg.Store.Driver: st.pinger}

	// Redis is optional. Without it stock adds ignore Idempotency-Key and the
	// analytics snapshot is unavailable.
	var (
		idempotency ports.IdempotencyStore
		snapshots   ports.SnapshotStore
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, continuing without it")
		} else {
			defer rdb.Close()
			idempotency = redisstore.NewIdempotencyStore(rdb)
			snapshots = redisstore.NewSnapshotStore(rdb)
			readiness["redis"] = redisstore.NewPinger(rdb)
		}
	}

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(st.identities, tokens, logger.Component("auth"))
	approvalService := service.NewApprovalService(st.identities, logger.Component("approval"))
	stockService := service.NewStockService(st.identities, st.stocks, idempotency, logger.Component("stock"))
	dashboardService := service.NewDashboardService(st.identities, st.stocks, snapshots, service.DashboardOptions{
		LowStockThreshold: cfg.Dashboard.LowStockThreshold,
		ExpiryWindow:      time.Duration(cfg.Dashboard.ExpiryWindowDays) * 24 * time.Hour,
		Limit:             cfg.Dashboard.Limit,
	}, logger.Component("dashboard"))

	seeder := service.NewSeeder(st.identities, st.stocks, logger.Component("seeder"))
	if err := seeder.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if cfg.SeedDemo {
		if err := seeder.SeedDemo(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	var refresherDone <-chan struct{}
	if snapshots != nil && cfg.SnapshotInterval > 0 {
		refresherDone = worker.NewSnapshotRefresher(dashboardService, cfg.SnapshotInterval, logger.Component("refresher")).Start(ctx)
	}

	e := api.NewRouter(api.Deps{
		Auth:        authService,
		Tokens:      tokens,
		Approvals:   approvalService,
		Stock:       stockService,
		Dashboard:   dashboardService,
		Readiness:   readiness,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	stop()
	if refresherDone != nil {
		<-refresherDone
	}
	return nil
}
