package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/mzansigreen/office-backend/api/routes"
	"github.com/mzansigreen/office-backend/internal/analytics"
	"github.com/mzansigreen/office-backend/internal/auth"
	"github.com/mzansigreen/office-backend/internal/collections"
	"github.com/mzansigreen/office-backend/internal/rewards"
	"github.com/mzansigreen/office-backend/internal/scholar"
	"github.com/mzansigreen/office-backend/internal/users"
	"github.com/mzansigreen/office-backend/internal/wallet"
	"github.com/mzansigreen/office-backend/internal/withdrawals"
	"github.com/mzansigreen/office-backend/pkg/config"
	"github.com/mzansigreen/office-backend/pkg/db"
	"github.com/mzansigreen/office-backend/pkg/logger"
	"github.com/mzansigreen/office-backend/pkg/migrate"
	"github.com/mzansigreen/office-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	svcs, err := buildServices(cfg, logg, dbClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, svcs),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (routes.Services, error) {
	conn := dbClient.DB()

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(conn),
		Limiter:        redisClient,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		RateLimit:      cfg.AuthRateLimit,
	})
	if err != nil {
		return routes.Services{}, err
	}

	usersService, err := users.NewService(dbClient, users.NewRepository(conn), cfg.Password)
	if err != nil {
		return routes.Services{}, err
	}

	scholarService, err := scholar.NewService(scholar.NewRepository(conn), cfg.Scholar)
	if err != nil {
		return routes.Services{}, err
	}

	collectionsService, err := collections.NewService(dbClient, collections.NewRepository(conn), scholarService, logg)
	if err != nil {
		return routes.Services{}, err
	}

	withdrawalsService, err := withdrawals.NewService(dbClient, withdrawals.NewRepository(conn), logg)
	if err != nil {
		return routes.Services{}, err
	}

	walletService, err := wallet.NewService(wallet.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}

	rewardsService, err := rewards.NewService(rewards.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}

	analyticsService, err := analytics.NewService(analytics.NewRepository(conn), logg, cfg.Analytics.QueryTimeout)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:        authService,
		Users:       usersService,
		Collections: collectionsService,
		Withdrawals: withdrawalsService,
		Wallet:      walletService,
		Rewards:     rewardsService,
		Scholar:     scholarService,
		Analytics:   analyticsService,
	}, nil
}
