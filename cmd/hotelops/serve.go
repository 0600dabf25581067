package main

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grandhotel/hotelops/internal/pkg/config"
	"github.com/grandhotel/hotelops/internal/pkg/database"
	"github.com/grandhotel/hotelops/internal/pkg/health"
	"github.com/grandhotel/hotelops/internal/pkg/logger"
	"github.com/grandhotel/hotelops/internal/pkg/metrics"
	"github.com/grandhotel/hotelops/internal/pkg/middleware"
	"github.com/grandhotel/hotelops/internal/pkg/models"
	natspkg "github.com/grandhotel/hotelops/internal/pkg/nats"
	"github.com/grandhotel/hotelops/internal/pkg/retry"
	"github.com/grandhotel/hotelops/internal/pkg/server"
	"github.com/grandhotel/hotelops/services/auth/gateway"
	"github.com/grandhotel/hotelops/services/auth/handler"
	httpHandler "github.com/grandhotel/hotelops/services/auth/handler/http"
	"github.com/grandhotel/hotelops/services/auth/jobs"
	"github.com/grandhotel/hotelops/services/auth/repository"
	"github.com/grandhotel/hotelops/services/auth/usecase"
)

func runServe(ctx context.Context, envFile string, migrate bool) error {
	configs, zapLogger, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	defer zapLogger.Close()

	if err := config.Validate(configs); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	zapLogger.Info("Starting application",
		logger.String("app", configs.App.Name),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
	)

	shutdown := server.NewShutdownManager(zapLogger)
	defer func() {
		if err := shutdown.Shutdown(context.Background()); err != nil {
			zapLogger.Error("Shutdown completed with errors", logger.Err(err))
		}
	}()

	healthSvc := health.NewService()

	// Initialize PostgreSQL database connection
	postgresClient, err := connectPostgres(ctx, configs, zapLogger)
	if err != nil {
		return err
	}
	shutdown.Register("postgres", func(context.Context) error { return postgresClient.Close() })
	healthSvc.AddChecker("postgres", postgresClient)

	if migrate {
		if err := database.ApplyMigrations(ctx, postgresClient.GetDB()); err != nil {
			return err
		}
	}

	// Redis is optional; without it rate limits are kept per process
	var redisClient *redis.Client
	if configs.Redis.Host != "" {
		rc, err := connectRedis(ctx, configs, zapLogger)
		if err != nil {
			return err
		}
		shutdown.Register("redis", func(context.Context) error { return rc.Close() })
		healthSvc.AddChecker("redis", rc)
		redisClient = rc.GetClient()
	}

	var natsClient *natspkg.Client
	if configs.SMS.Driver == models.SMSDriverNATS {
		natsClient, err = natspkg.NewClient(configs.NATS.URL, configs.App.Name)
		if err != nil {
			return err
		}
		shutdown.Register("nats", func(context.Context) error {
			natsClient.Close()
			return nil
		})
		healthSvc.AddChecker("nats", health.CheckerFunc(func(context.Context) error {
			if !natsClient.IsConnected() {
				return fmt.Errorf("nats connection is down")
			}
			return nil
		}))
	}

	// Initialize repository, gateway and usecase
	authRepo := repository.NewAuthRepo(configs, postgresClient.GetDB())
	smsGW, err := gateway.NewSMSGateway(configs, natsClient)
	if err != nil {
		return err
	}
	authUC := usecase.NewAuthUC(authRepo, smsGW, configs)

	reaper, err := jobs.NewOTPReaper(authUC, configs.OTP.PurgeSchedule)
	if err != nil {
		return err
	}
	reaper.Start()
	shutdown.Register("otp-reaper", func(context.Context) error {
		reaper.Stop()
		return nil
	})

	// Handlers for HTTP
	authHandler := httpHandler.NewAuthHandler(authUC)
	userHandler := httpHandler.NewUserHandler(authUC)
	h := handler.NewHandler(authHandler, userHandler, configs, redisClient)

	metrics.MustRegister(prometheus.DefaultRegisterer, configs.App.Name)

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.PanicRecoveryWithZapMiddleware(zapLogger))
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.ZapEchoMiddleware(zapLogger))
	e.Use(middleware.MetricsMiddleware())

	health.RegisterHealthEndpoints(e, configs.App.Name, configs.App.Version, healthSvc)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	h.RegisterRoutes(e)

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Host, configs.Server.Port, configs.Server.ShutdownTimeout)
	return srv.Run(ctx)
}

func connectPostgres(ctx context.Context, configs *models.Config, zapLogger *logger.ZapLogger) (*database.PostgresClient, error) {
	var client *database.PostgresClient
	err := retry.New(retry.StartupConfig(), zapLogger).Execute(ctx, "postgres connect", func(ctx context.Context) error {
		var err error
		client, err = database.NewPostgresClient(ctx, configs.Database)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	return client, nil
}

func connectRedis(ctx context.Context, configs *models.Config, zapLogger *logger.ZapLogger) (*database.RedisClient, error) {
	var client *database.RedisClient
	err := retry.New(retry.StartupConfig(), zapLogger).Execute(ctx, "redis connect", func(ctx context.Context) error {
		var err error
		client, err = database.NewRedisClient(ctx, configs.Redis)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
