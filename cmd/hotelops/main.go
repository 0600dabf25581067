package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grandhotel/hotelops/internal/pkg/config"
	"github.com/grandhotel/hotelops/internal/pkg/database"
	"github.com/grandhotel/hotelops/internal/pkg/logger"
	"github.com/grandhotel/hotelops/internal/pkg/models"
	"github.com/grandhotel/hotelops/services/auth/gateway"
	"github.com/grandhotel/hotelops/services/auth/repository"
	"github.com/grandhotel/hotelops/services/auth/usecase"
)

func main() {
	var (
		envFile string
		migrate bool
	)

	rootCmd := &cobra.Command{
		Use:           "hotelops",
		Short:         "Grand Hotel authentication service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "config/auth.env", "env file loaded when APP_ENV=local")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, envFile, migrate)
		},
	}
	serveCmd.Flags().BoolVar(&migrate, "migrate", false, "apply database migrations before serving")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), envFile)
		},
	}

	purgeCmd := &cobra.Command{
		Use:   "purge-otp",
		Short: "delete expired one-time codes once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurge(cmd.Context(), envFile)
		},
	}

	rootCmd.AddCommand(serveCmd, migrateCmd, purgeCmd)
	rootCmd.RunE = serveCmd.RunE

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("hotelops: %v", err)
	}
}

// bootstrap loads configuration and installs the process logger
func bootstrap(envFile string) (*models.Config, *logger.ZapLogger, error) {
	configs := config.InitConfig(envFile)

	zapLogger, err := logger.InitZapLoggerFromConfig(configs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.SetGlobalLogger(zapLogger)

	return configs, zapLogger, nil
}

func runMigrate(ctx context.Context, envFile string) error {
	configs, zapLogger, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	defer zapLogger.Close()

	postgresClient, err := connectPostgres(ctx, configs, zapLogger)
	if err != nil {
		return err
	}
	defer postgresClient.Close()

	if err := database.ApplyMigrations(ctx, postgresClient.GetDB()); err != nil {
		return err
	}
	zapLogger.Info("Migrations applied")
	return nil
}

func runPurge(ctx context.Context, envFile string) error {
	configs, zapLogger, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	defer zapLogger.Close()

	postgresClient, err := connectPostgres(ctx, configs, zapLogger)
	if err != nil {
		return err
	}
	defer postgresClient.Close()

	authRepo := repository.NewAuthRepo(configs, postgresClient.GetDB())
	authUC := usecase.NewAuthUC(authRepo, gateway.NewLogSMSGateway(false), configs)

	n, err := authUC.PurgeExpiredOTPs(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "purged %d expired otp records\n", n)
	return nil
}
