package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xKrikZ/MeinPortfolio-App/internal/config"
	delivery "github.com/xKrikZ/MeinPortfolio-App/internal/delivery/http"
	"github.com/xKrikZ/MeinPortfolio-App/internal/export"
	"github.com/xKrikZ/MeinPortfolio-App/internal/repository"
	"github.com/xKrikZ/MeinPortfolio-App/internal/service"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/logger"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/sqlite"
	"github.com/xKrikZ/MeinPortfolio-App/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the portfolio server",
	Run:   runServe,
}

var checkAlertsCmd = &cobra.Command{
	Use:   "check-alerts",
	Short: "Runs one alert evaluation pass and exits",
	Run:   runCheckAlerts,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting portfolio server", logger.Field("name", cfg.App.Name))

	db, err := sqlite.NewDB(sqlite.Config{
		Path:            cfg.Database.Path,
		BusyTimeoutMS:   cfg.Database.BusyTimeoutMS,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	defer db.Close()

	// Repositories
	assetRepo := repository.NewAssetRepository(db.DB)
	priceRepo := repository.NewPriceRepository(db.DB)
	transactionRepo := repository.NewTransactionRepository(db.DB)
	alertRepo := repository.NewAlertRepository(db.DB)
	dividendRepo := repository.NewDividendRepository(db.DB)
	maintenanceRepo := repository.NewMaintenanceRepository(db.DB)
	settingRepo := repository.NewSettingRepository(db.DB)

	// Services
	priceSvc := service.NewPriceService(assetRepo, priceRepo, cfg.App.DefaultCurrency, appLogger)
	portfolioSvc := service.NewPortfolioService(transactionRepo, priceRepo, cfg.App.DefaultCurrency, appLogger)
	alertSvc := service.NewAlertService(alertRepo, priceRepo, assetRepo, cfg.App.DefaultCurrency, appLogger)
	dividendSvc := service.NewDividendService(dividendRepo, transactionRepo, priceRepo, cfg.App.DefaultCurrency, appLogger)
	maintenanceSvc := service.NewMaintenanceService(maintenanceRepo, appLogger)
	settingSvc := service.NewSettingService(settingRepo, appLogger)
	backupSvc := service.NewBackupService(cfg.Database.Path, cfg.Backup.Dir, cfg.Backup.RetentionDays, appLogger)

	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram client", logger.ErrorField(err))
		}
	}

	schedulerSvc := service.NewSchedulerService(alertSvc, backupSvc, notifier, telegram.FormatTriggeredAlertsForTelegram, service.SchedulerConfig{
		AlertCronSpec:  cfg.Alerts.CronSpec,
		Notify:         cfg.Alerts.Notify,
		BackupEnabled:  cfg.Backup.Enabled,
		BackupCronSpec: cfg.Backup.CronSpec,
	}, appLogger)
	if err := schedulerSvc.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start scheduler", logger.ErrorField(err))
	}
	defer schedulerSvc.Stop()

	// Echo server
	e := echo.New()
	e.HideBanner = true

	apiV1 := e.Group("/api/v1")

	priceHandler := delivery.NewPriceHandler(priceSvc, appLogger)
	priceHandler.RegisterRoutes(apiV1.Group("/prices"))

	portfolioHandler := delivery.NewPortfolioHandler(portfolioSvc, appLogger)
	portfolioHandler.RegisterRoutes(apiV1.Group("/portfolio"))

	alertHandler := delivery.NewAlertHandler(alertSvc, appLogger)
	alertHandler.RegisterRoutes(apiV1.Group("/alerts"))

	dividendHandler := delivery.NewDividendHandler(dividendSvc, appLogger)
	dividendHandler.RegisterRoutes(apiV1.Group("/dividends"))

	exportHandler := delivery.NewExportHandler(portfolioSvc, priceSvc, dividendSvc, export.NewWriter(cfg.Export.OutputDir), appLogger)
	exportHandler.RegisterRoutes(apiV1.Group("/export"))

	maintenanceHandler := delivery.NewMaintenanceHandler(maintenanceSvc, backupSvc, appLogger)
	maintenanceHandler.RegisterRoutes(apiV1.Group("/maintenance"))

	settingHandler := delivery.NewSettingHandler(settingSvc, appLogger)
	settingHandler.RegisterRoutes(apiV1.Group("/settings"))

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func runCheckAlerts(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	db, err := sqlite.NewDB(sqlite.Config{
		Path:          cfg.Database.Path,
		BusyTimeoutMS: cfg.Database.BusyTimeoutMS,
		LogLevel:      cfg.Database.LogLevel,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	defer db.Close()

	assetRepo := repository.NewAssetRepository(db.DB)
	priceRepo := repository.NewPriceRepository(db.DB)
	alertRepo := repository.NewAlertRepository(db.DB)
	alertSvc := service.NewAlertService(alertRepo, priceRepo, assetRepo, cfg.App.DefaultCurrency, appLogger)
	backupSvc := service.NewBackupService(cfg.Database.Path, cfg.Backup.Dir, cfg.Backup.RetentionDays, appLogger)

	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram client", logger.ErrorField(err))
		}
	}

	schedulerSvc := service.NewSchedulerService(alertSvc, backupSvc, notifier, telegram.FormatTriggeredAlertsForTelegram, service.SchedulerConfig{
		Notify: cfg.Alerts.Notify,
	}, appLogger)
	schedulerSvc.RunAlertCheck(ctx)
}

func main() {
	rootCmd := &cobra.Command{Use: "portfolio-server"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")
	checkAlertsCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkAlertsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing portfolio-server CLI: %s\n", err)
		os.Exit(1)
	}
}
