package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	intakehandler "now-hiring/internal/application/intake-handler"
	recordstore "now-hiring/internal/application/record-store"
	sendnotification "now-hiring/internal/application/send-notification"
	"now-hiring/internal/common/aws"
	"now-hiring/internal/common/config"
	"now-hiring/internal/common/database"
	"now-hiring/internal/common/logger"
	"now-hiring/internal/server"
	widgetcontroller "now-hiring/internal/widget/widget-controller"
	widgetscript "now-hiring/internal/widget/widget-script"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func main() {
	configPath := flag.String("config", "", "path to a config file (default: configs/config.yaml)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting intake server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("storageStrategy", cfg.Intake.StorageStrategy),
		zap.String("persistencePolicy", cfg.Intake.PersistencePolicy),
	)

	ctx := context.Background()

	catalog, err := config.LoadPositions(cfg.Intake.PositionsFile)
	if err != nil {
		zapLog.Fatal("position catalog load failed", zap.Error(err))
	}
	if catalog.Empty() {
		zapLog.Warn("no position catalog configured, any position is accepted")
	}

	// --- Init database with retry ---
	var db *database.SQLClient
	err = retryWithBackoff(func() error {
		var err error
		db, err = database.Open(cfg.Database)
		if err != nil {
			return err
		}
		return db.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "database connection")
	if err != nil {
		zapLog.Fatal("database failed after retries", zap.Error(err))
	}
	defer db.Close()
	zapLog.Info("database connected", zap.String("driver", cfg.Database.Driver))

	store, err := recordstore.New(recordstore.LoadConfig(cfg), db, log)
	if err != nil {
		zapLog.Fatal("failed to create record store", zap.Error(err))
	}

	// --- Init Redis for the shared throttle ---
	var rdb *database.RedisClient
	if cfg.Intake.RateLimit.Enabled && cfg.Intake.RateLimit.Backend == "redis" {
		rdb = database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
	}

	throttle, err := intakehandler.NewThrottle(cfg.Intake.RateLimit, rdb)
	if err != nil {
		zapLog.Fatal("failed to create throttle", zap.Error(err))
	}

	notifier, err := newNotifier(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("failed to create notifier", zap.Error(err))
	}

	intake := intakehandler.NewHandler(intakehandler.LoadConfig(cfg, catalog), store, notifier, throttle, log)

	renderer, err := widgetscript.New(&widgetscript.Config{
		Widget:             widgetcontroller.LoadConfig(cfg),
		Positions:          catalog.Positions,
		MaxAttachmentBytes: cfg.Intake.MaxAttachmentBytes,
	})
	if err != nil {
		zapLog.Fatal("failed to build widget script", zap.Error(err))
	}

	ready := map[string]server.Pinger{"database": db}
	if rdb != nil {
		ready["redis"] = rdb
	}

	serverCfg := server.LoadConfig(cfg)
	srv := server.New(serverCfg, server.Deps{
		Intake: intake,
		Widget: renderer,
		Ready:  ready,
		Logger: log,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received, stopping server...")
	case err := <-errCh:
		if err != nil {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if err := intake.Drain(shutdownCtx); err != nil {
		zapLog.Warn("Pending notifications abandoned", zap.Error(err))
	}

	zapLog.Info("Intake server stopped gracefully")
}

// newNotifier builds the dispatcher for the enabled channels, or nil when
// every channel is off.
func newNotifier(ctx context.Context, cfg *config.Config, log logger.Logger) (intakehandler.Notifier, error) {
	ncfg := sendnotification.LoadConfig(cfg)
	if !ncfg.EmailEnabled && !ncfg.SMSEnabled {
		return nil, nil
	}

	var mailer sendnotification.Mailer
	if ncfg.EmailEnabled {
		switch ncfg.Provider {
		case sendnotification.ProviderSMTP:
			mailer = sendnotification.NewSMTPMailer(ncfg, log)
		case sendnotification.ProviderSES:
			client, err := aws.NewSESClient(ctx, ncfg.AWSRegion)
			if err != nil {
				return nil, fmt.Errorf("ses client: %w", err)
			}
			mailer = sendnotification.NewSESMailer(client, ncfg.FromEmail, log)
		default:
			return nil, fmt.Errorf("unknown email provider %q", ncfg.Provider)
		}
	}

	var alerter sendnotification.Alerter
	if ncfg.SMSEnabled {
		client, err := aws.NewSNSClient(ctx, ncfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("sns client: %w", err)
		}
		alerter = sendnotification.NewSNSAlerter(client, ncfg.PhoneNumbers, log)
	}

	return sendnotification.NewDispatcher(ncfg, mailer, alerter, log), nil
}
