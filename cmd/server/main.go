package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"consign-backend/internal/config"
	"consign-backend/internal/database"
	"consign-backend/internal/db"
	"consign-backend/internal/handlers"
	"consign-backend/internal/health"
	h "consign-backend/internal/http"
	"consign-backend/internal/logger"
	"consign-backend/internal/middleware"
	"consign-backend/internal/repositories"
	"consign-backend/internal/scanner"
	"consign-backend/internal/services"
	"consign-backend/internal/storage"
	"consign-backend/internal/timeutil"
	"consign-backend/internal/whatsapp"
	"consign-backend/migrations"

	"github.com/rs/zerolog"
)

func main() {
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	migrateOnly := flag.Bool("migrate-only", false, "apply database migrations and exit")
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	log := logger.New(logger.Options{
		Service: "consign-backend",
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
	})

	if err := timeutil.SetLocation(cfg.Server.Timezone); err != nil {
		log.Warn().Err(err).Str("timezone", cfg.Server.Timezone).Msg("unknown timezone, using UTC")
	}

	if err := run(cfg, log, *migrateOnly); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger, migrateOnly bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	pool, err := db.Connect(connectCtx, cfg)
	cancel()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	log.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.Name).Msg("connected to database")

	migrator := database.NewMigrator(pool, migrations.FS, ".", log)
	if err := migrator.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if migrateOnly {
		log.Info().Msg("migrations complete, exiting")
		return nil
	}

	// Adapters
	photos := newPhotoStore(ctx, cfg, log)
	provider := whatsapp.CreateProvider(whatsapp.Config{
		Provider:      cfg.WhatsApp.Provider,
		APIKey:        cfg.WhatsApp.APIKey,
		PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
		BaseURL:       cfg.WhatsApp.BaseURL,
		CountryCode:   cfg.WhatsApp.CountryCode,
	}, log)
	log.Info().Str("provider", provider.Name()).Bool("simulated", provider.Simulated()).Msg("messaging provider ready")

	var scan services.Scanner
	if cfg.Scanner.APIKey != "" {
		client, err := scanner.New(ctx, scanner.Config{
			APIKey:   cfg.Scanner.APIKey,
			Model:    cfg.Scanner.Model,
			Endpoint: cfg.Scanner.Endpoint,
		})
		if err != nil {
			return fmt.Errorf("scanner: %w", err)
		}
		scan = client
		log.Info().Str("model", cfg.Scanner.Model).Msg("scanner enabled")
	} else {
		log.Warn().Msg("scanner api key not set, /api/scan will answer 502")
	}

	// Repositories
	productRepo := repositories.NewProductRepository(pool)
	agentRepo := repositories.NewAgentRepository(pool)
	caseRepo := repositories.NewCaseRepository(pool)
	logRepo := repositories.NewLogRepository(pool)
	commissionRepo := repositories.NewManualCommissionRepository(pool)
	statsRepo := repositories.NewStatsRepository(pool)

	// Services
	productService := services.NewProductService(productRepo, photos)
	agentService := services.NewAgentService(agentRepo)
	caseService := services.NewCaseService(caseRepo, productRepo, agentRepo, logRepo, photos)
	commissionService := services.NewCommissionService(commissionRepo, agentRepo)
	statsService := services.NewStatsService(statsRepo)
	reportService := services.NewReportService(caseRepo, statsService)
	scanService := services.NewScanService(scan, productRepo)
	notificationService := services.NewNotificationService(agentRepo, logRepo, provider, reportService, photos, cfg.WhatsApp.CountryCode, log)

	// Handlers
	router := h.NewRouter(
		handlers.NewProductHandler(productService),
		handlers.NewAgentHandler(agentService),
		handlers.NewCaseHandler(caseService, reportService, notificationService),
		handlers.NewCommissionHandler(commissionService),
		handlers.NewReportHandler(statsService, reportService),
		handlers.NewScanHandler(scanService),
		handlers.NewMessageHandler(notificationService),
		handlers.NewHealthHandler(health.NewHealthChecker(pool)),
	)

	var handler http.Handler = router
	handler = middleware.NewCORS(cfg)(handler)
	handler = middleware.PanicRecovery(handler)
	handler = middleware.RequestLogger(log)(handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newPhotoStore uploads to the bucket when storage is enabled and keeps data
// URIs inline otherwise.
func newPhotoStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) storage.Store {
	if !cfg.Storage.Enabled {
		return storage.Passthrough{}
	}
	store, err := storage.NewBucketStore(ctx, storage.Config{
		Endpoint:      cfg.Storage.Endpoint,
		Region:        cfg.Storage.Region,
		Bucket:        cfg.Storage.Bucket,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		log.Error().Err(err).Msg("bucket storage unavailable, keeping photos inline")
		return storage.Passthrough{}
	}
	log.Info().Str("bucket", cfg.Storage.Bucket).Msg("photo storage enabled")
	return store
}
