package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/liquidonate/weekly-lights/cache"
	"github.com/liquidonate/weekly-lights/client"
	"github.com/liquidonate/weekly-lights/config"
	"github.com/liquidonate/weekly-lights/handler"
	"github.com/liquidonate/weekly-lights/service"
	"github.com/liquidonate/weekly-lights/store"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	blobs, err := cache.Open(ctx, cfg.CacheDBPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open blob cache: %w", err)
	}
	defer blobs.Close()

	var ocr service.OCRClient
	if cfg.OCREnabled {
		tesseract := client.NewTesseractClient(cfg.TesseractDataPath, logger)
		defer tesseract.Close()
		ocr = tesseract
	}

	reports := store.NewReportStore()
	ingestService := service.NewIngestService(
		service.NewPDFProcessor(),
		ocr,
		reports,
		store.NewUploadTracker(),
		blobs,
		logger,
		service.IngestOptions{
			MaxFileSize:    cfg.MaxFileSize,
			ExtractTimeout: cfg.ExtractTimeout,
		},
	)
	exportService := service.NewExportService(reports)
	reportHandler := handler.NewReportHandler(ingestService, exportService, reports, cfg.MaxFileSize)

	srv := &http.Server{
		Addr:    net.JoinHostPort("", cfg.ServerPort),
		Handler: handler.NewRouter(reportHandler, logger, cfg.MaxMultipartMemory),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Bool("ocr", cfg.OCREnabled).Msg("starting weekly lights server")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		logger.Info().Msg("shutdown initiated")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
