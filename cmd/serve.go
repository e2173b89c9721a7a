package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kariqs/bookstore-api/initializers"
	"github.com/Kariqs/bookstore-api/mpesa"
	"github.com/Kariqs/bookstore-api/routes"
	"github.com/Kariqs/bookstore-api/storage"
	"github.com/Kariqs/bookstore-api/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := initializers.Logger
	defer func() { _ = logger.Sync() }()

	cfg, err := connect()
	if err != nil {
		return err
	}
	defer initializers.CloseDB()

	if err := initializers.SyncDatabase(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := initializers.ConnectToRedis(ctx, cfg); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer initializers.CloseRedis()

	deps := routes.Deps{
		Config: cfg,
		DB:     initializers.DB,
		Redis:  initializers.Redis,
		Gateway: mpesa.NewClient(mpesa.Config{
			BaseURL:        cfg.Mpesa.BaseURL,
			ConsumerKey:    cfg.Mpesa.ConsumerKey,
			ConsumerSecret: cfg.Mpesa.ConsumerSecret,
			Timeout:        cfg.Mpesa.Timeout,
		}),
		Logger: logger,
	}

	if cfg.S3Bucket != "" {
		uploader, err := storage.NewS3Uploader(ctx, cfg.S3Bucket)
		if err != nil {
			return fmt.Errorf("failed to configure cover storage: %w", err)
		}
		deps.Uploader = uploader
	} else {
		logger.Warn("S3_BUCKET not set, cover uploads are disabled")
	}

	if cfg.Mail.Enabled() {
		deps.Mailer = utils.NewMailer(cfg.Mail)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
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

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server exited")
	return nil
}
