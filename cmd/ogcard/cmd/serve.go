package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xob0t/ogcard/clients/server"
	"github.com/xob0t/ogcard/internal/infra"
)

// ServeCmd runs the HTTP service
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the card API and preview page",
	Long: `Serve the card API and preview page.

Configuration comes from the environment (and an optional .env file):
HOST, PORT, PUBLIC_URL, APP_ENV, FONTS, HTTP_*_TIMEOUT_SECONDS,
PHOTO_READ_TIMEOUT_SECONDS and PHOTO_MAX_BYTES.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	logger := infra.NewLogger(cfg.AppEnv)

	router, err := server.New(server.Options{
		Renderer:  newEngine(cfg, logger),
		Logger:    logger,
		PublicURL: cfg.PublicURL,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}
	srv := infra.NewHTTPServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr()).Str("public_url", cfg.PublicURL).Msg("listening")
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-stop:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
