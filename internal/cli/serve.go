package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/colourbalance/internal/image"
	"github.com/jmylchreest/colourbalance/internal/server"
)

var (
	serveTuning  tuningFlags
	serveAddr    string
	serveTimeout time.Duration
	serveMaxBody int64
	serveMaxPix  int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis HTTP server",
	Long: `Serve the analyzer over HTTP.

Endpoints:
  GET  /health    liveness check
  POST /analyze   analyze an image sent as the raw body or as the "image"
                  field of a multipart form

Query parameters on /analyze (clusters, merge_delta, small_threshold,
tolerance, targets, seed, inits, algorithm, segments, compactness, max_dim,
sigma) override the defaults given by flags and environment.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveTuning.register(serveCmd.Flags())
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().DurationVar(&serveTimeout, "timeout", 60*time.Second, "maximum time for one analysis")
	serveCmd.Flags().Int64Var(&serveMaxBody, "max-body", 32<<20, "maximum request body size in bytes")
	serveCmd.Flags().IntVar(&serveMaxPix, "max-pixels", image.DefaultMaxPixels, "maximum decoded image size in pixels")
}

// runServe executes the serve command.
func runServe(cmd *cobra.Command, _ []string) error {
	logger := newLogger(cmd, "serve")

	cfg, opts, err := serveTuning.resolve(cmd.Flags())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	handler, err := server.NewHandler(cfg, opts, server.Options{
		MaxBodyBytes: serveMaxBody,
		Timeout:      serveTimeout,
		MaxPixels:    serveMaxPix,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}

	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      serveTimeout + 10*time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", serveAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}
