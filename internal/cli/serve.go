package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/credence/internal/logger"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/server"
)

var (
	serveAddr string
	serveRPS  float64
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyzer over HTTP",
	Long: `Serve starts a JSON HTTP API:
  POST /api/analyze    {"text": "...", "format": "text|html"}
  POST /api/highlight  {"text": "...", "highlights": {...}}
  GET  /api/keywords
  GET  /api/keywords/:name
  GET  /healthz

Requests are rate limited per client IP; rate_limiting.clients in the
config file overrides the rate for listed IPs. Oversized bodies get 413.

Example:
  credence serve --addr :8090
  CREDENCE_RATE_LIMITING_REQUESTS_PER_SECOND=20 credence serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8090", "listen address")
	serveCmd.Flags().Float64Var(&serveRPS, "rps", 5, "requests per second per client (0 disables limiting)")
	serveCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = serveAddr
	}
	if cmd.Flags().Changed("rps") {
		cfg.RateLimiting.RequestsPerSecond = serveRPS
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	// Cosmetic delay is for terminals only
	cfg.Output.Delay = 0

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, pipeline.NewPipeline(cfg))

	logger.Log.WithField("addr", cfg.Server.Addr).Info("starting credence API")
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
