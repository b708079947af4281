// Package commands implements the simulate CLI.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stock_forecast/internal/platform/logging"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var (
		verbose   bool
		logCloser io.Closer
	)

	root := &cobra.Command{
		Use:   "simulate",
		Short: "Monte Carlo stock price forecasts from EPS growth and P/E distributions",
		Long: `simulate fits EPS growth and P/E distributions to a ticker's history and
draws terminal prices over a horizon. It can also serve the same tools over MCP.`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg := logging.LoadConfig()
			if verbose {
				cfg.Level = slog.LevelDebug
			}
			closer, err := logging.Init(cfg)
			if err != nil {
				return err
			}
			logCloser = closer

			slog.Debug("simulate starting", "version", Version, "commit", Commit, "buildDate", BuildDate)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				_ = logCloser.Close()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRunCmd(), newStockCmd(), newWarmCmd(), newMCPCmd())
	return root
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}
