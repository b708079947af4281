package commands

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"stock_forecast/internal/app/di"
	infraredis "stock_forecast/internal/platform/redis"
)

func newWarmCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "warm <ticker>...",
		Short: "Pre-load ticker snapshots into the Redis cache",
		Long: `warm fetches each ticker through the same cache the HTTP server reads, so
the first request after market close is served from Redis. Requires REDIS_HOST.`,
		Example: "  simulate warm AAPL MSFT NVDA --refresh",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := infraredis.LoadConfig()
			if !cfg.Enabled() {
				return errors.New("REDIS_HOST is not set; nothing to warm")
			}
			rdb, err := infraredis.NewRedisClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()

			report, err := di.NewWarmUsecase(rdb).WarmAll(ctx, args, refresh)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "drop cached snapshots before fetching")
	return cmd
}
