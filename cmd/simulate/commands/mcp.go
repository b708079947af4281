package commands

import (
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"stock_forecast/internal/app/di"
	"stock_forecast/internal/app/mcpserver"
	simusecase "stock_forecast/internal/feature/simulation/usecase"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve get_stock and run_simulation as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			stocks := di.NewStockUsecase(nil)
			sims := di.NewSimulationUsecase(stocks, simusecase.LoadConfig())

			slog.Info("MCP server starting stdio loop", "version", Version)
			return mcpserver.New(stocks, sims, Version).Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
