package commands

import (
	"github.com/spf13/cobra"

	"stock_forecast/internal/app/di"
	simusecase "stock_forecast/internal/feature/simulation/usecase"
	"stock_forecast/internal/feature/stock/transport/http/dto"
)

func newStockCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "stock <ticker>",
		Short:   "Print a ticker's market data and fitted distributions as JSON",
		Example: "  simulate stock MSFT",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := di.NewStockUsecase(nil).GetStock(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cfg := simusecase.LoadConfig()
			suggested := a.SuggestedParams(cfg.DefaultYears, cfg.DefaultSimulations, cfg.DefaultFDRate)
			return writeJSON(cmd.OutOrStdout(), dto.NewStockResponse(a, suggested))
		},
	}
}
