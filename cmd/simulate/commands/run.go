package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"stock_forecast/internal/app/di"
	"stock_forecast/internal/feature/simulation/transport/csvexport"
	"stock_forecast/internal/feature/simulation/transport/http/dto"
	simusecase "stock_forecast/internal/feature/simulation/usecase"
)

type runFlags struct {
	ticker                  string
	price0, eps0, pe0       float64
	years, numSimulations   int
	fdRate                  float64
	meanGrowth, sigmaGrowth float64
	meanPE, sigmaPE         float64
	growthMin, growthMax    float64
	peMin, peMax            float64
	seed                    uint64
	format                  string
	out                     string
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation for a ticker or for explicit inputs",
		Example: `  simulate run --ticker AAPL --years 10
  simulate run --price0 100 --eps0 5 --mean-growth 0.1 --sigma-growth 0.05 --format csv --out trials.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.format != "json" && f.format != "csv" {
				return fmt.Errorf("unknown format %q, want json or csv", f.format)
			}

			cfg := simusecase.LoadConfig()
			uc := di.NewSimulationUsecase(di.NewStockUsecase(nil), cfg)
			out, err := uc.Simulate(cmd.Context(), f.request(cmd.Flags()))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if f.out != "" {
				file, err := os.Create(f.out)
				if err != nil {
					return err
				}
				defer func() { _ = file.Close() }()
				w = file
			}
			if f.format == "csv" {
				return csvexport.Write(w, out.Result.Trials)
			}
			return writeJSON(w, dto.NewSimulateResponse(out))
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.ticker, "ticker", "", "ticker symbol used to fill missing inputs")
	fl.Float64Var(&f.price0, "price0", 0, "current share price")
	fl.Float64Var(&f.eps0, "eps0", 0, "current annual EPS")
	fl.Float64Var(&f.pe0, "pe0", 0, "current P/E")
	fl.IntVar(&f.years, "years", 5, "horizon in years")
	fl.IntVarP(&f.numSimulations, "simulations", "n", 10_000, "number of trials")
	fl.Float64Var(&f.fdRate, "fd-rate", 0.07, "fixed-deposit benchmark rate")
	fl.Float64Var(&f.meanGrowth, "mean-growth", 0, "mean annual EPS growth")
	fl.Float64Var(&f.sigmaGrowth, "sigma-growth", 0, "standard deviation of annual EPS growth")
	fl.Float64Var(&f.meanPE, "mean-pe", 0, "mean terminal P/E")
	fl.Float64Var(&f.sigmaPE, "sigma-pe", 0, "standard deviation of terminal P/E")
	fl.Float64Var(&f.growthMin, "growth-min", 0, "lower growth bound")
	fl.Float64Var(&f.growthMax, "growth-max", 0, "upper growth bound")
	fl.Float64Var(&f.peMin, "pe-min", 0, "lower P/E bound")
	fl.Float64Var(&f.peMax, "pe-max", 0, "upper P/E bound")
	fl.Uint64Var(&f.seed, "seed", 0, "seed for a reproducible run")
	fl.StringVar(&f.format, "format", "json", "output format: json or csv")
	fl.StringVarP(&f.out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

// request maps only the flags the user set; the rest take usecase defaults.
func (f *runFlags) request(fs *pflag.FlagSet) simusecase.Request {
	req := simusecase.Request{Ticker: f.ticker}
	floats := map[string]struct {
		dst **float64
		v   float64
	}{
		"price0":       {&req.Price0, f.price0},
		"eps0":         {&req.EPS0, f.eps0},
		"pe0":          {&req.PE0, f.pe0},
		"fd-rate":      {&req.FDRate, f.fdRate},
		"mean-growth":  {&req.MeanGrowth, f.meanGrowth},
		"sigma-growth": {&req.SigmaGrowth, f.sigmaGrowth},
		"mean-pe":      {&req.MeanPE, f.meanPE},
		"sigma-pe":     {&req.SigmaPE, f.sigmaPE},
		"growth-min":   {&req.GrowthMin, f.growthMin},
		"growth-max":   {&req.GrowthMax, f.growthMax},
		"pe-min":       {&req.PEMin, f.peMin},
		"pe-max":       {&req.PEMax, f.peMax},
	}
	for name, fv := range floats {
		if fs.Changed(name) {
			v := fv.v
			*fv.dst = &v
		}
	}
	if fs.Changed("years") {
		req.Years = &f.years
	}
	if fs.Changed("simulations") {
		req.NumSimulations = &f.numSimulations
	}
	if fs.Changed("seed") {
		req.Seed = &f.seed
	}
	return req
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
