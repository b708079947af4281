// Package mcpserver exposes the stock lookup and the simulation as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	simentity "stock_forecast/internal/feature/simulation/domain/entity"
	simusecase "stock_forecast/internal/feature/simulation/usecase"
	stockentity "stock_forecast/internal/feature/stock/domain/entity"
)

// StockProvider loads a ticker's market data with fitted distributions.
type StockProvider interface {
	GetStock(ctx context.Context, ticker string) (*stockentity.Analysis, error)
}

// Simulator runs simulation requests.
type Simulator interface {
	Simulate(ctx context.Context, req simusecase.Request) (*simusecase.Outcome, error)
}

// GetStockInput is the argument of get_stock.
type GetStockInput struct {
	Ticker string `json:"ticker" jsonschema:"ticker symbol, e.g. AAPL"`
}

// RunSimulationInput is the argument of run_simulation. Omitted values come
// from the ticker's market data or the defaults.
type RunSimulationInput struct {
	Ticker         string   `json:"ticker,omitempty" jsonschema:"ticker symbol used to fill price, EPS and distributions"`
	Price0         *float64 `json:"price0,omitempty" jsonschema:"current share price"`
	EPS0           *float64 `json:"eps0,omitempty" jsonschema:"current annual EPS, must be positive"`
	Years          *int     `json:"years,omitempty" jsonschema:"horizon in years, 1 to 50, default 5"`
	NumSimulations *int     `json:"numSimulations,omitempty" jsonschema:"number of trials, default 10000"`
	FDRate         *float64 `json:"fdRate,omitempty" jsonschema:"fixed-deposit benchmark rate, default 0.07"`
	MeanGrowth     *float64 `json:"meanGrowth,omitempty" jsonschema:"mean annual EPS growth as a fraction"`
	SigmaGrowth    *float64 `json:"sigmaGrowth,omitempty" jsonschema:"standard deviation of annual EPS growth"`
	MeanPE         *float64 `json:"meanPE,omitempty" jsonschema:"mean terminal P/E"`
	SigmaPE        *float64 `json:"sigmaPE,omitempty" jsonschema:"standard deviation of terminal P/E"`
	Seed           *uint64  `json:"seed,omitempty" jsonschema:"seed for a reproducible run"`
}

// simulationSummary is the tool output: everything but the per-trial data.
type simulationSummary struct {
	RunID       string                   `json:"runId"`
	Ticker      string                   `json:"ticker,omitempty"`
	Seed        uint64                   `json:"seed"`
	Warnings    []string                 `json:"warnings"`
	InputParams simentity.Params         `json:"inputParams"`
	Summary     simentity.Summary        `json:"summary"`
	Scenarios   simentity.ScenarioMatrix `json:"scenarios"`
	Sensitivity simentity.Sensitivity    `json:"sensitivity"`
}

// New creates an MCP server with the get_stock and run_simulation tools.
func New(stocks StockProvider, sims Simulator, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "stock-forecast", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_stock",
		Description: "Fetch price, EPS and P/E history for a ticker together with the fitted growth and P/E distributions.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in GetStockInput) (*mcp.CallToolResult, any, error) {
		a, err := stocks.GetStock(ctx, in.Ticker)
		if err != nil {
			slog.Warn("mcp get_stock failed", "ticker", in.Ticker, "error", err)
			return nil, nil, err
		}
		return textResult(map[string]any{
			"stock":              a.Stock,
			"growthDistribution": a.Growth,
			"peDistribution":     a.PE,
		})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_simulation",
		Description: "Run a Monte Carlo simulation of the stock price over a horizon and return percentiles, scenarios and sensitivity.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in RunSimulationInput) (*mcp.CallToolResult, any, error) {
		out, err := sims.Simulate(ctx, simusecase.Request{
			Ticker:         in.Ticker,
			Price0:         in.Price0,
			EPS0:           in.EPS0,
			Years:          in.Years,
			NumSimulations: in.NumSimulations,
			FDRate:         in.FDRate,
			MeanGrowth:     in.MeanGrowth,
			SigmaGrowth:    in.SigmaGrowth,
			MeanPE:         in.MeanPE,
			SigmaPE:        in.SigmaPE,
			Seed:           in.Seed,
		})
		if err != nil {
			slog.Warn("mcp run_simulation failed", "ticker", in.Ticker, "error", err)
			return nil, nil, err
		}
		warnings := out.Warnings
		if warnings == nil {
			warnings = []string{}
		}
		return textResult(simulationSummary{
			RunID:       out.RunID.String(),
			Ticker:      out.Ticker,
			Seed:        out.Result.Seed,
			Warnings:    warnings,
			InputParams: out.Result.InputParams,
			Summary:     out.Result.Summary,
			Scenarios:   out.Result.Scenarios,
			Sensitivity: out.Result.Sensitivity,
		})
	})

	return server
}

func textResult(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode tool result: %w", err)
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(b)}}}, nil, nil
}
