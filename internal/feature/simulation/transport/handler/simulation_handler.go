// Package handler provides HTTP handlers for the simulation feature.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_forecast/internal/api"
	"stock_forecast/internal/feature/simulation/transport/csvexport"
	"stock_forecast/internal/feature/simulation/transport/http/dto"
	"stock_forecast/internal/feature/simulation/usecase"
)

// SimulationUsecase runs simulation requests.
// Following Go convention, interfaces are defined by the consumer (handler), not the provider (usecase).
type SimulationUsecase interface {
	Simulate(ctx context.Context, req usecase.Request) (*usecase.Outcome, error)
}

// SimulationHandler handles simulation HTTP requests.
type SimulationHandler struct {
	uc SimulationUsecase
}

// NewSimulationHandler creates a SimulationHandler.
func NewSimulationHandler(uc SimulationUsecase) *SimulationHandler {
	return &SimulationHandler{uc: uc}
}

// Simulate handles POST /simulate.
//   - invalid JSON or binding failure: 400
//   - usecase errors are mapped by api.StatusFor
//   - success: 200 with the full result
func (h *SimulationHandler) Simulate(c *gin.Context) {
	out, ok := h.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewSimulateResponse(out))
}

// SimulateCSV handles POST /simulate/csv and streams every trial as CSV.
func (h *SimulationHandler) SimulateCSV(c *gin.Context) {
	out, ok := h.run(c)
	if !ok {
		return
	}

	c.Header("Content-Type", csvexport.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, CSVFileName(out)))
	c.Status(http.StatusOK)
	if err := csvexport.Write(c.Writer, out.Result.Trials); err != nil {
		// Headers are already sent.
		slog.Error("csv export failed", "run_id", out.RunID, "error", err)
	}
}

// CSVFileName returns simulation-<ticker|custom>-<runId>.csv.
func CSVFileName(out *usecase.Outcome) string {
	name := "custom"
	if out.Ticker != "" {
		name = out.Ticker
	}
	return fmt.Sprintf("simulation-%s-%s.csv", name, out.RunID)
}

func (h *SimulationHandler) run(c *gin.Context) (*usecase.Outcome, bool) {
	var req dto.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("simulate validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return nil, false
	}

	out, err := h.uc.Simulate(c.Request.Context(), req.ToUsecase())
	if err != nil {
		status := api.StatusFor(err)
		slog.Warn("simulation failed", "error", err, "status", status, "ticker", req.Ticker)
		c.JSON(status, api.NewErrorResponse(status, err))
		return nil, false
	}
	return out, true
}
