// Package csvexport projects simulation trials to CSV.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"stock_forecast/internal/feature/simulation/domain/entity"
)

// Header is the fixed CSV column order.
var Header = []string{
	"SimulationIndex",
	"GrowthRate",
	"TerminalPE",
	"TerminalEPS",
	"TerminalPrice",
	"CAGR",
	"BeatsFD",
	"IsLoss",
}

// ContentType is the MIME type of the export.
const ContentType = "text/csv; charset=utf-8"

// Write emits the header and one row per trial. SimulationIndex is 1-based.
func Write(w io.Writer, trials []entity.Trial) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(Header))
	for i, t := range trials {
		row[0] = strconv.Itoa(i + 1)
		row[1] = strconv.FormatFloat(t.G, 'f', 6, 64)
		row[2] = strconv.FormatFloat(t.PET, 'f', 2, 64)
		row[3] = strconv.FormatFloat(t.EPST, 'f', 4, 64)
		row[4] = strconv.FormatFloat(t.PriceT, 'f', 2, 64)
		row[5] = strconv.FormatFloat(t.CAGR, 'f', 6, 64)
		row[6] = strconv.FormatBool(t.BeatsFD)
		row[7] = strconv.FormatBool(t.IsLoss)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
