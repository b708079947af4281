package dto

import "encoding/json"

// TimeseriesResponse is the body of /ws/fundamentals-timeseries/v1/finance/timeseries/{symbol}.
// Each result element holds one requested type under a key named after it.
type TimeseriesResponse struct {
	Timeseries struct {
		Result []json.RawMessage `json:"result"`
		Error  *Error            `json:"error"`
	} `json:"timeseries"`
}

// TimeseriesMeta identifies the type of a result element.
type TimeseriesMeta struct {
	Meta struct {
		Symbol []string `json:"symbol"`
		Type   []string `json:"type"`
	} `json:"meta"`
}

// TimeseriesPoint is one observation. Missing periods are JSON null.
type TimeseriesPoint struct {
	AsOfDate      string `json:"asOfDate"`
	PeriodType    string `json:"periodType"`
	ReportedValue Value  `json:"reportedValue"`
}
