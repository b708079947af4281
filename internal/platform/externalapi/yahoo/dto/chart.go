package dto

// ChartResponse is the body of /v8/finance/chart/{symbol}.
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *Error        `json:"error"`
	} `json:"chart"`
}

// ChartResult is one symbol's candles. Close entries are null for gaps.
type ChartResult struct {
	Meta struct {
		Currency           string  `json:"currency"`
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}
