// Package dto defines the Yahoo Finance wire formats.
package dto

// Value is Yahoo's formatted number. Raw is nil when the field is empty.
type Value struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

// Float returns Raw or 0.
func (v Value) Float() float64 {
	if v.Raw == nil {
		return 0
	}
	return *v.Raw
}

// Error is the error object embedded in Yahoo responses.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// QuoteSummaryResponse is the body of /v10/finance/quoteSummary/{symbol}.
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []QuoteSummaryResult `json:"result"`
		Error  *Error               `json:"error"`
	} `json:"quoteSummary"`
}

// QuoteSummaryResult carries the price, summaryDetail and defaultKeyStatistics modules.
type QuoteSummaryResult struct {
	Price struct {
		Symbol             string `json:"symbol"`
		ShortName          string `json:"shortName"`
		LongName           string `json:"longName"`
		Currency           string `json:"currency"`
		RegularMarketPrice Value  `json:"regularMarketPrice"`
	} `json:"price"`
	SummaryDetail struct {
		TrailingPE Value `json:"trailingPE"`
	} `json:"summaryDetail"`
	DefaultKeyStatistics struct {
		TrailingEps Value `json:"trailingEps"`
	} `json:"defaultKeyStatistics"`
}
