package entity

// Trial is the outcome of one simulated path.
type Trial struct {
	G       float64 `json:"g"`      // Sampled annual growth rate
	PET     float64 `json:"peT"`    // Sampled terminal P/E
	EPST    float64 `json:"epsT"`   // Terminal EPS
	PriceT  float64 `json:"priceT"` // Terminal price
	CAGR    float64 `json:"cagr"`
	BeatsFD bool    `json:"beatsFD"` // Terminal price exceeds the fixed-deposit target
	IsLoss  bool    `json:"isLoss"`  // Terminal price below the starting price
}

// SeriesSummary holds the percentile profile of one output series.
type SeriesSummary struct {
	P10  float64 `json:"p10"`
	P25  float64 `json:"p25"`
	P50  float64 `json:"p50"`
	P75  float64 `json:"p75"`
	P90  float64 `json:"p90"`
	Mean float64 `json:"mean"`
}

// Summary aggregates all trials.
type Summary struct {
	Price          SeriesSummary `json:"price"`
	CAGR           SeriesSummary `json:"cagr"`
	ProbBeatsFD    float64       `json:"probBeatsFD"`
	ProbLoss       float64       `json:"probLoss"`
	FDTarget       float64       `json:"fdTarget"` // price0 * (1+fdRate)^years
	FDRate         float64       `json:"fdRate"`
	Years          int           `json:"years"`
	NumSimulations int           `json:"numSimulations"`
}

// Quartiles are the 25th, 50th and 75th percentiles of a series.
type Quartiles struct {
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
}

// Scenario is one deterministic (growth, P/E) combination.
type Scenario struct {
	GrowthLabel string  `json:"growthLabel"`
	PELabel     string  `json:"peLabel"`
	Growth      float64 `json:"growth"`
	PE          float64 `json:"pe"`
	EPST        float64 `json:"epsT"`
	PriceT      float64 `json:"priceT"`
	CAGR        float64 `json:"cagr"`
}

// ScenarioMatrix is the 3x3 grid of growth and P/E quartiles, growth-major.
type ScenarioMatrix struct {
	GrowthPercentiles Quartiles  `json:"growthPercentiles"`
	PEPercentiles     Quartiles  `json:"pePercentiles"`
	Matrix            []Scenario `json:"matrix"`
}

// Sensitivity splits terminal log-price variance between growth and P/E.
type Sensitivity struct {
	GrowthContribution float64 `json:"growthContribution"` // Fraction, 0..1
	PEContribution     float64 `json:"peContribution"`     // Fraction, 0..1
	VarianceFromGrowth float64 `json:"varianceFromGrowth"`
	VarianceFromPE     float64 `json:"varianceFromPE"`
	MedianGrowth       float64 `json:"medianGrowth"`
	MedianPE           float64 `json:"medianPE"`
}

// HistogramBin is one equal-width bucket of a histogram.
type HistogramBin struct {
	BinStart  float64 `json:"binStart"`
	BinEnd    float64 `json:"binEnd"`
	BinMid    float64 `json:"binMid"`
	Count     int     `json:"count"`
	Frequency float64 `json:"frequency"` // Count divided by total
}

// Distributions holds the histograms of the main output series.
type Distributions struct {
	Price  []HistogramBin `json:"price"`
	CAGR   []HistogramBin `json:"cagr"`
	Growth []HistogramBin `json:"growth"`
	PE     []HistogramBin `json:"pe"`
}

// Result is the immutable output of one simulation run.
type Result struct {
	Summary        Summary        `json:"summary"`
	Scenarios      ScenarioMatrix `json:"scenarios"`
	Sensitivity    Sensitivity    `json:"sensitivity"`
	Distributions  Distributions  `json:"distributions"`
	InputParams    Params         `json:"inputParams"`
	SampledResults []Trial        `json:"sampledResults"` // At most ~2000 evenly strided trials
	Seed           uint64         `json:"seed"`           // Replays the run with RunSeeded

	// Trials is the full ordered trial set, used for CSV export.
	Trials []Trial `json:"-"`
}
