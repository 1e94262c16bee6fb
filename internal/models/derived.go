package models

// ValuationSignal classifies the upside of a fair-value estimate.
type ValuationSignal string

const (
	SignalOpportunity ValuationSignal = "opportunity" // upside > 20%
	SignalCaution     ValuationSignal = "caution"     // upside < -20%
	SignalNeutral     ValuationSignal = "neutral"
)

// DerivedValuation is the Graham fair-value estimate for one stock.
// Valid is false whenever price, P/E or P/B is missing or non-positive;
// callers must render an explicit "insufficient data" state in that case.
type DerivedValuation struct {
	FairValue float64         `json:"fair_value,omitempty"`
	UpsidePct float64         `json:"upside_pct,omitempty"`
	Signal    ValuationSignal `json:"signal,omitempty"`
	Valid     bool            `json:"valid"`
}

// RiskLevel grades the toxicity of a stock.
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical" // risk score >= 6
	RiskHigh     RiskLevel = "high"     // risk score >= 4
	RiskMedium   RiskLevel = "medium"
)

// ToxicityAssessment is the rule-based risk read of one StockRecord.
// Reasons keeps at most the first three triggered rules, in rule order.
type ToxicityAssessment struct {
	RiskLevel           RiskLevel `json:"risk_level"`
	Reasons             []string  `json:"reasons"`
	TurnaroundPotential bool      `json:"turnaround_potential"`
	ShortCandidate      bool      `json:"short_candidate"`
}

// Winner identifies which side of a comparison took a metric.
type Winner string

const (
	WinnerA    Winner = "a"
	WinnerB    Winner = "b"
	WinnerTie  Winner = "tie"
	WinnerNone Winner = "" // metric missing on either side, excluded from tally
)

// MetricComparison is the outcome for a single metric in a head-to-head.
type MetricComparison struct {
	Metric         MetricKey `json:"metric"`
	Label          string    `json:"label"`
	HigherIsBetter bool      `json:"higher_is_better"`
	ValueA         *float64  `json:"value_a,omitempty"`
	ValueB         *float64  `json:"value_b,omitempty"`
	Winner         Winner    `json:"winner,omitempty"`
}

// Comparison is the full head-to-head result between two stocks.
type Comparison struct {
	TickerA       string             `json:"ticker_a"`
	TickerB       string             `json:"ticker_b"`
	Metrics       []MetricComparison `json:"metrics"`
	WinsA         int                `json:"wins_a"`
	WinsB         int                `json:"wins_b"`
	OverallWinner Winner             `json:"overall_winner"`
}
