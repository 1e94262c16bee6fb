// Package models defines data structures for Vista
package models

// StockRecord is one ranked entry as served by the remote stock API.
// All numeric fundamentals are optional: the upstream feed serialises an
// absent metric as 0, and the client normalises that back to nil so a
// missing value can never be mistaken for a real zero downstream.
type StockRecord struct {
	Ticker    string `json:"papel"`
	Sector    string `json:"setor,omitempty"`
	Subsector string `json:"subsetor,omitempty"`

	Price            *float64 `json:"cotacao,omitempty"`
	PriceToEarnings  *float64 `json:"p_l,omitempty"`
	PriceToBook      *float64 `json:"p_vp,omitempty"`
	DividendYield    *float64 `json:"dividend_yield,omitempty"`
	ReturnOnEquity   *float64 `json:"roe,omitempty"`
	ReturnOnCapital  *float64 `json:"roic,omitempty"`
	NetMargin        *float64 `json:"margem_liquida,omitempty"`
	CurrentLiquidity *float64 `json:"liquidez_corrente,omitempty"`
	DebtToEquity     *float64 `json:"div_bruta_patrimonio,omitempty"`

	ScoreGraham     *float64 `json:"score_graham,omitempty"`
	ScoreGreenblatt *float64 `json:"score_greenblatt,omitempty"`
	ScoreBazin      *float64 `json:"score_bazin,omitempty"`
	ScoreQuality    *float64 `json:"score_qualidade,omitempty"`

	// SuperScore is computed by the backend; this layer only reads it.
	SuperScore *float64 `json:"super_score,omitempty"`
}

// MetricKey identifies one comparable metric on a StockRecord.
type MetricKey string

const (
	MetricSuperScore       MetricKey = "super_score"
	MetricScoreGraham      MetricKey = "score_graham"
	MetricScoreGreenblatt  MetricKey = "score_greenblatt"
	MetricScoreBazin       MetricKey = "score_bazin"
	MetricScoreQuality     MetricKey = "score_qualidade"
	MetricPrice            MetricKey = "cotacao"
	MetricPriceToEarnings  MetricKey = "p_l"
	MetricPriceToBook      MetricKey = "p_vp"
	MetricDividendYield    MetricKey = "dividend_yield"
	MetricReturnOnEquity   MetricKey = "roe"
	MetricReturnOnCapital  MetricKey = "roic"
	MetricNetMargin        MetricKey = "margem_liquida"
	MetricCurrentLiquidity MetricKey = "liquidez_corrente"
	MetricDebtToEquity     MetricKey = "div_bruta_patrimonio"
)

// Metric returns the value for the given key and whether it is present.
func (s *StockRecord) Metric(key MetricKey) (float64, bool) {
	var v *float64
	switch key {
	case MetricSuperScore:
		v = s.SuperScore
	case MetricScoreGraham:
		v = s.ScoreGraham
	case MetricScoreGreenblatt:
		v = s.ScoreGreenblatt
	case MetricScoreBazin:
		v = s.ScoreBazin
	case MetricScoreQuality:
		v = s.ScoreQuality
	case MetricPrice:
		v = s.Price
	case MetricPriceToEarnings:
		v = s.PriceToEarnings
	case MetricPriceToBook:
		v = s.PriceToBook
	case MetricDividendYield:
		v = s.DividendYield
	case MetricReturnOnEquity:
		v = s.ReturnOnEquity
	case MetricReturnOnCapital:
		v = s.ReturnOnCapital
	case MetricNetMargin:
		v = s.NetMargin
	case MetricCurrentLiquidity:
		v = s.CurrentLiquidity
	case MetricDebtToEquity:
		v = s.DebtToEquity
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// DashboardStats is the aggregate summary from GET /stats.
type DashboardStats struct {
	TotalStocks   int     `json:"total_stocks"`
	AvgSuperScore float64 `json:"avg_super_score"`
	TopStock      string  `json:"top_stock"`
	TopScore      float64 `json:"top_score"`
	SectorsCount  int     `json:"sectors_count"`
}

// ScoreBand classifies a super score for badge display.
type ScoreBand string

const (
	ScoreBandHigh   ScoreBand = "high"   // >= 12
	ScoreBandMedium ScoreBand = "medium" // >= 8
	ScoreBandLow    ScoreBand = "low"
)

// BandForScore maps a super score onto its display band.
func BandForScore(score float64) ScoreBand {
	switch {
	case score >= 12:
		return ScoreBandHigh
	case score >= 8:
		return ScoreBandMedium
	default:
		return ScoreBandLow
	}
}

// Float returns a pointer to v. Convenience for building records.
func Float(v float64) *float64 {
	return &v
}
