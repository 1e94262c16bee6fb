// Package compare runs head-to-head metric battles between two stocks.
package compare

import (
	"github.com/norteacoes/vista/internal/models"
)

type metricSpec struct {
	key            models.MetricKey
	label          string
	higherIsBetter bool
}

// battleMetrics is the fixed, ordered metric list. Order is part of the
// contract: scores first, then valuation, then yield/profitability,
// then balance-sheet health.
var battleMetrics = []metricSpec{
	{models.MetricSuperScore, "Super Score", true},
	{models.MetricScoreGraham, "Graham Score", true},
	{models.MetricScoreGreenblatt, "Greenblatt Score", true},
	{models.MetricScoreBazin, "Bazin Score", true},
	{models.MetricScoreQuality, "Quality Score", true},
	{models.MetricPrice, "Price", false},
	{models.MetricPriceToEarnings, "P/E", false},
	{models.MetricPriceToBook, "P/B", false},
	{models.MetricDividendYield, "Dividend Yield", true},
	{models.MetricReturnOnEquity, "ROE", true},
	{models.MetricReturnOnCapital, "ROIC", true},
	{models.MetricNetMargin, "Net Margin", true},
	{models.MetricCurrentLiquidity, "Current Liquidity", true},
	{models.MetricDebtToEquity, "Debt/Equity", false},
}

func metricWinner(a, b float64, higherIsBetter bool) models.Winner {
	if a == b {
		return models.WinnerTie
	}
	if (a > b) == higherIsBetter {
		return models.WinnerA
	}
	return models.WinnerB
}

// Compare scores two stocks across the fixed metric list. A metric
// missing on either side is reported without a winner and excluded
// from the tally. The overall winner needs a strict majority of metric
// wins; anything else, including two records with no data at all,
// is a tie.
func Compare(a, b *models.StockRecord) models.Comparison {
	result := models.Comparison{
		TickerA: a.Ticker,
		TickerB: b.Ticker,
		Metrics: make([]models.MetricComparison, 0, len(battleMetrics)),
	}

	for _, spec := range battleMetrics {
		mc := models.MetricComparison{
			Metric:         spec.key,
			Label:          spec.label,
			HigherIsBetter: spec.higherIsBetter,
		}

		va, okA := a.Metric(spec.key)
		vb, okB := b.Metric(spec.key)
		if okA {
			mc.ValueA = models.Float(va)
		}
		if okB {
			mc.ValueB = models.Float(vb)
		}

		if okA && okB {
			mc.Winner = metricWinner(va, vb, spec.higherIsBetter)
			switch mc.Winner {
			case models.WinnerA:
				result.WinsA++
			case models.WinnerB:
				result.WinsB++
			}
		}

		result.Metrics = append(result.Metrics, mc)
	}

	switch {
	case result.WinsA > result.WinsB:
		result.OverallWinner = models.WinnerA
	case result.WinsB > result.WinsA:
		result.OverallWinner = models.WinnerB
	default:
		result.OverallWinner = models.WinnerTie
	}

	return result
}
