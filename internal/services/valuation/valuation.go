// Package valuation computes Graham fair-value estimates from price ratios.
package valuation

import (
	"math"

	"github.com/norteacoes/vista/internal/models"
)

// grahamProduct is Graham's maximum acceptable P/E (15) times P/B (1.5).
const grahamProduct = 22.5

// Signal classification thresholds for the upside percentage.
const (
	opportunityThreshold = 20.0
	cautionThreshold     = -20.0
)

// Estimate computes the fair value and upside for the given price and
// ratios. The estimate is only valid when all three inputs are positive;
// a non-positive ratio makes the formula undefined and yields Valid=false
// rather than an error; loss-making companies are a normal input.
func Estimate(price, peRatio, pbRatio float64) models.DerivedValuation {
	if price <= 0 || peRatio <= 0 || pbRatio <= 0 {
		return models.DerivedValuation{Valid: false}
	}

	fairValue := price * math.Sqrt(grahamProduct/(peRatio*pbRatio))
	upsidePct := (fairValue - price) / price * 100

	return models.DerivedValuation{
		FairValue: fairValue,
		UpsidePct: upsidePct,
		Signal:    classify(upsidePct),
		Valid:     true,
	}
}

// EstimateStock computes the fair value for a stock record, treating any
// missing input as insufficient data.
func EstimateStock(stock *models.StockRecord) models.DerivedValuation {
	if stock == nil || stock.Price == nil || stock.PriceToEarnings == nil || stock.PriceToBook == nil {
		return models.DerivedValuation{Valid: false}
	}
	return Estimate(*stock.Price, *stock.PriceToEarnings, *stock.PriceToBook)
}

func classify(upsidePct float64) models.ValuationSignal {
	switch {
	case upsidePct > opportunityThreshold:
		return models.SignalOpportunity
	case upsidePct < cautionThreshold:
		return models.SignalCaution
	default:
		return models.SignalNeutral
	}
}
