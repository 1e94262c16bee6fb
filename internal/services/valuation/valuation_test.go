package valuation

import (
	"math"
	"testing"

	"github.com/norteacoes/vista/internal/models"
)

func TestEstimate_Opportunity(t *testing.T) {
	got := Estimate(30, 8, 1.2)
	if !got.Valid {
		t.Fatal("expected valid estimate")
	}

	want := 30 * math.Sqrt(22.5/(8*1.2))
	if math.Abs(got.FairValue-want) > 1e-9 {
		t.Errorf("fair value = %v, want %v", got.FairValue, want)
	}
	// ~45.93 fair value on a 30.00 price is ~53.1% upside.
	if math.Abs(got.UpsidePct-53.09) > 0.1 {
		t.Errorf("upside = %v, want ~53.1", got.UpsidePct)
	}
	if got.Signal != models.SignalOpportunity {
		t.Errorf("signal = %s, want opportunity", got.Signal)
	}
}

func TestEstimate_Caution(t *testing.T) {
	// Expensive on both multiples: fair value far below price.
	got := Estimate(100, 40, 8)
	if !got.Valid {
		t.Fatal("expected valid estimate")
	}
	if got.UpsidePct >= -20 {
		t.Fatalf("upside = %v, want < -20", got.UpsidePct)
	}
	if got.Signal != models.SignalCaution {
		t.Errorf("signal = %s, want caution", got.Signal)
	}
}

func TestEstimate_NeutralBand(t *testing.T) {
	// pe*pb = 22.5 makes fair value equal to price: 0% upside.
	got := Estimate(30, 15, 1.5)
	if !got.Valid {
		t.Fatal("expected valid estimate")
	}
	if math.Abs(got.UpsidePct) > 1e-9 {
		t.Errorf("upside = %v, want 0", got.UpsidePct)
	}
	if got.Signal != models.SignalNeutral {
		t.Errorf("signal = %s, want neutral", got.Signal)
	}
}

func TestEstimate_InvalidInputs(t *testing.T) {
	cases := []struct {
		name          string
		price, pe, pb float64
	}{
		{"zero price", 0, 8, 1.2},
		{"negative pe", 30, -5, 1.2},
		{"zero pb", 30, 8, 0},
		{"all zero", 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Estimate(tc.price, tc.pe, tc.pb)
			if got.Valid {
				t.Error("expected invalid estimate")
			}
			if got.FairValue != 0 || got.Signal != "" {
				t.Errorf("invalid estimate should be zero-valued, got %+v", got)
			}
		})
	}
}

func TestEstimateStock_MissingMetrics(t *testing.T) {
	stock := &models.StockRecord{
		Ticker: "VALE3",
		Price:  models.Float(60),
		// P/E and P/B absent.
	}
	got := EstimateStock(stock)
	if got.Valid {
		t.Error("expected invalid estimate when multiples are missing")
	}
}

func TestEstimateStock_Deterministic(t *testing.T) {
	stock := &models.StockRecord{
		Ticker:          "PETR4",
		Price:           models.Float(38.5),
		PriceToEarnings: models.Float(4.2),
		PriceToBook:     models.Float(1.1),
	}
	first := EstimateStock(stock)
	second := EstimateStock(stock)
	if first != second {
		t.Errorf("estimate not deterministic: %+v vs %+v", first, second)
	}
}
