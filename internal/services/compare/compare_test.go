package compare

import (
	"testing"

	"github.com/norteacoes/vista/internal/models"
)

func fullRecord(ticker string, base float64) *models.StockRecord {
	return &models.StockRecord{
		Ticker:           ticker,
		Price:            models.Float(base),
		PriceToEarnings:  models.Float(base / 4),
		PriceToBook:      models.Float(base / 20),
		DividendYield:    models.Float(base / 5),
		ReturnOnEquity:   models.Float(base),
		ReturnOnCapital:  models.Float(base - 2),
		NetMargin:        models.Float(base / 2),
		CurrentLiquidity: models.Float(base / 10),
		DebtToEquity:     models.Float(base / 15),
		ScoreGraham:      models.Float(base / 3),
		ScoreGreenblatt:  models.Float(base / 3),
		ScoreBazin:       models.Float(base / 3),
		ScoreQuality:     models.Float(base / 3),
		SuperScore:       models.Float(base / 2),
	}
}

func TestCompare_FixedMetricOrder(t *testing.T) {
	result := Compare(fullRecord("A", 20), fullRecord("B", 10))

	if len(result.Metrics) != 14 {
		t.Fatalf("metrics = %d, want 14", len(result.Metrics))
	}
	if result.Metrics[0].Metric != models.MetricSuperScore {
		t.Errorf("first metric = %s, want super_score", result.Metrics[0].Metric)
	}
	if result.Metrics[13].Metric != models.MetricDebtToEquity {
		t.Errorf("last metric = %s, want div_bruta_patrimonio", result.Metrics[13].Metric)
	}
}

func TestCompare_Directionality(t *testing.T) {
	// A has the higher numbers everywhere: it wins every higher-is-better
	// metric and loses every lower-is-better one.
	result := Compare(fullRecord("A", 20), fullRecord("B", 10))

	for _, mc := range result.Metrics {
		want := models.WinnerA
		if !mc.HigherIsBetter {
			want = models.WinnerB
		}
		if mc.Winner != want {
			t.Errorf("%s winner = %q, want %q", mc.Label, mc.Winner, want)
		}
	}

	// 10 higher-is-better vs 4 lower-is-better.
	if result.WinsA != 10 || result.WinsB != 4 {
		t.Errorf("tally = %d/%d, want 10/4", result.WinsA, result.WinsB)
	}
	if result.OverallWinner != models.WinnerA {
		t.Errorf("overall = %q, want a", result.OverallWinner)
	}
}

func TestCompare_IdenticalRecordsTie(t *testing.T) {
	result := Compare(fullRecord("A", 10), fullRecord("B", 10))
	if result.WinsA != 0 || result.WinsB != 0 {
		t.Errorf("tally = %d/%d, want 0/0", result.WinsA, result.WinsB)
	}
	if result.OverallWinner != models.WinnerTie {
		t.Errorf("overall = %q, want tie", result.OverallWinner)
	}
}

func TestCompare_MissingMetricExcluded(t *testing.T) {
	a := &models.StockRecord{Ticker: "A", SuperScore: models.Float(12)}
	b := &models.StockRecord{Ticker: "B", SuperScore: models.Float(9), Price: models.Float(30)}

	result := Compare(a, b)

	// Only super_score is present on both sides.
	if result.WinsA != 1 || result.WinsB != 0 {
		t.Errorf("tally = %d/%d, want 1/0", result.WinsA, result.WinsB)
	}

	for _, mc := range result.Metrics {
		if mc.Metric == models.MetricPrice {
			if mc.Winner != models.WinnerNone {
				t.Errorf("one-sided price metric has winner %q, want none", mc.Winner)
			}
			if mc.ValueA != nil || mc.ValueB == nil {
				t.Error("price values should reflect exactly what is present")
			}
		}
	}
}

func TestCompare_NoDataIsTie(t *testing.T) {
	result := Compare(&models.StockRecord{Ticker: "A"}, &models.StockRecord{Ticker: "B"})
	if result.OverallWinner != models.WinnerTie {
		t.Errorf("overall = %q, want tie for two empty records", result.OverallWinner)
	}
}
