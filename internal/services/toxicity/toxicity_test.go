package toxicity

import (
	"reflect"
	"testing"

	"github.com/norteacoes/vista/internal/models"
)

func TestClassify_CriticalWithCappedReasons(t *testing.T) {
	stock := &models.StockRecord{
		Ticker:          "OIBR3",
		PriceToEarnings: models.Float(-5),
		ReturnOnEquity:  models.Float(-12),
		NetMargin:       models.Float(-3),
		DebtToEquity:    models.Float(0.5),
		SuperScore:      models.Float(6),
	}

	got := Classify(stock)

	// 3 + 3 + 2 + 1 = 9 risk points.
	if got.RiskLevel != models.RiskCritical {
		t.Errorf("risk level = %s, want critical", got.RiskLevel)
	}

	want := []string{"negative P/E (loss-making)", "negative ROE", "negative net margin"}
	if !reflect.DeepEqual(got.Reasons, want) {
		t.Errorf("reasons = %v, want %v", got.Reasons, want)
	}

	if !got.ShortCandidate {
		t.Error("critical risk with ROE < -10 should be a short candidate")
	}
	if got.TurnaroundPotential {
		t.Error("no positive signals, should not flag turnaround")
	}
}

func TestClassify_HighRisk(t *testing.T) {
	stock := &models.StockRecord{
		Ticker:          "AZUL4",
		PriceToEarnings: models.Float(120),
		ReturnOnEquity:  models.Float(3),
		DebtToEquity:    models.Float(2.5),
		SuperScore:      models.Float(11),
	}

	got := Classify(stock)

	// 2 + 1 + 2 = 5 points: high, not critical.
	if got.RiskLevel != models.RiskHigh {
		t.Errorf("risk level = %s, want high", got.RiskLevel)
	}
	// P/E above 50 alone makes a short candidate.
	if !got.ShortCandidate {
		t.Error("P/E > 50 should be a short candidate")
	}
}

func TestClassify_MissingMetricsContributeNothing(t *testing.T) {
	got := Classify(&models.StockRecord{Ticker: "EMPTY"})
	if got.RiskLevel != models.RiskMedium {
		t.Errorf("risk level = %s, want medium", got.RiskLevel)
	}
	if len(got.Reasons) != 0 {
		t.Errorf("reasons = %v, want none", got.Reasons)
	}
	if got.ShortCandidate || got.TurnaroundPotential {
		t.Error("empty record should carry no flags")
	}
}

func TestClassify_TurnaroundSignals(t *testing.T) {
	stock := &models.StockRecord{
		Ticker:         "CPLE6",
		ReturnOnEquity: models.Float(-2),
		DividendYield:  models.Float(7),
		PriceToBook:    models.Float(0.8),
	}
	got := Classify(stock)
	if !got.TurnaroundPotential {
		t.Error("DY > 5 and P/B < 1 should flag turnaround potential")
	}
}

func TestClassify_LowSuperScoreNoReason(t *testing.T) {
	// Super score below 10 raises the score but never appears as a reason.
	stock := &models.StockRecord{
		Ticker:         "WEAK3",
		ReturnOnEquity: models.Float(-1),
		NetMargin:      models.Float(-1),
		SuperScore:     models.Float(4),
	}
	got := Classify(stock)
	// 3 + 2 + 1 = 6 points.
	if got.RiskLevel != models.RiskCritical {
		t.Errorf("risk level = %s, want critical", got.RiskLevel)
	}
	for _, r := range got.Reasons {
		if r == "low super score" {
			t.Error("super score rule must not produce a reason")
		}
	}
	if len(got.Reasons) != 2 {
		t.Errorf("reasons = %v, want exactly the ROE and margin rules", got.Reasons)
	}
}

func toxicUniverse() []*models.StockRecord {
	return []*models.StockRecord{
		{Ticker: "BAD1", PriceToEarnings: models.Float(-1), ReturnOnEquity: models.Float(-20), NetMargin: models.Float(-5)},
		{Ticker: "BAD2", PriceToEarnings: models.Float(-1), ReturnOnEquity: models.Float(-20), NetMargin: models.Float(-5)},
		{Ticker: "BAD3", PriceToEarnings: models.Float(-1), ReturnOnEquity: models.Float(-20), NetMargin: models.Float(-5)},
		{Ticker: "BAD4", PriceToEarnings: models.Float(-1), ReturnOnEquity: models.Float(-20), NetMargin: models.Float(-5)},
		{Ticker: "MEH1", ReturnOnEquity: models.Float(3), DividendYield: models.Float(6)},
	}
}

func TestFilter_FreeTierCap(t *testing.T) {
	assessed := Assess(toxicUniverse())

	free := Filter(assessed, CategoryAvoid, false)
	if len(free) != 3 {
		t.Errorf("free tier sees %d rows, want 3", len(free))
	}

	premium := Filter(assessed, CategoryAvoid, true)
	if len(premium) != 4 {
		t.Errorf("premium sees %d rows, want 4", len(premium))
	}
}

func TestFilter_Categories(t *testing.T) {
	assessed := Assess(toxicUniverse())

	if got := Filter(assessed, CategoryAll, true); len(got) != 5 {
		t.Errorf("all = %d rows, want 5", len(got))
	}
	if got := Filter(assessed, CategoryShort, true); len(got) != 4 {
		t.Errorf("short = %d rows, want 4", len(got))
	}
	if got := Filter(assessed, CategoryTurnaround, true); len(got) != 1 {
		t.Errorf("turnaround = %d rows, want 1", len(got))
	}
}

func TestCounts(t *testing.T) {
	counts := Counts(Assess(toxicUniverse()))
	if counts[CategoryAll] != 5 {
		t.Errorf("all count = %d, want 5", counts[CategoryAll])
	}
	if counts[CategoryAvoid] != 4 {
		t.Errorf("avoid count = %d, want 4", counts[CategoryAvoid])
	}
	if counts[CategoryTurnaround] != 1 {
		t.Errorf("turnaround count = %d, want 1", counts[CategoryTurnaround])
	}
}
