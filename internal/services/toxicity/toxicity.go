// Package toxicity grades stocks against a fixed fundamental-risk rule set.
package toxicity

import (
	"github.com/norteacoes/vista/internal/models"
)

// maxReasons caps how many triggered rules are reported per stock.
const maxReasons = 3

// freeVisibleLimit is how many toxic rows a free-tier user may see.
const freeVisibleLimit = 3

// Classify evaluates the fixed rule table against one stock record.
// Rules fire independently; a missing metric contributes nothing. The
// reason list keeps the first three triggers in rule order; leverage
// and profitability signals are evaluated before secondary ones.
func Classify(stock *models.StockRecord) models.ToxicityAssessment {
	var reasons []string
	riskScore := 0
	positiveSignals := 0

	if pe := stock.PriceToEarnings; pe != nil {
		if *pe < 0 {
			reasons = append(reasons, "negative P/E (loss-making)")
			riskScore += 3
		} else if *pe > 100 {
			reasons = append(reasons, "extremely high P/E")
			riskScore += 2
		}
	}

	if roe := stock.ReturnOnEquity; roe != nil {
		if *roe < 0 {
			reasons = append(reasons, "negative ROE")
			riskScore += 3
		} else if *roe < 5 {
			reasons = append(reasons, "low ROE")
			riskScore++
		}
	}

	if roic := stock.ReturnOnCapital; roic != nil && *roic < 0 {
		reasons = append(reasons, "negative ROIC")
		riskScore += 2
	}

	if margin := stock.NetMargin; margin != nil && *margin < 0 {
		reasons = append(reasons, "negative net margin")
		riskScore += 2
	}

	if debt := stock.DebtToEquity; debt != nil && *debt > 2 {
		reasons = append(reasons, "high leverage")
		riskScore += 2
	}

	// Contributes to the score but not the reason list.
	if score := stock.SuperScore; score != nil && *score < 10 {
		riskScore++
	}

	if dy := stock.DividendYield; dy != nil && *dy > 5 {
		positiveSignals++
	}
	if pb := stock.PriceToBook; pb != nil && *pb < 1 {
		positiveSignals++
	}

	riskLevel := models.RiskMedium
	if riskScore >= 6 {
		riskLevel = models.RiskCritical
	} else if riskScore >= 4 {
		riskLevel = models.RiskHigh
	}

	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}

	shortCandidate := riskLevel == models.RiskCritical
	if pe := stock.PriceToEarnings; pe != nil && *pe > 50 {
		shortCandidate = true
	}
	if roe := stock.ReturnOnEquity; roe != nil && *roe < -10 {
		shortCandidate = true
	}

	return models.ToxicityAssessment{
		RiskLevel:           riskLevel,
		Reasons:             reasons,
		TurnaroundPotential: positiveSignals >= 1,
		ShortCandidate:      shortCandidate,
	}
}

// Category filters the toxic list by assessment outcome.
type Category string

const (
	CategoryAll        Category = "all"
	CategoryAvoid      Category = "avoid"      // critical risk only
	CategoryShort      Category = "short"      // short candidates
	CategoryTurnaround Category = "turnaround" // recovery potential
)

// AssessedStock pairs a record with its toxicity read.
type AssessedStock struct {
	Stock      *models.StockRecord       `json:"stock"`
	Assessment models.ToxicityAssessment `json:"assessment"`
}

// Assess classifies every stock in order.
func Assess(stocks []*models.StockRecord) []AssessedStock {
	out := make([]AssessedStock, len(stocks))
	for i, s := range stocks {
		out[i] = AssessedStock{Stock: s, Assessment: Classify(s)}
	}
	return out
}

func matches(a models.ToxicityAssessment, category Category) bool {
	switch category {
	case CategoryAvoid:
		return a.RiskLevel == models.RiskCritical
	case CategoryShort:
		return a.ShortCandidate
	case CategoryTurnaround:
		return a.TurnaroundPotential
	default:
		return true
	}
}

// Filter returns the assessed stocks matching the category. Free-tier
// users see at most three rows; premium sees everything.
func Filter(assessed []AssessedStock, category Category, premium bool) []AssessedStock {
	var out []AssessedStock
	for _, as := range assessed {
		if matches(as.Assessment, category) {
			out = append(out, as)
		}
	}
	if !premium && len(out) > freeVisibleLimit {
		out = out[:freeVisibleLimit]
	}
	return out
}

// Counts tallies how many assessed stocks fall in each category.
func Counts(assessed []AssessedStock) map[Category]int {
	counts := map[Category]int{CategoryAll: len(assessed)}
	for _, as := range assessed {
		if matches(as.Assessment, CategoryAvoid) {
			counts[CategoryAvoid]++
		}
		if matches(as.Assessment, CategoryShort) {
			counts[CategoryShort]++
		}
		if matches(as.Assessment, CategoryTurnaround) {
			counts[CategoryTurnaround]++
		}
	}
	return counts
}
