package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/norteacoes/vista/internal/models"
	"github.com/norteacoes/vista/internal/services/compare"
	"github.com/norteacoes/vista/internal/services/rotation"
	"github.com/norteacoes/vista/internal/services/toxicity"
	"github.com/norteacoes/vista/internal/services/valuation"
)

// freeUnlockedRank is the number of leading cards a free-tier user sees
// in full on the overview list.
const freeUnlockedRank = 1

// blueChipPriceFloor splits the universe into blue chips (at or above)
// and small caps (below) for the quick toggles.
const blueChipPriceFloor = 30.0

// CardView is one stock card: the record plus everything derived for
// display and the freemium lock flag.
type CardView struct {
	Rank      int                     `json:"rank"`
	Stock     *models.StockRecord     `json:"stock"`
	Valuation models.DerivedValuation `json:"valuation"`
	Band      models.ScoreBand        `json:"band"`
	Locked    bool                    `json:"locked"`
}

// ListFilter holds the client-side refinements applied on top of the
// fetched list. Search matches ticker or sector, case-insensitively.
type ListFilter struct {
	Search    string `json:"search"`
	BlueChips bool   `json:"blue_chips"`
	SmallCaps bool   `json:"small_caps"`
}

func bandFor(stock *models.StockRecord) models.ScoreBand {
	score, _ := stock.Metric(models.MetricSuperScore)
	return models.BandForScore(score)
}

func (f ListFilter) match(stock *models.StockRecord) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(stock.Ticker), needle) &&
			!strings.Contains(strings.ToLower(stock.Sector), needle) {
			return false
		}
	}
	price, ok := stock.Metric(models.MetricPrice)
	if f.BlueChips && (!ok || price < blueChipPriceFloor) {
		return false
	}
	if f.SmallCaps && (!ok || price >= blueChipPriceFloor) {
		return false
	}
	return true
}

// OverviewView is the main ranked list after filters and gating.
type OverviewView struct {
	Cards []CardView             `json:"cards"`
	Total int                    `json:"total"`
	Stats *models.DashboardStats `json:"stats"`
}

// Overview derives the overview list from the latest snapshot. Rank is
// position in the fetched order; free-tier users see the first card
// unlocked and the rest flagged locked.
func (s *Service) Overview(premium bool, filter ListFilter) OverviewView {
	snap := s.Current()

	cards := make([]CardView, 0, len(snap.Stocks))
	for i, stock := range snap.Stocks {
		if !filter.match(stock) {
			continue
		}
		rank := i + 1
		cards = append(cards, CardView{
			Rank:      rank,
			Stock:     stock,
			Valuation: valuation.EstimateStock(stock),
			Band:      bandFor(stock),
			Locked:    !premium && rank > freeUnlockedRank,
		})
	}
	return OverviewView{Cards: cards, Total: len(snap.Stocks), Stats: snap.Stats}
}

// Podium returns the top three of the fetched ranking, fully visible on
// every tier.
func (s *Service) Podium() []CardView {
	snap := s.Current()
	n := len(snap.Stocks)
	if n > 3 {
		n = 3
	}
	cards := make([]CardView, 0, n)
	for i := 0; i < n; i++ {
		stock := snap.Stocks[i]
		cards = append(cards, CardView{
			Rank:      i + 1,
			Stock:     stock,
			Valuation: valuation.EstimateStock(stock),
			Band:      bandFor(stock),
		})
	}
	return cards
}

// ToxicView is the anti-ranking tab: assessed stocks for one category
// plus the per-category counts for the tab badges.
type ToxicView struct {
	Category toxicity.Category         `json:"category"`
	Stocks   []toxicity.AssessedStock  `json:"stocks"`
	Counts   map[toxicity.Category]int `json:"counts"`
	Capped   bool                      `json:"capped"`
}

// Toxic derives the anti-ranking view. Free-tier users see a capped
// list; the counts always reflect the full set.
func (s *Service) Toxic(category toxicity.Category, premium bool) ToxicView {
	snap := s.Current()
	assessed := toxicity.Assess(snap.Stocks)
	filtered := toxicity.Filter(assessed, category, premium)
	full := toxicity.Filter(assessed, category, true)
	return ToxicView{
		Category: category,
		Stocks:   filtered,
		Counts:   toxicity.Counts(assessed),
		Capped:   len(filtered) < len(full),
	}
}

// FreePicks returns this week's rotating free sample for free-tier
// users. Premium users get the whole list and no sample.
func (s *Service) FreePicks(premium bool, now time.Time) []CardView {
	if premium {
		return nil
	}
	snap := s.Current()
	sample := rotation.SelectFreeSample(snap.Stocks, now)
	cards := make([]CardView, 0, len(sample))
	for _, stock := range sample {
		cards = append(cards, CardView{
			Stock:     stock,
			Valuation: valuation.EstimateStock(stock),
			Band:      bandFor(stock),
		})
	}
	return cards
}

// Compare runs the head-to-head engine over two tickers from the
// current snapshot.
func (s *Service) Compare(tickerA, tickerB string) (models.Comparison, error) {
	snap := s.Current()
	a := findStock(snap.Stocks, tickerA)
	if a == nil {
		return models.Comparison{}, fmt.Errorf("ticker %s not in current list", tickerA)
	}
	b := findStock(snap.Stocks, tickerB)
	if b == nil {
		return models.Comparison{}, fmt.Errorf("ticker %s not in current list", tickerB)
	}
	return compare.Compare(a, b), nil
}

func findStock(stocks []*models.StockRecord, ticker string) *models.StockRecord {
	for _, stock := range stocks {
		if strings.EqualFold(stock.Ticker, ticker) {
			return stock
		}
	}
	return nil
}
