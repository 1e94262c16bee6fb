package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/norteacoes/vista/internal/common"
	"github.com/norteacoes/vista/internal/interfaces"
	"github.com/norteacoes/vista/internal/models"
)

// fakeClient serves canned responses and lets a test hold a stocks
// fetch open until released. Fields are mutex-guarded so tests can
// swap responses while a held fetch is still in flight.
type fakeClient struct {
	mu      sync.Mutex
	stocks  []*models.StockRecord
	stats   *models.DashboardStats
	err     error
	release chan struct{} // when set, Stocks blocks until a receive fires
}

func (f *fakeClient) swap(stocks []*models.StockRecord, release chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stocks = stocks
	f.release = release
}

func (f *fakeClient) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeClient) Stocks(ctx context.Context, query interfaces.StockQuery) ([]*models.StockRecord, error) {
	f.mu.Lock()
	stocks, err, release := f.stocks, f.err, f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
		}
	}
	if err != nil {
		return nil, err
	}
	return stocks, nil
}

func (f *fakeClient) Stats(ctx context.Context) (*models.DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func (f *fakeClient) Sectors(ctx context.Context) ([]string, error)      { return nil, nil }
func (f *fakeClient) Alerts(ctx context.Context) ([]models.Alert, error) { return nil, nil }
func (f *fakeClient) SuggestedPortfolio(ctx context.Context, profile models.InvestorProfile) (*models.SuggestedPortfolio, error) {
	return nil, nil
}
func (f *fakeClient) Chat(ctx context.Context, token string, req models.ChatRequest) (*models.ChatResponse, error) {
	return nil, nil
}
func (f *fakeClient) WeeklyReport(ctx context.Context, token string) ([]byte, error) {
	return nil, nil
}
func (f *fakeClient) CheckoutURL(ctx context.Context, token, returnURL string) (string, error) {
	return "", nil
}
func (f *fakeClient) Login(ctx context.Context, creds models.Credentials) (*models.TokenGrant, error) {
	return nil, nil
}
func (f *fakeClient) Register(ctx context.Context, reg models.Registration) (*models.TokenGrant, error) {
	return nil, nil
}
func (f *fakeClient) OAuthLogin(ctx context.Context, email, name, provider string) (*models.TokenGrant, error) {
	return nil, nil
}
func (f *fakeClient) Me(ctx context.Context, token string) (*models.User, error) { return nil, nil }
func (f *fakeClient) ResendConfirmation(ctx context.Context, email string) error { return nil }

var _ interfaces.StockAPIClient = (*fakeClient)(nil)

func rankedStocks(n int) []*models.StockRecord {
	out := make([]*models.StockRecord, n)
	for i := range out {
		out[i] = &models.StockRecord{
			Ticker:          fmt.Sprintf("TICK%02d", i+1),
			Price:           models.Float(float64(10 + i)),
			PriceToEarnings: models.Float(8),
			PriceToBook:     models.Float(1.2),
			SuperScore:      models.Float(float64(15 - i%10)),
		}
	}
	return out
}

// waitForState drains the subscription until the wanted state arrives.
func waitForState(t *testing.T, ch <-chan Snapshot, want State) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				t.Fatal("subscription closed while waiting")
			}
			if snap.State == want {
				return snap
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %s", want)
		}
	}
}

func TestRefresh_LoadsStocksAndStats(t *testing.T) {
	client := &fakeClient{
		stocks: rankedStocks(5),
		stats:  &models.DashboardStats{TotalStocks: 5, TopStock: "TICK01"},
	}
	svc := NewService(client, common.NewSilentLogger())
	defer svc.Close()

	ch, cancel := svc.Subscribe()
	defer cancel()

	gen := svc.Refresh(Query{Tab: TabOverview, MinScore: 8})
	if gen != 1 {
		t.Errorf("generation = %d, want 1", gen)
	}

	snap := waitForState(t, ch, StateLoaded)
	if len(snap.Stocks) != 5 {
		t.Errorf("stocks = %d, want 5", len(snap.Stocks))
	}
	if snap.Stats == nil || snap.Stats.TopStock != "TICK01" {
		t.Errorf("stats not carried into snapshot: %+v", snap.Stats)
	}
	if snap.FetchedAt.IsZero() {
		t.Error("fetched_at not stamped")
	}
}

func TestRefresh_LatestRequestWins(t *testing.T) {
	releaseA := make(chan struct{})
	clientA := &fakeClient{stocks: rankedStocks(3), stats: &models.DashboardStats{}, release: releaseA}

	svc := NewService(clientA, common.NewSilentLogger())
	defer svc.Close()

	ch, cancel := svc.Subscribe()
	defer cancel()

	// Fetch A is held open.
	svc.Refresh(Query{Tab: TabOverview})
	waitForState(t, ch, StateLoading)

	// Fetch B supersedes it and completes immediately.
	clientA.swap(rankedStocks(7), nil)
	genB := svc.Refresh(Query{Tab: TabOverview, MinScore: 10})

	snap := waitForState(t, ch, StateLoaded)
	if snap.Generation != genB {
		t.Errorf("loaded generation = %d, want %d", snap.Generation, genB)
	}
	if len(snap.Stocks) != 7 {
		t.Errorf("stocks = %d, want B's 7", len(snap.Stocks))
	}

	// Release A late; its result must be discarded.
	close(releaseA)
	time.Sleep(50 * time.Millisecond)

	current := svc.Current()
	if current.Generation != genB {
		t.Errorf("generation = %d after stale completion, want %d", current.Generation, genB)
	}
	if len(current.Stocks) != 7 {
		t.Errorf("stale fetch overwrote the list: %d stocks", len(current.Stocks))
	}
}

func TestRefresh_ErrorKeepsLastGoodList(t *testing.T) {
	client := &fakeClient{
		stocks: rankedStocks(4),
		stats:  &models.DashboardStats{TotalStocks: 4},
	}
	svc := NewService(client, common.NewSilentLogger(), WithNoticeTTL(50*time.Millisecond))
	defer svc.Close()

	ch, cancel := svc.Subscribe()
	defer cancel()

	svc.Refresh(Query{Tab: TabOverview})
	waitForState(t, ch, StateLoaded)

	client.setErr(errors.New("upstream down"))
	svc.Refresh(Query{Tab: TabOverview})

	snap := waitForState(t, ch, StateError)
	if len(snap.Stocks) != 4 {
		t.Errorf("error wiped the last good list: %d stocks", len(snap.Stocks))
	}
	if snap.Notice == nil || snap.Notice.Level != NoticeError {
		t.Fatalf("expected an error notice, got %+v", snap.Notice)
	}

	// The notice dismisses itself.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case next := <-ch:
			if next.Notice == nil {
				return
			}
		case <-deadline:
			t.Fatal("notice never auto-dismissed")
		}
	}
}

func TestBuildStockQuery_StripsPremiumFiltersForFreeTier(t *testing.T) {
	svc := NewService(&fakeClient{}, common.NewSilentLogger(), WithListLimit(40))

	q := Query{
		Tab:      TabOverview,
		MinScore: 8,
		Premium:  false,
		Filters:  interfaces.StockQuery{Sector: "Bancos", MinROE: models.Float(15)},
	}
	sq := svc.buildStockQuery(q)

	if sq.Sector != "" || sq.MinROE != nil {
		t.Error("premium filters must be stripped for free tier")
	}
	if sq.Limit != 40 {
		t.Errorf("limit = %d, want 40", sq.Limit)
	}
	if sq.MinScore == nil || *sq.MinScore != 8 {
		t.Errorf("min score not carried: %v", sq.MinScore)
	}

	q.Premium = true
	sq = svc.buildStockQuery(q)
	if sq.Sector != "Bancos" || sq.MinROE == nil {
		t.Error("premium filters must survive for premium tier")
	}
}

func TestBuildStockQuery_ToxicTabReversesRanking(t *testing.T) {
	svc := NewService(&fakeClient{}, common.NewSilentLogger())

	sq := svc.buildStockQuery(Query{Tab: TabToxic, MinScore: 8})
	if sq.MinScore != nil {
		t.Error("toxic tab must not carry a min score")
	}
	if sq.MaxScore == nil || *sq.MaxScore != toxicScoreCeiling {
		t.Errorf("max score = %v, want %v", sq.MaxScore, toxicScoreCeiling)
	}
	if sq.SortBy != "super_score" || sq.Order != "asc" {
		t.Errorf("toxic tab sort = %s/%s, want super_score/asc", sq.SortBy, sq.Order)
	}
}
