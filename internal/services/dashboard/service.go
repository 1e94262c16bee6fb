// Package dashboard coordinates ranked-list fetches against the remote
// stock API. One logical fetch is live at a time: any dependency change
// cancels the in-flight request before the replacement is dispatched,
// and a stale response can never overwrite a newer one.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/norteacoes/vista/internal/common"
	"github.com/norteacoes/vista/internal/interfaces"
	"github.com/norteacoes/vista/internal/models"
)

// State is the fetch lifecycle of the dashboard.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateError   State = "error"
)

// Tab selects which ranking view drives the fetch.
type Tab string

const (
	TabOverview Tab = "overview"
	TabPodium   Tab = "ranking"
	TabToxic    Tab = "anti-ranking"
)

// toxicScoreCeiling bounds the anti-ranking fetch; the worst scores in
// the universe sit well under it.
const toxicScoreCeiling = 15.0

// Query describes one logical dashboard fetch.
type Query struct {
	Tab      Tab                   `json:"tab"`
	MinScore float64               `json:"min_score"`
	Premium  bool                  `json:"premium"`
	Filters  interfaces.StockQuery `json:"-"`
}

// NoticeLevel grades a transient notification.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient, auto-dismissing notification. A newer notice
// simply replaces the one on display.
type Notice struct {
	ID      string      `json:"id"`
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}

// Snapshot is an immutable view of the dashboard state. Subscribers and
// handlers only ever see snapshots; the mutable fields stay behind the
// service mutex.
type Snapshot struct {
	State      State                  `json:"state"`
	Generation uint64                 `json:"generation"`
	Query      Query                  `json:"query"`
	Stocks     []*models.StockRecord  `json:"stocks"`
	Stats      *models.DashboardStats `json:"stats"`
	FetchedAt  time.Time              `json:"fetched_at"`
	Notice     *Notice                `json:"notice,omitempty"`
}

// Service is the fetch coordinator.
type Service struct {
	client    interfaces.StockAPIClient
	logger    *common.Logger
	listLimit int
	noticeTTL time.Duration
	now       func() time.Time

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	state      State
	query      Query
	stocks     []*models.StockRecord
	stats      *models.DashboardStats
	fetchedAt  time.Time
	notice     *Notice

	subMu   sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
}

// ServiceOption configures the dashboard service.
type ServiceOption func(*Service)

// WithListLimit sets how many rows each ranked-list fetch requests.
func WithListLimit(limit int) ServiceOption {
	return func(s *Service) {
		if limit > 0 {
			s.listLimit = limit
		}
	}
}

// WithNoticeTTL sets how long transient notices stay visible.
func WithNoticeTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.noticeTTL = ttl
		}
	}
}

// NewService creates a dashboard fetch coordinator.
func NewService(client interfaces.StockAPIClient, logger *common.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	s := &Service{
		client:    client,
		logger:    logger,
		listLimit: 50,
		noticeTTL: 3 * time.Second,
		now:       time.Now,
		state:     StateIdle,
		subs:      make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// buildStockQuery maps a dashboard query onto the upstream request.
// Premium-only filters are stripped for free-tier users before the
// request leaves the process.
func (s *Service) buildStockQuery(q Query) interfaces.StockQuery {
	sq := q.Filters
	if !q.Premium {
		sq = sq.StripPremium()
	}
	sq.Limit = s.listLimit

	if q.Tab == TabToxic {
		// Reverse ranking: worst scores first.
		sq.MinScore = nil
		sq.MaxScore = models.Float(toxicScoreCeiling)
		sq.SortBy = "super_score"
		sq.Order = "asc"
	} else {
		sq.MinScore = models.Float(q.MinScore)
		sq.MaxScore = nil
	}
	return sq
}

// Refresh cancels any in-flight fetch and dispatches a new one for q.
// The cancel is issued before the new request starts, so by the time
// the replacement is on the wire the old generation can only ever be
// discarded. Returns the new generation for observability.
func (s *Service) Refresh(q Query) uint64 {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.generation++
	gen := s.generation
	s.query = q
	s.state = StateLoading
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.broadcast(snap)

	s.logger.Debug().
		Uint64("generation", gen).
		Str("tab", string(q.Tab)).
		Float64("min_score", q.MinScore).
		Msg("Dashboard fetch dispatched")

	go s.fetch(ctx, gen, q)
	return gen
}

// fetch runs one logical fetch: ranked list and stats concurrently,
// both required before loading clears.
func (s *Service) fetch(ctx context.Context, gen uint64, q Query) {
	var (
		wg        sync.WaitGroup
		stocks    []*models.StockRecord
		stats     *models.DashboardStats
		errStocks error
		errStats  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		stocks, errStocks = s.client.Stocks(ctx, s.buildStockQuery(q))
	}()
	go func() {
		defer wg.Done()
		stats, errStats = s.client.Stats(ctx)
	}()
	wg.Wait()

	err := errStocks
	if err == nil {
		err = errStats
	}

	s.mu.Lock()
	if gen != s.generation {
		// Superseded while in flight; discard silently.
		s.mu.Unlock()
		s.logger.Trace().Uint64("generation", gen).Msg("Stale dashboard fetch discarded")
		return
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.mu.Unlock()
			return
		}
		// Keep the last good list on screen; only surface a notice.
		s.state = StateError
		s.setNoticeLocked(NoticeError, "failed to load market data")
		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.logger.Warn().Err(err).Uint64("generation", gen).Msg("Dashboard fetch failed")
		s.broadcast(snap)
		return
	}

	s.stocks = stocks
	s.stats = stats
	s.fetchedAt = s.now()
	s.state = StateLoaded
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug().
		Uint64("generation", gen).
		Int("stocks", len(stocks)).
		Msg("Dashboard fetch completed")
	s.broadcast(snap)
}

// setNoticeLocked installs a transient notice and schedules its
// dismissal. The mutex must be held. Dismissal is fire-and-forget: if a
// newer notice replaced this one, the timer finds a different ID and
// does nothing.
func (s *Service) setNoticeLocked(level NoticeLevel, message string) {
	notice := &Notice{
		ID:      uuid.New().String(),
		Level:   level,
		Message: message,
		At:      s.now(),
	}
	s.notice = notice

	id := notice.ID
	time.AfterFunc(s.noticeTTL, func() {
		s.mu.Lock()
		if s.notice == nil || s.notice.ID != id {
			s.mu.Unlock()
			return
		}
		s.notice = nil
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.broadcast(snap)
	})
}

// Notify installs a transient notice outside the fetch path (e.g. a
// checkout redirect confirmation).
func (s *Service) Notify(level NoticeLevel, message string) {
	s.mu.Lock()
	s.setNoticeLocked(level, message)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.broadcast(snap)
}

func (s *Service) snapshotLocked() Snapshot {
	return Snapshot{
		State:      s.state,
		Generation: s.generation,
		Query:      s.query,
		Stocks:     s.stocks,
		Stats:      s.stats,
		FetchedAt:  s.fetchedAt,
		Notice:     s.notice,
	}
}

// Current returns the latest snapshot.
func (s *Service) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers a snapshot listener. The returned cancel func
// must be called to release the subscription. Slow consumers miss
// intermediate snapshots rather than blocking the coordinator.
func (s *Service) Subscribe() (<-chan Snapshot, func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 8)
	s.subs[id] = ch
	s.subMu.Unlock()

	return ch, func() {
		s.subMu.Lock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
		s.subMu.Unlock()
	}
}

func (s *Service) broadcast(snap Snapshot) {
	s.subMu.Lock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
	s.subMu.Unlock()
}

// Close cancels any in-flight fetch.
func (s *Service) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
}
