package runtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"player-auction/internal/auction"
	"player-auction/internal/ledger"
	"player-auction/internal/store"
	"player-auction/internal/stream"
)

const (
	defaultEventBufferSize = 500
	persistTimeout         = 5 * time.Second
)

var (
	ErrRateLimited       = errors.New("rate_limited")
	ErrLedgerUnavailable = errors.New("ledger_unavailable")
	ErrPersistPending    = errors.New("persist_pending")
)

// Persister stores auction state and history. *store.Store implements it.
type Persister interface {
	SaveAuction(ctx context.Context, e *auction.Engine, ch store.Changes) error
	LoadAuction(ctx context.Context, id string) (*auction.Engine, error)
	ListAuctions(ctx context.Context) ([]store.AuctionSummary, error)
	RecentAudit(ctx context.Context, auctionID string, n int) ([]auction.AuditEntry, error)
	RecentEvents(ctx context.Context, auctionID string, n int) ([]auction.ActionEvent, error)
}

// Publisher receives every stream event right after it is buffered.
type Publisher interface {
	Publish(ev stream.StreamEvent)
}

// scheduleFunc runs f after d and returns a function that cancels it.
type scheduleFunc func(d time.Duration, f func()) (stop func() bool)

type Options struct {
	Defaults        auction.Config
	EventBufferSize int
	BidRatePerSec   float64
	BidBurst        int

	now   func() time.Time
	after scheduleFunc
}

// Coordinator owns one runtime per auction. Every mutation of an auction runs
// under that auction's lock; different auctions never contend.
type Coordinator struct {
	store   Persister
	ledger  *ledger.Ledger
	opts    Options
	limiter *bidLimiter

	mu        sync.Mutex
	auctions  map[string]*auctionRuntime
	publisher Publisher
}

type auctionRuntime struct {
	id     string
	engine *auction.Engine
	buffer *stream.EventBuffer

	stopTimer func() bool
	timerGen  int64

	// Engine events and audit entries below these indexes are stored.
	// Everything after them, the pending journal rows and the rewritten
	// events are resent until a save succeeds.
	savedEvents  int
	savedAudit   int
	pendingPurse []store.PurseEntry
	rewritten    []auction.ActionEvent
	rosterDirty  bool

	mu sync.Mutex
}

// markSaved moves the watermark to the engine's current history.
func (rt *auctionRuntime) markSaved() {
	rt.savedEvents = len(rt.engine.Events)
	rt.savedAudit = len(rt.engine.Audit)
	rt.pendingPurse = nil
	rt.rewritten = nil
	rt.rosterDirty = false
}

func (rt *auctionRuntime) unsaved() bool {
	return rt.rosterDirty || len(rt.pendingPurse) > 0 || len(rt.rewritten) > 0 ||
		rt.savedEvents < len(rt.engine.Events) || rt.savedAudit < len(rt.engine.Audit)
}

func NewCoordinator(st Persister, led *ledger.Ledger, opts Options) *Coordinator {
	if opts.EventBufferSize <= 0 {
		opts.EventBufferSize = defaultEventBufferSize
	}
	if opts.now == nil {
		opts.now = time.Now
	}
	if opts.after == nil {
		opts.after = func(d time.Duration, f func()) func() bool {
			return time.AfterFunc(d, f).Stop
		}
	}
	return &Coordinator{
		store:    st,
		ledger:   led,
		opts:     opts,
		limiter:  newBidLimiter(opts.BidRatePerSec, opts.BidBurst),
		auctions: map[string]*auctionRuntime{},
	}
}

func (c *Coordinator) SetPublisher(p Publisher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publisher = p
}

func (c *Coordinator) currentPublisher() Publisher {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.publisher
}
