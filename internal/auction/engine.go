package auction

import (
	"slices"
	"time"
)

// Engine owns the mutable state of one auction. It is not safe for
// concurrent use; callers serialize every method call per auction.
type Engine struct {
	Auction *Auction
	Teams   map[string]*Team
	Players map[string]*Player
	Trades  map[string]*Trade
	Events  []ActionEvent
	Audit   []AuditEntry

	teamOrder   []string
	playerOrder []string
	locks       map[string]string
	eventSeq    int64
	auditSeq    int64
	outbox      []Outbound
}

func NewEngine(a *Auction) *Engine {
	if a.Status == "" {
		a.Status = StatusDraft
	}
	if a.Bidding.Phase == "" {
		a.Bidding.Phase = PhaseWaiting
	}
	return &Engine{
		Auction: a,
		Teams:   map[string]*Team{},
		Players: map[string]*Player{},
		Trades:  map[string]*Trade{},
		locks:   map[string]string{},
	}
}

// Restore rebuilds an engine from persisted rows. Slices must be in creation
// order; events and audit entries ordered by sequence.
func Restore(a *Auction, teams []*Team, players []*Player, trades []*Trade, events []ActionEvent, audit []AuditEntry) *Engine {
	e := NewEngine(a)
	for _, t := range teams {
		e.Teams[t.ID] = t
		e.teamOrder = append(e.teamOrder, t.ID)
	}
	for _, p := range players {
		e.Players[p.ID] = p
		e.playerOrder = append(e.playerOrder, p.ID)
	}
	for _, tr := range trades {
		e.Trades[tr.ID] = tr
		if tr.Status.Open() {
			e.lockTrade(tr)
		}
	}
	e.Events = events
	e.Audit = audit
	if n := len(events); n > 0 {
		e.eventSeq = events[n-1].Seq
	}
	if n := len(audit); n > 0 {
		e.auditSeq = audit[n-1].Seq
	}
	return e
}

func (e *Engine) TeamIDs() []string   { return slices.Clone(e.teamOrder) }
func (e *Engine) PlayerIDs() []string { return slices.Clone(e.playerOrder) }

// Drain returns and clears the outbound events produced since the last call.
func (e *Engine) Drain() []Outbound {
	out := e.outbox
	e.outbox = nil
	return out
}

// Configure replaces the auction configuration before the auction goes live.
func (e *Engine) Configure(now time.Time, cfg Config) error {
	a := e.Auction
	if a.Status != StatusDraft && a.Status != StatusConfigured {
		return ErrInvalidStatus
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	for _, id := range e.teamOrder {
		if retentionCost(e.Teams[id]) > cfg.PurseValue {
			return ErrInsufficientPurse
		}
	}
	a.Config = cfg
	for _, id := range e.teamOrder {
		e.resetPurse(e.Teams[id])
	}
	e.setStatus(now, StatusConfigured, "")
	return nil
}

func (e *Engine) AddTeam(now time.Time, id, name string, retained []Retention) (*Team, error) {
	a := e.Auction
	if a.Status != StatusDraft && a.Status != StatusConfigured {
		return nil, ErrInvalidStatus
	}
	if id == "" || e.Teams[id] != nil {
		return nil, ErrDuplicateID
	}
	t := &Team{ID: id, AuctionID: a.ID, Name: name, Retained: slices.Clone(retained)}
	if a.Config.MaxSquadSize > 0 && len(retained) > a.Config.MaxSquadSize {
		return nil, ErrSquadFull
	}
	if err := e.resetPurseChecked(t); err != nil {
		return nil, err
	}
	e.Teams[id] = t
	e.teamOrder = append(e.teamOrder, id)
	a.UpdatedAt = now
	return t, nil
}

func (e *Engine) AddPlayer(now time.Time, id, name, role string, fields map[string]CustomField) (*Player, error) {
	a := e.Auction
	if a.Status != StatusDraft && a.Status != StatusConfigured {
		return nil, ErrInvalidStatus
	}
	if id == "" || e.Players[id] != nil {
		return nil, ErrDuplicateID
	}
	p := &Player{ID: id, AuctionID: a.ID, Name: name, Role: role, Status: PlayerPool, CustomFields: fields}
	e.Players[id] = p
	e.playerOrder = append(e.playerOrder, id)
	a.UpdatedAt = now
	return p, nil
}

func (e *Engine) resetPurse(t *Team) {
	_ = e.resetPurseChecked(t)
}

func retentionCost(t *Team) int64 {
	var total int64
	for _, r := range t.Retained {
		total += r.Cost
	}
	return total
}

func (e *Engine) resetPurseChecked(t *Team) error {
	retention := retentionCost(t)
	if retention > e.Auction.Config.PurseValue {
		return ErrInsufficientPurse
	}
	t.PurseValue = e.Auction.Config.PurseValue
	t.PurseRemaining = t.PurseValue - retention
	return nil
}

// Start takes a configured auction live with every pool player undecided in
// round one.
func (e *Engine) Start(now time.Time, actor string) error {
	a := e.Auction
	if a.Status != StatusConfigured {
		return ErrInvalidStatus
	}
	if len(e.teamOrder) == 0 {
		return ErrInvalidConfig
	}
	a.CurrentRound = 1
	a.Undecided = a.Undecided[:0]
	for _, id := range e.playerOrder {
		if e.Players[id].Status == PlayerPool {
			a.Undecided = append(a.Undecided, id)
		}
	}
	a.Bidding = BiddingState{Phase: PhaseWaiting, TimerGen: a.Bidding.TimerGen + 1}
	e.setStatus(now, StatusLive, actor)
	e.emitBidding()
	return nil
}

// Pause freezes the running phase timer, keeping its remaining duration.
func (e *Engine) Pause(now time.Time, actor string) error {
	a := e.Auction
	if a.Status != StatusLive {
		return ErrInvalidStatus
	}
	b := &a.Bidding
	if b.Active() && !b.TimerExpiresAt.IsZero() {
		b.PausedRemain = max(b.TimerExpiresAt.Sub(now), 0)
		b.TimerExpiresAt = time.Time{}
		b.TimerGen++
	}
	e.setStatus(now, StatusPaused, actor)
	e.emitBidding()
	return nil
}

func (e *Engine) Resume(now time.Time, actor string) error {
	a := e.Auction
	if a.Status != StatusPaused {
		return ErrInvalidStatus
	}
	b := &a.Bidding
	if b.Active() {
		b.TimerExpiresAt = now.Add(b.PausedRemain)
		b.PausedRemain = 0
		b.TimerGen++
	}
	e.setStatus(now, StatusLive, actor)
	e.emitBidding()
	return nil
}

// OpenTradeWindow starts the post-auction trade window measured from
// completion.
func (e *Engine) OpenTradeWindow(now time.Time, actor string) error {
	a := e.Auction
	if a.Status != StatusCompleted {
		return ErrInvalidStatus
	}
	if a.Config.TradeWindowHours <= 0 || !now.Before(e.TradeWindowClosesAt()) {
		return ErrTradeWindowClosed
	}
	e.setStatus(now, StatusTradeWindow, actor)
	return nil
}

// Finalize freezes the auction; open trades expire.
func (e *Engine) Finalize(now time.Time, actor string) error {
	a := e.Auction
	if a.Status != StatusCompleted && a.Status != StatusTradeWindow {
		return ErrInvalidStatus
	}
	e.expireOpenTrades(now)
	e.setStatus(now, StatusFinalized, actor)
	return nil
}

func (e *Engine) TradeWindowClosesAt() time.Time {
	return e.Auction.CompletedAt.Add(e.Auction.Config.tradeWindow())
}

func (e *Engine) setStatus(now time.Time, s Status, actor string) {
	a := e.Auction
	prev := a.Status
	a.Status = s
	a.UpdatedAt = now
	if s == StatusCompleted {
		a.CompletedAt = now
	}
	e.pushEvent(now, ActionEvent{
		Type:    ActionStatusChanged,
		Actor:   actor,
		Forward: Forward{FromStatus: string(prev), ToStatus: string(s)},
	})
	e.emit(OutAuctionStatus, StatusUpdate{AuctionID: a.ID, Status: s, Round: a.CurrentRound})
}

func (e *Engine) team(id string) (*Team, error) {
	t := e.Teams[id]
	if t == nil {
		return nil, ErrTeamNotFound
	}
	return t, nil
}

func (e *Engine) player(id string) (*Player, error) {
	p := e.Players[id]
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

// Locked reports the open trade holding playerID, if any.
func (e *Engine) Locked(playerID string) (string, bool) {
	id, ok := e.locks[playerID]
	return id, ok
}

func (e *Engine) removeUndecided(playerID string) int {
	a := e.Auction
	i := slices.Index(a.Undecided, playerID)
	if i >= 0 {
		a.Undecided = slices.Delete(a.Undecided, i, i+1)
	}
	return i
}

func (e *Engine) insertUndecided(playerID string, at int) {
	a := e.Auction
	if slices.Contains(a.Undecided, playerID) {
		return
	}
	if at < 0 || at > len(a.Undecided) {
		at = len(a.Undecided)
	}
	a.Undecided = slices.Insert(a.Undecided, at, playerID)
}

func (e *Engine) emit(kind OutboundKind, data any) {
	e.outbox = append(e.outbox, Outbound{Kind: kind, AuctionID: e.Auction.ID, Data: data})
}

func (e *Engine) emitBidding(teamIDs ...string) {
	a := e.Auction
	b := a.Bidding
	b.History = slices.Clone(b.History)
	up := BiddingUpdate{
		AuctionID:   a.ID,
		Status:      a.Status,
		Round:       a.CurrentRound,
		Bidding:     b,
		NextMinimum: e.nextMinimum(),
	}
	seen := map[string]bool{}
	for _, id := range append([]string{b.CurrentTeamID}, teamIDs...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if t := e.Teams[id]; t != nil {
			up.Teams = append(up.Teams, PurseOf(t, a.Config))
		}
	}
	e.emit(OutBiddingState, up)
}

func (e *Engine) emitPurse(t *Team, delta int64, reason, refType, refID string) {
	e.emit(OutPurseMovement, PurseMovement{
		TeamID:  t.ID,
		Delta:   delta,
		Balance: t.PurseRemaining,
		Reason:  reason,
		RefType: refType,
		RefID:   refID,
	})
}

// Purses returns a snapshot of every team's purse in creation order.
func (e *Engine) Purses() []TeamPurse {
	out := make([]TeamPurse, 0, len(e.teamOrder))
	for _, id := range e.teamOrder {
		out = append(out, PurseOf(e.Teams[id], e.Auction.Config))
	}
	return out
}
