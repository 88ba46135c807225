package auction

import (
	"slices"
	"time"
)

type TradeStatus string

const (
	TradePending   TradeStatus = "pending_counterparty"
	TradeAgreed    TradeStatus = "both_agreed"
	TradeExecuted  TradeStatus = "executed"
	TradeRejected  TradeStatus = "rejected"
	TradeWithdrawn TradeStatus = "withdrawn"
	TradeCancelled TradeStatus = "cancelled"
	TradeExpired   TradeStatus = "expired"
)

// Open reports whether the trade still holds locks on its players.
func (s TradeStatus) Open() bool {
	return s == TradePending || s == TradeAgreed
}

type SettlementDirection string

const (
	InitiatorPays    SettlementDirection = "initiator_pays"
	CounterpartyPays SettlementDirection = "counterparty_pays"
	SettlementEven   SettlementDirection = "even"
)

// TradePlayer is a player in a trade with the sale price captured at
// proposal time.
type TradePlayer struct {
	PlayerID string `json:"player_id"`
	Price    int64  `json:"price"`
}

type Trade struct {
	ID                  string              `json:"id"`
	AuctionID           string              `json:"auction_id"`
	InitiatorTeamID     string              `json:"initiator_team_id"`
	CounterpartyTeamID  string              `json:"counterparty_team_id"`
	InitiatorPlayers    []TradePlayer       `json:"initiator_players"`
	CounterpartyPlayers []TradePlayer       `json:"counterparty_players"`
	InitiatorTotal      int64               `json:"initiator_total"`
	CounterpartyTotal   int64               `json:"counterparty_total"`
	SettlementAmount    int64               `json:"settlement_amount"`
	SettlementDirection SettlementDirection `json:"settlement_direction"`
	Status              TradeStatus         `json:"status"`
	Reason              string              `json:"reason,omitempty"`
	ProposedAt          time.Time           `json:"proposed_at"`
	AcceptedAt          time.Time           `json:"accepted_at,omitempty"`
	ResolvedAt          time.Time           `json:"resolved_at,omitempty"`
	ResolvedBy          string              `json:"resolved_by,omitempty"`
}

func (t *Trade) playerIDs() []string {
	ids := make([]string, 0, len(t.InitiatorPlayers)+len(t.CounterpartyPlayers))
	for _, p := range t.InitiatorPlayers {
		ids = append(ids, p.PlayerID)
	}
	for _, p := range t.CounterpartyPlayers {
		ids = append(ids, p.PlayerID)
	}
	return ids
}

// Settle computes the balancing payment between two trade sides. The side
// giving away less value pays the difference.
func Settle(initiatorTotal, counterpartyTotal int64, enabled bool) (int64, SettlementDirection) {
	if !enabled || initiatorTotal == counterpartyTotal {
		return 0, SettlementEven
	}
	if initiatorTotal < counterpartyTotal {
		return counterpartyTotal - initiatorTotal, InitiatorPays
	}
	return initiatorTotal - counterpartyTotal, CounterpartyPays
}

func (e *Engine) trade(id string) (*Trade, error) {
	tr := e.Trades[id]
	if tr == nil {
		return nil, ErrTradeNotFound
	}
	return tr, nil
}

func (e *Engine) lockTrade(tr *Trade) {
	for _, id := range tr.playerIDs() {
		e.locks[id] = tr.ID
	}
}

func (e *Engine) unlockTrade(tr *Trade) {
	for _, id := range tr.playerIDs() {
		if e.locks[id] == tr.ID {
			delete(e.locks, id)
		}
	}
}

// tradeWindowOpen expires every open trade once the window has closed.
func (e *Engine) tradeWindowOpen(now time.Time) bool {
	if e.Auction.Status != StatusTradeWindow {
		return false
	}
	if !now.Before(e.TradeWindowClosesAt()) {
		e.expireOpenTrades(now)
		return false
	}
	return true
}

func (e *Engine) capTrades(t *Team) bool {
	return t.TradesUsed >= e.Auction.Config.MaxTradesPerTeam
}

// tradeSide captures the players team is giving up, checking ownership and
// locks.
func (e *Engine) tradeSide(team *Team, ids []string, seen map[string]bool) ([]TradePlayer, int64, error) {
	if len(ids) == 0 {
		return nil, 0, ErrInvalidTrade
	}
	out := make([]TradePlayer, 0, len(ids))
	var total int64
	for _, id := range ids {
		if seen[id] {
			return nil, 0, ErrInvalidTrade
		}
		seen[id] = true
		p, err := e.player(id)
		if err != nil {
			return nil, 0, err
		}
		if p.Status == PlayerDisqualified || p.Status == PlayerIneligible {
			return nil, 0, ErrPlayerIneligible
		}
		if p.Status != PlayerSold || p.SoldTo != team.ID || team.purchaseIndex(id) < 0 {
			return nil, 0, ErrPlayerNotOwned
		}
		if _, locked := e.locks[id]; locked {
			return nil, 0, ErrPlayerLocked
		}
		out = append(out, TradePlayer{PlayerID: id, Price: p.SoldAmount})
		total += p.SoldAmount
	}
	return out, total, nil
}

// ProposeTrade opens a swap of initiator's players for counterparty's and
// locks every player involved.
func (e *Engine) ProposeTrade(now time.Time, id, initiatorID, counterpartyID string, initiatorPlayers, counterpartyPlayers []string) (*Trade, error) {
	if !e.tradeWindowOpen(now) {
		return nil, ErrTradeWindowClosed
	}
	if id == "" || e.Trades[id] != nil {
		return nil, ErrDuplicateID
	}
	from, err := e.team(initiatorID)
	if err != nil {
		return nil, err
	}
	to, err := e.team(counterpartyID)
	if err != nil {
		return nil, err
	}
	if from.ID == to.ID {
		return nil, ErrInvalidTrade
	}
	if e.capTrades(from) || e.capTrades(to) {
		return nil, ErrTradeCapExceeded
	}
	seen := map[string]bool{}
	give, giveTotal, err := e.tradeSide(from, initiatorPlayers, seen)
	if err != nil {
		return nil, err
	}
	take, takeTotal, err := e.tradeSide(to, counterpartyPlayers, seen)
	if err != nil {
		return nil, err
	}
	amount, dir := Settle(giveTotal, takeTotal, e.Auction.Config.PurseSettlementEnabled)
	tr := &Trade{
		ID:                  id,
		AuctionID:           e.Auction.ID,
		InitiatorTeamID:     from.ID,
		CounterpartyTeamID:  to.ID,
		InitiatorPlayers:    give,
		CounterpartyPlayers: take,
		InitiatorTotal:      giveTotal,
		CounterpartyTotal:   takeTotal,
		SettlementAmount:    amount,
		SettlementDirection: dir,
		Status:              TradePending,
		ProposedAt:          now,
	}
	e.Trades[id] = tr
	e.lockTrade(tr)
	e.emitTrade(tr)
	return tr, nil
}

func (e *Engine) AcceptTrade(now time.Time, id, teamID string) (*Trade, error) {
	tr, err := e.trade(id)
	if err != nil {
		return nil, err
	}
	if teamID != tr.CounterpartyTeamID {
		return nil, ErrNotTradeParty
	}
	if !e.tradeWindowOpen(now) {
		return nil, ErrTradeWindowClosed
	}
	if tr.Status != TradePending {
		return nil, ErrTradeNotPending
	}
	tr.Status = TradeAgreed
	tr.AcceptedAt = now
	e.emitTrade(tr)
	return tr, nil
}

func (e *Engine) RejectTrade(now time.Time, id, teamID, reason string) (*Trade, error) {
	tr, err := e.trade(id)
	if err != nil {
		return nil, err
	}
	if teamID != tr.CounterpartyTeamID {
		return nil, ErrNotTradeParty
	}
	if tr.Status != TradePending {
		return nil, ErrTradeNotPending
	}
	e.resolveTrade(now, tr, TradeRejected, teamID, reason)
	return tr, nil
}

// WithdrawTrade lets the initiator back out until execution.
func (e *Engine) WithdrawTrade(now time.Time, id, teamID string) (*Trade, error) {
	tr, err := e.trade(id)
	if err != nil {
		return nil, err
	}
	if teamID != tr.InitiatorTeamID {
		return nil, ErrNotTradeParty
	}
	if !tr.Status.Open() {
		return nil, ErrTradeNotPending
	}
	e.resolveTrade(now, tr, TradeWithdrawn, teamID, "")
	return tr, nil
}

func (e *Engine) CancelTrade(now time.Time, id, actor, reason string) (*Trade, error) {
	tr, err := e.trade(id)
	if err != nil {
		return nil, err
	}
	if !tr.Status.Open() {
		return nil, ErrTradeNotPending
	}
	e.resolveTrade(now, tr, TradeCancelled, actor, reason)
	return tr, nil
}

// ExecuteTrade swaps ownership and settles purses as one step. Nothing is
// changed unless every check passes.
func (e *Engine) ExecuteTrade(now time.Time, id, actor string) (*Trade, error) {
	tr, err := e.trade(id)
	if err != nil {
		return nil, err
	}
	switch {
	case tr.Status == TradePending:
		return nil, ErrTradeNotAgreed
	case tr.Status != TradeAgreed:
		return nil, ErrTradeNotPending
	}
	if !e.tradeWindowOpen(now) {
		return nil, ErrTradeWindowClosed
	}
	from, err := e.team(tr.InitiatorTeamID)
	if err != nil {
		return nil, err
	}
	to, err := e.team(tr.CounterpartyTeamID)
	if err != nil {
		return nil, err
	}
	if e.capTrades(from) || e.capTrades(to) {
		return nil, ErrTradeCapExceeded
	}
	for _, side := range []struct {
		team    *Team
		players []TradePlayer
	}{{from, tr.InitiatorPlayers}, {to, tr.CounterpartyPlayers}} {
		for _, tp := range side.players {
			p := e.Players[tp.PlayerID]
			if p == nil || p.Status != PlayerSold || p.SoldTo != side.team.ID || side.team.purchaseIndex(p.ID) < 0 {
				return nil, ErrPlayerNotOwned
			}
		}
	}
	maxSquad := e.Auction.Config.MaxSquadSize
	net := len(tr.CounterpartyPlayers) - len(tr.InitiatorPlayers)
	if maxSquad > 0 && (from.SquadSize()+net > maxSquad || to.SquadSize()-net > maxSquad) {
		return nil, ErrSquadFull
	}

	payer, payee := from, to
	if tr.SettlementDirection == CounterpartyPays {
		payer, payee = to, from
	}
	if tr.SettlementAmount > 0 {
		if err := Transfer(payer, payee, tr.SettlementAmount); err != nil {
			return nil, err
		}
	}

	e.moveOwnership(from, to, tr.InitiatorPlayers)
	e.moveOwnership(to, from, tr.CounterpartyPlayers)
	from.TradesUsed++
	to.TradesUsed++

	if tr.SettlementAmount > 0 {
		e.emitPurse(payer, -tr.SettlementAmount, PurseSettlementDebit, "trade", tr.ID)
		e.emitPurse(payee, tr.SettlementAmount, PurseSettlementCredit, "trade", tr.ID)
	}
	e.pushEvent(now, ActionEvent{
		Type:    ActionTradeExecuted,
		Actor:   actor,
		Forward: Forward{TeamID: payer.ID, Amount: tr.SettlementAmount, Reason: tr.ID},
	})
	e.resolveTrade(now, tr, TradeExecuted, actor, "")
	return tr, nil
}

func (e *Engine) moveOwnership(from, to *Team, players []TradePlayer) {
	for _, tp := range players {
		purchase, _ := from.removePurchase(tp.PlayerID)
		to.Bought = append(to.Bought, purchase)
		e.Players[tp.PlayerID].SoldTo = to.ID
	}
}

func (e *Engine) resolveTrade(now time.Time, tr *Trade, s TradeStatus, by, reason string) {
	tr.Status = s
	tr.ResolvedAt = now
	tr.ResolvedBy = by
	tr.Reason = reason
	e.unlockTrade(tr)
	e.emitTrade(tr)
}

// ExpireOpen expires open trades once the trade window has closed and
// returns how many were expired.
func (e *Engine) ExpireOpen(now time.Time) int {
	if e.Auction.Status != StatusTradeWindow || now.Before(e.TradeWindowClosesAt()) {
		return 0
	}
	return e.expireOpenTrades(now)
}

func (e *Engine) expireOpenTrades(now time.Time) int {
	ids := make([]string, 0, len(e.Trades))
	for id, tr := range e.Trades {
		if tr.Status.Open() {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	for _, id := range ids {
		e.resolveTrade(now, e.Trades[id], TradeExpired, "", "window_closed")
	}
	return len(ids)
}

// TradeList returns trades ordered by proposal time.
func (e *Engine) TradeList() []*Trade {
	out := make([]*Trade, 0, len(e.Trades))
	for _, tr := range e.Trades {
		out = append(out, tr)
	}
	slices.SortFunc(out, func(a, b *Trade) int {
		if c := a.ProposedAt.Compare(b.ProposedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

func (e *Engine) emitTrade(tr *Trade) {
	cp := *tr
	cp.InitiatorPlayers = slices.Clone(tr.InitiatorPlayers)
	cp.CounterpartyPlayers = slices.Clone(tr.CounterpartyPlayers)
	e.emit(OutTrade, cp)
}
