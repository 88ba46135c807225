package auction

import "time"

type ActionType string

const (
	ActionPlayerSold         ActionType = "PLAYER_SOLD"
	ActionPlayerUnsold       ActionType = "PLAYER_UNSOLD"
	ActionPlayerDisqualified ActionType = "PLAYER_DISQUALIFIED"
	ActionPlayerReinstated   ActionType = "PLAYER_REINSTATED"
	ActionManualOverride     ActionType = "MANUAL_OVERRIDE"

	ActionPlayerRevealed ActionType = "PLAYER_REVEALED"
	ActionBiddingVoided  ActionType = "BIDDING_VOIDED"
	ActionRoundAdvanced  ActionType = "ROUND_ADVANCED"
	ActionStatusChanged  ActionType = "AUCTION_STATUS_CHANGED"
	ActionTradeExecuted  ActionType = "TRADE_EXECUTED"
	ActionUndo           ActionType = "UNDO"
)

func (t ActionType) Undoable() bool {
	switch t {
	case ActionPlayerSold, ActionPlayerUnsold, ActionPlayerDisqualified, ActionPlayerReinstated, ActionManualOverride:
		return true
	}
	return false
}

// Forward describes what an action did.
type Forward struct {
	PlayerID   string `json:"player_id,omitempty"`
	TeamID     string `json:"team_id,omitempty"`
	Amount     int64  `json:"amount,omitempty"`
	Round      int    `json:"round,omitempty"`
	FromStatus string `json:"from_status,omitempty"`
	ToStatus   string `json:"to_status,omitempty"`
	Reason     string `json:"reason,omitempty"`
	RefSeq     int64  `json:"ref_seq,omitempty"`
}

type ActionEvent struct {
	Seq       int64      `json:"seq"`
	AuctionID string     `json:"auction_id"`
	Type      ActionType `json:"type"`
	Actor     string     `json:"actor,omitempty"`
	Forward   Forward    `json:"forward"`
	Reversal  Reversal   `json:"-"`
	IsUndone  bool       `json:"is_undone"`
	UndoneAt  time.Time  `json:"undone_at,omitempty"`
	UndoneBy  string     `json:"undone_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Reversal is the inverse of one undoable action. Each undoable ActionType
// has exactly one implementation.
type Reversal interface {
	Kind() ActionType
}

// PlayerMark is the disposition of a player before or after an action.
type PlayerMark struct {
	Status      PlayerStatus `json:"status"`
	SoldTo      string       `json:"sold_to,omitempty"`
	SoldAmount  int64        `json:"sold_amount,omitempty"`
	SoldInRound int          `json:"sold_in_round,omitempty"`
	Reason      string       `json:"reason,omitempty"`
}

func markOf(p *Player) PlayerMark {
	return PlayerMark{Status: p.Status, SoldTo: p.SoldTo, SoldAmount: p.SoldAmount, SoldInRound: p.SoldInRound, Reason: p.StatusReason}
}

type SaleReversal struct {
	PlayerID       string       `json:"player_id"`
	TeamID         string       `json:"team_id"`
	Amount         int64        `json:"amount"`
	PriorStatus    PlayerStatus `json:"prior_status"`
	HistoryLen     int          `json:"history_len"`
	UndecidedIndex int          `json:"undecided_index"`
}

type UnsoldReversal struct {
	PlayerID       string       `json:"player_id"`
	PriorStatus    PlayerStatus `json:"prior_status"`
	HistoryLen     int          `json:"history_len"`
	UndecidedIndex int          `json:"undecided_index"`
}

type DisqualifyReversal struct {
	PlayerID       string       `json:"player_id"`
	PriorStatus    PlayerStatus `json:"prior_status"`
	PriorReason    string       `json:"prior_reason,omitempty"`
	AppliedStatus  PlayerStatus `json:"applied_status"`
	UndecidedIndex int          `json:"undecided_index"`
}

type ReinstateReversal struct {
	PlayerID       string       `json:"player_id"`
	PriorStatus    PlayerStatus `json:"prior_status"`
	PriorReason    string       `json:"prior_reason,omitempty"`
	UndecidedIndex int          `json:"undecided_index"`
}

// OverrideReversal covers direct assignment and return-to-pool.
type OverrideReversal struct {
	PlayerID       string     `json:"player_id"`
	Prior          PlayerMark `json:"prior"`
	Applied        PlayerMark `json:"applied"`
	PriorRound     int        `json:"prior_round"`
	UndecidedIndex int        `json:"undecided_index"`
}

func (SaleReversal) Kind() ActionType       { return ActionPlayerSold }
func (UnsoldReversal) Kind() ActionType     { return ActionPlayerUnsold }
func (DisqualifyReversal) Kind() ActionType { return ActionPlayerDisqualified }
func (ReinstateReversal) Kind() ActionType  { return ActionPlayerReinstated }
func (OverrideReversal) Kind() ActionType   { return ActionManualOverride }

func (e *Engine) pushEvent(now time.Time, ev ActionEvent) ActionEvent {
	e.eventSeq++
	ev.Seq = e.eventSeq
	ev.AuctionID = e.Auction.ID
	ev.CreatedAt = now
	e.Events = append(e.Events, ev)
	e.emit(OutAction, ev)
	return ev
}

// RecentEvents returns up to n most recent action events, newest first.
func (e *Engine) RecentEvents(n int) []ActionEvent {
	if n <= 0 || n > len(e.Events) {
		n = len(e.Events)
	}
	out := make([]ActionEvent, 0, n)
	for i := len(e.Events) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, e.Events[i])
	}
	return out
}

// undoCandidate finds the newest non-undone undoable event and how many
// undoable events directly above it have already been undone.
func (e *Engine) undoCandidate() (int, int) {
	undone := 0
	for i := len(e.Events) - 1; i >= 0; i-- {
		ev := e.Events[i]
		if !ev.Type.Undoable() {
			continue
		}
		if !ev.IsUndone {
			return i, undone
		}
		undone++
	}
	return -1, undone
}

// UndoLast reverses the most recent undoable action. Undo is itself recorded
// but can never be undone.
func (e *Engine) UndoLast(now time.Time, actor string) (ActionEvent, error) {
	a := e.Auction
	if a.Status != StatusLive && a.Status != StatusPaused {
		return ActionEvent{}, ErrInvalidStatus
	}
	if a.Bidding.Active() {
		return ActionEvent{}, ErrBiddingInProgress
	}
	idx, undone := e.undoCandidate()
	if undone >= a.Config.undoDepth() {
		return ActionEvent{}, ErrUndoDepthExceeded
	}
	if idx < 0 {
		return ActionEvent{}, ErrNothingToUndo
	}
	target := &e.Events[idx]
	if target.Reversal == nil || target.Reversal.Kind() != target.Type {
		return ActionEvent{}, ErrUndoConflict
	}
	teams, err := e.applyReversal(target.Reversal)
	if err != nil {
		return ActionEvent{}, err
	}
	target.IsUndone = true
	target.UndoneAt = now
	target.UndoneBy = actor
	undoneEv := *target

	e.pushEvent(now, ActionEvent{
		Type:  ActionUndo,
		Actor: actor,
		Forward: Forward{
			PlayerID: target.Forward.PlayerID,
			TeamID:   target.Forward.TeamID,
			Amount:   target.Forward.Amount,
			Reason:   string(target.Type),
			RefSeq:   target.Seq,
		},
	})
	e.audit(now, AuditEntry{
		Kind:     AuditUndo,
		PlayerID: target.Forward.PlayerID,
		TeamID:   target.Forward.TeamID,
		Amount:   target.Forward.Amount,
		Reason:   string(target.Type),
		Actor:    actor,
	})
	e.emitBidding(teams...)
	return undoneEv, nil
}

func (e *Engine) applyReversal(r Reversal) ([]string, error) {
	switch rev := r.(type) {
	case SaleReversal:
		return e.reverseSale(rev)
	case UnsoldReversal:
		return nil, e.reverseUnsold(rev)
	case DisqualifyReversal:
		return nil, e.reverseDisqualify(rev)
	case ReinstateReversal:
		return nil, e.reverseReinstate(rev)
	case OverrideReversal:
		return e.reverseOverride(rev)
	default:
		return nil, ErrUndoConflict
	}
}

func (e *Engine) reverseSale(rev SaleReversal) ([]string, error) {
	p, err := e.player(rev.PlayerID)
	if err != nil {
		return nil, err
	}
	t, err := e.team(rev.TeamID)
	if err != nil {
		return nil, err
	}
	if p.Status != PlayerSold || p.SoldTo != rev.TeamID || t.purchaseIndex(p.ID) < 0 {
		return nil, ErrUndoConflict
	}
	if err := Credit(t, rev.Amount); err != nil {
		return nil, ErrUndoConflict
	}
	t.removePurchase(p.ID)
	p.clearSale()
	p.Status = rev.PriorStatus
	p.RoundHistory = truncateHistory(p.RoundHistory, rev.HistoryLen)
	e.insertUndecided(p.ID, rev.UndecidedIndex)
	e.emitPurse(t, rev.Amount, PurseRefundCredit, "player", p.ID)
	return []string{t.ID}, nil
}

func (e *Engine) reverseUnsold(rev UnsoldReversal) error {
	p, err := e.player(rev.PlayerID)
	if err != nil {
		return err
	}
	if p.Status != PlayerUnsold {
		return ErrUndoConflict
	}
	p.Status = rev.PriorStatus
	p.RoundHistory = truncateHistory(p.RoundHistory, rev.HistoryLen)
	e.insertUndecided(p.ID, rev.UndecidedIndex)
	return nil
}

func (e *Engine) reverseDisqualify(rev DisqualifyReversal) error {
	p, err := e.player(rev.PlayerID)
	if err != nil {
		return err
	}
	if p.Status != rev.AppliedStatus {
		return ErrUndoConflict
	}
	p.Status = rev.PriorStatus
	p.StatusReason = rev.PriorReason
	if rev.UndecidedIndex >= 0 {
		e.insertUndecided(p.ID, rev.UndecidedIndex)
	}
	return nil
}

func (e *Engine) reverseReinstate(rev ReinstateReversal) error {
	p, err := e.player(rev.PlayerID)
	if err != nil {
		return err
	}
	if p.Status != PlayerPool {
		return ErrUndoConflict
	}
	p.Status = rev.PriorStatus
	p.StatusReason = rev.PriorReason
	e.removeUndecided(p.ID)
	return nil
}

func (e *Engine) reverseOverride(rev OverrideReversal) ([]string, error) {
	p, err := e.player(rev.PlayerID)
	if err != nil {
		return nil, err
	}
	if markOf(p) != rev.Applied {
		return nil, ErrUndoConflict
	}
	var refund, charge *Team
	if rev.Applied.SoldTo != "" {
		if refund, err = e.team(rev.Applied.SoldTo); err != nil {
			return nil, err
		}
		if refund.PurseRemaining+rev.Applied.SoldAmount > refund.PurseValue {
			return nil, ErrUndoConflict
		}
	}
	if rev.Prior.SoldTo != "" {
		if charge, err = e.team(rev.Prior.SoldTo); err != nil {
			return nil, err
		}
		if charge.PurseRemaining < rev.Prior.SoldAmount || SquadFull(charge, e.Auction.Config) {
			return nil, ErrUndoConflict
		}
	}
	var touched []string
	if refund != nil {
		_ = Credit(refund, rev.Applied.SoldAmount)
		refund.removePurchase(p.ID)
		e.emitPurse(refund, rev.Applied.SoldAmount, PurseRefundCredit, "player", p.ID)
		touched = append(touched, refund.ID)
	}
	e.removeUndecided(p.ID)
	if charge != nil {
		_ = Debit(charge, rev.Prior.SoldAmount)
		charge.Bought = append(charge.Bought, Purchase{PlayerID: p.ID, Price: rev.Prior.SoldAmount, Round: rev.Prior.SoldInRound})
		e.emitPurse(charge, -rev.Prior.SoldAmount, PurseSaleDebit, "player", p.ID)
		touched = append(touched, charge.ID)
	}
	p.Status = rev.Prior.Status
	p.SoldTo = rev.Prior.SoldTo
	p.SoldAmount = rev.Prior.SoldAmount
	p.SoldInRound = rev.Prior.SoldInRound
	p.StatusReason = rev.Prior.Reason
	if rev.UndecidedIndex >= 0 && rev.PriorRound == e.Auction.CurrentRound {
		e.insertUndecided(p.ID, rev.UndecidedIndex)
	}
	return touched, nil
}

func truncateHistory(h []RoundEntry, n int) []RoundEntry {
	if n < 0 || n >= len(h) {
		return h
	}
	return h[:n:n]
}
