package auction

import (
	"slices"
	"time"
)

type BidResult struct {
	Accepted    bool   `json:"accepted"`
	Reason      string `json:"reason,omitempty"`
	CurrentBid  int64  `json:"current_bid"`
	LeaderID    string `json:"leader_id,omitempty"`
	NextMinimum int64  `json:"next_minimum"`
}

// RevealNext brings the next undecided player up for auction. An explicit
// playerID must be in the undecided list; an empty one picks the head of the
// list. An empty list first tries to advance the round.
func (e *Engine) RevealNext(now time.Time, playerID, actor string) (*Player, error) {
	a := e.Auction
	if a.Status != StatusLive {
		return nil, ErrAuctionNotLive
	}
	if a.Bidding.Active() {
		return nil, ErrBiddingInProgress
	}
	if len(a.Undecided) == 0 {
		out, err := e.advanceRound(now, actor)
		if err != nil {
			return nil, err
		}
		if out.Completed {
			return nil, ErrPoolExhausted
		}
	}
	idx := -1
	if playerID == "" {
		for i, id := range a.Undecided {
			if _, locked := e.locks[id]; !locked {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, ErrPlayerLocked
		}
	} else {
		idx = slices.Index(a.Undecided, playerID)
		if idx < 0 {
			if _, err := e.player(playerID); err != nil {
				return nil, err
			}
			return nil, ErrInvalidStatus
		}
		if _, locked := e.locks[playerID]; locked {
			return nil, ErrPlayerLocked
		}
	}
	p := e.Players[a.Undecided[idx]]
	a.Undecided = slices.Delete(a.Undecided, idx, idx+1)

	gen := a.Bidding.TimerGen + 1
	a.Bidding = BiddingState{
		PlayerID:    p.ID,
		Phase:       PhaseRevealed,
		History:     []Bid{},
		TimerGen:    gen,
		PriorStatus: p.Status,
		RevealIndex: idx,
	}
	p.Status = PlayerInAuction
	if d := a.Config.Timers.RevealDelay; d > 0 {
		a.Bidding.TimerExpiresAt = now.Add(d)
	} else {
		e.openBidding(now)
	}
	a.UpdatedAt = now
	e.pushEvent(now, ActionEvent{
		Type:    ActionPlayerRevealed,
		Actor:   actor,
		Forward: Forward{PlayerID: p.ID, Round: a.CurrentRound, FromStatus: string(a.Bidding.PriorStatus), ToStatus: string(PlayerInAuction)},
	})
	e.emitBidding()
	return p, nil
}

func (e *Engine) openBidding(now time.Time) {
	b := &e.Auction.Bidding
	b.Phase = PhaseOpen
	b.TimerExpiresAt = now.Add(e.Auction.Config.Timers.Bidding)
	b.TimerGen++
}

// PlaceBid validates and applies one bid as a single step. Every outcome,
// accepted or not, lands in the audit log.
func (e *Engine) PlaceBid(now time.Time, teamID, playerID string, amount int64) (BidResult, error) {
	if err := e.validateBid(teamID, playerID, amount); err != nil {
		return e.RejectBid(now, teamID, playerID, amount, err), err
	}
	a := e.Auction
	b := &a.Bidding
	b.CurrentBid = amount
	b.CurrentTeamID = teamID
	b.History = append(b.History, Bid{TeamID: teamID, Amount: amount, At: now})
	b.Phase = PhaseOpen
	b.TimerExpiresAt = now.Add(a.Config.Timers.BidReset)
	b.TimerGen++
	a.UpdatedAt = now
	e.audit(now, AuditEntry{
		Kind:     AuditBidAccepted,
		PlayerID: playerID,
		TeamID:   teamID,
		Amount:   amount,
	})
	e.emitBidding()
	res := e.bidResult()
	res.Accepted = true
	return res, nil
}

// RejectBid records a refused bid in the audit log. Callers that refuse a bid
// before it reaches validation use it so the refusal is still public.
func (e *Engine) RejectBid(now time.Time, teamID, playerID string, amount int64, reason error) BidResult {
	e.audit(now, AuditEntry{
		Kind:     AuditBidRejected,
		PlayerID: playerID,
		TeamID:   teamID,
		Amount:   amount,
		Reason:   reason.Error(),
	})
	res := e.bidResult()
	res.Reason = reason.Error()
	return res
}

func (e *Engine) validateBid(teamID, playerID string, amount int64) error {
	a := e.Auction
	b := a.Bidding
	t, err := e.team(teamID)
	if err != nil {
		return err
	}
	if a.Status != StatusLive {
		return ErrAuctionNotLive
	}
	if b.PlayerID == "" || b.PlayerID != playerID || !b.Phase.Biddable() {
		return ErrPlayerNotOpen
	}
	if b.CurrentTeamID == teamID {
		return ErrAlreadyLeading
	}
	if b.CurrentBid > 0 && amount <= b.CurrentBid {
		return ErrStaleBid
	}
	if amount < MinimumBid(b.CurrentBid, a.Config.BasePrice, a.Config.Tiers) {
		return ErrBidBelowIncrement
	}
	if SquadFull(t, a.Config) {
		return ErrSquadFull
	}
	if !CanAffordBase(t, a.Config.BasePrice) || amount > MaxBid(t, a.Config) {
		return ErrInsufficientPurse
	}
	return nil
}

// NextMinimum is the lowest amount the next bid on the current player may
// carry, or 0 when nobody is up.
func (e *Engine) NextMinimum() int64 { return e.nextMinimum() }

func (e *Engine) nextMinimum() int64 {
	b := e.Auction.Bidding
	if !b.Active() {
		return 0
	}
	return MinimumBid(b.CurrentBid, e.Auction.Config.BasePrice, e.Auction.Config.Tiers)
}

func (e *Engine) bidResult() BidResult {
	b := e.Auction.Bidding
	return BidResult{CurrentBid: b.CurrentBid, LeaderID: b.CurrentTeamID, NextMinimum: e.nextMinimum()}
}

// HandleTimer applies the phase expiry scheduled under generation gen. A
// firing for any other generation was superseded and changes nothing.
func (e *Engine) HandleTimer(now time.Time, gen int64) bool {
	a := e.Auction
	b := &a.Bidding
	if a.Status != StatusLive || gen != b.TimerGen || !b.Active() {
		return false
	}
	switch b.Phase {
	case PhaseRevealed:
		e.openBidding(now)
	case PhaseOpen:
		b.Phase = PhaseGoingOnce
		b.TimerExpiresAt = now.Add(a.Config.Timers.GoingOnce)
		b.TimerGen++
	case PhaseGoingOnce:
		b.Phase = PhaseGoingTwice
		b.TimerExpiresAt = now.Add(a.Config.Timers.GoingTwice)
		b.TimerGen++
	case PhaseGoingTwice:
		e.finishSession(now)
		return true
	default:
		return false
	}
	a.UpdatedAt = now
	e.emitBidding()
	return true
}

// finishSession closes the session as sold to the leader, or unsold when no
// bid was ever placed.
func (e *Engine) finishSession(now time.Time) {
	a := e.Auction
	b := a.Bidding
	p := e.Players[b.PlayerID]
	if b.CurrentBid > 0 {
		if t := e.Teams[b.CurrentTeamID]; t != nil && Debit(t, b.CurrentBid) == nil {
			e.recordSale(now, p, t, b)
			return
		}
	}
	e.recordUnsold(now, p, b)
}

func (e *Engine) recordSale(now time.Time, p *Player, t *Team, b BiddingState) {
	a := e.Auction
	histLen := len(p.RoundHistory)
	p.Status = PlayerSold
	p.SoldTo = t.ID
	p.SoldAmount = b.CurrentBid
	p.SoldInRound = a.CurrentRound
	p.RoundHistory = append(p.RoundHistory, RoundEntry{Round: a.CurrentRound, Result: RoundSold, HighestBid: b.CurrentBid, HighestBidTeam: t.ID})
	t.Bought = append(t.Bought, Purchase{PlayerID: p.ID, Price: b.CurrentBid, Round: a.CurrentRound})

	e.emitPurse(t, -b.CurrentBid, PurseSaleDebit, "player", p.ID)
	e.pushEvent(now, ActionEvent{
		Type:    ActionPlayerSold,
		Forward: Forward{PlayerID: p.ID, TeamID: t.ID, Amount: b.CurrentBid, Round: a.CurrentRound, FromStatus: string(b.PriorStatus), ToStatus: string(PlayerSold)},
		Reversal: SaleReversal{
			PlayerID:       p.ID,
			TeamID:         t.ID,
			Amount:         b.CurrentBid,
			PriorStatus:    b.PriorStatus,
			HistoryLen:     histLen,
			UndecidedIndex: b.RevealIndex,
		},
	})
	e.audit(now, AuditEntry{Kind: AuditPlayerSold, PlayerID: p.ID, TeamID: t.ID, Amount: b.CurrentBid})
	e.closeSession(now, PhaseSold)
}

func (e *Engine) recordUnsold(now time.Time, p *Player, b BiddingState) {
	a := e.Auction
	histLen := len(p.RoundHistory)
	p.Status = PlayerUnsold
	p.RoundHistory = append(p.RoundHistory, RoundEntry{Round: a.CurrentRound, Result: RoundUnsold, HighestBid: b.CurrentBid, HighestBidTeam: b.CurrentTeamID})
	e.pushEvent(now, ActionEvent{
		Type:    ActionPlayerUnsold,
		Forward: Forward{PlayerID: p.ID, Round: a.CurrentRound, FromStatus: string(b.PriorStatus), ToStatus: string(PlayerUnsold)},
		Reversal: UnsoldReversal{
			PlayerID:       p.ID,
			PriorStatus:    b.PriorStatus,
			HistoryLen:     histLen,
			UndecidedIndex: b.RevealIndex,
		},
	})
	e.audit(now, AuditEntry{Kind: AuditPlayerUnsold, PlayerID: p.ID, Amount: b.CurrentBid})
	e.closeSession(now, PhaseUnsold)
}

// closeSession publishes the final phase and returns the slot to waiting.
func (e *Engine) closeSession(now time.Time, final Phase) {
	a := e.Auction
	b := &a.Bidding
	b.Phase = final
	b.TimerExpiresAt = time.Time{}
	b.TimerGen++
	a.UpdatedAt = now
	e.emitBidding()
	a.Bidding = BiddingState{Phase: PhaseWaiting, History: []Bid{}, TimerGen: b.TimerGen}
	e.emitBidding()
}

// VoidCurrent discards the running session without a sale. The player goes
// back to where it was in the undecided list. Voiding is not undoable.
func (e *Engine) VoidCurrent(now time.Time, actor, reason string) error {
	a := e.Auction
	b := a.Bidding
	if !b.Active() {
		return ErrPlayerNotOpen
	}
	if a.Status != StatusLive && a.Status != StatusPaused {
		return ErrInvalidStatus
	}
	p := e.Players[b.PlayerID]
	p.Status = b.PriorStatus
	e.insertUndecided(p.ID, b.RevealIndex)
	e.pushEvent(now, ActionEvent{
		Type:    ActionBiddingVoided,
		Actor:   actor,
		Forward: Forward{PlayerID: p.ID, TeamID: b.CurrentTeamID, Amount: b.CurrentBid, Reason: reason},
	})
	e.audit(now, AuditEntry{
		Kind:     AuditBidVoided,
		PlayerID: p.ID,
		TeamID:   b.CurrentTeamID,
		Amount:   b.CurrentBid,
		Reason:   reason,
		Actor:    actor,
	})
	a.Bidding = BiddingState{Phase: PhaseWaiting, History: []Bid{}, TimerGen: b.TimerGen + 1}
	a.UpdatedAt = now
	e.emitBidding()
	return nil
}
