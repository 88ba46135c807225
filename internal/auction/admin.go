package auction

import "time"

func (e *Engine) adminPlayer(playerID string) (*Player, error) {
	a := e.Auction
	if a.Status != StatusLive && a.Status != StatusPaused {
		return nil, ErrInvalidStatus
	}
	if a.Bidding.Active() {
		return nil, ErrBiddingInProgress
	}
	p, err := e.player(playerID)
	if err != nil {
		return nil, err
	}
	if _, locked := e.locks[playerID]; locked {
		return nil, ErrPlayerLocked
	}
	return p, nil
}

// AssignDirect sells a pool or unsold player to team outside live bidding.
func (e *Engine) AssignDirect(now time.Time, playerID, teamID string, amount int64, actor string) error {
	p, err := e.adminPlayer(playerID)
	if err != nil {
		return err
	}
	t, err := e.team(teamID)
	if err != nil {
		return err
	}
	if p.Status != PlayerPool && p.Status != PlayerUnsold {
		return ErrInvalidStatus
	}
	if amount < 0 {
		return ErrInvalidAmount
	}
	if SquadFull(t, e.Auction.Config) {
		return ErrSquadFull
	}
	prior := markOf(p)
	if err := Debit(t, amount); err != nil {
		return err
	}
	round := e.Auction.CurrentRound
	idx := e.removeUndecided(p.ID)
	p.Status = PlayerSold
	p.SoldTo = t.ID
	p.SoldAmount = amount
	p.SoldInRound = round
	p.StatusReason = ""
	t.Bought = append(t.Bought, Purchase{PlayerID: p.ID, Price: amount, Round: round})

	e.emitPurse(t, -amount, PurseSaleDebit, "player", p.ID)
	e.pushEvent(now, ActionEvent{
		Type:    ActionManualOverride,
		Actor:   actor,
		Forward: Forward{PlayerID: p.ID, TeamID: t.ID, Amount: amount, Round: round, FromStatus: string(prior.Status), ToStatus: string(PlayerSold), Reason: "assign_direct"},
		Reversal: OverrideReversal{
			PlayerID:       p.ID,
			Prior:          prior,
			Applied:        markOf(p),
			PriorRound:     round,
			UndecidedIndex: idx,
		},
	})
	e.emitBidding(t.ID)
	return nil
}

// ReturnToPool puts a sold or unsold player back into the current round,
// refunding the buyer of a sold player.
func (e *Engine) ReturnToPool(now time.Time, playerID, actor string) error {
	p, err := e.adminPlayer(playerID)
	if err != nil {
		return err
	}
	if p.Status != PlayerSold && p.Status != PlayerUnsold {
		return ErrInvalidStatus
	}
	prior := markOf(p)
	var buyer *Team
	if p.Status == PlayerSold {
		if buyer, err = e.team(p.SoldTo); err != nil {
			return err
		}
		if err := Credit(buyer, p.SoldAmount); err != nil {
			return err
		}
		buyer.removePurchase(p.ID)
		e.emitPurse(buyer, p.SoldAmount, PurseRefundCredit, "player", p.ID)
	}
	p.clearSale()
	p.Status = PlayerPool
	p.StatusReason = ""
	e.insertUndecided(p.ID, -1)

	touched := []string{}
	if buyer != nil {
		touched = append(touched, buyer.ID)
	}
	e.pushEvent(now, ActionEvent{
		Type:    ActionManualOverride,
		Actor:   actor,
		Forward: Forward{PlayerID: p.ID, TeamID: prior.SoldTo, Amount: prior.SoldAmount, Round: e.Auction.CurrentRound, FromStatus: string(prior.Status), ToStatus: string(PlayerPool), Reason: "return_to_pool"},
		Reversal: OverrideReversal{
			PlayerID:       p.ID,
			Prior:          prior,
			Applied:        markOf(p),
			PriorRound:     e.Auction.CurrentRound,
			UndecidedIndex: -1,
		},
	})
	e.emitBidding(touched...)
	return nil
}

// Disqualify removes a pool or unsold player from contention.
func (e *Engine) Disqualify(now time.Time, playerID, reason, actor string) error {
	return e.exclude(now, playerID, reason, actor, PlayerDisqualified)
}

// MarkIneligible is Disqualify for players who fail an eligibility rule.
func (e *Engine) MarkIneligible(now time.Time, playerID, reason, actor string) error {
	return e.exclude(now, playerID, reason, actor, PlayerIneligible)
}

func (e *Engine) exclude(now time.Time, playerID, reason, actor string, to PlayerStatus) error {
	p, err := e.excludablePlayer(playerID)
	if err != nil {
		return err
	}
	if p.Status != PlayerPool && p.Status != PlayerUnsold {
		return ErrInvalidStatus
	}
	prior := p.Status
	priorReason := p.StatusReason
	idx := e.removeUndecided(p.ID)
	p.Status = to
	p.StatusReason = reason
	e.pushEvent(now, ActionEvent{
		Type:    ActionPlayerDisqualified,
		Actor:   actor,
		Forward: Forward{PlayerID: p.ID, FromStatus: string(prior), ToStatus: string(to), Reason: reason},
		Reversal: DisqualifyReversal{
			PlayerID:       p.ID,
			PriorStatus:    prior,
			PriorReason:    priorReason,
			AppliedStatus:  to,
			UndecidedIndex: idx,
		},
	})
	e.emitBidding()
	return nil
}

// Reinstate returns a disqualified or ineligible player to the pool.
func (e *Engine) Reinstate(now time.Time, playerID, reason, actor string) error {
	p, err := e.excludablePlayer(playerID)
	if err != nil {
		return err
	}
	if p.Status != PlayerDisqualified && p.Status != PlayerIneligible {
		return ErrInvalidStatus
	}
	prior := p.Status
	priorReason := p.StatusReason
	p.Status = PlayerPool
	p.StatusReason = reason
	idx := -1
	if s := e.Auction.Status; s == StatusLive || s == StatusPaused {
		e.insertUndecided(p.ID, -1)
		idx = len(e.Auction.Undecided) - 1
	}
	e.pushEvent(now, ActionEvent{
		Type:    ActionPlayerReinstated,
		Actor:   actor,
		Forward: Forward{PlayerID: p.ID, FromStatus: string(prior), ToStatus: string(PlayerPool), Reason: reason},
		Reversal: ReinstateReversal{
			PlayerID:       p.ID,
			PriorStatus:    prior,
			PriorReason:    priorReason,
			UndecidedIndex: idx,
		},
	})
	e.emitBidding()
	return nil
}

// excludablePlayer allows roster preparation before the auction goes live.
func (e *Engine) excludablePlayer(playerID string) (*Player, error) {
	switch e.Auction.Status {
	case StatusDraft, StatusConfigured:
		p, err := e.player(playerID)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return e.adminPlayer(playerID)
}
