package auction

import "time"

type RoundOutcome struct {
	Round     int  `json:"round"`
	Advanced  bool `json:"advanced"`
	Completed bool `json:"completed"`
	Requeued  int  `json:"requeued"`
}

// AdvanceRound closes the current round once its undecided list is empty.
func (e *Engine) AdvanceRound(now time.Time, actor string) (RoundOutcome, error) {
	a := e.Auction
	if a.Status != StatusLive && a.Status != StatusPaused {
		return RoundOutcome{}, ErrInvalidStatus
	}
	if a.Bidding.Active() {
		return RoundOutcome{}, ErrBiddingInProgress
	}
	if len(a.Undecided) > 0 {
		return RoundOutcome{}, ErrPoolNotEmpty
	}
	return e.advanceRound(now, actor)
}

// advanceRound requeues every unsold player into the next round while rounds
// remain, otherwise completes the auction. Base price is the same in every
// round.
func (e *Engine) advanceRound(now time.Time, actor string) (RoundOutcome, error) {
	a := e.Auction
	unsold := e.unsoldPlayers()
	if a.CurrentRound < a.Config.MaxRounds && len(unsold) > 0 {
		a.CurrentRound++
		a.Undecided = append(a.Undecided[:0], unsold...)
		a.UpdatedAt = now
		e.pushEvent(now, ActionEvent{
			Type:    ActionRoundAdvanced,
			Actor:   actor,
			Forward: Forward{Round: a.CurrentRound, Amount: int64(len(unsold)), Reason: "requeued_unsold"},
		})
		e.emit(OutAuctionStatus, StatusUpdate{AuctionID: a.ID, Status: a.Status, Round: a.CurrentRound})
		return RoundOutcome{Round: a.CurrentRound, Advanced: true, Requeued: len(unsold)}, nil
	}
	e.setStatus(now, StatusCompleted, actor)
	return RoundOutcome{Round: a.CurrentRound, Completed: true}, nil
}

func (e *Engine) unsoldPlayers() []string {
	var out []string
	for _, id := range e.playerOrder {
		if e.Players[id].Status == PlayerUnsold {
			out = append(out, id)
		}
	}
	return out
}
