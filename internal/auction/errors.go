package auction

import "errors"

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindState      ErrorKind = "state"
	KindCapacity   ErrorKind = "capacity"
	KindNotFound   ErrorKind = "not_found"
	KindInternal   ErrorKind = "internal"
)

// Bid rejection reasons. Their codes are shown publicly in the audit log.
var (
	ErrAuctionNotLive    = errors.New("auction_not_live")
	ErrPlayerNotOpen     = errors.New("player_not_open")
	ErrAlreadyLeading    = errors.New("already_leading")
	ErrStaleBid          = errors.New("stale_bid")
	ErrBidBelowIncrement = errors.New("bid_below_increment")
	ErrInsufficientPurse = errors.New("insufficient_purse")
	ErrSquadFull         = errors.New("squad_full")
)

var (
	ErrInvalidConfig     = errors.New("invalid_config")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrBiddingInProgress = errors.New("bidding_in_progress")
	ErrPoolExhausted     = errors.New("pool_exhausted")
	ErrPoolNotEmpty      = errors.New("pool_not_empty")
	ErrPlayerLocked      = errors.New("player_locked")
	ErrPlayerNotOwned    = errors.New("player_not_owned")
	ErrPlayerIneligible  = errors.New("player_ineligible")
	ErrPurseOverflow     = errors.New("purse_overflow")
	ErrNothingToUndo     = errors.New("nothing_to_undo")
	ErrUndoDepthExceeded = errors.New("undo_depth_exceeded")
	ErrUndoConflict      = errors.New("undo_conflict")
	ErrTradeWindowClosed = errors.New("trade_window_closed")
	ErrTradeCapExceeded  = errors.New("trade_cap_exceeded")
	ErrInvalidTrade      = errors.New("invalid_trade")
	ErrTradeNotPending   = errors.New("trade_not_pending")
	ErrTradeNotAgreed    = errors.New("trade_not_agreed")
	ErrNotTradeParty     = errors.New("not_trade_party")
	ErrDuplicateID       = errors.New("duplicate_id")

	ErrAuctionNotFound = errors.New("auction_not_found")
	ErrTeamNotFound    = errors.New("team_not_found")
	ErrPlayerNotFound  = errors.New("player_not_found")
	ErrTradeNotFound   = errors.New("trade_not_found")
)

var errorKinds = map[error]ErrorKind{
	ErrAuctionNotLive:    KindState,
	ErrPlayerNotOpen:     KindState,
	ErrAlreadyLeading:    KindValidation,
	ErrStaleBid:          KindConflict,
	ErrBidBelowIncrement: KindValidation,
	ErrInsufficientPurse: KindValidation,
	ErrSquadFull:         KindValidation,

	ErrInvalidConfig:     KindValidation,
	ErrInvalidAmount:     KindValidation,
	ErrInvalidStatus:     KindState,
	ErrBiddingInProgress: KindState,
	ErrPoolExhausted:     KindState,
	ErrPoolNotEmpty:      KindState,
	ErrPlayerLocked:      KindConflict,
	ErrPlayerNotOwned:    KindValidation,
	ErrPlayerIneligible:  KindValidation,
	ErrPurseOverflow:     KindValidation,
	ErrNothingToUndo:     KindState,
	ErrUndoDepthExceeded: KindCapacity,
	ErrUndoConflict:      KindConflict,
	ErrTradeWindowClosed: KindState,
	ErrTradeCapExceeded:  KindCapacity,
	ErrInvalidTrade:      KindValidation,
	ErrTradeNotPending:   KindState,
	ErrTradeNotAgreed:    KindState,
	ErrNotTradeParty:     KindValidation,
	ErrDuplicateID:       KindConflict,
	ErrInvalidField:      KindValidation,

	ErrAuctionNotFound: KindNotFound,
	ErrTeamNotFound:    KindNotFound,
	ErrPlayerNotFound:  KindNotFound,
	ErrTradeNotFound:   KindNotFound,
}

// KindOf classifies err into the engine's error taxonomy.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for target, k := range errorKinds {
		if errors.Is(err, target) {
			return k
		}
	}
	return KindInternal
}

// CodeOf returns the public code of the sentinel err wraps, or
// "internal_error".
func CodeOf(err error) string {
	for target := range errorKinds {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "internal_error"
}
