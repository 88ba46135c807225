package runtime

import (
	"errors"
	"net/http"

	"player-auction/internal/auction"
	"player-auction/internal/store"
)

// MapError converts an operation error into an HTTP status and public code.
func MapError(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, ErrLedgerUnavailable):
		return http.StatusServiceUnavailable, "ledger_unavailable"
	case errors.Is(err, ErrPersistPending):
		return http.StatusServiceUnavailable, "persist_pending"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "auction_not_found"
	}
	code := auction.CodeOf(err)
	switch auction.KindOf(err) {
	case auction.KindValidation:
		return http.StatusBadRequest, code
	case auction.KindConflict, auction.KindState:
		return http.StatusConflict, code
	case auction.KindCapacity:
		return http.StatusUnprocessableEntity, code
	case auction.KindNotFound:
		return http.StatusNotFound, code
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
