package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"player-auction/internal/auction"
	"player-auction/internal/runtime"
)

type TradeHandlers struct {
	coord *runtime.Coordinator
}

func NewTradeHandlers(coord *runtime.Coordinator) *TradeHandlers {
	return &TradeHandlers{coord: coord}
}

type tradeBody struct {
	TeamID string `json:"team_id"`
	Reason string `json:"reason"`
}

func (h *TradeHandlers) Propose() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req runtime.ProposeTradeRequest
		if !decodeBody(w, r, &req) {
			return
		}
		tr, err := h.coord.ProposeTrade(r.Context(), auctionID(r), req)
		writeTrade(w, r, http.StatusCreated, tr, err)
	}
}

func (h *TradeHandlers) Accept() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body tradeBody
		if !decodeBody(w, r, &body) {
			return
		}
		tr, err := h.coord.AcceptTrade(r.Context(), auctionID(r), tradeID(r), body.TeamID)
		writeTrade(w, r, http.StatusOK, tr, err)
	}
}

func (h *TradeHandlers) Reject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body tradeBody
		if !decodeBody(w, r, &body) {
			return
		}
		tr, err := h.coord.RejectTrade(r.Context(), auctionID(r), tradeID(r), body.TeamID, body.Reason)
		writeTrade(w, r, http.StatusOK, tr, err)
	}
}

func (h *TradeHandlers) Withdraw() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body tradeBody
		if !decodeBody(w, r, &body) {
			return
		}
		tr, err := h.coord.WithdrawTrade(r.Context(), auctionID(r), tradeID(r), body.TeamID)
		writeTrade(w, r, http.StatusOK, tr, err)
	}
}

func (h *TradeHandlers) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body tradeBody
		if !decodeBody(w, r, &body) {
			return
		}
		tr, err := h.coord.CancelTrade(r.Context(), auctionID(r), tradeID(r), ActorFrom(r), body.Reason)
		writeTrade(w, r, http.StatusOK, tr, err)
	}
}

func (h *TradeHandlers) Execute() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tr, err := h.coord.ExecuteTrade(r.Context(), auctionID(r), tradeID(r), ActorFrom(r))
		writeTrade(w, r, http.StatusOK, tr, err)
	}
}

func tradeID(r *http.Request) string { return chi.URLParam(r, "trade_id") }

func writeTrade(w http.ResponseWriter, r *http.Request, status int, tr auction.Trade, err error) {
	if err != nil {
		writeOpError(w, r, err)
		return
	}
	metricAdminActionsTotal.Add(1)
	writeJSON(w, status, tr)
}
