package httptransport

import (
	"net/http"

	"player-auction/internal/runtime"
)

// PublicHandlers serves read models and team bids.
type PublicHandlers struct {
	coord *runtime.Coordinator
}

func NewPublicHandlers(coord *runtime.Coordinator) *PublicHandlers {
	return &PublicHandlers{coord: coord}
}

func (h *PublicHandlers) Auctions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": h.coord.List()})
	}
}

func (h *PublicHandlers) State() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := h.coord.State(auctionID(r))
		if err != nil {
			writeOpError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

func (h *PublicHandlers) Purses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.coord.Purses(auctionID(r))
		if err != nil {
			writeOpError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *PublicHandlers) Audit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := ParseLimit(r)
		items, err := h.coord.RecentAudit(r.Context(), auctionID(r), limit)
		if err != nil {
			writeOpError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "limit": limit})
	}
}

func (h *PublicHandlers) Events() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := ParseLimit(r)
		items, err := h.coord.RecentEvents(r.Context(), auctionID(r), limit)
		if err != nil {
			writeOpError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "limit": limit})
	}
}

func (h *PublicHandlers) Reconcile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.coord.Reconcile(r.Context(), auctionID(r))
		if err != nil {
			writeOpError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": len(items) == 0, "mismatches": items})
	}
}

func (h *PublicHandlers) PlaceBid() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			TeamID   string `json:"team_id"`
			PlayerID string `json:"player_id"`
			Amount   int64  `json:"amount"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.TeamID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		res, err := h.coord.PlaceBid(r.Context(), auctionID(r), body.TeamID, body.PlayerID, body.Amount)
		if err != nil {
			status, code := runtime.MapError(err)
			writeJSON(w, status, map[string]any{"ok": false, "error": code, "result": res})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "result": res})
	}
}
