package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"player-auction/internal/auction"
	"player-auction/internal/runtime"
	"player-auction/internal/store"
)

// AdminHandlers exposes auction setup, lifecycle and correction operations.
type AdminHandlers struct {
	coord *runtime.Coordinator
	store *store.Store
}

func NewAdminHandlers(coord *runtime.Coordinator, st *store.Store) *AdminHandlers {
	return &AdminHandlers{coord: coord, store: st}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "db": "disabled"})
			return
		}
		if err := h.store.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "db": "down"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "db": "up"})
	}
}

func (h *AdminHandlers) CreateAuction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req runtime.CreateAuctionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		state, err := h.coord.CreateAuction(r.Context(), req)
		if err != nil {
			writeOpError(w, r, err)
			return
		}
		metricAdminActionsTotal.Add(1)
		writeJSON(w, http.StatusCreated, state)
	}
}

func (h *AdminHandlers) Configure() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg auction.Config
		if !decodeBody(w, r, &cfg) {
			return
		}
		h.respond(w, r, h.coord.Configure(r.Context(), auctionID(r), cfg))
	}
}

func (h *AdminHandlers) AddTeam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req runtime.AddTeamRequest
		if !decodeBody(w, r, &req) {
			return
		}
		purse, err := h.coord.AddTeam(r.Context(), auctionID(r), req)
		if err != nil {
			writeOpError(w, r, err)
			return
		}
		metricAdminActionsTotal.Add(1)
		writeJSON(w, http.StatusCreated, purse)
	}
}

func (h *AdminHandlers) AddPlayer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req runtime.AddPlayerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		id, err := h.coord.AddPlayer(r.Context(), auctionID(r), req)
		if err != nil {
			writeOpError(w, r, err)
			return
		}
		metricAdminActionsTotal.Add(1)
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "player_id": id})
	}
}

func (h *AdminHandlers) Start() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.respond(w, r, h.coord.Start(r.Context(), auctionID(r), ActorFrom(r)))
	}
}

func (h *AdminHandlers) Pause() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.respond(w, r, h.coord.Pause(r.Context(), auctionID(r), ActorFrom(r)))
	}
}

func (h *AdminHandlers) Resume() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.respond(w, r, h.coord.Resume(r.Context(), auctionID(r), ActorFrom(r)))
	}
}

func (h *AdminHandlers) OpenTradeWindow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.respond(w, r, h.coord.OpenTradeWindow(r.Context(), auctionID(r), ActorFrom(r)))
	}
}

func (h *AdminHandlers) Finalize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.respond(w, r, h.coord.Finalize(r.Context(), auctionID(r), ActorFrom(r)))
	}
}

func (h *AdminHandlers) RevealNext() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			PlayerID string `json:"player_id"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		id, err := h.coord.RevealNext(r.Context(), auctionID(r), body.PlayerID, ActorFrom(r))
		if err != nil {
			writeOpError(w, r, err)
			return
		}
		metricAdminActionsTotal.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "player_id": id})
	}
}

func (h *AdminHandlers) VoidCurrent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body reasonBody
		if !decodeBody(w, r, &body) {
			return
		}
		h.respond(w, r, h.coord.VoidCurrent(r.Context(), auctionID(r), ActorFrom(r), body.Reason))
	}
}

func (h *AdminHandlers) AdvanceRound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := h.coord.AdvanceRound(r.Context(), auctionID(r), ActorFrom(r))
		if err != nil {
			writeOpError(w, r, err)
			return
		}
		metricAdminActionsTotal.Add(1)
		writeJSON(w, http.StatusOK, out)
	}
}

func (h *AdminHandlers) AssignDirect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			TeamID string `json:"team_id"`
			Amount int64  `json:"amount"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.TeamID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		h.respond(w, r, h.coord.AssignDirect(r.Context(), auctionID(r), playerID(r), body.TeamID, body.Amount, ActorFrom(r)))
	}
}

func (h *AdminHandlers) ReturnToPool() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.respond(w, r, h.coord.ReturnToPool(r.Context(), auctionID(r), playerID(r), ActorFrom(r)))
	}
}

func (h *AdminHandlers) Disqualify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body reasonBody
		if !decodeBody(w, r, &body) {
			return
		}
		h.respond(w, r, h.coord.Disqualify(r.Context(), auctionID(r), playerID(r), body.Reason, ActorFrom(r)))
	}
}

func (h *AdminHandlers) MarkIneligible() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body reasonBody
		if !decodeBody(w, r, &body) {
			return
		}
		h.respond(w, r, h.coord.MarkIneligible(r.Context(), auctionID(r), playerID(r), body.Reason, ActorFrom(r)))
	}
}

func (h *AdminHandlers) Reinstate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body reasonBody
		if !decodeBody(w, r, &body) {
			return
		}
		h.respond(w, r, h.coord.Reinstate(r.Context(), auctionID(r), playerID(r), body.Reason, ActorFrom(r)))
	}
}

func (h *AdminHandlers) UndoLast() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ev, err := h.coord.UndoLast(r.Context(), auctionID(r), ActorFrom(r))
		if err != nil {
			writeOpError(w, r, err)
			return
		}
		metricAdminActionsTotal.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "undone": ev})
	}
}

func (h *AdminHandlers) respond(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		writeOpError(w, r, err)
		return
	}
	metricAdminActionsTotal.Add(1)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type reasonBody struct {
	Reason string `json:"reason"`
}

func auctionID(r *http.Request) string { return chi.URLParam(r, "auction_id") }

func playerID(r *http.Request) string { return chi.URLParam(r, "player_id") }

// decodeBody accepts an empty body as the zero value.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
		return false
	}
	return true
}

func writeOpError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := runtime.MapError(err)
	metricAdminActionErrors.Add(1)
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("auction_id", auctionID(r)).
			Msg("auction operation failed")
	}
	WriteHTTPError(w, status, code)
}
