package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"player-auction/internal/mcpserver"
	"player-auction/internal/runtime"
	"player-auction/internal/store"
	"player-auction/internal/ws"
)

// NewRouter wires the auction API. st may be nil when running without
// persistence; wsSrv may be nil to disable the websocket endpoint.
func NewRouter(coord *runtime.Coordinator, wsSrv *ws.Server, st *store.Store) *chi.Mux {
	adminHandlers := NewAdminHandlers(coord, st)
	publicHandlers := NewPublicHandlers(coord)
	tradeHandlers := NewTradeHandlers(coord)
	mcpSrv := mcpserver.New(coord)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())
	r.With(APILogMiddleware()).MethodFunc(http.MethodOptions, "/mcp", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", "POST, GET, DELETE, OPTIONS")
		w.WriteHeader(http.StatusNoContent)
	})
	r.With(APILogMiddleware()).Method(http.MethodPost, "/mcp", mcpSrv.Handler())
	r.With(APILogMiddleware()).Method(http.MethodGet, "/mcp", mcpSrv.Handler())
	r.With(APILogMiddleware()).Method(http.MethodDelete, "/mcp", mcpSrv.Handler())
	if wsSrv != nil {
		r.Get("/ws", wsSrv.HandleWS)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Get("/auctions", publicHandlers.Auctions())
		r.With(BodyCaptureMiddleware(4096)).Post("/auctions", adminHandlers.CreateAuction())

		r.Route("/auctions/{auction_id}", func(r chi.Router) {
			r.Get("/", publicHandlers.State())
			r.Get("/purses", publicHandlers.Purses())
			r.Get("/audit", publicHandlers.Audit())
			r.Get("/events", publicHandlers.Events())
			r.Get("/reconcile", publicHandlers.Reconcile())
			r.Get("/stream", StreamHandler(coord))
			r.Post("/bids", publicHandlers.PlaceBid())

			r.Group(func(r chi.Router) {
				r.Use(BodyCaptureMiddleware(4096))
				r.Put("/config", adminHandlers.Configure())
				r.Post("/teams", adminHandlers.AddTeam())
				r.Post("/players", adminHandlers.AddPlayer())
				r.Post("/start", adminHandlers.Start())
				r.Post("/pause", adminHandlers.Pause())
				r.Post("/resume", adminHandlers.Resume())
				r.Post("/trade-window", adminHandlers.OpenTradeWindow())
				r.Post("/finalize", adminHandlers.Finalize())

				r.Post("/reveal", adminHandlers.RevealNext())
				r.Post("/void", adminHandlers.VoidCurrent())
				r.Post("/rounds/advance", adminHandlers.AdvanceRound())
				r.Post("/undo", adminHandlers.UndoLast())

				r.Post("/players/{player_id}/assign", adminHandlers.AssignDirect())
				r.Post("/players/{player_id}/return", adminHandlers.ReturnToPool())
				r.Post("/players/{player_id}/disqualify", adminHandlers.Disqualify())
				r.Post("/players/{player_id}/ineligible", adminHandlers.MarkIneligible())
				r.Post("/players/{player_id}/reinstate", adminHandlers.Reinstate())

				r.Post("/trades", tradeHandlers.Propose())
				r.Post("/trades/{trade_id}/accept", tradeHandlers.Accept())
				r.Post("/trades/{trade_id}/reject", tradeHandlers.Reject())
				r.Post("/trades/{trade_id}/withdraw", tradeHandlers.Withdraw())
				r.Post("/trades/{trade_id}/cancel", tradeHandlers.Cancel())
				r.Post("/trades/{trade_id}/execute", tradeHandlers.Execute())
			})
		})

		r.Get("/debug/vars", expvar.Handler().ServeHTTP)
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 64)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
