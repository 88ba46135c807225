package httptransport

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"player-auction/internal/auction"
	"player-auction/internal/runtime"
)

func TestRoutesRegistered(t *testing.T) {
	coord := runtime.NewCoordinator(nil, nil, runtime.Options{Defaults: auction.DefaultConfig()})
	defer coord.Close()
	router := NewRouter(coord, nil, nil)

	got := map[string]bool{}
	err := chi.Walk(router, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		got[method+" "+route] = true
		return nil
	})
	if err != nil {
		t.Fatalf("walk routes: %v", err)
	}

	for _, want := range []string{
		"GET /healthz",
		"GET /mcp",
		"POST /mcp",
		"GET /api/auctions",
		"POST /api/auctions",
		"GET /api/debug/vars",
		"GET /api/auctions/{auction_id}/stream",
		"GET /api/auctions/{auction_id}/audit",
		"GET /api/auctions/{auction_id}/reconcile",
		"POST /api/auctions/{auction_id}/bids",
		"PUT /api/auctions/{auction_id}/config",
		"POST /api/auctions/{auction_id}/reveal",
		"POST /api/auctions/{auction_id}/undo",
		"POST /api/auctions/{auction_id}/players/{player_id}/assign",
		"POST /api/auctions/{auction_id}/trades/{trade_id}/execute",
	} {
		if !got[want] {
			t.Fatalf("missing route %s", want)
		}
	}
	if got["GET /ws"] {
		t.Fatalf("websocket route registered without a server")
	}
}
