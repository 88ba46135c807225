package httptransport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"player-auction/internal/auction"
	"player-auction/internal/runtime"
	"player-auction/internal/ws"
)

func newTestServer(t *testing.T) (*httptest.Server, *runtime.Coordinator) {
	t.Helper()
	cfg := auction.DefaultConfig()
	cfg.Timers.RevealDelay = 0
	cfg.MinSquadSize = 1
	coord := runtime.NewCoordinator(nil, nil, runtime.Options{Defaults: cfg})
	wsSrv := ws.NewServer(coord, runtime.MapError)
	coord.SetPublisher(wsSrv)
	srv := httptest.NewServer(NewRouter(coord, wsSrv, nil))
	t.Cleanup(func() {
		srv.Close()
		wsSrv.Close()
		coord.Close()
	})
	return srv, coord
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", "auctioneer")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

// setupAuction creates auction a1 with teams T1, T2 and players P1, P2, and
// starts it.
func setupAuction(t *testing.T, base string) string {
	t.Helper()
	if code := doJSON(t, http.MethodPost, base+"/api/auctions", map[string]any{"id": "a1", "name": "Spring League"}, nil); code != http.StatusCreated {
		t.Fatalf("create auction status %d", code)
	}
	auc := base + "/api/auctions/a1"
	for _, id := range []string{"T1", "T2"} {
		if code := doJSON(t, http.MethodPost, auc+"/teams", map[string]any{"id": id, "name": "Team " + id}, nil); code != http.StatusCreated {
			t.Fatalf("add team %s status %d", id, code)
		}
	}
	for _, id := range []string{"P1", "P2"} {
		if code := doJSON(t, http.MethodPost, auc+"/players", map[string]any{"id": id, "name": "Player " + id, "role": "batter"}, nil); code != http.StatusCreated {
			t.Fatalf("add player %s status %d", id, code)
		}
	}
	if code := doJSON(t, http.MethodPost, auc+"/start", nil, nil); code != http.StatusOK {
		t.Fatalf("start status %d", code)
	}
	return auc
}

func TestHealthWithoutStore(t *testing.T) {
	srv, _ := newTestServer(t)
	var out map[string]any
	if code := doJSON(t, http.MethodGet, srv.URL+"/healthz", nil, &out); code != http.StatusOK {
		t.Fatalf("health status %d", code)
	}
	if out["db"] != "disabled" {
		t.Fatalf("unexpected health body %v", out)
	}
}

func TestBidFlowOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)
	auc := setupAuction(t, srv.URL)

	var revealed map[string]any
	if code := doJSON(t, http.MethodPost, auc+"/reveal", map[string]any{"player_id": "P1"}, &revealed); code != http.StatusOK {
		t.Fatalf("reveal status %d", code)
	}
	if revealed["player_id"] != "P1" {
		t.Fatalf("unexpected reveal %v", revealed)
	}

	var bid struct {
		Ok     bool              `json:"ok"`
		Error  string            `json:"error"`
		Result auction.BidResult `json:"result"`
	}
	if code := doJSON(t, http.MethodPost, auc+"/bids", map[string]any{"team_id": "T1", "amount": 100000}, &bid); code != http.StatusOK || !bid.Ok {
		t.Fatalf("opening bid status %d %+v", code, bid)
	}
	if bid.Result.NextMinimum != 110000 || bid.Result.LeaderID != "T1" {
		t.Fatalf("unexpected bid result %+v", bid.Result)
	}

	bid.Ok, bid.Error = false, ""
	code := doJSON(t, http.MethodPost, auc+"/bids", map[string]any{"team_id": "T2", "player_id": "P1", "amount": 105000}, &bid)
	if code != http.StatusBadRequest || bid.Ok || bid.Error != auction.ErrBidBelowIncrement.Error() {
		t.Fatalf("expected low bid rejected, got %d %+v", code, bid)
	}

	var state runtime.AuctionState
	if code := doJSON(t, http.MethodGet, auc, nil, &state); code != http.StatusOK {
		t.Fatalf("state status %d", code)
	}
	if state.Bidding.CurrentBid != 100000 || state.Bidding.CurrentTeamID != "T1" || state.Status != auction.StatusLive {
		t.Fatalf("unexpected state %+v", state.Bidding)
	}

	var audit struct {
		Items []auction.AuditEntry `json:"items"`
	}
	if code := doJSON(t, http.MethodGet, auc+"/audit?limit=2", nil, &audit); code != http.StatusOK {
		t.Fatalf("audit status %d", code)
	}
	if len(audit.Items) != 2 || audit.Items[0].Kind != auction.AuditBidRejected {
		t.Fatalf("expected newest audit entry first, got %+v", audit.Items)
	}
}

func TestAdminCorrectionsOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)
	auc := setupAuction(t, srv.URL)

	if code := doJSON(t, http.MethodPost, auc+"/players/P2/assign", map[string]any{"team_id": "T2", "amount": 250000}, nil); code != http.StatusOK {
		t.Fatalf("assign status %d", code)
	}
	var purses struct {
		Items []auction.TeamPurse `json:"items"`
	}
	doJSON(t, http.MethodGet, auc+"/purses", nil, &purses)
	var t2 auction.TeamPurse
	for _, p := range purses.Items {
		if p.TeamID == "T2" {
			t2 = p
		}
	}
	if t2.PurseRemaining != t2.PurseValue-250000 {
		t.Fatalf("unexpected purse after assign %+v", t2)
	}

	var undo struct {
		Ok     bool                `json:"ok"`
		Undone auction.ActionEvent `json:"undone"`
	}
	if code := doJSON(t, http.MethodPost, auc+"/undo", nil, &undo); code != http.StatusOK || !undo.Ok {
		t.Fatalf("undo status %d", code)
	}
	if undo.Undone.Forward.PlayerID != "P2" || !undo.Undone.IsUndone {
		t.Fatalf("unexpected undone event %+v", undo.Undone)
	}

	var events struct {
		Items []auction.ActionEvent `json:"items"`
	}
	doJSON(t, http.MethodGet, auc+"/events", nil, &events)
	if len(events.Items) == 0 || events.Items[0].Actor != "auctioneer" {
		t.Fatalf("expected actor from header, got %+v", events.Items)
	}
}

func TestErrorMapping(t *testing.T) {
	srv, _ := newTestServer(t)
	auc := setupAuction(t, srv.URL)

	var out map[string]any
	cases := []struct {
		method, path string
		body         any
		status       int
		code         string
	}{
		{http.MethodGet, "/api/auctions/nope", nil, http.StatusNotFound, auction.ErrAuctionNotFound.Error()},
		{http.MethodPost, "/api/auctions/a1/start", nil, http.StatusConflict, auction.ErrInvalidStatus.Error()},
		{http.MethodPost, "/api/auctions/a1/rounds/advance", nil, http.StatusConflict, auction.ErrPoolNotEmpty.Error()},
		{http.MethodPost, "/api/auctions/a1/players/P9/disqualify", map[string]any{"reason": "x"}, http.StatusNotFound, auction.ErrPlayerNotFound.Error()},
		{http.MethodPost, "/api/auctions/a1/undo", nil, http.StatusConflict, auction.ErrNothingToUndo.Error()},
		{http.MethodGet, "/api/auctions/a1/reconcile", nil, http.StatusServiceUnavailable, "ledger_unavailable"},
	}
	for _, tc := range cases {
		out = nil
		code := doJSON(t, tc.method, srv.URL+tc.path, tc.body, &out)
		if code != tc.status || out["error"] != tc.code {
			t.Fatalf("%s %s: got %d %v, want %d %s", tc.method, tc.path, code, out, tc.status, tc.code)
		}
	}

	req, _ := http.NewRequest(http.MethodPost, auc+"/teams", strings.NewReader("{"))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad json rejected, got %d", resp.StatusCode)
	}
}

func TestStreamReplaysAfterLastEventID(t *testing.T) {
	srv, coord := newTestServer(t)
	auc := setupAuction(t, srv.URL)

	buf, err := coord.Buffer("a1")
	if err != nil {
		t.Fatalf("buffer: %v", err)
	}
	all := buf.ReplayAfter("")
	if len(all) < 2 {
		t.Fatalf("expected buffered setup events, got %d", len(all))
	}
	last := all[len(all)-2].EventID

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, auc+"/stream", nil)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Last-Event-ID", last)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	sc := bufio.NewScanner(resp.Body)
	var ids []string
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "id: ") {
			ids = append(ids, strings.TrimPrefix(line, "id: "))
		}
		if line == "" && len(ids) == 1 {
			break
		}
	}
	want := all[len(all)-1].EventID
	if len(ids) != 1 || ids[0] != want {
		t.Fatalf("expected replay of %s only, got %v", want, ids)
	}
}

func TestParseLimitClamps(t *testing.T) {
	cases := []struct {
		q    string
		want int
	}{
		{"", 50},
		{"limit=10", 10},
		{"limit=0", 1},
		{"limit=9000", 500},
		{"limit=abc", 50},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/x?"+tc.q, nil)
		if got := ParseLimit(r); got != tc.want {
			t.Fatalf("%q = %d, want %d", tc.q, got, tc.want)
		}
	}
}
