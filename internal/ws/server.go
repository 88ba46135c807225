package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"player-auction/internal/auction"
	"player-auction/internal/stream"
)

const maxRequestIDLen = 64

// Bidder places a bid on a live auction on behalf of a team.
type Bidder interface {
	PlaceBid(ctx context.Context, auctionID, teamID, playerID string, amount int64) (auction.BidResult, error)
	Exists(auctionID string) bool
}

type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	auctionID string
}

// Server fans engine events out to websocket clients subscribed per auction
// and routes their bids into the runtime.
type Server struct {
	bidder   Bidder
	mapError func(error) (int, string)
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	rooms    map[string]map[*Client]bool
}

func NewServer(bidder Bidder, mapError func(error) (int, string)) *Server {
	return &Server{
		bidder:   bidder,
		mapError: mapError,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		rooms:    map[string]map[*Client]bool{},
	}
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("ws_upgrade_failed")
		return
	}
	c := &Client{conn: conn, send: make(chan []byte, 64)}
	if id := r.URL.Query().Get("auction_id"); id != "" {
		s.spectate(c, id)
	}
	go s.writeLoop(c)
	s.readLoop(r.Context(), c)
}

func (s *Server) readLoop(ctx context.Context, c *Client) {
	defer func() {
		s.unregister(c)
		_ = c.conn.Close()
	}()
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var base struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &base); err != nil {
			continue
		}
		switch base.Type {
		case "spectate":
			var req SpectateMessage
			if err := json.Unmarshal(msg, &req); err != nil {
				continue
			}
			s.handleSpectate(c, req)
		case "bid":
			s.handleBid(ctx, c, msg)
		}
	}
}

func (s *Server) writeLoop(c *Client) {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			_ = c.conn.Close()
			return
		}
	}
}

func (s *Server) handleSpectate(c *Client, req SpectateMessage) {
	if req.AuctionID == "" || (s.bidder != nil && !s.bidder.Exists(req.AuctionID)) {
		s.reply(c, SpectateResult{Type: "spectate_result", ProtocolVersion: ProtocolVersion, Error: "auction_not_found"})
		return
	}
	s.spectate(c, req.AuctionID)
	s.reply(c, SpectateResult{Type: "spectate_result", ProtocolVersion: ProtocolVersion, Ok: true, AuctionID: req.AuctionID})
}

func (s *Server) handleBid(ctx context.Context, c *Client, msg []byte) {
	var bid BidMessage
	if err := json.Unmarshal(msg, &bid); err != nil {
		s.reply(c, BidResult{Type: "bid_result", ProtocolVersion: ProtocolVersion, Error: "invalid_request"})
		return
	}
	res := BidResult{Type: "bid_result", ProtocolVersion: ProtocolVersion, RequestID: bid.RequestID}
	if bid.RequestID == "" || len(bid.RequestID) > maxRequestIDLen {
		res.Error = "invalid_request_id"
		s.reply(c, res)
		return
	}
	auctionID := bid.AuctionID
	if auctionID == "" {
		auctionID = s.subscription(c)
	}
	if auctionID == "" || bid.TeamID == "" {
		res.Error = "invalid_request"
		s.reply(c, res)
		return
	}
	out, err := s.bidder.PlaceBid(ctx, auctionID, bid.TeamID, bid.PlayerID, bid.Amount)
	res.Ok = err == nil
	res.Result = &out
	if err != nil {
		_, res.Error = s.mapError(err)
	}
	s.reply(c, res)
}

func (s *Server) reply(c *Client, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	safeSend(c.send, b)
}

// Publish sends one buffered stream event to every subscriber of its auction.
func (s *Server) Publish(ev stream.StreamEvent) {
	b, err := json.Marshal(Event{
		Type:            "event",
		ProtocolVersion: ProtocolVersion,
		AuctionID:       ev.AuctionID,
		EventID:         ev.EventID,
		Event:           ev.Event,
		ServerTS:        ev.ServerTS,
		Data:            ev.Data,
	})
	if err != nil {
		log.Error().Err(err).Str("auction_id", ev.AuctionID).Msg("ws_encode_failed")
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.rooms[ev.AuctionID] {
		safeSend(c.send, b)
	}
}

// Subscribers reports how many clients follow an auction.
func (s *Server) Subscribers(auctionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms[auctionID])
}

func (s *Server) spectate(c *Client, auctionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveLocked(c)
	c.auctionID = auctionID
	room := s.rooms[auctionID]
	if room == nil {
		room = map[*Client]bool{}
		s.rooms[auctionID] = room
	}
	room[c] = true
}

func (s *Server) subscription(c *Client) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return c.auctionID
}

func (s *Server) leaveLocked(c *Client) {
	if c.auctionID == "" {
		return
	}
	if room := s.rooms[c.auctionID]; room != nil {
		delete(room, c)
		if len(room) == 0 {
			delete(s.rooms, c.auctionID)
		}
	}
	c.auctionID = ""
}

func (s *Server) unregister(c *Client) {
	s.mu.Lock()
	s.leaveLocked(c)
	s.mu.Unlock()
	safeClose(c.send)
}

// Close drops every client.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, room := range s.rooms {
		for c := range room {
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"), time.Now().Add(time.Second))
			_ = c.conn.Close()
		}
		delete(s.rooms, id)
	}
}

func safeSend(ch chan []byte, msg []byte) {
	defer func() { _ = recover() }()
	select {
	case ch <- msg:
	default:
	}
}

func safeClose(ch chan []byte) {
	defer func() { _ = recover() }()
	close(ch)
}
