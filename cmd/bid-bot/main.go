package main

import (
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"player-auction/internal/auction"
	"player-auction/internal/config"
	"player-auction/internal/logging"
	"player-auction/internal/ws"
)

// frame is the envelope of every server message.
type frame struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Ok    bool            `json:"ok"`
	Error string          `json:"error"`
}

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logCfg.Service = "bid-bot"
	logging.Init(logCfg)
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}

	u, err := url.Parse(cfg.WSURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid ws url")
	}
	q := u.Query()
	q.Set("auction_id", cfg.AuctionID)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("dial failed")
	}
	defer conn.Close()
	log.Info().Str("auction_id", cfg.AuctionID).Str("team_id", cfg.TeamID).Msg("bot connected")

	var seq int
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Info().Err(err).Msg("connection closed")
			return
		}
		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			continue
		}
		switch {
		case f.Type == "bid_result" && !f.Ok:
			log.Debug().Str("error", f.Error).Msg("bid rejected")
			continue
		case f.Type != "event" || f.Event != string(auction.OutBiddingState):
			continue
		}
		var up auction.BiddingUpdate
		if err := json.Unmarshal(f.Data, &up); err != nil {
			continue
		}
		amount, ok := decide(cfg, up)
		if !ok {
			continue
		}
		time.Sleep(cfg.Think)
		seq++
		msg, _ := json.Marshal(ws.BidMessage{
			Type:      "bid",
			RequestID: cfg.TeamID + "-" + strconv.Itoa(seq),
			AuctionID: cfg.AuctionID,
			TeamID:    cfg.TeamID,
			PlayerID:  up.Bidding.PlayerID,
			Amount:    amount,
		})
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Info().Err(err).Msg("write failed")
			return
		}
		log.Info().Str("player_id", up.Bidding.PlayerID).Int64("amount", amount).Msg("bid sent")
	}
}

// decide bids the next minimum while someone else leads and the price is
// within the bot's ceiling.
func decide(cfg config.BotConfig, up auction.BiddingUpdate) (int64, bool) {
	b := up.Bidding
	if up.Status != auction.StatusLive || !b.Phase.Biddable() {
		return 0, false
	}
	if b.CurrentTeamID == cfg.TeamID || up.NextMinimum <= 0 {
		return 0, false
	}
	if up.NextMinimum > cfg.MaxPrice {
		return 0, false
	}
	for _, t := range up.Teams {
		if t.TeamID == cfg.TeamID && t.MaxBid < up.NextMinimum {
			return 0, false
		}
	}
	return up.NextMinimum, true
}
