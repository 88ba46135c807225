package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// BotConfig drives the bid-bot, a websocket client bidding for one team.
type BotConfig struct {
	WSURL     string        `env:"WS_URL" envDefault:"ws://localhost:8080/ws"`
	AuctionID string        `env:"AUCTION_ID,required"`
	TeamID    string        `env:"TEAM_ID,required"`
	MaxPrice  int64         `env:"BOT_MAX_PRICE" envDefault:"500000"`
	Think     time.Duration `env:"BOT_THINK" envDefault:"750ms"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
