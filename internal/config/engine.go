package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"player-auction/internal/auction"
)

// EngineConfig holds the defaults applied to newly created auctions.
type EngineConfig struct {
	BasePrice      int64 `env:"AUCTION_BASE_PRICE" envDefault:"100000"`
	PurseValue     int64 `env:"AUCTION_PURSE_VALUE" envDefault:"10000000"`
	MinSquadSize   int   `env:"AUCTION_MIN_SQUAD" envDefault:"11"`
	MaxSquadSize   int   `env:"AUCTION_MAX_SQUAD" envDefault:"15"`
	MaxRounds      int   `env:"AUCTION_MAX_ROUNDS" envDefault:"2"`
	MaxUndoActions int   `env:"AUCTION_MAX_UNDO" envDefault:"3"`

	RevealDelay time.Duration `env:"AUCTION_REVEAL_DELAY" envDefault:"3s"`
	BiddingTime time.Duration `env:"AUCTION_BIDDING_TIME" envDefault:"30s"`
	BidReset    time.Duration `env:"AUCTION_BID_RESET" envDefault:"15s"`
	GoingOnce   time.Duration `env:"AUCTION_GOING_ONCE" envDefault:"5s"`
	GoingTwice  time.Duration `env:"AUCTION_GOING_TWICE" envDefault:"5s"`

	TradeWindowHours       int  `env:"TRADE_WINDOW_HOURS" envDefault:"48"`
	MaxTradesPerTeam       int  `env:"MAX_TRADES_PER_TEAM" envDefault:"2"`
	PurseSettlementEnabled bool `env:"PURSE_SETTLEMENT_ENABLED" envDefault:"true"`

	DefaultsPath string `env:"AUCTION_DEFAULTS_PATH"`
}

func LoadEngine() (EngineConfig, error) {
	var cfg EngineConfig
	err := env.Parse(&cfg)
	return cfg, err
}

// AuctionDefaults builds the auction configuration new auctions start from.
// A defaults file, when configured, overrides tiers and timers.
func (c EngineConfig) AuctionDefaults() (auction.Config, error) {
	cfg := auction.Config{
		BasePrice:  c.BasePrice,
		PurseValue: c.PurseValue,
		Tiers:      auction.DefaultTiers(),
		Timers: auction.Timers{
			RevealDelay: c.RevealDelay,
			Bidding:     c.BiddingTime,
			BidReset:    c.BidReset,
			GoingOnce:   c.GoingOnce,
			GoingTwice:  c.GoingTwice,
		},
		MinSquadSize:           c.MinSquadSize,
		MaxSquadSize:           c.MaxSquadSize,
		MaxRounds:              c.MaxRounds,
		MaxUndoActions:         c.MaxUndoActions,
		TradeWindowHours:       c.TradeWindowHours,
		MaxTradesPerTeam:       c.MaxTradesPerTeam,
		PurseSettlementEnabled: c.PurseSettlementEnabled,
	}
	if c.DefaultsPath != "" {
		var err error
		if cfg, err = LoadAuctionDefaults(c.DefaultsPath, cfg); err != nil {
			return auction.Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return auction.Config{}, err
	}
	return cfg, nil
}
