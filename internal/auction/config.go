package auction

import "time"

const (
	MinTimer              = 3 * time.Second
	MaxTimer              = 120 * time.Second
	DefaultMaxUndoActions = 3
)

// Tier maps bids up to and including UpTo to Increment. UpTo == 0 marks the
// open-ended last tier.
type Tier struct {
	UpTo      int64 `json:"up_to" yaml:"up_to"`
	Increment int64 `json:"increment" yaml:"increment"`
}

type Timers struct {
	RevealDelay time.Duration `json:"reveal_delay"`
	Bidding     time.Duration `json:"bidding"`
	BidReset    time.Duration `json:"bid_reset"`
	GoingOnce   time.Duration `json:"going_once"`
	GoingTwice  time.Duration `json:"going_twice"`
}

type Config struct {
	BasePrice              int64  `json:"base_price"`
	PurseValue             int64  `json:"purse_value"`
	Tiers                  []Tier `json:"tiers"`
	Timers                 Timers `json:"timers"`
	MinSquadSize           int    `json:"min_squad_size"`
	MaxSquadSize           int    `json:"max_squad_size"`
	MaxRounds              int    `json:"max_rounds"`
	MaxUndoActions         int    `json:"max_undo_actions"`
	TradeWindowHours       int    `json:"trade_window_hours"`
	MaxTradesPerTeam       int    `json:"max_trades_per_team"`
	PurseSettlementEnabled bool   `json:"purse_settlement_enabled"`
}

func DefaultTiers() []Tier {
	return []Tier{
		{UpTo: 100000, Increment: 10000},
		{UpTo: 500000, Increment: 25000},
		{UpTo: 0, Increment: 50000},
	}
}

func DefaultConfig() Config {
	return Config{
		BasePrice:  100000,
		PurseValue: 10000000,
		Tiers:      DefaultTiers(),
		Timers: Timers{
			RevealDelay: 3 * time.Second,
			Bidding:     30 * time.Second,
			BidReset:    15 * time.Second,
			GoingOnce:   5 * time.Second,
			GoingTwice:  5 * time.Second,
		},
		MinSquadSize:           11,
		MaxSquadSize:           15,
		MaxRounds:              2,
		MaxUndoActions:         DefaultMaxUndoActions,
		TradeWindowHours:       48,
		MaxTradesPerTeam:       2,
		PurseSettlementEnabled: true,
	}
}

func (c Config) Validate() error {
	if c.BasePrice <= 0 || c.PurseValue <= 0 || c.BasePrice > c.PurseValue {
		return ErrInvalidConfig
	}
	if c.MinSquadSize < 0 || c.MaxSquadSize <= 0 || c.MinSquadSize > c.MaxSquadSize {
		return ErrInvalidConfig
	}
	if c.MaxRounds < 1 || c.MaxUndoActions < 0 || c.TradeWindowHours < 0 || c.MaxTradesPerTeam < 0 {
		return ErrInvalidConfig
	}
	if err := validateTiers(c.Tiers); err != nil {
		return err
	}
	for _, d := range []time.Duration{c.Timers.Bidding, c.Timers.BidReset, c.Timers.GoingOnce, c.Timers.GoingTwice} {
		if d < MinTimer || d > MaxTimer {
			return ErrInvalidConfig
		}
	}
	if c.Timers.RevealDelay < 0 || c.Timers.RevealDelay > MaxTimer {
		return ErrInvalidConfig
	}
	return nil
}

func validateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return ErrInvalidConfig
	}
	var prev int64
	for i, t := range tiers {
		if t.Increment <= 0 {
			return ErrInvalidConfig
		}
		last := i == len(tiers)-1
		if !last && t.UpTo <= prev {
			return ErrInvalidConfig
		}
		if last && t.UpTo != 0 && t.UpTo <= prev {
			return ErrInvalidConfig
		}
		prev = t.UpTo
	}
	return nil
}

func (c Config) undoDepth() int {
	if c.MaxUndoActions == 0 {
		return DefaultMaxUndoActions
	}
	return c.MaxUndoActions
}

func (c Config) tradeWindow() time.Duration {
	return time.Duration(c.TradeWindowHours) * time.Hour
}
