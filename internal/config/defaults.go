package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"player-auction/internal/auction"
)

type defaultsFile struct {
	Tiers  []auction.Tier `yaml:"tiers"`
	Timers struct {
		RevealDelay *time.Duration `yaml:"reveal_delay"`
		Bidding     *time.Duration `yaml:"bidding"`
		BidReset    *time.Duration `yaml:"bid_reset"`
		GoingOnce   *time.Duration `yaml:"going_once"`
		GoingTwice  *time.Duration `yaml:"going_twice"`
	} `yaml:"timers"`
}

// LoadAuctionDefaults overlays the increment tiers and timers found in the
// YAML file at path onto base. Keys absent from the file keep base values.
func LoadAuctionDefaults(path string, base auction.Config) (auction.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return auction.Config{}, fmt.Errorf("config.LoadAuctionDefaults: read %q: %w", path, err)
	}
	var f defaultsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return auction.Config{}, fmt.Errorf("config.LoadAuctionDefaults: parse YAML: %w", err)
	}
	cfg := base
	if len(f.Tiers) > 0 {
		cfg.Tiers = f.Tiers
	}
	for _, o := range []struct {
		src *time.Duration
		dst *time.Duration
	}{
		{f.Timers.RevealDelay, &cfg.Timers.RevealDelay},
		{f.Timers.Bidding, &cfg.Timers.Bidding},
		{f.Timers.BidReset, &cfg.Timers.BidReset},
		{f.Timers.GoingOnce, &cfg.Timers.GoingOnce},
		{f.Timers.GoingTwice, &cfg.Timers.GoingTwice},
	} {
		if o.src != nil {
			*o.dst = *o.src
		}
	}
	return cfg, nil
}
