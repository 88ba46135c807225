package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	PostgresDSN   string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:":8080"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`

	BidRatePerSec float64 `env:"BID_RATE_PER_SEC" envDefault:"5"`
	BidBurst      int     `env:"BID_BURST" envDefault:"3"`

	TradeSweepInterval time.Duration `env:"TRADE_SWEEP_INTERVAL" envDefault:"1m"`
	EventBufferSize    int           `env:"EVENT_BUFFER_SIZE" envDefault:"500"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
