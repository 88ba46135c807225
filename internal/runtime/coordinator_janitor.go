package runtime

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StartJanitor expires open trades once their window closes and retries
// saves that failed earlier. It stops with ctx.
func (c *Coordinator) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.ExpireTrades(ctx)
				if n := c.FlushPending(ctx); n > 0 {
					log.Warn().Int("auctions", n).Msg("unsaved auction changes remain")
				}
			}
		}
	}()
}
