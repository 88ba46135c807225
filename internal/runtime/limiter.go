package runtime

import (
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// bidLimiter throttles bids per auction and team.
type bidLimiter struct {
	limit rate.Limit
	burst int

	mu    sync.Mutex
	byKey map[string]*rate.Limiter
}

// newBidLimiter returns nil, which allows everything, for a non-positive
// rate.
func newBidLimiter(perSec float64, burst int) *bidLimiter {
	if perSec <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &bidLimiter{limit: rate.Limit(perSec), burst: burst, byKey: map[string]*rate.Limiter{}}
}

func (l *bidLimiter) allow(auctionID, teamID string) bool {
	if l == nil {
		return true
	}
	key := auctionID + "/" + teamID
	l.mu.Lock()
	lim := l.byKey[key]
	if lim == nil {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.byKey[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

func (l *bidLimiter) forget(auctionID string) {
	if l == nil {
		return
	}
	prefix := auctionID + "/"
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := range l.byKey {
		if strings.HasPrefix(k, prefix) {
			delete(l.byKey, k)
		}
	}
}
