package ratelimiter

import (
	"sync"
	"time"

	"github.com/SengHong/CertSend/internal/config"
	"go.uber.org/zap"
)

// FixedWindowRateLimiter counts requests per client over a fixed time frame.
type FixedWindowRateLimiter struct {
	cfg    config.RateLimiterConfig
	logger *zap.SugaredLogger

	mu      sync.Mutex
	clients map[string]*window
}

type window struct {
	count   int
	startAt time.Time
}

func NewRateLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[string]*window),
	}
}

// Allow reports whether the client may proceed, and when not, how long until
// its window resets.
func (rl *FixedWindowRateLimiter) Allow(clientID string) (bool, time.Duration) {
	if !rl.cfg.Enabled {
		return true, 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.clients[clientID]
	if !ok || now.Sub(w.startAt) >= rl.cfg.TimeFrame {
		rl.clients[clientID] = &window{count: 1, startAt: now}
		return true, 0
	}

	if w.count >= rl.cfg.RequestsPerTimeFrame {
		retryAfter := rl.cfg.TimeFrame - now.Sub(w.startAt)
		rl.logger.Debugf("Rate limit hit for %s, retry after %s", clientID, retryAfter)
		return false, retryAfter
	}

	w.count++
	return true, 0
}
