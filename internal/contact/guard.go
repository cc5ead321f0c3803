package contact

import (
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	DefaultMinFillTime  = 3 * time.Second
	DefaultRateBurst    = 3
	DefaultRateInterval = 10 * time.Minute
)

// GuardConfig tunes the abuse checks. Zero values select the defaults; a
// negative MinFillTime disables the fill time check.
type GuardConfig struct {
	MinFillTime time.Duration
	// RateBurst submissions are allowed per client, refilled one per
	// RateInterval/RateBurst.
	RateBurst    int
	RateInterval time.Duration
}

// Guard rejects submissions that look automated: a filled honeypot, a form
// sent faster than a person could type it, or too many posts from one client.
type Guard struct {
	cfg      GuardConfig
	mu       sync.Mutex
	limiters *gocache.Cache
}

// NewGuard builds a Guard. Idle client limiters expire after RateInterval.
func NewGuard(cfg GuardConfig) *Guard {
	if cfg.MinFillTime == 0 {
		cfg.MinFillTime = DefaultMinFillTime
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = DefaultRateBurst
	}
	if cfg.RateInterval <= 0 {
		cfg.RateInterval = DefaultRateInterval
	}
	return &Guard{
		cfg:      cfg,
		limiters: gocache.New(cfg.RateInterval, cfg.RateInterval),
	}
}

// Check screens sub on behalf of clientKey at now.
func (g *Guard) Check(clientKey string, sub Submission, now time.Time) error {
	if sub.Website != "" {
		return rejected("honeypot field filled", textCodeHoneypot)
	}
	if g.cfg.MinFillTime > 0 && sub.StartedAt != nil && !sub.StartedAt.IsZero() {
		if now.Sub(*sub.StartedAt) < g.cfg.MinFillTime {
			return rejected("form submitted too quickly", textCodeTooFast)
		}
	}
	if !g.limiter(clientKey).AllowN(now, 1) {
		return rateLimited(clientKey)
	}
	return nil
}

func (g *Guard) limiter(clientKey string) *rate.Limiter {
	key := strings.TrimSpace(clientKey)
	if key == "" {
		key = "anonymous"
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if cached, ok := g.limiters.Get(key); ok {
		g.limiters.SetDefault(key, cached)
		return cached.(*rate.Limiter)
	}
	every := g.cfg.RateInterval / time.Duration(g.cfg.RateBurst)
	limiter := rate.NewLimiter(rate.Every(every), g.cfg.RateBurst)
	g.limiters.SetDefault(key, limiter)
	return limiter
}
