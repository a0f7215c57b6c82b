package mercury

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// pruneInterval bounds how often idle limiters are swept.
const pruneInterval = time.Minute

// RateLimitConfig configures the RateLimit middleware. Zero-value Rate
// and Burst fall back to the DefaultConfig rate-limit section.
type RateLimitConfig struct {
	// Rate is the sustained requests-per-second budget per key.
	Rate float64

	// Burst is the instantaneous allowance per key.
	Burst int

	// KeyFunc derives the limiter key from a request. The default keys
	// by client IP.
	KeyFunc func(r *http.Request) string

	// OnLimit writes the over-limit response. The default is a 429 page
	// in the framework's text/html flavor.
	OnLimit func(w http.ResponseWriter, r *http.Request)

	// IdleAfter is how long an unseen key keeps its limiter (default: 5m).
	IdleAfter time.Duration
}

func (cfg RateLimitConfig) withDefaults() RateLimitConfig {
	fallback := DefaultConfig().RateLimit
	if cfg.Rate <= 0 {
		cfg.Rate = fallback.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = fallback.Burst
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	if cfg.OnLimit == nil {
		cfg.OnLimit = limitPage
	}
	if cfg.IdleAfter <= 0 {
		cfg.IdleAfter = 5 * time.Minute
	}
	return cfg
}

// RateLimit returns middleware enforcing a per-key token-bucket budget.
// Keys default to the client IP.
func RateLimit(cfg RateLimitConfig) Middleware {
	cfg = cfg.withDefaults()
	store := newLimiterStore(cfg.IdleAfter)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := store.acquire(cfg.KeyFunc(r), cfg.Rate, cfg.Burst)
			if !limiter.Allow() {
				w.Header().Set("Retry-After", strconv.FormatFloat(1/cfg.Rate, 'f', 0, 64))
				cfg.OnLimit(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitFromSettings builds the middleware from a loaded Config
// rate-limit section.
func RateLimitFromSettings(s RateLimitSettings) Middleware {
	return RateLimit(RateLimitConfig{Rate: s.Rate, Burst: s.Burst})
}

// limiterStore tracks one token bucket per key and sweeps idle entries
// during acquisition.
type limiterStore struct {
	mu        sync.Mutex
	entries   map[string]*clientLimiter
	idleAfter time.Duration
	lastSweep time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(idleAfter time.Duration) *limiterStore {
	return &limiterStore{
		entries:   make(map[string]*clientLimiter),
		idleAfter: idleAfter,
	}
}

// acquire returns the key's limiter, creating it on first sight and
// refreshing its idle clock.
func (s *limiterStore) acquire(key string, perSecond float64, burst int) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if now.Sub(s.lastSweep) >= pruneInterval {
		s.sweep(now)
	}

	entry, ok := s.entries[key]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
		s.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// sweep drops entries idle past the threshold. Callers hold the lock.
func (s *limiterStore) sweep(now time.Time) {
	for key, entry := range s.entries {
		if now.Sub(entry.lastSeen) > s.idleAfter {
			delete(s.entries, key)
		}
	}
	s.lastSweep = now
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func limitPage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusTooManyRequests)
	//nolint:errcheck // best-effort after WriteHeader
	fmt.Fprint(w, "<h1>too many requests</h1>\n")
}
