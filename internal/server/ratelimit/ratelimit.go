// Package ratelimit provides per-client rate limiting for the HTTP API.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTTL is how long a bucket survives without requests.
const idleTTL = time.Hour

// Info describes the limit that applied to one request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

type bucket struct {
	lim      *rate.Limiter
	limit    int
	lastSeen time.Time
}

// Limiter keeps one token bucket per client, method and endpoint.
// Endpoints configured with a trailing slash share a bucket across their
// sub-paths, so polling many task ids draws from a single budget.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter. A nil config allows 1000 requests per minute
// per client and endpoint.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.sweepLoop(config.CleanupInterval)
	}
	return l
}

// Allow consumes one request for clientID on path and method.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	ep := l.endpoint(path, method)
	if ep.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	b := l.bucket(clientID+" "+method+" "+ep.Path, ep, now)
	allowed := b.lim.AllowN(now, 1)
	return allowed, b.info(now, allowed)
}

// endpoint returns the configured limit for a request, or the default limit
// keyed by the exact path.
func (l *Limiter) endpoint(path, method string) EndpointConfig {
	if ep := MatchEndpoint(path, method, l.config.EndpointConfigs); ep != nil {
		return *ep
	}
	return EndpointConfig{
		Path:   path,
		Method: method,
		Limit:  l.config.DefaultLimit,
		Window: l.config.DefaultWindow,
		Burst:  l.config.DefaultLimit,
	}
}

func (l *Limiter) bucket(key string, ep EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		burst := ep.Burst
		if burst <= 0 {
			burst = ep.Limit
		}
		window := ep.Window
		if window <= 0 {
			window = time.Minute
		}
		b = &bucket{
			lim:   rate.NewLimiter(rate.Every(window/time.Duration(ep.Limit)), burst),
			limit: ep.Limit,
		}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b
}

func (b *bucket) info(now time.Time, allowed bool) Info {
	tokens := b.lim.TokensAt(now)
	perSecond := float64(b.lim.Limit())

	info := Info{
		Allowed:   allowed,
		Limit:     b.limit,
		Remaining: max(int(tokens), 0),
		ResetTime: now,
	}
	if missing := float64(b.lim.Burst()) - tokens; missing > 0 {
		info.ResetTime = now.Add(seconds(missing / perSecond))
	}
	if !allowed {
		info.RetryAfter = seconds((1 - tokens) / perSecond)
	}
	return info
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (l *Limiter) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep(l.now().Add(-idleTTL))
		case <-l.stop:
			return
		}
	}
}

// sweep drops buckets last used before cutoff and returns how many went.
func (l *Limiter) sweep(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Stop ends the background sweep. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
