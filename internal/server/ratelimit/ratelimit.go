// Package ratelimit provides per-client request rate limiting for the HTTP server.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	burst    int
	lastSeen time.Time
}

// Limiter tracks one token bucket per client and endpoint.
type Limiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	config    Config
	rules     []Rule
	whitelist map[string]bool
	now       func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a rate limiter. When enabled with a cleanup interval, a
// background goroutine evicts idle clients until Stop is called.
func NewLimiter(config Config) *Limiter {
	l := &Limiter{
		visitors:  make(map[string]*visitor),
		config:    config,
		rules:     config.Rules(),
		whitelist: make(map[string]bool, len(config.Whitelist)),
		now:       time.Now,
		stop:      make(chan struct{}),
	}
	for _, ip := range config.Whitelist {
		l.whitelist[ip] = true
	}

	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow reports whether a request from clientID to the endpoint may proceed.
func (l *Limiter) Allow(clientID, path, method string) Info {
	if !l.config.Enabled || l.whitelist[clientID] {
		return Info{Allowed: true}
	}

	rule := MatchRule(path, method, l.rules)
	if rule == nil {
		def := l.config.defaultRule()
		rule = &def
	}
	if rule.Limit <= 0 || rule.Window <= 0 {
		return Info{Allowed: true}
	}

	now := l.now()
	key := clientID + ":" + method + ":" + rule.Path
	if rule.Path == "" {
		key = clientID + ":" + method + ":" + path
	}
	v := l.visitor(key, *rule, now)

	info := Info{Limit: rule.Limit}
	if v.limiter.AllowN(now, 1) {
		info.Allowed = true
	} else {
		r := v.limiter.ReserveN(now, 1)
		if r.OK() {
			info.RetryAfter = r.DelayFrom(now)
			r.CancelAt(now)
		}
	}

	tokens := v.limiter.TokensAt(now)
	info.Remaining = max(int(tokens), 0)
	if missing := float64(v.burst) - tokens; missing > 0 {
		perToken := float64(rule.Window) / float64(rule.Limit)
		info.ResetTime = now.Add(time.Duration(missing * perToken))
	} else {
		info.ResetTime = now
	}
	return info
}

func (l *Limiter) visitor(key string, rule Rule, now time.Time) *visitor {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		burst := rule.Burst
		if burst <= 0 {
			burst = rule.Limit
		}
		v = &visitor{
			limiter: rate.NewLimiter(rate.Every(rule.Window/time.Duration(rule.Limit)), burst),
			burst:   burst,
		}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle()
		case <-l.stop:
			return
		}
	}
}

// evictIdle drops clients not seen within the idle TTL.
func (l *Limiter) evictIdle() {
	ttl := l.config.IdleTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	cutoff := l.now().Add(-ttl)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
		}
	}
}

// Stop stops the cleanup goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
