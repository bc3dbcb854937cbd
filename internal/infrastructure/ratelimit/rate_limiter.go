package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttled actions.
const (
	ActionRefresh     = "refresh"
	ActionSendMessage = "send_message"
	ActionRequest     = "request"
)

// Rule is a token bucket: one token every Every, at most Burst saved up.
type Rule struct {
	Every time.Duration
	Burst int
}

// DefaultRules allows refreshPerMinute pull-to-refresh requests and ten
// messages per minute per user. Plain API requests get 120 per minute per
// client address.
func DefaultRules(refreshPerMinute int) map[string]Rule {
	if refreshPerMinute <= 0 {
		refreshPerMinute = 12
	}
	return map[string]Rule{
		ActionRefresh:     {Every: time.Minute / time.Duration(refreshPerMinute), Burst: refreshPerMinute},
		ActionSendMessage: {Every: 6 * time.Second, Burst: 10},
		ActionRequest:     {Every: 500 * time.Millisecond, Burst: 60},
	}
}

// fallbackRule applies to actions without a configured rule: 20 per minute.
var fallbackRule = Rule{Every: 3 * time.Second, Burst: 20}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one bucket per user and action.
type RateLimiter struct {
	rules   map[string]Rule
	buckets map[string]*bucket
	mutex   sync.Mutex
	now     func() time.Time
}

func NewRateLimiter(rules map[string]Rule) *RateLimiter {
	if rules == nil {
		rules = DefaultRules(0)
	}
	return &RateLimiter{
		rules:   rules,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow consumes a token for the user's action. When none is available it
// reports how long until the next one.
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	now := rl.now()
	b := rl.bucket(userID+":"+action, action, now)

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if wait := r.DelayFrom(now); wait > 0 {
		r.CancelAt(now)
		return false, wait
	}
	return true, 0
}

func (rl *RateLimiter) bucket(key, action string, now time.Time) *bucket {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		rule, ok := rl.rules[action]
		if !ok {
			rule = fallbackRule
		}
		b = &bucket{limiter: rate.NewLimiter(rate.Every(rule.Every), rule.Burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b
}

// Cleanup removes buckets idle for longer than maxIdle. An idle bucket is
// full again, so dropping it loses nothing.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > maxIdle {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) Len() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return len(rl.buckets)
}

// StartCleanupRoutine runs Cleanup every 30 minutes until ctx is done.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			case <-ctx.Done():
				return
			}
		}
	}()
}
