package cache

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTTL is how long a slice stays fresh after its last write.
const DefaultTTL = 5 * time.Minute

// Rule decides when a slice is refetched on mount. Always ignores the TTL
// and refetches every time.
type Rule struct {
	TTL    time.Duration
	Always bool
}

type Policy map[Kind]Rule

// DefaultPolicy reproduces the mobile client: the home feed is only refetched
// when empty or older than ttl, every other slice on every mount.
func DefaultPolicy(ttl time.Duration) Policy {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Policy{
		KindHome:      {TTL: ttl},
		KindMine:      {Always: true},
		KindFavorites: {Always: true},
		KindProfile:   {Always: true},
		KindChats:     {Always: true},
		KindMessages:  {Always: true},
	}
}

// RuleFor falls back to Always for kinds the policy does not name.
func (p Policy) RuleFor(kind Kind) Rule {
	if r, ok := p[kind]; ok {
		return r
	}
	return Rule{Always: true}
}

// ParsePolicy applies overrides of the form "favorites=10m,profile=always"
// on top of base. base is not modified.
func ParsePolicy(base Policy, overrides string) (Policy, error) {
	p := make(Policy, len(base))
	for k, r := range base {
		p[k] = r
	}

	for _, part := range strings.Split(overrides, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("cache policy %q: expected kind=ttl", part)
		}
		kind := Kind(strings.TrimSpace(name))
		if !kind.valid() {
			return nil, fmt.Errorf("cache policy %q: unknown slice kind %q", part, kind)
		}
		value = strings.TrimSpace(value)
		if value == "always" {
			p[kind] = Rule{Always: true}
			continue
		}
		ttl, err := time.ParseDuration(value)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("cache policy %q: invalid ttl %q", part, value)
		}
		p[kind] = Rule{TTL: ttl}
	}
	return p, nil
}

func (k Kind) valid() bool {
	switch k {
	case KindHome, KindMine, KindFavorites, KindProfile, KindChats, KindMessages:
		return true
	}
	return false
}
