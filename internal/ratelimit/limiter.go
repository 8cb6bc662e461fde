package ratelimit

import (
	"sync"
	"time"
)

// Policy is a named request budget: at most Limit requests per Window.
// Several policies can guard one request; all of them must admit it.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Decision is the outcome of checking one request against a policy set.
// On rejection, Policy names the budget that ran out. On admission, the
// reported Limit/Remaining/Reset describe the tightest remaining policy.
type Decision struct {
	Allowed    bool
	Policy     string
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	Reset      time.Time
}

type windowState struct {
	index int64
	count int
}

// Limiter tracks fixed-window counters per (client key, policy name) pair.
// State lives in process memory only and is lost on restart.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*windowState
	now     func() time.Time
}

func New() *Limiter {
	return NewWithClock(time.Now)
}

// NewWithClock injects the time source, used by tests to roll windows over.
func NewWithClock(now func() time.Time) *Limiter {
	return &Limiter{
		windows: make(map[string]*windowState),
		now:     now,
	}
}

func windowSeconds(p Policy) int64 {
	secs := int64(p.Window / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Check decides whether one request from key may proceed under every policy
// in the set. Consumption is all-or-nothing: counters are incremented only
// after every policy has admitted, so a rejection never charges any budget.
func (l *Limiter) Check(key string, policies []Policy) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	// First pass: would any policy reject?
	for _, p := range policies {
		secs := windowSeconds(p)
		index := now.Unix() / secs

		state, ok := l.windows[key+"|"+p.Name]
		if !ok || state.index != index {
			continue // fresh window, cannot be over budget
		}

		if state.count >= p.Limit {
			reset := time.Unix((index+1)*secs, 0)
			return Decision{
				Allowed:    false,
				Policy:     p.Name,
				Limit:      p.Limit,
				Remaining:  0,
				RetryAfter: reset.Sub(now),
				Reset:      reset,
			}
		}
	}

	// Second pass: consume one unit from every policy and report the
	// tightest budget for response headers.
	decision := Decision{Allowed: true}
	first := true

	for _, p := range policies {
		secs := windowSeconds(p)
		index := now.Unix() / secs

		mapKey := key + "|" + p.Name
		state, ok := l.windows[mapKey]
		if !ok {
			state = &windowState{}
			l.windows[mapKey] = state
		}
		if state.index != index {
			// Lazy reset on window rollover
			state.index = index
			state.count = 0
		}

		state.count++

		remaining := p.Limit - state.count
		if remaining < 0 {
			remaining = 0
		}

		if first || remaining < decision.Remaining {
			decision.Policy = p.Name
			decision.Limit = p.Limit
			decision.Remaining = remaining
			decision.Reset = time.Unix((index+1)*secs, 0)
			first = false
		}
	}

	return decision
}

// Remaining reports how many requests key may still make under p in the
// current window, without consuming anything.
func (l *Limiter) Remaining(key string, p Policy) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	secs := windowSeconds(p)
	index := l.now().Unix() / secs

	state, ok := l.windows[key+"|"+p.Name]
	if !ok || state.index != index {
		return p.Limit
	}

	remaining := p.Limit - state.count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
