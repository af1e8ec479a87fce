// Package resilience provides a failure-ratio circuit breaker used to guard
// outbound calls to the message gateway.
package resilience

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrOpenCircuit is returned when the breaker refuses a call.
var ErrOpenCircuit = errors.New("resilience: circuit breaker open")

// State is the breaker state machine position.
type State int

const (
	// Closed passes all calls through and tracks failures.
	Closed State = iota
	// Open rejects calls until the cool-off period expires.
	Open
	// HalfOpen allows a single probe to test recovery.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Breaker opens when the failure ratio over a minimum sample of calls
// crosses the configured threshold, and probes recovery after a cool-off.
type Breaker struct {
	mu           sync.Mutex
	state        State
	failures     int
	successes    int
	minRequests  int
	failureRatio float64
	openedAt     time.Time
	openFor      time.Duration
	target       string
	log          zerolog.Logger
	now          func() time.Time
}

// NewBreaker constructs a closed breaker. Zero or out-of-range arguments fall
// back to one request minimum, a 0.5 ratio and a 30 second cool-off.
func NewBreaker(target string, minRequests int, failureRatio float64, openFor time.Duration, log zerolog.Logger) *Breaker {
	if minRequests <= 0 {
		minRequests = 1
	}
	if failureRatio <= 0 || failureRatio > 1 {
		failureRatio = 0.5
	}
	if openFor <= 0 {
		openFor = 30 * time.Second
	}
	return &Breaker{
		state:        Closed,
		minRequests:  minRequests,
		failureRatio: failureRatio,
		openFor:      openFor,
		target:       target,
		log:          log,
		now:          time.Now,
	}
}

// Allow reports whether a call may proceed. An open breaker permits one call
// after the cool-off and moves to half-open to sample the dependency.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Open {
		if b.now().Sub(b.openedAt) >= b.openFor {
			b.transitionLocked(HalfOpen)
			return true
		}
		return false
	}
	return true
}

// Report records a call outcome and advances the state machine.
func (b *Breaker) Report(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		return
	case HalfOpen:
		if success {
			b.transitionLocked(Closed)
		} else {
			b.transitionLocked(Open)
		}
		return
	}

	if success {
		b.successes++
	} else {
		b.failures++
	}

	total := b.failures + b.successes
	if total < b.minRequests {
		return
	}
	if float64(b.failures)/float64(total) >= b.failureRatio {
		b.transitionLocked(Open)
	} else if total > b.minRequests*2 {
		// halve the window so old outcomes age out
		b.successes /= 2
		b.failures /= 2
	}
}

// State returns the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) transitionLocked(next State) {
	prev := b.state
	if prev == next {
		return
	}
	b.state = next
	b.failures = 0
	b.successes = 0
	if next == Open {
		b.openedAt = b.now()
	} else {
		b.openedAt = time.Time{}
	}
	b.log.Info().
		Str("target", b.target).
		Str("from_state", prev.String()).
		Str("to_state", next.String()).
		Msg("breaker transition")
}

// Backoff returns an exponential backoff for the given attempt with jitter
// expressed as a fraction of the computed delay.
func Backoff(base time.Duration, attempt int, jitterPct float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	d := base * time.Duration(1<<uint(attempt-1))
	if jitterPct <= 0 {
		return d
	}
	delta := (rand.Float64()*2 - 1) * float64(d) * jitterPct
	return d + time.Duration(delta)
}
