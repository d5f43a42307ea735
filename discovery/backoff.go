package discovery

import (
	"math/rand"
	"time"
)

// Policy is the retry policy for section listing fetches: a fetch
// that yields zero articles is retried up to MaxAttempts total, with
// a randomly chosen pause between attempts.
type Policy struct {
	MaxAttempts int
	Pauses      []time.Duration
}

// DefaultPolicy matches the listing pages' flaky first render: five
// attempts with short randomized pauses.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		Pauses: []time.Duration{
			1 * time.Second,
			3 * time.Second,
			5 * time.Second,
		},
	}
}

// attempts returns the attempt budget, never less than one.
func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// pause picks one of the configured pause durations at random.
func (p Policy) pause() time.Duration {
	if len(p.Pauses) == 0 {
		return 0
	}
	return p.Pauses[rand.Intn(len(p.Pauses))]
}
