package engine

import (
	"math/rand"
	"sync"
	"time"
)

// FaultPolicy decides whether the simulated downstream validation step
// fails for a given confirmation. It is consulted exactly once per
// Confirm, after the balance check and before the debit.
type FaultPolicy interface {
	ShouldFail() bool
}

// NoFaults never fails. Production wiring.
type NoFaults struct{}

func (NoFaults) ShouldFail() bool { return false }

// RateFaults fails a configured fraction of confirmations, mimicking the
// flaky downstream the prototype environment simulates.
type RateFaults struct {
	mu   sync.Mutex
	rate float64
	rng  *rand.Rand
}

func NewRateFaults(rate float64) *RateFaults {
	return &RateFaults{
		rate: rate,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *RateFaults) ShouldFail() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() < r.rate
}

// FaultFunc adapts a plain func to a FaultPolicy, handy in tests.
type FaultFunc func() bool

func (f FaultFunc) ShouldFail() bool { return f() }
