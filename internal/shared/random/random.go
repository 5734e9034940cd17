// Package random provides the jitter source used by fallback generation.
// Production code uses the runtime-seeded generator; tests inject a seeded one.
package random

import (
	"math/rand/v2"
	"sync"
)

// Source is the subset of *rand.Rand the fallback paths need.
type Source interface {
	IntN(n int) int
	Float64() float64
}

type global struct{}

func (global) IntN(n int) int   { return rand.IntN(n) }
func (global) Float64() float64 { return rand.Float64() }

// New returns a Source backed by the process-wide generator.
func New() Source { return global{} }

// locked serialises access to a *rand.Rand, which is not safe for concurrent use.
type locked struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *locked) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// NewSeeded returns a deterministic Source.
func NewSeeded(seed uint64) Source {
	return &locked{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}
