package testfixtures

import (
	"fmt"
	"sync"
)

// IDGenerator produces deterministic 24-character hex identifiers for tests.
// The namespace byte keeps identifiers from different generators distinct even
// when their counters collide.
type IDGenerator struct {
	mu        sync.Mutex
	namespace byte
	counter   uint64
}

// NewIDGenerator constructs a generator whose identifiers start with the given
// namespace byte rendered as two hex digits.
func NewIDGenerator(namespace byte) *IDGenerator {
	return &IDGenerator{namespace: namespace}
}

// Next returns the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("%02x%022x", g.namespace, g.counter)
}

// NextFunc exposes Next as a function suitable for dependency injection.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

// SetCounter overrides the internal counter, enabling deterministic resets.
func (g *IDGenerator) SetCounter(counter uint64) {
	g.mu.Lock()
	g.counter = counter
	g.mu.Unlock()
}
