package mocks

import (
	"fmt"
	"sync"

	"github.com/smartscholars/accounts/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// Queued tokens are returned first; once the queue is empty it falls back to a counter.
type MockRandom struct {
	mu sync.Mutex

	// TokenResults is a queue of results to return from Token
	TokenResults []string
	tokenIndex   int
	fallback     int

	// Err, when set, is returned by every Token call
	Err error
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Token returns the next queued result, or a predictable unique value if none remain
func (r *MockRandom) Token(n int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return "", r.Err
	}
	if r.tokenIndex < len(r.TokenResults) {
		result := r.TokenResults[r.tokenIndex]
		r.tokenIndex++
		return result, nil
	}
	r.fallback++
	return fmt.Sprintf("mock-token-%d", r.fallback), nil
}

// QueueToken adds values to the Token result queue
func (r *MockRandom) QueueToken(values ...string) {
	r.mu.Lock()
	r.TokenResults = append(r.TokenResults, values...)
	r.mu.Unlock()
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	r.TokenResults = nil
	r.tokenIndex = 0
	r.fallback = 0
	r.Err = nil
	r.mu.Unlock()
}
