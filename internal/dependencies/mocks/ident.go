package mocks

import (
	"fmt"
	"sync"

	"github.com/dropfour/dropfour/internal/dependencies/ident"
)

// MockIdent is a mock implementation of ident.Source for testing.
// Safe for concurrent use, so it can back a test server.
type MockIdent struct {
	// Queued is a queue of ids to return from NewID
	Queued []string

	mu     sync.Mutex
	index  int
	serial int
}

// Ensure MockIdent implements Source
var _ ident.Source = (*MockIdent)(nil)

// NewMockIdent creates a new MockIdent
func NewMockIdent() *MockIdent {
	return &MockIdent{}
}

// NewID returns the next queued id, or a deterministic serial id if the
// queue is exhausted
func (m *MockIdent) NewID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index < len(m.Queued) {
		id := m.Queued[m.index]
		m.index++
		return id
	}
	m.serial++
	return fmt.Sprintf("mock-id-%d", m.serial)
}

// QueueID adds ids to the result queue
func (m *MockIdent) QueueID(ids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queued = append(m.Queued, ids...)
}

// Reset clears all queued ids
func (m *MockIdent) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queued = nil
	m.index = 0
	m.serial = 0
}
