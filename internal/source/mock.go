package source

import (
	"context"
	"errors"
	"sync"
)

// ErrMockUnavailable is returned by the mock for sources marked failed.
var ErrMockUnavailable = errors.New("mock source unavailable")

// Mock is an in-memory Querier for tests. Sources without canned rows
// return an empty result unless explicitly marked failed.
type Mock struct {
	mu     sync.Mutex
	rows   map[string][]Row
	failed map[string]bool
	calls  []string
}

// NewMock creates an empty mock querier.
func NewMock() *Mock {
	return &Mock{
		rows:   make(map[string][]Row),
		failed: make(map[string]bool),
	}
}

// SetRows cans the rows for one source.
func (m *Mock) SetRows(name string, rows []Row) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows[name] = rows
	delete(m.failed, name)
}

// Fail marks one source as unavailable.
func (m *Mock) Fail(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failed[name] = true
}

// Query returns the canned rows for the spec's source.
func (m *Mock) Query(_ context.Context, spec Spec) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, spec.Name)

	if m.failed[spec.Name] {
		return nil, ErrMockUnavailable
	}

	return m.rows[spec.Name], nil
}

// Calls returns the source names queried, in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.calls))
	copy(out, m.calls)

	return out
}
