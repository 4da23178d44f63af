package publisher

import (
	"context"
	"sync"

	"github.com/nootkan/required-fields-manager/pkg/platform/audit"
)

// Memory records emitted events for inspection in tests.
type Memory struct {
	mu     sync.Mutex
	events []audit.Event
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Emit(_ context.Context, event audit.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of everything emitted so far.
func (m *Memory) Events() []audit.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]audit.Event, len(m.events))
	copy(out, m.events)
	return out
}
