package cache

import (
	"context"
	"sync"
)

// Memory is an in-process label cache that lives for one run.
type Memory struct {
	mu     sync.RWMutex
	labels map[string]string
}

func NewMemory() *Memory {
	return &Memory{labels: make(map[string]string, 256)}
}

func (m *Memory) Get(_ context.Context, text string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	label, ok := m.labels[text]
	return label, ok, nil
}

func (m *Memory) Set(_ context.Context, text string, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.labels[text] = label
	return nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.labels)
}
