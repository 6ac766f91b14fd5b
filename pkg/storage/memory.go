package storage

import (
	"context"
	"sync"
)

// Memory keeps client namespaces in process. A positive quota caps the total bytes
// (keys plus values) of a single client, mirroring the per-origin limit of browser storage.
type Memory struct {
	mu         sync.RWMutex
	quotaBytes int
	clients    map[string]map[string]string
}

func NewMemory(quotaBytes int) *Memory {
	return &Memory{
		quotaBytes: quotaBytes,
		clients:    make(map[string]map[string]string),
	}
}

func (m *Memory) Get(_ context.Context, clientID, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.clients[clientID][key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (m *Memory) Set(_ context.Context, clientID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ns := m.clients[clientID]
	if m.quotaBytes > 0 {
		used := usage(ns) + len(key) + len(value)
		if old, ok := ns[key]; ok {
			used -= len(key) + len(old)
		}
		if used > m.quotaBytes {
			return ErrQuotaExceeded
		}
	}
	if ns == nil {
		ns = make(map[string]string)
		m.clients[clientID] = ns
	}
	ns[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, clientID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns := m.clients[clientID]
	delete(ns, key)
	if len(ns) == 0 {
		delete(m.clients, clientID)
	}
	return nil
}

func usage(ns map[string]string) int {
	total := 0
	for k, v := range ns {
		total += len(k) + len(v)
	}
	return total
}
