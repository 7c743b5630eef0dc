// pkg/credstore/memory.go
package credstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memStore struct {
	mu   sync.RWMutex
	byID map[string]Credential
	byFP map[string]Credential
}

// NewMemoryStore returns an in-memory Store for dev bring-up and tests.
func NewMemoryStore() Store {
	return &memStore{byID: map[string]Credential{}, byFP: map[string]Credential{}}
}

func (m *memStore) FindByID(ctx context.Context, id string) (Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.byID[id]; ok {
		return c, nil
	}
	return Credential{}, ErrNotFound
}

func (m *memStore) FindByFingerprint(ctx context.Context, fp string) (Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.byFP[fp]; ok {
		return c, nil
	}
	return Credential{}, ErrNotFound
}

func (m *memStore) Create(ctx context.Context, c Credential) (Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.byFP[c.Fingerprint]; ok {
		return existing, nil
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	m.byID[c.ID] = c
	m.byFP[c.Fingerprint] = c
	return c, nil
}
