package tokenstore

import (
	"context"
	"sync"
)

type memoryStorage struct {
	mu     sync.RWMutex
	record map[string]string
}

// NewMemoryStorage keeps the credential record in process memory only.
func NewMemoryStorage() Storage {
	return &memoryStorage{}
}

func (m *memoryStorage) Load(_ context.Context) (Credential, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.record == nil {
		return Credential{}, false, nil
	}
	kind, err := ParseKind(m.record[fieldKind])
	if err != nil {
		return Credential{}, false, err
	}
	return Credential{Token: m.record[fieldToken], Kind: kind}, true, nil
}

func (m *memoryStorage) Save(_ context.Context, cred Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = map[string]string{fieldToken: cred.Token, fieldKind: string(cred.Kind)}
	return nil
}

func (m *memoryStorage) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = nil
	return nil
}
