package storage

import (
	"context"
	"sync"
)

// MemoryBackend держит коллекции в памяти процесса.
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryBackend создаёт новый экземпляр MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string][]byte)}
}

func (b *MemoryBackend) Read(_ context.Context, name string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.docs[name]
	if !ok {
		return nil, ErrCollectionNotFound
	}
	return append([]byte(nil), data...), nil
}

func (b *MemoryBackend) Write(_ context.Context, name string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.docs[name] = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) WriteBatch(_ context.Context, docs map[string][]byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for name, data := range docs {
		b.docs[name] = append([]byte(nil), data...)
	}
	return nil
}
