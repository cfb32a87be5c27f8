package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// memoryRepository implements KVRepository in process memory.
// Used for tests and STORE_DRIVER=memory.
type memoryRepository struct {
	mutex sync.RWMutex
	table map[string]string
}

// NewMemoryRepository creates an empty in-memory key/value repository
func NewMemoryRepository() KVRepository {
	return &memoryRepository{table: make(map[string]string)}
}

func (r *memoryRepository) Get(_ context.Context, key string) (string, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if value, ok := r.table[key]; ok {
		return value, nil
	}
	return "", ErrKeyNotFound
}

func (r *memoryRepository) Set(_ context.Context, key, value string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.table[key] = value
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, keys ...string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, key := range keys {
		delete(r.table, key)
	}
	return nil
}

func (r *memoryRepository) Keys(_ context.Context, prefix string) ([]string, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	keys := make([]string, 0, len(r.table))
	for key := range r.table {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *memoryRepository) Clear(_ context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.table = make(map[string]string)
	return nil
}
