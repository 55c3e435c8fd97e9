package credstore

import (
	"sync"

	"github.com/trezcool/registrar/core"
)

// memorySlots keeps slots for the lifetime of the process only.
type memorySlots struct {
	mutex sync.RWMutex
	table map[string]string
}

var _ Slots = (*memorySlots)(nil)

func NewMemorySlots() *memorySlots {
	return &memorySlots{table: make(map[string]string)}
}

func (m *memorySlots) Get(key string) (string, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	v, ok := m.table[key]
	return v, ok, nil
}

func (m *memorySlots) Set(key, value string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.table[key] = value
	return nil
}

func (m *memorySlots) Delete(keys ...string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, k := range keys {
		delete(m.table, k)
	}
	return nil
}

// NewMemoryStore is a Store that forgets everything when the process exits.
func NewMemoryStore(logger core.Logger) *Store {
	return New(NewMemorySlots(), logger)
}
