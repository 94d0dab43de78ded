package roster

import (
	"context"
	"errors"
	"sync"
)

// Storage keys.
const (
	KeyStudents = "students-collection"
	KeyActiveID = "active-student-id"
	KeyUserRole = "user-role"
)

// Persistence is a durable string key-value store.
type Persistence interface {
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Get returns the value under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}

// Deleter is implemented by backends that can remove keys.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// ErrResetUnsupported is returned by Reset when the backend cannot delete keys.
var ErrResetUnsupported = errors.New("persistence backend cannot delete keys")

// Reset removes the stored collection, active selection and viewer role. The
// next Load seeds a fresh roster.
func Reset(ctx context.Context, p Persistence) error {
	d, ok := p.(Deleter)
	if !ok {
		return ErrResetUnsupported
	}
	for _, key := range []string{KeyStudents, KeyActiveID, KeyUserRole} {
		if err := d.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// MemoryPersistence is an in-process Persistence for tests and ephemeral
// runs. It records the number of writes per key.
type MemoryPersistence struct {
	mu     sync.Mutex
	values map[string]string
	writes map[string]int
	// Err, when set, is returned from every Set.
	Err error
}

// NewMemoryPersistence creates an empty MemoryPersistence.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{
		values: make(map[string]string),
		writes: make(map[string]int),
	}
}

func (m *MemoryPersistence) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.values[key] = value
	m.writes[key]++
	return nil
}

func (m *MemoryPersistence) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryPersistence) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Writes returns how many times key has been written.
func (m *MemoryPersistence) Writes(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[key]
}
