package registry

import (
	"context"
	"sync"
	"time"
)

type memoryRegistry struct {
	meta    Meta
	records map[string]*Record
	order   []string
}

type memoryRepository struct {
	mu         sync.RWMutex
	registries map[string]*memoryRegistry
}

// NewMemoryRepository keeps registries in process memory. Writes are serialized by a
// single lock, which gives Create the same all-or-nothing behavior as the Postgres store.
func NewMemoryRepository() Repository {
	return &memoryRepository{registries: make(map[string]*memoryRegistry)}
}

func (r *memoryRepository) Init(_ context.Context, meta *Meta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.registries[meta.Address]; ok {
		return ErrAlreadyInitialized
	}
	meta.CreatedAt = time.Now().UTC()
	r.registries[meta.Address] = &memoryRegistry{
		meta:    *meta,
		records: make(map[string]*Record),
	}
	return nil
}

func (r *memoryRepository) GetMeta(_ context.Context, registryAddress string) (*Meta, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.registries[registryAddress]
	if !ok {
		return nil, ErrNotInitialized
	}
	m := reg.meta
	return &m, nil
}

func (r *memoryRepository) Create(_ context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.registries[rec.RegistryAddress]
	if !ok {
		return ErrNotInitialized
	}
	if _, taken := reg.records[rec.Name]; taken {
		return ErrNameUnavailable
	}
	rec.Seq = int64(len(reg.order) + 1)
	rec.CreatedAt = time.Now().UTC()
	reg.records[rec.Name] = rec.clone()
	reg.order = append(reg.order, rec.Name)
	return nil
}

func (r *memoryRepository) Exists(_ context.Context, registryAddress, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.registries[registryAddress]
	if !ok {
		return false, nil
	}
	_, exists := reg.records[name]
	return exists, nil
}

func (r *memoryRepository) GetByName(_ context.Context, registryAddress, name string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.registries[registryAddress]
	if !ok {
		return nil, ErrResourceNotFound
	}
	rec, ok := reg.records[name]
	if !ok {
		return nil, ErrResourceNotFound
	}
	return rec.clone(), nil
}

func (r *memoryRepository) List(_ context.Context, registryAddress string) ([]Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handles := make([]Handle, 0)
	reg, ok := r.registries[registryAddress]
	if !ok {
		return handles, nil
	}
	for _, name := range reg.order {
		handles = append(handles, reg.records[name].Handle())
	}
	return handles, nil
}
