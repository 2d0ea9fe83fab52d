package address

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing and single-user deployments. Multi-user
// production should use PostgresRepository.
type InMemoryRepository struct {
	mu        sync.RWMutex
	addresses map[string]*Address
	order     []string
}

// NewInMemoryRepository creates a new in-memory address repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		addresses: make(map[string]*Address),
	}
}

// Get retrieves an address by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.addresses[id]
	if !ok {
		return nil, ErrAddressNotFound
	}

	cpy := *a
	return &cpy, nil
}

// List retrieves addresses in insertion order with pagination. Insertion
// order is preserved so route planning sees addresses as the user entered
// them.
func (r *InMemoryRepository) List(_ context.Context, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start := 0
	if opts.Cursor != "" {
		for i, id := range r.order {
			if id == opts.Cursor {
				start = i + 1
				break
			}
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	var items []*Address
	for _, id := range r.order[start:] {
		cpy := *r.addresses[id]
		items = append(items, &cpy)
	}

	result := &ListResult{Items: items}
	if len(items) > limit {
		result.Items = items[:limit]
		result.NextCursor = items[limit-1].ID
	}

	return result, nil
}

// Create creates a new address.
func (r *InMemoryRepository) Create(_ context.Context, a *Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.addresses[a.ID]; !ok {
		r.order = append(r.order, a.ID)
	}

	cpy := *a
	r.addresses[a.ID] = &cpy
	return nil
}

// Update updates an existing address.
func (r *InMemoryRepository) Update(_ context.Context, a *Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.addresses[a.ID]; !ok {
		return ErrAddressNotFound
	}

	cpy := *a
	r.addresses[a.ID] = &cpy
	return nil
}

// Delete deletes an address by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.addresses[id]; !ok {
		return nil
	}

	delete(r.addresses, id)
	for i, ordered := range r.order {
		if ordered == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
