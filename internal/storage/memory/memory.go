package memory

import (
	"context"
	"sort"
	"sync"

	"fraddriso20022/internal/address"
)

// Repository keeps addresses in process memory. It is safe for concurrent use.
type Repository struct {
	mu    sync.RWMutex
	items map[string]address.ISOAddress
}

func New() *Repository {
	return &Repository{items: make(map[string]address.ISOAddress)}
}

func (r *Repository) Save(_ context.Context, addr *address.ISOAddress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[addr.ID]; ok {
		return address.ErrAddressExists
	}
	r.items[addr.ID] = addr.Clone()
	return nil
}

func (r *Repository) Update(_ context.Context, addr *address.ISOAddress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[addr.ID]; !ok {
		return address.ErrAddressNotFound
	}
	r.items[addr.ID] = addr.Clone()
	return nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return address.ErrAddressNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *Repository) FindByID(_ context.Context, id string) (*address.ISOAddress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[id]
	if !ok {
		return nil, address.ErrAddressNotFound
	}
	c := a.Clone()
	return &c, nil
}

func (r *Repository) FindAll(_ context.Context) ([]*address.ISOAddress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedCopies(r.items), nil
}

func sortedCopies(items map[string]address.ISOAddress) []*address.ISOAddress {
	res := make([]*address.ISOAddress, 0, len(items))
	for _, a := range items {
		c := a.Clone()
		res = append(res, &c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}
