package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"fraddriso20022/internal/address"
	"fraddriso20022/internal/logger"

	"go.uber.org/zap"
)

// Repository stores every address in one JSON object keyed by ID. Each call
// reads the file and each mutation rewrites it.
type Repository struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Repository {
	return &Repository{path: path}
}

// CorruptSuffix is appended to an unreadable address file before a mutation
// replaces it.
const CorruptSuffix = ".corrupt"

// load returns an empty set when the file is missing or unreadable JSON. With
// quarantine set, an unreadable file is renamed to path+CorruptSuffix first so
// the next store does not overwrite it.
func (r *Repository) load(ctx context.Context, quarantine bool) (map[string]address.ISOAddress, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]address.ISOAddress{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	items := map[string]address.ISOAddress{}
	if err := json.Unmarshal(data, &items); err != nil {
		log := logger.FromCtx(ctx).With(zap.String("path", r.path), zap.Error(err))
		if !quarantine {
			log.Warn("address file is not valid JSON, reading as empty")
			return map[string]address.ISOAddress{}, nil
		}
		if err := os.Rename(r.path, r.path+CorruptSuffix); err != nil {
			return nil, fmt.Errorf("move aside %s: %w", r.path, err)
		}
		log.Warn("address file is not valid JSON, moved aside", zap.String("moved_to", r.path+CorruptSuffix))
		return map[string]address.ISOAddress{}, nil
	}
	return items, nil
}

func (r *Repository) store(items map[string]address.ISOAddress) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal addresses: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace %s: %w", r.path, err)
	}
	return nil
}

// mutate runs fn on the current contents and persists them when fn succeeds.
func (r *Repository) mutate(ctx context.Context, fn func(map[string]address.ISOAddress) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx, true)
	if err != nil {
		return err
	}
	if err := fn(items); err != nil {
		return err
	}
	return r.store(items)
}

func (r *Repository) Save(ctx context.Context, addr *address.ISOAddress) error {
	return r.mutate(ctx, func(items map[string]address.ISOAddress) error {
		if _, ok := items[addr.ID]; ok {
			return address.ErrAddressExists
		}
		items[addr.ID] = *addr
		return nil
	})
}

func (r *Repository) Update(ctx context.Context, addr *address.ISOAddress) error {
	return r.mutate(ctx, func(items map[string]address.ISOAddress) error {
		if _, ok := items[addr.ID]; !ok {
			return address.ErrAddressNotFound
		}
		items[addr.ID] = *addr
		return nil
	})
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.mutate(ctx, func(items map[string]address.ISOAddress) error {
		if _, ok := items[id]; !ok {
			return address.ErrAddressNotFound
		}
		delete(items, id)
		return nil
	})
}

func (r *Repository) FindByID(ctx context.Context, id string) (*address.ISOAddress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx, false)
	if err != nil {
		return nil, err
	}
	a, ok := items[id]
	if !ok {
		return nil, address.ErrAddressNotFound
	}
	return &a, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]*address.ISOAddress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx, false)
	if err != nil {
		return nil, err
	}

	res := make([]*address.ISOAddress, 0, len(items))
	for id := range items {
		a := items[id]
		res = append(res, &a)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}
