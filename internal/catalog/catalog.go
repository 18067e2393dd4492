// Package catalog owns the in-memory product catalog of one session and the
// lookup logic that runs against it.
package catalog

import (
	"errors"
	"sort"
	"sync"
	"time"

	"BazaarWatch/internal/model"
)

// State is the lifecycle position of a Catalog.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrLoadStarted is returned when a second load is attempted on the same catalog.
var ErrLoadStarted = errors.New("catalog load already started")

// Catalog is written once by a loader and read by lookups afterwards.
type Catalog struct {
	mu        sync.RWMutex
	state     State
	products  map[string]*model.Product
	ids       []string
	updatedAt time.Time
	loadedAt  time.Time
	err       error
}

// New returns an uninitialized catalog.
func New() *Catalog {
	return &Catalog{}
}

// BeginLoad moves the catalog from uninitialized to loading.
func (c *Catalog) BeginLoad() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateUninitialized {
		return ErrLoadStarted
	}
	c.state = StateLoading
	return nil
}

// Assign publishes products and their identifier list in one step. Identifiers
// without a product entry are dropped, and map keys missing from the order
// are appended, so both views always describe the same set.
func (c *Catalog) Assign(products model.ProductMap, updatedAt time.Time) {
	ids := make([]string, 0, len(products.Items))
	seen := make(map[string]struct{}, len(products.Items))
	for _, id := range products.IDs {
		if _, ok := products.Items[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	var extra []string
	for id := range products.Items {
		if _, ok := seen[id]; !ok {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	ids = append(ids, extra...)

	items := products.Items
	if items == nil {
		items = map[string]*model.Product{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = items
	c.ids = ids
	c.updatedAt = updatedAt
	c.loadedAt = time.Now()
	c.state = StateReady
	c.err = nil
}

// Fail records a load failure. Products and identifiers stay unset.
func (c *Catalog) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateFailed
	c.err = err
}

// State returns the current lifecycle state.
func (c *Catalog) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Loaded reports whether products are available.
func (c *Catalog) Loaded() bool {
	return c.State() == StateReady
}

// Err returns the load failure, if any.
func (c *Catalog) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// IDs returns a copy of the identifier list.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}

// UpdatedAt is the upstream snapshot time reported by the API.
func (c *Catalog) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}

// LoadedAt is when the catalog became ready.
func (c *Catalog) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}
