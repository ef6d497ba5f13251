package catalog

import (
	"context"
	"sync"

	"github.com/fairyhunter13/scan-to-cart-service/internal/model"
)

// Memory is an in-memory catalog keyed by barcode.
type Memory struct {
	mu    sync.RWMutex
	m     map[string]model.Product
	order []string
}

// NewMemory builds a catalog from the given records. Records without a
// barcode are ignored; a later record with a duplicate barcode wins.
func NewMemory(products ...model.Product) *Memory {
	c := &Memory{m: make(map[string]model.Product)}
	for _, p := range products {
		c.put(p)
	}
	return c
}

// NewMemoryFromSeed builds a catalog from the embedded sample data.
func NewMemoryFromSeed() (*Memory, error) {
	ps, err := SeedProducts()
	if err != nil {
		return nil, err
	}
	return NewMemory(ps...), nil
}

func (c *Memory) put(p model.Product) {
	if p.Barcode == "" {
		return
	}
	if _, ok := c.m[p.Barcode]; !ok {
		c.order = append(c.order, p.Barcode)
	}
	c.m[p.Barcode] = p
}

// Add inserts or replaces a record. Mainly used by tests.
func (c *Memory) Add(p model.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(p)
}

func (c *Memory) Lookup(_ context.Context, barcode string) (model.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.m[barcode]
	if !ok {
		return model.Product{}, ErrNotFound
	}
	return p, nil
}

func (c *Memory) List(_ context.Context) ([]model.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Product, 0, len(c.order))
	for _, b := range c.order {
		out = append(out, c.m[b])
	}
	return out, nil
}
