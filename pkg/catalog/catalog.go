// Package catalog holds the fixed, ordered definition of every trackable item.
package catalog

import (
	"fmt"

	"github.com/aretw0/stockcheck/pkg/domain"
)

// Threshold is a Quantity item with its minimum acceptable value.
type Threshold struct {
	Name string
	Min  float64
}

// Definition is the external shape of a catalog: an ordered name→threshold
// mapping for Quantity items plus ordered YesNo and Pack name lists.
type Definition struct {
	Quantities []Threshold
	YesNo      []string
	Packs      []string
}

// Catalog is immutable once built. Traversal order is Quantity items,
// then YesNo items, then Pack items, each in declared order.
type Catalog struct {
	entries []domain.Entry
	index   map[string]int
}

// New validates the definition and builds the catalog.
// Names must be non-empty and unique across all groups.
func New(def Definition) (*Catalog, error) {
	c := &Catalog{
		entries: make([]domain.Entry, 0, len(def.Quantities)+len(def.YesNo)+len(def.Packs)),
		index:   make(map[string]int),
	}

	add := func(e domain.Entry) error {
		if e.Name == "" {
			return fmt.Errorf("empty item name in %s group", e.Kind)
		}
		if _, exists := c.index[e.Name]; exists {
			return fmt.Errorf("%w: %q", domain.ErrDuplicateItem, e.Name)
		}
		c.index[e.Name] = len(c.entries)
		c.entries = append(c.entries, e)
		return nil
	}

	for _, q := range def.Quantities {
		if err := add(domain.Entry{Name: q.Name, Kind: domain.KindQuantity, Min: q.Min}); err != nil {
			return nil, err
		}
	}
	for _, name := range def.YesNo {
		if err := add(domain.Entry{Name: name, Kind: domain.KindYesNo}); err != nil {
			return nil, err
		}
	}
	for _, name := range def.Packs {
		if err := add(domain.Entry{Name: name, Kind: domain.KindPack}); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// MustNew is like New but panics on an invalid definition.
// Intended for definitions compiled into the binary.
func MustNew(def Definition) *Catalog {
	c, err := New(def)
	if err != nil {
		panic(err)
	}
	return c
}

// Order returns the flattened traversal order. The slice is a copy.
func (c *Catalog) Order() []domain.Entry {
	out := make([]domain.Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Names returns item names in traversal order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// At returns the entry at position i of the traversal order.
func (c *Catalog) At(i int) (domain.Entry, bool) {
	if i < 0 || i >= len(c.entries) {
		return domain.Entry{}, false
	}
	return c.entries[i], true
}

// Lookup finds an entry by name.
func (c *Catalog) Lookup(name string) (domain.Entry, error) {
	i, ok := c.index[name]
	if !ok {
		return domain.Entry{}, fmt.Errorf("%w: %q", domain.ErrItemNotFound, name)
	}
	return c.entries[i], nil
}
