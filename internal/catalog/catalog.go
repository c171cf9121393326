// Package catalog supplies the static restaurant menu. The menu is embedded
// at build time and never refetched or revalidated during a session.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/domain"
	apperrors "github.com/oushaabdelkhaleq88/ONIGIRI/pkg/errors"
)

//go:embed menu.json
var menuJSON []byte

// Catalog provides read-only access to the menu.
type Catalog struct {
	items []domain.MenuItem
	byID  map[string]domain.MenuItem
}

// Load parses the embedded menu data.
func Load() (*Catalog, error) {
	return loadFrom(menuJSON)
}

func loadFrom(data []byte) (*Catalog, error) {
	var items []domain.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse menu data: %w", err)
	}

	byID := make(map[string]domain.MenuItem, len(items))
	for _, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("menu item %q has no id", item.Name)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("menu item %q has negative price %d", item.Name, item.Price)
		}
		if _, exists := byID[item.ID]; exists {
			return nil, fmt.Errorf("duplicate menu item id %q", item.ID)
		}
		byID[item.ID] = item
	}

	return &Catalog{items: items, byID: byID}, nil
}

// Items returns the full menu in its defined order.
func (c *Catalog) Items() []domain.MenuItem {
	out := make([]domain.MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

// Item looks up a menu item by ID.
func (c *Catalog) Item(id string) (domain.MenuItem, error) {
	item, ok := c.byID[id]
	if !ok {
		return domain.MenuItem{}, apperrors.NotFound("menu item", id)
	}
	return item, nil
}

// Len returns the number of menu items.
func (c *Catalog) Len() int {
	return len(c.items)
}
