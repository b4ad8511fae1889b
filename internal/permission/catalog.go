package permission

import (
	"sort"
	"strings"
)

// Catalog is the injected enumeration of valid permission keys. Grants
// are validated against it; the resolver returns the whole catalog for
// administrators. The catalog comes from configuration, not code.
type Catalog struct {
	keys      []string
	members   map[string]struct{}
	adminRole string
}

func NewCatalog(keys []string, adminRole string) *Catalog {
	catalog := &Catalog{
		keys:      make([]string, 0, len(keys)),
		members:   make(map[string]struct{}, len(keys)),
		adminRole: adminRole,
	}
	for _, key := range keys {
		if _, dup := catalog.members[key]; dup {
			continue
		}
		catalog.members[key] = struct{}{}
		catalog.keys = append(catalog.keys, key)
	}
	return catalog
}

func (c *Catalog) Contains(key string) bool {
	_, ok := c.members[key]
	return ok
}

// All returns a copy of the catalog in its configured order.
func (c *Catalog) All() []string {
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)
	return keys
}

// Categories returns the distinct key prefixes before the dot, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, key := range c.keys {
		prefix, _, found := strings.Cut(key, ".")
		if !found {
			continue
		}
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		categories = append(categories, prefix)
	}
	sort.Strings(categories)
	return categories
}

func (c *Catalog) AdminRole() string { return c.adminRole }

func (c *Catalog) Len() int { return len(c.keys) }
