package permission

import (
	"sort"

	"github.com/frahmantamala/docportal-access/internal"
)

// Scope is the dimension a permission grant is anchored at.
type Scope string

const (
	ScopeUser       Scope = "user"
	ScopeDepartment Scope = "department"
	ScopeCategory   Scope = "category"
)

func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeUser, ScopeDepartment, ScopeCategory:
		return Scope(s), nil
	default:
		return "", internal.ErrInvalidScope
	}
}

func (s Scope) String() string { return string(s) }

// EffectivePermissionSet is the resolved union of permission keys a user
// holds on a target at query time. It is derived per query and never
// persisted; assignment validity makes it time dependent.
type EffectivePermissionSet struct {
	keys map[string]struct{}
}

func NewEffectivePermissionSet(keys ...string) EffectivePermissionSet {
	set := EffectivePermissionSet{keys: make(map[string]struct{}, len(keys))}
	set.Add(keys...)
	return set
}

func (s *EffectivePermissionSet) Add(keys ...string) {
	if s.keys == nil {
		s.keys = make(map[string]struct{}, len(keys))
	}
	for _, key := range keys {
		s.keys[key] = struct{}{}
	}
}

func (s EffectivePermissionSet) Has(key string) bool {
	_, ok := s.keys[key]
	return ok
}

func (s EffectivePermissionSet) Len() int { return len(s.keys) }

// Keys returns the permission keys in sorted order for stable responses.
func (s EffectivePermissionSet) Keys() []string {
	keys := make([]string, 0, len(s.keys))
	for key := range s.keys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
