// Package alternatives resolves exercise substitutions from a hand-authored
// adjacency table that is not guaranteed to be symmetric.
package alternatives

import (
	"sort"
	"sync"
)

// Resolve returns every valid substitute for id, excluding id itself.
//
// The result is the union of:
//   - the direct adjacency list of id
//   - every key whose list contains id (reverse lookup)
//   - the adjacency lists of those keys (siblings, one hop)
//
// The output is deduplicated and sorted. An empty result means the exercise has no substitutes.
func Resolve(table map[string][]string, id string) []string {
	seen := make(map[string]struct{})
	add := func(ids ...string) {
		for _, s := range ids {
			if s != "" && s != id {
				seen[s] = struct{}{}
			}
		}
	}

	add(table[id]...)

	for key, subs := range table {
		if !contains(subs, id) {
			continue
		}
		add(key)
		add(subs...)
	}

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func contains(list []string, id string) bool {
	for _, s := range list {
		if s == id {
			return true
		}
	}
	return false
}

// Resolver memoizes Resolve over an immutable table
type Resolver struct {
	table map[string][]string

	mu    sync.Mutex
	cache map[string][]string
}

// NewResolver copies table; later changes to the caller's map are not observed
func NewResolver(table map[string][]string) *Resolver {
	t := make(map[string][]string, len(table))
	for id, subs := range table {
		t[id] = append([]string(nil), subs...)
	}
	return &Resolver{
		table: t,
		cache: make(map[string][]string),
	}
}

// Resolve returns the substitutes for id. The returned slice is owned by the caller.
func (r *Resolver) Resolve(id string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, ok := r.cache[id]
	if !ok {
		subs = Resolve(r.table, id)
		r.cache[id] = subs
	}
	return append([]string(nil), subs...)
}

// IsAlternative reports whether candidate is a valid substitute for id
func (r *Resolver) IsAlternative(id, candidate string) bool {
	return contains(r.Resolve(id), candidate)
}

// IDs returns every id that appears anywhere in the table, sorted
func (r *Resolver) IDs() []string {
	seen := make(map[string]struct{})
	for key, subs := range r.table {
		seen[key] = struct{}{}
		for _, s := range subs {
			seen[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
