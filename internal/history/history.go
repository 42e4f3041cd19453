// Package history remembers the latest search terms for convenience. It
// carries no correctness weight; every failure degrades to an empty list.
package history

import (
	"strings"

	"movierealm/internal/store"
)

const maxRecent = 5

type History struct {
	local store.Store
}

func New(local store.Store) *History {
	return &History{local: local}
}

// Add records a term: newest first, de-duplicated, bounded to maxRecent.
// Blank terms are ignored.
func (h *History) Add(term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	recent := h.Recent()
	updated := make([]string, 0, maxRecent)
	updated = append(updated, term)
	for _, t := range recent {
		if t == term {
			continue
		}
		updated = append(updated, t)
		if len(updated) == maxRecent {
			break
		}
	}
	return h.local.Set(store.KeyRecentSearches, updated)
}

// Recent returns the saved terms, newest first.
func (h *History) Recent() []string {
	var terms []string
	if _, err := h.local.Get(store.KeyRecentSearches, &terms); err != nil {
		return nil
	}
	if len(terms) > maxRecent {
		terms = terms[:maxRecent]
	}
	return terms
}

func (h *History) Clear() error {
	return h.local.Delete(store.KeyRecentSearches)
}
