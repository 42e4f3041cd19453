package views

import (
	"context"
	"sort"
	"sync"
)

// Selection is the local-only set of keys checked in a bulk-action table.
// It never survives a reload of the backing collection and never refers to
// keys the collection no longer holds.
type Selection struct {
	mu   sync.Mutex
	keys map[int]struct{}
}

func NewSelection() *Selection {
	return &Selection{keys: make(map[int]struct{})}
}

func (s *Selection) Add(key int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = struct{}{}
}

func (s *Selection) Remove(key int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
}

func (s *Selection) Toggle(key int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		delete(s.keys, key)
	} else {
		s.keys[key] = struct{}{}
	}
}

func (s *Selection) Has(key int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok
}

func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

// Keys returns the selected keys in stable ascending order.
func (s *Selection) Keys() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = make(map[int]struct{})
}

// Prune drops keys for which present returns false, keeping the selection
// consistent with the loaded collection.
func (s *Selection) Prune(present func(int) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.keys {
		if !present(k) {
			delete(s.keys, k)
		}
	}
}

// BulkResult reports per-item outcomes of a bulk operation. A partial
// failure is normal: some keys transitioned, the rest did not, and the
// caller can show exactly which.
type BulkResult struct {
	Succeeded []int
	Failed    map[int]error
}

func (r BulkResult) AllOK() bool {
	return len(r.Failed) == 0
}

// ApplyBulk runs op sequentially over the selected keys, atomically per
// item, never atomically across the batch. Succeeded keys leave the
// selection so the next bulk action cannot replay them; failed keys stay
// selected with their error recorded.
func ApplyBulk(ctx context.Context, sel *Selection, op func(ctx context.Context, key int) error) BulkResult {
	result := BulkResult{Failed: make(map[int]error)}
	for _, key := range sel.Keys() {
		if err := op(ctx, key); err != nil {
			result.Failed[key] = err
			continue
		}
		sel.Remove(key)
		result.Succeeded = append(result.Succeeded, key)
	}
	return result
}
