// Package views keeps local copies of server-owned collections consistent
// under optimistic mutation. A collection is a view cache: Replace
// establishes ground truth wholesale, staged mutations apply exactly once
// before the server confirms, and every staged mutation settles as confirm,
// revert, or revert-with-flag.
package views

import "sync"

// Ticket identifies one staged mutation. Settling a ticket that is no
// longer the latest for its key is a no-op: when two mutations race on the
// same key, only the newest one's resolution counts and stale responses
// are dropped.
type Ticket struct {
	key int
	seq uint64
	gen uint64
}

type backup[T any] struct {
	value   T
	existed bool
}

type Collection[T any] struct {
	mu      sync.Mutex
	keyOf   func(T) int
	items   []T
	gen     uint64
	seq     map[int]uint64
	backups map[int]backup[T]
	flagged map[int]bool
}

func NewCollection[T any](keyOf func(T) int) *Collection[T] {
	return &Collection[T]{
		keyOf:   keyOf,
		seq:     make(map[int]uint64),
		backups: make(map[int]backup[T]),
		flagged: make(map[int]bool),
	}
}

// Replace swaps in a full server snapshot. No merging; pending tickets from
// before the snapshot can no longer settle.
func (c *Collection[T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make([]T, len(items))
	copy(c.items, items)
	c.gen++
	c.seq = make(map[int]uint64)
	c.backups = make(map[int]backup[T])
	c.flagged = make(map[int]bool)
}

// Items returns a copy of the current view state.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Collection[T]) Get(key int) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(key); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) Has(key int) bool {
	_, ok := c.Get(key)
	return ok
}

// Flagged reports whether the item's last settled mutation failed visibly.
func (c *Collection[T]) Flagged(key int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flagged[key]
}

// StageUpsert optimistically inserts the item, or replaces the existing one
// with the same key.
func (c *Collection[T]) StageUpsert(item T) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.keyOf(item)
	t := c.stage(key)
	if i := c.index(key); i >= 0 {
		c.items[i] = item
	} else {
		c.items = append(c.items, item)
	}
	return t
}

// StageEdit optimistically applies edit to the item under key. The second
// return is false when the key is absent; nothing is staged then.
func (c *Collection[T]) StageEdit(key int, edit func(*T)) (Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(key)
	if i < 0 {
		return Ticket{}, false
	}
	t := c.stage(key)
	edit(&c.items[i])
	return t, true
}

// StageRemove optimistically removes the item under key.
func (c *Collection[T]) StageRemove(key int) (Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(key)
	if i < 0 {
		return Ticket{}, false
	}
	t := c.stage(key)
	c.items = append(c.items[:i], c.items[i+1:]...)
	return t, true
}

// Confirm settles a staged mutation as accepted by the server.
func (c *Collection[T]) Confirm(t Ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.currentLocked(t) {
		return
	}
	delete(c.backups, t.key)
	delete(c.flagged, t.key)
}

// Revert settles a failed mutation by restoring the pre-stage state.
func (c *Collection[T]) Revert(t Ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revertLocked(t)
}

// Flag settles a failed mutation by restoring the pre-stage state and
// leaving a visible error marker on the item, so a partial bulk failure
// shows exactly which rows did not transition.
func (c *Collection[T]) Flag(t Ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.revertLocked(t) {
		c.flagged[t.key] = true
	}
}

func (c *Collection[T]) stage(key int) Ticket {
	c.seq[key]++
	prev := backup[T]{}
	if i := c.index(key); i >= 0 {
		prev = backup[T]{value: c.items[i], existed: true}
	}
	c.backups[key] = prev
	return Ticket{key: key, seq: c.seq[key], gen: c.gen}
}

func (c *Collection[T]) currentLocked(t Ticket) bool {
	return t.gen == c.gen && t.seq == c.seq[t.key]
}

func (c *Collection[T]) revertLocked(t Ticket) bool {
	if !c.currentLocked(t) {
		return false
	}
	prev, ok := c.backups[t.key]
	if !ok {
		return false
	}
	delete(c.backups, t.key)
	i := c.index(t.key)
	switch {
	case prev.existed && i >= 0:
		c.items[i] = prev.value
	case prev.existed:
		// Ordering beyond the server's is not an invariant, so a
		// reverted removal reappears at the end.
		c.items = append(c.items, prev.value)
	case i >= 0:
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
	return true
}

func (c *Collection[T]) index(key int) int {
	for i := range c.items {
		if c.keyOf(c.items[i]) == key {
			return i
		}
	}
	return -1
}
