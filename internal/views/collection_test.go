package views

import (
	"testing"
)

type item struct {
	ID   int
	Name string
}

func newTestCollection(items ...item) *Collection[item] {
	c := NewCollection(func(i item) int { return i.ID })
	c.Replace(items)
	return c
}

func TestStageUpsertConfirm(t *testing.T) {
	c := newTestCollection(item{1, "one"})

	ticket := c.StageUpsert(item{2, "two"})
	if !c.Has(2) {
		t.Fatal("staged item should be visible before the server confirms")
	}

	c.Confirm(ticket)
	if !c.Has(2) {
		t.Error("confirmed item should stay")
	}
	if c.Flagged(2) {
		t.Error("a confirmed item must not be flagged")
	}
}

func TestStageUpsertRevert(t *testing.T) {
	c := newTestCollection(item{1, "one"})

	ticket := c.StageUpsert(item{2, "two"})
	c.Revert(ticket)

	if c.Has(2) {
		t.Error("reverted insert should disappear")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestStageEditRevertRestoresValue(t *testing.T) {
	c := newTestCollection(item{1, "one"})

	ticket, staged := c.StageEdit(1, func(i *item) { i.Name = "changed" })
	if !staged {
		t.Fatal("edit of an existing key should stage")
	}
	if got, _ := c.Get(1); got.Name != "changed" {
		t.Fatalf("edit not applied: %+v", got)
	}

	c.Revert(ticket)
	if got, _ := c.Get(1); got.Name != "one" {
		t.Errorf("revert should restore the pre-stage value, got %+v", got)
	}
}

func TestStageEditAbsentKey(t *testing.T) {
	c := newTestCollection(item{1, "one"})
	if _, staged := c.StageEdit(99, func(i *item) {}); staged {
		t.Error("editing an absent key must not stage")
	}
}

func TestStageRemoveRevertReinstates(t *testing.T) {
	c := newTestCollection(item{1, "one"}, item{2, "two"})

	ticket, staged := c.StageRemove(1)
	if !staged {
		t.Fatal("remove of an existing key should stage")
	}
	if c.Has(1) {
		t.Fatal("staged removal should hide the item")
	}

	c.Revert(ticket)
	if !c.Has(1) {
		t.Error("reverted removal should reappear")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestFlagMarksItem(t *testing.T) {
	c := newTestCollection(item{1, "one"})

	ticket, _ := c.StageEdit(1, func(i *item) { i.Name = "changed" })
	c.Flag(ticket)

	if got, _ := c.Get(1); got.Name != "one" {
		t.Errorf("flag should revert the edit, got %+v", got)
	}
	if !c.Flagged(1) {
		t.Error("flag should leave a visible marker")
	}

	// The next successful mutation clears the marker.
	ticket, _ = c.StageEdit(1, func(i *item) { i.Name = "fresh" })
	c.Confirm(ticket)
	if c.Flagged(1) {
		t.Error("confirm should clear the flag")
	}
}

// Two mutations race on the same key: the resolution of the older one must
// not clobber the newer one.
func TestStaleTicketDropped(t *testing.T) {
	c := newTestCollection(item{1, "off"})

	first, _ := c.StageEdit(1, func(i *item) { i.Name = "on" })
	second, _ := c.StageEdit(1, func(i *item) { i.Name = "off" })

	// The older request fails after the newer one was staged. Its revert
	// must be a no-op.
	c.Revert(first)
	if got, _ := c.Get(1); got.Name != "off" {
		t.Errorf("stale revert should be dropped, got %+v", got)
	}

	c.Confirm(second)
	if got, _ := c.Get(1); got.Name != "off" {
		t.Errorf("latest mutation should win, got %+v", got)
	}
}

func TestReplaceInvalidatesTickets(t *testing.T) {
	c := newTestCollection(item{1, "one"})

	ticket, _ := c.StageEdit(1, func(i *item) { i.Name = "changed" })
	c.Replace([]item{{1, "server"}})

	c.Revert(ticket)
	if got, _ := c.Get(1); got.Name != "server" {
		t.Errorf("ticket from before Replace must not settle, got %+v", got)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	c := newTestCollection(item{1, "one"})
	items := c.Items()
	items[0].Name = "mutated"
	if got, _ := c.Get(1); got.Name != "one" {
		t.Error("Items must not expose internal state")
	}
}
