package task

import (
	"sort"

	"github.com/google/uuid"
)

// AddSubItem appends a checklist entry after the last one.
func (t *Task) AddSubItem(text string) SubItem {
	maxOrder := 0
	for _, it := range t.SubItems {
		if it.Order > maxOrder {
			maxOrder = it.Order
		}
	}
	item := SubItem{
		ID:    uuid.New(),
		Text:  text,
		Order: maxOrder + 1,
	}
	t.SubItems = append(t.SubItems, item)
	return item
}

// ToggleSubItem flips the completed flag and reports whether the item exists.
func (t *Task) ToggleSubItem(id uuid.UUID) (SubItem, bool) {
	for i := range t.SubItems {
		if t.SubItems[i].ID == id {
			t.SubItems[i].Completed = !t.SubItems[i].Completed
			return t.SubItems[i], true
		}
	}
	return SubItem{}, false
}

// RemoveSubItem drops the item and renumbers the rest 1..N.
func (t *Task) RemoveSubItem(id uuid.UUID) bool {
	idx := -1
	for i, it := range t.SubItems {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	t.SubItems = append(t.SubItems[:idx], t.SubItems[idx+1:]...)
	sort.SliceStable(t.SubItems, func(i, j int) bool {
		return t.SubItems[i].Order < t.SubItems[j].Order
	})
	for i := range t.SubItems {
		t.SubItems[i].Order = i + 1
	}
	return true
}
