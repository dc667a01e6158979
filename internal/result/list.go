package result

// NoSelection is the selected index of a list without selectable rows.
const NoSelection = -1

// List is an ordered sequence of items with a single selected index.
// The selected index always points at a selectable item, or is NoSelection
// when the list has none.
type List struct {
	items    []Item
	selected int
}

// NewList builds a list and selects its first selectable row.
func NewList(items ...Item) List {
	l := List{selected: NoSelection}
	l.Replace(items)
	return l
}

// Len returns the number of rows, headers included.
func (l List) Len() int { return len(l.items) }

// At returns the row at index i.
func (l List) At(i int) Item { return l.items[i] }

// Items returns a copy of the rows.
func (l List) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Selectable reports whether row i can hold the selection.
func (l List) Selectable(i int) bool {
	return i >= 0 && i < len(l.items) && l.items[i].Selectable()
}

// SelectedIndex returns the selected index or NoSelection.
func (l List) SelectedIndex() int { return l.selected }

// Selected returns the selected row.
func (l List) Selected() (Item, bool) {
	if l.selected == NoSelection {
		return Item{}, false
	}
	return l.items[l.selected], true
}

// IndexOf returns the position of the row with the given ID, or -1.
func (l List) IndexOf(id string) int {
	for i, it := range l.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Select moves the selection to i. Non-selectable or out-of-range targets
// are refused and leave the selection untouched.
func (l *List) Select(i int) bool {
	if !l.Selectable(i) {
		return false
	}
	l.selected = i
	return true
}

// Replace swaps in a new set of rows and re-validates the selection: the
// previously selected ID keeps the selection if it survived, otherwise the
// old index is clamped to the nearest selectable row.
func (l *List) Replace(items []Item) {
	var prevID string
	prevIdx := l.selected
	if it, ok := l.Selected(); ok {
		prevID = it.ID
	}

	l.items = make([]Item, len(items))
	copy(l.items, items)

	if prevID != "" {
		if idx := l.IndexOf(prevID); l.Selectable(idx) {
			l.selected = idx
			return
		}
	}
	l.selected = l.clamp(prevIdx)
}

// ResetSelection moves the selection to the first selectable row.
func (l *List) ResetSelection() {
	l.selected = l.clamp(0)
}

// ReplaceByID swaps the row sharing the given item's ID for the new item.
// It reports false when no such row exists.
func (l *List) ReplaceByID(item Item) bool {
	idx := l.IndexOf(item.ID)
	if idx < 0 {
		return false
	}
	l.items[idx] = item
	if l.selected == idx && !item.Selectable() {
		l.selected = l.clamp(idx)
	} else if l.selected == NoSelection {
		l.selected = l.clamp(0)
	}
	return true
}

// clamp returns the selectable row closest to want, preferring rows after it.
func (l List) clamp(want int) int {
	n := len(l.items)
	if n == 0 {
		return NoSelection
	}
	if want < 0 {
		want = 0
	}
	if want >= n {
		want = n - 1
	}
	for i := want; i < n; i++ {
		if l.items[i].Selectable() {
			return i
		}
	}
	for i := want - 1; i >= 0; i-- {
		if l.items[i].Selectable() {
			return i
		}
	}
	return NoSelection
}
