// Package selection tracks which messages the user has selected in an
// ordered list. The state is local, synchronous, and single-writer;
// ids that fall out of the list on a refetch simply become inert.
package selection

// Model is a selection set over the current list order, plus the
// anchor id used for shift-click range selection.
type Model struct {
	ids      []string
	selected map[string]struct{}
	anchor   string
}

// New returns an empty selection over the given list order.
func New(ids []string) *Model {
	return &Model{
		ids:      append([]string(nil), ids...),
		selected: make(map[string]struct{}),
	}
}

// SetItems replaces the list order. The selection itself is untouched:
// ids no longer present stay in the set but answer false to queries
// only once cleared; membership is by id, not index.
func (m *Model) SetItems(ids []string) {
	m.ids = append([]string(nil), ids...)
}

// IsSelected reports membership in O(1).
func (m *Model) IsSelected(id string) bool {
	_, ok := m.selected[id]
	return ok
}

// Selected returns the selected ids in current list order, followed by
// any stale ids not present in the list.
func (m *Model) Selected() []string {
	out := make([]string, 0, len(m.selected))
	seen := make(map[string]struct{}, len(m.selected))
	for _, id := range m.ids {
		if _, ok := m.selected[id]; ok {
			out = append(out, id)
			seen[id] = struct{}{}
		}
	}
	for id := range m.selected {
		if _, ok := seen[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// Count returns the number of selected ids.
func (m *Model) Count() int { return len(m.selected) }

// Toggle flips membership of id. With extend set and an anchor
// present, it instead adds the inclusive range between the anchor and
// id (in current list order) to the selection; the anchor is left in
// place. If either endpoint is missing from the list, extend falls
// back to a plain toggle. A plain toggle moves the anchor to id.
func (m *Model) Toggle(id string, extend bool) {
	if extend && m.anchor != "" {
		start := m.indexOf(m.anchor)
		end := m.indexOf(id)
		if start >= 0 && end >= 0 {
			if start > end {
				start, end = end, start
			}
			for i := start; i <= end; i++ {
				m.selected[m.ids[i]] = struct{}{}
			}
			return
		}
	}

	if _, ok := m.selected[id]; ok {
		delete(m.selected, id)
	} else {
		m.selected[id] = struct{}{}
	}
	m.anchor = id
}

// SelectRange replaces the selection with exactly the inclusive range
// between fromID and toID in current list order. Missing endpoints
// leave the selection unchanged.
func (m *Model) SelectRange(fromID, toID string) {
	start := m.indexOf(fromID)
	end := m.indexOf(toID)
	if start < 0 || end < 0 {
		return
	}
	if start > end {
		start, end = end, start
	}
	next := make(map[string]struct{}, end-start+1)
	for i := start; i <= end; i++ {
		next[m.ids[i]] = struct{}{}
	}
	m.selected = next
}

// SelectAll selects exactly the full id set of the current list.
func (m *Model) SelectAll() {
	next := make(map[string]struct{}, len(m.ids))
	for _, id := range m.ids {
		next[id] = struct{}{}
	}
	m.selected = next
}

// Clear empties the selection and resets the range anchor.
func (m *Model) Clear() {
	m.selected = make(map[string]struct{})
	m.anchor = ""
}

func (m *Model) indexOf(id string) int {
	for i, v := range m.ids {
		if v == id {
			return i
		}
	}
	return -1
}
