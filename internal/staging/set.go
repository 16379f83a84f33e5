// Package staging holds AI-extracted records in selectable, editable sets
// for the duration of one parse-review session. Nothing here is persisted;
// a session is discarded on cancel and superseded by backend ledger rows on
// commit.
package staging

import "github.com/google/uuid"

// Row wraps one extracted record with an ephemeral review identifier and a
// selection flag. Both are stripped before the commit payload is built.
type Row[T any] struct {
	ID       string
	Selected bool
	Record   T
}

// Set is the selectable record set for one extraction category. It replaces
// the per-category duplication of "list + synthetic id + selected flag +
// select-all" with a single parameterized implementation.
type Set[T any] struct {
	rows []Row[T]
}

// NewSet creates a set from extracted records. Every row starts selected.
func NewSet[T any](records []T) *Set[T] {
	rows := make([]Row[T], len(records))
	for i, rec := range records {
		rows[i] = Row[T]{
			ID:       uuid.NewString(),
			Selected: true,
			Record:   rec,
		}
	}
	return &Set[T]{rows: rows}
}

// Len returns the number of rows, selected or not.
func (s *Set[T]) Len() int {
	return len(s.rows)
}

// Rows returns a copy of the rows in display order.
func (s *Set[T]) Rows() []Row[T] {
	out := make([]Row[T], len(s.rows))
	copy(out, s.rows)
	return out
}

// Get returns the row with the given id.
func (s *Set[T]) Get(id string) (Row[T], bool) {
	for _, r := range s.rows {
		if r.ID == id {
			return r, true
		}
	}
	var zero Row[T]
	return zero, false
}

// Toggle flips one row's selection flag. A deselected row stays visible but
// is excluded from the commit payload.
func (s *Set[T]) Toggle(id string) bool {
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].Selected = !s.rows[i].Selected
			return true
		}
	}
	return false
}

// SetSelected sets one row's selection flag explicitly.
func (s *Set[T]) SetSelected(id string, selected bool) bool {
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].Selected = selected
			return true
		}
	}
	return false
}

// ToggleAll implements the select-all checkbox: when every row is selected
// it deselects all, otherwise it selects all. The result always leaves every
// row sharing the same selection state.
func (s *Set[T]) ToggleAll() {
	s.SelectAll(!s.AllSelected())
}

// SelectAll sets every row's selection flag.
func (s *Set[T]) SelectAll(selected bool) {
	for i := range s.rows {
		s.rows[i].Selected = selected
	}
}

// AllSelected reports whether the set is non-empty and every row is selected.
func (s *Set[T]) AllSelected() bool {
	if len(s.rows) == 0 {
		return false
	}
	for _, r := range s.rows {
		if !r.Selected {
			return false
		}
	}
	return true
}

// Remove deletes a row entirely — unlike deselection, the row disappears
// from the visible list as well as the payload.
func (s *Set[T]) Remove(id string) bool {
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return true
		}
	}
	return false
}

// Update replaces a row's record, keeping its id and selection flag.
func (s *Set[T]) Update(id string, record T) bool {
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].Record = record
			return true
		}
	}
	return false
}

// Selected returns the records of all selected rows, stripped of their
// review identifiers and flags.
func (s *Set[T]) Selected() []T {
	out := make([]T, 0, len(s.rows))
	for _, r := range s.rows {
		if r.Selected {
			out = append(out, r.Record)
		}
	}
	return out
}

// SelectedCount returns the number of selected rows.
func (s *Set[T]) SelectedCount() int {
	n := 0
	for _, r := range s.rows {
		if r.Selected {
			n++
		}
	}
	return n
}

// ops is the category-agnostic view a Session uses to dispatch selection
// operations without knowing the record type.
type ops interface {
	toggle(id string) bool
	toggleAll()
	remove(id string) bool
	length() int
	selectedCount() int
	allSelected() bool
}

func (s *Set[T]) toggle(id string) bool { return s.Toggle(id) }
func (s *Set[T]) toggleAll()            { s.ToggleAll() }
func (s *Set[T]) remove(id string) bool { return s.Remove(id) }
func (s *Set[T]) length() int           { return s.Len() }
func (s *Set[T]) selectedCount() int    { return s.SelectedCount() }
func (s *Set[T]) allSelected() bool     { return s.AllSelected() }
