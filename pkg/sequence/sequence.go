// Package sequence provides a resizable, index-addressable sequence used as
// the ordered child collection of a tree node.
package sequence

import "fmt"

// Sequence is an ordered collection of entries addressed by position.
// The zero value is an empty sequence ready for use.
type Sequence[T any] struct {
	entries []T
}

// New returns an empty sequence.
func New[T any]() *Sequence[T] {
	return &Sequence[T]{}
}

// Add inserts x at pos, shifting entries at pos and above one place right.
// pos must satisfy 0 <= pos <= Length().
func (s *Sequence[T]) Add(pos int, x T) {
	if pos < 0 || pos > len(s.entries) {
		panic(fmt.Sprintf("sequence: add position %d out of range [0,%d]", pos, len(s.entries)))
	}
	var zero T
	s.entries = append(s.entries, zero)
	copy(s.entries[pos+1:], s.entries[pos:])
	s.entries[pos] = x
}

// Remove deletes and returns the entry at pos, shifting later entries left.
// pos must satisfy 0 <= pos < Length().
func (s *Sequence[T]) Remove(pos int) T {
	if pos < 0 || pos >= len(s.entries) {
		panic(fmt.Sprintf("sequence: remove position %d out of range [0,%d)", pos, len(s.entries)))
	}
	x := s.entries[pos]
	copy(s.entries[pos:], s.entries[pos+1:])
	var zero T
	s.entries[len(s.entries)-1] = zero
	s.entries = s.entries[:len(s.entries)-1]
	return x
}

// Entry returns the entry at pos without removing it.
func (s *Sequence[T]) Entry(pos int) T {
	if pos < 0 || pos >= len(s.entries) {
		panic(fmt.Sprintf("sequence: entry position %d out of range [0,%d)", pos, len(s.entries)))
	}
	return s.entries[pos]
}

// Length returns the number of entries.
func (s *Sequence[T]) Length() int {
	return len(s.entries)
}

// Clear removes every entry.
func (s *Sequence[T]) Clear() {
	clear(s.entries)
	s.entries = s.entries[:0]
}

// TransferFrom moves the entries of source into s and leaves source empty.
func (s *Sequence[T]) TransferFrom(source *Sequence[T]) {
	if source == s {
		panic("sequence: transfer from self")
	}
	s.entries = source.entries
	source.entries = nil
}

// All calls yield for each entry in order until yield returns false.
func (s *Sequence[T]) All(yield func(int, T) bool) {
	for i, x := range s.entries {
		if !yield(i, x) {
			return
		}
	}
}
