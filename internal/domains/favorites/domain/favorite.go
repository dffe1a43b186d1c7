package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxItemIDLength bounds an item id in characters. The durable store column has the same width.
const MaxItemIDLength = 128

// ItemID identifies an adoptable animal record. It is opaque to the favorites context.
type ItemID string

// Valid reports whether the id is non-blank and fits in MaxItemIDLength characters.
func (id ItemID) Valid() bool {
	return strings.TrimSpace(string(id)) != "" && utf8.RuneCountInString(string(id)) <= MaxItemIDLength
}

// FavoriteSet is an insertion-ordered set of item identifiers.
// The zero value is an empty set ready to use.
type FavoriteSet struct {
	order []ItemID
	index map[ItemID]struct{}
}

// NewFavoriteSet builds a set from ids, collapsing duplicates and keeping first-seen order.
func NewFavoriteSet(ids ...ItemID) FavoriteSet {
	var set FavoriteSet
	for _, id := range ids {
		set.Add(id)
	}
	return set
}

// Merge returns the union of the remote and local lists. Remote ids keep their order and
// local ids not already present are appended after them.
func Merge(remote, local []ItemID) FavoriteSet {
	set := NewFavoriteSet(remote...)
	for _, id := range local {
		set.Add(id)
	}
	return set
}

// Contains reports membership.
func (s *FavoriteSet) Contains(id ItemID) bool {
	if s.index == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

// Add inserts id and reports whether the set changed.
func (s *FavoriteSet) Add(id ItemID) bool {
	if s.Contains(id) {
		return false
	}
	if s.index == nil {
		s.index = make(map[ItemID]struct{})
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Remove deletes id and reports whether the set changed.
func (s *FavoriteSet) Remove(id ItemID) bool {
	if !s.Contains(id) {
		return false
	}
	delete(s.index, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Toggle flips membership of id and returns the resulting membership.
func (s *FavoriteSet) Toggle(id ItemID) bool {
	if s.Remove(id) {
		return false
	}
	s.Add(id)
	return true
}

// Len returns the number of members.
func (s *FavoriteSet) Len() int {
	return len(s.order)
}

// IDs returns a copy of the members in insertion order.
func (s *FavoriteSet) IDs() []ItemID {
	return append([]ItemID{}, s.order...)
}

// Clone returns an independent copy of the set.
func (s *FavoriteSet) Clone() FavoriteSet {
	return NewFavoriteSet(s.order...)
}
