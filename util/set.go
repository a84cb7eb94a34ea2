// Package util holds small generic container helpers shared across the
// grammar, analysis, and lookahead packages: ordered sets (grammars need
// first-occurrence ordering far more often than they need arbitrary-order
// sets), a plain stack, and a couple of English-list formatting helpers used
// when rendering "expected one of X, Y or Z" diagnostics.
package util

import (
	"fmt"
	"sort"
	"strings"
)

// OrderedSet is a set of comparable elements that also remembers the order
// in which elements were first added. CFG non-terminal/terminal enumeration
// is required by spec to be "first-occurrence order", so this is the
// workhorse set type for grammar-level code; KeySet below is used where
// order genuinely does not matter (e.g. FIRST-set membership tests).
type OrderedSet[E comparable] struct {
	index map[E]int
	order []E
}

// NewOrderedSet returns an empty OrderedSet.
func NewOrderedSet[E comparable]() *OrderedSet[E] {
	return &OrderedSet[E]{index: map[E]int{}}
}

// OrderedSetOf builds an OrderedSet from a slice, preserving the slice's
// order for first occurrences and silently dropping later duplicates.
func OrderedSetOf[E comparable](items []E) *OrderedSet[E] {
	s := NewOrderedSet[E]()
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add adds element to the set if not already present. No-op otherwise.
func (s *OrderedSet[E]) Add(element E) {
	if _, ok := s.index[element]; ok {
		return
	}
	s.index[element] = len(s.order)
	s.order = append(s.order, element)
}

// AddAll adds every element of other to s, in other's order.
func (s *OrderedSet[E]) AddAll(other *OrderedSet[E]) {
	for _, e := range other.order {
		s.Add(e)
	}
}

// Has returns whether element is a member.
func (s *OrderedSet[E]) Has(element E) bool {
	_, ok := s.index[element]
	return ok
}

// Remove removes element from the set, if present.
func (s *OrderedSet[E]) Remove(element E) {
	idx, ok := s.index[element]
	if !ok {
		return
	}
	s.order = append(s.order[:idx], s.order[idx+1:]...)
	delete(s.index, element)
	for i := idx; i < len(s.order); i++ {
		s.index[s.order[i]] = i
	}
}

// Len returns the number of elements.
func (s *OrderedSet[E]) Len() int {
	return len(s.order)
}

// Empty returns whether the set has no elements.
func (s *OrderedSet[E]) Empty() bool {
	return len(s.order) == 0
}

// Elements returns the elements in first-occurrence order. The returned
// slice must not be mutated by callers.
func (s *OrderedSet[E]) Elements() []E {
	out := make([]E, len(s.order))
	copy(out, s.order)
	return out
}

// Copy returns a shallow duplicate of s.
func (s *OrderedSet[E]) Copy() *OrderedSet[E] {
	cp := NewOrderedSet[E]()
	cp.AddAll(s)
	return cp
}

// MoveToFront re-orders the set so that element is first, if present.
// Used to force the start symbol to the front of the non-terminal list.
func (s *OrderedSet[E]) MoveToFront(element E) {
	if !s.Has(element) {
		return
	}
	reordered := make([]E, 0, len(s.order))
	reordered = append(reordered, element)
	for _, e := range s.order {
		if e != element {
			reordered = append(reordered, e)
		}
	}
	s.order = reordered
	for i, e := range s.order {
		s.index[e] = i
	}
}

// KeySet is an unordered set of comparable elements.
type KeySet[E comparable] map[E]struct{}

// NewKeySet returns an empty KeySet.
func NewKeySet[E comparable]() KeySet[E] {
	return make(KeySet[E])
}

// KeySetOf builds a KeySet from a slice.
func KeySetOf[E comparable](items []E) KeySet[E] {
	s := NewKeySet[E]()
	for _, it := range items {
		s.Add(it)
	}
	return s
}

func (s KeySet[E]) Add(e E)      { s[e] = struct{}{} }
func (s KeySet[E]) Remove(e E)   { delete(s, e) }
func (s KeySet[E]) Has(e E) bool { _, ok := s[e]; return ok }
func (s KeySet[E]) Len() int     { return len(s) }

func (s KeySet[E]) AddAll(o KeySet[E]) {
	for e := range o {
		s.Add(e)
	}
}

// Union returns a new KeySet containing every element in s or o.
func (s KeySet[E]) Union(o KeySet[E]) KeySet[E] {
	out := NewKeySet[E]()
	out.AddAll(s)
	out.AddAll(o)
	return out
}

// Intersection returns a new KeySet containing only elements in both s and o.
func (s KeySet[E]) Intersection(o KeySet[E]) KeySet[E] {
	out := NewKeySet[E]()
	for e := range s {
		if o.Has(e) {
			out.Add(e)
		}
	}
	return out
}

// Elements returns the set's elements in no particular order.
func (s KeySet[E]) Elements() []E {
	out := make([]E, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	return out
}

// OrderedKeys returns the keys of m sorted ascending. Used whenever map
// iteration needs to be made deterministic for output or diffing.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MakeTextList joins items into a human-readable list with an Oxford comma,
// e.g. "A", "A and B", or "A, B, and C".
func MakeTextList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		out := make([]string, len(items))
		copy(out, items)
		out[len(out)-1] = "and " + out[len(out)-1]
		return strings.Join(out, ", ")
	}
}

// ArticleFor returns "a" or "an" as appropriate for the given word, optionally
// capitalized. It is a simple vowel-sound heuristic, sufficient for the token
// class names parol diagnostics need to prefix.
func ArticleFor(word string, capitalize bool) string {
	article := "a"
	if len(word) > 0 {
		switch word[0] {
		case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
			article = "an"
		}
	}
	if capitalize {
		return strings.ToUpper(article[:1]) + article[1:]
	}
	return article
}

// Quote is a small helper for consistent %q-style rendering in generated
// table strings without importing fmt at every call site.
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}
