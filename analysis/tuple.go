package analysis

import "strconv"

// Tuple is a k-bounded sequence of terminal indices. A tuple shorter than
// the bound k is implicitly epsilon-extended per spec.md §4.3: once a
// production's derivation is exhausted short of k tokens, nothing further
// is guaranteed, and the tuple simply stops rather than padding with an
// explicit epsilon marker.
type Tuple []int

func (t Tuple) key() string {
	// a plain separator-joined key; the comma keeps e.g. [1,23] and [12,3]
	// apart, and the -1 end-of-input marker FOLLOW tuples carry encodes as
	// "-1" without clashing with any real index.
	key := make([]byte, 0, len(t)*3)
	for i, idx := range t {
		if i > 0 {
			key = append(key, ',')
		}
		key = strconv.AppendInt(key, int64(idx), 10)
	}
	return string(key)
}

// TupleSet is a set of Tuples, the value domain of FIRST_k.
type TupleSet struct {
	byKey map[string]Tuple
}

// NewTupleSet returns an empty TupleSet.
func NewTupleSet() TupleSet {
	return TupleSet{byKey: map[string]Tuple{}}
}

// EpsilonSet returns the TupleSet containing only the empty tuple -- the
// FIRST_k identity element, and the k=0 seed for every non-terminal.
func EpsilonSet() TupleSet {
	s := NewTupleSet()
	s.Add(Tuple{})
	return s
}

func (s TupleSet) Add(t Tuple) {
	s.byKey[t.key()] = t
}

// Len returns the number of distinct tuples.
func (s TupleSet) Len() int { return len(s.byKey) }

// Tuples returns the set's members in no particular order.
func (s TupleSet) Tuples() []Tuple {
	out := make([]Tuple, 0, len(s.byKey))
	for _, t := range s.byKey {
		out = append(out, t)
	}
	return out
}

// Equal reports whether s and other contain exactly the same tuples; used
// by the chaotic iteration's componentwise stability check.
func (s TupleSet) Equal(other TupleSet) bool {
	if len(s.byKey) != len(other.byKey) {
		return false
	}
	for k := range s.byKey {
		if _, ok := other.byKey[k]; !ok {
			return false
		}
	}
	return true
}

// Union returns a new TupleSet containing every tuple in s or other.
func Union(s, other TupleSet) TupleSet {
	out := NewTupleSet()
	for k, t := range s.byKey {
		out.byKey[k] = t
	}
	for k, t := range other.byKey {
		out.byKey[k] = t
	}
	return out
}

// concat1 is the k-concatenation of two single tuples: a . b, truncated to
// length k. Concatenation elides b's contribution entirely once a already
// has k or more elements -- the "ε-tail elision" of spec.md §4.3.
func concat1(a, b Tuple, k int) Tuple {
	if len(a) >= k {
		if len(a) == k {
			return a
		}
		return a[:k]
	}
	need := k - len(a)
	if need > len(b) {
		need = len(b)
	}
	out := make(Tuple, 0, len(a)+need)
	out = append(out, a...)
	out = append(out, b[:need]...)
	return out
}

// ConcatK is A ⊕_k B: the set of truncate_k(a.b) for a in A, b in B. This
// grouping of adjacent terminals into a single k-tuple during equation
// construction (rather than concatenating one terminal at a time) is the
// "required optimisation, not cosmetic" spec.md §4.3 calls out: callers
// build up a production's contribution by folding ConcatK across its rhs,
// passing each run of adjacent terminals as one single-tuple set, so a run
// costs one concatenation rather than one per terminal occurrence.
func ConcatK(a, b TupleSet, k int) TupleSet {
	out := NewTupleSet()
	for _, ta := range a.Tuples() {
		for _, tb := range b.Tuples() {
			out.Add(concat1(ta, tb, k))
		}
	}
	return out
}

// Truncate returns a new TupleSet with every tuple cut down to length k.
func (s TupleSet) Truncate(k int) TupleSet {
	out := NewTupleSet()
	for _, t := range s.Tuples() {
		if len(t) > k {
			t = t[:k]
		}
		out.Add(t)
	}
	return out
}
