package analysis

import (
	"fmt"

	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/icterr"
)

// kResult is one (k, grammar) entry of the FIRST cache: a tuple set per
// production and a tuple set per non-terminal, matching the "equation
// system ... vector indexed by productions followed by non-terminals" of
// spec.md §4.3.
type kResult struct {
	k        int
	prodSets []TupleSet
	ntSets   map[string]TupleSet
}

// Cache is the FIRST(k) cache of spec.md §4.3/§5: keyed by k (the grammar
// is fixed for the cache's lifetime, so the key collapses to just k),
// entries are filled lazily and bottom-up so computing FIRST_k reuses
// FIRST_{k-1}. Per spec.md §9 ("design it as an explicit parameter
// threaded through the pipeline driver: it is created at pipeline start
// and dropped at pipeline end -- no statics"), Cache carries no package-
// level state; callers construct one with NewCache per grammar and drop it
// when done with that grammar.
type Cache struct {
	g      *grammar.CFG
	maxK   int
	byK    map[int]*kResult
}

// NewCache returns an empty FIRST(k) cache for g, willing to compute up to
// maxK (spec.md's MAX_K = 10 for the lookahead-DFA builder, though callers
// needing only FIRST/FOLLOW for the validator may pass a smaller bound).
func NewCache(g *grammar.CFG, maxK int) *Cache {
	return &Cache{g: g, maxK: maxK, byK: map[int]*kResult{}}
}

// First returns the FIRST_k tuple set for every production and
// non-terminal, computing (and caching) every FIRST_j for j <= k along the
// way if not already present.
func (c *Cache) First(k int) (*kResult, error) {
	if k > c.maxK {
		return nil, icterr.New(icterr.CodeMaxKExceeded, "FIRST_%d requested but cache bound is %d", k, c.maxK)
	}
	if r, ok := c.byK[k]; ok {
		return r, nil
	}

	var seed *kResult
	if k > 0 {
		prev, err := c.First(k - 1)
		if err != nil {
			return nil, err
		}
		seed = prev
	}

	result := c.iterate(k, seed)
	c.byK[k] = result
	return result, nil
}

// iterate runs the chaotic iteration described in spec.md §4.3 at bound k,
// starting from seed (the promoted FIRST_{k-1} result) or, for k == 0,
// from the degenerate seed of empty production sets and {epsilon}
// non-terminal sets.
func (c *Cache) iterate(k int, seed *kResult) *kResult {
	prods := c.g.Productions
	nts := c.g.NonTerminals()

	result := &kResult{k: k, prodSets: make([]TupleSet, len(prods)), ntSets: map[string]TupleSet{}}
	if seed != nil {
		for i := range prods {
			result.prodSets[i] = seed.prodSets[i]
		}
		for _, nt := range nts {
			result.ntSets[nt] = seed.ntSets[nt]
		}
	} else {
		for i := range prods {
			result.prodSets[i] = NewTupleSet()
		}
		for _, nt := range nts {
			result.ntSets[nt] = EpsilonSet()
		}
	}

	for {
		stable := true
		for i, p := range prods {
			contribution := c.productionContribution(p, k, result.ntSets)
			if !contribution.Equal(result.prodSets[i]) {
				result.prodSets[i] = contribution
				stable = false
			}
		}
		for _, nt := range nts {
			merged := NewTupleSet()
			for _, idx := range c.g.ProductionsFor(nt) {
				merged = Union(merged, result.prodSets[idx])
			}
			if !merged.Equal(result.ntSets[nt]) {
				result.ntSets[nt] = merged
				stable = false
			}
		}
		if stable {
			break
		}
	}

	return result
}

// productionContribution computes f_X1 (+)_k ... (+)_k f_Xn for production
// p's rhs, where f_T = {T} for a terminal and f_M is the current iterate's
// FIRST_k(M) for a non-terminal. Each run of adjacent terminals is
// gathered into one tuple and concatenated in a single step.
func (c *Cache) productionContribution(p grammar.Production, k int, ntSets map[string]TupleSet) TupleSet {
	acc := EpsilonSet()
	var run Tuple
	flush := func() {
		if len(run) > 0 {
			s := NewTupleSet()
			s.Add(run)
			acc = ConcatK(acc, s, k)
			run = nil
		}
	}
	for _, sym := range p.RHS {
		switch s := sym.(type) {
		case grammar.Terminal:
			idx, ok := c.g.TerminalIndexOf(s)
			if !ok {
				// a terminal that never occurs in the grammar's own
				// terminal list (shouldn't happen for a well-formed CFG);
				// treat conservatively as contributing nothing further.
				continue
			}
			run = append(run, idx)
		case grammar.NonTerminal:
			flush()
			acc = ConcatK(acc, ntSets[s.Name], k)
		}
	}
	flush()
	return acc
}

func singleton(terminalIndex int) TupleSet {
	s := NewTupleSet()
	s.Add(Tuple{terminalIndex})
	return s
}

// String renders a kResult for debugging; not exposed outside the package.
func (r *kResult) String() string {
	return fmt.Sprintf("FIRST_%d over %d productions, %d non-terminals", r.k, len(r.prodSets), len(r.ntSets))
}

// FirstOfNonTerminal is a convenience accessor for FIRST_k(N).
func (c *Cache) FirstOfNonTerminal(k int, nt string) (TupleSet, error) {
	r, err := c.First(k)
	if err != nil {
		return TupleSet{}, err
	}
	s, ok := r.ntSets[nt]
	if !ok {
		return TupleSet{}, icterr.New(icterr.CodeSyntaxError, "unknown non-terminal %q", nt)
	}
	return s, nil
}

// FirstOfProduction is a convenience accessor for FIRST_k(p).
func (c *Cache) FirstOfProduction(k int, prodIndex int) (TupleSet, error) {
	r, err := c.First(k)
	if err != nil {
		return TupleSet{}, err
	}
	if prodIndex < 0 || prodIndex >= len(r.prodSets) {
		return TupleSet{}, icterr.New(icterr.CodeSyntaxError, "production index %d out of range", prodIndex)
	}
	return r.prodSets[prodIndex], nil
}
