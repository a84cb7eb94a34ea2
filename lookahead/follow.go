// Package lookahead builds, per non-terminal, the decision DFA of
// spec.md §4.4 that picks a production from up to k lookahead tokens, and
// implements the runtime evaluator of spec.md §4.5 that walks such a DFA
// against an actual token stream. Grounded on the teacher's
// automaton.DFA[E] (AddState/AddTransition/Next/String conventions,
// simplified here to the spec's own int-keyed state shape) and on
// original_source's parser/lookahead_dfa.rs for the exact evaluator
// algorithm ("last accepting state" fallback over sorted transitions).
package lookahead

import (
	"github.com/parolgo/parol/analysis"
	"github.com/parolgo/parol/grammar"
)

// endMarker is the terminal-index sentinel FOLLOW computations use to
// represent end-of-input; it is distinct from every real terminal index
// (which are always >= 0). DFA transitions built from it carry -1 as their
// terminal, which is the same value lex.Stream and the runtime driver use
// for end-of-input; wire.Build maps it to the terminal table's reserved
// EOI index 0 (spec.md §6).
const endMarker = -1

// followSets computes FOLLOW_k(N) for every non-terminal N, by the same
// chaotic-iteration strategy spec.md §4.3 describes for FIRST_k ("FOLLOW is
// computed analogously"): FOLLOW_k(N) accumulates, for every occurrence of
// N in some production M -> alpha N beta, FIRST_k(beta) concatenated with
// FOLLOW_k(M).
func followSets(g *grammar.CFG, cache *analysis.Cache, k int) (map[string]analysis.TupleSet, error) {
	follow := map[string]analysis.TupleSet{}
	for _, nt := range g.NonTerminals() {
		follow[nt] = analysis.NewTupleSet()
	}
	follow[g.StartSymbol] = endMarkerSet(k)

	for {
		stable := true
		for _, p := range g.Productions {
			for i, sym := range p.RHS {
				nt, ok := sym.(grammar.NonTerminal)
				if !ok {
					continue
				}
				rest := p.RHS[i+1:]
				restFirst, err := firstOfSymbols(g, cache, rest, k)
				if err != nil {
					return nil, err
				}
				contribution := analysis.ConcatK(restFirst, follow[p.LHS], k)
				merged := analysis.Union(follow[nt.Name], contribution)
				if !merged.Equal(follow[nt.Name]) {
					follow[nt.Name] = merged
					stable = false
				}
			}
		}
		if stable {
			break
		}
	}

	return follow, nil
}

// endMarkerSet returns the k-length tuple of endMarker repeated: the
// "nothing more can follow" value seeded at the start symbol.
func endMarkerSet(k int) analysis.TupleSet {
	s := analysis.NewTupleSet()
	t := make(analysis.Tuple, k)
	for i := range t {
		t[i] = endMarker
	}
	s.Add(t)
	return s
}

// firstOfSymbols computes FIRST_k of an arbitrary rhs suffix (not
// necessarily a whole production), folding ConcatK across each symbol in
// turn, the same "adjacent terminals grouped" strategy spec.md §4.3 calls
// for in the production-level equation.
func firstOfSymbols(g *grammar.CFG, cache *analysis.Cache, seq []grammar.Symbol, k int) (analysis.TupleSet, error) {
	acc := analysis.EpsilonSet()
	var run analysis.Tuple
	flush := func() {
		if len(run) > 0 {
			single := analysis.NewTupleSet()
			single.Add(run)
			acc = analysis.ConcatK(acc, single, k)
			run = nil
		}
	}
	for _, sym := range seq {
		switch s := sym.(type) {
		case grammar.Terminal:
			idx, ok := g.TerminalIndexOf(s)
			if !ok {
				continue
			}
			run = append(run, idx)
		case grammar.NonTerminal:
			flush()
			fs, err := cache.FirstOfNonTerminal(k, s.Name)
			if err != nil {
				return analysis.TupleSet{}, err
			}
			acc = analysis.ConcatK(acc, fs, k)
		}
	}
	flush()
	return acc, nil
}
