// Package analysis implements the grammar validator (productivity,
// reachability, left-recursion detection) and the FIRST(k) fixpoint
// engine of spec.md §4.2/§4.3. Both are chaotic-iteration fixpoint
// computations over a lattice indexed by non-terminal, grounded on the
// teacher's internal/tunascript.Grammar (a complete, if k=1-only,
// FIRST/FOLLOW/left-recursion implementation retained in the example pack
// even though the primary teacher package's own grammar.go file was not)
// and on original_source's analysis/first.rs for the k-tuple
// generalisation.
package analysis

import (
	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/icterr"
	"github.com/parolgo/parol/util"
)

// Productivity computes the set of productive non-terminals: N is
// productive if some production of N has an rhs consisting entirely of
// terminals and already-productive non-terminals (epsilon rhs counts as
// all-terminal). Returns an error listing the complement if any
// non-terminal is left non-productive.
func Productivity(g *grammar.CFG) (util.KeySet[string], error) {
	productive := util.NewKeySet[string]()

	for {
		changed := false
		for _, nt := range g.NonTerminals() {
			if productive.Has(nt) {
				continue
			}
			for _, idx := range g.ProductionsFor(nt) {
				if productionIsProductive(g.Productions[idx], productive) {
					productive.Add(nt)
					changed = true
					break
				}
			}
		}
		if !changed {
			break
		}
	}

	var nonProductive []string
	for _, nt := range g.NonTerminals() {
		if !productive.Has(nt) {
			nonProductive = append(nonProductive, nt)
		}
	}
	if len(nonProductive) > 0 {
		return productive, icterr.NewGrammarError(icterr.CodeNonProductiveNonTerms,
			"grammar contains non-productive non-terminals", "has no all-terminal/productive production", nonProductive...)
	}
	return productive, nil
}

func productionIsProductive(p grammar.Production, productive util.KeySet[string]) bool {
	for _, sym := range p.RHS {
		switch s := sym.(type) {
		case grammar.Terminal:
			// always productive
		case grammar.NonTerminal:
			if !productive.Has(s.Name) {
				return false
			}
		case grammar.ScannerInstruction:
			// contributes nothing to productivity either way
		}
	}
	return true
}

// Reachability computes the forward closure from the start symbol through
// rhs non-terminals. Returns an error listing the complement if any
// non-terminal is unreachable.
func Reachability(g *grammar.CFG) (util.KeySet[string], error) {
	reachable := util.NewKeySet[string]()
	reachable.Add(g.StartSymbol)

	for {
		changed := false
		for _, nt := range reachable.Elements() {
			for _, idx := range g.ProductionsFor(nt) {
				for _, sym := range g.Productions[idx].RHS {
					if n, ok := sym.(grammar.NonTerminal); ok && !reachable.Has(n.Name) {
						reachable.Add(n.Name)
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}

	var unreachable []string
	for _, nt := range g.NonTerminals() {
		if !reachable.Has(nt) {
			unreachable = append(unreachable, nt)
		}
	}
	if len(unreachable) > 0 {
		return reachable, icterr.NewGrammarError(icterr.CodeUnreachableNonTerms,
			"grammar contains unreachable non-terminals", "not reachable from the start symbol", unreachable...)
	}
	return reachable, nil
}

// Nullable computes the set of non-terminals that can derive epsilon,
// needed by left-recursion detection to scan through nullable leading
// symbols. The FIRST(k) engine does not use it: epsilon shows up there as
// the empty tuple.
func Nullable(g *grammar.CFG) util.KeySet[string] {
	nullable := util.NewKeySet[string]()

	for {
		changed := false
		for _, nt := range g.NonTerminals() {
			if nullable.Has(nt) {
				continue
			}
			for _, idx := range g.ProductionsFor(nt) {
				if productionIsNullable(g.Productions[idx], nullable) {
					nullable.Add(nt)
					changed = true
					break
				}
			}
		}
		if !changed {
			break
		}
	}

	return nullable
}

func productionIsNullable(p grammar.Production, nullable util.KeySet[string]) bool {
	if p.IsEmpty() {
		return true
	}
	for _, sym := range p.RHS {
		switch s := sym.(type) {
		case grammar.Terminal:
			return false
		case grammar.NonTerminal:
			if !nullable.Has(s.Name) {
				return false
			}
		}
	}
	return true
}

// LeftRecursion detects direct and indirect left recursion: it builds the
// "N directly left-derives M" relation by scanning each production's
// leading symbols through nullable prefixes, then rejects if that
// relation's transitive closure is not irreflexive. The single error
// carries one violation per non-terminal that lies on a left-recursion
// cycle, in non-terminal order; which cycle each one belongs to is not
// reported.
func LeftRecursion(g *grammar.CFG) error {
	nullable := Nullable(g)

	derives := map[string]util.KeySet[string]{}
	for _, nt := range g.NonTerminals() {
		derives[nt] = util.NewKeySet[string]()
	}

	for _, nt := range g.NonTerminals() {
		for _, idx := range g.ProductionsFor(nt) {
			for _, sym := range g.Productions[idx].RHS {
				n, ok := sym.(grammar.NonTerminal)
				if !ok {
					break // leading symbol is a terminal: no direct left-derivation here
				}
				derives[nt].Add(n.Name)
				if !nullable.Has(n.Name) {
					break // n.Name is not nullable, so it blocks further leading symbols
				}
			}
		}
	}

	// transitive closure (Floyd-Warshall style over the non-terminal set)
	closure := map[string]util.KeySet[string]{}
	for nt, set := range derives {
		closure[nt] = set.Union(util.NewKeySet[string]())
	}
	nts := g.NonTerminals()
	for _, k := range nts {
		for _, i := range nts {
			if !closure[i].Has(k) {
				continue
			}
			for _, j := range closure[k].Elements() {
				closure[i].Add(j)
			}
		}
	}

	var cycles []string
	seen := util.NewKeySet[string]()
	for _, nt := range nts {
		if closure[nt].Has(nt) && !seen.Has(nt) {
			seen.Add(nt)
			cycles = append(cycles, nt)
		}
	}

	if len(cycles) > 0 {
		return icterr.NewGrammarError(icterr.CodeLeftRecursion,
			"grammar contains left-recursive non-terminals", "participates in a left-recursion cycle", cycles...)
	}
	return nil
}

// Validate runs productivity, reachability, and (for LL(k) grammars)
// left-recursion detection, in that order, returning the first failure.
func Validate(g *grammar.CFG, flavor grammar.Flavor) error {
	if _, err := Productivity(g); err != nil {
		return err
	}
	if _, err := Reachability(g); err != nil {
		return err
	}
	if flavor == grammar.LLk {
		if err := LeftRecursion(g); err != nil {
			return err
		}
	}
	return nil
}
