// Package canon implements the EBNF -> BNF canonicalisation transform of
// spec.md §4.1: it rewrites a list of ebnf.Production (whose rhs may
// contain Group, Optional, and Repetition factors) into a grammar.CFG in
// which every production has exactly one alternative and every rhs symbol
// is a grammar.Symbol, with production attributes attached so AST
// construction can re-synthesise lists and options.
//
// Grounded on the ordered, fixpoint-per-pass transformation described in
// spec.md §4.1 and on the pass names in original_source's
// transformation/canonicalization.rs (extract_options, separate_alternatives,
// eliminate_repetitions, eliminate_options, eliminate_groups,
// eliminate_duplicates); the Rust source's single "extract_options" pass is
// split here between the step-1 (multi-factor optionals, which require a
// freshly named non-terminal) and step-4 (single-factor optionals, which
// are spliced in place) halves the spec.md prose itself distinguishes.
package canon

import (
	"github.com/parolgo/parol/ebnf"
	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/icterr"
	"github.com/parolgo/parol/util"
)

// workingProd is the mutable intermediate form productions take while
// passing through the canonicalisation loop: same shape as ebnf.Production,
// but productions are addressed by slice index rather than held in a map,
// so insertion order (and therefore the "new productions placed immediately
// adjacent to the triggering production" ordering guarantee of spec.md §5)
// is preserved for free.
type workingProd struct {
	LHS       string
	RHS       ebnf.Alternations
	Attribute grammar.ProductionAttribute
}

// Canonicalise runs the EBNF -> BNF rewrite and returns the resulting CFG,
// resolving every inline %sc/%push factor to scanner index 0. Grammars with
// more than the initial scanner should use CanonicaliseScanners instead.
func Canonicalise(start string, prods []ebnf.Production) (*grammar.CFG, error) {
	return CanonicaliseScanners(start, prods, nil)
}

// CanonicaliseScanners is Canonicalise with an explicit scanner-name
// resolver: the par package parses %sc(Name)/%push(Name) factors carrying a
// scanner *name* (ebnf.ScannerSwitchFactor.ScannerRef), but
// grammar.ScannerInstruction only carries an *index* -- %scanner
// declarations are not in scope until the whole PAR document has been read,
// so the name-to-index lookup cannot happen inside the parser and must
// happen here, at the point the EBNF tree is flattened into a CFG. A nil
// resolver resolves every reference to index 0, matching Canonicalise.
func CanonicaliseScanners(start string, prods []ebnf.Production, scannerIndex func(name string) (int, error)) (*grammar.CFG, error) {
	names := util.NewOrderedSet[string]()
	for _, p := range prods {
		names.Add(p.LHS)
	}

	working := make([]workingProd, len(prods))
	for i, p := range prods {
		working[i] = workingProd{LHS: p.LHS, RHS: p.RHS}
	}

	var (
		err                                                                  error
		changed1, changed2, changed3, changed4, changed5, changed6, changed bool
	)
	for {
		changed = false

		working, changed1, err = extractLongOptionals(working, names)
		if err != nil {
			return nil, err
		}
		changed = changed || changed1

		working, changed2 = separateAlternatives(working)
		changed = changed || changed2

		working, changed3, err = eliminateRepetitions(working, names)
		if err != nil {
			return nil, err
		}
		changed = changed || changed3

		working, changed4, err = eliminateSingleOptionals(working)
		if err != nil {
			return nil, err
		}
		changed = changed || changed4

		working, changed5, err = eliminateGroups(working, names)
		if err != nil {
			return nil, err
		}
		changed = changed || changed5

		working, changed6 = eliminateDuplicates(working, start)
		changed = changed || changed6

		if !changed {
			break
		}
	}

	finalProds := make([]grammar.Production, 0, len(working))
	for _, wp := range working {
		sym, err := toSymbols(wp.RHS, scannerIndex)
		if err != nil {
			return nil, err
		}
		finalProds = append(finalProds, grammar.Production{
			LHS:       wp.LHS,
			RHS:       sym,
			Attribute: wp.Attribute,
		})
	}

	return grammar.NewCFG(start, finalProds), nil
}

// toSymbols converts a fully-canonicalised Alternations (exactly one
// alternative, every factor a terminal or non-terminal reference) into a
// flat grammar.Symbol sequence.
func toSymbols(alts ebnf.Alternations, scannerIndex func(string) (int, error)) ([]grammar.Symbol, error) {
	if len(alts.Alternatives) == 0 {
		return nil, nil
	}
	factors := alts.Alternatives[0].Factors
	out := make([]grammar.Symbol, 0, len(factors))
	for _, f := range factors {
		sym, err := factorToSymbol(f, scannerIndex)
		if err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, nil
}

func factorToSymbol(f ebnf.Factor, scannerIndex func(string) (int, error)) (grammar.Symbol, error) {
	switch v := f.(type) {
	case ebnf.TerminalFactor:
		var la *grammar.Lookahead
		if v.Lookahead != nil {
			kind := grammar.LookaheadPositive
			if v.Lookahead.Negative {
				kind = grammar.LookaheadNegative
			}
			la = &grammar.Lookahead{Kind: kind, Pattern: v.Lookahead.Pattern}
		}
		var states []int
		if len(v.ScannerStateRefs) > 0 && scannerIndex != nil {
			states = make([]int, 0, len(v.ScannerStateRefs))
			for _, ref := range v.ScannerStateRefs {
				idx, err := scannerIndex(ref)
				if err != nil {
					return nil, err
				}
				states = append(states, idx)
			}
		}
		t := grammar.NewTerminal(v.Text, grammar.TerminalKind(v.Kind), states, grammar.NoAttribute, nil)
		t.Lookahead = la
		return t, nil
	case ebnf.NonTerminalFactor:
		return grammar.NonTerminal{
			Name:       v.Name,
			Attribute:  v.Attribute,
			UserType:   v.UserType,
			MemberName: v.MemberName,
		}, nil
	case ebnf.ScannerSwitchFactor:
		kind := grammar.Switch
		switch v.Kind {
		case ebnf.Push:
			kind = grammar.Push
		case ebnf.Pop:
			kind = grammar.Pop
		}
		idx := 0
		if kind != grammar.Pop && v.ScannerRef != "" && scannerIndex != nil {
			resolved, err := scannerIndex(v.ScannerRef)
			if err != nil {
				return nil, err
			}
			idx = resolved
		}
		return grammar.ScannerInstruction{Kind: kind, Index: idx}, nil
	default:
		return nil, icterr.New(icterr.CodeEmptyGroup, "internal: uncanonicalised factor reached symbol conversion: %T", f)
	}
}
