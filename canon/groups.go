package canon

import (
	"github.com/parolgo/parol/ebnf"
	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/icterr"
	"github.com/parolgo/parol/util"
)

// eliminateGroups is spec.md §4.1 step 5: R -> x (alpha) y with a
// single-factor alpha splices alpha in place; with a longer alpha, a fresh
// RGroup non-terminal is introduced carrying each of alpha's alternatives
// verbatim as its own production (no attribute: a group is a pure grouping
// construct, unlike a repetition or optional, so it contributes no list/
// option semantics to AST construction).
func eliminateGroups(in []workingProd, names *util.OrderedSet[string]) ([]workingProd, bool, error) {
	out := make([]workingProd, 0, len(in))
	changedAny := false

	for _, wp := range in {
		var generated []workingProd

		fn := func(f ebnf.Factor) (ebnf.Factor, bool, error) {
			grp, ok := f.(ebnf.Group)
			if !ok {
				return f, false, nil
			}
			if grp.Alts.Empty() {
				return nil, false, icterr.At(icterr.CodeEmptyGroup, grp.Pos, "empty group () in production %s", wp.LHS)
			}
			if isSingleFactor(grp.Alts) {
				return grp.Alts.Alternatives[0].Factors[0], true, nil
			}

			name := GenerateName(names, wp.LHS+"Group")
			names.Add(name)
			for _, alt := range grp.Alts.Alternatives {
				generated = append(generated, workingProd{
					LHS:       name,
					RHS:       ebnf.Alternations{Alternatives: []ebnf.Alternation{alt}},
					Attribute: grammar.NoProductionAttribute,
				})
			}
			return ebnf.NonTerminalFactor{Name: name, Pos: grp.Pos}, true, nil
		}

		newRHS, changed, err := walkAlternations(wp.RHS, fn)
		if err != nil {
			return nil, false, err
		}
		wp.RHS = newRHS
		out = append(out, wp)
		out = append(out, generated...)
		changedAny = changedAny || changed
	}

	return out, changedAny, nil
}
