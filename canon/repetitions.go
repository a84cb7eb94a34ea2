package canon

import (
	"github.com/parolgo/parol/ebnf"
	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/icterr"
	"github.com/parolgo/parol/util"
)

// eliminateRepetitions is spec.md §4.1 step 3: R -> x {alpha} y becomes
// R -> x R' y, with R' freshly named (RList[n]) and marked
// RepetitionAnchor at its use site, plus R' -> alpha R' (AddToCollection,
// once per alternative of alpha) and R' -> epsilon (CollectionStart).
func eliminateRepetitions(in []workingProd, names *util.OrderedSet[string]) ([]workingProd, bool, error) {
	out := make([]workingProd, 0, len(in))
	changedAny := false

	for _, wp := range in {
		var generated []workingProd

		fn := func(f ebnf.Factor) (ebnf.Factor, bool, error) {
			rep, ok := f.(ebnf.Repetition)
			if !ok {
				return f, false, nil
			}
			if rep.Alts.Empty() {
				return nil, false, icterr.At(icterr.CodeEmptyRepetition, rep.Pos, "empty repetition {} in production %s", wp.LHS)
			}

			name := GenerateName(names, wp.LHS+"List")
			names.Add(name)

			selfRef := ebnf.NonTerminalFactor{Name: name}
			for _, alt := range rep.Alts.Alternatives {
				factors := make([]ebnf.Factor, 0, len(alt.Factors)+1)
				factors = append(factors, alt.Factors...)
				factors = append(factors, selfRef)
				generated = append(generated, workingProd{
					LHS:       name,
					RHS:       ebnf.Alternations{Alternatives: []ebnf.Alternation{{Factors: factors}}},
					Attribute: grammar.AddToCollection,
				})
			}
			generated = append(generated, workingProd{
				LHS:       name,
				RHS:       epsilonAlts(),
				Attribute: grammar.CollectionStart,
			})

			return ebnf.NonTerminalFactor{Name: name, Attribute: grammar.RepetitionAnchor, Pos: rep.Pos}, true, nil
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
