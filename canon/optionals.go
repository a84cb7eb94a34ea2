package canon

import (
	"github.com/parolgo/parol/ebnf"
	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/icterr"
	"github.com/parolgo/parol/util"
)

// extractLongOptionals is spec.md §4.1 step 1: any Optional factor [alpha]
// whose body is more than a single factor is replaced by a freshly named
// non-terminal POpt, with POpt -> alpha (OptionalSome) and POpt -> epsilon
// (OptionalNone) emitted immediately after the triggering production.
// Single-factor optionals are left for eliminateSingleOptionals (step 4),
// which splices them in place without introducing a new non-terminal.
func extractLongOptionals(in []workingProd, names *util.OrderedSet[string]) ([]workingProd, bool, error) {
	out := make([]workingProd, 0, len(in))
	changedAny := false

	for _, wp := range in {
		var generated []workingProd

		fn := func(f ebnf.Factor) (ebnf.Factor, bool, error) {
			opt, ok := f.(ebnf.Optional)
			if !ok {
				return f, false, nil
			}
			if opt.Alts.Empty() {
				return nil, false, icterr.At(icterr.CodeEmptyOptional, opt.Pos, "empty optional [] in production %s", wp.LHS)
			}
			if isSingleFactor(opt.Alts) {
				return f, false, nil
			}

			name := GenerateName(names, wp.LHS+"Opt")
			names.Add(name)
			generated = append(generated,
				workingProd{LHS: name, RHS: opt.Alts, Attribute: grammar.OptionalSome},
				workingProd{LHS: name, RHS: epsilonAlts(), Attribute: grammar.OptionalNone},
			)
			return ebnf.NonTerminalFactor{Name: name, Attribute: grammar.Option, Pos: opt.Pos}, true, nil
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

// eliminateSingleOptionals is spec.md §4.1 step 4: any remaining Optional
// factor [alpha] with a single-factor alpha is spliced in place. R -> x
// [a] y becomes two alternatives of the same production, R -> x a y and
// R -> x y; the alternative containing alpha is produced for every
// alternation in the enclosing Alternations that still contains such an
// optional, so this also applies inside nested Group/Repetition bodies,
// not just a production's own top-level rhs.
func eliminateSingleOptionals(in []workingProd) ([]workingProd, bool, error) {
	out := make([]workingProd, 0, len(in))
	changedAny := false

	for _, wp := range in {
		newRHS, changed, err := expandSingleOptionals(wp.RHS)
		if err != nil {
			return nil, false, err
		}
		wp.RHS = newRHS
		out = append(out, wp)
		changedAny = changedAny || changed
	}

	return out, changedAny, nil
}

// expandSingleOptionals recurses into nested Group/Repetition bodies first,
// then expands any alternation in alts that contains a single-factor
// Optional into two alternations (with and without that factor), repeating
// until no alternation in alts contains one.
func expandSingleOptionals(alts ebnf.Alternations) (ebnf.Alternations, bool, error) {
	changedAny := false

	for {
		progressed := false
		newAlternatives := make([]ebnf.Alternation, 0, len(alts.Alternatives))

		for _, alt := range alts.Alternatives {
			recursed, err := recurseContainers(alt)
			if err != nil {
				return ebnf.Alternations{}, false, err
			}
			alt = recursed

			idx := indexOfSingleOptional(alt.Factors)
			if idx < 0 {
				newAlternatives = append(newAlternatives, alt)
				continue
			}

			progressed = true
			changedAny = true
			opt := alt.Factors[idx].(ebnf.Optional)
			inner := opt.Alts.Alternatives[0].Factors[0]

			withFactor := spliceFactor(alt.Factors, idx, inner)
			withoutFactor := removeFactor(alt.Factors, idx)

			newAlternatives = append(newAlternatives,
				ebnf.Alternation{Factors: withFactor},
				ebnf.Alternation{Factors: withoutFactor},
			)
		}

		alts = ebnf.Alternations{Alternatives: newAlternatives}
		if !progressed {
			break
		}
	}

	return alts, changedAny, nil
}

// recurseContainers applies expandSingleOptionals to any Group or
// Repetition body nested directly in alt's factors.
func recurseContainers(alt ebnf.Alternation) (ebnf.Alternation, error) {
	out := make([]ebnf.Factor, len(alt.Factors))
	for i, f := range alt.Factors {
		switch v := f.(type) {
		case ebnf.Group:
			inner, _, err := expandSingleOptionals(v.Alts)
			if err != nil {
				return ebnf.Alternation{}, err
			}
			v.Alts = inner
			out[i] = v
		case ebnf.Repetition:
			inner, _, err := expandSingleOptionals(v.Alts)
			if err != nil {
				return ebnf.Alternation{}, err
			}
			v.Alts = inner
			out[i] = v
		default:
			out[i] = f
		}
	}
	return ebnf.Alternation{Factors: out}, nil
}

func indexOfSingleOptional(factors []ebnf.Factor) int {
	for i, f := range factors {
		if opt, ok := f.(ebnf.Optional); ok && isSingleFactor(opt.Alts) {
			return i
		}
	}
	return -1
}

func spliceFactor(factors []ebnf.Factor, idx int, replacement ebnf.Factor) []ebnf.Factor {
	out := make([]ebnf.Factor, len(factors))
	copy(out, factors)
	out[idx] = replacement
	return out
}

func removeFactor(factors []ebnf.Factor, idx int) []ebnf.Factor {
	out := make([]ebnf.Factor, 0, len(factors)-1)
	out = append(out, factors[:idx]...)
	out = append(out, factors[idx+1:]...)
	return out
}
