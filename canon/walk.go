package canon

import "github.com/parolgo/parol/ebnf"

// factorTransform inspects (and possibly replaces) a single factor. It is
// called bottom-up: Group/Optional/Repetition children have already been
// walked by the time fn sees their parent, so fn never needs to recurse
// itself.
type factorTransform func(f ebnf.Factor) (replacement ebnf.Factor, changed bool, err error)

// walkAlternations applies fn to every factor in alts, recursing into
// Group/Optional/Repetition bodies first (post-order), and rebuilds the
// tree with whatever replacements fn made.
func walkAlternations(alts ebnf.Alternations, fn factorTransform) (ebnf.Alternations, bool, error) {
	changedAny := false
	newAlts := make([]ebnf.Alternation, len(alts.Alternatives))
	for i, alt := range alts.Alternatives {
		newFactors := make([]ebnf.Factor, len(alt.Factors))
		for j, f := range alt.Factors {
			rf, changed, err := walkFactor(f, fn)
			if err != nil {
				return ebnf.Alternations{}, false, err
			}
			if changed {
				changedAny = true
			}
			newFactors[j] = rf
		}
		newAlts[i] = ebnf.Alternation{Factors: newFactors}
	}
	return ebnf.Alternations{Alternatives: newAlts}, changedAny, nil
}

func walkFactor(f ebnf.Factor, fn factorTransform) (ebnf.Factor, bool, error) {
	var childChanged bool
	switch v := f.(type) {
	case ebnf.Group:
		inner, changed, err := walkAlternations(v.Alts, fn)
		if err != nil {
			return nil, false, err
		}
		v.Alts = inner
		f = v
		childChanged = changed
	case ebnf.Optional:
		inner, changed, err := walkAlternations(v.Alts, fn)
		if err != nil {
			return nil, false, err
		}
		v.Alts = inner
		f = v
		childChanged = changed
	case ebnf.Repetition:
		inner, changed, err := walkAlternations(v.Alts, fn)
		if err != nil {
			return nil, false, err
		}
		v.Alts = inner
		f = v
		childChanged = changed
	}

	replacement, selfChanged, err := fn(f)
	if err != nil {
		return nil, false, err
	}
	return replacement, childChanged || selfChanged, nil
}

// isSingleFactor reports whether alts represents a single alternative
// consisting of exactly one factor -- the "length 1" case spec.md §4.1
// steps 4/5 splice inline rather than extracting into a fresh non-terminal.
func isSingleFactor(alts ebnf.Alternations) bool {
	return len(alts.Alternatives) == 1 && len(alts.Alternatives[0].Factors) == 1
}

// epsilonAlts returns the canonical representation of an empty rhs: a
// single alternative with zero factors.
func epsilonAlts() ebnf.Alternations {
	return ebnf.Alternations{Alternatives: []ebnf.Alternation{{}}}
}
