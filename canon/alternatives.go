package canon

import "github.com/parolgo/parol/ebnf"

// separateAlternatives is spec.md §4.1 step 2: a production with n > 1
// alternatives is split into n single-alternative productions sharing the
// same lhs (and, since a production's Attribute describes the production
// as a whole -- e.g. every alternative of an extracted optional's body is
// OptionalSome -- the same attribute). Order is preserved.
func separateAlternatives(in []workingProd) ([]workingProd, bool) {
	out := make([]workingProd, 0, len(in))
	changed := false

	for _, wp := range in {
		if len(wp.RHS.Alternatives) <= 1 {
			out = append(out, wp)
			continue
		}
		changed = true
		for _, alt := range wp.RHS.Alternatives {
			out = append(out, workingProd{
				LHS:       wp.LHS,
				RHS:       ebnf.Alternations{Alternatives: []ebnf.Alternation{alt}},
				Attribute: wp.Attribute,
			})
		}
	}

	return out, changed
}
