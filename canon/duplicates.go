package canon

import "github.com/parolgo/parol/ebnf"

// eliminateDuplicates is spec.md §4.1 step 6: two productions with
// identical single-alternative rhs, each the only production for its lhs,
// are merged -- the later-occurring lhs is replaced everywhere by the
// earlier (canonical) one and its own production is dropped. The start
// symbol is never treated as a duplicate to remove, since GrammarConfig
// identifies the grammar by that name.
func eliminateDuplicates(in []workingProd, start string) ([]workingProd, bool) {
	countByLHS := map[string]int{}
	for _, wp := range in {
		countByLHS[wp.LHS]++
	}

	canonicalFor := map[string]string{}
	replace := map[string]string{}

	for _, wp := range in {
		if countByLHS[wp.LHS] != 1 || wp.LHS == start {
			continue
		}
		key := rhsKey(wp.RHS)
		if canonical, ok := canonicalFor[key]; ok {
			if canonical != wp.LHS {
				replace[wp.LHS] = canonical
			}
		} else {
			canonicalFor[key] = wp.LHS
		}
	}

	if len(replace) == 0 {
		return in, false
	}

	out := make([]workingProd, 0, len(in))
	for _, wp := range in {
		if _, dup := replace[wp.LHS]; dup {
			continue
		}
		renamed, _, _ := walkAlternations(wp.RHS, func(f ebnf.Factor) (ebnf.Factor, bool, error) {
			nt, ok := f.(ebnf.NonTerminalFactor)
			if !ok {
				return f, false, nil
			}
			if canonical, dup := replace[nt.Name]; dup {
				nt.Name = canonical
				return nt, true, nil
			}
			return f, false, nil
		})
		out = append(out, workingProd{LHS: wp.LHS, RHS: renamed, Attribute: wp.Attribute})
	}

	return out, true
}

// rhsKey builds a canonical string key for an Alternations tree consisting
// solely of terminal/non-terminal factors (the only shape productions take
// by the time eliminateDuplicates matters -- after steps 1-5 have run at
// least once). Two rhs with the same key are structurally identical.
func rhsKey(alts ebnf.Alternations) string {
	key := ""
	for _, alt := range alts.Alternatives {
		key += "|"
		for _, f := range alt.Factors {
			switch v := f.(type) {
			case ebnf.TerminalFactor:
				key += "T:" + itoaKind(v.Kind) + ":" + v.Text + ";"
			case ebnf.NonTerminalFactor:
				key += "N:" + v.Name + ";"
			default:
				key += "?;"
			}
		}
	}
	return key
}

func itoaKind(k int) string {
	return itoa(k)
}
