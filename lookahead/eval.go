package lookahead

import "github.com/parolgo/parol/icterr"

// LookaheadSource is the slice of TokenStream the evaluator needs: the
// terminal index of the i-th not-yet-consumed token, counting from 0,
// without consuming anything. spec.md §4.7 gives the runtime package the
// full TokenStream surface; this is the narrow read-only view the
// evaluator depends on, kept here so this package never has to import
// runtime.
type LookaheadSource interface {
	LookaheadTerminal(i int) (int, error)
}

// Evaluate predicts a production for nonTerminal by walking d against src,
// replicating the "last accepting state" algorithm of
// original_source/crates/parol_runtime/src/parser/lookahead_dfa.rs: the
// walk may run past the last state that actually accepted (k is the
// deepest subtree across every production, not every production's own
// depth), so the evaluator remembers the most recent accepting state and
// falls back to it if the walk ends on a non-accepting one.
func Evaluate(d *DFA, src LookaheadSource, nonTerminal string) (int, error) {
	state := 0
	prodNum := d.Prod0
	lastProdNum := InvalidProd
	var haveLastAccepting bool
	if prodNum > InvalidProd {
		haveLastAccepting = true
		lastProdNum = prodNum
	}

	for i := 0; i < d.K; i++ {
		token, err := src.LookaheadTerminal(i)
		if err != nil {
			return 0, err
		}

		matched := false
		advanced := false
		for _, tr := range d.Transitions {
			if tr.From != state {
				if matched {
					// transitions are sorted by from-state; once we've
					// passed the block for the current state there is
					// nothing left to find.
					break
				}
				continue
			}
			matched = true

			if tr.Terminal == token {
				state = tr.To
				prodNum = tr.Prod
				advanced = true
				if tr.Prod > InvalidProd {
					haveLastAccepting = true
					lastProdNum = tr.Prod
				}
				break
			}
			if tr.Terminal > token {
				break
			}
		}
		// The walk stops at the first lookahead token with no matching
		// transition out of the current state; prediction then falls back
		// to the last accepting state reached, if any.
		if !advanced {
			break
		}
	}

	if prodNum > InvalidProd {
		return prodNum, nil
	}
	if haveLastAccepting {
		return lastProdNum, nil
	}
	return 0, icterr.New(icterr.CodePredictionError, "production prediction failed for non-terminal %q", nonTerminal)
}
