package lookahead

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rosed"
	"github.com/parolgo/parol/analysis"
	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/icterr"
)

// MaxK is the hard ceiling spec.md §4.4 places on lookahead growth: a
// non-terminal whose productions still conflict at k == MaxK is rejected
// rather than grown further.
const MaxK = 10

// InvalidProd marks a DFA state that has not (yet, or ever) accepted a
// production -- the teacher's automaton package uses a comparable sentinel
// for "no match" states.
const InvalidProd = -1

// Trans is one edge of a lookahead DFA: from state From, consuming
// terminal Terminal, move to state To; Prod is the production predicted if
// the walk stops at To (InvalidProd if To is not accepting).
type Trans struct {
	From     int
	Terminal int
	To       int
	Prod     int
}

// DFA is the per-non-terminal lookahead automaton of spec.md §4.4: a
// prefix trie over the productions' distinguishing k-tuples, plus the k at
// which those tuples turned out to be pairwise non-prefixing.
type DFA struct {
	NonTerminal string
	K           int
	Prod0       int
	Transitions []Trans
}

// ErrLALRUnsupported is returned by BuildAll when asked to build tables for
// grammar.LALR1: per SPEC_FULL.md §13's Open Question decision, CFG.Augmented
// exists but is not called by this package, and no LALR(1) state-merging
// table constructor is implemented.
var ErrLALRUnsupported = icterr.New(icterr.CodeSyntaxError, "LALR(1) table construction is not implemented; only LL(k) lookahead DFAs can be built")

// BuildAll constructs one DFA per non-terminal of g, growing k from 1 up to
// maxK independently for each non-terminal until its productions' lookahead
// sets stop conflicting. A non-terminal with a single production gets the
// trivial DFA spec.md §4.4 calls for: state 0 already accepts that
// production, with no transitions at all. flavor must be grammar.LLk;
// grammar.LALR1 fails immediately with ErrLALRUnsupported.
func BuildAll(g *grammar.CFG, cache *analysis.Cache, maxK int, flavor grammar.Flavor) (map[string]*DFA, error) {
	if flavor == grammar.LALR1 {
		return nil, ErrLALRUnsupported
	}
	out := map[string]*DFA{}
	for _, nt := range g.NonTerminals() {
		d, err := build(g, cache, nt, maxK)
		if err != nil {
			return nil, err
		}
		out[nt] = d
	}
	return out, nil
}

func build(g *grammar.CFG, cache *analysis.Cache, nt string, maxK int) (*DFA, error) {
	prodIdx := g.ProductionsFor(nt)
	if len(prodIdx) == 1 {
		return &DFA{NonTerminal: nt, K: 0, Prod0: prodIdx[0]}, nil
	}

	for k := 1; k <= maxK; k++ {
		follow, err := followSets(g, cache, k)
		if err != nil {
			return nil, err
		}

		prefixes := make(map[int]analysis.TupleSet, len(prodIdx))
		for _, pi := range prodIdx {
			first, err := firstOfSymbols(g, cache, g.Productions[pi].RHS, k)
			if err != nil {
				return nil, err
			}
			prefixes[pi] = analysis.ConcatK(first, follow[nt], k)
		}

		if !anyConflict(prodIdx, prefixes) {
			return &DFA{NonTerminal: nt, K: k, Prod0: InvalidProd, Transitions: buildTrie(prodIdx, prefixes)}, nil
		}
	}

	return nil, icterr.New(icterr.CodeMaxKExceeded, "non-terminal %q still ambiguous at k=%d", nt, maxK)
}

// anyConflict reports whether any two distinct productions' prefix sets
// contain tuples in a prefix relation (one a literal prefix of, or equal
// to, the other) -- the disjointness spec.md §4.4 requires of every pair of
// accepting states before a DFA at that k can be accepted.
func anyConflict(prodIdx []int, prefixes map[int]analysis.TupleSet) bool {
	for i, pi := range prodIdx {
		for _, pj := range prodIdx[i+1:] {
			for _, ta := range prefixes[pi].Tuples() {
				for _, tb := range prefixes[pj].Tuples() {
					if isPrefixOrEqual(ta, tb) {
						return true
					}
				}
			}
		}
	}
	return false
}

func isPrefixOrEqual(a, b analysis.Tuple) bool {
	short, long := a, b
	if len(long) < len(short) {
		short, long = long, short
	}
	for i := range short {
		if short[i] != long[i] {
			return false
		}
	}
	return true
}

// buildTrie inserts every production's prefix tuples into a shared trie
// rooted at state 0, then renders the trie as a sorted transition table --
// the "decision tree over k-tuples" of spec.md §4.4, flattened the way the
// runtime evaluator of spec.md §4.5 expects to walk it.
func buildTrie(prodIdx []int, prefixes map[int]analysis.TupleSet) []Trans {
	type edgeKey struct{ from, term int }
	trans := map[edgeKey]int{}
	accept := map[int]int{0: InvalidProd}
	next := 1

	for _, pi := range prodIdx {
		for _, t := range prefixes[pi].Tuples() {
			cur := 0
			for _, term := range t {
				key := edgeKey{cur, term}
				to, ok := trans[key]
				if !ok {
					to = next
					next++
					accept[to] = InvalidProd
					trans[key] = to
				}
				cur = to
			}
			accept[cur] = pi
		}
	}

	out := make([]Trans, 0, len(trans))
	for key, to := range trans {
		out = append(out, Trans{From: key.from, Terminal: key.term, To: to, Prod: accept[to]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].Terminal < out[j].Terminal
	})
	return out
}

// String renders the DFA as a transition table, grounded on the teacher's
// slrTable.String() (internal/ictiobus/parse/lalr.go), which builds an
// rosed.Edit("").InsertTableOpts(...) table for its own ACTION/GOTO
// automaton dump.
func (d *DFA) String() string {
	header := fmt.Sprintf("DFA(%s, k=%d, prod0=%d)", d.NonTerminal, d.K, d.Prod0)
	if len(d.Transitions) == 0 {
		return header
	}

	data := [][]string{{"from", "terminal", "to", "prod"}}
	for _, tr := range d.Transitions {
		prod := "-"
		if tr.Prod != InvalidProd {
			prod = fmt.Sprintf("%d", tr.Prod)
		}
		data = append(data, []string{
			fmt.Sprintf("%d", tr.From),
			fmt.Sprintf("%d", tr.Terminal),
			fmt.Sprintf("%d", tr.To),
			prod,
		})
	}

	table := rosed.Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
	return header + "\n" + table
}
