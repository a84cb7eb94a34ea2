package grammar

import (
	"fmt"

	"github.com/dekarrin/rosed"
	"github.com/parolgo/parol/util"
)

// Production is a single canonicalised rule: lhs -> rhs, tagged with the
// attribute downstream AST construction needs to know whether this
// production opens, extends, or closes a list or option. rhs may be empty
// (an epsilon production); epsilon is never itself stored as an rhs
// symbol, per spec.md §3.
type Production struct {
	LHS       string
	RHS       []Symbol
	Attribute ProductionAttribute
}

// IsEmpty reports whether the production has an empty (epsilon) rhs.
func (p Production) IsEmpty() bool { return len(p.RHS) == 0 }

func (p Production) String() string {
	rhs := "<epsilon>"
	if len(p.RHS) > 0 {
		parts := make([]string, len(p.RHS))
		for i, s := range p.RHS {
			parts[i] = s.String()
		}
		rhs = joinSpace(parts)
	}
	return p.LHS + " -> " + rhs
}

func joinSpace(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

// CFG is an ordered production list plus start symbol, indexed by
// production number; the production index is externally meaningful (it
// appears in emitted tables, DFA accept labels, and lookahead outputs), so
// CFG never reorders the slice it was built from.
type CFG struct {
	StartSymbol string
	Productions []Production

	nonTerminals *util.OrderedSet[string]
	terminals    []Terminal
	termIndex    map[string]int
	byLHS        map[string][]int
}

// NewCFG builds a CFG and its derived views (non-terminal set ordered by
// first occurrence with the start symbol forced first, terminal list
// ordered by first occurrence, per-lhs production index groupings). It
// does not validate productivity/reachability/left-recursion -- that is
// the analysis package's job.
func NewCFG(startSymbol string, productions []Production) *CFG {
	g := &CFG{
		StartSymbol:  startSymbol,
		Productions:  productions,
		nonTerminals: util.NewOrderedSet[string](),
		byLHS:        map[string][]int{},
	}

	termSeen := map[string]bool{}

	g.nonTerminals.Add(startSymbol)
	for i, p := range productions {
		g.nonTerminals.Add(p.LHS)
		g.byLHS[p.LHS] = append(g.byLHS[p.LHS], i)
		for _, sym := range p.RHS {
			switch s := sym.(type) {
			case NonTerminal:
				g.nonTerminals.Add(s.Name)
			case Terminal:
				key := terminalIdentity(s)
				if !termSeen[key] {
					termSeen[key] = true
					g.terminals = append(g.terminals, s)
				}
			}
		}
	}
	g.nonTerminals.MoveToFront(startSymbol)

	g.termIndex = map[string]int{}
	for i, term := range g.terminals {
		g.termIndex[terminalIdentity(term)] = i
	}

	return g
}

// terminalIdentity is the dedup key used to build the first-occurrence
// terminal list: two terminals share an entry only when their kind, text
// and scanner-state vector all match. Scanner-equivalent terminals of
// different kinds (e.g. Legacy and Regex with the same text) stay distinct
// entries, and lookahead is not part of the key.
func terminalIdentity(t Terminal) string {
	states := ""
	for _, s := range t.ScannerStates {
		states += itoa(s) + ","
	}
	return t.Kind.String() + "|" + t.Text + "|" + states
}

// NonTerminals returns the non-terminal names in first-occurrence order
// with the start symbol forced first.
func (g *CFG) NonTerminals() []string {
	return g.nonTerminals.Elements()
}

// Terminals returns the distinct terminals in first-occurrence order.
func (g *CFG) Terminals() []Terminal {
	out := make([]Terminal, len(g.terminals))
	copy(out, g.terminals)
	return out
}

// TerminalIndexOf returns t's position in Terminals(), or false if no entry
// there has t's kind, text and scanner-state vector. Used throughout
// analysis and lookahead to work with compact integer terminal indices
// instead of repeatedly comparing Terminal values.
func (g *CFG) TerminalIndexOf(t Terminal) (int, bool) {
	idx, ok := g.termIndex[terminalIdentity(t)]
	return idx, ok
}

// TerminalAt returns the terminal at position i in Terminals().
func (g *CFG) TerminalAt(i int) Terminal {
	return g.terminals[i]
}

// ProductionsFor returns the indices into Productions whose lhs is nt, in
// production order.
func (g *CFG) ProductionsFor(nt string) []int {
	return g.byLHS[nt]
}

// HasNonTerminal reports whether nt is a non-terminal of this grammar.
func (g *CFG) HasNonTerminal(nt string) bool {
	return g.nonTerminals.Has(nt)
}

// Symbol looks up the rhs symbol at (prodIndex, symIndex).
func (g *CFG) Symbol(prodIndex, symIndex int) (Symbol, bool) {
	if prodIndex < 0 || prodIndex >= len(g.Productions) {
		return nil, false
	}
	rhs := g.Productions[prodIndex].RHS
	if symIndex < 0 || symIndex >= len(rhs) {
		return nil, false
	}
	return rhs[symIndex], true
}

// IsTerminal reports whether name (matched against a non-terminal's Name
// rather than a terminal's Text) is NOT among the grammar's non-terminals,
// i.e. whether a bare identifier from the scanner should be treated as a
// terminal class reference.
func (g *CFG) IsTerminal(name string) bool {
	return !g.nonTerminals.Has(name)
}

// Augmented returns a new CFG with a fresh start production S' -> S $
// prepended, where S' is a freshly generated name distinct from every
// existing non-terminal. This is used only as LALR(1) scaffolding per
// spec.md §9's Open Question decision: the augmentation step exists, but
// no LALR state-merging table constructor consumes it in this repo.
func (g *CFG) Augmented() *CFG {
	augStart := generateAugmentedName(g.nonTerminals)
	augProd := Production{
		LHS: augStart,
		RHS: []Symbol{
			NonTerminal{Name: g.StartSymbol},
			EndOfInput(),
		},
		Attribute: NoProductionAttribute,
	}
	newProds := make([]Production, 0, len(g.Productions)+1)
	newProds = append(newProds, augProd)
	newProds = append(newProds, g.Productions...)
	return NewCFG(augStart, newProds)
}

// String renders the production table, one row per production, indexed the
// way emitted tables and DFA accept labels reference them -- the same
// rosed.Edit("").InsertTableOpts(...) dump style as the teacher's
// slrTable.String() (internal/ictiobus/parse/lalr.go) and lookahead.DFA.String().
func (g *CFG) String() string {
	if len(g.Productions) == 0 {
		return fmt.Sprintf("CFG(start=%s, no productions)", g.StartSymbol)
	}
	data := [][]string{{"#", "lhs", "rhs"}}
	for i, p := range g.Productions {
		rhs := "<epsilon>"
		if len(p.RHS) > 0 {
			parts := make([]string, len(p.RHS))
			for j, s := range p.RHS {
				parts[j] = s.String()
			}
			rhs = joinSpace(parts)
		}
		data = append(data, []string{fmt.Sprintf("%d", i), p.LHS, rhs})
	}
	table := rosed.Edit("").
		InsertTableOpts(0, data, 20, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
	return fmt.Sprintf("CFG(start=%s)\n%s", g.StartSymbol, table)
}

func generateAugmentedName(existing *util.OrderedSet[string]) string {
	candidate := "Start'"
	for n := 0; existing.Has(candidate); n++ {
		candidate = "Start'" + itoa(n)
	}
	return candidate
}
