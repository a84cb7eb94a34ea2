package canon_test

import (
	"testing"

	"github.com/parolgo/parol/canon"
	"github.com/parolgo/parol/ebnf"
	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNameSet(names []string) *util.OrderedSet[string] {
	return util.OrderedSetOf(names)
}

func term(text string) ebnf.TerminalFactor {
	return ebnf.TerminalFactor{Text: text, Kind: int(grammar.Legacy)}
}

func nonTerm(name string) ebnf.NonTerminalFactor {
	return ebnf.NonTerminalFactor{Name: name}
}

func alt(factors ...ebnf.Factor) ebnf.Alternation {
	return ebnf.Alternation{Factors: factors}
}

func alts(alternatives ...ebnf.Alternation) ebnf.Alternations {
	return ebnf.Alternations{Alternatives: alternatives}
}

// Test_Canonicalise_Repetition covers spec.md §8 concrete scenario 1:
// S: "a" {"b"} "c"; canonicalises to three productions whose lhs sequence is
// S, SList, SList, the last SList being the epsilon (CollectionStart) one.
func Test_Canonicalise_Repetition(t *testing.T) {
	prods := []ebnf.Production{
		{LHS: "S", RHS: alts(alt(term("a"), ebnf.Repetition{Alts: alts(alt(term("b")))}, term("c")))},
	}

	cfg, err := canon.Canonicalise("S", prods)
	require.NoError(t, err)

	lhsSeq := make([]string, len(cfg.Productions))
	for i, p := range cfg.Productions {
		lhsSeq[i] = p.LHS
	}
	assert.Equal(t, []string{"S", "SList", "SList"}, lhsSeq)

	// S -> "a" SList "c", with SList marked RepetitionAnchor at its use site.
	sProd := cfg.Productions[0]
	require.Len(t, sProd.RHS, 3)
	useSite, ok := sProd.RHS[1].(grammar.NonTerminal)
	require.True(t, ok)
	assert.Equal(t, "SList", useSite.Name)
	assert.Equal(t, grammar.RepetitionAnchor, useSite.Attribute)

	var addToCollection, collectionStart int
	for _, p := range cfg.Productions {
		if p.LHS != "SList" {
			continue
		}
		switch p.Attribute {
		case grammar.AddToCollection:
			addToCollection++
			assert.False(t, p.IsEmpty())
		case grammar.CollectionStart:
			collectionStart++
			assert.True(t, p.IsEmpty())
		}
	}
	assert.Equal(t, 1, addToCollection)
	assert.Equal(t, 1, collectionStart)
}

// Test_Canonicalise_Optional covers spec.md §8 concrete scenario 2:
// S: "a" ["b"] "c"; canonicalises to two S productions with no new
// non-terminal, since the optional body is a single factor.
func Test_Canonicalise_Optional(t *testing.T) {
	prods := []ebnf.Production{
		{LHS: "S", RHS: alts(alt(term("a"), ebnf.Optional{Alts: alts(alt(term("b")))}, term("c")))},
	}

	cfg, err := canon.Canonicalise("S", prods)
	require.NoError(t, err)

	require.Len(t, cfg.Productions, 2)
	for _, p := range cfg.Productions {
		assert.Equal(t, "S", p.LHS)
	}

	rhsLens := map[int]bool{}
	for _, p := range cfg.Productions {
		rhsLens[len(p.RHS)] = true
	}
	assert.True(t, rhsLens[3], "expected an S -> \"a\" \"b\" \"c\" alternative")
	assert.True(t, rhsLens[2], "expected an S -> \"a\" \"c\" alternative")
}

// Test_Canonicalise_Deduplicates covers spec.md §8 concrete scenario 3:
// A: "x"; B: "x"; where both occur exactly once triggers the dedup pass.
func Test_Canonicalise_Deduplicates(t *testing.T) {
	prods := []ebnf.Production{
		{LHS: "S", RHS: alts(alt(nonTerm("A"), nonTerm("B")))},
		{LHS: "A", RHS: alts(alt(term("x")))},
		{LHS: "B", RHS: alts(alt(term("x")))},
	}

	cfg, err := canon.Canonicalise("S", prods)
	require.NoError(t, err)

	lhsSet := map[string]bool{}
	for _, p := range cfg.Productions {
		lhsSet[p.LHS] = true
	}
	assert.False(t, lhsSet["A"] && lhsSet["B"], "one of A/B should have been merged away")

	sProd := cfg.Productions[0]
	require.Len(t, sProd.RHS, 2)
	first := sProd.RHS[0].(grammar.NonTerminal).Name
	second := sProd.RHS[1].(grammar.NonTerminal).Name
	assert.Equal(t, first, second, "S's two rhs references should now point at the same merged non-terminal")
}

// Test_Canonicalise_NoEBNFOperatorsSurvive covers spec.md §8 quantified
// invariant 1.
func Test_Canonicalise_NoEBNFOperatorsSurvive(t *testing.T) {
	prods := []ebnf.Production{
		{LHS: "S", RHS: alts(alt(
			ebnf.Group{Alts: alts(alt(term("a"), term("b")))},
			ebnf.Optional{Alts: alts(alt(term("c")))},
			ebnf.Repetition{Alts: alts(alt(term("d")))},
		))},
	}

	cfg, err := canon.Canonicalise("S", prods)
	require.NoError(t, err)

	for _, p := range cfg.Productions {
		for _, sym := range p.RHS {
			switch sym.(type) {
			case grammar.NonTerminal, grammar.Terminal, grammar.ScannerInstruction:
				// fine: only BNF-legal symbol kinds remain
			default:
				t.Fatalf("unexpected symbol kind %T survived canonicalisation", sym)
			}
		}
	}
}

func Test_Canonicalise_EmptyGroupIsError(t *testing.T) {
	prods := []ebnf.Production{
		{LHS: "S", RHS: alts(alt(ebnf.Group{Alts: alts(alt())}))},
	}

	_, err := canon.Canonicalise("S", prods)
	assert.Error(t, err)
}

func Test_GenerateName(t *testing.T) {
	existing := []string{"SOpt", "SOpt0", "SOpt2"}
	names := newNameSet(existing)

	assert.Equal(t, "SOpt1", canon.GenerateName(names, "SOpt"))
	assert.Equal(t, "TOpt", canon.GenerateName(names, "TOpt"))
}
