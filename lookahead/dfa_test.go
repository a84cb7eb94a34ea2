package lookahead_test

import (
	"testing"

	"github.com/parolgo/parol/analysis"
	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/lookahead"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ifGrammar is an if/else grammar whose Else always ends in a token of its
// own, so it has no dangling-else ambiguity and is LL(1):
// S -> if E then S Else | id
//
//	Else -> else S | end
func ifGrammar() *grammar.CFG {
	nt := func(n string) grammar.NonTerminal { return grammar.NonTerminal{Name: n} }
	term := func(text string) grammar.Terminal { return grammar.NewTerminal(text, grammar.Legacy, nil, grammar.NoAttribute, nil) }

	prods := []grammar.Production{
		{LHS: "S", RHS: []grammar.Symbol{term("if"), term("E"), term("then"), nt("S"), nt("Else")}},
		{LHS: "S", RHS: []grammar.Symbol{term("id")}},
		{LHS: "Else", RHS: []grammar.Symbol{term("else"), nt("S")}},
		{LHS: "Else", RHS: []grammar.Symbol{term("end")}},
	}
	return grammar.NewCFG("S", prods)
}

func Test_BuildAll_LALR1FlavorIsUnsupported(t *testing.T) {
	g := ifGrammar()
	cache := analysis.NewCache(g, lookahead.MaxK)

	_, err := lookahead.BuildAll(g, cache, lookahead.MaxK, grammar.LALR1)
	assert.ErrorIs(t, err, lookahead.ErrLALRUnsupported)
}

func Test_BuildAll_SingleProductionIsTrivial(t *testing.T) {
	x := grammar.NewTerminal("x", grammar.Legacy, nil, grammar.NoAttribute, nil)
	prods := []grammar.Production{{LHS: "S", RHS: []grammar.Symbol{x}}}
	g := grammar.NewCFG("S", prods)
	cache := analysis.NewCache(g, lookahead.MaxK)

	dfas, err := lookahead.BuildAll(g, cache, lookahead.MaxK, grammar.LLk)
	require.NoError(t, err)

	d := dfas["S"]
	assert.Equal(t, 0, d.K)
	assert.Equal(t, 0, d.Prod0)
	assert.Empty(t, d.Transitions)
}

func Test_BuildAll_DistinguishesOnFirstToken(t *testing.T) {
	g := ifGrammar()
	cache := analysis.NewCache(g, lookahead.MaxK)

	dfas, err := lookahead.BuildAll(g, cache, lookahead.MaxK, grammar.LLk)
	require.NoError(t, err)

	d := dfas["S"]
	assert.Equal(t, 1, d.K, "S's two productions are distinguished by a single token of lookahead")
	assert.Equal(t, lookahead.InvalidProd, d.Prod0)
	assert.NotEmpty(t, d.Transitions)
}

// fakeStream feeds a fixed sequence of terminal indices to Evaluate.
type fakeStream struct{ tokens []int }

func (f fakeStream) LookaheadTerminal(i int) (int, error) {
	if i >= len(f.tokens) {
		return -1, nil
	}
	return f.tokens[i], nil
}

func Test_Evaluate_PredictsCorrectBranch(t *testing.T) {
	g := ifGrammar()
	cache := analysis.NewCache(g, lookahead.MaxK)
	dfas, err := lookahead.BuildAll(g, cache, lookahead.MaxK, grammar.LLk)
	require.NoError(t, err)
	d := dfas["S"]

	idxIf, ok := g.TerminalIndexOf(grammar.NewTerminal("if", grammar.Legacy, nil, grammar.NoAttribute, nil))
	require.True(t, ok)
	idxID, ok := g.TerminalIndexOf(grammar.NewTerminal("id", grammar.Legacy, nil, grammar.NoAttribute, nil))
	require.True(t, ok)

	prodIf, err := lookahead.Evaluate(d, fakeStream{tokens: []int{idxIf}}, "S")
	require.NoError(t, err)
	prodId, err := lookahead.Evaluate(d, fakeStream{tokens: []int{idxID}}, "S")
	require.NoError(t, err)
	assert.NotEqual(t, prodIf, prodId)

	wantIf := g.ProductionsFor("S")[0]
	wantId := g.ProductionsFor("S")[1]
	assert.Equal(t, wantIf, prodIf)
	assert.Equal(t, wantId, prodId)
}

func Test_Evaluate_UnknownTokenIsPredictionError(t *testing.T) {
	g := ifGrammar()
	cache := analysis.NewCache(g, lookahead.MaxK)
	dfas, err := lookahead.BuildAll(g, cache, lookahead.MaxK, grammar.LLk)
	require.NoError(t, err)
	d := dfas["S"]

	_, err = lookahead.Evaluate(d, fakeStream{tokens: []int{-1}}, "S")
	assert.Error(t, err)
}
