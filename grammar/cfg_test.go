package grammar_test

import (
	"testing"

	"github.com/parolgo/parol/grammar"
	"github.com/stretchr/testify/assert"
)

// simpleExprCFG builds the textbook expression grammar E -> E + T | T, T -> T * F | F,
// F -> ( E ) | id, used by the tests in this file as a known-good fixture.
func simpleExprCFG() *grammar.CFG {
	id := grammar.NewTerminal("id", grammar.Legacy, nil, grammar.NoAttribute, nil)
	plus := grammar.NewTerminal("+", grammar.Legacy, nil, grammar.NoAttribute, nil)
	star := grammar.NewTerminal("*", grammar.Legacy, nil, grammar.NoAttribute, nil)
	lparen := grammar.NewTerminal("(", grammar.Legacy, nil, grammar.NoAttribute, nil)
	rparen := grammar.NewTerminal(")", grammar.Legacy, nil, grammar.NoAttribute, nil)

	nt := func(name string) grammar.NonTerminal { return grammar.NonTerminal{Name: name} }

	prods := []grammar.Production{
		{LHS: "E", RHS: []grammar.Symbol{nt("E"), plus, nt("T")}},
		{LHS: "E", RHS: []grammar.Symbol{nt("T")}},
		{LHS: "T", RHS: []grammar.Symbol{nt("T"), star, nt("F")}},
		{LHS: "T", RHS: []grammar.Symbol{nt("F")}},
		{LHS: "F", RHS: []grammar.Symbol{lparen, nt("E"), rparen}},
		{LHS: "F", RHS: []grammar.Symbol{id}},
	}
	return grammar.NewCFG("E", prods)
}

func Test_NewCFG_NonTerminalsOrderedByFirstOccurrenceStartFirst(t *testing.T) {
	g := simpleExprCFG()

	assert.Equal(t, []string{"E", "T", "F"}, g.NonTerminals())
}

func Test_NewCFG_TerminalsOrderedByFirstOccurrence(t *testing.T) {
	g := simpleExprCFG()

	texts := make([]string, 0)
	for _, term := range g.Terminals() {
		texts = append(texts, term.Text)
	}
	assert.Equal(t, []string{"+", "*", "(", ")", "id"}, texts)
}

func Test_NewCFG_ProductionsFor(t *testing.T) {
	g := simpleExprCFG()

	assert.Equal(t, []int{0, 1}, g.ProductionsFor("E"))
	assert.Equal(t, []int{2, 3}, g.ProductionsFor("T"))
	assert.Equal(t, []int{4, 5}, g.ProductionsFor("F"))
}

func Test_CFG_IsTerminal(t *testing.T) {
	g := simpleExprCFG()

	assert.False(t, g.IsTerminal("E"))
	assert.True(t, g.IsTerminal("id"))
}

func Test_CFG_Augmented_AddsFreshStartProduction(t *testing.T) {
	g := simpleExprCFG()

	aug := g.Augmented()

	assert.NotEqual(t, g.StartSymbol, aug.StartSymbol)
	assert.Equal(t, g.StartSymbol, aug.Productions[0].RHS[0].(grammar.NonTerminal).Name)
	assert.True(t, aug.Productions[0].RHS[1].(grammar.Terminal).IsEnd())
	// the augmented grammar still carries every original production, shifted by one
	assert.Equal(t, len(g.Productions)+1, len(aug.Productions))
}

func Test_Production_IsEmpty(t *testing.T) {
	empty := grammar.Production{LHS: "X"}
	nonEmpty := grammar.Production{LHS: "X", RHS: []grammar.Symbol{grammar.NonTerminal{Name: "Y"}}}

	assert.True(t, empty.IsEmpty())
	assert.False(t, nonEmpty.IsEmpty())
}
