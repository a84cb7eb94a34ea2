package wire_test

import (
	"testing"

	"github.com/parolgo/parol/analysis"
	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/lookahead"
	"github.com/parolgo/parol/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func buildGrammarConfig(t *testing.T) (*grammar.GrammarConfig, map[string]*lookahead.DFA) {
	t.Helper()
	g := ifGrammar()
	cache := analysis.NewCache(g, lookahead.MaxK)
	dfas, err := lookahead.BuildAll(g, cache, lookahead.MaxK, grammar.LLk)
	require.NoError(t, err)

	gc := grammar.NewGrammarConfig(g)
	gc.Scanners[0].LineComments = []string{"//"}
	gc.Scanners[0].BlockComments = [][2]string{{"/*", "*/"}}
	return gc, dfas
}

func Test_Build_ReservedTerminalSlots(t *testing.T) {
	gc, dfas := buildGrammarConfig(t)
	tables, err := wire.Build(gc, dfas)
	require.NoError(t, err)

	require.True(t, len(tables.Terminals) > wire.BlockCommentIndex)
	assert.Equal(t, `\r\n|\r|\n`, tables.Terminals[wire.NewlineIndex].RegexSource)
	assert.Equal(t, "//", tables.Terminals[wire.LineCommentIndex].RegexSource)
	assert.Contains(t, tables.Terminals[wire.BlockCommentIndex].RegexSource, "/*")

	// ERROR is always the final entry.
	assert.Empty(t, tables.Terminals[len(tables.Terminals)-1].RegexSource)
}

func Test_Build_ProductionRHSIsReversed(t *testing.T) {
	gc, dfas := buildGrammarConfig(t)
	tables, err := wire.Build(gc, dfas)
	require.NoError(t, err)

	// S -> "if" "E" "then" S Else: five symbols, reversed so index 0 is
	// the Else non-terminal reference.
	var found bool
	for _, p := range tables.Productions {
		if len(p.RHS) == 5 {
			found = true
			assert.Equal(t, wire.EntryNonTerminal, p.RHS[0].Kind)
			assert.Equal(t, wire.EntryTerminal, p.RHS[4].Kind)
		}
	}
	assert.True(t, found, "expected to find the 5-symbol S production")
}

func Test_Build_TerminalIndicesAreShiftedPastReservedSlots(t *testing.T) {
	gc, dfas := buildGrammarConfig(t)
	tables, err := wire.Build(gc, dfas)
	require.NoError(t, err)

	for _, p := range tables.Productions {
		for _, e := range p.RHS {
			if e.Kind == wire.EntryTerminal {
				assert.GreaterOrEqual(t, e.Index, 5)
			}
		}
	}
}

func Test_EncodeDecode_RoundTrip(t *testing.T) {
	gc, dfas := buildGrammarConfig(t)
	tables, err := wire.Build(gc, dfas)
	require.NoError(t, err)

	data := wire.Encode(tables)
	decoded, err := wire.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, tables.NonTerminalNames, decoded.NonTerminalNames)
	assert.Equal(t, tables.Terminals, decoded.Terminals)
	assert.Equal(t, len(tables.Productions), len(decoded.Productions))
	assert.Equal(t, len(tables.DFAs), len(decoded.DFAs))
}

func Test_Decode_RejectsTrailingBytes(t *testing.T) {
	gc, dfas := buildGrammarConfig(t)
	tables, err := wire.Build(gc, dfas)
	require.NoError(t, err)

	data := append(wire.Encode(tables), 0xFF)
	_, err = wire.Decode(data)
	assert.Error(t, err)
}
