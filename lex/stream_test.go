package lex_test

import (
	"testing"

	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/lex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberIdentGrammar() *grammar.GrammarConfig {
	ident := grammar.NewTerminal(`[a-zA-Z_][a-zA-Z0-9_]*`, grammar.Regex, nil, grammar.NoAttribute, nil)
	number := grammar.NewTerminal(`[0-9]+`, grammar.Regex, nil, grammar.NoAttribute, nil)
	// Legacy terminals are passed through to the scanner regex verbatim
	// (spec.md/original_source's TerminalKind::Legacy contract), so a
	// metacharacter like "+" must already be escaped by the grammar author.
	plus := grammar.NewTerminal(`\+`, grammar.Legacy, nil, grammar.NoAttribute, nil)

	prods := []grammar.Production{
		{LHS: "S", RHS: []grammar.Symbol{ident, plus, number}},
	}
	g := grammar.NewCFG("S", prods)
	return grammar.NewGrammarConfig(g)
}

func Test_Stream_TokenizesAndSkipsWhitespace(t *testing.T) {
	cfg := numberIdentGrammar()
	s, err := lex.NewStream(cfg, "count + 42", 1)
	require.NoError(t, err)

	tok, err := s.Consume()
	require.NoError(t, err)
	assert.Equal(t, "count", tok.Text)

	tok, err = s.Consume()
	require.NoError(t, err)
	assert.Equal(t, "+", tok.Text)

	tok, err = s.Consume()
	require.NoError(t, err)
	assert.Equal(t, "42", tok.Text)
}

func Test_Stream_LookaheadDoesNotConsume(t *testing.T) {
	cfg := numberIdentGrammar()
	s, err := lex.NewStream(cfg, "x + 1", 1)
	require.NoError(t, err)

	first, err := s.Lookahead(0)
	require.NoError(t, err)
	again, err := s.Lookahead(0)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	consumed, err := s.Consume()
	require.NoError(t, err)
	assert.Equal(t, first, consumed)
}

func Test_Stream_PopOnEmptyScannerStackErrors(t *testing.T) {
	cfg := numberIdentGrammar()
	s, err := lex.NewStream(cfg, "x", 1)
	require.NoError(t, err)

	assert.Error(t, s.PopScanner())
}

func Test_Stream_EndOfInputSentinel(t *testing.T) {
	cfg := numberIdentGrammar()
	s, err := lex.NewStream(cfg, "x", 1)
	require.NoError(t, err)

	_, err = s.Consume()
	require.NoError(t, err)

	tok, err := s.Lookahead(0)
	require.NoError(t, err)
	assert.Equal(t, -1, tok.Index)
}
