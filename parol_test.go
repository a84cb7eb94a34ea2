package parol_test

import (
	"testing"

	"github.com/parolgo/parol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Build_SimpleGrammar(t *testing.T) {
	src := `
%start S
%%
S: "a" S | "b";
`
	result, err := parol.Build(src)
	require.NoError(t, err)

	assert.Equal(t, "S", result.GrammarConfig.CFG.StartSymbol)
	assert.Contains(t, result.DFAs, "S")
	assert.NotEmpty(t, result.Tables.Productions)
	assert.NotEmpty(t, result.Tables.NonTerminalNames)
}

func Test_Build_LeftRecursionIsRejected(t *testing.T) {
	src := `
%start S
%%
S: S "a" | "b";
`
	_, err := parol.Build(src)
	assert.Error(t, err)
}

func Test_Build_UnproductiveNonTerminalIsRejected(t *testing.T) {
	src := `
%start S
%%
S: "a" | Dead;
Dead: Dead "x";
`
	_, err := parol.Build(src)
	assert.Error(t, err)
}

func Test_BuildMarkdown_ExtractsAndBuilds(t *testing.T) {
	md := []byte("Some prose.\n\n```parol\n%start S\n%%\nS: \"a\";\n```\n")

	result, err := parol.BuildMarkdown(md)
	require.NoError(t, err)
	assert.Equal(t, "S", result.GrammarConfig.CFG.StartSymbol)
}

func Test_Build_LALR1FlavorSkipsLeftRecursionCheckButDFABuildFails(t *testing.T) {
	src := `
%start S
%title "t"
%grammar_type 'lalr(1)'
%%
S: S "a" | "b";
`
	_, err := parol.Build(src)
	assert.Error(t, err)
}
