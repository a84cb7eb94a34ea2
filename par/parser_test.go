package par_test

import (
	"testing"

	"github.com/parolgo/parol/par"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_MinimalGrammar(t *testing.T) {
	src := `
%start S
%%
S: "a" S | "b";
`
	doc, err := par.Parse(src)
	require.NoError(t, err)
	assert.Equal(t, "S", doc.Start)
	require.Len(t, doc.Productions, 1)
	assert.Equal(t, "S", doc.Productions[0].LHS)
	require.Len(t, doc.Productions[0].RHS.Alternatives, 2)
}

func Test_Parse_HeaderDirectives(t *testing.T) {
	src := `
%start S
%title "a title"
%comment "a comment"
%grammar_type 'lalr(1)'
%user_type MyType = String
%line_comment "//"
%block_comment "/*" "*/"
%auto_newline_off
%auto_ws_off
%%
S: "a";
`
	doc, err := par.Parse(src)
	require.NoError(t, err)
	require.NotNil(t, doc.Title)
	assert.Equal(t, "a title", *doc.Title)
	require.NotNil(t, doc.Comment)
	assert.Equal(t, "a comment", *doc.Comment)
	assert.True(t, doc.LALR1)
	assert.Equal(t, "String", doc.UserTypes["MyType"])

	initial := doc.Scanners[0]
	assert.Equal(t, "INITIAL", initial.Name)
	assert.Equal(t, []string{"//"}, initial.LineComments)
	assert.Equal(t, [][2]string{{"/*", "*/"}}, initial.BlockComments)
	assert.False(t, initial.AutoNewline)
	assert.False(t, initial.AutoWS)
}

func Test_Parse_MissingStartIsError(t *testing.T) {
	_, err := par.Parse("%%\nS: \"a\";\n")
	assert.Error(t, err)
}

func Test_Parse_ScannerBlockAndTransition(t *testing.T) {
	src := `
%start S
%scanner Str {
	%auto_ws_off
}
%%
S: <Str>"a" %sc(Str) %push(INITIAL) %pop();
`
	doc, err := par.Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Scanners, 2)
	assert.Equal(t, "Str", doc.Scanners[1].Name)
	assert.False(t, doc.Scanners[1].AutoWS)

	gc, err := doc.ToGrammarConfig()
	require.NoError(t, err)
	require.Len(t, gc.CFG.Productions, 1)
	rhs := gc.CFG.Productions[0].RHS
	require.Len(t, rhs, 4)
}

func Test_Parse_OnEnterTransition(t *testing.T) {
	src := `
%start S
%scanner Str {
	%auto_ws_off
}
%on tok %enter INITIAL
%%
S: "a";
`
	doc, err := par.Parse(src)
	require.NoError(t, err)
	cfgs, err := doc.ToScannerConfigs()
	require.NoError(t, err)
	require.Len(t, cfgs, 2)
	assert.Equal(t, 0, cfgs[1].Transitions["tok"])
}

func Test_Parse_ConflictingTokenAliasesIsError(t *testing.T) {
	src := `
%start S
%%
S: Plus | Minus;
Plus: "+";
Minus: "+";
`
	_, err := par.Parse(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Plus")
	assert.Contains(t, err.Error(), "Minus")
}

func Test_Parse_SameAliasRepeatedIsNotAnError(t *testing.T) {
	src := `
%start S
%%
S: Plus Plus;
Plus: "+";
`
	_, err := par.Parse(src)
	require.NoError(t, err)
}

func Test_Parse_DistinctLiteralsAreNotConflictingAliases(t *testing.T) {
	src := `
%start S
%%
S: Plus | Minus;
Plus: "+";
Minus: "-";
`
	_, err := par.Parse(src)
	require.NoError(t, err)
}

func Test_Parse_UnreferencedScannerIsEmptyScannerStatesError(t *testing.T) {
	src := `
%start S
%scanner S2 {
	%auto_ws_off
}
%%
S: A;
A: "x";
`
	doc, err := par.Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Scanners, 2)
	assert.Equal(t, "S2", doc.Scanners[1].Name)

	_, err = doc.ToGrammarConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S2")
}

func Test_Parse_EBNFOperators(t *testing.T) {
	src := `
%start S
%%
S: "a" ("b" | "c") ["d"] {"e"};
`
	doc, err := par.Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Productions, 1)
	factors := doc.Productions[0].RHS.Alternatives[0].Factors
	require.Len(t, factors, 4)
}

func Test_Parse_NonTerminalDecorations(t *testing.T) {
	src := `
%start S
%%
S: ^Other: MyType @member;
`
	doc, err := par.Parse(src)
	require.NoError(t, err)
	factors := doc.Productions[0].RHS.Alternatives[0].Factors
	require.Len(t, factors, 1)
}

func Test_Parse_TerminalKinds(t *testing.T) {
	src := `
%start S
%%
S: "legacy" 'raw' /regex/;
`
	doc, err := par.Parse(src)
	require.NoError(t, err)
	factors := doc.Productions[0].RHS.Alternatives[0].Factors
	require.Len(t, factors, 3)
}

func Test_Parse_LookaheadPredicate(t *testing.T) {
	src := `
%start S
%%
S: "a" ?= "b";
`
	doc, err := par.Parse(src)
	require.NoError(t, err)
	factors := doc.Productions[0].RHS.Alternatives[0].Factors
	require.Len(t, factors, 1)
}

func Test_Parse_UnterminatedLiteralIsError(t *testing.T) {
	_, err := par.Parse("%start S\n%%\nS: \"a;\n")
	assert.Error(t, err)
}

func Test_Parse_UnknownDirectiveIsError(t *testing.T) {
	_, err := par.Parse("%start S\n%bogus\n%%\nS: \"a\";\n")
	assert.Error(t, err)
}

func Test_Parse_UnknownScannerInOnEnterIsError(t *testing.T) {
	src := `
%start S
%on tok %enter NoSuchScanner
%%
S: "a";
`
	doc, err := par.Parse(src)
	require.NoError(t, err)
	_, err = doc.ToScannerConfigs()
	assert.Error(t, err)
}

func Test_Parse_CommentsAreIgnored(t *testing.T) {
	src := `
// a line comment
%start S /* trailing block comment */
%%
S: "a"; // another comment
`
	doc, err := par.Parse(src)
	require.NoError(t, err)
	assert.Equal(t, "S", doc.Start)
}
