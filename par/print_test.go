package par_test

import (
	"testing"

	"github.com/parolgo/parol/par"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Print_RoundTrip_SimpleGrammar(t *testing.T) {
	src := `
%start S
%title "a title"
%%
S: "a" S | "b";
`
	doc, err := par.Parse(src)
	require.NoError(t, err)
	gc, err := doc.ToGrammarConfig()
	require.NoError(t, err)

	printed := par.Print(gc, false)

	doc2, err := par.Parse(printed)
	require.NoError(t, err, "printed source must re-parse:\n%s", printed)
	gc2, err := doc2.ToGrammarConfig()
	require.NoError(t, err)

	assert.Equal(t, gc.CFG.StartSymbol, gc2.CFG.StartSymbol)
	require.Len(t, gc2.CFG.Productions, len(gc.CFG.Productions))
	for i, p := range gc.CFG.Productions {
		assert.Equal(t, p.LHS, gc2.CFG.Productions[i].LHS)
		assert.Equal(t, len(p.RHS), len(gc2.CFG.Productions[i].RHS))
	}
}

// Test_Print_RoundTrip_ScannerSwitchAndStatedTerminal exercises the
// renderSymbol special cases: a ScannerInstruction and a scanner-stated
// Terminal must print with the declared scanner *name*, since Parse's
// %sc(Name) and <Name,...> syntax both require an identifier, not the bare
// index grammar.Symbol.String() would otherwise emit.
func Test_Print_RoundTrip_ScannerSwitchAndStatedTerminal(t *testing.T) {
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
	gc, err := doc.ToGrammarConfig()
	require.NoError(t, err)

	printed := par.Print(gc, false)
	assert.Contains(t, printed, "<Str>")
	assert.Contains(t, printed, "%sc(Str)")
	assert.Contains(t, printed, "%push(INITIAL)")
	assert.NotContains(t, printed, "%sc(1)")

	doc2, err := par.Parse(printed)
	require.NoError(t, err, "printed source must re-parse:\n%s", printed)
	gc2, err := doc2.ToGrammarConfig()
	require.NoError(t, err)

	require.Len(t, gc2.CFG.Productions, 1)
	assert.Equal(t, len(gc.CFG.Productions[0].RHS), len(gc2.CFG.Productions[0].RHS))
}

func Test_Print_IndexComments(t *testing.T) {
	src := `
%start S
%%
S: "a" | "b";
`
	doc, err := par.Parse(src)
	require.NoError(t, err)
	gc, err := doc.ToGrammarConfig()
	require.NoError(t, err)

	printed := par.Print(gc, true)
	assert.Contains(t, printed, "/* 0 */")
	assert.Contains(t, printed, "/* 1 */")
}
