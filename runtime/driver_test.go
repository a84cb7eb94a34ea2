package runtime_test

import (
	"testing"

	"github.com/parolgo/parol/analysis"
	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/icterr"
	"github.com/parolgo/parol/lookahead"
	"github.com/parolgo/parol/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStream is a TokenStream backed by a fixed slice of tokens, grounded
// on the teacher's in-memory lex.TokenStream used in parse tests.
type fakeStream struct {
	g        *grammar.CFG
	tokens   []runtime.Token
	terms    []int
	pos      int
	scanners []int
}

func newFakeStream(g *grammar.CFG, toks ...runtime.Token) *fakeStream {
	terms := make([]int, len(toks))
	for i, t := range toks {
		terms[i] = t.Index
	}
	return &fakeStream{g: g, tokens: toks, terms: terms, scanners: []int{0}}
}

func (f *fakeStream) Lookahead(i int) (runtime.Token, error) {
	if f.pos+i >= len(f.tokens) {
		return runtime.Token{Index: -1, Text: ""}, nil
	}
	return f.tokens[f.pos+i], nil
}

func (f *fakeStream) LookaheadTerminal(i int) (int, error) {
	if f.pos+i >= len(f.terms) {
		return -1, nil
	}
	return f.terms[f.pos+i], nil
}

func (f *fakeStream) Consume() (runtime.Token, error) {
	tok, err := f.Lookahead(0)
	if err != nil {
		return runtime.Token{}, err
	}
	f.pos++
	return tok, nil
}

func (f *fakeStream) SwitchScanner(idx int) error {
	f.scanners[len(f.scanners)-1] = idx
	return nil
}
func (f *fakeStream) PushScanner(idx int) error {
	f.scanners = append(f.scanners, idx)
	return nil
}
func (f *fakeStream) PopScanner() error {
	if len(f.scanners) <= 1 {
		return assertError("pop on empty scanner stack")
	}
	f.scanners = f.scanners[:len(f.scanners)-1]
	return nil
}
func (f *fakeStream) CurrentScannerIndex() int { return f.scanners[len(f.scanners)-1] }

type assertError string

func (e assertError) Error() string { return string(e) }

// optionalGrammar: S -> "a" B ; B -> "b" | <epsilon>
func optionalGrammar() *grammar.CFG {
	a := grammar.NewTerminal("a", grammar.Legacy, nil, grammar.NoAttribute, nil)
	b := grammar.NewTerminal("b", grammar.Legacy, nil, grammar.NoAttribute, nil)
	prods := []grammar.Production{
		{LHS: "S", RHS: []grammar.Symbol{a, grammar.NonTerminal{Name: "B"}}},
		{LHS: "B", RHS: []grammar.Symbol{b}},
		{LHS: "B", RHS: nil},
	}
	return grammar.NewCFG("S", prods)
}

func buildDriver(t *testing.T, g *grammar.CFG) *runtime.Driver {
	t.Helper()
	cache := analysis.NewCache(g, lookahead.MaxK)
	dfas, err := lookahead.BuildAll(g, cache, lookahead.MaxK, grammar.LLk)
	require.NoError(t, err)
	return runtime.NewDriver(g, dfas)
}

func Test_Driver_ParsesWithOptionalBranch(t *testing.T) {
	g := optionalGrammar()
	d := buildDriver(t, g)

	a := grammar.NewTerminal("a", grammar.Legacy, nil, grammar.NoAttribute, nil)
	b := grammar.NewTerminal("b", grammar.Legacy, nil, grammar.NoAttribute, nil)
	aIdx, _ := g.TerminalIndexOf(a)
	bIdx, _ := g.TerminalIndexOf(b)

	stream := newFakeStream(g, runtime.Token{Index: aIdx, Text: "a"}, runtime.Token{Index: bIdx, Text: "b"})

	var reduced []int
	tree, err := d.Run(stream, func(prod int, node *runtime.ParseTree) error {
		reduced = append(reduced, prod)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "S", tree.Symbol)
	assert.Len(t, tree.Children, 2)
	assert.True(t, tree.Children[0].Terminal)
	assert.Equal(t, "b", tree.Children[1].Children[0].Token.Text)
	assert.NotEmpty(t, reduced)
}

func Test_Driver_ParsesEmptyOptionalBranch(t *testing.T) {
	g := optionalGrammar()
	d := buildDriver(t, g)

	a := grammar.NewTerminal("a", grammar.Legacy, nil, grammar.NoAttribute, nil)
	aIdx, _ := g.TerminalIndexOf(a)

	stream := newFakeStream(g, runtime.Token{Index: aIdx, Text: "a"})

	tree, err := d.Run(stream, nil)
	require.NoError(t, err)
	assert.Equal(t, "S", tree.Symbol)
	assert.Empty(t, tree.Children[1].Children)
}

func Test_Driver_MismatchedTokenIsSyntaxError(t *testing.T) {
	g := optionalGrammar()
	d := buildDriver(t, g)

	b := grammar.NewTerminal("b", grammar.Legacy, nil, grammar.NoAttribute, nil)
	bIdx, _ := g.TerminalIndexOf(b)

	stream := newFakeStream(g, runtime.Token{Index: bIdx, Text: "b"})

	_, err := d.Run(stream, nil)
	assert.Error(t, err)
}

// singleTokenGrammar: S -> "a", with no alternative that could ever
// consume a second token.
func singleTokenGrammar() *grammar.CFG {
	a := grammar.NewTerminal("a", grammar.Legacy, nil, grammar.NoAttribute, nil)
	prods := []grammar.Production{
		{LHS: "S", RHS: []grammar.Symbol{a}},
	}
	return grammar.NewCFG("S", prods)
}

func Test_Driver_LeftoverInputIsUnprocessedInputError(t *testing.T) {
	g := singleTokenGrammar()
	d := buildDriver(t, g)

	a := grammar.NewTerminal("a", grammar.Legacy, nil, grammar.NoAttribute, nil)
	aIdx, _ := g.TerminalIndexOf(a)

	// S reduces fully after consuming the first "a", leaving a second "a"
	// token the grammar never asked for.
	stream := newFakeStream(g,
		runtime.Token{Index: aIdx, Text: "a"},
		runtime.Token{Index: aIdx, Text: "a"},
	)

	_, err := d.Run(stream, nil)
	require.Error(t, err)

	var icErr *icterr.Error
	require.ErrorAs(t, err, &icErr)
	assert.Equal(t, icterr.CodeUnprocessedInput, icErr.Code)
}
