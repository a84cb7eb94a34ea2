// Package runtime implements the LL(k) driver of spec.md §4.6 against the
// TokenStream interface of spec.md §4.7, grounded on the teacher's
// parse.GenerateLL1Parser/ll1Parser.Parse (internal/ictiobus/parse/ll1.go):
// the same stack-of-symbols-plus-parse-tree-stack shape, generalized from a
// single LL(1) table lookup to a per-non-terminal lookahead.DFA walk.
package runtime

import "github.com/parolgo/parol/icterr"

// Token is one lexeme handed to the driver by a TokenStream: its terminal
// index into the grammar's compact terminal table, the literal text
// matched, and its source position for diagnostics.
type Token struct {
	Index int
	Text  string
	Pos   icterr.Position
}
