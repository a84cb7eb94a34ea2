package runtime

// TokenStream is the interface the driver consumes, per spec.md §4.7. An
// implementation buffers at least K tokens of lookahead and supports
// scanner switching that takes effect starting at the next token read --
// any tokens already sitting in the lookahead buffer are invalidated and
// refilled from the newly active scanner.
type TokenStream interface {
	// Lookahead returns the i-th not-yet-consumed token (0 is the next
	// token to be consumed) without consuming it. i must be < K.
	Lookahead(i int) (Token, error)

	// LookaheadTerminal is Lookahead(i) narrowed to just the terminal
	// index, the view lookahead.Evaluate needs.
	LookaheadTerminal(i int) (int, error)

	// Consume removes and returns the next token.
	Consume() (Token, error)

	// SwitchScanner, PushScanner and PopScanner change which scanner
	// produces subsequent tokens. PopScanner on an empty scanner stack is
	// an error.
	SwitchScanner(idx int) error
	PushScanner(idx int) error
	PopScanner() error

	// CurrentScannerIndex reports the scanner presently in effect.
	CurrentScannerIndex() int
}

// lookaheadAdapter narrows a TokenStream to the lookahead.LookaheadSource
// the DFA evaluator needs, so lookahead need not depend on this package.
type lookaheadAdapter struct{ ts TokenStream }

func (a lookaheadAdapter) LookaheadTerminal(i int) (int, error) {
	return a.ts.LookaheadTerminal(i)
}
