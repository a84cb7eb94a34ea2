package runtime

import (
	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/icterr"
	"github.com/parolgo/parol/lookahead"
	"github.com/parolgo/parol/util"
)

// endMarker is the end-of-input sentinel a TokenStream reports once it has
// no more tokens to produce, mirroring lookahead.endMarker and lex.Stream's
// own -1 convention (spec.md §6's reserved wire index 0 for EOI is a
// separate, outward-facing concern -- see wire.EOIIndex).
const endMarker = -1

// stackEntry is the tagged union of spec.md §4.6's three stack-entry
// kinds, Go-shaped the way grammar.Symbol is: a marker method plus
// concrete types, since the language has no sum types.
type stackEntry interface{ stackEntry() }

type terminalEntry struct{ T grammar.Terminal }
type nonTerminalEntry struct{ Name string }
type scannerEntry struct{ Instr grammar.ScannerInstruction }
type endOfProductionEntry struct {
	Prod int
	Node *ParseTree
}

func (terminalEntry) stackEntry()       {}
func (nonTerminalEntry) stackEntry()    {}
func (scannerEntry) stackEntry()        {}
func (endOfProductionEntry) stackEntry() {}

// SemanticAction is invoked once per reduced production, in the order
// productions finish (i.e. post-order over the parse tree), mirroring
// spec.md §4.6's "pop and hand p to the semantic-action callback,
// supplying the just-parsed children in order." A nil action just builds
// the parse tree with no side effects.
type SemanticAction func(prod int, node *ParseTree) error

// Driver runs the LL(k) algorithm of spec.md §4.6, predicting productions
// via the lookahead.DFA of the non-terminal currently on top of the stack.
// Grounded on the teacher's parse.ll1Parser.Parse
// (internal/ictiobus/parse/ll1.go): the same stack-of-symbols plus a
// parallel stack of in-progress tree nodes, generalized from a single
// LL(1) table lookup to a lookahead.DFA walk and from k=1 to arbitrary k.
type Driver struct {
	g    *grammar.CFG
	dfas map[string]*lookahead.DFA
}

// NewDriver returns a Driver for g, whose lookahead DFAs are dfas (one per
// non-terminal, as returned by lookahead.BuildAll).
func NewDriver(g *grammar.CFG, dfas map[string]*lookahead.DFA) *Driver {
	return &Driver{g: g, dfas: dfas}
}

// Run parses ts against the driver's grammar starting from its start
// symbol, invoking action (if non-nil) once per reduced production, and
// returns the completed parse tree.
func (d *Driver) Run(ts TokenStream, action SemanticAction) (*ParseTree, error) {
	root := &ParseTree{Symbol: d.g.StartSymbol}

	var stack util.Stack[stackEntry]
	var nodes util.Stack[*ParseTree]
	stack.Push(nonTerminalEntry{Name: d.g.StartSymbol})
	nodes.Push(root)

	for !stack.Empty() {
		switch e := stack.Peek().(type) {
		case terminalEntry:
			if err := d.shift(&stack, &nodes, e, ts); err != nil {
				return nil, err
			}
		case nonTerminalEntry:
			if err := d.predict(&stack, &nodes, e, ts); err != nil {
				return nil, err
			}
		case scannerEntry:
			stack.Pop()
			if err := applyScannerInstruction(ts, e.Instr); err != nil {
				return nil, err
			}
		case endOfProductionEntry:
			stack.Pop()
			if action != nil {
				if err := action(e.Prod, e.Node); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := d.checkFullyConsumed(ts); err != nil {
		return nil, err
	}

	return root, nil
}

// checkFullyConsumed raises icterr.CodeUnprocessedInput if ts still has a
// token sitting at lookahead 0 once the stack has emptied: the start
// symbol reduced fully but the input wasn't exhausted, e.g. "a" "b"
// against a grammar that only accepts "a" (-1 is the internal
// end-of-input sentinel; see lex.Stream.eoiToken).
func (d *Driver) checkFullyConsumed(ts TokenStream) error {
	idx, err := ts.LookaheadTerminal(0)
	if err != nil {
		return err
	}
	if idx == endMarker {
		return nil
	}
	tok, err := ts.Lookahead(0)
	if err != nil {
		return err
	}
	return icterr.At(icterr.CodeUnprocessedInput, &tok.Pos, "unprocessed input remaining: %q", tok.Text)
}

func (d *Driver) shift(stack *util.Stack[stackEntry], nodes *util.Stack[*ParseTree], e terminalEntry, ts TokenStream) error {
	idx, ok := d.g.TerminalIndexOf(e.T)
	if !ok {
		return icterr.New(icterr.CodeSyntaxError, "terminal %s is not part of the grammar's terminal table", e.T.String())
	}

	seen, err := ts.LookaheadTerminal(0)
	if err != nil {
		return err
	}
	if seen != idx {
		tok, lookErr := ts.Lookahead(0)
		if lookErr != nil {
			return lookErr
		}
		return icterr.At(icterr.CodeSyntaxError, &tok.Pos, "expected %s but found %q", e.T.String(), tok.Text)
	}

	tok, err := ts.Consume()
	if err != nil {
		return err
	}
	node := nodes.Pop()
	node.Terminal = true
	node.Symbol = e.T.String()
	node.Token = &tok
	stack.Pop()
	return nil
}

func (d *Driver) predict(stack *util.Stack[stackEntry], nodes *util.Stack[*ParseTree], e nonTerminalEntry, ts TokenStream) error {
	dfa, ok := d.dfas[e.Name]
	if !ok {
		return icterr.New(icterr.CodeSyntaxError, "no lookahead DFA for non-terminal %q", e.Name)
	}
	prodIdx, err := lookahead.Evaluate(dfa, lookaheadAdapter{ts: ts}, e.Name)
	if err != nil {
		return err
	}
	if prodIdx < 0 || prodIdx >= len(d.g.Productions) {
		return icterr.New(icterr.CodeSyntaxError, "DFA for %q predicted out-of-range production %d", e.Name, prodIdx)
	}
	prod := d.g.Productions[prodIdx]

	stack.Pop()
	node := nodes.Pop()
	node.Prod = prodIdx

	children := make([]*ParseTree, 0, len(prod.RHS))
	for _, sym := range prod.RHS {
		if _, isInstr := sym.(grammar.ScannerInstruction); isInstr {
			continue
		}
		children = append(children, &ParseTree{})
	}
	node.Children = children

	stack.Push(endOfProductionEntry{Prod: prodIdx, Node: node})

	childIdx := len(children)
	for i := len(prod.RHS) - 1; i >= 0; i-- {
		switch s := prod.RHS[i].(type) {
		case grammar.Terminal:
			childIdx--
			stack.Push(terminalEntry{T: s})
			nodes.Push(children[childIdx])
		case grammar.NonTerminal:
			childIdx--
			children[childIdx].Symbol = s.Name
			stack.Push(nonTerminalEntry{Name: s.Name})
			nodes.Push(children[childIdx])
		case grammar.ScannerInstruction:
			stack.Push(scannerEntry{Instr: s})
		}
	}
	return nil
}

func applyScannerInstruction(ts TokenStream, instr grammar.ScannerInstruction) error {
	switch instr.Kind {
	case grammar.Switch:
		return ts.SwitchScanner(instr.Index)
	case grammar.Push:
		return ts.PushScanner(instr.Index)
	case grammar.Pop:
		return ts.PopScanner()
	default:
		return icterr.New(icterr.CodeSyntaxError, "unknown scanner instruction kind %v", instr.Kind)
	}
}
