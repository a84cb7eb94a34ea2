// Package ebnf holds the parsed-but-not-yet-canonical grammar AST: a
// production's right-hand side is an Alternations tree (a list of
// Alternation, each a list of Factor) rather than a flat BNF symbol
// sequence. canon.Canonicalise consumes this tree and produces a
// grammar.CFG with every EBNF operator rewritten away, per spec.md §4.1.
package ebnf

import (
	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/icterr"
)

// Alternations is the EBNF rhs of one production: a set of alternatives,
// any one of which may match.
type Alternations struct {
	Alternatives []Alternation
}

// Alternation is a single ordered sequence of factors.
type Alternation struct {
	Factors []Factor
}

// Factor is the tagged union of what may appear in an Alternation:
// a terminal, a non-terminal reference, a parenthesized group, an
// optional, a repetition, a scanner-switch instruction, or a bare
// identifier used as a scanner-state name in %on/%enter context.
type Factor interface {
	factor()
	Position() *icterr.Position
}

// TerminalFactor is a quoted terminal literal, optionally carrying a
// lookahead predicate and scanner-state restriction, as written in PAR
// source. ScannerStateRefs holds the scanner *names* written in a leading
// <Name, Name> prefix; like ScannerSwitchFactor.ScannerRef, these are not
// resolvable to indices until every %scanner block in the document has been
// read, so canon.CanonicaliseScanners resolves them, not the parser.
type TerminalFactor struct {
	Text            string
	Kind            int // mirrors grammar.TerminalKind's Legacy/Regex/Raw values
	ScannerStateRefs []string
	Lookahead       *LookaheadFactor
	Pos             *icterr.Position
}

func (TerminalFactor) factor()                    {}
func (f TerminalFactor) Position() *icterr.Position { return f.Pos }

// LookaheadFactor is a ?= / ?! predicate trailing a terminal.
type LookaheadFactor struct {
	Negative bool
	Pattern  string
}

// NonTerminalFactor is a reference to another production's lhs, carrying
// whatever use-site decorations (^, : Type, @name) appeared in source, plus
// whatever SymbolAttribute a canonicalisation pass has attached at this use
// site (e.g. RepetitionAnchor, Option) when the reference is to a
// synthesised list/option non-terminal rather than one written by hand.
type NonTerminalFactor struct {
	Name       string
	Attribute  grammar.SymbolAttribute
	UserType   *string
	MemberName *string
	Pos        *icterr.Position
}

func (NonTerminalFactor) factor()                    {}
func (f NonTerminalFactor) Position() *icterr.Position { return f.Pos }

// Group is a parenthesized (alpha) factor.
type Group struct {
	Alts Alternations
	Pos  *icterr.Position
}

func (Group) factor()                    {}
func (f Group) Position() *icterr.Position { return f.Pos }

// Optional is a bracketed [alpha] factor.
type Optional struct {
	Alts Alternations
	Pos  *icterr.Position
}

func (Optional) factor()                    {}
func (f Optional) Position() *icterr.Position { return f.Pos }

// Repetition is a braced {alpha} factor.
type Repetition struct {
	Alts Alternations
	Pos  *icterr.Position
}

func (Repetition) factor()                    {}
func (f Repetition) Position() *icterr.Position { return f.Pos }

// ScannerSwitchKind mirrors grammar.ScannerInstrKind for the inline
// %sc/%push/%pop factors a production's rhs may embed.
type ScannerSwitchKind int

const (
	Switch ScannerSwitchKind = iota
	Push
	Pop
)

// ScannerSwitchFactor is an inline %sc(S), %push(S), or %pop() factor.
type ScannerSwitchFactor struct {
	Kind       ScannerSwitchKind
	ScannerRef string // scanner name, resolved to an index once all %scanner blocks are known
	Pos        *icterr.Position
}

func (ScannerSwitchFactor) factor()                    {}
func (f ScannerSwitchFactor) Position() *icterr.Position { return f.Pos }

// IdentifierFactor is a bare identifier naming a scanner state, the only
// context in which PAR source's factor grammar allows an unquoted,
// undecorated name (inside %on id,... %enter S).
type IdentifierFactor struct {
	Name string
	Pos  *icterr.Position
}

func (IdentifierFactor) factor()                    {}
func (f IdentifierFactor) Position() *icterr.Position { return f.Pos }

// Production is one top-level EBNF rule: N : alpha ;
type Production struct {
	LHS string
	RHS Alternations
	Pos *icterr.Position
}

// Empty reports whether alts contains a single, zero-factor alternation --
// i.e. whether the rhs is effectively epsilon.
func (alts Alternations) Empty() bool {
	return len(alts.Alternatives) == 1 && len(alts.Alternatives[0].Factors) == 0
}
