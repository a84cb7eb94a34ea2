// Package grammar holds the immutable value types for the grammar data
// model: terminals, symbols, productions, and the CFG that bundles them.
// Its shape follows spec.md §3; the split between a dedicated Symbol/
// Terminal file and a separate CFG file mirrors the teacher's own
// ictiobus/grammar and ictiobus/automaton packages, each of which keeps
// the item/value types in one file and the aggregate structure in
// another.
package grammar

import (
	"regexp"
	"sort"
	"strings"
)

// TerminalKind distinguishes how a terminal's text is interpreted when its
// scanner regex is built, plus the two sentinel kinds (epsilon, end of
// input) that never appear in an emitted scanner.
type TerminalKind int

const (
	// Legacy terminals are quoted with "..." and are passed through
	// verbatim to the scanner regex builder.
	Legacy TerminalKind = iota
	// Regex terminals are quoted with /.../ and are already a regex.
	Regex
	// Raw terminals are quoted with '...' and have their text escaped of
	// regex metacharacters before becoming part of a scanner regex.
	Raw
	// Epsilon is the empty-string sentinel terminal. It may only appear
	// as a synthesised FIRST-set element, never as an rhs symbol.
	Epsilon
	// End is the end-of-input sentinel terminal, traditionally written $.
	End
)

func (k TerminalKind) String() string {
	switch k {
	case Legacy:
		return "Legacy"
	case Regex:
		return "Regex"
	case Raw:
		return "Raw"
	case Epsilon:
		return "Epsilon"
	case End:
		return "End"
	default:
		return "TerminalKind(?)"
	}
}

// LookaheadKind distinguishes a positive (?= ...) from a negative (?! ...)
// lookahead predicate attached to a terminal.
type LookaheadKind int

const (
	LookaheadPositive LookaheadKind = iota
	LookaheadNegative
)

// Lookahead is a predicate that must (or must not) match immediately after
// a terminal for that terminal to be accepted.
type Lookahead struct {
	Kind    LookaheadKind
	Pattern string
}

// SymbolAttribute marks how a symbol participates in AST construction.
type SymbolAttribute int

const (
	// NoAttribute is the default: the symbol is an ordinary AST child.
	NoAttribute SymbolAttribute = iota
	// Clipped symbols are present in the concrete grammar but excluded
	// from the AST (the '^' prefix in PAR source).
	Clipped
	// RepetitionAnchor marks the use site of a list-head non-terminal
	// introduced by repetition elimination (spec.md §4.1 step 3).
	RepetitionAnchor
	// Option marks an optional slot introduced by optional elimination.
	Option
)

func (a SymbolAttribute) String() string {
	switch a {
	case NoAttribute:
		return "None"
	case Clipped:
		return "Clipped"
	case RepetitionAnchor:
		return "RepetitionAnchor"
	case Option:
		return "Option"
	default:
		return "SymbolAttribute(?)"
	}
}

// ProductionAttribute marks how a canonicalised production contributes to
// downstream AST construction of a list or option.
type ProductionAttribute int

const (
	NoProductionAttribute ProductionAttribute = iota
	// CollectionStart is the epsilon production that seeds a list.
	CollectionStart
	// AddToCollection is a production that extends a list by one element.
	AddToCollection
	// OptionalNone is the epsilon alternative of an extracted optional.
	OptionalNone
	// OptionalSome is the non-empty alternative of an extracted optional.
	OptionalSome
)

func (a ProductionAttribute) String() string {
	switch a {
	case NoProductionAttribute:
		return "None"
	case CollectionStart:
		return "CollectionStart"
	case AddToCollection:
		return "AddToCollection"
	case OptionalNone:
		return "OptionalNone"
	case OptionalSome:
		return "OptionalSome"
	default:
		return "ProductionAttribute(?)"
	}
}

// Symbol is the tagged union of what may occupy a production's rhs: a
// non-terminal reference, a terminal, or a scanner instruction. Go has no
// sum types, so this is modeled as a marker-method interface implemented by
// NonTerminal, Terminal, and ScannerInstruction, matching the three
// branches spec.md §3 describes for Symbol.
type Symbol interface {
	symbol()
	String() string
}

// NonTerminal is a reference to a production's left-hand side, carrying the
// use-site attribute (e.g. Clipped, RepetitionAnchor) and optional type
// annotations. The four-field shape (name, attribute, user-type,
// member-name) is the one the Open Questions in spec.md §9 direct
// implementers to pick uniformly; no three-field variant appears anywhere
// in this repo.
type NonTerminal struct {
	Name       string
	Attribute  SymbolAttribute
	UserType   *string
	MemberName *string
}

func (NonTerminal) symbol() {}

func (n NonTerminal) String() string {
	s := n.Name
	if n.Attribute == Clipped {
		s = "^" + s
	}
	if n.UserType != nil {
		s += ": " + *n.UserType
	}
	if n.MemberName != nil {
		s += " @" + *n.MemberName
	}
	return s
}

// Terminal is either a concrete lexical token or one of the two sentinel
// values Epsilon and End.
type Terminal struct {
	Text          string
	Kind          TerminalKind
	ScannerStates []int
	Attribute     SymbolAttribute
	UserType      *string
	Lookahead     *Lookahead
}

func (Terminal) symbol() {}

// NewTerminal builds a concrete Terminal, sorting and deduplicating
// scannerStates per spec.md §3's invariant ("Scanner-state vectors on
// terminals are sorted and deduplicated"). Grounded on the original Rust
// Terminal::add_scanner, which sorts and dedups its scanner-index vector
// whenever a new state is attached.
func NewTerminal(text string, kind TerminalKind, scannerStates []int, attr SymbolAttribute, userType *string) Terminal {
	return Terminal{
		Text:          text,
		Kind:          kind,
		ScannerStates: normalizeScannerStates(scannerStates),
		Attribute:     attr,
		UserType:      userType,
	}
}

func normalizeScannerStates(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Ints(out)
	return out
}

// Eps returns the epsilon sentinel terminal.
func Eps() Terminal { return Terminal{Kind: Epsilon} }

// EndOfInput returns the end-of-input sentinel terminal, conventionally $.
func EndOfInput() Terminal { return Terminal{Kind: End} }

// IsEps reports whether t is the epsilon sentinel.
func (t Terminal) IsEps() bool { return t.Kind == Epsilon }

// IsEnd reports whether t is the end-of-input sentinel.
func (t Terminal) IsEnd() bool { return t.Kind == End }

// ExpandedRegex returns the regex text this terminal contributes to a
// scanner: Raw terminals have their text escaped of regex metacharacters,
// Legacy and Regex terminals are passed through as-is. Grounded on the
// Rust Terminal::create / TerminalKind::delimiter distinction in
// original_source's grammar/symbol.rs.
func (t Terminal) ExpandedRegex() string {
	switch t.Kind {
	case Raw:
		return regexp.QuoteMeta(t.Text)
	default:
		return t.Text
	}
}

// behavesLike reports whether two terminal kinds are considered compatible
// for scanner-equivalence purposes: Legacy and Regex are interchangeable,
// Raw is only compatible with itself.
func behavesLike(a, b TerminalKind) bool {
	if a == Raw || b == Raw {
		return a == b
	}
	return (a == Legacy || a == Regex) && (b == Legacy || b == Regex)
}

// ScannerEquivalent reports whether t and other are scanner-equivalent per
// spec.md §3: their expanded regex texts are equal and their kinds
// behave alike.
func (t Terminal) ScannerEquivalent(other Terminal) bool {
	return t.ExpandedRegex() == other.ExpandedRegex() && behavesLike(t.Kind, other.Kind)
}

func (t Terminal) String() string {
	if t.Kind == Epsilon {
		return "<epsilon>"
	}
	if t.Kind == End {
		return "$"
	}
	var delim string
	switch t.Kind {
	case Regex:
		delim = "/"
	case Raw:
		delim = "'"
	default:
		delim = "\""
	}
	s := delim + t.Text + delim
	if len(t.ScannerStates) > 0 && !(len(t.ScannerStates) == 1 && t.ScannerStates[0] == 0) {
		states := make([]string, len(t.ScannerStates))
		for i, idx := range t.ScannerStates {
			states[i] = itoa(idx)
		}
		s = "<" + strings.Join(states, ", ") + ">" + s
	}
	return s
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var digits []byte
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

// ScannerInstrKind distinguishes the three inline scanner-switch
// instructions a PAR grammar may embed in a production's rhs.
type ScannerInstrKind int

const (
	Switch ScannerInstrKind = iota
	Push
	Pop
)

func (k ScannerInstrKind) String() string {
	switch k {
	case Switch:
		return "Switch"
	case Push:
		return "Push"
	case Pop:
		return "Pop"
	default:
		return "ScannerInstrKind(?)"
	}
}

// ScannerInstruction is a parser-driven scanner transition embedded
// directly in a production's rhs (%sc, %push, %pop in PAR source). Index
// is meaningless for Pop.
type ScannerInstruction struct {
	Kind  ScannerInstrKind
	Index int
}

func (ScannerInstruction) symbol() {}

func (s ScannerInstruction) String() string {
	switch s.Kind {
	case Switch:
		return "%sc(" + itoa(s.Index) + ")"
	case Push:
		return "%push(" + itoa(s.Index) + ")"
	case Pop:
		return "%pop()"
	default:
		return "ScannerInstruction(?)"
	}
}
