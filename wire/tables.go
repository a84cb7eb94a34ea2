// Package wire builds the binary table format spec.md §6 hands off to an
// external code-emitter collaborator: a production table, a lookahead-DFA
// table per non-terminal, and a terminal table, all addressed by stable
// integer indices rather than by name.
//
// Encoding is github.com/dekarrin/rezi's reflection-driven binary codec,
// the same one the teacher uses to persist a *game.State blob
// (server/dao/sqlite/sqlite.go's convertToDB_GameStatePtr/
// convertFromDB_GameStatePtr): EncBinary/DecBinary work directly on the
// exported fields of a plain struct, so Tables needs no custom marshalling
// of its own.
package wire

import (
	"sort"

	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/icterr"
	"github.com/parolgo/parol/lookahead"
)

// Reserved terminal wire indices, fixed by spec.md §6 regardless of grammar
// content. Every grammar terminal is shifted past them; ERROR is appended
// as the final entry once the grammar terminals are known.
const (
	EOIIndex          = 0
	NewlineIndex      = 1
	WhitespaceIndex   = 2
	LineCommentIndex  = 3
	BlockCommentIndex = 4
	firstGrammarSlot  = 5
)

// ParseEntryKind tags one element of a production's rhs.
type ParseEntryKind int

const (
	EntryNonTerminal ParseEntryKind = iota
	EntryTerminal
	// EntryScanner tags an inline %sc/%push/%pop instruction. spec.md §6's
	// N(index)/T(index) pair covers ordinary grammar symbols; a PAR
	// production may also embed a scanner-switch directly in its rhs
	// (grammar.ScannerInstruction), so the wire format needs a third tag
	// the emitted driver executes as a side effect rather than a stack
	// push. Index is ScannerKind's target scanner wire index, meaningless
	// for ScannerPop.
	EntryScanner
)

// ScannerInstrKind mirrors grammar.ScannerInstrKind for an EntryScanner tag.
type ScannerInstrKind int

const (
	ScannerSwitch ScannerInstrKind = iota
	ScannerPush
	ScannerPop
)

// ParseEntry is one rhs element: N(index), T(index), or a scanner-switch
// instruction.
type ParseEntry struct {
	Kind        ParseEntryKind
	Index       int
	ScannerKind ScannerInstrKind // only meaningful when Kind == EntryScanner
}

// ProductionRecord is one compiled production. LHS is the non-terminal's
// wire index (its position in Tables.NonTerminalNames). RHS is stored in
// *reverse* order, per spec.md §6, so that pushing the tuple onto a driver
// stack left-to-right yields leftmost-topmost evaluation without the
// driver reversing anything at parse time.
type ProductionRecord struct {
	LHS int
	RHS []ParseEntry
}

// TerminalRecord is one terminal table entry. RegexSource is the scanner
// regex the terminal contributes (grammar.Terminal.ExpandedRegex for
// grammar terminals; a fixed pattern for the newline and whitespace slots;
// scanner 0's comment delimiters for the line- and block-comment slots;
// empty for ERROR). HasLookahead/LookaheadNegative/LookaheadPattern encode
// spec.md §6's "optional(flag, aux)" lookahead predicate slot.
type TerminalRecord struct {
	RegexSource       string
	HasLookahead      bool
	LookaheadNegative bool
	LookaheadPattern  string
}

// TransRecord is one (from, terminal, to, prod) lookahead-DFA edge, with
// Terminal already translated to its wire index.
type TransRecord struct {
	From     int
	Terminal int
	To       int
	Prod     int
}

// DFARecord is one non-terminal's compiled lookahead-DFA.
type DFARecord struct {
	NonTerminal int // wire index into Tables.NonTerminalNames
	K           int
	Prod0       int // lookahead.InvalidProd if this is not a trivial single-production DFA
	Transitions []TransRecord
}

// Tables is everything the emitted parser needs, encodable as a single
// binary blob via Encode/Decode.
type Tables struct {
	NonTerminalNames []string
	Productions      []ProductionRecord
	Terminals        []TerminalRecord
	DFAs             []DFARecord
}

// Build assembles Tables from a canonicalised grammar, its built lookahead
// DFAs, and the scanner configuration the line- and block-comment entries
// are drawn from (scanner 0, the INITIAL scanner, since the trivia terminals'
// regex is scanner-global rather than per-production).
func Build(gc *grammar.GrammarConfig, dfas map[string]*lookahead.DFA) (*Tables, error) {
	g := gc.CFG
	ntIndex := make(map[string]int, len(g.NonTerminals()))
	names := g.NonTerminals()
	for i, n := range names {
		ntIndex[n] = i
	}

	terms := buildTerminalTable(g, gc)
	toWire := func(internal int) int {
		if internal < 0 {
			return EOIIndex
		}
		return internal + firstGrammarSlot
	}

	prods := make([]ProductionRecord, len(g.Productions))
	for i, p := range g.Productions {
		rec, err := buildProductionRecord(g, p, ntIndex, toWire)
		if err != nil {
			return nil, err
		}
		prods[i] = rec
	}

	dfaRecs, err := buildDFARecords(dfas, ntIndex, toWire)
	if err != nil {
		return nil, err
	}

	return &Tables{
		NonTerminalNames: names,
		Productions:      prods,
		Terminals:        terms,
		DFAs:             dfaRecs,
	}, nil
}

func buildProductionRecord(g *grammar.CFG, p grammar.Production, ntIndex map[string]int, toWire func(int) int) (ProductionRecord, error) {
	lhsIdx, ok := ntIndex[p.LHS]
	if !ok {
		return ProductionRecord{}, icterr.New(icterr.CodeUnreachableNonTerms, "production lhs %q is not a known non-terminal", p.LHS)
	}

	entries := make([]ParseEntry, len(p.RHS))
	for i, sym := range p.RHS {
		switch s := sym.(type) {
		case grammar.NonTerminal:
			idx, ok := ntIndex[s.Name]
			if !ok {
				return ProductionRecord{}, icterr.New(icterr.CodeUnreachableNonTerms, "rhs of %q references unknown non-terminal %q", p.LHS, s.Name)
			}
			entries[i] = ParseEntry{Kind: EntryNonTerminal, Index: idx}
		case grammar.Terminal:
			tIdx, ok := g.TerminalIndexOf(s)
			if !ok {
				return ProductionRecord{}, icterr.New(icterr.CodeUnreachableNonTerms, "rhs of %q references a terminal not in the grammar's terminal list", p.LHS)
			}
			entries[i] = ParseEntry{Kind: EntryTerminal, Index: toWire(tIdx)}
		case grammar.ScannerInstruction:
			entries[i] = ParseEntry{Kind: EntryScanner, Index: s.Index, ScannerKind: ScannerInstrKind(s.Kind)}
		default:
			return ProductionRecord{}, icterr.New(icterr.CodeUnreachableNonTerms, "rhs of %q contains an unrecognised symbol type %T", p.LHS, sym)
		}
	}

	// reverse in place so index 0 of RHS is the topmost stack entry
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return ProductionRecord{LHS: lhsIdx, RHS: entries}, nil
}

func buildTerminalTable(g *grammar.CFG, gc *grammar.GrammarConfig) []TerminalRecord {
	out := make([]TerminalRecord, firstGrammarSlot, firstGrammarSlot+len(g.Terminals())+1)
	out[EOIIndex] = TerminalRecord{RegexSource: ""}
	out[NewlineIndex] = TerminalRecord{RegexSource: `\r\n|\r|\n`}
	out[WhitespaceIndex] = TerminalRecord{RegexSource: `[ \t]+`}

	var lineComment, blockCommentOpen, blockCommentClose string
	if len(gc.Scanners) > 0 {
		initial := gc.Scanners[0]
		if len(initial.LineComments) > 0 {
			lineComment = initial.LineComments[0]
		}
		if len(initial.BlockComments) > 0 {
			blockCommentOpen = initial.BlockComments[0][0]
			blockCommentClose = initial.BlockComments[0][1]
		}
	}
	out[LineCommentIndex] = TerminalRecord{RegexSource: lineComment}
	out[BlockCommentIndex] = TerminalRecord{RegexSource: blockCommentOpen + " ... " + blockCommentClose}

	for _, t := range g.Terminals() {
		rec := TerminalRecord{RegexSource: t.ExpandedRegex()}
		if t.Lookahead != nil {
			rec.HasLookahead = true
			rec.LookaheadNegative = t.Lookahead.Kind == grammar.LookaheadNegative
			rec.LookaheadPattern = t.Lookahead.Pattern
		}
		out = append(out, rec)
	}

	out = append(out, TerminalRecord{RegexSource: ""}) // ERROR, always the last entry
	return out
}

func buildDFARecords(dfas map[string]*lookahead.DFA, ntIndex map[string]int, toWire func(int) int) ([]DFARecord, error) {
	names := make([]string, 0, len(dfas))
	for nt := range dfas {
		names = append(names, nt)
	}
	sort.Strings(names)

	out := make([]DFARecord, 0, len(names))
	for _, nt := range names {
		d := dfas[nt]
		idx, ok := ntIndex[nt]
		if !ok {
			return nil, icterr.New(icterr.CodeUnreachableNonTerms, "lookahead DFA built for unknown non-terminal %q", nt)
		}
		trans := make([]TransRecord, len(d.Transitions))
		for i, tr := range d.Transitions {
			trans[i] = TransRecord{From: tr.From, Terminal: toWire(tr.Terminal), To: tr.To, Prod: tr.Prod}
		}
		out = append(out, DFARecord{
			NonTerminal: idx,
			K:           d.K,
			Prod0:       d.Prod0,
			Transitions: trans,
		})
	}
	return out, nil
}
