package lex

import (
	"strings"
	"unicode/utf8"

	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/icterr"
	"github.com/parolgo/parol/runtime"
)

// buffered is one lexed-but-not-yet-consumed token, paired with the source
// offset immediately following it -- the rewind point Consume commits to.
type buffered struct {
	tok       runtime.Token
	endOffset int
}

// Stream is a runtime.TokenStream over an in-memory source string,
// grounded on the teacher's lazyLex (internal/ictiobus/lex/lazy.go): the
// same maximal-munch matching, with no panic-mode recovery (a position no
// rule matches is reported as a syntax error), adapted from a
// single-state bufio.Reader to parol's multi-scanner model, where a
// %sc/%push/%pop instruction mid-parse invalidates and re-derives any
// tokens already sitting in the lookahead buffer. Random-access re-lexing
// (rather than the teacher's streaming regexReader) is what that
// invalidate-and-refill requirement needs: a scanner switch must resume
// tokenizing from the exact byte offset following the last *consumed*
// token, discarding anything spooled ahead of it, which a one-directional
// reader cannot rewind to.
type Stream struct {
	src      string
	offset   int // position immediately after the last Consumed token
	scan     int // position the lexer has scanned up to (>= offset)
	programs []*scannerProgram
	stack    []int
	buf      []buffered
	k        int
	line     int
	col      int
}

// NewStream returns a Stream over src using the scanners compiled from
// cfg, buffering up to k tokens of lookahead, starting in scanner 0.
func NewStream(cfg *grammar.GrammarConfig, src string, k int) (*Stream, error) {
	programs, err := buildPrograms(cfg)
	if err != nil {
		return nil, err
	}
	s := &Stream{src: src, programs: programs, stack: []int{0}, k: k, line: 1, col: 1}
	if err := s.ensure(k); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stream) Lookahead(i int) (runtime.Token, error) {
	if err := s.ensure(i + 1); err != nil {
		return runtime.Token{}, err
	}
	if i >= len(s.buf) {
		return s.eoiToken(), nil
	}
	return s.buf[i].tok, nil
}

func (s *Stream) LookaheadTerminal(i int) (int, error) {
	tok, err := s.Lookahead(i)
	if err != nil {
		return 0, err
	}
	return tok.Index, nil
}

func (s *Stream) Consume() (runtime.Token, error) {
	if err := s.ensure(1); err != nil {
		return runtime.Token{}, err
	}
	if len(s.buf) == 0 {
		return s.eoiToken(), nil
	}
	head := s.buf[0]
	s.buf = s.buf[1:]
	s.offset = head.endOffset
	return head.tok, nil
}

func (s *Stream) CurrentScannerIndex() int { return s.stack[len(s.stack)-1] }

func (s *Stream) SwitchScanner(idx int) error {
	if idx < 0 || idx >= len(s.programs) {
		return icterr.New(icterr.CodeUnknownScanner, "no scanner with index %d", idx)
	}
	s.stack[len(s.stack)-1] = idx
	s.invalidateBuffer()
	return nil
}

func (s *Stream) PushScanner(idx int) error {
	if idx < 0 || idx >= len(s.programs) {
		return icterr.New(icterr.CodeUnknownScanner, "no scanner with index %d", idx)
	}
	s.stack = append(s.stack, idx)
	s.invalidateBuffer()
	return nil
}

func (s *Stream) PopScanner() error {
	if len(s.stack) <= 1 {
		return icterr.New(icterr.CodePopOnEmptyScannerStack, "pop on empty scanner stack")
	}
	s.stack = s.stack[:len(s.stack)-1]
	s.invalidateBuffer()
	return nil
}

// invalidateBuffer drops every token lexed but not yet consumed, per
// spec.md §4.7: a scanner change takes effect starting at the next token
// read, so the speculative lookahead buffer is wrong and must be rebuilt.
func (s *Stream) invalidateBuffer() {
	s.buf = nil
	s.scan = s.offset
	s.line, s.col = 1, 1
	for _, r := range s.src[:s.offset] {
		if r == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
	}
}

// ensure lexes forward, under the currently active scanner, until the
// buffer holds at least n tokens or the source is exhausted.
func (s *Stream) ensure(want int) error {
	for len(s.buf) < want && s.scan < len(s.src) {
		s.skipTrivia()
		if s.scan >= len(s.src) {
			break
		}
		b, err := s.lexOne()
		if err != nil {
			return err
		}
		s.buf = append(s.buf, b)
	}
	return nil
}

// eoiToken is the sentinel returned once the source is exhausted. Its
// index (-1) matches the internal end-of-input convention lookahead's
// FOLLOW computation and the DFA evaluator already use; the wire table's
// own reserved index 0 for EOI (spec.md §6) is a separate, outward-facing
// numbering the wire package maps to when serializing, not this package's
// concern.
func (s *Stream) eoiToken() runtime.Token {
	return runtime.Token{Index: -1, Text: "", Pos: icterr.Position{Line: s.line, Column: s.col}}
}

// skipTrivia consumes whitespace and comments per the active scanner's
// AutoWS/AutoNewline/LineComments/BlockComments configuration, the way a
// PAR scanner's implicit skip rules behave.
func (s *Stream) skipTrivia() {
	prog := s.programs[s.CurrentScannerIndex()]
	for s.scan < len(s.src) {
		rest := s.src[s.scan:]

		if prog.cfg.AutoWS || prog.cfg.AutoNewline {
			r, n := utf8.DecodeRuneInString(rest)
			if n > 0 && isSkippableSpace(r, prog.cfg.AutoWS, prog.cfg.AutoNewline) {
				s.advance(n)
				continue
			}
		}

		if matched := matchAny(rest, prog.lineCmts); matched >= 0 {
			lc := prog.lineCmts[matched]
			if end := strings.IndexByte(rest[len(lc):], '\n'); end >= 0 {
				s.advance(len(lc) + end)
			} else {
				s.advance(len(rest))
			}
			continue
		}

		if openIdx, closeLen := matchBlockOpen(rest, prog.blockCmts); openIdx >= 0 {
			open := prog.blockCmts[openIdx][0]
			closeStr := prog.blockCmts[openIdx][1]
			if end := strings.Index(rest[len(open):], closeStr); end >= 0 {
				s.advance(len(open) + end + closeLen)
			} else {
				s.advance(len(rest))
			}
			continue
		}

		break
	}
}

func isSkippableSpace(r rune, autoWS, autoNewline bool) bool {
	switch r {
	case '\n':
		return autoNewline
	case ' ', '\t', '\r':
		return autoWS
	default:
		return false
	}
}

func matchAny(s string, prefixes []string) int {
	for i, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return i
		}
	}
	return -1
}

func matchBlockOpen(s string, blocks [][2]string) (int, int) {
	for i, b := range blocks {
		if strings.HasPrefix(s, b[0]) {
			return i, len(b[1])
		}
	}
	return -1, 0
}

// advance moves the scan cursor forward n bytes of src, keeping line/col
// tracking in sync.
func (s *Stream) advance(n int) {
	for _, r := range s.src[s.scan : s.scan+n] {
		if r == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
	}
	s.scan += n
}

// lexOne runs the active scanner's superRegex once, applies gnu-lex-style
// longest-match/first-defined tie-breaking over its capturing groups (the
// teacher's lazyLex.selectMatch), and returns the resulting buffered token
// along with the source offset immediately following it, the rewind point
// Consume later commits to.
func (s *Stream) lexOne() (buffered, error) {
	prog := s.programs[s.CurrentScannerIndex()]
	rest := s.src[s.scan:]
	loc := prog.super.FindStringSubmatchIndex(rest)
	if loc == nil {
		return buffered{}, icterr.At(icterr.CodeSyntaxError, &icterr.Position{Line: s.line, Column: s.col}, "no scanner rule matches input starting at %q", preview(rest))
	}

	ruleIdx, lexeme := selectMatch(loc, rest, len(prog.rules))
	tok := runtime.Token{
		Index: prog.rules[ruleIdx].TerminalIndex,
		Text:  lexeme,
		Pos:   icterr.Position{Line: s.line, Column: s.col},
	}
	s.advance(len(lexeme))
	return buffered{tok: tok, endOffset: s.scan}, nil
}

// selectMatch picks the longest-matching capturing group, breaking ties by
// lowest rule index (first declared wins), mirroring lazyLex.selectMatch.
func selectMatch(loc []int, rest string, numRules int) (int, string) {
	best := -1
	bestLen := -1
	for i := 0; i < numRules; i++ {
		start, end := loc[2+2*i], loc[2+2*i+1]
		if start < 0 {
			continue
		}
		length := end - start
		if length > bestLen {
			bestLen = length
			best = i
		}
	}
	start, end := loc[2+2*best], loc[2+2*best+1]
	return best, rest[start:end]
}

func preview(s string) string {
	const max = 20
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
