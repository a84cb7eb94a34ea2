// Package lex turns PAR-declared scanners (grammar.ScannerConfig) into a
// working tokenizer: one compiled pattern-group per scanner, selected the
// way the teacher's lazyLex does (internal/ictiobus/lex/lazy.go) -- all of
// a state's patterns joined into a single anchored alternation so one
// regex engine call finds every candidate match at once, with longest-
// match-wins, first-defined-wins tie-breaking.
package lex

import (
	"regexp"
	"strings"

	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/icterr"
)

// Rule pairs a terminal's expanded pattern with its compact index into the
// grammar's terminal table, the classification a matched lexeme resolves
// to.
type Rule struct {
	Terminal      grammar.Terminal
	TerminalIndex int
}

// scannerProgram is one scanner's compiled recognizer: a single superRegex
// with one capturing group per rule, in declaration order, plus the
// scanner's comment/whitespace configuration.
type scannerProgram struct {
	cfg       grammar.ScannerConfig
	rules     []Rule
	super     *regexp.Regexp
	lineCmts  []string
	blockCmts [][2]string
}

// buildPrograms compiles one scannerProgram per scanner declared in cfg,
// restricting each scanner's rule set to the terminals whose ScannerStates
// include that scanner's index (or which declare no states at all, the
// "active in every scanner" default).
func buildPrograms(cfg *grammar.GrammarConfig) ([]*scannerProgram, error) {
	out := make([]*scannerProgram, len(cfg.Scanners))
	for i, sc := range cfg.Scanners {
		rules := rulesForScanner(cfg.CFG, i)
		super, err := compileSuper(rules)
		if err != nil {
			return nil, icterr.Wrap(icterr.CodeUnknownScanner, err, "compiling scanner %q", sc.Name)
		}
		out[i] = &scannerProgram{cfg: sc, rules: rules, super: super, lineCmts: sc.LineComments, blockCmts: sc.BlockComments}
	}
	return out, nil
}

func rulesForScanner(g *grammar.CFG, scannerIdx int) []Rule {
	var rules []Rule
	for _, t := range g.Terminals() {
		if t.Kind == grammar.Epsilon || t.Kind == grammar.End {
			continue
		}
		if !activeIn(t, scannerIdx) {
			continue
		}
		idx, ok := g.TerminalIndexOf(t)
		if !ok {
			continue
		}
		rules = append(rules, Rule{Terminal: t, TerminalIndex: idx})
	}
	return rules
}

func activeIn(t grammar.Terminal, scannerIdx int) bool {
	if len(t.ScannerStates) == 0 {
		return true
	}
	for _, s := range t.ScannerStates {
		if s == scannerIdx {
			return true
		}
	}
	return false
}

// compileSuper builds the anchored "^(?:(rule0)|(rule1)|...)" pattern the
// way lazyLex.LazyLex does, one capturing group per rule so the matching
// group's index identifies which rule fired.
func compileSuper(rules []Rule) (*regexp.Regexp, error) {
	if len(rules) == 0 {
		return regexp.Compile(`a\A`) // never matches (requires start-of-text after consuming 'a'); an empty scanner is legal but inert
	}
	var b strings.Builder
	b.WriteString("^(?:")
	for i, r := range rules {
		if i > 0 {
			b.WriteRune('|')
		}
		b.WriteString("(")
		b.WriteString(r.Terminal.ExpandedRegex())
		b.WriteString(")")
	}
	b.WriteString(")")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, err
	}
	// leftmost-longest, so the longest alternative wins and equal-length
	// alternatives go to the first-defined rule
	re.Longest()
	return re, nil
}
