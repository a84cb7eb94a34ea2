// Package parol is a parser generator: it reads a PAR grammar (spec.md §6's
// concrete syntax, handled by the par package), canonicalises it to a
// flat BNF grammar.CFG (canon), validates it and builds per-non-terminal
// lookahead DFAs (analysis, lookahead), and renders the result as the
// binary table format an external code-emitter consumes (wire).
//
// Build is the single entry point gluing those stages together, the
// pipeline-driver role spec.md §2's system overview describes.
package parol

import (
	"github.com/parolgo/parol/analysis"
	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/lookahead"
	"github.com/parolgo/parol/par"
	"github.com/parolgo/parol/wire"
)

// Result is everything a successful Build produces: the canonicalised
// grammar configuration, the lookahead DFA built for every non-terminal
// that needs one, and the wire-encodable tables derived from both.
type Result struct {
	GrammarConfig *grammar.GrammarConfig
	DFAs          map[string]*lookahead.DFA
	Tables        *wire.Tables
}

// Build runs the full pipeline over PAR source text: parse, canonicalise,
// validate, build lookahead DFAs, assemble wire tables. The returned
// GrammarConfig's K is tightened to the maximum k actually needed across
// every built DFA, per spec.md §4.4 ("k starts at 1 and grows only as far
// as conflicts force it").
func Build(src string) (*Result, error) {
	doc, err := par.Parse(src)
	if err != nil {
		return nil, err
	}
	return build(doc)
}

// BuildMarkdown is Build for a literate PAR document: source text is
// extracted from ```parol fenced code blocks before parsing.
func BuildMarkdown(mdText []byte) (*Result, error) {
	doc, err := par.ParseMarkdown(mdText)
	if err != nil {
		return nil, err
	}
	return build(doc)
}

func build(doc *par.Document) (*Result, error) {
	gc, err := doc.ToGrammarConfig()
	if err != nil {
		return nil, err
	}

	if err := analysis.Validate(gc.CFG, gc.Flavor); err != nil {
		return nil, err
	}

	cache := analysis.NewCache(gc.CFG, lookahead.MaxK)
	dfas, err := lookahead.BuildAll(gc.CFG, cache, lookahead.MaxK, gc.Flavor)
	if err != nil {
		return nil, err
	}

	gc.K = maxK(dfas)

	tables, err := wire.Build(gc, dfas)
	if err != nil {
		return nil, err
	}

	return &Result{GrammarConfig: gc, DFAs: dfas, Tables: tables}, nil
}

func maxK(dfas map[string]*lookahead.DFA) int {
	k := 1
	for _, d := range dfas {
		if d.K > k {
			k = d.K
		}
	}
	return k
}
