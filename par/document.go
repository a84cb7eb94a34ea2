package par

import (
	"github.com/parolgo/parol/canon"
	"github.com/parolgo/parol/ebnf"
	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/icterr"
	"github.com/parolgo/parol/util"
)

// ScannerDecl is one %scanner block (or the implicit INITIAL scanner built
// from top-level %line_comment/%block_comment/%auto_*_off directives),
// carrying scanner and terminal names rather than the resolved indices
// grammar.ScannerConfig uses -- index assignment happens once the whole
// document is known, in ToScannerConfigs.
type ScannerDecl struct {
	Name          string
	LineComments  []string
	BlockComments [][2]string
	AutoNewline   bool
	AutoWS        bool

	// transitions holds %on terminal-name,... %enter scanner-name pairs,
	// keyed by terminal name with the target scanner's name as the value;
	// ToScannerConfigs resolves the value to an index.
	transitions map[string]string
}

// Document is everything a PAR source file declares, in the shape the
// parser naturally produces: scanner and %user_type names unresolved,
// exactly as original_source's parol_grammar.rs's ParolGrammar keeps them
// before to_grammar_config.rs's resolution pass runs.
type Document struct {
	Start       string
	Title       *string
	Comment     *string
	LALR1       bool
	UserTypes   map[string]string
	Scanners    []ScannerDecl
	Productions []ebnf.Production
}

// ScannerIndex returns a resolver suitable for canon.CanonicaliseScanners,
// closed over this document's %scanner declaration order (scanner 0 is
// always the implicit INITIAL scanner, declared %scanner blocks follow in
// source order).
func (d *Document) ScannerIndex() func(name string) (int, error) {
	byName := make(map[string]int, len(d.Scanners))
	for i, sc := range d.Scanners {
		byName[sc.Name] = i
	}
	return func(name string) (int, error) {
		if idx, ok := byName[name]; ok {
			return idx, nil
		}
		return 0, unknownScannerError(name)
	}
}

// ToScannerConfigs renders this document's scanner declarations as
// grammar.ScannerConfig values, resolving every %on/%enter transition's
// target scanner name to its index.
func (d *Document) ToScannerConfigs() ([]grammar.ScannerConfig, error) {
	resolve := d.ScannerIndex()
	out := make([]grammar.ScannerConfig, len(d.Scanners))
	for i, sc := range d.Scanners {
		cfg := grammar.ScannerConfig{
			Name:          sc.Name,
			LineComments:  sc.LineComments,
			BlockComments: sc.BlockComments,
			AutoNewline:   sc.AutoNewline,
			AutoWS:        sc.AutoWS,
			Transitions:   map[string]int{},
		}
		for term, target := range sc.transitions {
			idx, err := resolve(target)
			if err != nil {
				return nil, err
			}
			cfg.Transitions[term] = idx
		}
		out[i] = cfg
	}
	return out, nil
}

// checkScannerUsage raises icterr.CodeEmptyScannerStates if d declares a
// %scanner block (other than the implicit INITIAL at index 0) that no
// production ever puts into effect -- not as a stated terminal's scanner
// prefix, not via an inline %sc/%push factor, and not as a %on/%enter
// transition's target. Per spec.md §6 Concrete Scenario 5, this is a
// semantic grammar error, caught during EBNF-AST construction rather than
// left for canonicalisation or analysis to notice.
func (d *Document) checkScannerUsage() error {
	if len(d.Scanners) <= 1 {
		return nil
	}

	used := util.NewKeySet[string]()
	used.Add(d.Scanners[0].Name)
	for _, sc := range d.Scanners {
		for _, target := range sc.transitions {
			used.Add(target)
		}
	}
	for _, p := range d.Productions {
		collectScannerRefs(p.RHS, used)
	}

	var unused []string
	for _, sc := range d.Scanners[1:] {
		if !used.Has(sc.Name) {
			unused = append(unused, sc.Name)
		}
	}
	if len(unused) > 0 {
		return icterr.NewGrammarError(icterr.CodeEmptyScannerStates,
			"grammar declares scanners that no production ever enters", "never reached by a stated terminal, %sc/%push factor, or %on/%enter transition", unused...)
	}
	return nil
}

func collectScannerRefs(alts ebnf.Alternations, used util.KeySet[string]) {
	for _, alt := range alts.Alternatives {
		for _, f := range alt.Factors {
			switch v := f.(type) {
			case ebnf.TerminalFactor:
				for _, ref := range v.ScannerStateRefs {
					used.Add(ref)
				}
			case ebnf.ScannerSwitchFactor:
				if v.Kind != ebnf.Pop {
					used.Add(v.ScannerRef)
				}
			case ebnf.Group:
				collectScannerRefs(v.Alts, used)
			case ebnf.Optional:
				collectScannerRefs(v.Alts, used)
			case ebnf.Repetition:
				collectScannerRefs(v.Alts, used)
			}
		}
	}
}

// ToGrammarConfig canonicalises the document's productions and bundles the
// result into a grammar.GrammarConfig carrying this document's title,
// comment, flavour, user-type aliases, and resolved scanner configs -- the
// single entry point the top-level pipeline facade calls after Parse.
func (d *Document) ToGrammarConfig() (*grammar.GrammarConfig, error) {
	if err := d.checkScannerUsage(); err != nil {
		return nil, err
	}
	cfg, err := canon.CanonicaliseScanners(d.Start, d.Productions, d.ScannerIndex())
	if err != nil {
		return nil, err
	}
	scanners, err := d.ToScannerConfigs()
	if err != nil {
		return nil, err
	}
	gc := grammar.NewGrammarConfig(cfg)
	gc.Scanners = scanners
	gc.Title = d.Title
	gc.Comment = d.Comment
	gc.UserTypeAliases = d.UserTypes
	if d.LALR1 {
		gc.Flavor = grammar.LALR1
	}
	return gc, nil
}
