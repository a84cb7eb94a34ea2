package par

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/parolgo/parol/grammar"
)

// Print renders gc back to PAR source text, grounded on original_source's
// conversions/par/grammar_to_par.rs render_par_string: header directives in
// the same fixed order, a "%%" separator, then one line per production.
// When addIndexComments is set, each production line is prefixed with its
// production index as a "/* i */" comment, width-padded to the widest
// index, matching render_par_string's add_index_comment behavior.
//
// Print operates on an already-canonicalised GrammarConfig (flat BNF
// productions, no EBNF operators), so the round-trip spec.md §8 describes --
// Print then Parse then canon.CanonicaliseScanners -- reproduces the same
// CFG modulo any renaming of non-terminals the canonicaliser itself
// synthesises, since a canonical grammar has none left to synthesise.
// Use-site RepetitionAnchor and Option attributes and production
// attributes have no PAR syntax and are not written out, so the re-parsed
// grammar carries plain references and no production attributes there.
func Print(gc *grammar.GrammarConfig, addIndexComments bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%%start %s", gc.CFG.StartSymbol)
	if gc.Title != nil {
		fmt.Fprintf(&b, "\n%%title \"%s\"", *gc.Title)
	}
	if gc.Comment != nil {
		fmt.Fprintf(&b, "\n%%comment \"%s\"", *gc.Comment)
	}
	if gc.Flavor == grammar.LALR1 {
		b.WriteString("\n%grammar_type 'lalr(1)'")
	} else {
		b.WriteString("\n%grammar_type 'll(k)'")
	}

	if len(gc.Scanners) > 0 {
		initial := gc.Scanners[0]
		for _, c := range initial.LineComments {
			fmt.Fprintf(&b, "\n%%line_comment \"%s\"", c)
		}
		for _, c := range initial.BlockComments {
			fmt.Fprintf(&b, "\n%%block_comment \"%s\" \"%s\"", c[0], c[1])
		}
		if !initial.AutoNewline {
			b.WriteString("\n%auto_newline_off")
		}
		if !initial.AutoWS {
			b.WriteString("\n%auto_ws_off")
		}
	}

	if len(gc.UserTypeAliases) > 0 {
		b.WriteString("\n")
		for _, alias := range sortedKeys(gc.UserTypeAliases) {
			fmt.Fprintf(&b, "\n%%user_type %s = %s", alias, gc.UserTypeAliases[alias])
		}
	}

	b.WriteString("\n\n")
	if len(gc.Scanners) > 1 {
		for _, sc := range gc.Scanners[1:] {
			b.WriteString(renderScanner(sc))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n%%\n\n")

	names := scannerNames(gc.Scanners)
	width := len(strconv.Itoa(len(gc.CFG.Productions) - 1))
	for i, p := range gc.CFG.Productions {
		line := renderProduction(p, names)
		if addIndexComments {
			line = fmt.Sprintf("/* %*d */ %s", width, i, line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func renderScanner(sc grammar.ScannerConfig) string {
	var directives []string
	for _, c := range sc.LineComments {
		directives = append(directives, fmt.Sprintf("%%line_comment \"%s\"", c))
	}
	for _, c := range sc.BlockComments {
		directives = append(directives, fmt.Sprintf("%%block_comment \"%s\" \"%s\"", c[0], c[1]))
	}
	if !sc.AutoNewline {
		directives = append(directives, "%auto_newline_off")
	}
	if !sc.AutoWS {
		directives = append(directives, "%auto_ws_off")
	}
	return fmt.Sprintf("%%scanner %s { %s }", sc.Name, strings.Join(directives, " "))
}

func renderProduction(p grammar.Production, scannerNames []string) string {
	if len(p.RHS) == 0 {
		return p.LHS + ":;"
	}
	parts := make([]string, len(p.RHS))
	for i, sym := range p.RHS {
		parts[i] = renderSymbol(sym, scannerNames)
	}
	return p.LHS + ": " + strings.Join(parts, " ") + ";"
}

// renderSymbol mirrors grammar.Symbol.String() except wherever that String()
// prints a scanner *index*: ScannerInstruction and a Terminal's <states>
// prefix. Parse's %sc(Name)/%push(Name) and <Name,...> factor syntax both
// expect a declared scanner *name*, not the bare index
// Symbol.String() emits for debugging, so those two cases are re-rendered
// here with the name substituted in.
func renderSymbol(sym grammar.Symbol, scannerNames []string) string {
	nameOf := func(idx int) string {
		if idx >= 0 && idx < len(scannerNames) {
			return scannerNames[idx]
		}
		return "INITIAL"
	}

	switch s := sym.(type) {
	case grammar.ScannerInstruction:
		switch s.Kind {
		case grammar.Push:
			return fmt.Sprintf("%%push(%s)", nameOf(s.Index))
		case grammar.Pop:
			return "%pop()"
		default:
			return fmt.Sprintf("%%sc(%s)", nameOf(s.Index))
		}
	case grammar.Terminal:
		if len(s.ScannerStates) == 0 || (len(s.ScannerStates) == 1 && s.ScannerStates[0] == 0) {
			return s.String()
		}
		names := make([]string, len(s.ScannerStates))
		for i, idx := range s.ScannerStates {
			names[i] = nameOf(idx)
		}
		s.ScannerStates = nil
		return fmt.Sprintf("<%s>%s", strings.Join(names, ", "), s.String())
	default:
		return sym.String()
	}
}

func scannerNames(scanners []grammar.ScannerConfig) []string {
	out := make([]string, len(scanners))
	for i, sc := range scanners {
		out[i] = sc.Name
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
