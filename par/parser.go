package par

import (
	"fmt"
	"strings"

	"github.com/parolgo/parol/ebnf"
	"github.com/parolgo/parol/grammar"
	"github.com/parolgo/parol/icterr"
)

// Parse reads a complete PAR source file -- header directives, %%, then the
// production list -- into a Document. The EBNF tree in Document.Productions
// still needs canon.CanonicaliseScanners (with Document.ScannerIndex) to
// become a grammar.CFG.
func Parse(src string) (*Document, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.parseDocument()
}

type parser struct {
	toks []Token
	pos  int
}

func (p *parser) peek() Token  { return p.toks[p.pos] }
func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	t := p.peek()
	if t.Kind != kind {
		return Token{}, unexpectedToken(t, kind.String())
	}
	return p.advance(), nil
}

func unexpectedToken(t Token, expected ...string) error {
	return &icterr.SyntaxError{
		Pos:      &t.Pos,
		Message:  "unexpected token",
		Offender: tokenText(t),
		Expected: expected,
	}
}

func unknownScannerError(name string) error {
	return icterr.New(icterr.CodeUnknownScanner, "no %%scanner named %q", name)
}

func tokenText(t Token) string {
	if t.Kind == TokEOF {
		return "<eof>"
	}
	if t.Text != "" {
		return t.Text
	}
	return t.Kind.String()
}

func (p *parser) parseDocument() (*Document, error) {
	doc := &Document{
		UserTypes: map[string]string{},
		Scanners:  []ScannerDecl{{Name: "INITIAL", AutoNewline: true, AutoWS: true}},
	}

	if err := p.parseHeader(doc); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokPercentPercent); err != nil {
		return nil, err
	}
	prods, err := p.parseProductions()
	if err != nil {
		return nil, err
	}
	doc.Productions = prods
	return doc, nil
}

// parseHeader consumes every directive before %%. Order among directives is
// not significant (mirrors the real grammar's Declaration*), except that
// %start must appear at least once and %scanner blocks accumulate scanners
// 1, 2, ... in the order written.
func (p *parser) parseHeader(doc *Document) error {
	sawStart := false
	for {
		switch p.peek().Kind {
		case TokPercentStart:
			p.advance()
			name, err := p.expect(TokIdentifier)
			if err != nil {
				return err
			}
			doc.Start = name.Text
			sawStart = true
		case TokPercentTitle:
			p.advance()
			s, err := p.expectString()
			if err != nil {
				return err
			}
			doc.Title = &s
		case TokPercentComment:
			p.advance()
			s, err := p.expectString()
			if err != nil {
				return err
			}
			doc.Comment = &s
		case TokPercentGrammarType:
			p.advance()
			s, err := p.expectString()
			if err != nil {
				return err
			}
			doc.LALR1 = strings.EqualFold(strings.TrimSpace(s), "lalr(1)")
		case TokPercentUserType:
			p.advance()
			alias, err := p.expect(TokIdentifier)
			if err != nil {
				return err
			}
			if _, err := p.expect(TokEq); err != nil {
				return err
			}
			target, err := p.expect(TokIdentifier)
			if err != nil {
				return err
			}
			doc.UserTypes[alias.Text] = target.Text
		case TokPercentLineComment:
			p.advance()
			s, err := p.expectString()
			if err != nil {
				return err
			}
			doc.Scanners[0].LineComments = append(doc.Scanners[0].LineComments, s)
		case TokPercentBlockComment:
			p.advance()
			open, err := p.expectString()
			if err != nil {
				return err
			}
			close_, err := p.expectString()
			if err != nil {
				return err
			}
			doc.Scanners[0].BlockComments = append(doc.Scanners[0].BlockComments, [2]string{open, close_})
		case TokPercentAutoNewlineOff:
			p.advance()
			doc.Scanners[0].AutoNewline = false
		case TokPercentAutoWsOff:
			p.advance()
			doc.Scanners[0].AutoWS = false
		case TokPercentScanner:
			if err := p.parseScannerBlock(doc); err != nil {
				return err
			}
		case TokPercentOn:
			if err := p.parseOnEnter(doc); err != nil {
				return err
			}
		default:
			if !sawStart {
				return unexpectedToken(p.peek(), "%start")
			}
			return nil
		}
	}
}

func (p *parser) expectString() (string, error) {
	t := p.peek()
	if t.Kind != TokLegacyString && t.Kind != TokRawString {
		return "", unexpectedToken(t, "quoted string")
	}
	p.advance()
	return unescapeQuoted(t.Text), nil
}

func (p *parser) parseScannerBlock(doc *Document) error {
	p.advance() // %scanner
	name, err := p.expect(TokIdentifier)
	if err != nil {
		return err
	}
	if _, err := p.expect(TokLBrace); err != nil {
		return err
	}
	sc := ScannerDecl{Name: name.Text, AutoNewline: true, AutoWS: true}
	for p.peek().Kind != TokRBrace {
		switch p.peek().Kind {
		case TokPercentLineComment:
			p.advance()
			s, err := p.expectString()
			if err != nil {
				return err
			}
			sc.LineComments = append(sc.LineComments, s)
		case TokPercentBlockComment:
			p.advance()
			open, err := p.expectString()
			if err != nil {
				return err
			}
			close_, err := p.expectString()
			if err != nil {
				return err
			}
			sc.BlockComments = append(sc.BlockComments, [2]string{open, close_})
		case TokPercentAutoNewlineOff:
			p.advance()
			sc.AutoNewline = false
		case TokPercentAutoWsOff:
			p.advance()
			sc.AutoWS = false
		default:
			return unexpectedToken(p.peek(), "scanner directive", "'}'")
		}
	}
	p.advance() // }
	doc.Scanners = append(doc.Scanners, sc)
	return nil
}

// parseOnEnter consumes "%on Id, Id, ... %enter State" -- a scanner-driven
// transition set, recorded as Transitions on the most recently declared
// scanner (scanner 0 if no %scanner block precedes it). %on is only
// accepted among the header directives, not inside a %scanner block.
func (p *parser) parseOnEnter(doc *Document) error {
	p.advance() // %on
	var names []string
	for {
		id, err := p.expect(TokIdentifier)
		if err != nil {
			return err
		}
		names = append(names, id.Text)
		if p.peek().Kind != TokComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(TokPercentEnter); err != nil {
		return err
	}
	target, err := p.expect(TokIdentifier)
	if err != nil {
		return err
	}
	sc := &doc.Scanners[len(doc.Scanners)-1]
	if sc.transitions == nil {
		sc.transitions = map[string]string{}
	}
	for _, n := range names {
		sc.transitions[n] = target.Text
	}
	return nil
}

func (p *parser) parseProductions() ([]ebnf.Production, error) {
	var prods []ebnf.Production
	aliases := map[string]string{}
	for p.peek().Kind == TokIdentifier {
		prod, err := p.parseProduction()
		if err != nil {
			return nil, err
		}
		if err := checkTokenAlias(prod, aliases); err != nil {
			return nil, err
		}
		prods = append(prods, prod)
	}
	if p.peek().Kind != TokEOF {
		return nil, unexpectedToken(p.peek(), "non-terminal", "<eof>")
	}
	return prods, nil
}

// checkTokenAlias treats a production whose entire rhs is a single
// terminal ("Plus: "+";") as naming that terminal expression, the same
// convention original_source's handle_token_alias applies while walking
// productions one at a time. aliases maps each expanded token expression
// already seen to the first lhs name that named it; a second, differently
// named production expanding to the same expression is a
// parol::parser::conflicting_token_aliases error, since a driver built from
// the grammar could never tell the two aliases apart.
func checkTokenAlias(prod ebnf.Production, aliases map[string]string) error {
	if len(prod.RHS.Alternatives) != 1 || len(prod.RHS.Alternatives[0].Factors) != 1 {
		return nil
	}
	term, ok := prod.RHS.Alternatives[0].Factors[0].(ebnf.TerminalFactor)
	if !ok {
		return nil
	}

	key := expandedTokenKey(term)
	first, seen := aliases[key]
	if !seen {
		aliases[key] = prod.LHS
		return nil
	}
	if first == prod.LHS {
		return nil
	}
	return icterr.NewGrammarError(icterr.CodeConflictingTokenAlias,
		fmt.Sprintf("token aliases %q and %q both expand to %s", first, prod.LHS, key),
		"alias for the same token expression", first, prod.LHS)
}

// expandedTokenKey renders the parts of a terminal factor original_source's
// expanded_token_expression uses to compare aliases: kind, literal text,
// and lookahead predicate. A stated terminal's scanner-state prefix is
// deliberately excluded, matching expanded_token_literal/
// expanded_token_expression, which only ever look at token_literal and the
// trailing lookahead -- the states on a TokenWithStates are not part of
// its expansion.
func expandedTokenKey(t ebnf.TerminalFactor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:%s", t.Kind, t.Text)
	if t.Lookahead != nil {
		fmt.Fprintf(&b, "?%v:%s", t.Lookahead.Negative, t.Lookahead.Pattern)
	}
	return b.String()
}

func (p *parser) parseProduction() (ebnf.Production, error) {
	lhs := p.advance()
	pos := lhs.Pos
	if _, err := p.expect(TokColon); err != nil {
		return ebnf.Production{}, err
	}
	alts, err := p.parseAlternations(TokSemicolon)
	if err != nil {
		return ebnf.Production{}, err
	}
	if _, err := p.expect(TokSemicolon); err != nil {
		return ebnf.Production{}, err
	}
	return ebnf.Production{LHS: lhs.Text, RHS: alts, Pos: &pos}, nil
}

// parseAlternations reads a '|'-separated alternative list, stopping at any
// of the given terminator token kinds (without consuming the terminator).
func (p *parser) parseAlternations(terminators ...TokenKind) (ebnf.Alternations, error) {
	var alts ebnf.Alternations
	for {
		alt, err := p.parseAlternation(terminators...)
		if err != nil {
			return ebnf.Alternations{}, err
		}
		alts.Alternatives = append(alts.Alternatives, alt)
		if p.peek().Kind != TokOr {
			break
		}
		p.advance()
	}
	return alts, nil
}

func (p *parser) parseAlternation(terminators ...TokenKind) (ebnf.Alternation, error) {
	var alt ebnf.Alternation
	for !p.atAny(terminators) && p.peek().Kind != TokOr {
		f, err := p.parseFactor()
		if err != nil {
			return ebnf.Alternation{}, err
		}
		alt.Factors = append(alt.Factors, f)
	}
	return alt, nil
}

func (p *parser) atAny(kinds []TokenKind) bool {
	for _, k := range kinds {
		if p.peek().Kind == k {
			return true
		}
	}
	return false
}

func (p *parser) parseFactor() (ebnf.Factor, error) {
	t := p.peek()
	switch t.Kind {
	case TokLAngle:
		return p.parseStatedTerminal()
	case TokLegacyString, TokRawString, TokRegexString:
		return p.parseTerminal(nil)
	case TokCaret, TokIdentifier:
		return p.parseNonTerminal()
	case TokLParen:
		p.advance()
		alts, err := p.parseAlternations(TokRParen)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return ebnf.Group{Alts: alts, Pos: &t.Pos}, nil
	case TokLBracket:
		p.advance()
		alts, err := p.parseAlternations(TokRBracket)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRBracket); err != nil {
			return nil, err
		}
		return ebnf.Optional{Alts: alts, Pos: &t.Pos}, nil
	case TokLBrace:
		p.advance()
		alts, err := p.parseAlternations(TokRBrace)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRBrace); err != nil {
			return nil, err
		}
		return ebnf.Repetition{Alts: alts, Pos: &t.Pos}, nil
	case TokPercentSc:
		p.advance()
		if _, err := p.expect(TokLParen); err != nil {
			return nil, err
		}
		name, err := p.expect(TokIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return ebnf.ScannerSwitchFactor{Kind: ebnf.Switch, ScannerRef: name.Text, Pos: &t.Pos}, nil
	case TokPercentPush:
		p.advance()
		if _, err := p.expect(TokLParen); err != nil {
			return nil, err
		}
		name, err := p.expect(TokIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return ebnf.ScannerSwitchFactor{Kind: ebnf.Push, ScannerRef: name.Text, Pos: &t.Pos}, nil
	case TokPercentPop:
		p.advance()
		if _, err := p.expect(TokLParen); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return ebnf.ScannerSwitchFactor{Kind: ebnf.Pop, Pos: &t.Pos}, nil
	default:
		return nil, unexpectedToken(t, "terminal", "non-terminal", "'('", "'['", "'{'", "%sc", "%push", "%pop")
	}
}

// parseStatedTerminal reads a leading <Name, Name,...> scanner-state
// restriction ahead of a terminal literal.
func (p *parser) parseStatedTerminal() (ebnf.Factor, error) {
	p.advance() // <
	var refs []string
	for {
		id, err := p.expect(TokIdentifier)
		if err != nil {
			return nil, err
		}
		refs = append(refs, id.Text)
		if p.peek().Kind != TokComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(TokRAngle); err != nil {
		return nil, err
	}
	return p.parseTerminal(refs)
}

func (p *parser) parseTerminal(stateRefs []string) (ebnf.Factor, error) {
	t := p.advance()
	var kind int
	switch t.Kind {
	case TokLegacyString:
		kind = int(grammar.Legacy)
	case TokRawString:
		kind = int(grammar.Raw)
	case TokRegexString:
		kind = int(grammar.Regex)
	default:
		return nil, unexpectedToken(t, "terminal")
	}
	tf := ebnf.TerminalFactor{Text: unescapeQuoted(t.Text), Kind: kind, ScannerStateRefs: stateRefs, Pos: &t.Pos}
	if p.peek().Kind == TokLookaheadPos || p.peek().Kind == TokLookaheadNeg {
		la := p.advance()
		pattern, err := p.parseTerminalLiteralText()
		if err != nil {
			return nil, err
		}
		tf.Lookahead = &ebnf.LookaheadFactor{Negative: la.Kind == TokLookaheadNeg, Pattern: pattern}
	}
	return tf, nil
}

func (p *parser) parseTerminalLiteralText() (string, error) {
	t := p.peek()
	switch t.Kind {
	case TokLegacyString, TokRawString, TokRegexString:
		p.advance()
		return unescapeQuoted(t.Text), nil
	default:
		return "", unexpectedToken(t, "terminal")
	}
}

// parseNonTerminal reads an optional leading '^' (Clipped attribute), the
// name, then an optional ": UserType" and/or "@ member" suffix, in the
// source order grammar.NonTerminal.String renders them.
func (p *parser) parseNonTerminal() (ebnf.Factor, error) {
	var attr grammar.SymbolAttribute
	pos := p.peek().Pos
	if p.peek().Kind == TokCaret {
		p.advance()
		attr = grammar.Clipped
	}
	name, err := p.expect(TokIdentifier)
	if err != nil {
		return nil, err
	}
	nf := ebnf.NonTerminalFactor{Name: name.Text, Attribute: attr, Pos: &pos}
	if p.peek().Kind == TokColon {
		p.advance()
		ty, err := p.expect(TokIdentifier)
		if err != nil {
			return nil, err
		}
		nf.UserType = &ty.Text
	}
	if p.peek().Kind == TokAt {
		p.advance()
		member, err := p.expect(TokIdentifier)
		if err != nil {
			return nil, err
		}
		nf.MemberName = &member.Text
	}
	return nf, nil
}

// unescapeQuoted resolves the \\. escape pairs a quoted literal's lexeme may
// contain into their literal characters, leaving every other byte alone.
func unescapeQuoted(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			b.WriteByte(s[i+1])
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
