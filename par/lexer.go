package par

import (
	"strings"
	"unicode/utf8"

	"github.com/parolgo/parol/icterr"
)

var directiveWords = map[string]TokenKind{
	"start":            TokPercentStart,
	"title":            TokPercentTitle,
	"comment":          TokPercentComment,
	"user_type":        TokPercentUserType,
	"grammar_type":     TokPercentGrammarType,
	"line_comment":     TokPercentLineComment,
	"block_comment":    TokPercentBlockComment,
	"auto_newline_off": TokPercentAutoNewlineOff,
	"auto_ws_off":      TokPercentAutoWsOff,
	"on":               TokPercentOn,
	"enter":            TokPercentEnter,
	"scanner":          TokPercentScanner,
	"sc":               TokPercentSc,
	"push":             TokPercentPush,
	"pop":              TokPercentPop,
}

// lexer turns PAR source text into a flat token slice, tokenizing the whole
// input up front -- the parser below only ever needs one token of
// lookahead, so there is no benefit to the lex package's lazy, buffered
// model here.
type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func tokenize(src string) ([]Token, error) {
	lx := &lexer{src: src, line: 1, col: 1}
	var toks []Token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokEOF {
			return toks, nil
		}
	}
}

func (lx *lexer) here() icterr.Position {
	return icterr.Position{Line: lx.line, Column: lx.col}
}

func (lx *lexer) advance(n int) {
	for _, r := range lx.src[lx.pos : lx.pos+n] {
		if r == '\n' {
			lx.line++
			lx.col = 1
		} else {
			lx.col++
		}
	}
	lx.pos += n
}

func (lx *lexer) skipTrivia() {
	for lx.pos < len(lx.src) {
		rest := lx.src[lx.pos:]
		if r, n := utf8.DecodeRuneInString(rest); n > 0 && isSpace(r) {
			lx.advance(n)
			continue
		}
		if strings.HasPrefix(rest, "//") {
			if end := strings.IndexByte(rest, '\n'); end >= 0 {
				lx.advance(end)
			} else {
				lx.advance(len(rest))
			}
			continue
		}
		if strings.HasPrefix(rest, "/*") {
			if end := strings.Index(rest[2:], "*/"); end >= 0 {
				lx.advance(2 + end + 2)
			} else {
				lx.advance(len(rest))
			}
			continue
		}
		break
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func isIdentStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || ('0' <= r && r <= '9')
}

func (lx *lexer) next() (Token, error) {
	lx.skipTrivia()
	pos := lx.here()
	if lx.pos >= len(lx.src) {
		return Token{Kind: TokEOF, Pos: pos}, nil
	}

	rest := lx.src[lx.pos:]
	c := rest[0]

	switch c {
	case '%':
		if strings.HasPrefix(rest, "%%") {
			lx.advance(2)
			return Token{Kind: TokPercentPercent, Text: "%%", Pos: pos}, nil
		}
		return lx.lexDirective(pos)
	case '=':
		lx.advance(1)
		return Token{Kind: TokEq, Text: "=", Pos: pos}, nil
	case ':':
		lx.advance(1)
		return Token{Kind: TokColon, Text: ":", Pos: pos}, nil
	case ';':
		lx.advance(1)
		return Token{Kind: TokSemicolon, Text: ";", Pos: pos}, nil
	case '|':
		lx.advance(1)
		return Token{Kind: TokOr, Text: "|", Pos: pos}, nil
	case '(':
		lx.advance(1)
		return Token{Kind: TokLParen, Text: "(", Pos: pos}, nil
	case ')':
		lx.advance(1)
		return Token{Kind: TokRParen, Text: ")", Pos: pos}, nil
	case '[':
		lx.advance(1)
		return Token{Kind: TokLBracket, Text: "[", Pos: pos}, nil
	case ']':
		lx.advance(1)
		return Token{Kind: TokRBracket, Text: "]", Pos: pos}, nil
	case '{':
		lx.advance(1)
		return Token{Kind: TokLBrace, Text: "{", Pos: pos}, nil
	case '}':
		lx.advance(1)
		return Token{Kind: TokRBrace, Text: "}", Pos: pos}, nil
	case '<':
		lx.advance(1)
		return Token{Kind: TokLAngle, Text: "<", Pos: pos}, nil
	case '>':
		lx.advance(1)
		return Token{Kind: TokRAngle, Text: ">", Pos: pos}, nil
	case ',':
		lx.advance(1)
		return Token{Kind: TokComma, Text: ",", Pos: pos}, nil
	case '^':
		lx.advance(1)
		return Token{Kind: TokCaret, Text: "^", Pos: pos}, nil
	case '@':
		lx.advance(1)
		return Token{Kind: TokAt, Text: "@", Pos: pos}, nil
	case '?':
		if strings.HasPrefix(rest, "?=") {
			lx.advance(2)
			return Token{Kind: TokLookaheadPos, Text: "?=", Pos: pos}, nil
		}
		if strings.HasPrefix(rest, "?!") {
			lx.advance(2)
			return Token{Kind: TokLookaheadNeg, Text: "?!", Pos: pos}, nil
		}
		return Token{}, icterr.At(icterr.CodeSyntaxError, &pos, "expected '?=' or '?!', found %q", preview(rest))
	case '"':
		return lx.lexQuoted(pos, '"', TokLegacyString)
	case '\'':
		return lx.lexQuoted(pos, '\'', TokRawString)
	case '/':
		return lx.lexQuoted(pos, '/', TokRegexString)
	}

	r, _ := utf8.DecodeRuneInString(rest)
	if isIdentStart(r) {
		return lx.lexIdentifier(pos)
	}

	return Token{}, icterr.At(icterr.CodeSyntaxError, &pos, "unexpected character %q", preview(rest))
}

func (lx *lexer) lexDirective(pos icterr.Position) (Token, error) {
	lx.advance(1) // consume '%'
	start := lx.pos
	for lx.pos < len(lx.src) {
		r, n := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !isIdentCont(r) {
			break
		}
		lx.advance(n)
	}
	word := strings.ToLower(lx.src[start:lx.pos])
	kind, ok := directiveWords[word]
	if !ok {
		return Token{}, icterr.At(icterr.CodeSyntaxError, &pos, "unknown directive %q", "%"+word)
	}
	return Token{Kind: kind, Text: "%" + word, Pos: pos}, nil
}

func (lx *lexer) lexIdentifier(pos icterr.Position) (Token, error) {
	start := lx.pos
	for lx.pos < len(lx.src) {
		r, n := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !isIdentCont(r) {
			break
		}
		lx.advance(n)
	}
	return Token{Kind: TokIdentifier, Text: lx.src[start:lx.pos], Pos: pos}, nil
}

// lexQuoted scans a delim-delimited literal with backslash escapes (\\. or
// [^delim])*, matching original_source's terminal-string token patterns
// (`"(\\.|[^"])*"`, `'(\\.|[^'])*'`, `/(\\.|[^\/])*/`). The decoded text
// keeps escape sequences intact; they are interpreted downstream by the
// target scanner regex, not here.
func (lx *lexer) lexQuoted(pos icterr.Position, delim byte, kind TokenKind) (Token, error) {
	lx.advance(1) // opening delim
	start := lx.pos
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == '\\' && lx.pos+1 < len(lx.src) {
			lx.advance(2)
			continue
		}
		if c == delim {
			text := lx.src[start:lx.pos]
			lx.advance(1)
			return Token{Kind: kind, Text: text, Pos: pos}, nil
		}
		lx.advance(1)
	}
	return Token{}, icterr.At(icterr.CodeSyntaxError, &pos, "unterminated literal starting with %q", string(delim))
}

func preview(s string) string {
	const max = 20
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
