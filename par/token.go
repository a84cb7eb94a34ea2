// Package par reads and writes the PAR grammar dialect: the lexer and
// recursive-descent parser in this file and lexer.go/parser.go turn PAR
// source text into the ebnf.Production list canon.Canonicalise consumes,
// markdown.go extracts PAR source embedded in literate Markdown (the
// teacher's GetFishiFromMarkdown retargeted from fenced ```fishi blocks to
// ```parol), and print.go renders a canonicalised grammar.GrammarConfig
// back to PAR text, the direction original_source's grammar_to_par.rs
// implements.
//
// This is the one corner of the repo that cannot consume the pipeline it
// builds: something has to read the very first PAR file before a CFG
// exists to drive a table-driven parser with, so -- like the teacher's own
// CreateBootstrapLexer/CreateBootstrapGrammarFromLexerStream in
// internal/ictiobus/fishi.go -- this package's lexer and parser are
// hand-written instead of generated.
package par

import "github.com/parolgo/parol/icterr"

// TokenKind enumerates every lexeme the PAR dialect's bootstrap lexer
// recognizes, grounded on the token table in original_source's
// parser/parol_parser.rs (PercentStart, PercentTitle, ..., Identifier).
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokPercentStart
	TokPercentTitle
	TokPercentComment
	TokPercentUserType
	TokPercentGrammarType
	TokPercentLineComment
	TokPercentBlockComment
	TokPercentAutoNewlineOff
	TokPercentAutoWsOff
	TokPercentOn
	TokPercentEnter
	TokPercentScanner
	TokPercentSc
	TokPercentPush
	TokPercentPop
	TokPercentPercent // %%
	TokEq
	TokColon
	TokSemicolon
	TokOr
	TokLParen
	TokRParen
	TokLBracket
	TokRBracket
	TokLBrace
	TokRBrace
	TokLAngle
	TokRAngle
	TokComma
	TokCaret
	TokAt
	TokLookaheadPos // ?=
	TokLookaheadNeg // ?!
	TokLegacyString // "..."
	TokRawString    // '...'
	TokRegexString  // /.../
	TokIdentifier
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "end of input"
	case TokPercentStart:
		return "%start"
	case TokPercentTitle:
		return "%title"
	case TokPercentComment:
		return "%comment"
	case TokPercentUserType:
		return "%user_type"
	case TokPercentGrammarType:
		return "%grammar_type"
	case TokPercentLineComment:
		return "%line_comment"
	case TokPercentBlockComment:
		return "%block_comment"
	case TokPercentAutoNewlineOff:
		return "%auto_newline_off"
	case TokPercentAutoWsOff:
		return "%auto_ws_off"
	case TokPercentOn:
		return "%on"
	case TokPercentEnter:
		return "%enter"
	case TokPercentScanner:
		return "%scanner"
	case TokPercentSc:
		return "%sc"
	case TokPercentPush:
		return "%push"
	case TokPercentPop:
		return "%pop"
	case TokPercentPercent:
		return "%%"
	case TokEq:
		return "'='"
	case TokColon:
		return "':'"
	case TokSemicolon:
		return "';'"
	case TokOr:
		return "'|'"
	case TokLParen:
		return "'('"
	case TokRParen:
		return "')'"
	case TokLBracket:
		return "'['"
	case TokRBracket:
		return "']'"
	case TokLBrace:
		return "'{'"
	case TokRBrace:
		return "'}'"
	case TokLAngle:
		return "'<'"
	case TokRAngle:
		return "'>'"
	case TokComma:
		return "','"
	case TokCaret:
		return "'^'"
	case TokAt:
		return "'@'"
	case TokLookaheadPos:
		return "'?='"
	case TokLookaheadNeg:
		return "'?!'"
	case TokLegacyString:
		return "legacy terminal"
	case TokRawString:
		return "raw terminal"
	case TokRegexString:
		return "regex terminal"
	case TokIdentifier:
		return "identifier"
	default:
		return "TokenKind(?)"
	}
}

// Token is one lexed unit of PAR source. Text is the content of a string
// token (delimiters stripped, escape sequences kept as written) or the raw
// lexeme otherwise.
type Token struct {
	Kind TokenKind
	Text string
	Pos  icterr.Position
}
