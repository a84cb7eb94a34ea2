package par

import (
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	mkast "github.com/gomarkdown/markdown/ast"
	mkparser "github.com/gomarkdown/markdown/parser"
)

// fenceInfo is the fenced-code-block language tag literate PAR documents
// use, the direct retarget of the teacher's "fishi" tag
// (internal/ictiobus/fishi.go) to this project's own grammar dialect.
const fenceInfo = "parol"

// parolRenderer is a markdown.Renderer that emits nothing but the literal
// contents of ```parol fenced code blocks, concatenated in document order --
// the same walk-the-AST-and-filter-by-Info strategy as the teacher's
// fishiScanner.RenderNode.
type parolRenderer struct{}

func (parolRenderer) RenderNode(w io.Writer, node mkast.Node, entering bool) mkast.WalkStatus {
	if !entering {
		return mkast.GoToNext
	}
	block, ok := node.(*mkast.CodeBlock)
	if !ok || block == nil {
		return mkast.GoToNext
	}
	if strings.EqualFold(strings.TrimSpace(string(block.Info)), fenceInfo) {
		w.Write(block.Literal)
	}
	return mkast.GoToNext
}

func (parolRenderer) RenderHeader(w io.Writer, ast mkast.Node) {}
func (parolRenderer) RenderFooter(w io.Writer, ast mkast.Node) {}

// ExtractFromMarkdown concatenates the contents of every ```parol fenced
// code block in mdText, in document order, discarding everything else --
// the prose, headings, and other fenced languages a literate grammar
// document mixes PAR source with.
func ExtractFromMarkdown(mdText []byte) []byte {
	doc := markdown.Parse(mdText, mkparser.New())
	return markdown.Render(doc, parolRenderer{})
}

// ParseMarkdown extracts PAR source from literate Markdown and parses it,
// the literate-document counterpart to Parse.
func ParseMarkdown(mdText []byte) (*Document, error) {
	return Parse(string(ExtractFromMarkdown(mdText)))
}
