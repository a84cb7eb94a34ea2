package par_test

import (
	"testing"

	"github.com/parolgo/parol/par"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ExtractFromMarkdown_ConcatenatesParolFences(t *testing.T) {
	md := []byte(`# Title

Some prose introducing the grammar.

` + "```parol" + `
%start S
` + "```" + `

More prose in between fences.

` + "```parol" + `
%%
S: "a";
` + "```" + `

` + "```go" + `
// not PAR source, should be ignored
func main() {}
` + "```" + `
`)

	got := string(par.ExtractFromMarkdown(md))
	assert.Contains(t, got, "%start S")
	assert.Contains(t, got, `S: "a";`)
	assert.NotContains(t, got, "func main")
}

func Test_ParseMarkdown_ParsesExtractedSource(t *testing.T) {
	md := []byte("Intro text.\n\n```parol\n%start S\n%%\nS: \"a\";\n```\n")

	doc, err := par.ParseMarkdown(md)
	require.NoError(t, err)
	assert.Equal(t, "S", doc.Start)
	require.Len(t, doc.Productions, 1)
}
