package runtime

import (
	"fmt"
	"strings"
)

const (
	treeLevelEmpty      = "        "
	treeLevelOngoing    = "  |     "
	treeLevelPrefix     = "  |%s: "
	treeLevelPrefixLast = `  \%s: `
	treeLevelPad        = 3
)

// ParseTree is the concrete syntax tree the driver builds as it walks the
// stack, grounded on the teacher's types.ParseTree: a Terminal leaf carries
// its source Token, a non-terminal node carries the production index that
// produced its children and the children themselves in left-to-right
// order.
type ParseTree struct {
	Terminal bool
	Symbol   string
	Token    *Token
	Prod     int
	Children []*ParseTree
}

func (pt *ParseTree) String() string {
	return pt.leveledStr("", "")
}

func (pt *ParseTree) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder
	sb.WriteString(firstPrefix)
	if pt.Terminal {
		text := ""
		if pt.Token != nil {
			text = pt.Token.Text
		}
		sb.WriteString(fmt.Sprintf("(TERM %s %q)", pt.Symbol, text))
	} else {
		sb.WriteString(fmt.Sprintf("( %s )", pt.Symbol))
	}

	for i, child := range pt.Children {
		sb.WriteRune('\n')
		var leveledFirst, leveledCont string
		if i+1 < len(pt.Children) {
			leveledFirst = contPrefix + pad(treeLevelPrefix, "")
			leveledCont = contPrefix + treeLevelOngoing
		} else {
			leveledFirst = contPrefix + pad(treeLevelPrefixLast, "")
			leveledCont = contPrefix + treeLevelEmpty
		}
		sb.WriteString(child.leveledStr(leveledFirst, leveledCont))
	}
	return sb.String()
}

func pad(format, msg string) string {
	for len([]rune(msg)) < treeLevelPad {
		msg = "-" + msg
	}
	return fmt.Sprintf(format, msg)
}
