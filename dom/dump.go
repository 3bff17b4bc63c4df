package dom

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xlab/treeprint"
)

const dumpTextLimit = 40

// Dump returns printable representation of the tree.
func Dump(root *Element) string {
	tree := treeprint.NewWithRoot(label(root))
	for _, c := range root.children {
		dumpNode(tree, c)
	}
	return tree.String()
}

func dumpNode(tree treeprint.Tree, e *Element) {
	if len(e.children) == 0 {
		tree.AddNode(label(e))
		return
	}
	branch := tree.AddBranch(label(e))
	for _, c := range e.children {
		dumpNode(branch, c)
	}
}

func label(e *Element) string {
	if e.IsText() {
		text := e.Text
		if utf8.RuneCountInString(text) > dumpTextLimit {
			text = string([]rune(text)[:dumpTextLimit]) + "..."
		}
		return strconv.Quote(text)
	}
	var sb strings.Builder
	sb.WriteString(e.Type)
	if e.ID != "" {
		sb.WriteString("#" + e.ID)
	}
	if e.StyleKey != "" {
		sb.WriteString(" [" + e.StyleKey + "]")
	}
	for _, a := range e.Attrs {
		sb.WriteString(" " + a.Name + "=" + strconv.Quote(a.Value))
	}
	if len(e.Style) > 0 {
		sb.WriteString(" " + e.Style.String())
	}
	return sb.String()
}
