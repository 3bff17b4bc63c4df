// Package debug formats indented plain text reports used for troubleshooting
// prepared documents.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

const indent = "  "

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

func (tw *TreeWriter) pad(depth int) {
	for range depth {
		tw.w.WriteString(indent)
	}
}

func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.pad(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Field writes quoted value under label, empty values are omitted.
func (tw *TreeWriter) Field(depth int, label, value string) {
	if value == "" {
		return
	}
	tw.pad(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(strconv.Quote(value))
	tw.w.WriteByte('\n')
}

// List writes label with number of values followed by values one per line.
func (tw *TreeWriter) List(depth int, label string, values []string) {
	if len(values) == 0 {
		return
	}
	tw.Line(depth, "%s (%d)", label, len(values))
	for _, v := range values {
		tw.Line(depth+1, "%s", v)
	}
}

// Block writes multi-line text, every line indented one level deeper than
// label. Trailing empty lines are dropped.
func (tw *TreeWriter) Block(depth int, label, text string) {
	tw.Line(depth, "%s:", label)
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}
	for line := range strings.SplitSeq(text, "\n") {
		if line == "" {
			tw.w.WriteByte('\n')
			continue
		}
		tw.pad(depth + 1)
		tw.w.WriteString(line)
		tw.w.WriteByte('\n')
	}
}
