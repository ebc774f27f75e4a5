// Package debug has helpers producing human readable dumps for debug reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter accumulates an indented, line oriented dump of a tree.
type TreeWriter struct {
	sb     strings.Builder
	indent string
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{indent: "  "}
}

func (tw *TreeWriter) String() string {
	return tw.sb.String()
}

// Line writes formatted text at depth.
func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.pad(depth)
	fmt.Fprintf(&tw.sb, format, args...)
	tw.sb.WriteByte('\n')
}

// Node writes kind followed by quoted values at depth. Empty values are
// written as "".
func (tw *TreeWriter) Node(depth int, kind string, values ...string) {
	tw.pad(depth)
	tw.sb.WriteString(kind)
	for _, v := range values {
		tw.sb.WriteByte(' ')
		tw.sb.WriteString(strconv.Quote(v))
	}
	tw.sb.WriteByte('\n')
}

func (tw *TreeWriter) pad(depth int) {
	for range depth {
		tw.sb.WriteString(tw.indent)
	}
}
