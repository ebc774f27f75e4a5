package css

import (
	"strconv"

	"anyhover/utils/debug"
)

// Dump returns an indented structural view of the tree rooted at n, one
// node per line. Whitespace is not shown.
func Dump(n Node) string {
	tw := debug.NewTreeWriter()
	dumpNode(tw, n, 0)
	return tw.String()
}

func dumpNode(tw *debug.TreeWriter, n Node, depth int) {
	switch n := n.(type) {
	case *Root:
		tw.Node(depth, "root")
	case *Rule:
		tw.Node(depth, "rule", n.Selectors()...)
	case *AtRule:
		tw.Node(depth, "@"+n.Name, n.Params)
	case *Declaration:
		tw.Node(depth, "decl", n.Prop, n.Value)
	case *Comment:
		tw.Node(depth, "comment", n.Text)
	default:
		tw.Line(depth, "unknown %T", n)
	}
	if c, ok := n.(Container); ok {
		for _, ch := range c.Nodes() {
			dumpNode(tw, ch, depth+1)
		}
	}
}

// Summary counts node kinds under c, used for logging.
type Summary struct {
	Rules        int
	AtRules      int
	Declarations int
	Comments     int
	MaxDepth     int
}

// Summarize walks the whole tree under c.
func Summarize(c Container) Summary {
	var s Summary
	summarize(c, 0, &s)
	return s
}

func summarize(c Container, depth int, s *Summary) {
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
	for _, n := range c.Nodes() {
		switch n := n.(type) {
		case *Rule:
			s.Rules++
			summarize(n, depth+1, s)
		case *AtRule:
			s.AtRules++
			summarize(n, depth+1, s)
		case *Declaration:
			s.Declarations++
		case *Comment:
			s.Comments++
		}
	}
}

func (s Summary) String() string {
	return "rules=" + strconv.Itoa(s.Rules) +
		" atrules=" + strconv.Itoa(s.AtRules) +
		" declarations=" + strconv.Itoa(s.Declarations) +
		" comments=" + strconv.Itoa(s.Comments) +
		" depth=" + strconv.Itoa(s.MaxDepth)
}
