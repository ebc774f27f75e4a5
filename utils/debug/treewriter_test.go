package debug

import "testing"

func TestTreeWriter_Empty(t *testing.T) {
	tw := NewTreeWriter()
	if tw.String() != "" {
		t.Errorf("String() = %q, want empty", tw.String())
	}
}

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{name: "no depth", depth: 0, format: "root", want: "root\n"},
		{name: "depth 1", depth: 1, format: "rule", want: "  rule\n"},
		{name: "depth 3", depth: 3, format: "decl", want: "      decl\n"},
		{name: "with formatting", depth: 1, format: "nodes: %d", args: []any{42}, want: "  nodes: 42\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Node(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		kind   string
		values []string
		want   string
	}{
		{name: "kind only", depth: 0, kind: "root", want: "root\n"},
		{name: "single value", depth: 1, kind: "rule", values: []string{"a:hover"}, want: "  rule \"a:hover\"\n"},
		{name: "empty value", depth: 0, kind: "atrule", values: []string{"font-face", ""}, want: "atrule \"font-face\" \"\"\n"},
		{name: "escaped", depth: 2, kind: "decl", values: []string{"content", `"→"`}, want: "    decl \"content\" \"\\\"→\\\"\"\n"},
		{name: "newline", depth: 0, kind: "comment", values: []string{"/* a\nb */"}, want: "comment \"/* a\\nb */\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Node(tt.depth, tt.kind, tt.values...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Node() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Sequence(t *testing.T) {
	tw := NewTreeWriter()
	tw.Node(0, "root")
	tw.Node(1, "rule", "a")
	tw.Line(2, "decl %s", "color")
	want := "root\n  rule \"a\"\n    decl color\n"
	if got := tw.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
