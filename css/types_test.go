package css_test

import (
	"testing"

	"anyhover/css"
)

func TestContainer_InsertBefore(t *testing.T) {
	root := mustParse(t, "a{} b{}")
	b := root.Nodes()[1].(*css.Rule)

	n := css.NewRule("x")
	n.Before = " "
	if !root.InsertBefore(b, n) {
		t.Fatal("InsertBefore() = false")
	}
	if got, want := root.String(), "a{} x {} b{}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if root.Index(n) != 1 || root.Index(b) != 2 {
		t.Errorf("unexpected order: x=%d b=%d", root.Index(n), root.Index(b))
	}
	if n.Parent() != css.Container(root) {
		t.Error("inserted node must belong to root")
	}

	if root.InsertBefore(css.NewRule("y"), css.NewRule("z")) {
		t.Error("InsertBefore() must fail for a node which is not a child")
	}
}

func TestContainer_MoveBetweenParents(t *testing.T) {
	root := mustParse(t, "a{ b{} } c{}")
	a := root.Nodes()[0].(*css.Rule)
	b := a.Nodes()[0].(*css.Rule)
	c := root.Nodes()[1].(*css.Rule)

	c.Append(b)
	if len(a.Nodes()) != 0 {
		t.Errorf("b must be detached from a, a has %d children", len(a.Nodes()))
	}
	if b.Parent() != css.Container(c) {
		t.Error("b must belong to c")
	}
	if got, want := root.String(), "a{ } c{ b{}}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestReplaceWith(t *testing.T) {
	root := mustParse(t, "a{} b:hover{ x: y } c{}")
	b := root.Nodes()[1].(*css.Rule)

	media := css.NewAtRule("media", "(any-hover: hover)")
	media.Before = b.Before
	clone := b.Clone().(*css.Rule)
	clone.Before = ""
	media.Append(clone)

	if !b.ReplaceWith(media) {
		t.Fatal("ReplaceWith() = false")
	}
	if b.Parent() != nil {
		t.Error("replaced rule must be detached")
	}
	if got, want := root.String(), "a{} @media (any-hover: hover) {b:hover{ x: y }} c{}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if b.ReplaceWith(css.NewRule("q")) {
		t.Error("ReplaceWith() must fail for detached node")
	}
}

func TestRemove(t *testing.T) {
	root := mustParse(t, "a{} b{}")
	a := root.Nodes()[0].(*css.Rule)

	if !a.Remove() {
		t.Fatal("Remove() = false")
	}
	if a.Remove() {
		t.Error("second Remove() must report false")
	}
	if got, want := root.String(), " b{}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestClone_Independent(t *testing.T) {
	root := mustParse(t, "a, a:hover { color: red; & b { x: y } }")
	orig := root.Nodes()[0].(*css.Rule)

	clone := orig.Clone().(*css.Rule)
	if clone.Parent() != nil {
		t.Error("clone must be detached")
	}
	if clone.String() != orig.String() {
		t.Errorf("clone text %q differs from original %q", clone.String(), orig.String())
	}

	clone.SetSelectors([]string{"a:hover"})
	clone.Nodes()[0].(*css.Declaration).Value = "blue"
	nested := clone.Nodes()[1].(*css.Rule)
	nested.Selector = "& c"

	if nested.Parent() != css.Container(clone) {
		t.Error("cloned children must belong to the clone")
	}
	if got, want := orig.String(), "a, a:hover { color: red; & b { x: y } }"; got != want {
		t.Errorf("original changed: %q", got)
	}
	if got, want := clone.String(), "a:hover { color: blue; & c { x: y } }"; got != want {
		t.Errorf("clone = %q, want %q", got, want)
	}

	whole := root.Clone().(*css.Root)
	if whole.String() != root.String() {
		t.Errorf("root clone %q differs from %q", whole.String(), root.String())
	}
}

func TestNewNodes(t *testing.T) {
	r := css.NewRule("a:hover", "b:hover")
	r.Append(css.NewDeclaration("color", "red !important"))
	media := css.NewAtRule("media", "(hover: hover)")
	media.Append(r)

	root := &css.Root{}
	root.Append(media)

	if got, want := root.String(), "@media (hover: hover) {a:hover, b:hover {color: red !important;}}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if !r.Nodes()[0].(*css.Declaration).Important {
		t.Error("declaration must be important")
	}
}

func TestWalkRules_Order(t *testing.T) {
	root := mustParse(t, "a { b { c {} } } @media x { d {} } e {}")

	var got []string
	for _, r := range css.Rules(root) {
		got = append(got, r.Selector)
	}
	want := []string{"a", "b", "c", "d", "e"}
	if len(got) != len(want) {
		t.Fatalf("visited %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("visited %q, want %q", got, want)
			break
		}
	}
}

func TestWalkRules_Mutation(t *testing.T) {
	root := mustParse(t, "a{} b{ c{} } d{}")

	var visited []string
	css.WalkRules(root, func(r *css.Rule) css.Container {
		visited = append(visited, r.Selector)
		switch r.Selector {
		case "a":
			// insert sibling in front, must not be visited
			n := css.NewRule("new")
			n.Before = r.Before
			r.Parent().InsertBefore(r, n)
		case "b":
			// replace with wrapper, walk continues in the clone
			wrap := css.NewAtRule("media", "w")
			wrap.Before = r.Before
			clone := r.Clone().(*css.Rule)
			clone.Selector = "b2"
			wrap.Append(clone)
			r.ReplaceWith(wrap)
			return clone
		case "d":
			r.Remove()
			return nil
		}
		return r
	})

	want := []string{"a", "b", "c", "d"}
	if len(visited) != len(want) {
		t.Fatalf("visited %q, want %q", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visited %q, want %q", visited, want)
		}
	}
	if got, want := root.String(), "new {}a{} @media w { b2{ c{} }}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDump(t *testing.T) {
	root := mustParse(t, "/* c */ a, b { color: red; @media (x) { c { y: z } } }")

	want := `root
  comment "/* c */"
  rule "a" "b"
    decl "color" "red"
    @media "(x)"
      rule "c"
        decl "y" "z"
`
	if got := css.Dump(root); got != want {
		t.Errorf("Dump() =\n%s\nwant\n%s", got, want)
	}

	s := css.Summarize(root)
	if s.Rules != 2 || s.AtRules != 1 || s.Declarations != 2 || s.Comments != 1 || s.MaxDepth != 3 {
		t.Errorf("Summarize() = %+v", s)
	}
}
