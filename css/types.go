package css

import (
	"io"
	"strings"
)

// Node is a single element of a stylesheet tree.
//
// Every node remembers the exact text that preceded it (Before) so an
// unmodified tree writes back byte-for-byte to its source.
type Node interface {
	// Parent returns the container holding the node, nil for the root and
	// for detached nodes.
	Parent() Container
	// Clone returns a deep, detached copy of the node.
	Clone() Node

	setParent(Container)
	write(sb *strings.Builder)
}

// Container is a node owning an ordered list of children.
type Container interface {
	Node
	// Nodes returns children in document order. The slice must not be
	// modified by the caller.
	Nodes() []Node
	// Index returns position of the child or -1.
	Index(n Node) int
	// Append moves nodes to the end of the container.
	Append(nodes ...Node)
	// InsertBefore moves nodes in front of existing child. It reports false
	// when existing is not a child of the container.
	InsertBefore(existing Node, nodes ...Node) bool

	body() *block
}

// base is embedded by all nodes which may have a parent.
type base struct {
	parent Container
	Before string // whitespace (and stray semicolons) in front of the node
}

func (b *base) Parent() Container {
	return b.parent
}

func (b *base) setParent(c Container) {
	b.parent = c
}

// block keeps children of a container.
type block struct {
	nodes []Node
}

func (b *block) Nodes() []Node {
	return b.nodes
}

func (b *block) Index(n Node) int {
	for i, ch := range b.nodes {
		if ch == n {
			return i
		}
	}
	return -1
}

func (b *block) body() *block {
	return b
}

// Root is the top of a stylesheet tree.
type Root struct {
	block
	After string // text after the last node
}

// Rule is a style rule: a selector group followed by a block. The block may
// hold declarations as well as nested rules and at-rules.
type Rule struct {
	base
	block
	Selector string // raw selector group, comments included
	Between  string // text between selector and "{"
	After    string // text between last child and "}"
}

// AtRule is a directive like @media or @import.
type AtRule struct {
	base
	block
	Name      string // without "@"
	AfterName string // text between name and params
	Params    string
	Between   string // text between params and "{" (or ";")
	After     string // text between last child and "}"
	HasBlock  bool   // false for statements like @import
	Semicolon bool   // statement terminated with ";"
}

// Declaration is a single "property: value" pair.
type Declaration struct {
	base
	Prop       string
	Between    string // ":" with surrounding whitespace
	Value      string // raw value, "!important" included
	AfterValue string // text between value and ";"
	Important  bool
	Semicolon  bool
}

// Comment is a comment standing on its own between nodes.
type Comment struct {
	base
	Text string // including "/*" and "*/"
}

// NewRule creates a detached rule for selectors.
func NewRule(selectors ...string) *Rule {
	r := &Rule{Between: " "}
	r.SetSelectors(selectors)
	return r
}

// NewAtRule creates a detached at-rule with an empty block.
func NewAtRule(name, params string) *AtRule {
	a := &AtRule{Name: name, Params: params, Between: " ", HasBlock: true}
	if params != "" {
		a.AfterName = " "
	}
	return a
}

// NewDeclaration creates a detached declaration.
func NewDeclaration(prop, value string) *Declaration {
	return &Declaration{
		Prop:      prop,
		Between:   ": ",
		Value:     value,
		Important: isImportant(value),
		Semicolon: true,
	}
}

// Parent of the root is always nil.
func (r *Root) Parent() Container {
	return nil
}

func (r *Root) setParent(Container) {}

// Append moves nodes to the end of the root.
func (r *Root) Append(nodes ...Node) {
	appendNodes(r, nodes)
}

// InsertBefore moves nodes in front of existing child.
func (r *Root) InsertBefore(existing Node, nodes ...Node) bool {
	return insertBefore(r, existing, nodes)
}

// Clone returns a deep copy of the whole tree.
func (r *Root) Clone() Node {
	c := &Root{After: r.After}
	cloneChildren(c, &r.block)
	return c
}

// Append moves nodes to the end of the rule block.
func (r *Rule) Append(nodes ...Node) {
	appendNodes(r, nodes)
}

// InsertBefore moves nodes in front of existing child.
func (r *Rule) InsertBefore(existing Node, nodes ...Node) bool {
	return insertBefore(r, existing, nodes)
}

// ReplaceWith puts nodes in place of the rule and detaches it.
func (r *Rule) ReplaceWith(nodes ...Node) bool {
	return ReplaceWith(r, nodes...)
}

// Remove detaches the rule from its parent.
func (r *Rule) Remove() bool {
	return Remove(r)
}

// Clone returns a deep, detached copy of the rule and its block.
func (r *Rule) Clone() Node {
	c := &Rule{
		base:     base{Before: r.Before},
		Selector: r.Selector,
		Between:  r.Between,
		After:    r.After,
	}
	cloneChildren(c, &r.block)
	return c
}

// Append moves nodes to the end of the at-rule block.
func (a *AtRule) Append(nodes ...Node) {
	a.HasBlock = true
	appendNodes(a, nodes)
}

// InsertBefore moves nodes in front of existing child.
func (a *AtRule) InsertBefore(existing Node, nodes ...Node) bool {
	return insertBefore(a, existing, nodes)
}

// ReplaceWith puts nodes in place of the at-rule and detaches it.
func (a *AtRule) ReplaceWith(nodes ...Node) bool {
	return ReplaceWith(a, nodes...)
}

// Remove detaches the at-rule from its parent.
func (a *AtRule) Remove() bool {
	return Remove(a)
}

// Clone returns a deep, detached copy of the at-rule.
func (a *AtRule) Clone() Node {
	c := &AtRule{
		base:      base{Before: a.Before},
		Name:      a.Name,
		AfterName: a.AfterName,
		Params:    a.Params,
		Between:   a.Between,
		After:     a.After,
		HasBlock:  a.HasBlock,
		Semicolon: a.Semicolon,
	}
	cloneChildren(c, &a.block)
	return c
}

// Clone returns a detached copy of the declaration.
func (d *Declaration) Clone() Node {
	c := *d
	c.parent = nil
	return &c
}

// Clone returns a detached copy of the comment.
func (c *Comment) Clone() Node {
	n := *c
	n.parent = nil
	return &n
}

// Selectors returns individual selectors of the rule group, trimmed.
func (r *Rule) Selectors() []string {
	sels, _ := scanSelectors(r.Selector)
	return sels
}

// SetSelectors replaces the selector group. Selectors are joined with the
// separator used by the current group, or ", " when there is none.
func (r *Rule) SetSelectors(selectors []string) {
	_, sep := scanSelectors(r.Selector)
	if sep == "" {
		sep = ", "
	}
	r.Selector = strings.Join(selectors, sep)
}

// WriteTo writes the stylesheet text to w, implementing io.WriterTo.
func (r *Root) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}

// String returns the CSS text of the stylesheet.
func (r *Root) String() string {
	return toString(r)
}

// String returns the CSS text of the rule.
func (r *Rule) String() string {
	return toString(r)
}

// String returns the CSS text of the at-rule.
func (a *AtRule) String() string {
	return toString(a)
}

// String returns the CSS text of the declaration.
func (d *Declaration) String() string {
	return toString(d)
}

func toString(n Node) string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func isImportant(value string) bool {
	v := strings.ToLower(strings.Join(strings.Fields(value), ""))
	return strings.HasSuffix(v, "!important")
}
