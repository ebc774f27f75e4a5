// Package hover moves style rules with :hover selectors under a hover media
// query so hover styles do not stick on touch-only devices.
//
//	a:hover, b { color: red }
//
// becomes
//
//	@media (any-hover: hover) {a:hover { color: red }}
//	b { color: red }
package hover

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"anyhover/css"
)

const hoverPseudo = ":hover"

// hoverQuery recognizes params already expressing a hover media feature.
var hoverQuery = regexp.MustCompile(`(?i)\(\s*(?:any-)?hover\s*:\s*hover\s*\)`)

// Stats describes what a single rewrite did.
type Stats struct {
	Rules    int // style rules visited
	Wrapped  int // hover-only rules moved under a new query
	Split    int // rules split into hover and non-hover parts
	Nested   int // rules left alone inside an existing hover query
	Excluded int // :hover selectors kept in place by exclusions
}

// Rewriter performs the rewrite. It keeps no state between runs and may be
// shared by goroutines working on different trees.
type Rewriter struct {
	feature  MediaFeature
	nested   bool
	exclude  []Matcher
	maxDepth int
	query    string
	log      *zap.Logger
}

// New creates a rewriter for opts. Options are copied.
func New(opts Options, log *zap.Logger) *Rewriter {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Rewriter{
		feature:  opts.MediaFeature,
		nested:   opts.TransformNestedMedia,
		exclude:  append([]Matcher(nil), opts.ExcludeSelectors...),
		maxDepth: opts.MaxAncestorDepth,
		log:      log.Named("hover"),
	}
	if !r.feature.IsValid() {
		r.feature = MediaFeatureAnyHover
	}
	if r.maxDepth <= 0 {
		r.maxDepth = DefaultAncestorDepth
	}
	r.query = r.feature.Query()
	return r
}

// Query returns params of generated media queries.
func (r *Rewriter) Query() string {
	return r.query
}

// Once rewrites the whole tree in a single pass. Every style rule of the
// original tree is visited once, nodes created by the rewrite are not.
func (r *Rewriter) Once(root *css.Root) Stats {
	var st Stats
	css.WalkRules(root, func(rule *css.Rule) css.Container {
		return r.rewrite(rule, &st)
	})
	r.log.Debug("Hover rules rewritten",
		zap.String("query", r.query),
		zap.Int("rules", st.Rules),
		zap.Int("wrapped", st.Wrapped),
		zap.Int("split", st.Split),
		zap.Int("nested", st.Nested),
		zap.Int("excluded", st.Excluded))
	return st
}

// rewrite handles a single rule and returns the container holding the
// rule's original descendants afterwards.
func (r *Rewriter) rewrite(rule *css.Rule, st *Stats) css.Container {
	st.Rules++

	if !strings.Contains(rule.Selector, hoverPseudo) {
		return rule
	}
	hover, rest, excl := r.partition(rule.Selectors())
	st.Excluded += excl
	if len(hover) == 0 {
		return rule
	}

	parent := rule.Parent()
	if parent == nil {
		return rule
	}
	if !r.nested && InsideHoverMedia(rule, r.maxDepth) {
		st.Nested++
		return rule
	}

	media := css.NewAtRule("media", r.query)
	media.Before, media.After = rule.Before, rule.After

	// stray semicolons in front of the rule now belong to media
	clone := rule.Clone().(*css.Rule)
	clone.Before = dropFiller(clone.Before)
	media.Append(clone)

	if len(rest) > 0 {
		clone.SetSelectors(hover)
		rule.SetSelectors(rest)
		rule.Before = dropFiller(rule.Before)
		if rule.Before == "" {
			rule.Before = "\n"
		}
		parent.InsertBefore(rule, media)
		st.Split++
		return rule
	}

	rule.ReplaceWith(media)
	st.Wrapped++
	return clone
}

func dropFiller(before string) string {
	return strings.ReplaceAll(before, ";", "")
}

// Partition splits selectors into hover and non-hover groups keeping their
// relative order.
func (r *Rewriter) Partition(selectors []string) (hover, rest []string) {
	hover, rest, _ = r.partition(selectors)
	return hover, rest
}

func (r *Rewriter) partition(selectors []string) (hover, rest []string, excl int) {
	for _, sel := range selectors {
		switch {
		case !HasHoverPseudo(sel):
			rest = append(rest, sel)
		case excluded(sel, r.exclude):
			rest = append(rest, sel)
			excl++
		default:
			hover = append(hover, sel)
		}
	}
	return hover, rest, excl
}

// IsHover reports whether selector has to be moved under the hover query.
func (r *Rewriter) IsHover(selector string) bool {
	return HasHoverPseudo(selector) && !excluded(selector, r.exclude)
}

// HasHoverPseudo reports whether selector contains the :hover pseudo-class
// rather than a longer name starting with it.
func HasHoverPseudo(selector string) bool {
	for i := 0; ; {
		j := strings.Index(selector[i:], hoverPseudo)
		if j < 0 {
			return false
		}
		end := i + j + len(hoverPseudo)
		if end == len(selector) || isBoundary(selector[end]) {
			return true
		}
		i = end
	}
}

func isBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', ':', '.', '[', '#':
		return true
	}
	return false
}

// IsHoverQuery reports whether media query params already express a hover
// feature, e.g. "(hover: hover)" or "screen and (ANY-HOVER:hover)".
func IsHoverQuery(params string) bool {
	return hoverQuery.MatchString(params)
}

// InsideHoverMedia reports whether one of at most maxDepth ancestors of n is
// an @media rule with a hover query.
func InsideHoverMedia(n css.Node, maxDepth int) bool {
	p := n.Parent()
	for i := 0; p != nil && i < maxDepth; i++ {
		if at, ok := p.(*css.AtRule); ok && strings.EqualFold(at.Name, "media") && IsHoverQuery(at.Params) {
			return true
		}
		p = p.Parent()
	}
	return false
}
