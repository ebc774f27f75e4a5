package hover

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// patternTimeout bounds a single exclusion match.
const patternTimeout = 100 * time.Millisecond

// Matcher decides whether a selector is excluded from relocation.
type Matcher interface {
	Match(selector string) bool
}

// Literal excludes selectors containing the string.
type Literal string

func (l Literal) Match(selector string) bool {
	return strings.Contains(selector, string(l))
}

func (l Literal) String() string {
	return string(l)
}

// Pattern excludes selectors matching a regular expression. Expressions use
// ECMAScript syntax. The zero Pattern matches nothing.
type Pattern struct {
	re *regexp2.Regexp
}

// NewPattern compiles expr.
func NewPattern(expr string) (Pattern, error) {
	re, err := regexp2.Compile(expr, regexp2.ECMAScript)
	if err != nil {
		return Pattern{}, err
	}
	re.MatchTimeout = patternTimeout
	return Pattern{re: re}, nil
}

// MustPattern is like NewPattern but panics on error.
func MustPattern(expr string) Pattern {
	p, err := NewPattern(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether expression matches anywhere in selector. Matching
// errors (timeouts) are treated as no match.
func (p Pattern) Match(selector string) bool {
	if p.re == nil {
		return false
	}
	ok, err := p.re.MatchString(selector)
	return err == nil && ok
}

func (p Pattern) String() string {
	if p.re == nil {
		return ""
	}
	return p.re.String()
}

func excluded(selector string, matchers []Matcher) bool {
	for _, m := range matchers {
		if m != nil && m.Match(selector) {
			return true
		}
	}
	return false
}
