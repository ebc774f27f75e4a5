package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// ErrSyntax is wrapped by all errors reported for malformed stylesheets.
var ErrSyntax = errors.New("css syntax error")

// Parser parses CSS stylesheets into loss-less node trees. Nested rules
// (CSS Nesting) are supported in any block.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

type token struct {
	tt   css.TokenType
	data string
}

// parseState keeps the stack of open blocks and tokens of the component
// being collected.
type parseState struct {
	root    *Root
	stack   []Container
	pending []token
	line    int
	nodes   int
}

// Parse parses CSS text into a tree.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) (*Root, error) {
	src := ""
	if len(source) > 0 {
		src = source[0]
	}
	if src != "" {
		p.log.Debug("Parsing CSS", zap.String("source", src), zap.Int("bytes", len(data)))
	}

	root := &Root{}
	st := &parseState{root: root, stack: []Container{root}, line: 1}

	lexer := css.NewLexer(parse.NewInput(bytes.NewReader(data)))
	depth := 0
	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && err != io.EOF {
				return nil, fmt.Errorf("%w: line %d: %w", ErrSyntax, st.line, err)
			}
			break
		}
		tok := token{tt: tt, data: string(text)}

		var err error
		switch {
		case tt == css.FunctionToken || tt == css.LeftParenthesisToken || tt == css.LeftBracketToken:
			depth++
			st.push(tok)
		case tt == css.RightParenthesisToken || tt == css.RightBracketToken:
			if depth > 0 {
				depth--
			}
			st.push(tok)
		case depth > 0:
			st.push(tok)
		case tt == css.CommentToken:
			st.comment(tok)
		case tt == css.LeftBraceToken:
			err = st.open()
		case tt == css.SemicolonToken:
			err = st.statement(tok, true)
		case tt == css.RightBraceToken:
			err = st.close()
		default:
			st.push(tok)
		}
		if err != nil {
			return nil, err
		}
		st.line += strings.Count(tok.data, "\n")
	}

	if err := st.finish(); err != nil {
		return nil, err
	}
	p.log.Debug("Parsed CSS", zap.String("source", src), zap.Int("nodes", st.nodes))
	return root, nil
}

func (st *parseState) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, st.line, fmt.Sprintf(format, args...))
}

func (st *parseState) current() Container {
	return st.stack[len(st.stack)-1]
}

func (st *parseState) push(tok token) {
	st.pending = append(st.pending, tok)
}

func (st *parseState) add(n Node) {
	st.current().Append(n)
	st.pending = st.pending[:0]
	st.nodes++
}

// comment makes a standalone node of comments which are not part of a
// selector, params or value.
func (st *parseState) comment(tok token) {
	before, body, _ := split(st.pending)
	if len(body) != 0 {
		st.push(tok)
		return
	}
	st.add(&Comment{base: base{Before: raw(before)}, Text: tok.data})
}

func (st *parseState) open() error {
	before, body, between := split(st.pending)
	if len(body) == 0 {
		return st.errorf("block without prelude")
	}

	var n Container
	if body[0].tt == css.AtKeywordToken {
		a := &AtRule{
			base:     base{Before: raw(before)},
			Name:     strings.TrimPrefix(body[0].data, "@"),
			Between:  raw(between),
			HasBlock: true,
		}
		a.AfterName, a.Params = splitParams(body[1:])
		n = a
	} else {
		n = &Rule{
			base:     base{Before: raw(before)},
			Selector: raw(body),
			Between:  raw(between),
		}
	}
	st.add(n)
	st.stack = append(st.stack, n)
	return nil
}

// statement finishes a component terminated by ";" or by the end of the
// enclosing block. Without ";" trailing whitespace stays pending and ends up
// in the closing text of the block.
func (st *parseState) statement(tok token, semicolon bool) error {
	before, body, after := split(st.pending)
	if len(body) == 0 {
		if semicolon {
			// stray semicolons are kept with the following node
			st.push(tok)
		}
		return nil
	}
	var rest []token
	if !semicolon {
		rest, after = after, nil
	}

	var n Node
	if body[0].tt == css.AtKeywordToken {
		a := &AtRule{
			base:      base{Before: raw(before)},
			Name:      strings.TrimPrefix(body[0].data, "@"),
			Between:   raw(after),
			Semicolon: semicolon,
		}
		a.AfterName, a.Params = splitParams(body[1:])
		n = a
	} else {
		d, err := st.declaration(before, body, after, semicolon)
		if err != nil {
			return err
		}
		n = d
	}
	st.add(n)
	st.pending = append(st.pending, rest...)
	return nil
}

func (st *parseState) declaration(before, body, after []token, semicolon bool) (*Declaration, error) {
	if _, ok := st.current().(*Root); ok {
		return nil, st.errorf("unexpected declaration %q at top level", raw(body))
	}
	colon := -1
	for i, t := range body {
		if t.tt == css.ColonToken {
			colon = i
			break
		}
	}
	if colon <= 0 {
		return nil, st.errorf("malformed declaration %q", raw(body))
	}

	prop, ws := trimRight(body[:colon])
	value := body[colon+1:]
	lead := 0
	for lead < len(value) && value[lead].tt == css.WhitespaceToken {
		lead++
	}
	d := &Declaration{
		base:       base{Before: raw(before)},
		Prop:       raw(prop),
		Between:    raw(ws) + ":" + raw(value[:lead]),
		Value:      raw(value[lead:]),
		AfterValue: raw(after),
		Semicolon:  semicolon,
	}
	d.Important = isImportant(d.Value)
	return d, nil
}

func (st *parseState) close() error {
	if len(st.stack) == 1 {
		return st.errorf("unexpected \"}\"")
	}
	if err := st.statement(token{}, false); err != nil {
		return err
	}
	after := raw(st.pending)
	st.pending = st.pending[:0]
	switch n := st.current().(type) {
	case *Rule:
		n.After = after
	case *AtRule:
		n.After = after
	}
	st.stack = st.stack[:len(st.stack)-1]
	return nil
}

func (st *parseState) finish() error {
	if len(st.stack) > 1 {
		return st.errorf("unclosed block")
	}
	if err := st.statement(token{}, false); err != nil {
		return err
	}
	st.root.After = raw(st.pending)
	st.pending = nil
	return nil
}

// split separates leading filler (whitespace and stray semicolons) and
// trailing whitespace from the meaningful tokens of a component.
func split(toks []token) (before, body, after []token) {
	i := 0
	for i < len(toks) && (toks[i].tt == css.WhitespaceToken || toks[i].tt == css.SemicolonToken) {
		i++
	}
	j := len(toks)
	for j > i && toks[j-1].tt == css.WhitespaceToken {
		j--
	}
	return toks[:i], toks[i:j], toks[j:]
}

// splitParams separates whitespace following the at-keyword from params.
func splitParams(toks []token) (string, string) {
	i := 0
	for i < len(toks) && toks[i].tt == css.WhitespaceToken {
		i++
	}
	return raw(toks[:i]), raw(toks[i:])
}

func trimRight(toks []token) ([]token, []token) {
	j := len(toks)
	for j > 0 && toks[j-1].tt == css.WhitespaceToken {
		j--
	}
	return toks[:j], toks[j:]
}

func raw(toks []token) string {
	switch len(toks) {
	case 0:
		return ""
	case 1:
		return toks[0].data
	}
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.data)
	}
	return sb.String()
}
