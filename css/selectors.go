package css

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// scanSelectors splits a selector group on commas which are not nested in
// parentheses or brackets. It also returns the first separator as written
// (comma with the following whitespace), empty for a single selector.
func scanSelectors(raw string) ([]string, string) {
	if !strings.Contains(raw, ",") {
		if s := strings.TrimSpace(raw); s != "" {
			return []string{s}, ""
		}
		return nil, ""
	}

	var (
		sels    []string
		sep     string
		sb      strings.Builder
		depth   int
		inComma bool
	)
	flush := func() {
		if s := strings.TrimSpace(sb.String()); s != "" {
			sels = append(sels, s)
		}
		sb.Reset()
	}

	lexer := css.NewLexer(parse.NewInputBytes([]byte(raw)))
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			break
		}
		switch tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.CommaToken:
			if depth == 0 {
				flush()
				if len(sep) == 0 {
					sep, inComma = ",", true
				}
				continue
			}
		case css.WhitespaceToken:
			if inComma {
				sep += string(data)
			}
		}
		inComma = false
		sb.Write(data)
	}
	flush()
	return sels, sep
}
