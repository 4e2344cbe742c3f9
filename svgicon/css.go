package svgicon

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

type declaration struct {
	property, value string
}

// parseInlineStyle splits the content of a style attribute into
// its declarations. Malformed declarations are skipped and
// reported in `skipped`; the parser resumes after the next ';' or '}'.
func parseInlineStyle(style string) (decls []declaration, skipped []error) {
	parser := css.NewParser(parse.NewInputString(style), true)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if !parser.HasParseError() {
				// io.EOF, the input is a string
				return decls, skipped
			}
			skipped = append(skipped, parser.Err())
		case css.DeclarationGrammar:
			if value := joinTokens(parser.Values()); value != "" {
				decls = append(decls, declaration{strings.ToLower(string(data)), value})
			}
		}
	}
}

// joinTokens rebuilds a declaration value, collapsing whitespaces
// and dropping the !important annotation.
func joinTokens(tokens []css.Token) string {
	var sb strings.Builder
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch {
		case t.TokenType == css.WhitespaceToken:
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			continue
		case t.TokenType == css.DelimToken && bytes.Equal(t.Data, []byte("!")):
			j := i + 1
			for j < len(tokens) && tokens[j].TokenType == css.WhitespaceToken {
				j++
			}
			if j < len(tokens) && tokens[j].TokenType == css.IdentToken && bytes.EqualFold(tokens[j].Data, []byte("important")) {
				i = j
				continue
			}
		}
		sb.Write(t.Data)
	}
	return strings.TrimSpace(sb.String())
}
