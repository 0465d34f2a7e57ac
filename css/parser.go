package css

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// ErrSyntax is returned for declaration blocks which could not be parsed.
var ErrSyntax = errors.New("css syntax error")

// Parser parses inline CSS declaration blocks.
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

// ParseDeclarations parses "property: value; ..." (the content of style
// attribute) preserving declaration order. Custom properties and comments
// are skipped.
func (p *Parser) ParseDeclarations(text string) (Declarations, error) {
	decls := NewDeclarations()

	parser := css.NewParser(parse.NewInputString(text), true)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				return Declarations{}, fmt.Errorf("%w: %q: %v", ErrSyntax, text, err)
			}
			return decls, nil

		case css.DeclarationGrammar:
			name := strings.ToLower(string(data))
			value := joinTokens(parser.Values())
			if value == "" {
				p.log.Debug("Skipping empty declaration", zap.String("property", name))
				continue
			}
			decls.Set(name, value)

		case css.CustomPropertyGrammar:
			p.log.Debug("Skipping custom property", zap.ByteString("property", data))

		case css.BeginRulesetGrammar, css.BeginAtRuleGrammar, css.AtRuleGrammar, css.QualifiedRuleGrammar:
			return Declarations{}, fmt.Errorf("%w: %q: rules are not allowed in declaration block", ErrSyntax, text)
		}
	}
}

// joinTokens builds value string from tokens. Whitespace runs collapse to a
// single space and every comma is followed by one space, so function
// arguments read as written regardless of what tokenizer kept.
func joinTokens(tokens []css.Token) string {
	var b strings.Builder
	space := false
	for _, t := range tokens {
		switch t.TokenType {
		case css.WhitespaceToken:
			space = b.Len() > 0
			continue
		case css.CommaToken:
			b.WriteString(", ")
			space = false
			continue
		}
		if space && !strings.HasSuffix(b.String(), " ") {
			b.WriteByte(' ')
		}
		space = false
		b.Write(t.Data)
	}
	return strings.TrimSpace(b.String())
}
