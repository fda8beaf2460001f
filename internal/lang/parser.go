package lang

import (
	"fmt"

	"smake/internal/values"

	"github.com/hashicorp/hcl/v2"
)

// Parser implements the rule file grammar
//
//	File   := Rule*
//	Rule   := Target ':' Dep* ( ';' | '=' Command ';' )
//	Dep    := Target
//
// with a two token window over the lexer output
type Parser struct {
	filename string
	lexer    *Lexer
	tok      Token
	next     Token
}

func NewParser(filename string, lexer *Lexer) *Parser {
	parser := &Parser{filename: filename, lexer: lexer}
	// fill both lookahead slots
	parser.advance()
	parser.advance()
	return parser
}

// Parse is a convenience function to parse a whole rule file at once
func Parse(filename string, src []byte) (RuleSet, hcl.Diagnostics) {
	return NewParser(filename, NewLexer(src)).ParseFile()
}

func (parser *Parser) advance() Token {
	parser.tok = parser.next
	parser.next = parser.lexer.Next()
	return parser.tok
}

func (parser *Parser) ParseFile() (RuleSet, hcl.Diagnostics) {
	rules := make(RuleSet, 0)
	for parser.tok.Kind != TokenEOF {
		rule, diags := parser.ParseRule()
		if diags.HasErrors() {
			return nil, diags
		}

		rules = append(rules, *rule)
	}

	return rules, nil
}

func (parser *Parser) ParseRule() (*Rule, hcl.Diagnostics) {
	token := parser.tok
	if token.Kind != TokenTarget {
		return nil, parser.unexpected("a target", token)
	}

	rule := &Rule{
		Target:       token.Text,
		Dependencies: make([]string, 0),
		DefRange:     token.Range(parser.filename),
	}

	token = parser.advance()
	if token.Kind != TokenColon {
		return nil, parser.unexpected("a `:`", token)
	}

	for {
		token = parser.advance()
		if token.Kind == TokenSemicolon || token.Kind == TokenEquals {
			break
		}

		if token.Kind != TokenTarget {
			return nil, parser.unexpected("a target, `;` or `=`", token)
		}

		rule.Dependencies = append(rule.Dependencies, token.Text)
	}

	// no command
	if token.Kind == TokenSemicolon {
		parser.advance()
		return rule, nil
	}

	token = parser.advance()
	if token.Kind != TokenCommand {
		return nil, parser.unexpected("a command", token)
	}
	rule.Command = values.SomeString(token.Text)

	token = parser.advance()
	if token.Kind != TokenSemicolon {
		return nil, parser.unexpected("a `;`", token)
	}

	parser.advance()
	return rule, nil
}

func (parser *Parser) unexpected(expected string, found Token) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf("Expected %s but found %s", expected, found.Kind),
		Detail: fmt.Sprintf("Unexpected %s at %d:%d. Rules have the form "+
			"`target: deps... ;` or `target: deps... = \"command\";`",
			found, found.Start.Line, found.Start.Column),
		Subject: found.Range(parser.filename).Ptr(),
	}}
}
