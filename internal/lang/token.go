package lang

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

type Kind int

const (
	TokenTarget Kind = iota
	TokenColon
	TokenSemicolon
	TokenEquals
	TokenCommand
	TokenEOF
	TokenIllegal
)

func (kind Kind) String() string {
	switch kind {
	case TokenTarget:
		return "TARGET"
	case TokenColon:
		return ":"
	case TokenSemicolon:
		return ";"
	case TokenEquals:
		return "="
	case TokenCommand:
		return "CMD"
	case TokenEOF:
		return "<EOF>"
	case TokenIllegal:
		return "ILLEGAL"
	}

	// this implies a 🐞 in the code
	panic(fmt.Sprintf("unknown token kind %d", int(kind)))
}

// Token is a typed slice of the source buffer. Text excludes the quotes
// of a command string, Start and End include them
type Token struct {
	Kind  Kind
	Text  string
	Start hcl.Pos
	End   hcl.Pos
}

func (token Token) String() string {
	if token.Text == "" {
		return token.Kind.String()
	}

	return fmt.Sprintf("%s(%s)", token.Kind, token.Text)
}

func (token Token) Range(filename string) hcl.Range {
	return hcl.Range{
		Filename: filename,
		Start:    token.Start,
		End:      token.End,
	}
}

func isTargetChar(ch byte) bool {
	return 'a' <= ch && ch <= 'z' ||
		'A' <= ch && ch <= 'Z' ||
		'0' <= ch && ch <= '9' ||
		ch == '.' || ch == '_'
}

// isSpace matches the C locale isspace set
func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}

	return false
}
