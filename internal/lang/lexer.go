package lang

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
)

// Lexer splits a rule file into tokens lazily; one call to Next per token
type Lexer struct {
	buffer []byte
	pos    int // offset of ch
	ch     byte
	// offsets at which each line starts; used to resolve hcl.Pos
	lines []int
}

func NewLexer(buffer []byte) *Lexer {
	lines := []int{0}
	for index, ch := range buffer {
		if ch == '\n' {
			lines = append(lines, index+1)
		}
	}

	lexer := &Lexer{buffer: buffer, lines: lines}
	lexer.seek(0)
	return lexer
}

// Peek returns the current character or 0 once the input is exhausted
func (lexer *Lexer) Peek() byte {
	return lexer.ch
}

func (lexer *Lexer) Done() bool {
	return lexer.pos >= len(lexer.buffer)
}

// Advance moves one character forward. It is a no-op at the end of input
func (lexer *Lexer) Advance() {
	if lexer.Done() {
		return
	}

	lexer.seek(lexer.pos + 1)
}

func (lexer *Lexer) seek(offset int) {
	lexer.pos = offset
	lexer.ch = 0
	if offset < len(lexer.buffer) {
		lexer.ch = lexer.buffer[offset]
	}
}

func (lexer *Lexer) SkipWhitespace() {
	for !lexer.Done() && isSpace(lexer.ch) {
		lexer.Advance()
	}
}

// Next returns the next token. Once the input is exhausted it keeps
// returning EOF tokens
func (lexer *Lexer) Next() Token {
	lexer.SkipWhitespace()

	start := lexer.pos
	if lexer.Done() {
		return lexer.token(TokenEOF, start, start, "")
	}

	switch lexer.ch {
	case ':':
		lexer.Advance()
		return lexer.token(TokenColon, start, lexer.pos, "")
	case ';':
		lexer.Advance()
		return lexer.token(TokenSemicolon, start, lexer.pos, "")
	case '=':
		lexer.Advance()
		return lexer.token(TokenEquals, start, lexer.pos, "")
	case '"':
		return lexer.command()
	}

	if isTargetChar(lexer.ch) {
		return lexer.target()
	}

	// a whole character, not a single byte of it
	_, size := utf8.DecodeRune(lexer.buffer[lexer.pos:])
	for i := 0; i < size; i++ {
		lexer.Advance()
	}

	return lexer.token(TokenIllegal, start, lexer.pos, string(lexer.buffer[start:lexer.pos]))
}

func (lexer *Lexer) target() Token {
	if !isTargetChar(lexer.ch) {
		panic(fmt.Sprintf("expected [a-zA-Z0-9._] but got %q at offset %d", lexer.ch, lexer.pos))
	}

	start := lexer.pos
	for !lexer.Done() && isTargetChar(lexer.ch) {
		lexer.Advance()
	}

	return lexer.token(TokenTarget, start, lexer.pos, string(lexer.buffer[start:lexer.pos]))
}

// command scans a quoted string. A backslash followed by a quote is kept
// verbatim in the token text and does not close the string
func (lexer *Lexer) command() Token {
	if lexer.ch != '"' {
		panic(fmt.Sprintf(`expected '"' but got %q at offset %d`, lexer.ch, lexer.pos))
	}

	start := lexer.pos
	lexer.Advance()
	from := lexer.pos
	for !lexer.Done() && lexer.ch != '"' {
		ch := lexer.ch
		lexer.Advance()
		if ch == '\\' && !lexer.Done() && lexer.ch == '"' {
			lexer.Advance()
		}
	}

	// unterminated string
	if lexer.Done() {
		return lexer.token(TokenIllegal, start, lexer.pos, string(lexer.buffer[start:lexer.pos]))
	}

	text := string(lexer.buffer[from:lexer.pos])
	lexer.Advance()
	return lexer.token(TokenCommand, start, lexer.pos, text)
}

func (lexer *Lexer) token(kind Kind, start, end int, text string) Token {
	return Token{
		Kind:  kind,
		Text:  text,
		Start: lexer.Pos(start),
		End:   lexer.Pos(end),
	}
}

// Pos maps a byte offset to its 1-based line and column
func (lexer *Lexer) Pos(offset int) hcl.Pos {
	if offset < 0 {
		offset = 0
	}

	if offset > len(lexer.buffer) {
		offset = len(lexer.buffer)
	}

	// index of the last line starting at or before offset
	line := sort.Search(len(lexer.lines), func(i int) bool {
		return lexer.lines[i] > offset
	}) - 1

	return hcl.Pos{
		Line:   line + 1,
		Column: offset - lexer.lines[line] + 1,
		Byte:   offset,
	}
}
