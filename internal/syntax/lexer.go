package syntax

import (
	"strings"

	"github.com/graphqlintel/graphqlintel/internal/types"
)

// TokenKind enumerates GraphQL's small fixed lexical alphabet (GraphQL
// spec §2.1.8, "Lexical Token"). Keywords (query, fragment, on, type...)
// are not reserved at the lexer level — they lex as TokName and the
// parser recognizes them contextually, matching how graphql-js and
// gqlparser both lex.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokName
	TokInt
	TokFloat
	TokString
	TokBlockString
	TokPunct // one of ! $ ( ) ... : = @ [ ] { | } &
	TokInvalid
)

// Token is a single lexical unit with its exact source span.
type Token struct {
	Kind  TokenKind
	Span  types.Span
	Value string // raw source text; for TokString/TokBlockString this is the *unescaped* value
}

// Lexer tokenizes a byte slice of GraphQL source. It never returns an
// error: unrecognized bytes become TokInvalid tokens, letting the
// parser decide how to recover (spec.md §4.3 "never aborts on the
// first syntax error").
type Lexer struct {
	src []byte
	pos int
}

func NewLexer(src []byte) *Lexer {
	return &Lexer{src: src}
}

func isNameStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isNameCont(b byte) bool {
	return isNameStart(b) || (b >= '0' && b <= '9')
}
func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Next returns the next token, skipping whitespace, commas, commentary
// (# to end of line), and the BOM.
func (lx *Lexer) Next() Token {
	lx.skipIgnored()
	start := lx.pos
	if lx.pos >= len(lx.src) {
		return Token{Kind: TokEOF, Span: types.Span{Start: start, End: start}}
	}

	b := lx.src[lx.pos]
	switch {
	case isNameStart(b):
		return lx.lexName()
	case isDigit(b) || (b == '-' && lx.peekDigitAfterSign()):
		return lx.lexNumber()
	case b == '"':
		if lx.hasBlockStringDelim() {
			return lx.lexBlockString()
		}
		return lx.lexString()
	case strings.IndexByte("!$():=@[]{|}&", b) >= 0:
		lx.pos++
		return Token{Kind: TokPunct, Span: types.Span{Start: start, End: lx.pos}, Value: string(b)}
	case b == '.' && lx.pos+2 < len(lx.src) && lx.src[lx.pos+1] == '.' && lx.src[lx.pos+2] == '.':
		lx.pos += 3
		return Token{Kind: TokPunct, Span: types.Span{Start: start, End: lx.pos}, Value: "..."}
	default:
		lx.pos++
		return Token{Kind: TokInvalid, Span: types.Span{Start: start, End: lx.pos}, Value: string(b)}
	}
}

func (lx *Lexer) peekDigitAfterSign() bool {
	return lx.pos+1 < len(lx.src) && isDigit(lx.src[lx.pos+1])
}

func (lx *Lexer) skipIgnored() {
	for lx.pos < len(lx.src) {
		b := lx.src[lx.pos]
		switch {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == ',':
			lx.pos++
		case b == 0xEF && lx.pos+2 < len(lx.src) && lx.src[lx.pos+1] == 0xBB && lx.src[lx.pos+2] == 0xBF:
			lx.pos += 3
		case b == '#':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
		default:
			return
		}
	}
}

func (lx *Lexer) lexName() Token {
	start := lx.pos
	for lx.pos < len(lx.src) && isNameCont(lx.src[lx.pos]) {
		lx.pos++
	}
	return Token{Kind: TokName, Span: types.Span{Start: start, End: lx.pos}, Value: string(lx.src[start:lx.pos])}
}

func (lx *Lexer) lexNumber() Token {
	start := lx.pos
	isFloat := false
	if lx.src[lx.pos] == '-' {
		lx.pos++
	}
	for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
		lx.pos++
	}
	if lx.pos < len(lx.src) && lx.src[lx.pos] == '.' && lx.pos+1 < len(lx.src) && isDigit(lx.src[lx.pos+1]) {
		isFloat = true
		lx.pos++
		for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
			lx.pos++
		}
	}
	if lx.pos < len(lx.src) && (lx.src[lx.pos] == 'e' || lx.src[lx.pos] == 'E') {
		save := lx.pos
		lx.pos++
		if lx.pos < len(lx.src) && (lx.src[lx.pos] == '+' || lx.src[lx.pos] == '-') {
			lx.pos++
		}
		if lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
			isFloat = true
			for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
				lx.pos++
			}
		} else {
			lx.pos = save
		}
	}
	kind := TokInt
	if isFloat {
		kind = TokFloat
	}
	return Token{Kind: kind, Span: types.Span{Start: start, End: lx.pos}, Value: string(lx.src[start:lx.pos])}
}

func (lx *Lexer) hasBlockStringDelim() bool {
	return lx.pos+2 < len(lx.src) && lx.src[lx.pos+1] == '"' && lx.src[lx.pos+2] == '"'
}

func (lx *Lexer) lexBlockString() Token {
	start := lx.pos
	lx.pos += 3
	contentStart := lx.pos
	for lx.pos < len(lx.src) {
		if lx.src[lx.pos] == '"' && lx.pos+2 < len(lx.src)+1 && lx.pos+2 <= len(lx.src) && lx.src[lx.pos+1] == '"' && lx.src[lx.pos+2] == '"' {
			break
		}
		if lx.src[lx.pos] == '\\' && lx.pos+3 < len(lx.src) && lx.src[lx.pos+1] == '"' && lx.src[lx.pos+2] == '"' && lx.src[lx.pos+3] == '"' {
			lx.pos += 4
			continue
		}
		lx.pos++
	}
	contentEnd := lx.pos
	if lx.pos+2 < len(lx.src) || (lx.pos+2 == len(lx.src)) {
		lx.pos += 3
	} else {
		// Unterminated: consume to EOF, let the caller report a syntax error.
		lx.pos = len(lx.src)
	}
	raw := string(lx.src[contentStart:min(contentEnd, len(lx.src))])
	raw = strings.ReplaceAll(raw, `\"""`, `"""`)
	return Token{Kind: TokBlockString, Span: types.Span{Start: start, End: lx.pos}, Value: blockStringValue(raw)}
}

// blockStringValue applies GraphQL's block-string whitespace-trimming
// algorithm (GraphQL spec §2.9.5 BlockStringValue()).
func blockStringValue(raw string) string {
	lines := strings.Split(raw, "\n")
	commonIndent := -1
	for i, line := range lines {
		if i == 0 {
			continue
		}
		indent := leadingWhitespace(line)
		if indent < len(line) && (commonIndent == -1 || indent < commonIndent) {
			commonIndent = indent
		}
	}
	if commonIndent > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= commonIndent {
				lines[i] = lines[i][commonIndent:]
			} else {
				lines[i] = ""
			}
		}
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func leadingWhitespace(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}

func (lx *Lexer) lexString() Token {
	start := lx.pos
	lx.pos++ // opening quote
	var b strings.Builder
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '"' && lx.src[lx.pos] != '\n' {
		if lx.src[lx.pos] == '\\' && lx.pos+1 < len(lx.src) {
			lx.pos++
			switch lx.src[lx.pos] {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case '/':
				b.WriteByte('/')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				if lx.pos+4 < len(lx.src) {
					b.WriteString(string(lx.src[lx.pos-1 : lx.pos+5]))
					lx.pos += 4
				}
			default:
				b.WriteByte(lx.src[lx.pos])
			}
			lx.pos++
			continue
		}
		b.WriteByte(lx.src[lx.pos])
		lx.pos++
	}
	if lx.pos < len(lx.src) && lx.src[lx.pos] == '"' {
		lx.pos++
	}
	return Token{Kind: TokString, Span: types.Span{Start: start, End: lx.pos}, Value: b.String()}
}
