package calc

import (
	"iter"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Token is a lexical token with its position in the source.
type Token struct {
	Kind TokenKind
	// Text is the source text of the token.
	Text string
	// Span is the half-open range of byte offsets of the token in the source.
	Span Span
}

func (t Token) String() string {
	return t.Kind.String() + ":" + strconv.Quote(t.Text) + "@" + t.Span.String()
}

// Span is a half-open range of byte offsets.
type Span struct {
	Start, End int
}

func (s Span) String() string {
	return strconv.Itoa(s.Start) + ".." + strconv.Itoa(s.End)
}

// join returns the smallest span covering s and t.
func (s Span) join(t Span) Span {
	return Span{Start: min(s.Start, t.Start), End: max(s.End, t.End)}
}

// TokenKind is the type of a lexical token.
type TokenKind int8

const (
	tokenNone TokenKind = iota
	// TokenError is a character that starts no valid token.
	TokenError
	// TokenSpace is a run of whitespace.
	TokenSpace
	// TokenInt is an integer literal.
	TokenInt
	// TokenFloat is a literal with a fractional part or an exponent.
	TokenFloat
	// TokenIdent is a variable or function name.
	TokenIdent
	// TokenLet introduces a definition.
	TokenLet
	TokenEqual
	// TokenUnderscore refers to the previous answer.
	TokenUnderscore
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenCaret
	TokenBang
	TokenOpen
	TokenClose
	TokenComma
)

var tokenNames = [...]string{
	tokenNone:       "None",
	TokenError:      "Error",
	TokenSpace:      "Space",
	TokenInt:        "Int",
	TokenFloat:      "Float",
	TokenIdent:      "Ident",
	TokenLet:        "Let",
	TokenEqual:      "Equal",
	TokenUnderscore: "Underscore",
	TokenPlus:       "Plus",
	TokenMinus:      "Minus",
	TokenStar:       "Star",
	TokenSlash:      "Slash",
	TokenPercent:    "Percent",
	TokenCaret:      "Caret",
	TokenBang:       "Bang",
	TokenOpen:       "Open",
	TokenClose:      "Close",
	TokenComma:      "Comma",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenNames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenNames[k]
}

// punctuation maps each single-character token to its kind.
var punctuation = map[rune]TokenKind{
	'=': TokenEqual,
	'_': TokenUnderscore,
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'%': TokenPercent,
	'^': TokenCaret,
	'!': TokenBang,
	'(': TokenOpen,
	')': TokenClose,
	',': TokenComma,
}

type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

// peek returns the rune at byte offset k from the current position and its
// width. At the end of the input, the width is 0.
func (l *lexer) peek(k int) (rune, int) {
	if l.pos+k >= len(l.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(l.src[l.pos+k:])
}

// next scans the next token. The second result is false once the input is
// exhausted.
func (l *lexer) next() (Token, bool) {
	r, sz := l.peek(0)
	if sz == 0 {
		return Token{}, false
	}
	start := l.pos
	var kind TokenKind
	switch {
	case unicode.IsSpace(r):
		l.scanSpace()
		kind = TokenSpace
	case '0' <= r && r <= '9':
		kind = l.scanNum()
	case unicode.IsLetter(r):
		l.scanIdent()
		kind = TokenIdent
		if l.src[start:l.pos] == "let" {
			kind = TokenLet
		}
	default:
		l.pos += sz
		kind = punctuation[r]
		if kind == tokenNone {
			// Invalid bytes decode as RuneError with width 1, so the error
			// covers exactly one character either way.
			kind = TokenError
		}
	}
	tok := Token{
		Kind: kind,
		Text: l.src[start:l.pos],
		Span: Span{Start: start, End: l.pos},
	}
	return tok, true
}

func (l *lexer) scanSpace() {
	for {
		r, sz := l.peek(0)
		if sz == 0 || !unicode.IsSpace(r) {
			return
		}
		l.pos += sz
	}
}

// scanNum scans the longest match of (0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?
// and reports whether it is an integer or a float.
func (l *lexer) scanNum() TokenKind {
	kind := TokenInt
	if l.src[l.pos] == '0' {
		l.pos++
	} else {
		l.pos += l.digits(0)
	}
	// A dot or exponent marker is only part of the number if digits follow.
	if r, _ := l.peek(0); r == '.' {
		if n := l.digits(1); n > 0 {
			l.pos += 1 + n
			kind = TokenFloat
		}
	}
	if r, _ := l.peek(0); r == 'e' || r == 'E' {
		k := 1
		if r, _ := l.peek(1); r == '+' || r == '-' {
			k++
		}
		if n := l.digits(k); n > 0 {
			l.pos += k + n
			kind = TokenFloat
		}
	}
	return kind
}

// digits counts the ASCII digits starting at byte offset k from the current
// position without consuming them.
func (l *lexer) digits(k int) int {
	n := 0
	for i := l.pos + k; i < len(l.src) && '0' <= l.src[i] && l.src[i] <= '9'; i++ {
		n++
	}
	return n
}

func (l *lexer) scanIdent() {
	for {
		r, sz := l.peek(0)
		if sz == 0 || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return
		}
		l.pos += sz
	}
}

// Lex returns the sequence of tokens in src, including whitespace tokens.
// Characters which start no token produce TokenError tokens one character
// wide, so lexing never stops early. Each iteration rescans src from the
// start.
func Lex(src string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		l := newLexer(src)
		for {
			tok, ok := l.next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}
