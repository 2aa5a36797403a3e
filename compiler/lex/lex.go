package lex

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/slowlang/dl/compiler/tp"
)

type (
	Kind int

	Token struct {
		Kind  Kind
		Value string
		Num   int64 `tlog:",omitempty"`
		Line  int
	}

	scanner struct {
		toks []Token
		word []byte
		line int
	}
)

const (
	_ Kind = iota
	Symbol
	Type
	Keyword
	Number
	Identifier
)

const puncts = "+-*/()><=:;{}"

var keywords = map[string]struct{}{
	"main":   {},
	"return": {},
}

// Tokenize splits text into tokens. It never fails:
// characters it doesn't know end up in identifiers.
func Tokenize(text []byte) []Token {
	s := scanner{line: 1}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRune(text[i:])

		switch {
		case r == '\n':
			s.flush()
			s.line++
		case r < utf8.RuneSelf && isPunct(byte(r)):
			s.flush()
			s.emit(Symbol, string(r))
		case unicode.IsSpace(r):
			s.flush()
		default:
			s.word = append(s.word, text[i:i+size]...)
		}

		i += size
	}

	s.flush()

	return s.toks
}

func (s *scanner) flush() {
	if len(s.word) == 0 {
		return
	}

	w := string(s.word)
	s.word = s.word[:0]

	switch {
	case isDigits(w):
		// Too long literals keep Num zero, the parser reports them.
		v, _ := strconv.ParseInt(w, 10, 64)

		s.toks = append(s.toks, Token{Kind: Number, Value: w, Num: v, Line: s.line})
	case isType(w):
		s.emit(Type, w)
	case isKeyword(w):
		s.emit(Keyword, w)
	default:
		s.emit(Identifier, w)
	}
}

func (s *scanner) emit(k Kind, v string) {
	s.toks = append(s.toks, Token{Kind: k, Value: v, Line: s.line})
}

// Fits reports whether a Number token's text fits into Num.
func (t Token) Fits() bool {
	_, err := strconv.ParseInt(t.Value, 10, 64)
	return err == nil
}

func isPunct(c byte) bool {
	for i := 0; i < len(puncts); i++ {
		if puncts[i] == c {
			return true
		}
	}

	return false
}

func isDigits(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] < '0' || w[i] > '9' {
			return false
		}
	}

	return w != ""
}

func isType(w string) bool {
	_, ok := tp.Lookup(w)
	return ok
}

func isKeyword(w string) bool {
	_, ok := keywords[w]
	return ok
}

func (t Token) String() string {
	return fmt.Sprintf("%v %q at line %d", t.Kind, t.Value, t.Line)
}

func (k Kind) String() string {
	switch k {
	case Symbol:
		return "symbol"
	case Type:
		return "type"
	case Keyword:
		return "keyword"
	case Number:
		return "number"
	case Identifier:
		return "identifier"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}
