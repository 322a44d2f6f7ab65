package cpu

import (
	"errors"
	"fmt"
	"strings"
)

// Source names an assembly input. Every Position from one input shares the
// same *Source.
type Source struct {
	Path string
}

// Position locates a character in a Source.
type Position struct {
	Source *Source
	Offset int // Byte offset of the character in the input.
	Line   int // Line number, from 0.
	Column int // Characters consumed on this line, including this one.
}

// NextChar advances the column.
func (pos *Position) NextChar() {
	pos.Column++
}

// NextLine advances to the start of the next line.
func (pos *Position) NextLine() {
	pos.Line++
	pos.Column = 0
}

// LineInfo returns the line and column.
func (pos Position) LineInfo() (line, column int) {
	return pos.Line, pos.Column
}

func (pos Position) String() string {
	path := ""
	if pos.Source != nil {
		path = pos.Source.Path
	}
	return fmt.Sprintf("%v:%d:%d", path, pos.Line+1, pos.Column)
}

// LexemeType is the lexical class of a Lexeme.
type LexemeType int

const (
	LEX_UNKNOWN    = LexemeType(0) // unknown
	LEX_SYMBOL     = LexemeType(1) // symbol
	LEX_NUMBER     = LexemeType(2) // number
	LEX_WHITESPACE = LexemeType(3) // whitespace
	LEX_COMMENT    = LexemeType(4) // comment
	LEX_EXPRESSION = LexemeType(5) // expression
)

var lexemeTypeName = []string{"unknown", "symbol", "number", "whitespace", "comment", "expression"}

func (lt LexemeType) String() string {
	if lt < 0 || int(lt) >= len(lexemeTypeName) {
		return fmt.Sprintf("LexemeType(%d)", int(lt))
	}
	return lexemeTypeName[lt]
}

// Lexeme is a run of source characters of a single lexical class.
type Lexeme struct {
	Type     LexemeType
	Text     string
	Position Position // Position of the first character.

	depth int // Open parentheses of an expression.
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isHexLetter(c rune) bool {
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// lexemeTypeOf returns the class of lexeme a character can start.
func lexemeTypeOf(c rune) (lt LexemeType, ok bool) {
	ok = true
	switch {
	case c == '#':
		lt = LEX_COMMENT
	case c == '$':
		lt = LEX_EXPRESSION
	case isLetter(c):
		lt = LEX_SYMBOL
	case isDigit(c):
		lt = LEX_NUMBER
	case isSpace(c):
		lt = LEX_WHITESPACE
	default:
		ok = false
	}
	return
}

// hasHexPrefix is true for number text starting with 0x or 0X.
func hasHexPrefix(text string) bool {
	return len(text) >= 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X')
}

// numberTakes returns true if c extends the number lexeme.
func (lx *Lexeme) numberTakes(c rune) bool {
	switch {
	case isDigit(c):
		return true
	case (c == 'x' || c == 'X') && lx.Text == "0":
		return true
	case isHexLetter(c) && hasHexPrefix(lx.Text):
		return true
	case c == '.' && !strings.Contains(lx.Text, "."):
		return true
	}
	return false
}

// Closed returns true if an expression lexeme has seen its final ')'.
func (lx *Lexeme) Closed() bool {
	return lx.Type != LEX_EXPRESSION || (lx.depth == 0 && len(lx.Text) > 1)
}

// Take appends a character to the lexeme. An empty lexeme takes its type
// from the first character. A character that cannot extend the lexeme
// returns ErrIncompatibleTypes, or ErrUnknownCharacter if it cannot start
// any lexeme either.
func (lx *Lexeme) Take(c rune) (err error) {
	var takes bool

	switch lx.Type {
	case LEX_UNKNOWN:
		lt, ok := lexemeTypeOf(c)
		if !ok {
			err = ErrUnknownCharacter(c)
			return
		}
		lx.Type = lt
		takes = true
	case LEX_COMMENT:
		takes = c != '\n'
	case LEX_SYMBOL:
		takes = isLetter(c) || isDigit(c)
	case LEX_NUMBER:
		takes = lx.numberTakes(c)
	case LEX_WHITESPACE:
		takes = isSpace(c)
	case LEX_EXPRESSION:
		switch {
		case lx.Closed():
			takes = false
		case len(lx.Text) == 1:
			if c != '(' {
				err = ErrUnknownCharacter(c)
				return
			}
			lx.depth++
			takes = true
		case c == '(':
			lx.depth++
			takes = true
		case c == ')':
			lx.depth--
			takes = true
		default:
			takes = true
		}
	}

	if takes {
		lx.Text += string(c)
		return
	}

	lt, ok := lexemeTypeOf(c)
	if !ok {
		err = ErrUnknownCharacter(c)
		return
	}

	err = ErrIncompatibleTypes{New: lt, Current: lx.Type}
	return
}

// Tokenize splits the input into lexemes. Leading whitespace is skipped;
// all other characters, comments included, belong to exactly one lexeme.
// The first lexical error aborts, and is returned as an *ErrTokenize at the
// position of the offending character.
func Tokenize(source *Source, input []byte) (lexemes []Lexeme, err error) {
	pos := Position{Source: source}
	var current *Lexeme

	for n, b := range input {
		c := rune(b)

		pos.Offset = n
		if c == '\n' {
			pos.NextLine()
		} else {
			pos.NextChar()
		}

		if current == nil {
			if isSpace(c) {
				continue
			}
			current = &Lexeme{Position: pos}
		}

		err = current.Take(c)

		var incompatible ErrIncompatibleTypes
		if errors.As(err, &incompatible) {
			lexemes = append(lexemes, *current)
			current = &Lexeme{Position: pos}
			err = current.Take(c)
		}

		if err != nil {
			err = &ErrTokenize{Position: pos, Err: err}
			return
		}
	}

	if current != nil {
		if !current.Closed() {
			err = &ErrTokenize{Position: current.Position, Err: ErrUnexpectedEOF}
			return
		}
		lexemes = append(lexemes, *current)
	}

	return
}
