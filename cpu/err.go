package cpu

import (
	"errors"

	"github.com/ezrec/mrtcpu/translate"
)

var f = translate.From

var (
	// Conversion errors
	ErrNoSuchOpcode   = errors.New(f("no such opcode"))
	ErrNoSuchRegister = errors.New(f("no such register"))

	// Assembler errors
	ErrUnexpectedEOF = errors.New(f("unexpected end of input"))

	// Load errors
	ErrEmptyRom = errors.New(f("empty rom"))
	ErrEmptyRam = errors.New(f("empty ram"))
)

// ErrUnexpectedTokenType is a token of the wrong kind for its position.
type ErrUnexpectedTokenType Token

func (err ErrUnexpectedTokenType) Error() string {
	return f("unexpected %v", Token(err).String())
}

// ErrImmediateRange is an immediate too large for a 4-bit field.
type ErrImmediateRange uint8

func (err ErrImmediateRange) Error() string {
	return f("immediate %d does not fit in 4 bits", uint8(err))
}

type ErrUnknownSymbol string

func (err ErrUnknownSymbol) Error() string {
	return f("'%v' is not an opcode, register, or equate", string(err))
}

type ErrInvalidNumber string

func (err ErrInvalidNumber) Error() string {
	return f("'%v' is not a number from 0 to 255", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrUnknownCharacter is a character that cannot start any lexeme.
type ErrUnknownCharacter rune

func (err ErrUnknownCharacter) Error() string {
	return f("unknown character %q", rune(err))
}

// ErrIncompatibleTypes is a character that cannot extend the current lexeme.
type ErrIncompatibleTypes struct {
	New     LexemeType
	Current LexemeType
}

func (err ErrIncompatibleTypes) Error() string {
	return f("%v incompatible with %v", err.New, err.Current)
}

// ErrTokenize locates a lexical error in the source.
type ErrTokenize struct {
	Position Position
	Err      error
}

func (err *ErrTokenize) Error() string {
	return f("%v: %v", err.Position, err.Err)
}

func (err *ErrTokenize) Unwrap() error {
	return err.Err
}
