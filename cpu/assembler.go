// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"maps"
	"strconv"
	"strings"
)

// Predefined system equates
var sysEquate = map[string]string{
	"SERIAL": fmt.Sprintf("%d", SERIAL_ADDRESS),
}

// Assembler is a single pass assembler for the MRT-CPU.
//
// Source text is tokenized, each lexeme is classified as an opcode,
// register, or immediate, and instructions are built from the classified
// tokens one opcode at a time. The first error aborts the pass.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Path    string // Source path reported in positions.

	predefine map[string]string // Predefines
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Compile assembles source text into a flat binary image.
func Compile(source []byte) (binary []byte, err error) {
	asm := &Assembler{}
	prog, err := asm.Parse(bytes.NewReader(source))
	if err != nil {
		return
	}

	binary = prog.Binary()
	return
}

// Parse assembles an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return
	}

	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	lexemes, err := Tokenize(&Source{Path: asm.Path}, data)
	if err != nil {
		return
	}

	tokens, positions, err := asm.classify(lexemes)
	if err != nil {
		return
	}

	prog, err = asm.build(tokens, positions)
	return
}

// parseNumber parses a decimal immediate, or a hexadecimal immediate with a
// lower case 0x prefix.
func parseNumber(word string) (value uint8, err error) {
	v64, perr := strconv.ParseUint(word, 10, 8)
	if perr != nil && len(word) > 2 && strings.HasPrefix(word, "0x") {
		v64, perr = strconv.ParseUint(word[2:], 16, 8)
	}
	if perr != nil {
		err = ErrInvalidNumber(word)
		return
	}

	value = uint8(v64)
	return
}

// valueOf classifies a symbol as an opcode, a register, or an equate, in
// that order.
func (asm *Assembler) valueOf(word string) (tok Token, err error) {
	op, err := ParseOpcode(word)
	if err == nil {
		tok = OpcodeToken(op)
		return
	}

	reg, err := ParseRegister(word)
	if err == nil {
		tok = RegisterToken(reg)
		return
	}
	err = nil

	equate, ok := asm.Equate[word]
	if !ok {
		err = ErrUnknownSymbol(word)
		return
	}

	value, perr := equateValue(equate)
	if perr != nil || value < 0 || value > 0xff {
		err = ErrInvalidNumber(equate)
		return
	}

	tok = ImmediateToken(uint8(value))
	return
}

// classify converts lexemes to tokens, dropping comments and whitespace.
func (asm *Assembler) classify(lexemes []Lexeme) (tokens []Token, positions []Position, err error) {
	for _, lx := range lexemes {
		var tok Token

		switch lx.Type {
		case LEX_COMMENT, LEX_WHITESPACE:
			continue
		case LEX_SYMBOL:
			tok, err = asm.valueOf(lx.Text)
		case LEX_NUMBER:
			var imm uint8
			imm, err = parseNumber(lx.Text)
			tok = ImmediateToken(imm)
		case LEX_EXPRESSION:
			var imm uint8
			imm, err = asm.evalExpression(lx.Text[2 : len(lx.Text)-1])
			tok = ImmediateToken(imm)
		default:
			err = ErrUnknownSymbol(lx.Text)
		}

		if err != nil {
			return
		}

		tokens = append(tokens, tok)
		positions = append(positions, lx.Position)
	}

	return
}

// build walks the tokens, generating one instruction per opcode token.
func (asm *Assembler) build(tokens []Token, positions []Position) (prog *Program, err error) {
	queue := &TokenQueue{Tokens: tokens}
	statements := []Statement{}

	var ip uint16
	for !queue.Empty() {
		pos := positions[queue.Index()]

		var tok Token
		tok, err = queue.Next()
		if err != nil {
			return
		}

		if tok.Kind != TOKEN_OPCODE {
			err = ErrUnexpectedTokenType(tok)
			return
		}

		var ins Instruction
		ins, err = Generate(tok.Opcode, queue)
		if err != nil {
			return
		}

		if asm.Verbose {
			log.Printf("%v: %04x: %v", pos, ip, ins)
		}

		statements = append(statements, Statement{Position: pos, Ip: ip, Instruction: ins})
		ip += ins.Length()
	}

	prog = &Program{
		Statements: statements,
	}

	return
}
