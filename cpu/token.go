package cpu

import (
	"fmt"
)

// TokenKind is the kind of value an operand Token carries.
type TokenKind int

const (
	TOKEN_OPCODE    = TokenKind(0) // opcode
	TOKEN_REGISTER  = TokenKind(1) // register
	TOKEN_IMMEDIATE = TokenKind(2) // immediate
)

// Token is a classified unit of assembly: an opcode, a register, or an
// immediate byte.
type Token struct {
	Kind      TokenKind
	Opcode    Opcode
	Register  Register
	Immediate uint8
}

// OpcodeToken creates an opcode Token.
func OpcodeToken(op Opcode) Token {
	return Token{Kind: TOKEN_OPCODE, Opcode: op}
}

// RegisterToken creates a register Token.
func RegisterToken(reg Register) Token {
	return Token{Kind: TOKEN_REGISTER, Register: reg}
}

// ImmediateToken creates an immediate Token.
func ImmediateToken(imm uint8) Token {
	return Token{Kind: TOKEN_IMMEDIATE, Immediate: imm}
}

func (tok Token) String() string {
	switch tok.Kind {
	case TOKEN_OPCODE:
		return fmt.Sprintf("opcode %v", tok.Opcode)
	case TOKEN_REGISTER:
		return fmt.Sprintf("register %v", tok.Register)
	case TOKEN_IMMEDIATE:
		return fmt.Sprintf("immediate %d", tok.Immediate)
	}
	return fmt.Sprintf("token kind %d", int(tok.Kind))
}

// TokenSource supplies the operands of an instruction, in order.
type TokenSource interface {
	// Next returns the next token, or ErrUnexpectedEOF when exhausted.
	Next() (tok Token, err error)
}

// TokenQueue is a TokenSource over a slice of tokens.
type TokenQueue struct {
	Tokens []Token
	index  int
}

var _ TokenSource = (*TokenQueue)(nil)

// Next pops the token at the front of the queue.
func (tq *TokenQueue) Next() (tok Token, err error) {
	if tq.Empty() {
		err = ErrUnexpectedEOF
		return
	}

	tok = tq.Tokens[tq.index]
	tq.index++
	return
}

// Empty returns true if all tokens have been consumed.
func (tq *TokenQueue) Empty() bool {
	return tq.index >= len(tq.Tokens)
}

// Index returns the position of the next token in Tokens.
func (tq *TokenQueue) Index() int {
	return tq.index
}

// register pulls a Register operand.
func register(src TokenSource) (reg Register, err error) {
	tok, err := src.Next()
	if err != nil {
		return
	}
	if tok.Kind != TOKEN_REGISTER {
		err = ErrUnexpectedTokenType(tok)
		return
	}

	reg = tok.Register
	return
}

// immediate pulls an Immediate operand.
func immediate(src TokenSource) (imm uint8, err error) {
	tok, err := src.Next()
	if err != nil {
		return
	}
	if tok.Kind != TOKEN_IMMEDIATE {
		err = ErrUnexpectedTokenType(tok)
		return
	}

	imm = tok.Immediate
	return
}

// Generate builds an instruction for the opcode, pulling the operands its
// Shape requires from src in encoding order: reg, then reg2 or imm, then
// reg3 or imm4.
func Generate(op Opcode, src TokenSource) (ins Instruction, err error) {
	if op >= OPCODE_COUNT {
		err = ErrNoSuchOpcode
		return
	}

	var reg, reg2, reg3 Register
	var imm uint8

	switch op.Shape() {
	case SHAPE_NO_PARAM:
		ins = MakeNoParam(op)
	case SHAPE_REG_IMM:
		if reg, err = register(src); err != nil {
			return
		}
		if imm, err = immediate(src); err != nil {
			return
		}
		ins = MakeRegImm(op, reg, imm)
	case SHAPE_DOUBLE_REG:
		if reg, err = register(src); err != nil {
			return
		}
		if reg2, err = register(src); err != nil {
			return
		}
		ins = MakeDoubleReg(op, reg, reg2)
	case SHAPE_DOUBLE_REG_IMM4:
		if reg, err = register(src); err != nil {
			return
		}
		if reg2, err = register(src); err != nil {
			return
		}
		if imm, err = immediate(src); err != nil {
			return
		}
		if imm > 0xf {
			err = ErrImmediateRange(imm)
			return
		}
		ins = MakeDoubleRegImm4(op, reg, reg2, imm)
	case SHAPE_TRIPLE_REG:
		if reg, err = register(src); err != nil {
			return
		}
		if reg2, err = register(src); err != nil {
			return
		}
		if reg3, err = register(src); err != nil {
			return
		}
		ins = MakeTripleReg(op, reg, reg2, reg3)
	}

	return
}
