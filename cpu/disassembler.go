package cpu

import (
	"fmt"
	"iter"
)

// Disassemble decodes an instruction from its first two bytes. For one byte
// instructions the second byte is ignored.
func Disassemble(code0, code1 uint8) (ins Instruction, err error) {
	op, err := OpcodeFromCode(code0 >> 4)
	if err != nil {
		return
	}

	var regs []uint8
	var imms []uint8

	reg := code0 & 0xf
	reg2 := code1 >> 4
	reg3 := code1 & 0xf

	switch op.Shape() {
	case SHAPE_NO_PARAM:
	case SHAPE_REG_IMM:
		regs = []uint8{reg}
		imms = []uint8{code1}
	case SHAPE_DOUBLE_REG:
		regs = []uint8{reg, reg2}
	case SHAPE_DOUBLE_REG_IMM4:
		regs = []uint8{reg, reg2}
		imms = []uint8{code1 & 0xf}
	case SHAPE_TRIPLE_REG:
		regs = []uint8{reg, reg2, reg3}
	}

	// Registers always precede immediates in every shape.
	tokens := make([]Token, 0, len(regs)+len(imms))
	for _, code := range regs {
		var r Register
		r, err = RegisterFromCode(code)
		if err != nil {
			return
		}
		tokens = append(tokens, RegisterToken(r))
	}
	for _, imm := range imms {
		tokens = append(tokens, ImmediateToken(imm))
	}

	ins, err = Generate(op, &TokenQueue{Tokens: tokens})
	return
}

// Listing is the disassembly of the instruction at Ip.
type Listing struct {
	Ip          uint16
	Instruction Instruction
	Err         error
}

// Length returns the number of bytes to advance past this listing. Failed
// decodes advance by one byte.
func (ls Listing) Length() uint16 {
	if ls.Err != nil {
		return 1
	}
	return ls.Instruction.Length()
}

func (ls Listing) String() string {
	if ls.Err != nil {
		return fmt.Sprintf("%#04x: %v", ls.Ip, f("error: %v", ls.Err))
	}
	return fmt.Sprintf("%#04x: %v", ls.Ip, ls.Instruction)
}

// Disassembly iterates over consecutive instructions starting at ip, reading
// memory through read. The sequence ends only when the consumer stops, or
// the address wraps past 0xffff.
func Disassembly(read func(addr uint16) uint8, ip uint16) iter.Seq[Listing] {
	return func(yield func(ls Listing) bool) {
		for {
			ls := Listing{Ip: ip}
			ls.Instruction, ls.Err = Disassemble(read(ip), read(ip+1))
			if !yield(ls) {
				return
			}
			next := ip + ls.Length()
			if next < ip {
				return
			}
			ip = next
		}
	}
}
