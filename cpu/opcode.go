package cpu

import (
	"fmt"
	"strings"
)

// Opcode is the operation held in the high nibble of an instruction.
type Opcode uint8

const (
	OP_HLT = Opcode(0)  // hlt
	OP_LDI = Opcode(1)  // ldi
	OP_ADD = Opcode(2)  // add
	OP_SB  = Opcode(3)  // sb
	OP_LB  = Opcode(4)  // lb
	OP_JNZ = Opcode(5)  // jnz
	OP_JAL = Opcode(6)  // jal
	OP_XOR = Opcode(7)  // xor
	OP_SUB = Opcode(8)  // sub
	OP_SHL = Opcode(9)  // shl
	OP_SHR = Opcode(10) // shr
	OP_JC  = Opcode(11) // jc
	OP_NOT = Opcode(12) // not
	OP_AND = Opcode(13) // and
	OP_OR  = Opcode(14) // or

	OPCODE_COUNT = 15
)

var opcodeName = [OPCODE_COUNT]string{
	"HLT", "LDI", "ADD", "SB", "LB", "JNZ", "JAL", "XOR",
	"SUB", "SHL", "SHR", "JC", "NOT", "AND", "OR",
}

var opcodeShape = [OPCODE_COUNT]Shape{
	OP_HLT: SHAPE_NO_PARAM,
	OP_LDI: SHAPE_REG_IMM,
	OP_ADD: SHAPE_TRIPLE_REG,
	OP_SB:  SHAPE_TRIPLE_REG,
	OP_LB:  SHAPE_TRIPLE_REG,
	OP_JNZ: SHAPE_DOUBLE_REG,
	OP_JAL: SHAPE_TRIPLE_REG,
	OP_XOR: SHAPE_TRIPLE_REG,
	OP_SUB: SHAPE_TRIPLE_REG,
	OP_SHL: SHAPE_DOUBLE_REG_IMM4,
	OP_SHR: SHAPE_DOUBLE_REG_IMM4,
	OP_JC:  SHAPE_DOUBLE_REG,
	OP_NOT: SHAPE_DOUBLE_REG,
	OP_AND: SHAPE_TRIPLE_REG,
	OP_OR:  SHAPE_TRIPLE_REG,
}

// OpcodeFromCode converts a 4-bit numeric code to an Opcode.
func OpcodeFromCode(code uint8) (op Opcode, err error) {
	if code >= OPCODE_COUNT {
		err = ErrNoSuchOpcode
		return
	}

	op = Opcode(code)
	return
}

// ParseOpcode converts a case-insensitive mnemonic to an Opcode.
func ParseOpcode(word string) (op Opcode, err error) {
	upper := strings.ToUpper(word)
	for n, name := range opcodeName {
		if name == upper {
			op = Opcode(n)
			return
		}
	}

	err = ErrNoSuchOpcode
	return
}

// String returns the upper case mnemonic.
func (op Opcode) String() string {
	if op >= OPCODE_COUNT {
		return fmt.Sprintf("Opcode(%d)", uint8(op))
	}
	return opcodeName[op]
}

// Shape returns the operand shape of the opcode.
func (op Opcode) Shape() Shape {
	if op >= OPCODE_COUNT {
		return SHAPE_NO_PARAM
	}
	return opcodeShape[op]
}

// Length returns the encoded size of the opcode's instructions, in bytes.
func (op Opcode) Length() uint16 {
	if op.Shape() == SHAPE_NO_PARAM {
		return 1
	}
	return 2
}

// Register identifies one of the general purpose registers.
type Register uint8

// Register code 11 has no register assigned to it.
const (
	REG_R0  = Register(0)
	REG_R1  = Register(1)
	REG_R2  = Register(2)
	REG_R3  = Register(3)
	REG_R4  = Register(4)
	REG_R5  = Register(5)
	REG_R6  = Register(6)
	REG_R7  = Register(7)
	REG_R8  = Register(8)
	REG_R9  = Register(9)
	REG_R10 = Register(10)
	REG_R12 = Register(12)
	REG_R13 = Register(13)
	REG_R14 = Register(14)
	REG_R15 = Register(15)

	REGISTER_FILE_SIZE = 16
)

var registerValid = [REGISTER_FILE_SIZE]bool{
	true, true, true, true, true, true, true, true,
	true, true, true, false, true, true, true, true,
}

// RegisterFromCode converts a 4-bit numeric code to a Register.
func RegisterFromCode(code uint8) (reg Register, err error) {
	if code >= REGISTER_FILE_SIZE || !registerValid[code] {
		err = ErrNoSuchRegister
		return
	}

	reg = Register(code)
	return
}

// ParseRegister converts a case-insensitive mnemonic (r0 .. r15) to a Register.
func ParseRegister(word string) (reg Register, err error) {
	lower := strings.ToLower(word)
	for n, valid := range registerValid {
		if valid && lower == fmt.Sprintf("r%d", n) {
			reg = Register(n)
			return
		}
	}

	err = ErrNoSuchRegister
	return
}

// String returns the lower case mnemonic.
func (reg Register) String() string {
	return fmt.Sprintf("r%d", uint8(reg))
}

// Shape is the operand pattern of an instruction.
type Shape int

const (
	SHAPE_NO_PARAM        = Shape(0) // NoParam
	SHAPE_REG_IMM         = Shape(1) // RegImm
	SHAPE_DOUBLE_REG      = Shape(2) // DoubleReg
	SHAPE_DOUBLE_REG_IMM4 = Shape(3) // DoubleRegImm4
	SHAPE_TRIPLE_REG      = Shape(4) // TripleReg
)

var shapeName = []string{"NoParam", "RegImm", "DoubleReg", "DoubleRegImm4", "TripleReg"}

func (shape Shape) String() string {
	if shape < 0 || int(shape) >= len(shapeName) {
		return fmt.Sprintf("Shape(%d)", int(shape))
	}
	return shapeName[shape]
}

// Instruction is a decoded instruction. Only the operands used by the
// opcode's Shape are meaningful; the rest are zero.
type Instruction struct {
	Opcode Opcode
	Reg    Register
	Reg2   Register
	Reg3   Register
	Imm    uint8 // Full byte for RegImm, low nibble for DoubleRegImm4.
}

// MakeNoParam creates a NoParam instruction.
func MakeNoParam(op Opcode) Instruction {
	return Instruction{Opcode: op}
}

// MakeRegImm creates a RegImm instruction.
func MakeRegImm(op Opcode, reg Register, imm uint8) Instruction {
	return Instruction{Opcode: op, Reg: reg, Imm: imm}
}

// MakeDoubleReg creates a DoubleReg instruction.
func MakeDoubleReg(op Opcode, reg, reg2 Register) Instruction {
	return Instruction{Opcode: op, Reg: reg, Reg2: reg2}
}

// MakeDoubleRegImm4 creates a DoubleRegImm4 instruction.
func MakeDoubleRegImm4(op Opcode, reg, reg2 Register, imm4 uint8) Instruction {
	return Instruction{Opcode: op, Reg: reg, Reg2: reg2, Imm: imm4 & 0xf}
}

// MakeTripleReg creates a TripleReg instruction.
func MakeTripleReg(op Opcode, reg, reg2, reg3 Register) Instruction {
	return Instruction{Opcode: op, Reg: reg, Reg2: reg2, Reg3: reg3}
}

// Shape returns the operand shape of the instruction.
func (ins Instruction) Shape() Shape {
	return ins.Opcode.Shape()
}

// Length returns the encoded size of the instruction, in bytes.
func (ins Instruction) Length() uint16 {
	return ins.Opcode.Length()
}

// Bytes serializes the instruction.
//
//	NoParam        [op:4 0:4]
//	RegImm         [op:4 reg:4] [imm:8]
//	DoubleReg      [op:4 reg:4] [reg2:4 0:4]
//	DoubleRegImm4  [op:4 reg:4] [reg2:4 imm4:4]
//	TripleReg      [op:4 reg:4] [reg2:4 reg3:4]
func (ins Instruction) Bytes() (code []byte) {
	op := uint8(ins.Opcode) << 4
	reg := uint8(ins.Reg) & 0xf
	reg2 := (uint8(ins.Reg2) & 0xf) << 4

	switch ins.Shape() {
	case SHAPE_NO_PARAM:
		code = []byte{op}
	case SHAPE_REG_IMM:
		code = []byte{op | reg, ins.Imm}
	case SHAPE_DOUBLE_REG:
		code = []byte{op | reg, reg2}
	case SHAPE_DOUBLE_REG_IMM4:
		code = []byte{op | reg, reg2 | (ins.Imm & 0xf)}
	case SHAPE_TRIPLE_REG:
		code = []byte{op | reg, reg2 | (uint8(ins.Reg3) & 0xf)}
	}

	return
}

// String returns the assembly language form of the instruction.
func (ins Instruction) String() (text string) {
	switch ins.Shape() {
	case SHAPE_NO_PARAM:
		text = ins.Opcode.String()
	case SHAPE_REG_IMM:
		text = fmt.Sprintf("%v %v %#02x", ins.Opcode, ins.Reg, ins.Imm)
	case SHAPE_DOUBLE_REG:
		text = fmt.Sprintf("%v %v %v", ins.Opcode, ins.Reg, ins.Reg2)
	case SHAPE_DOUBLE_REG_IMM4:
		text = fmt.Sprintf("%v %v %v %v", ins.Opcode, ins.Reg, ins.Reg2, ins.Imm)
	case SHAPE_TRIPLE_REG:
		text = fmt.Sprintf("%v %v %v %v", ins.Opcode, ins.Reg, ins.Reg2, ins.Reg3)
	}

	return
}
