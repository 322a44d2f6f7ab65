package cpu

// AluOp is a two operand ALU function.
type AluOp func(a, b uint8) AluResult

// AluResult is the output byte of an ALU operation and the flags it produced.
type AluResult struct {
	Value uint8
	Flags Flags
}

// IsSigned returns true if the sign bit of the byte is set.
func IsSigned(value uint8) bool {
	return (value & 0x80) != 0
}

// aluFlags derives a fresh set of flags for an operation on a and b that
// produced value, with carry as reported by the operation.
func aluFlags(a, b uint8, value uint8, carry bool) (flags Flags) {
	flags.Zero = value == 0
	flags.Carry = carry
	flags.Sign = IsSigned(value)
	// Operands agree in sign, and the result does not.
	flags.Overflow = IsSigned(a) == IsSigned(b) && IsSigned(a) != IsSigned(value)
	return
}

// AluAdd is a + b. Carry is set on unsigned overflow out of the byte.
func AluAdd(a, b uint8) AluResult {
	sum := uint16(a) + uint16(b)
	value := uint8(sum)
	return AluResult{Value: value, Flags: aluFlags(a, b, value, sum > 0xff)}
}

// AluSub is a - b. Carry is set on borrow.
func AluSub(a, b uint8) AluResult {
	value := a - b
	return AluResult{Value: value, Flags: aluFlags(a, b, value, b > a)}
}

// AluAnd is a & b.
func AluAnd(a, b uint8) AluResult {
	value := a & b
	return AluResult{Value: value, Flags: aluFlags(a, b, value, false)}
}

// AluOr is a | b.
func AluOr(a, b uint8) AluResult {
	value := a | b
	return AluResult{Value: value, Flags: aluFlags(a, b, value, false)}
}

// AluXor is a ^ b.
func AluXor(a, b uint8) AluResult {
	value := a ^ b
	return AluResult{Value: value, Flags: aluFlags(a, b, value, false)}
}

// AluShl is a << b. The shift amount is taken modulo 8, and Carry is set
// when the requested amount was 8 or more.
func AluShl(a, b uint8) AluResult {
	value := a << (b & 7)
	return AluResult{Value: value, Flags: aluFlags(a, b, value, b >= 8)}
}

// AluShr is a >> b. The shift amount is taken modulo 8, and Carry is set
// when the requested amount was 8 or more.
func AluShr(a, b uint8) AluResult {
	value := a >> (b & 7)
	return AluResult{Value: value, Flags: aluFlags(a, b, value, b >= 8)}
}
