// Package cpu implements the MRT-CPU microprocessor, its assembler, and its
// disassembler.
//
// The CPU is an 8-bit machine with sixteen 8-bit registers (r0-r15), a
// 16-bit instruction pointer (IP), an ALU with Zero/Carry/Sign/Overflow
// flags, and a single byte-addressable memory shared by program and data.
// Instructions are one or two bytes: the high nibble of the first byte is
// the opcode, and the opcode's Shape fixes the operands that follow.
//
// The assembler tokenizes source text, classifies each word as an opcode,
// register, or immediate, and builds instructions with Generate. The
// disassembler synthesizes operand tokens from raw bytes and calls the same
// Generate, so assembly and disassembly always agree on operand order.
package cpu
