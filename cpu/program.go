package cpu

import (
	"iter"
)

// Statement is an assembled instruction with its source location and address.
type Statement struct {
	Position    Position
	Ip          uint16
	Instruction Instruction
}

// Program is an ordered list of assembled statements.
type Program struct {
	Statements []Statement
}

// Debug finds the statement whose encoding covers ip.
func (prog *Program) Debug(ip uint16) (stmt Statement, ok bool) {
	for _, st := range prog.Statements {
		if ip >= st.Ip && uint32(ip) < uint32(st.Ip)+uint32(st.Instruction.Length()) {
			stmt = st
			ok = true
			break
		}
	}

	return
}

// Binary serializes the program as a flat byte stream.
func (prog *Program) Binary() (code []byte) {
	for _, ins := range prog.Instructions() {
		code = append(code, ins.Bytes()...)
	}

	return
}

// Instructions iterates over the program's instructions by address.
func (prog *Program) Instructions() iter.Seq2[uint16, Instruction] {
	return func(yield func(ip uint16, ins Instruction) bool) {
		for _, st := range prog.Statements {
			if !yield(st.Ip, st.Instruction) {
				return
			}
		}
	}
}
