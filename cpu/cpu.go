package cpu

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ezrec/mrtcpu/io"
)

// SERIAL_ADDRESS is the memory-mapped address of the serial output port.
// Writes to it are sent to Cpu.Serial instead of memory.
const SERIAL_ADDRESS = io.SERIAL_ADDRESS

// Logger receives engine diagnostics. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

// State is a snapshot of the CPU registers.
type State struct {
	Ip        uint16
	Registers [REGISTER_FILE_SIZE]uint8
	Flags     Flags
	Halted    bool
	Ticks     int
}

// Cpu is the simulation context for the MRT-CPU.
//
// The Cpu never faults: illegal opcodes and out-of-bounds memory accesses
// are reported to Log and treated as no-ops, so that it stays steppable over
// malformed memory.
type Cpu struct {
	Verbose bool      // Set to enable verbose logging.
	Log     Logger    // Diagnostic sink.
	Serial  io.Serial // Memory-mapped output port.

	ram      *io.Ram                   // Unified program and data memory.
	register [REGISTER_FILE_SIZE]uint8 // Register bank.
	ip       uint16                    // Current instruction pointer.
	flags    Flags                     // Flags of the last ALU operation.
	halted   bool                      // Set by HLT.
	ticks    int                       // Executed instruction counter.
}

// NewCpu creates a new CPU with ramSize bytes of memory.
func NewCpu(ramSize int) (cpu *Cpu) {
	cpu = &Cpu{
		Log:    log.Default(),
		Serial: io.Serial{Output: os.Stdout},
		ram:    io.NewRam(ramSize),
	}

	return
}

// logf reports a diagnostic.
func (cpu *Cpu) logf(format string, args ...any) {
	if cpu.Log == nil {
		return
	}
	cpu.Log.Printf("%v", f(format, args...))
}

// Reset the CPU state.
// - Clears the registers, flags, and IP.
// - Leaves the halted state.
// - Zeros the tick counter.
// Memory is unchanged.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		cpu.logf("cpu: reset")
	}

	clear(cpu.register[:])
	cpu.flags = Flags{}
	cpu.ip = 0
	cpu.halted = false
	cpu.ticks = 0
	cpu.Serial.Rewind()
}

// LoadRom replaces memory with the rom image. If memory was previously
// larger than the image, it is grown back to that size with zeros.
func (cpu *Cpu) LoadRom(rom []byte) (err error) {
	if len(rom) == 0 {
		err = ErrEmptyRom
		return
	}

	size := cpu.ram.Size()
	cpu.ram = io.RamFrom(rom)
	if size > cpu.ram.Size() {
		cpu.ram.Resize(size)
	}
	cpu.halted = false

	return
}

// LoadRam replaces memory with the ram image, sized exactly to it.
func (cpu *Cpu) LoadRam(ram []byte) (err error) {
	if len(ram) == 0 {
		err = ErrEmptyRam
		return
	}

	cpu.ram = io.RamFrom(ram)
	cpu.halted = false

	return
}

// MemorySize returns the size of memory, in bytes.
func (cpu *Cpu) MemorySize() int {
	return cpu.ram.Size()
}

// GetMem reads memory. Out-of-bounds reads are reported, and return 0.
func (cpu *Cpu) GetMem(addr uint16) (value uint8) {
	value, err := cpu.ram.Get(int(addr))
	if err != nil {
		cpu.logf("out of bounds memory load [%#06x] ip=%#04x", addr, cpu.ip)
		value = 0
	}

	return
}

// SetMem writes memory. Writes to SERIAL_ADDRESS go to the serial port;
// out-of-bounds writes are reported, and dropped.
func (cpu *Cpu) SetMem(addr uint16, value uint8) {
	if addr == SERIAL_ADDRESS {
		err := cpu.Serial.Send(value)
		if err != nil {
			cpu.logf("serial: %v", err)
		}
		return
	}

	err := cpu.ram.Set(int(addr), value)
	if err != nil {
		cpu.logf("out of bounds memory store [%#06x] ip=%#04x", addr, cpu.ip)
	}
}

// GetRom reads raw memory without diagnostics; out-of-bounds reads return 0.
func (cpu *Cpu) GetRom(addr uint16) uint8 {
	return cpu.fetch(int(addr))
}

// fetch reads memory for instruction decode.
func (cpu *Cpu) fetch(addr int) (value uint8) {
	value, _ = cpu.ram.Get(addr)
	return
}

// Registers returns a copy of the register bank.
func (cpu *Cpu) Registers() [REGISTER_FILE_SIZE]uint8 {
	return cpu.register
}

// SetRegister sets a register.
func (cpu *Cpu) SetRegister(reg Register, value uint8) {
	cpu.register[reg&0xf] = value
}

// Ip returns the instruction pointer.
func (cpu *Cpu) Ip() uint16 {
	return cpu.ip
}

// Flags returns the flags of the last ALU operation.
func (cpu *Cpu) Flags() Flags {
	return cpu.flags
}

// Halted returns true once HLT has executed, until the next reset, jump, or load.
func (cpu *Cpu) Halted() bool {
	return cpu.halted
}

// Ticks returns the number of instructions executed since the last Reset.
func (cpu *Cpu) Ticks() int {
	return cpu.ticks
}

// Jump sets the instruction pointer, leaving the halted state.
func (cpu *Cpu) Jump(addr uint8) {
	cpu.ip = uint16(addr)
	cpu.halted = false
}

// State returns a snapshot of the CPU registers.
func (cpu *Cpu) State() State {
	return State{
		Ip:        cpu.ip,
		Registers: cpu.register,
		Flags:     cpu.flags,
		Halted:    cpu.halted,
		Ticks:     cpu.ticks,
	}
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	var sb strings.Builder
	for y := range 4 {
		for x := range 4 {
			n := y*4 + x
			fmt.Fprintf(&sb, "%3s = %#02x ", fmt.Sprintf("r%d", n), cpu.register[n])
		}
		switch y {
		case 0:
			fmt.Fprintf(&sb, "\tip=%#04x", cpu.ip)
		case 1:
			fmt.Fprintf(&sb, "\t%v", cpu.flags)
		}
		sb.WriteString("\n")
	}

	text = sb.String()
	return
}

// alu stores the result of an ALU operation, replacing the flags.
func (cpu *Cpu) alu(dst uint8, a, b uint8, op AluOp) {
	result := op(a, b)
	cpu.flags = result.Flags
	cpu.register[dst] = result.Value
}

// Tick executes a single instruction, returning true if the CPU is halted.
//
// The IP is advanced past the instruction before it executes, so jumps
// overwrite it and JAL links to the following instruction. HLT leaves the
// IP on itself.
func (cpu *Cpu) Tick() (halted bool) {
	if cpu.halted {
		return true
	}

	code0 := cpu.fetch(int(cpu.ip))
	code1 := cpu.fetch(int(cpu.ip) + 1)

	op, err := OpcodeFromCode(code0 >> 4)
	if err != nil {
		cpu.logf("illegal instruction %d at ip=%#04x", code0>>4, cpu.ip)
		return false
	}

	if cpu.Verbose {
		ins, err := Disassemble(code0, code1)
		if err != nil {
			cpu.logf("%04x: %02x %02x %v", cpu.ip, code0, code1, err)
		} else {
			cpu.logf("%04x: %v", cpu.ip, ins)
		}
	}

	reg := code0 & 0xf
	reg2 := code1 >> 4
	reg3 := code1 & 0xf
	imm := code1
	imm4 := code1 & 0xf

	r := &cpu.register
	offset := uint16(r[reg2])<<8 | uint16(r[reg3])

	cpu.ticks++
	cpu.ip += op.Length()

	switch op {
	case OP_HLT:
		cpu.ip -= op.Length()
		cpu.halted = true
		cpu.logf("halting at ip=%#04x", cpu.ip)
		return true
	case OP_LDI:
		r[reg] = imm
	case OP_ADD:
		cpu.alu(reg, r[reg2], r[reg3], AluAdd)
	case OP_SUB:
		cpu.alu(reg, r[reg2], r[reg3], AluSub)
	case OP_XOR:
		cpu.alu(reg, r[reg2], r[reg3], AluXor)
	case OP_AND:
		cpu.alu(reg, r[reg2], r[reg3], AluAnd)
	case OP_OR:
		cpu.alu(reg, r[reg2], r[reg3], AluOr)
	case OP_SHL:
		cpu.alu(reg, r[reg2], imm4, AluShl)
	case OP_SHR:
		cpu.alu(reg, r[reg2], imm4, AluShr)
	case OP_SB:
		cpu.SetMem(offset, r[reg])
	case OP_LB:
		r[reg] = cpu.GetMem(offset)
	case OP_JNZ:
		if !cpu.flags.Zero {
			cpu.ip = uint16(r[reg])<<8 | uint16(r[reg2])
		}
	case OP_JC:
		if cpu.flags.Carry {
			cpu.ip = uint16(r[reg])<<8 | uint16(r[reg2])
		}
	case OP_JAL:
		link := cpu.ip
		r[reg] = uint8(link >> 8)
		r[reg2] = uint8(link)
		cpu.ip = offset
	case OP_NOT:
		r[reg] = ^r[reg2]
	}

	return false
}
