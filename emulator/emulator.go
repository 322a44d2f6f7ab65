// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/mrtcpu/cpu"
)

const (
	DEFAULT_RAM_SIZE      = 64   // Default memory size, in bytes.
	DEFAULT_POLL_INTERVAL = 1000 // Ticks between checks for cancellation.
)

// Emulator state. CPU + attached program listing.
type Emulator struct {
	Verbose      bool         // If set, enables verbose logging.
	*cpu.Cpu                  // Reference to the CPU simulation.
	Program      *cpu.Program // Reference to the currently running program listing.
	PollInterval int          // Ticks between context polls in Run.
}

// NewEmulator creates a new emulator with ramSize bytes of memory.
func NewEmulator(ramSize int) (emu *Emulator) {
	emu = &Emulator{
		Cpu:          cpu.NewCpu(ramSize),
		Program:      &cpu.Program{},
		PollInterval: DEFAULT_POLL_INTERVAL,
	}

	return
}

// Defines returns an iterator over the equates describing the machine.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"SERIAL":  fmt.Sprintf("%v", cpu.SERIAL_ADDRESS),
		"RAMSIZE": fmt.Sprintf("%v", emu.Cpu.MemorySize()),
	}
	return maps.All(defines)
}

// Load resets the CPU, and loads the binary of the program as the rom image.
func (emu *Emulator) Load(prog *cpu.Program) (err error) {
	err = emu.LoadImage(prog.Binary())
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// LoadImage resets the CPU, and loads a raw rom image with no listing.
func (emu *Emulator) LoadImage(rom []byte) (err error) {
	err = emu.Cpu.LoadRom(rom)
	if err != nil {
		return
	}

	emu.Cpu.Reset()
	emu.Program = &cpu.Program{}
	return
}

// LineNo returns the current line number for the executing instruction,
// or 0 if it is not in the program listing.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	stmt, ok := emu.Program.Debug(emu.Cpu.Ip())
	if !ok {
		return 0
	}

	return stmt.Position.Line + 1
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool) {
	emu.Cpu.Verbose = emu.Verbose
	done = emu.Cpu.Tick()
	return
}

// Step ticks up to count times, stopping early if the CPU halts.
func (emu *Emulator) Step(count int) (done bool) {
	for range count {
		done = emu.Tick()
		if done {
			break
		}
	}

	return
}

// Run ticks until the CPU halts, or the context is done.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	interval := emu.PollInterval
	if interval <= 0 {
		interval = DEFAULT_POLL_INTERVAL
	}

	for {
		if err = ctx.Err(); err != nil {
			err = &ErrRuntime{Ip: emu.Cpu.Ip(), LineNo: emu.LineNo(), Err: err}
			return
		}

		if emu.Step(interval) {
			return
		}
	}
}

// Disassemble iterates over the instructions from one address up to
// (but not including) another.
func (emu *Emulator) Disassemble(from, to uint16) iter.Seq[cpu.Listing] {
	return func(yield func(ls cpu.Listing) bool) {
		for ls := range cpu.Disassembly(emu.Cpu.GetRom, from) {
			if ls.Ip >= to || !yield(ls) {
				return
			}
		}
	}
}

// DisassembleCount iterates over count instructions from the current ip.
func (emu *Emulator) DisassembleCount(count int) iter.Seq[cpu.Listing] {
	return func(yield func(ls cpu.Listing) bool) {
		if count <= 0 {
			return
		}
		n := 0
		for ls := range cpu.Disassembly(emu.Cpu.GetRom, emu.Cpu.Ip()) {
			if !yield(ls) {
				return
			}
			n++
			if n >= count {
				return
			}
		}
	}
}
