// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/k0kubun/pp/v3"

	"github.com/ezrec/mrtcpu/cpu"
	"github.com/ezrec/mrtcpu/emulator"
	"github.com/ezrec/mrtcpu/io"
	"github.com/ezrec/mrtcpu/translate"
)

// defineList collects -D name=value predefines.
type defineList map[string]string

func (dl defineList) String() string {
	var list []string
	for name, value := range dl {
		list = append(list, fmt.Sprintf("%v=%v", name, value))
	}
	return strings.Join(list, ",")
}

func (dl defineList) Set(text string) error {
	name, value, ok := strings.Cut(text, "=")
	if !ok || len(name) == 0 {
		return errors.New(translate.From("expected name=value, not %q", text))
	}
	dl[name] = value
	return nil
}

func main() {
	var compile string
	var output string
	var rom string
	var ramSize int
	var steps int
	var disassemble int
	var verbose bool
	var dump bool
	defines := defineList{}

	flag.StringVar(&compile, "c", "", "assembly file to compile")
	flag.StringVar(&output, "o", "", "write the compiled rom here, do not execute")
	flag.StringVar(&rom, "r", "", "rom file to load")
	flag.IntVar(&ramSize, "m", emulator.DEFAULT_RAM_SIZE, "ram size, in bytes")
	flag.IntVar(&steps, "n", 0, "instructions to step (0 runs until halt)")
	flag.IntVar(&disassemble, "d", 0, "instructions to disassemble before execution")
	flag.Var(defines, "D", "predefine an equate as name=value")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&dump, "dump", false, "dump the program listing and final state")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) == 0 && len(rom) == 0 {
		log.Fatalf("%v: %v", os.Args[0], translate.From("one of -c or -r is required"))
	}

	emu := emulator.NewEmulator(ramSize)
	emu.Verbose = verbose
	prog := &cpu.Program{}

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose, Path: compile}
		for name, value := range emu.Defines() {
			asm.Predefine(name, value)
		}
		for name, value := range defines {
			asm.Predefine(name, value)
		}
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v", err)
		}

		if dump {
			pp.Fprintln(os.Stderr, prog)
		}

		if len(output) != 0 {
			ouf, err := os.Create(output)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
			defer ouf.Close()

			image := io.RamFrom(prog.Binary())
			err = image.Marshal(ouf)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
			return
		}

		err = emu.Load(prog)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	} else {
		inf, err := os.Open(rom)
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}
		defer inf.Close()

		image := &io.Rom{}
		err = image.Unmarshal(inf)
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}

		err = emu.LoadImage(image.Data)
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}
	}

	for ls := range emu.DisassembleCount(disassemble) {
		translate.Fprintf(os.Stderr, "%v\n", ls)
	}

	if steps > 0 {
		emu.Step(steps)
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		err := emu.Run(ctx)
		if err != nil {
			translate.Fprintf(os.Stderr, "\n%v\n", err)
		}
	}

	translate.Fprintf(os.Stderr, "\n%v", emu.Cpu)
	translate.Fprintf(os.Stderr, "ticks=%d halted=%v line=%d\n", emu.Cpu.Ticks(), emu.Cpu.Halted(), emu.LineNo())

	if dump {
		pp.Fprintln(os.Stderr, emu.Cpu.State())
	}
}
