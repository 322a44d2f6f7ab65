package cpu

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// logRecorder collects diagnostics.
type logRecorder struct {
	lines []string
}

func (lr *logRecorder) Printf(format string, args ...any) {
	lr.lines = append(lr.lines, fmt.Sprintf(format, args...))
}

func (lr *logRecorder) String() string {
	return strings.Join(lr.lines, "\n")
}

func newTestCpu(ramSize int) (cpu *Cpu, lr *logRecorder) {
	lr = &logRecorder{}
	cpu = NewCpu(ramSize)
	cpu.Log = lr
	cpu.Serial.Output = &bytes.Buffer{}
	return
}

// runProgram assembles and runs source until halt, or limit ticks.
func runProgram(t *testing.T, cpu *Cpu, source []string, limit int) (halted bool) {
	code, err := Compile([]byte(strings.Join(source, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	err = cpu.LoadRom(code)
	if err != nil {
		t.Fatal(err)
	}

	for range limit {
		if cpu.Tick() {
			return true
		}
	}

	return false
}

func TestCpu_New(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(64)
	assert.False(cpu.Verbose)
	assert.NotNil(cpu.Log)
	assert.Equal(64, cpu.MemorySize())
	assert.Equal(State{}, cpu.State())
}

func TestCpu_Tick(t *testing.T) {
	assert := assert.New(t)

	cpu, lr := newTestCpu(0)
	assert.NoError(cpu.LoadRom([]byte{0x10, 0x0a, 0x00}))

	assert.False(cpu.Tick())
	assert.Equal(uint8(10), cpu.Registers()[0])
	assert.Equal(uint16(2), cpu.Ip())

	assert.True(cpu.Tick())
	assert.Equal(uint16(2), cpu.Ip())
	assert.True(cpu.Halted())
	assert.Contains(lr.String(), "halting at ip=0x0002")

	// Halted is terminal.
	assert.True(cpu.Tick())
	assert.Equal(uint16(2), cpu.Ip())
	assert.Equal(2, cpu.Ticks())
}

func TestCpu_Hlt(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(0)
	assert.NoError(cpu.LoadRom([]byte{byte(OP_HLT)}))

	assert.True(cpu.Tick())
	assert.Equal(uint16(0), cpu.Ip())
}

func TestCpu_LoadRom(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(2)
	assert.NoError(cpu.LoadRom([]byte{byte(OP_HLT)}))
	assert.Equal(2, cpu.MemorySize())

	cpu.SetMem(1, 255)
	assert.Equal(uint8(255), cpu.GetMem(1))

	cpu, _ = newTestCpu(0)
	assert.NoError(cpu.LoadRom([]byte{byte(OP_XOR) << 4}))
	assert.Equal(1, cpu.MemorySize())
	assert.Equal(uint8(0x70), cpu.GetMem(0))

	assert.ErrorIs(cpu.LoadRom(nil), ErrEmptyRom)
	assert.ErrorIs(cpu.LoadRam([]byte{}), ErrEmptyRam)
}

func TestCpu_LoadRam(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(64)
	assert.NoError(cpu.LoadRam([]byte{1, 2, 3}))
	assert.Equal(3, cpu.MemorySize())
	assert.Equal(uint8(3), cpu.GetMem(2))
}

func TestCpu_Serial(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(4)
	output := &bytes.Buffer{}
	cpu.Serial.Output = output

	cpu.SetMem(SERIAL_ADDRESS, 65)
	assert.Equal("A", output.String())
	assert.Equal(1, cpu.Serial.Written)

	// Address 0 is write-only output.
	assert.Equal(uint8(0), cpu.GetMem(SERIAL_ADDRESS))

	// High bytes are Latin-1 characters.
	cpu.SetMem(SERIAL_ADDRESS, 0xe9)
	assert.Equal("A\u00e9", output.String())
	assert.Equal(2, cpu.Serial.Written)
}

func TestCpu_NegativeRam(t *testing.T) {
	assert := assert.New(t)

	cpu, lr := newTestCpu(-1)
	assert.Equal(0, cpu.MemorySize())
	assert.Equal(uint8(0), cpu.GetMem(1))
	assert.Contains(lr.String(), "out of bounds memory load")

	assert.NoError(cpu.LoadRom([]byte{0x10, 0x0a, 0x00}))
	assert.Equal(3, cpu.MemorySize())
}

func TestCpu_SerialProgram(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(64)
	output := &bytes.Buffer{}
	cpu.Serial.Output = output

	halted := runProgram(t, cpu, []string{
		"LDI r1 72",
		"SB r1 r0 r0",
		"LDI r1 $(0x69)",
		"SB r1 r0 r0",
		"HLT",
	}, 100)
	assert.True(halted)
	assert.Equal("Hi", output.String())
}

func TestCpu_Memory(t *testing.T) {
	assert := assert.New(t)

	cpu, lr := newTestCpu(64)
	halted := runProgram(t, cpu, []string{
		"LDI r1 0",
		"LDI r2 40",
		"LDI r3 99",
		"SB r3 r1 r2",
		"LB r4 r1 r2",
		"HLT",
	}, 100)
	assert.True(halted)
	assert.Equal(uint8(99), cpu.Registers()[4])
	assert.Equal(uint8(99), cpu.GetMem(40))
	assert.NotContains(lr.String(), "out of bounds")
}

func TestCpu_MemoryOutOfBounds(t *testing.T) {
	assert := assert.New(t)

	cpu, lr := newTestCpu(64)
	halted := runProgram(t, cpu, []string{
		"LDI r1 1",
		"LDI r3 7",
		"LB r3 r1 r2",
		"SB r3 r1 r2",
		"HLT",
	}, 100)
	assert.True(halted)
	assert.Equal(uint8(0), cpu.Registers()[3])
	assert.Contains(lr.String(), "out of bounds memory load [0x0100] ip=0x0006")
	assert.Contains(lr.String(), "out of bounds memory store [0x0100] ip=0x0008")
	assert.Equal(uint16(8), cpu.Ip())
}

func TestCpu_IllegalInstruction(t *testing.T) {
	assert := assert.New(t)

	cpu, lr := newTestCpu(0)
	assert.NoError(cpu.LoadRom([]byte{0xf0}))

	assert.False(cpu.Tick())
	assert.Equal(uint16(0), cpu.Ip())
	assert.Equal(0, cpu.Ticks())
	assert.Contains(lr.String(), "illegal instruction 15 at ip=0x0000")
}

func TestCpu_FetchPastEnd(t *testing.T) {
	assert := assert.New(t)

	// LDI with its immediate missing reads 0.
	cpu, _ := newTestCpu(0)
	assert.NoError(cpu.LoadRom([]byte{0x15}))

	assert.False(cpu.Tick())
	assert.Equal(uint8(0), cpu.Registers()[5])
	assert.Equal(uint16(2), cpu.Ip())

	// Past the end of memory is all HLT.
	assert.True(cpu.Tick())
	assert.Equal(uint16(2), cpu.Ip())
	assert.Equal(uint8(0), cpu.GetRom(1000))
}

func TestCpu_Jnz(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(64)
	halted := runProgram(t, cpu, []string{
		"LDI r1 3",     // 0
		"LDI r2 1",     // 2
		"LDI r4 6",     // 4
		"SUB r1 r1 r2", // 6
		"JNZ r0 r4",    // 8
		"HLT",          // 10
	}, 100)
	assert.True(halted)
	assert.Equal(uint8(0), cpu.Registers()[1])
	assert.Equal(uint16(10), cpu.Ip())
	assert.Equal(Flags{Zero: true}, cpu.Flags())
	assert.Equal(10, cpu.Ticks())
}

func TestCpu_Jc(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(64)
	halted := runProgram(t, cpu, []string{
		"LDI r5 9",     // 0
		"LDI r2 1",     // 2
		"SUB r3 r1 r2", // 4
		"JC r0 r5",     // 6
		"HLT",          // 8
		"LDI r6 42",    // 9
		"HLT",          // 11
	}, 100)
	assert.True(halted)
	assert.Equal(uint8(42), cpu.Registers()[6])
	assert.Equal(uint16(11), cpu.Ip())
	assert.True(cpu.Flags().Carry)
}

func TestCpu_Jal(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(64)
	code, err := Compile([]byte(strings.Join([]string{
		"LDI r1 0",     // 0
		"LDI r2 7",     // 2
		"JAL r3 r1 r2", // 4
		"HLT",          // 6
		"HLT",          // 7
	}, "\n")))
	assert.NoError(err)
	assert.NoError(cpu.LoadRom(code))

	cpu.Tick()
	cpu.Tick()
	assert.False(cpu.Tick())
	assert.Equal(uint16(7), cpu.Ip())
	assert.Equal(uint8(0), cpu.Registers()[3])
	assert.Equal(uint8(6), cpu.Registers()[1])
	assert.Equal(uint8(7), cpu.Registers()[2])

	assert.True(cpu.Tick())
	assert.Equal(uint16(7), cpu.Ip())
}

func TestCpu_Alu(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(64)
	halted := runProgram(t, cpu, []string{
		"LDI r1 0x81",
		"LDI r2 0x0f",
		"ADD r5 r1 r2",
		"XOR r6 r1 r2",
		"AND r7 r1 r2",
		"OR r8 r1 r2",
		"SHL r9 r1 1",
		"NOT r10 r1",
		"SHR r12 r1 9",
		"NOT r13 r2",
		"HLT",
	}, 100)
	assert.True(halted)

	regs := cpu.Registers()
	assert.Equal(uint8(0x90), regs[5])
	assert.Equal(uint8(0x8e), regs[6])
	assert.Equal(uint8(0x01), regs[7])
	assert.Equal(uint8(0x8f), regs[8])
	assert.Equal(uint8(0x02), regs[9])
	assert.Equal(uint8(0x7e), regs[10])
	assert.Equal(uint8(0x40), regs[12])
	assert.Equal(uint8(0xf0), regs[13])

	// NOT leaves the flags of the last ALU operation.
	assert.Equal(Flags{Carry: true}, cpu.Flags())
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(64)
	halted := runProgram(t, cpu, []string{
		"LDI r1 1",
		"LDI r2 0",
		"SUB r3 r2 r1",
		"HLT",
	}, 100)
	assert.True(halted)
	assert.Equal(4, cpu.Ticks())

	state := cpu.State()
	assert.Equal(uint16(6), state.Ip)
	assert.True(state.Halted)
	assert.Equal(uint8(0xff), state.Registers[3])
	assert.Equal("CSO", state.Flags.String())

	cpu.Reset()
	assert.Equal(State{}, cpu.State())
	assert.Equal(uint8(0x11), cpu.GetMem(0))

	assert.False(cpu.Tick())
	assert.Equal(uint8(1), cpu.Registers()[1])

	// Jump leaves the halted state.
	cpu.Jump(6)
	assert.True(cpu.Tick())
	cpu.Jump(0)
	assert.False(cpu.Halted())
	assert.Equal(uint16(0), cpu.Ip())
}

func TestCpu_SetRegister(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(64)
	cpu.SetRegister(REG_R15, 0x12)
	assert.Equal(uint8(0x12), cpu.Registers()[15])
	assert.Contains(cpu.String(), "r15 = 0x12")
	assert.Contains(cpu.String(), "ip=0x0000")
}

func TestCpu_Verbose(t *testing.T) {
	assert := assert.New(t)

	cpu, lr := newTestCpu(0)
	cpu.Verbose = true
	assert.NoError(cpu.LoadRom([]byte{0x10, 0x0a, 0x00}))

	cpu.Tick()
	assert.Contains(lr.String(), "0000: LDI r0 0x0a")
}
