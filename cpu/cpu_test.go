package cpu

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/sim8085/io"
)

// newTestCpu creates a CPU with program loaded at address 0.
func newTestCpu(program ...uint8) (cpu *Cpu) {
	cpu = NewCpu()
	cpu.Load(0, program)
	return
}

// regs returns the concrete register file of a test CPU.
func regs(cpu *Cpu) *RegisterFile {
	return cpu.Registers.(*RegisterFile)
}

// doSteps executes count instructions, failing the test on any error.
func doSteps(t *testing.T, cpu *Cpu, count int) (result StepResult) {
	t.Helper()

	for range count {
		var err error
		result, err = cpu.Step()
		if err != nil {
			t.Log(cpu.String())
			t.Fatalf("%v", err)
		}
	}
	return
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	rf := regs(cpu)

	assert.Equal(uint16(0), cpu.Pc())
	assert.Equal(STACK_TOP, cpu.Sp())
	assert.Equal(uint8(0), cpu.Flags())

	rf.A = 0x12
	rf.PC = 0x1234
	rf.F = 0xff
	cpu.Halted = true
	cpu.InterruptEnable = true
	cpu.StackTop = 0x8000
	cpu.Memory.Write(0x10, 0x55)

	cpu.Reset()

	assert.Equal(uint8(0), rf.A)
	assert.Equal(uint16(0), cpu.Pc())
	assert.Equal(uint16(0x8000), cpu.Sp())
	assert.Equal(uint8(0), cpu.Flags())
	assert.False(cpu.Halted)
	assert.False(cpu.InterruptEnable)
	assert.Equal(uint8(0x55), cpu.Memory.Read(0x10))
}

func TestCpu_LoadDump(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	regs(cpu).A = 0x99

	cpu.Load(0xfffe, []byte{1, 2, 3, 4})
	assert.Equal([]byte{1, 2, 3, 4}, cpu.Dump(0xfffe, 4))
	assert.Equal(uint8(3), cpu.Memory.Read(0x0000))
	assert.Equal(uint8(0x99), regs(cpu).A)
	assert.Equal(uint16(0), cpu.Pc())
}

func TestCpu_MviMov(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(
		0x06, 0x42, // MVI B,42H
		0x78, // MOV A,B
	)

	result := doSteps(t, cpu, 1)
	assert.Equal(uint16(2), result.Pc)

	result = doSteps(t, cpu, 1)
	assert.Equal(uint16(3), result.Pc)
	assert.Equal(uint8(0x42), regs(cpu).A)
}

func TestCpu_MemoryOperand(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(
		0x21, 0x00, 0x50, // LXI H,5000H
		0x36, 0x99, // MVI M,99H
		0x7e,       // MOV A,M
		0x2c,       // INR L
		0x77,       // MOV M,A
		0x34,       // INR M
		0x86,       // ADD M
	)

	doSteps(t, cpu, 5)
	assert.Equal(uint8(0x99), cpu.Memory.Read(0x5000))
	assert.Equal(uint8(0x99), regs(cpu).A)
	assert.Equal(uint8(0x99), cpu.Memory.Read(0x5001))

	// M is resolved at each access, after INR L.
	doSteps(t, cpu, 1)
	assert.Equal(uint8(0x9a), cpu.Memory.Read(0x5001))

	doSteps(t, cpu, 1)
	assert.Equal(uint8(0x33), regs(cpu).A)
	assert.True(cpu.Flag(FLAG_C))
}

func TestCpu_AddWrap(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(0x80) // ADD B
	regs(cpu).A = 0xff
	regs(cpu).B = 0x01

	doSteps(t, cpu, 1)

	assert.Equal(uint8(0x00), regs(cpu).A)
	assert.True(cpu.Flag(FLAG_Z))
	assert.True(cpu.Flag(FLAG_C))
	assert.False(cpu.Flag(FLAG_S))
	assert.True(cpu.Flag(FLAG_P))
	assert.True(cpu.Flag(FLAG_AC))
}

func TestCpu_Alu(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name     string
		program  []uint8
		a        uint8
		carry    bool
		expected uint8
		set      uint8
		clear    uint8
	}{
		{"adi", []uint8{0xc6, 0x08}, 0x09, false, 0x11, FLAG_AC | FLAG_P, FLAG_C | FLAG_Z | FLAG_S},
		{"aci", []uint8{0xce, 0x01}, 0x01, true, 0x03, FLAG_P, FLAG_C | FLAG_AC},
		{"sui", []uint8{0xd6, 0x01}, 0x10, false, 0x0f, FLAG_AC | FLAG_P, FLAG_C},
		{"sui borrow", []uint8{0xd6, 0x01}, 0x00, false, 0xff, FLAG_C | FLAG_S | FLAG_AC, FLAG_Z},
		{"sbi", []uint8{0xde, 0x02}, 0x05, true, 0x02, 0, FLAG_C | FLAG_AC},
		{"ani", []uint8{0xe6, 0x0f}, 0x3c, true, 0x0c, FLAG_P, FLAG_C | FLAG_AC},
		{"xri", []uint8{0xee, 0xff}, 0x0f, true, 0xf0, FLAG_S | FLAG_P, FLAG_C},
		{"ori", []uint8{0xf6, 0x01}, 0x80, true, 0x81, FLAG_S | FLAG_P, FLAG_C},
		{"cpi less", []uint8{0xfe, 0x10}, 0x05, false, 0x05, FLAG_C, FLAG_Z},
		{"cpi equal", []uint8{0xfe, 0x05}, 0x05, false, 0x05, FLAG_Z, FLAG_C},
		{"xra a", []uint8{0xaf}, 0x5a, true, 0x00, FLAG_Z | FLAG_P, FLAG_C},
		{"sub a", []uint8{0x97}, 0x5a, true, 0x00, FLAG_Z, FLAG_C},
		{"sbb a", []uint8{0x9f}, 0x5a, true, 0xff, FLAG_C | FLAG_S, FLAG_Z},
	}

	for _, entry := range table {
		cpu := newTestCpu(entry.program...)
		regs(cpu).A = entry.a
		if entry.carry {
			regs(cpu).F = FLAG_C
		}

		doSteps(t, cpu, 1)

		assert.Equal(entry.expected, regs(cpu).A, entry.name)
		assert.Equal(entry.set, cpu.Flags()&entry.set, entry.name)
		assert.Equal(uint8(0), cpu.Flags()&entry.clear, entry.name)
		assert.Equal(uint16(len(entry.program)), cpu.Pc(), entry.name)
	}
}

func TestCpu_IncDecKeepsCarry(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(
		0x37,       // STC
		0x3e, 0xff, // MVI A,FFH
		0x3c, // INR A
		0x05, // DCR B
		0x3f, // CMC
		0x0c, // INR C
	)

	doSteps(t, cpu, 3)
	assert.Equal(uint8(0x00), regs(cpu).A)
	assert.True(cpu.Flag(FLAG_Z | FLAG_AC | FLAG_C))

	doSteps(t, cpu, 1)
	assert.Equal(uint8(0xff), regs(cpu).B)
	assert.True(cpu.Flag(FLAG_S | FLAG_AC | FLAG_C))
	assert.False(cpu.Flag(FLAG_Z))

	doSteps(t, cpu, 2)
	assert.Equal(uint8(0x01), regs(cpu).C)
	assert.False(cpu.Flag(FLAG_C))
}

func TestCpu_InxDcx(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(
		0x01, 0xff, 0xff, // LXI B,FFFFH
		0x03, // INX B
		0x1b, // DCX D
		0x33, // INX SP
	)

	doSteps(t, cpu, 4)
	assert.Equal(uint8(0x00), regs(cpu).B)
	assert.Equal(uint8(0x00), regs(cpu).C)
	assert.Equal(uint8(0xff), regs(cpu).D)
	assert.Equal(uint8(0xff), regs(cpu).E)
	assert.Equal(STACK_TOP+1, cpu.Sp())
	assert.Equal(uint8(0), cpu.Flags())
}

func TestCpu_Dad(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(
		0x21, 0xff, 0xff, // LXI H,FFFFH
		0x01, 0x01, 0x00, // LXI B,0001H
		0x09, // DAD B
		0x29, // DAD H
	)

	doSteps(t, cpu, 3)
	assert.Equal(uint8(0x00), regs(cpu).H)
	assert.Equal(uint8(0x00), regs(cpu).L)
	assert.Equal(FLAG_C, cpu.Flags())

	doSteps(t, cpu, 1)
	assert.Equal(uint8(0), cpu.Flags())
}

func TestCpu_Daa(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name     string
		a, add   uint8
		expected uint8
		carry    bool
	}{
		{"09+08", 0x09, 0x08, 0x17, false},
		{"99+01", 0x99, 0x01, 0x00, true},
		{"38+45", 0x38, 0x45, 0x83, false},
		{"58+46", 0x58, 0x46, 0x04, true},
	}

	for _, entry := range table {
		cpu := newTestCpu(
			0xc6, entry.add, // ADI
			0x27, // DAA
		)
		regs(cpu).A = entry.a

		doSteps(t, cpu, 2)
		assert.Equal(entry.expected, regs(cpu).A, entry.name)
		assert.Equal(entry.carry, cpu.Flag(FLAG_C), entry.name)
	}
}

func TestCpu_Rotate(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name     string
		opcode   uint8
		a        uint8
		carry    bool
		expected uint8
		carryOut bool
	}{
		{"rlc", 0x07, 0x81, false, 0x03, true},
		{"rrc", 0x0f, 0x81, false, 0xc0, true},
		{"ral", 0x17, 0x81, false, 0x02, true},
		{"ral carry", 0x17, 0x01, true, 0x03, false},
		{"rar", 0x1f, 0x02, true, 0x81, false},
		{"rar out", 0x1f, 0x01, false, 0x00, true},
	}

	for _, entry := range table {
		cpu := newTestCpu(entry.opcode)
		regs(cpu).A = entry.a
		if entry.carry {
			regs(cpu).F = FLAG_C
		}

		doSteps(t, cpu, 1)
		assert.Equal(entry.expected, regs(cpu).A, entry.name)
		assert.Equal(entry.carryOut, cpu.Flag(FLAG_C), entry.name)
		assert.False(cpu.Flag(FLAG_Z), entry.name)
	}
}

func TestCpu_CmaStcCmc(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(
		0x2f, // CMA
		0x37, // STC
		0x3f, // CMC
	)
	regs(cpu).A = 0x0f

	doSteps(t, cpu, 1)
	assert.Equal(uint8(0xf0), regs(cpu).A)
	assert.Equal(uint8(0), cpu.Flags())

	doSteps(t, cpu, 1)
	assert.Equal(FLAG_C, cpu.Flags())

	doSteps(t, cpu, 1)
	assert.Equal(uint8(0), cpu.Flags())
}

func TestCpu_DirectTransfer(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(
		0x3e, 0x77, // MVI A,77H
		0x32, 0x00, 0x20, // STA 2000H
		0x3e, 0x00, // MVI A,0
		0x3a, 0x00, 0x20, // LDA 2000H
		0x21, 0x34, 0x12, // LXI H,1234H
		0x22, 0x00, 0x40, // SHLD 4000H
		0x21, 0x00, 0x00, // LXI H,0
		0x2a, 0x00, 0x40, // LHLD 4000H
	)

	doSteps(t, cpu, 2)
	assert.Equal(uint8(0x77), cpu.Memory.Read(0x2000))

	doSteps(t, cpu, 2)
	assert.Equal(uint8(0x77), regs(cpu).A)

	doSteps(t, cpu, 2)
	assert.Equal([]byte{0x34, 0x12}, cpu.Dump(0x4000, 2))

	doSteps(t, cpu, 2)
	assert.Equal(uint8(0x12), regs(cpu).H)
	assert.Equal(uint8(0x34), regs(cpu).L)
}

func TestCpu_IndirectTransfer(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(
		0x11, 0x00, 0x30, // LXI D,3000H
		0x3e, 0x5a, // MVI A,5AH
		0x12,       // STAX D
		0x3e, 0x00, // MVI A,0
		0x1a, // LDAX D
		0xeb, // XCHG
	)

	doSteps(t, cpu, 3)
	assert.Equal(uint8(0x5a), cpu.Memory.Read(0x3000))

	doSteps(t, cpu, 2)
	assert.Equal(uint8(0x5a), regs(cpu).A)

	regs(cpu).H = 0xaa
	regs(cpu).L = 0xbb
	doSteps(t, cpu, 1)
	assert.Equal(uint8(0x30), regs(cpu).H)
	assert.Equal(uint8(0x00), regs(cpu).L)
	assert.Equal(uint8(0xaa), regs(cpu).D)
	assert.Equal(uint8(0xbb), regs(cpu).E)
}

func TestCpu_PushPop(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(
		0xc5, // PUSH B
		0xd1, // POP D
	)
	regs(cpu).B = 0x12
	regs(cpu).C = 0x34
	sp := cpu.Sp()

	doSteps(t, cpu, 1)
	assert.Equal(sp-2, cpu.Sp())
	assert.Equal(uint8(0x12), cpu.Memory.Read(sp-1))
	assert.Equal(uint8(0x34), cpu.Memory.Read(sp-2))

	doSteps(t, cpu, 1)
	assert.Equal(uint8(0x12), regs(cpu).D)
	assert.Equal(uint8(0x34), regs(cpu).E)
	assert.Equal(sp, cpu.Sp())
}

func TestCpu_PushPopPsw(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(
		0xf5, // PUSH PSW
		0xaf, // XRA A
		0xf1, // POP PSW
	)
	regs(cpu).A = 0x80
	regs(cpu).F = FLAG_S | FLAG_C | 0x02

	doSteps(t, cpu, 2)
	assert.Equal(uint8(0), regs(cpu).A)
	assert.True(cpu.Flag(FLAG_Z))

	doSteps(t, cpu, 1)
	assert.Equal(uint8(0x80), regs(cpu).A)
	assert.Equal(FLAG_S|FLAG_C|0x02, cpu.Flags())
}

func TestCpu_StackWrap(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(0xe5) // PUSH H
	regs(cpu).SP = 0x0001
	regs(cpu).H = 0xab
	regs(cpu).L = 0xcd

	doSteps(t, cpu, 1)
	assert.Equal(uint16(0xffff), cpu.Sp())
	assert.Equal(uint8(0xab), cpu.Memory.Read(0x0000))
	assert.Equal(uint8(0xcd), cpu.Memory.Read(0xffff))
}

func TestCpu_PcWrap(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	regs(cpu).PC = 0xffff

	result := doSteps(t, cpu, 1) // NOP
	assert.Equal(uint16(0x0000), result.Pc)
}

func TestCpu_CallRet(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(
		0xcd, 0x10, 0x00, // CALL 0010H
		0x76, // HLT
	)
	cpu.Load(0x10, []uint8{0xc9}) // RET
	sp := cpu.Sp()

	doSteps(t, cpu, 1)
	assert.Equal(uint16(0x0010), cpu.Pc())
	assert.Equal(sp-2, cpu.Sp())
	assert.Equal(uint8(0x00), cpu.Memory.Read(sp-1))
	assert.Equal(uint8(0x03), cpu.Memory.Read(sp-2))

	doSteps(t, cpu, 1)
	assert.Equal(uint16(0x0003), cpu.Pc())
	assert.Equal(sp, cpu.Sp())
}

func TestCpu_CmpJz(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(
		0xbf,             // CMP A
		0xca, 0x34, 0x12, // JZ 1234H
	)
	regs(cpu).A = 0x42

	doSteps(t, cpu, 1)
	assert.True(cpu.Flag(FLAG_Z))

	doSteps(t, cpu, 1)
	assert.Equal(uint16(0x1234), cpu.Pc())
}

func TestCpu_Conditions(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		cond  Cond
		flags uint8
		taken bool
	}{
		{COND_NZ, 0, true},
		{COND_NZ, FLAG_Z, false},
		{COND_Z, FLAG_Z, true},
		{COND_Z, 0, false},
		{COND_NC, 0, true},
		{COND_NC, FLAG_C, false},
		{COND_C, FLAG_C, true},
		{COND_C, 0, false},
		{COND_PO, 0, true},
		{COND_PO, FLAG_P, false},
		{COND_PE, FLAG_P, true},
		{COND_PE, 0, false},
		{COND_P, 0, true},
		{COND_P, FLAG_S, false},
		{COND_M, FLAG_S, true},
		{COND_M, 0, false},
	}

	for _, entry := range table {
		ccc := uint8(entry.cond) << 3

		// Jcc 2000H
		cpu := newTestCpu(0xc2|ccc, 0x00, 0x20)
		regs(cpu).F = entry.flags
		doSteps(t, cpu, 1)
		if entry.taken {
			assert.Equal(uint16(0x2000), cpu.Pc(), "J%v", entry.cond)
		} else {
			assert.Equal(uint16(3), cpu.Pc(), "J%v", entry.cond)
		}

		// Ccc 2000H
		cpu = newTestCpu(0xc4|ccc, 0x00, 0x20)
		regs(cpu).F = entry.flags
		doSteps(t, cpu, 1)
		if entry.taken {
			assert.Equal(uint16(0x2000), cpu.Pc(), "C%v", entry.cond)
			assert.Equal(STACK_TOP-2, cpu.Sp(), "C%v", entry.cond)
		} else {
			assert.Equal(uint16(3), cpu.Pc(), "C%v", entry.cond)
			assert.Equal(STACK_TOP, cpu.Sp(), "C%v", entry.cond)
		}

		// Rcc, returning to 3000H
		cpu = newTestCpu(0xc0 | ccc)
		regs(cpu).F = entry.flags
		regs(cpu).SP = 0x8000
		cpu.Load(0x8000, []uint8{0x00, 0x30})
		doSteps(t, cpu, 1)
		if entry.taken {
			assert.Equal(uint16(0x3000), cpu.Pc(), "R%v", entry.cond)
			assert.Equal(uint16(0x8002), cpu.Sp(), "R%v", entry.cond)
		} else {
			assert.Equal(uint16(1), cpu.Pc(), "R%v", entry.cond)
			assert.Equal(uint16(0x8000), cpu.Sp(), "R%v", entry.cond)
		}
	}
}

func TestCpu_Rst(t *testing.T) {
	assert := assert.New(t)

	for n := range 8 {
		cpu := NewCpu()
		regs(cpu).PC = 0x1000
		cpu.Load(0x1000, []uint8{0xc7 | uint8(n)<<3})

		doSteps(t, cpu, 1)
		assert.Equal(uint16(n*8), cpu.Pc())
		assert.Equal([]byte{0x01, 0x10}, cpu.Dump(cpu.Sp(), 2))
	}
}

func TestCpu_HlControl(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(
		0x21, 0x34, 0x12, // LXI H,1234H
		0xe3, // XTHL
		0xf9, // SPHL
		0xe9, // PCHL
	)
	cpu.Load(STACK_TOP, []uint8{0xcd, 0xab})

	doSteps(t, cpu, 2)
	assert.Equal(uint8(0xab), regs(cpu).H)
	assert.Equal(uint8(0xcd), regs(cpu).L)
	assert.Equal([]byte{0x34, 0x12}, cpu.Dump(STACK_TOP, 2))
	assert.Equal(STACK_TOP, cpu.Sp())

	doSteps(t, cpu, 1)
	assert.Equal(uint16(0xabcd), cpu.Sp())

	doSteps(t, cpu, 1)
	assert.Equal(uint16(0xabcd), cpu.Pc())
}

func TestCpu_Ports(t *testing.T) {
	assert := assert.New(t)

	program := []uint8{
		0x3e, 0x5a, // MVI A,5AH
		0xd3, 0x10, // OUT 10H
		0x3e, 0x00, // MVI A,0
		0xdb, 0x10, // IN 10H
	}

	// No port attached: pass-through latch.
	cpu := newTestCpu(program...)
	doSteps(t, cpu, 4)
	assert.Equal(uint8(0x5a), regs(cpu).A)

	// Attached tape.
	output := &bytes.Buffer{}
	cpu = newTestCpu(program...)
	cpu.Port = &io.Tape{Input: bytes.NewReader([]byte{0x99}), Output: output}
	doSteps(t, cpu, 4)
	assert.Equal(uint8(0x99), regs(cpu).A)
	assert.Equal([]byte{0x5a}, output.Bytes())
}

type brokenPort struct{}

func (brokenPort) In(port uint8) (uint8, error)     { return 0, io.ErrPortRead }
func (brokenPort) Out(port uint8, value uint8) error { return io.ErrPortWrite }

func TestCpu_PortError(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(0xdb, 0x01) // IN 01H
	cpu.Port = brokenPort{}

	_, err := cpu.Step()
	assert.ErrorIs(err, ErrOpcodePort)
	assert.ErrorIs(err, io.ErrPortRead)
	assert.ErrorIs(err, ErrOpcode{})
	assert.Equal(uint16(0), cpu.Pc())
}

func TestCpu_InterruptControl(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(
		0xfb, // EI
		0x20, // RIM
		0x30, // SIM
		0xf3, // DI
	)

	doSteps(t, cpu, 1)
	assert.True(cpu.InterruptEnable)

	doSteps(t, cpu, 2)
	assert.Equal(uint16(3), cpu.Pc())
	assert.Equal(uint8(0), regs(cpu).A)

	doSteps(t, cpu, 1)
	assert.False(cpu.InterruptEnable)
}

// recordingMemory counts writes to an underlying memory.
type recordingMemory struct {
	Ram
	Writes int
}

func (mem *recordingMemory) Write(addr uint16, value uint8) {
	mem.Writes++
	mem.Ram.Write(addr, value)
}

func TestCpu_Halt(t *testing.T) {
	assert := assert.New(t)

	mem := &recordingMemory{}
	cpu := NewCpu()
	cpu.Memory = mem
	cpu.Load(0, []uint8{0x76, 0x3c}) // HLT; INR A
	mem.Writes = 0

	result, err := cpu.Step()
	assert.NoError(err)
	assert.True(result.Halted)
	assert.Equal(uint16(1), result.Pc)
	assert.True(cpu.Halted)

	before := *regs(cpu)
	for range 3 {
		result, err = cpu.Step()
		assert.NoError(err)
		assert.True(result.Halted)
		assert.Equal(uint16(1), result.Pc)
	}
	assert.Equal(before, *regs(cpu))
	assert.Equal(0, mem.Writes)
	assert.Equal(1, cpu.Ticks)
}

func TestCpu_Unimplemented(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	regs(cpu).PC = 0x0100
	cpu.Load(0x0100, []uint8{0xdd})

	result, err := cpu.Step()
	assert.ErrorIs(err, ErrUnimplementedOpcode)
	assert.False(errors.Is(err, ErrHalted))
	assert.False(result.Halted)
	assert.Equal(uint16(0x0100), result.Pc)
	assert.Equal(uint16(0x0100), cpu.Pc())
	assert.False(cpu.Halted)

	var unimpl *ErrUnimplemented
	assert.True(errors.As(err, &unimpl))
	assert.Equal(uint8(0xdd), unimpl.Opcode)
	assert.Equal(uint16(0x0100), unimpl.Pc)
}

func TestCpu_Observer(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(
		0x00, // NOP
		0x08, // undefined
	)

	var seen []string
	var errs []error
	cpu.Observer = ObserverFunc(func(pc uint16, op Op, result StepResult, err error) {
		seen = append(seen, op.String())
		errs = append(errs, err)
	})

	doSteps(t, cpu, 1)
	_, err := cpu.Step()
	assert.Error(err)

	assert.Equal([]string{"NOP", "??? 0x08"}, seen)
	assert.NoError(errs[0])
	assert.ErrorIs(errs[1], ErrUnimplementedOpcode)
}

func TestCpu_IndependentSessions(t *testing.T) {
	assert := assert.New(t)

	first := newTestCpu(0x3e, 0x01) // MVI A,1
	second := newTestCpu(0x3e, 0x02) // MVI A,2

	doSteps(t, first, 1)
	doSteps(t, second, 1)

	assert.Equal(uint8(0x01), regs(first).A)
	assert.Equal(uint8(0x02), regs(second).A)
	assert.Equal(uint8(0x01), first.Memory.Read(1))
}

func TestRegisterFile_Invalid(t *testing.T) {
	assert := assert.New(t)

	rf := &RegisterFile{}

	_, err := rf.Get(REG_M)
	assert.ErrorIs(err, ErrInvalidRegister)
	assert.ErrorIs(rf.Set(REG_M, 1), ErrInvalidRegister)
	_, err = rf.Get(Reg(8))
	assert.ErrorIs(err, ErrInvalidRegister)

	for _, r := range []Reg{REG_B, REG_C, REG_D, REG_E, REG_H, REG_L, REG_A} {
		assert.NoError(rf.Set(r, uint8(r)+1))
		value, err := rf.Get(r)
		assert.NoError(err)
		assert.Equal(uint8(r)+1, value)
	}
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	regs(cpu).A = 0x12
	regs(cpu).F = FLAG_Z | FLAG_C

	assert.Equal("A:12 B:00 C:00 D:00 E:00 H:00 L:00 F:41[-Z--C] PC:0000 SP:F000", cpu.String())
}
