package cpu

import (
	"errors"
	"fmt"

	"github.com/ezrec/sim8085/io"
)

// Port is an I/O port interface.
type Port io.Port

// STACK_TOP is the default initial stack pointer.
const STACK_TOP = uint16(0xF000)

// StepResult reports the outcome of a single step.
type StepResult struct {
	Pc     uint16 // Program counter after the step.
	Halted bool   // Set once HLT has executed.
}

// Observer is notified after each executed step.
type Observer interface {
	Observe(pc uint16, op Op, result StepResult, err error)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(pc uint16, op Op, result StepResult, err error)

func (fn ObserverFunc) Observe(pc uint16, op Op, result StepResult, err error) {
	fn(pc, op, result, err)
}

// Cpu is the simulation context for one 8085 session.
type Cpu struct {
	Registers Registers // Register file.
	Memory    Memory    // Memory store.
	Port      Port      // I/O port target. If nil, an internal latch is used.
	Observer  Observer  // Optional step observer.

	StackTop        uint16 // Stack pointer after Reset().
	InterruptEnable bool   // Set by EI, cleared by DI.
	Halted          bool   // Set by HLT.

	Ticks int // Executed instruction counter.

	latch io.Latch
}

// NewCpu creates a new CPU with its own register file and memory.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Registers: &RegisterFile{},
		Memory:    &Ram{},
		StackTop:  STACK_TOP,
	}

	cpu.Reset()

	return
}

// Reset the CPU state.
// - Clears all registers and flags.
// - Sets PC to 0 and SP to StackTop.
// - Clears the halted and interrupt enable state.
// Memory is left untouched.
func (cpu *Cpu) Reset() {
	cpu.Registers.Reset()
	cpu.Registers.SetSp(cpu.StackTop)
	cpu.InterruptEnable = false
	cpu.Halted = false
	cpu.Ticks = 0
}

// Load writes data into memory starting at origin, wrapping at the top of
// the address space. Registers are not touched.
func (cpu *Cpu) Load(origin uint16, data []byte) {
	for n, value := range data {
		cpu.Memory.Write(origin+uint16(n), value)
	}
}

// Dump reads count bytes of memory starting at addr.
func (cpu *Cpu) Dump(addr uint16, count int) (data []byte) {
	data = make([]byte, count)
	for n := range data {
		data[n] = cpu.Memory.Read(addr + uint16(n))
	}
	return
}

// Reg returns the value of a general register.
func (cpu *Cpu) Reg(r Reg) (uint8, error) {
	return cpu.Registers.Get(r)
}

// Pc returns the program counter.
func (cpu *Cpu) Pc() uint16 {
	return cpu.Registers.Pc()
}

// Sp returns the stack pointer.
func (cpu *Cpu) Sp() uint16 {
	return cpu.Registers.Sp()
}

// Flags returns the flag field.
func (cpu *Cpu) Flags() uint8 {
	return cpu.Registers.Flags()
}

// Flag returns true if all of the flag bits in mask are set.
func (cpu *Cpu) Flag(mask uint8) bool {
	return cpu.Registers.Flags()&mask == mask
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	for _, r := range []Reg{REG_A, REG_B, REG_C, REG_D, REG_E, REG_H, REG_L} {
		value, _ := cpu.Registers.Get(r)
		text += fmt.Sprintf("%v:%02X ", r, value)
	}

	flags := cpu.Registers.Flags()
	names := []struct {
		mask uint8
		name byte
	}{
		{FLAG_S, 'S'}, {FLAG_Z, 'Z'}, {FLAG_AC, 'A'}, {FLAG_P, 'P'}, {FLAG_C, 'C'},
	}
	var fstr []byte
	for _, flag := range names {
		if flags&flag.mask != 0 {
			fstr = append(fstr, flag.name)
		} else {
			fstr = append(fstr, '-')
		}
	}

	text += fmt.Sprintf("F:%02X[%s] PC:%04X SP:%04X", flags, fstr, cpu.Registers.Pc(), cpu.Registers.Sp())
	if cpu.Halted {
		text += " HALT"
	}

	return
}

// port returns the attached I/O port target.
func (cpu *Cpu) port() Port {
	if cpu.Port != nil {
		return cpu.Port
	}
	return &cpu.latch
}

// Step executes a single instruction.
//
// A halted CPU is not modified, and reports Halted again. An opcode with no
// instruction mapping leaves PC unchanged and returns an ErrUnimplemented.
func (cpu *Cpu) Step() (result StepResult, err error) {
	pc := cpu.Registers.Pc()
	result.Pc = pc

	if cpu.Halted {
		result.Halted = true
		return
	}

	op := Decode(cpu.Memory.Read(pc))

	if cpu.Observer != nil {
		defer func() {
			cpu.Observer.Observe(pc, op, result, err)
		}()
	}

	if op.Kind == OP_UNIMPLEMENTED {
		err = &ErrUnimplemented{Opcode: op.Opcode, Pc: pc}
		return
	}

	next, err := cpu.Execute(op, pc)
	if errors.Is(err, ErrHalted) {
		err = nil
		cpu.Halted = true
		result.Halted = true
	}
	if err != nil {
		return
	}

	cpu.Registers.SetPc(next)
	cpu.Ticks++

	result.Pc = next

	return
}

// Execute executes a single decoded instruction located at pc, and returns
// the address of the next instruction. HLT returns ErrHalted.
func (cpu *Cpu) Execute(op Op, pc uint16) (next uint16, err error) {
	defer func() {
		if err != nil && err != ErrHalted {
			err = errors.Join(ErrOpcode(op), err)
		}
	}()

	next = pc + uint16(op.Size)

	switch op.Kind {
	case OP_MOV, OP_MVI, OP_LXI, OP_LDA, OP_STA, OP_LDAX, OP_STAX, OP_LHLD, OP_SHLD, OP_XCHG:
		err = cpu.doTransfer(op, pc)
	case OP_ALU, OP_ALU_IMM, OP_INR, OP_DCR, OP_INX, OP_DCX, OP_DAD, OP_DAA,
		OP_RLC, OP_RRC, OP_RAL, OP_RAR, OP_CMA, OP_STC, OP_CMC:
		err = cpu.doArith(op, pc)
	default:
		next, err = cpu.doControl(op, pc, next)
	}

	return
}

// imm8 returns the byte operand of the instruction at pc.
func (cpu *Cpu) imm8(pc uint16) uint8 {
	return cpu.Memory.Read(pc + 1)
}

// imm16 returns the little endian word operand of the instruction at pc.
func (cpu *Cpu) imm16(pc uint16) uint16 {
	return cpu.read16(pc + 1)
}

// read16 reads a little endian word.
func (cpu *Cpu) read16(addr uint16) uint16 {
	return uint16(cpu.Memory.Read(addr)) | uint16(cpu.Memory.Read(addr+1))<<8
}

// write16 writes a little endian word.
func (cpu *Cpu) write16(addr uint16, value uint16) {
	cpu.Memory.Write(addr, uint8(value))
	cpu.Memory.Write(addr+1, uint8(value>>8))
}

// getReg reads a register, resolving M through HL.
func (cpu *Cpu) getReg(r Reg) (value uint8, err error) {
	if r == REG_M {
		var addr uint16
		addr, err = cpu.getPair(PAIR_HL)
		if err != nil {
			return
		}
		value = cpu.Memory.Read(addr)
		return
	}

	return cpu.Registers.Get(r)
}

// setReg writes a register, resolving M through HL.
func (cpu *Cpu) setReg(r Reg, value uint8) (err error) {
	if r == REG_M {
		var addr uint16
		addr, err = cpu.getPair(PAIR_HL)
		if err != nil {
			return
		}
		cpu.Memory.Write(addr, value)
		return
	}

	return cpu.Registers.Set(r, value)
}

// getPair reads a register pair.
func (cpu *Cpu) getPair(pair Pair) (value uint16, err error) {
	var hi, lo uint8

	switch pair {
	case PAIR_SP:
		value = cpu.Registers.Sp()
		return
	case PAIR_PSW:
		hi, err = cpu.Registers.Get(REG_A)
		lo = cpu.Registers.Flags()
	default:
		regs, ok := pairRegs[pair]
		if !ok {
			err = ErrInvalidRegister
			return
		}
		hi, err = cpu.Registers.Get(regs[0])
		if err != nil {
			return
		}
		lo, err = cpu.Registers.Get(regs[1])
	}
	if err != nil {
		return
	}

	value = uint16(hi)<<8 | uint16(lo)
	return
}

// setPair writes a register pair.
func (cpu *Cpu) setPair(pair Pair, value uint16) (err error) {
	hi := uint8(value >> 8)
	lo := uint8(value)

	switch pair {
	case PAIR_SP:
		cpu.Registers.SetSp(value)
	case PAIR_PSW:
		err = cpu.Registers.Set(REG_A, hi)
		if err != nil {
			return
		}
		cpu.Registers.SetFlags(lo)
	default:
		regs, ok := pairRegs[pair]
		if !ok {
			err = ErrInvalidRegister
			return
		}
		err = cpu.Registers.Set(regs[0], hi)
		if err != nil {
			return
		}
		err = cpu.Registers.Set(regs[1], lo)
	}

	return
}

// push16 pushes a word: high byte at SP-1, low byte at SP-2.
func (cpu *Cpu) push16(value uint16) {
	sp := cpu.Registers.Sp()
	cpu.Memory.Write(sp-1, uint8(value>>8))
	cpu.Memory.Write(sp-2, uint8(value))
	cpu.Registers.SetSp(sp - 2)
}

// pop16 pops a word: low byte at SP, high byte at SP+1.
func (cpu *Cpu) pop16() (value uint16) {
	sp := cpu.Registers.Sp()
	value = cpu.read16(sp)
	cpu.Registers.SetSp(sp + 2)
	return
}
