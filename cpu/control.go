package cpu

import (
	"errors"
)

// condition tests a branch condition against the flags.
func (cpu *Cpu) condition(cond Cond) (ok bool) {
	flags := cpu.Registers.Flags()

	switch cond {
	case COND_NZ:
		ok = flags&FLAG_Z == 0
	case COND_Z:
		ok = flags&FLAG_Z != 0
	case COND_NC:
		ok = flags&FLAG_C == 0
	case COND_C:
		ok = flags&FLAG_C != 0
	case COND_PO:
		ok = flags&FLAG_P == 0
	case COND_PE:
		ok = flags&FLAG_P != 0
	case COND_P:
		ok = flags&FLAG_S == 0
	case COND_M:
		ok = flags&FLAG_S != 0
	}

	return
}

// doControl executes the branch, stack, I/O and machine control groups.
// next is the address following the instruction; target is where execution
// continues.
func (cpu *Cpu) doControl(op Op, pc uint16, next uint16) (target uint16, err error) {
	target = next

	switch op.Kind {
	case OP_NOP, OP_RIM, OP_SIM:
		// PC advance only
	case OP_HLT:
		err = ErrHalted
	case OP_JMP:
		target = cpu.imm16(pc)
	case OP_JCC:
		if cpu.condition(op.Cond) {
			target = cpu.imm16(pc)
		}
	case OP_CALL:
		cpu.push16(next)
		target = cpu.imm16(pc)
	case OP_CCC:
		if cpu.condition(op.Cond) {
			cpu.push16(next)
			target = cpu.imm16(pc)
		}
	case OP_RET:
		target = cpu.pop16()
	case OP_RCC:
		if cpu.condition(op.Cond) {
			target = cpu.pop16()
		}
	case OP_RST:
		cpu.push16(next)
		target = uint16(op.Vector) * 8
	case OP_PUSH:
		var value uint16
		value, err = cpu.getPair(op.Pair)
		if err != nil {
			return
		}
		cpu.push16(value)
	case OP_POP:
		err = cpu.setPair(op.Pair, cpu.pop16())
	case OP_XTHL:
		var hl uint16
		hl, err = cpu.getPair(PAIR_HL)
		if err != nil {
			return
		}
		sp := cpu.Registers.Sp()
		top := cpu.read16(sp)
		cpu.write16(sp, hl)
		err = cpu.setPair(PAIR_HL, top)
	case OP_PCHL:
		target, err = cpu.getPair(PAIR_HL)
	case OP_SPHL:
		var hl uint16
		hl, err = cpu.getPair(PAIR_HL)
		if err != nil {
			return
		}
		cpu.Registers.SetSp(hl)
	case OP_IN:
		var value uint8
		value, err = cpu.port().In(cpu.imm8(pc))
		if err != nil {
			err = errors.Join(ErrOpcodePort, err)
			return
		}
		err = cpu.Registers.Set(REG_A, value)
	case OP_OUT:
		var value uint8
		value, err = cpu.Registers.Get(REG_A)
		if err != nil {
			return
		}
		err = cpu.port().Out(cpu.imm8(pc), value)
		if err != nil {
			err = errors.Join(ErrOpcodePort, err)
		}
	case OP_DI:
		cpu.InterruptEnable = false
	case OP_EI:
		cpu.InterruptEnable = true
	default:
		err = ErrOpcodeDecode
	}

	return
}
