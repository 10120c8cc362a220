package cpu

// doArith executes the arithmetic and logic group.
func (cpu *Cpu) doArith(op Op, pc uint16) (err error) {
	flags := cpu.Registers.Flags()

	switch op.Kind {
	case OP_ALU, OP_ALU_IMM:
		var value uint8
		if op.Kind == OP_ALU_IMM {
			value = cpu.imm8(pc)
		} else {
			value, err = cpu.getReg(op.Src)
			if err != nil {
				return
			}
		}
		err = cpu.doAlu(op.Alu, value)
	case OP_INR, OP_DCR:
		var input uint8
		input, err = cpu.getReg(op.Dst)
		if err != nil {
			return
		}
		dec := op.Kind == OP_DCR
		output := input + 1
		if dec {
			output = input - 1
		}
		err = cpu.setReg(op.Dst, output)
		if err != nil {
			return
		}
		cpu.Registers.SetFlags(mergeFlags(flags, IncDecFlags(flags, input, output, dec)))
	case OP_INX, OP_DCX:
		var value uint16
		value, err = cpu.getPair(op.Pair)
		if err != nil {
			return
		}
		if op.Kind == OP_INX {
			value++
		} else {
			value--
		}
		err = cpu.setPair(op.Pair, value)
	case OP_DAD:
		var hl, value uint16
		hl, err = cpu.getPair(PAIR_HL)
		if err != nil {
			return
		}
		value, err = cpu.getPair(op.Pair)
		if err != nil {
			return
		}
		sum := uint32(hl) + uint32(value)
		err = cpu.setPair(PAIR_HL, uint16(sum))
		if err != nil {
			return
		}
		flags = flags&^FLAG_C | bsel(sum > 0xffff, FLAG_C, 0)
		cpu.Registers.SetFlags(flags)
	case OP_DAA:
		err = cpu.doDaa()
	case OP_RLC, OP_RRC, OP_RAL, OP_RAR:
		err = cpu.doRotate(op.Kind)
	case OP_CMA:
		var a uint8
		a, err = cpu.Registers.Get(REG_A)
		if err != nil {
			return
		}
		err = cpu.Registers.Set(REG_A, ^a)
	case OP_STC:
		cpu.Registers.SetFlags(flags | FLAG_C)
	case OP_CMC:
		cpu.Registers.SetFlags(flags ^ FLAG_C)
	default:
		err = ErrOpcodeDecode
	}

	return
}

// doAlu combines the accumulator with value, and updates the flags.
// CMP only updates the flags.
func (cpu *Cpu) doAlu(op AluOp, value uint8) (err error) {
	a, err := cpu.Registers.Get(REG_A)
	if err != nil {
		return
	}

	prior := cpu.Registers.Flags()
	var carry uint8
	if op == ALU_OP_ADC || op == ALU_OP_SBB {
		carry = prior & FLAG_C
	}

	var output uint8
	var flags uint8

	switch op {
	case ALU_OP_ADD, ALU_OP_ADC:
		output = a + value + carry
		flags = ComputeFlags(FLAG_OP_ADD, a, value, carry, output)
	case ALU_OP_SUB, ALU_OP_SBB, ALU_OP_CMP:
		output = a - value - carry
		flags = ComputeFlags(FLAG_OP_SUB, a, value, carry, output)
	case ALU_OP_ANA:
		output = a & value
		flags = ComputeFlags(FLAG_OP_LOGIC, a, value, 0, output)
	case ALU_OP_XRA:
		output = a ^ value
		flags = ComputeFlags(FLAG_OP_LOGIC, a, value, 0, output)
	case ALU_OP_ORA:
		output = a | value
		flags = ComputeFlags(FLAG_OP_LOGIC, a, value, 0, output)
	default:
		err = ErrOpcodeDecode
		return
	}

	if op != ALU_OP_CMP {
		err = cpu.Registers.Set(REG_A, output)
		if err != nil {
			return
		}
	}

	cpu.Registers.SetFlags(mergeFlags(prior, flags))

	return
}

// doDaa performs the decimal adjust of the accumulator.
func (cpu *Cpu) doDaa() (err error) {
	a, err := cpu.Registers.Get(REG_A)
	if err != nil {
		return
	}

	prior := cpu.Registers.Flags()
	carry := prior & FLAG_C

	var adjust uint8
	if a&0xf > 9 || prior&FLAG_AC != 0 {
		adjust |= 0x06
	}
	if a > 0x99 || carry != 0 {
		adjust |= 0x60
		carry = FLAG_C
	}

	output := a + adjust
	err = cpu.Registers.Set(REG_A, output)
	if err != nil {
		return
	}

	flags := ComputeFlags(FLAG_OP_ADD, a, adjust, 0, output)&^FLAG_C | carry
	cpu.Registers.SetFlags(mergeFlags(prior, flags))

	return
}

// doRotate rotates the accumulator. Only Carry is affected.
func (cpu *Cpu) doRotate(kind OpKind) (err error) {
	a, err := cpu.Registers.Get(REG_A)
	if err != nil {
		return
	}

	flags := cpu.Registers.Flags()
	carry := flags & FLAG_C

	var output uint8
	switch kind {
	case OP_RLC:
		carry = a >> 7
		output = a<<1 | carry
	case OP_RRC:
		carry = a & 1
		output = a>>1 | carry<<7
	case OP_RAL:
		output = a<<1 | carry
		carry = a >> 7
	case OP_RAR:
		output = a>>1 | carry<<7
		carry = a & 1
	}

	err = cpu.Registers.Set(REG_A, output)
	if err != nil {
		return
	}

	cpu.Registers.SetFlags(flags&^FLAG_C | carry)

	return
}
