package cpu

// doTransfer executes the data transfer group.
func (cpu *Cpu) doTransfer(op Op, pc uint16) (err error) {
	switch op.Kind {
	case OP_MOV:
		var value uint8
		value, err = cpu.getReg(op.Src)
		if err != nil {
			return
		}
		err = cpu.setReg(op.Dst, value)
	case OP_MVI:
		err = cpu.setReg(op.Dst, cpu.imm8(pc))
	case OP_LXI:
		err = cpu.setPair(op.Pair, cpu.imm16(pc))
	case OP_LDA:
		err = cpu.Registers.Set(REG_A, cpu.Memory.Read(cpu.imm16(pc)))
	case OP_STA:
		var value uint8
		value, err = cpu.Registers.Get(REG_A)
		if err != nil {
			return
		}
		cpu.Memory.Write(cpu.imm16(pc), value)
	case OP_LDAX:
		var addr uint16
		addr, err = cpu.getPair(op.Pair)
		if err != nil {
			return
		}
		err = cpu.Registers.Set(REG_A, cpu.Memory.Read(addr))
	case OP_STAX:
		var addr uint16
		var value uint8
		addr, err = cpu.getPair(op.Pair)
		if err != nil {
			return
		}
		value, err = cpu.Registers.Get(REG_A)
		if err != nil {
			return
		}
		cpu.Memory.Write(addr, value)
	case OP_LHLD:
		err = cpu.setPair(PAIR_HL, cpu.read16(cpu.imm16(pc)))
	case OP_SHLD:
		var hl uint16
		hl, err = cpu.getPair(PAIR_HL)
		if err != nil {
			return
		}
		cpu.write16(cpu.imm16(pc), hl)
	case OP_XCHG:
		var hl, de uint16
		hl, err = cpu.getPair(PAIR_HL)
		if err != nil {
			return
		}
		de, err = cpu.getPair(PAIR_DE)
		if err != nil {
			return
		}
		err = cpu.setPair(PAIR_HL, de)
		if err != nil {
			return
		}
		err = cpu.setPair(PAIR_DE, hl)
	default:
		err = ErrOpcodeDecode
	}

	return
}
