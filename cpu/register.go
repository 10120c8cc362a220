package cpu

// Reg is a register index, as encoded in the ddd and sss instruction fields.
type Reg int

//go:generate go tool stringer -linecomment -type=Reg
const (
	REG_B = Reg(0) // B
	REG_C = Reg(1) // C
	REG_D = Reg(2) // D
	REG_E = Reg(3) // E
	REG_H = Reg(4) // H
	REG_L = Reg(5) // L
	REG_M = Reg(6) // M
	REG_A = Reg(7) // A
)

// Pair is a register pair selector.
type Pair int

//go:generate go tool stringer -linecomment -type=Pair
const (
	PAIR_BC  = Pair(0) // B
	PAIR_DE  = Pair(1) // D
	PAIR_HL  = Pair(2) // H
	PAIR_SP  = Pair(3) // SP
	PAIR_PSW = Pair(4) // PSW
)

// pairRegs maps the register pairs backed by two general registers to
// their high and low halves.
var pairRegs = map[Pair][2]Reg{
	PAIR_BC: {REG_B, REG_C},
	PAIR_DE: {REG_D, REG_E},
	PAIR_HL: {REG_H, REG_L},
}

// Registers is the register file interface used by the Cpu.
type Registers interface {
	// Get reads a general register. REG_M is not a stored register.
	Get(r Reg) (value uint8, err error)
	// Set writes a general register. REG_M is not a stored register.
	Set(r Reg, value uint8) (err error)
	Flags() uint8
	SetFlags(value uint8)
	Pc() uint16
	SetPc(value uint16)
	Sp() uint16
	SetSp(value uint16)
	// Reset clears all registers.
	Reset()
}

// RegisterFile is the in-process register file.
type RegisterFile struct {
	A, B, C, D, E, H, L uint8  // General registers.
	F                   uint8  // Flag field.
	PC                  uint16 // Program counter.
	SP                  uint16 // Stack pointer.
}

var _ Registers = (*RegisterFile)(nil)

// ref returns the storage for a general register.
func (rf *RegisterFile) ref(r Reg) (reg *uint8, err error) {
	switch r {
	case REG_A:
		reg = &rf.A
	case REG_B:
		reg = &rf.B
	case REG_C:
		reg = &rf.C
	case REG_D:
		reg = &rf.D
	case REG_E:
		reg = &rf.E
	case REG_H:
		reg = &rf.H
	case REG_L:
		reg = &rf.L
	default:
		err = ErrInvalidRegister
	}
	return
}

func (rf *RegisterFile) Get(r Reg) (value uint8, err error) {
	reg, err := rf.ref(r)
	if err != nil {
		return
	}
	value = *reg
	return
}

func (rf *RegisterFile) Set(r Reg, value uint8) (err error) {
	reg, err := rf.ref(r)
	if err != nil {
		return
	}
	*reg = value
	return
}

func (rf *RegisterFile) Flags() uint8         { return rf.F }
func (rf *RegisterFile) SetFlags(value uint8) { rf.F = value }
func (rf *RegisterFile) Pc() uint16           { return rf.PC }
func (rf *RegisterFile) SetPc(value uint16)   { rf.PC = value }
func (rf *RegisterFile) Sp() uint16           { return rf.SP }
func (rf *RegisterFile) SetSp(value uint16)   { rf.SP = value }

func (rf *RegisterFile) Reset() {
	*rf = RegisterFile{}
}
