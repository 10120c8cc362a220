package cpu

import (
	"fmt"
)

// OpKind identifies a decoded instruction.
type OpKind int

//go:generate go tool stringer -linecomment -type=OpKind
const (
	OP_UNIMPLEMENTED = OpKind(0)  // ???
	OP_NOP           = OpKind(1)  // NOP
	OP_MVI           = OpKind(2)  // MVI
	OP_LXI           = OpKind(3)  // LXI
	OP_DAD           = OpKind(4)  // DAD
	OP_INX           = OpKind(5)  // INX
	OP_DCX           = OpKind(6)  // DCX
	OP_STAX          = OpKind(7)  // STAX
	OP_LDAX          = OpKind(8)  // LDAX
	OP_INR           = OpKind(9)  // INR
	OP_DCR           = OpKind(10) // DCR
	OP_RLC           = OpKind(11) // RLC
	OP_RRC           = OpKind(12) // RRC
	OP_RAL           = OpKind(13) // RAL
	OP_RAR           = OpKind(14) // RAR
	OP_SHLD          = OpKind(15) // SHLD
	OP_LHLD          = OpKind(16) // LHLD
	OP_DAA           = OpKind(17) // DAA
	OP_CMA           = OpKind(18) // CMA
	OP_STA           = OpKind(19) // STA
	OP_LDA           = OpKind(20) // LDA
	OP_STC           = OpKind(21) // STC
	OP_CMC           = OpKind(22) // CMC
	OP_RIM           = OpKind(23) // RIM
	OP_SIM           = OpKind(24) // SIM
	OP_HLT           = OpKind(25) // HLT
	OP_MOV           = OpKind(26) // MOV
	OP_ALU           = OpKind(27) // ALU
	OP_ALU_IMM       = OpKind(28) // ALUI
	OP_JMP           = OpKind(29) // JMP
	OP_JCC           = OpKind(30) // Jcc
	OP_CALL          = OpKind(31) // CALL
	OP_CCC           = OpKind(32) // Ccc
	OP_RET           = OpKind(33) // RET
	OP_RCC           = OpKind(34) // Rcc
	OP_PUSH          = OpKind(35) // PUSH
	OP_POP           = OpKind(36) // POP
	OP_RST           = OpKind(37) // RST
	OP_IN            = OpKind(38) // IN
	OP_OUT           = OpKind(39) // OUT
	OP_XCHG          = OpKind(40) // XCHG
	OP_XTHL          = OpKind(41) // XTHL
	OP_PCHL          = OpKind(42) // PCHL
	OP_SPHL          = OpKind(43) // SPHL
	OP_DI            = OpKind(44) // DI
	OP_EI            = OpKind(45) // EI
)

// Cond is a branch condition, as encoded in the ccc instruction field.
type Cond int

//go:generate go tool stringer -linecomment -type=Cond
const (
	COND_NZ = Cond(0) // NZ
	COND_Z  = Cond(1) // Z
	COND_NC = Cond(2) // NC
	COND_C  = Cond(3) // C
	COND_PO = Cond(4) // PO
	COND_PE = Cond(5) // PE
	COND_P  = Cond(6) // P
	COND_M  = Cond(7) // M
)

// AluOp is an accumulator operation, as encoded in the aaa instruction field.
type AluOp int

//go:generate go tool stringer -linecomment -type=AluOp
const (
	ALU_OP_ADD = AluOp(0) // ADD
	ALU_OP_ADC = AluOp(1) // ADC
	ALU_OP_SUB = AluOp(2) // SUB
	ALU_OP_SBB = AluOp(3) // SBB
	ALU_OP_ANA = AluOp(4) // ANA
	ALU_OP_XRA = AluOp(5) // XRA
	ALU_OP_ORA = AluOp(6) // ORA
	ALU_OP_CMP = AluOp(7) // CMP
)

// aluImmName are the mnemonics of the immediate ALU forms.
var aluImmName = [8]string{"ADI", "ACI", "SUI", "SBI", "ANI", "XRI", "ORI", "CPI"}

// ImmName returns the mnemonic of the immediate operand form.
func (op AluOp) ImmName() string {
	if op < 0 || int(op) >= len(aluImmName) {
		return op.String()
	}
	return aluImmName[op]
}

// Op is a decoded instruction.
// Only the fields meaningful to Kind are set.
type Op struct {
	Opcode uint8  // Opcode byte.
	Kind   OpKind // Instruction identity.
	Dst    Reg    // Destination register (MOV, MVI, INR, DCR).
	Src    Reg    // Source register (MOV, ALU).
	Pair   Pair   // Register pair (LXI, DAD, INX, DCX, STAX, LDAX, PUSH, POP).
	Cond   Cond   // Condition (Jcc, Ccc, Rcc).
	Alu    AluOp  // Accumulator operation (ALU, ALUI).
	Vector uint8  // Restart vector (RST).
	Size   int    // Instruction length in bytes, including the opcode.
}

// Immediates returns the number of operand bytes following the opcode.
func (op Op) Immediates() int {
	return op.Size - 1
}

// String returns the assembly mnemonic of the instruction, without its
// immediate operand.
func (op Op) String() (text string) {
	switch op.Kind {
	case OP_UNIMPLEMENTED:
		text = fmt.Sprintf("??? 0x%02x", op.Opcode)
	case OP_MOV:
		text = fmt.Sprintf("MOV %v,%v", op.Dst, op.Src)
	case OP_MVI, OP_INR, OP_DCR:
		text = fmt.Sprintf("%v %v", op.Kind, op.Dst)
	case OP_ALU:
		text = fmt.Sprintf("%v %v", op.Alu, op.Src)
	case OP_ALU_IMM:
		text = op.Alu.ImmName()
	case OP_LXI, OP_DAD, OP_INX, OP_DCX, OP_STAX, OP_LDAX, OP_PUSH, OP_POP:
		text = fmt.Sprintf("%v %v", op.Kind, op.Pair)
	case OP_JCC:
		text = "J" + op.Cond.String()
	case OP_CCC:
		text = "C" + op.Cond.String()
	case OP_RCC:
		text = "R" + op.Cond.String()
	case OP_RST:
		text = fmt.Sprintf("RST %d", op.Vector)
	default:
		text = op.Kind.String()
	}

	return
}
