package cpu

import (
	"fmt"
	"slices"
	"strings"
)

// decodeRule claims every opcode where (opcode & mask) == bits, except
// those listed in except.
type decodeRule struct {
	mask   uint8
	bits   uint8
	except []uint8
	build  func(opcode uint8) Op
}

// Match returns true if the rule claims the opcode.
func (rule *decodeRule) Match(opcode uint8) bool {
	return opcode&rule.mask == rule.bits && !slices.Contains(rule.except, opcode)
}

// Field extraction from an opcode byte.
func fieldDst(opcode uint8) Reg   { return Reg((opcode >> 3) & 0x7) }
func fieldSrc(opcode uint8) Reg   { return Reg(opcode & 0x7) }
func fieldPair(opcode uint8) Pair { return Pair((opcode >> 4) & 0x3) }
func fieldCond(opcode uint8) Cond { return Cond((opcode >> 3) & 0x7) }
func fieldAlu(opcode uint8) AluOp { return AluOp((opcode >> 3) & 0x7) }

// fixed builds an instruction with no decoded fields.
func fixed(kind OpKind, size int) func(uint8) Op {
	return func(opcode uint8) Op {
		return Op{Kind: kind, Size: size}
	}
}

// single is a rule claiming exactly one opcode.
func single(opcode uint8, kind OpKind, size int) decodeRule {
	return decodeRule{mask: 0xff, bits: opcode, build: fixed(kind, size)}
}

// pairRule builds a register pair instruction.
func pairRule(mask, bits uint8, kind OpKind, size int) decodeRule {
	return decodeRule{mask: mask, bits: bits, build: func(opcode uint8) Op {
		return Op{Kind: kind, Pair: fieldPair(opcode), Size: size}
	}}
}

// condRule builds a conditional branch instruction.
func condRule(bits uint8, kind OpKind, size int) decodeRule {
	return decodeRule{mask: 0xc7, bits: bits, build: func(opcode uint8) Op {
		return Op{Kind: kind, Cond: fieldCond(opcode), Size: size}
	}}
}

// decodeRules is the ordered decode rule list, most specific first.
// No two rules claim the same opcode.
var decodeRules = []decodeRule{
	// 00ddd110 MVI
	{mask: 0xc7, bits: 0x06, build: func(opcode uint8) Op {
		return Op{Kind: OP_MVI, Dst: fieldDst(opcode), Size: 2}
	}},

	// 00rp0001 LXI, 00rp1001 DAD, 00rp0011 INX, 00rp1011 DCX
	pairRule(0xcf, 0x01, OP_LXI, 3),
	pairRule(0xcf, 0x09, OP_DAD, 1),
	pairRule(0xcf, 0x03, OP_INX, 1),
	pairRule(0xcf, 0x0b, OP_DCX, 1),

	// 000r0010 STAX, 000r1010 LDAX
	pairRule(0xef, 0x02, OP_STAX, 1),
	pairRule(0xef, 0x0a, OP_LDAX, 1),

	// 00ddd100 INR, 00ddd101 DCR
	{mask: 0xc7, bits: 0x04, build: func(opcode uint8) Op {
		return Op{Kind: OP_INR, Dst: fieldDst(opcode), Size: 1}
	}},
	{mask: 0xc7, bits: 0x05, build: func(opcode uint8) Op {
		return Op{Kind: OP_DCR, Dst: fieldDst(opcode), Size: 1}
	}},

	single(0x00, OP_NOP, 1),
	single(0x07, OP_RLC, 1),
	single(0x0f, OP_RRC, 1),
	single(0x17, OP_RAL, 1),
	single(0x1f, OP_RAR, 1),
	single(0x20, OP_RIM, 1),
	single(0x22, OP_SHLD, 3),
	single(0x27, OP_DAA, 1),
	single(0x2a, OP_LHLD, 3),
	single(0x2f, OP_CMA, 1),
	single(0x30, OP_SIM, 1),
	single(0x32, OP_STA, 3),
	single(0x37, OP_STC, 1),
	single(0x3a, OP_LDA, 3),
	single(0x3f, OP_CMC, 1),

	// HLT sits in the middle of the MOV space.
	single(0x76, OP_HLT, 1),

	// 01dddsss MOV
	{mask: 0xc0, bits: 0x40, except: []uint8{0x76}, build: func(opcode uint8) Op {
		return Op{Kind: OP_MOV, Dst: fieldDst(opcode), Src: fieldSrc(opcode), Size: 1}
	}},

	// 10aaasss ALU
	{mask: 0xc0, bits: 0x80, build: func(opcode uint8) Op {
		return Op{Kind: OP_ALU, Alu: fieldAlu(opcode), Src: fieldSrc(opcode), Size: 1}
	}},

	single(0xc3, OP_JMP, 3),
	condRule(0xc2, OP_JCC, 3),
	single(0xcd, OP_CALL, 3),
	condRule(0xc4, OP_CCC, 3),
	single(0xc9, OP_RET, 1),
	condRule(0xc0, OP_RCC, 1),

	// 11rp0101 PUSH, 11rp0001 POP; rp 3 is PSW, not SP.
	{mask: 0xcf, bits: 0xc5, build: func(opcode uint8) Op {
		return Op{Kind: OP_PUSH, Pair: stackPair(opcode), Size: 1}
	}},
	{mask: 0xcf, bits: 0xc1, build: func(opcode uint8) Op {
		return Op{Kind: OP_POP, Pair: stackPair(opcode), Size: 1}
	}},

	// 11aaa110 ADI ACI SUI SBI ANI XRI ORI CPI
	{mask: 0xc7, bits: 0xc6, build: func(opcode uint8) Op {
		return Op{Kind: OP_ALU_IMM, Alu: fieldAlu(opcode), Size: 2}
	}},

	// 11nnn111 RST
	{mask: 0xc7, bits: 0xc7, build: func(opcode uint8) Op {
		return Op{Kind: OP_RST, Vector: (opcode >> 3) & 0x7, Size: 1}
	}},

	single(0xd3, OP_OUT, 2),
	single(0xdb, OP_IN, 2),
	single(0xe3, OP_XTHL, 1),
	single(0xe9, OP_PCHL, 1),
	single(0xeb, OP_XCHG, 1),
	single(0xf3, OP_DI, 1),
	single(0xf9, OP_SPHL, 1),
	single(0xfb, OP_EI, 1),
}

// stackPair decodes the PUSH/POP register pair field.
func stackPair(opcode uint8) (pair Pair) {
	pair = fieldPair(opcode)
	if pair == PAIR_SP {
		pair = PAIR_PSW
	}
	return
}

// decodeTable is the precomputed decode of every opcode byte.
var decodeTable [256]Op

func init() {
	for n := range len(decodeTable) {
		opcode := uint8(n)
		op := Op{Kind: OP_UNIMPLEMENTED, Size: 1}
		for _, rule := range decodeRules {
			if rule.Match(opcode) {
				op = rule.build(opcode)
				break
			}
		}
		op.Opcode = opcode
		decodeTable[n] = op
	}
}

// Decode classifies an opcode byte.
func Decode(opcode uint8) Op {
	return decodeTable[opcode]
}

// Disassemble renders the instruction at addr, with its operands.
func Disassemble(mem Memory, addr uint16) (text string, size int) {
	op := Decode(mem.Read(addr))
	size = op.Size
	text = op.String()

	sep := " "
	if strings.Contains(text, " ") {
		sep = ","
	}

	switch op.Immediates() {
	case 1:
		text += sep + hexOperand(fmt.Sprintf("%02X", mem.Read(addr+1)))
	case 2:
		value := uint16(mem.Read(addr+1)) | uint16(mem.Read(addr+2))<<8
		text += sep + hexOperand(fmt.Sprintf("%04X", value))
	}

	return
}

// hexOperand renders hex digits in Intel style, with a leading zero
// when the first digit is a letter.
func hexOperand(digits string) string {
	if digits[0] >= 'A' {
		digits = "0" + digits
	}
	return digits + "H"
}
