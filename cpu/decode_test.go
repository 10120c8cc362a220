package cpu

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode_RulesDisjoint(t *testing.T) {
	assert := assert.New(t)

	for n := range 256 {
		opcode := uint8(n)
		var claims int
		for _, rule := range decodeRules {
			if rule.Match(opcode) {
				claims++
			}
		}
		assert.LessOrEqual(claims, 1, "opcode 0x%02x claimed by %d rules", opcode, claims)
	}
}

func TestDecode_Total(t *testing.T) {
	assert := assert.New(t)

	unimplemented := []uint8{0x08, 0x10, 0x18, 0x28, 0x38, 0xcb, 0xd9, 0xdd, 0xed, 0xfd}

	for n := range 256 {
		opcode := uint8(n)
		op := Decode(opcode)
		assert.Equal(opcode, op.Opcode)
		assert.GreaterOrEqual(op.Size, 1)
		assert.LessOrEqual(op.Size, 3)
		if slices.Contains(unimplemented, opcode) {
			assert.Equal(OP_UNIMPLEMENTED, op.Kind, "opcode 0x%02x", opcode)
		} else {
			assert.NotEqual(OP_UNIMPLEMENTED, op.Kind, "opcode 0x%02x", opcode)
		}
	}
}

func TestDecode_Mnemonics(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		opcode uint8
		kind   OpKind
		text   string
		size   int
	}{
		{0x00, OP_NOP, "NOP", 1},
		{0x01, OP_LXI, "LXI B", 3},
		{0x02, OP_STAX, "STAX B", 1},
		{0x06, OP_MVI, "MVI B", 2},
		{0x09, OP_DAD, "DAD B", 1},
		{0x0a, OP_LDAX, "LDAX B", 1},
		{0x12, OP_STAX, "STAX D", 1},
		{0x1a, OP_LDAX, "LDAX D", 1},
		{0x20, OP_RIM, "RIM", 1},
		{0x22, OP_SHLD, "SHLD", 3},
		{0x27, OP_DAA, "DAA", 1},
		{0x2a, OP_LHLD, "LHLD", 3},
		{0x30, OP_SIM, "SIM", 1},
		{0x31, OP_LXI, "LXI SP", 3},
		{0x33, OP_INX, "INX SP", 1},
		{0x34, OP_INR, "INR M", 1},
		{0x35, OP_DCR, "DCR M", 1},
		{0x36, OP_MVI, "MVI M", 2},
		{0x3b, OP_DCX, "DCX SP", 1},
		{0x3e, OP_MVI, "MVI A", 2},
		{0x40, OP_MOV, "MOV B,B", 1},
		{0x75, OP_MOV, "MOV M,L", 1},
		{0x76, OP_HLT, "HLT", 1},
		{0x77, OP_MOV, "MOV M,A", 1},
		{0x7e, OP_MOV, "MOV A,M", 1},
		{0x80, OP_ALU, "ADD B", 1},
		{0x8e, OP_ALU, "ADC M", 1},
		{0x97, OP_ALU, "SUB A", 1},
		{0xa0, OP_ALU, "ANA B", 1},
		{0xaf, OP_ALU, "XRA A", 1},
		{0xb6, OP_ALU, "ORA M", 1},
		{0xbf, OP_ALU, "CMP A", 1},
		{0xc0, OP_RCC, "RNZ", 1},
		{0xc1, OP_POP, "POP B", 1},
		{0xc2, OP_JCC, "JNZ", 3},
		{0xc3, OP_JMP, "JMP", 3},
		{0xc4, OP_CCC, "CNZ", 3},
		{0xc5, OP_PUSH, "PUSH B", 1},
		{0xc6, OP_ALU_IMM, "ADI", 2},
		{0xc7, OP_RST, "RST 0", 1},
		{0xc9, OP_RET, "RET", 1},
		{0xcd, OP_CALL, "CALL", 3},
		{0xce, OP_ALU_IMM, "ACI", 2},
		{0xd3, OP_OUT, "OUT", 2},
		{0xdb, OP_IN, "IN", 2},
		{0xde, OP_ALU_IMM, "SBI", 2},
		{0xe3, OP_XTHL, "XTHL", 1},
		{0xe9, OP_PCHL, "PCHL", 1},
		{0xea, OP_JCC, "JPE", 3},
		{0xeb, OP_XCHG, "XCHG", 1},
		{0xf1, OP_POP, "POP PSW", 1},
		{0xf3, OP_DI, "DI", 1},
		{0xf5, OP_PUSH, "PUSH PSW", 1},
		{0xf8, OP_RCC, "RM", 1},
		{0xf9, OP_SPHL, "SPHL", 1},
		{0xfb, OP_EI, "EI", 1},
		{0xfc, OP_CCC, "CM", 3},
		{0xfe, OP_ALU_IMM, "CPI", 2},
		{0xff, OP_RST, "RST 7", 1},
		{0xcb, OP_UNIMPLEMENTED, "??? 0xcb", 1},
	}

	for _, entry := range table {
		op := Decode(entry.opcode)
		assert.Equal(entry.kind, op.Kind, "0x%02x", entry.opcode)
		assert.Equal(entry.text, op.String(), "0x%02x", entry.opcode)
		assert.Equal(entry.size, op.Size, "0x%02x", entry.opcode)
	}
}

func TestDecode_Fields(t *testing.T) {
	assert := assert.New(t)

	op := Decode(0x7e) // MOV A,M
	assert.Equal(REG_A, op.Dst)
	assert.Equal(REG_M, op.Src)

	op = Decode(0x29) // DAD H
	assert.Equal(PAIR_HL, op.Pair)

	op = Decode(0xea) // JPE
	assert.Equal(COND_PE, op.Cond)

	op = Decode(0xd7) // RST 2
	assert.Equal(uint8(2), op.Vector)

	op = Decode(0xee) // XRI
	assert.Equal(ALU_OP_XRA, op.Alu)
	assert.Equal(1, op.Immediates())
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	ram := &Ram{}
	program := []uint8{
		0x3e, 0x42, // MVI A,42H
		0x21, 0x34, 0x12, // LXI H,1234H
		0xc3, 0x00, 0x01, // JMP 0100H
		0xd3, 0x01, // OUT 01H
		0x86,       // ADD M
		0xfe, 0xff, // CPI 0FFH
		0xca, 0x00, 0xc0, // JZ 0C000H
	}
	copy(ram[:], program)

	expected := []struct {
		text string
		size int
	}{
		{"MVI A,42H", 2},
		{"LXI H,1234H", 3},
		{"JMP 0100H", 3},
		{"OUT 01H", 2},
		{"ADD M", 1},
		{"CPI 0FFH", 2},
		{"JZ 0C000H", 3},
	}

	var addr uint16
	for _, entry := range expected {
		text, size := Disassemble(ram, addr)
		assert.Equal(entry.text, text)
		assert.Equal(entry.size, size)
		addr += uint16(size)
	}
}
