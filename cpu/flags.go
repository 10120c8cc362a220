package cpu

// 8085 flag bit positions in the flag field.
const (
	FLAG_C  = uint8(0x01) // Carry
	FLAG_P  = uint8(0x04) // Parity (even)
	FLAG_AC = uint8(0x10) // Auxiliary carry
	FLAG_Z  = uint8(0x40) // Zero
	FLAG_S  = uint8(0x80) // Sign

	FLAG_MASK = FLAG_S | FLAG_Z | FLAG_AC | FLAG_P | FLAG_C
)

// FlagOp selects how carries are derived from the operands.
type FlagOp int

const (
	FLAG_OP_ADD   = FlagOp(0) // Carries out of bit 3 and bit 7.
	FLAG_OP_SUB   = FlagOp(1) // Borrows out of bit 3 and bit 7.
	FLAG_OP_LOGIC = FlagOp(2) // No carries.
)

// szpTable holds the Sign, Zero and Parity flags for each result value.
var szpTable [256]uint8

func init() {
	for n := range len(szpTable) {
		value := uint8(n)

		parity := value
		parity ^= parity >> 4
		parity ^= parity >> 2
		parity ^= parity >> 1

		flags := value & FLAG_S
		if value == 0 {
			flags |= FLAG_Z
		}
		if parity&1 == 0 {
			flags |= FLAG_P
		}
		szpTable[n] = flags
	}
}

// ComputeFlags derives the status flags of an 8-bit operation a op b, with
// carry-in, that produced result. Carries are computed from the operands.
func ComputeFlags(op FlagOp, a, b, carry, result uint8) (flags uint8) {
	flags = szpTable[result]

	switch op {
	case FLAG_OP_ADD:
		flags |= bsel((a&0xf)+(b&0xf)+carry > 0xf, FLAG_AC, 0)
		flags |= bsel(uint16(a)+uint16(b)+uint16(carry) > 0xff, FLAG_C, 0)
	case FLAG_OP_SUB:
		flags |= bsel(a&0xf < (b&0xf)+carry, FLAG_AC, 0)
		flags |= bsel(uint16(a) < uint16(b)+uint16(carry), FLAG_C, 0)
	case FLAG_OP_LOGIC:
		// AC and CY cleared
	}

	return
}

// IncDecFlags derives the flags of INR (dec false) or DCR (dec true).
// Carry is carried over from prior.
func IncDecFlags(prior uint8, operand, result uint8, dec bool) (flags uint8) {
	op := FLAG_OP_ADD
	if dec {
		op = FLAG_OP_SUB
	}
	flags = ComputeFlags(op, operand, 1, 0, result)&^FLAG_C | prior&FLAG_C
	return
}

// mergeFlags replaces the defined flag bits of prior, keeping the unused bits.
func mergeFlags(prior, flags uint8) uint8 {
	return prior&^FLAG_MASK | flags&FLAG_MASK
}

// bsel returns a if cond is true, else b.
func bsel(cond bool, a, b uint8) uint8 {
	if cond {
		return a
	}
	return b
}
