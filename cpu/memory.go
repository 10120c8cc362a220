package cpu

// MEMORY_SIZE is the size of the flat address space.
const MEMORY_SIZE = 0x10000

// Memory is the byte addressable store seen by the Cpu.
// Addresses are always 16 bits, so no access is out of range.
type Memory interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// Ram is a plain 64K memory.
type Ram [MEMORY_SIZE]uint8

var _ Memory = (*Ram)(nil)

func (ram *Ram) Read(addr uint16) uint8 {
	return ram[addr]
}

func (ram *Ram) Write(addr uint16, value uint8) {
	ram[addr] = value
}
