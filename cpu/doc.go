// Package cpu implements the instruction decoder and execution engine of an
// 8085-class microprocessor.
//
// The CPU consists of seven 8-bit registers (B, C, D, E, H, L and the
// accumulator A), a 16-bit program counter (PC), a 16-bit stack pointer (SP)
// and a flag field carrying the Sign, Zero, AuxCarry, Parity and Carry bits.
// Memory is a flat 64K byte space. Register and memory access go through the
// Registers and Memory interfaces so test harnesses may substitute
// instrumented implementations.
//
// Every opcode byte decodes, through a table built once at initialisation, to
// exactly one Op. The Cpu Step() method fetches, decodes and executes one
// instruction, reporting HLT as a halted StepResult and undefined opcodes as
// an ErrUnimplemented error.
package cpu
