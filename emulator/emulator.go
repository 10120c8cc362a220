// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/sim8085/asm"
	"github.com/ezrec/sim8085/cpu"
	"github.com/ezrec/sim8085/internal"
	"github.com/ezrec/sim8085/io"
)

// CONSOLE_EOF is read from the console once its input is exhausted.
const CONSOLE_EOF = uint8(0x04)

// Emulator state. CPU + program listing + I/O ports.
type Emulator struct {
	Verbose  bool         // If set, traces each step.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *asm.Program // Reference to the currently running program listing.
	Config   Config       // Settings.

	Bus     io.Bus  // Port routing.
	Console io.Tape // Console tape port.
	Fifo    io.Fifo // Scratch FIFO port.
}

// NewEmulator creates a new emulator.
func NewEmulator(cfg Config) (emu *Emulator) {
	emu = &Emulator{
		Verbose: cfg.Verbose,
		Cpu:     cpu.NewCpu(),
		Program: &asm.Program{},
		Config:  cfg,
	}

	emu.Console.EndOfTape = CONSOLE_EOF
	emu.Fifo.Capacity = cfg.FifoSize

	emu.Bus.Attach("CONSOLE_PORT", cfg.ConsolePort, &emu.Console)
	emu.Bus.Attach("FIFO_PORT", cfg.FifoPort, &emu.Fifo)

	emu.Cpu.Port = &emu.Bus

	emu.Reset()

	return
}

// Defines returns an iterator over all of the defines, sorted by name.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"STACK_TOP": fmt.Sprintf("%#x", emu.Config.StackTop),
		"ORIGIN":    fmt.Sprintf("%#x", emu.Config.Origin),
	}

	return internal.Sorted2(internal.Concat2(maps.All(defines),
		emu.Bus.Defines(),
	))
}

// Reset the emulator state, and reload the program.
func (emu *Emulator) Reset() {
	emu.Cpu.Memory = &cpu.Ram{}
	for _, seg := range emu.Program.Segments() {
		emu.Cpu.Load(seg.Origin, seg.Data)
	}

	emu.Cpu.StackTop = emu.Config.StackTop
	emu.Cpu.Reset()
	emu.Cpu.Registers.SetPc(emu.Config.Origin)

	emu.Bus.Latch.Reset()
	emu.Console.Rewind()
	emu.Fifo.Rewind()

	emu.Cpu.Observer = nil
	if emu.Verbose {
		emu.Cpu.Observer = cpu.ObserverFunc(emu.trace)
	}
}

// trace logs each executed step.
func (emu *Emulator) trace(pc uint16, op cpu.Op, result cpu.StepResult, err error) {
	text, _ := cpu.Disassemble(emu.Cpu.Memory, pc)

	if err != nil {
		log.Printf("%04X: %-16s %v", pc, text, err)
		return
	}

	log.Printf("%04X: %-16s %v", pc, text, emu.Cpu.String())
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc())
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single step of the emulator.
// done is set once the CPU has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	lineno := emu.LineNo()
	pc := emu.Cpu.Pc()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
		}
	}()

	result, err := emu.Cpu.Step()
	if err != nil {
		return
	}

	done = result.Halted

	return
}

// Run steps the emulator until the CPU halts, an error occurs, or the
// step budget is exhausted.
func (emu *Emulator) Run() (err error) {
	budget := emu.Config.MaxSteps
	for steps := 0; budget <= 0 || steps < budget; steps++ {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	err = &ErrRuntime{LineNo: emu.LineNo(), Pc: emu.Cpu.Pc(), Err: ErrStepBudget}

	return
}
