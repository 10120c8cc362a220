package emulator

import (
	"io"

	"github.com/ezrec/sim8085/asm"
)

// Assemble parses source text with the emulator defines, installs it as
// the running program, and resets the emulator.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	assembler := &asm.Assembler{
		Verbose: emu.Verbose,
		Origin:  emu.Config.Origin,
	}
	for name, value := range emu.Defines() {
		assembler.Predefine(name, value)
	}

	prog, err := assembler.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Reset()

	return
}
