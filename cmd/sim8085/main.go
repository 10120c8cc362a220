// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"log"
	"maps"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/sim8085/asm"
	"github.com/ezrec/sim8085/cpu"
	"github.com/ezrec/sim8085/emulator"
	"github.com/ezrec/sim8085/internal"
	"github.com/ezrec/sim8085/translate"
)

// loadConfig reads the TOML settings file, if any.
func loadConfig(path string) (cfg emulator.Config, err error) {
	if len(path) == 0 {
		cfg = emulator.DefaultConfig()
		return
	}

	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	cfg, err = emulator.LoadConfig(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}

	return
}

// newAssembler returns an assembler at origin, with the emulator defines
// for that origin.
func newAssembler(origin uint16) (assembler *asm.Assembler) {
	cfg := emulator.DefaultConfig()
	cfg.Origin = origin

	assembler = &asm.Assembler{Origin: origin}
	for name, value := range emulator.NewEmulator(cfg).Defines() {
		assembler.Predefine(name, value)
	}

	return
}

func main() {
	var lang string

	rootCmd := &cobra.Command{
		Use:           "sim8085",
		Short:         "Intel 8085 assembler and simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if len(lang) == 0 {
				return nil
			}
			return translate.SetLanguage(lang)
		},
	}
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "Message language (BCP 47 tag), default from the system locale")

	// run command
	var configPath string
	var verbose bool
	var maxSteps int
	var stackTop uint16

	runCmd := &cobra.Command{
		Use:   "run FILE.asm",
		Short: "Assemble and execute a program, with the console on stdin/stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Verbose = verbose
			}
			if cmd.Flags().Changed("max-steps") {
				cfg.MaxSteps = maxSteps
			}
			if cmd.Flags().Changed("stack-top") {
				cfg.StackTop = stackTop
			}

			inf, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer inf.Close()

			emu := emulator.NewEmulator(cfg)
			err = emu.Assemble(inf)
			if err != nil {
				return fmt.Errorf("%v: %w", args[0], err)
			}

			emu.Console.Input = os.Stdin
			emu.Console.Output = os.Stdout

			err = emu.Run()
			fmt.Fprintln(os.Stderr, emu.Cpu.String())
			if err != nil {
				return fmt.Errorf("%v: %w", args[0], err)
			}

			return nil
		},
	}
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML settings file")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Trace each instruction")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Step budget (0 = unlimited)")
	runCmd.Flags().Uint16Var(&stackTop, "stack-top", cpu.STACK_TOP, "Stack pointer after reset")

	// asm command
	var output string
	var origin uint16
	var listing bool

	asmCmd := &cobra.Command{
		Use:   "asm FILE.asm",
		Short: "Assemble a program to a flat binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inf, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer inf.Close()

			prog, err := newAssembler(origin).Parse(inf)
			if err != nil {
				return fmt.Errorf("%v: %w", args[0], err)
			}

			if listing {
				for _, line := range prog.Lines {
					fmt.Printf("%04X  %-12X %5d  %s\n", line.Address, line.Bytes, line.LineNo, strings.Join(line.Words, " "))
				}
				fmt.Println()
				for name, addr := range internal.Sorted2(maps.All(prog.Labels)) {
					fmt.Printf("%-16s %04X\n", name, addr)
				}
			}

			if len(output) == 0 {
				return nil
			}

			start, data := prog.Binary()
			err = os.WriteFile(output, data, 0o644)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "%v: %d bytes at 0x%04X\n", output, len(data), start)

			return nil
		},
	}
	asmCmd.Flags().StringVarP(&output, "output", "o", "", "Output binary file path")
	asmCmd.Flags().Uint16Var(&origin, "origin", 0, "Assembly origin")
	asmCmd.Flags().BoolVarP(&listing, "listing", "l", false, "Print the assembly listing")

	// disasm command
	var base uint16

	disasmCmd := &cobra.Command{
		Use:   "disasm FILE.bin",
		Short: "Disassemble a flat binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			mem := &cpu.Ram{}
			for n, value := range data {
				mem.Write(base+uint16(n), value)
			}

			for offset := 0; offset < len(data); {
				addr := base + uint16(offset)
				text, size := cpu.Disassemble(mem, addr)
				fmt.Printf("%04X  %-8X  %s\n", addr, data[offset:min(offset+size, len(data))], text)
				offset += size
			}

			return nil
		},
	}
	disasmCmd.Flags().Uint16Var(&base, "origin", 0, "Load address of the image")

	rootCmd.AddCommand(runCmd, asmCmd, disasmCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v: %v", rootCmd.Name(), err)
	}
}
