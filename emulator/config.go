package emulator

import (
	"errors"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/sim8085/cpu"
)

// Config holds the emulator settings.
type Config struct {
	StackTop    uint16 `toml:"stack_top"`    // Stack pointer after reset.
	Origin      uint16 `toml:"origin"`       // Assembly origin, and PC after reset.
	ConsolePort uint8  `toml:"console_port"` // Port of the console tape.
	FifoPort    uint8  `toml:"fifo_port"`    // Port of the scratch FIFO.
	FifoSize    int    `toml:"fifo_size"`    // Capacity of the scratch FIFO.
	MaxSteps    int    `toml:"max_steps"`    // Step budget for Run(). Zero is unlimited.
	Verbose     bool   `toml:"verbose"`      // Trace each step.
}

// DefaultConfig returns the default emulator settings.
func DefaultConfig() Config {
	return Config{
		StackTop:    cpu.STACK_TOP,
		Origin:      0x0000,
		ConsolePort: 0x01,
		FifoPort:    0x02,
		FifoSize:    256,
		MaxSteps:    1_000_000,
	}
}

// LoadConfig decodes a TOML configuration over the default settings.
func LoadConfig(r io.Reader) (cfg Config, err error) {
	cfg = DefaultConfig()

	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		err = errors.Join(ErrConfig, err)
		return
	}

	for _, key := range md.Undecoded() {
		err = errors.Join(ErrConfig, ErrConfigKey(key.String()))
		return
	}

	err = cfg.Validate()

	return
}

// Validate checks settings that decode cleanly but cannot be used.
func (cfg Config) Validate() (err error) {
	switch {
	case cfg.FifoSize < 0:
		err = errors.Join(ErrConfig, ErrConfigValue("fifo_size"))
	case cfg.MaxSteps < 0:
		err = errors.Join(ErrConfig, ErrConfigValue("max_steps"))
	case cfg.ConsolePort == cfg.FifoPort:
		err = errors.Join(ErrConfig, ErrConfigValue("fifo_port"))
	}

	return
}
