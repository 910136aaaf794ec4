package cli

import (
	"io"
	"os"

	"github.com/aretw0/abacus/internal/config"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Config    *config.Config
	SessionID string
	JSON      bool
	Debug     bool
	Fresh     bool

	// Interactive forces terminal rendering on or off. Nil means detect from Out.
	Interactive *bool

	In  io.Reader
	Out io.Writer
}

func (o *RunOptions) setDefaults() {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
}

// storeConfig returns the configuration used for REPL persistence.
// An in-memory store would not survive the process, so it becomes a file store.
func (o *RunOptions) storeConfig() *config.Config {
	cfg := *o.Config
	if cfg.Store.Driver == config.DriverMemory || cfg.Store.Driver == "" {
		cfg.Store.Driver = config.DriverFile
	}
	return &cfg
}
