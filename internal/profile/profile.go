package profile

import (
	"fmt"

	"github.com/yusshu/featherpng/internal/deflate"
)

// Compressor names accepted by Profile.Compressor.
const (
	CompressorStandard       = "standard"
	CompressorBlockSplitting = "blocksplit"
)

// Profile defines optimization parameters for a batch run.
type Profile struct {
	Name        string
	Level       int    // zlib level 0-9, or deflate.LevelSearch
	Compressor  string // "standard" or "blocksplit"
	Iterations  int    // block-splitting segment counts to try
	RemoveGamma bool   // drop gAMA from outputs
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:       "default",
		Level:      deflate.LevelSearch,
		Compressor: CompressorStandard,
	},
	"fast": {
		Name:       "fast",
		Level:      deflate.BestCompression,
		Compressor: CompressorStandard,
	},
	"max": {
		Name:       "max",
		Level:      deflate.LevelSearch,
		Compressor: CompressorBlockSplitting,
		Iterations: deflate.DefaultIterations,
	},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["default"]
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in profiles.
func Names() []string {
	return []string{"default", "fast", "max"}
}

// NewCompressor builds the compressor the profile asks for. logf receives
// failed compression attempts.
func (p Profile) NewCompressor(logf func(format string, args ...any)) (deflate.Compressor, error) {
	switch p.Compressor {
	case "", CompressorStandard:
		return deflate.Standard{Logf: logf}, nil
	case CompressorBlockSplitting:
		iterations := p.Iterations
		if iterations <= 0 {
			iterations = deflate.DefaultIterations
		}
		return deflate.BlockSplitting{Iterations: iterations, Logf: logf}, nil
	}
	return nil, fmt.Errorf("unknown compressor %q", p.Compressor)
}
