package deflate

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	kzlib "github.com/klauspost/compress/zlib"
)

// Strategy selects a deflate encoder configuration.
type Strategy int

const (
	// Default uses klauspost/compress with lazy matching.
	Default Strategy = iota
	// Filtered uses the standard library encoder, whose match finder favours
	// shorter matches on filtered image data.
	Filtered
	// HuffmanOnly skips string matching and only entropy-codes literals.
	HuffmanOnly
)

// Strategies lists every strategy in evaluation order.
var Strategies = [...]Strategy{Default, Filtered, HuffmanOnly}

func (s Strategy) String() string {
	switch s {
	case Default:
		return "default"
	case Filtered:
		return "filtered"
	case HuffmanOnly:
		return "huffman-only"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// Standard is the regular Compressor: every strategy in Strategies is tried
// at the requested level, or across all levels, and the shortest stream
// wins. When concurrent, each strategy runs in its own goroutine.
type Standard struct {
	// Logf receives failed attempts. Nil means stderr.
	Logf func(format string, args ...any)
}

// Compress implements Compressor.
func (s Standard) Compress(data []byte, level int, concurrent bool) ([]byte, error) {
	attempts := make([]attempt, 0, len(Strategies))
	for _, st := range Strategies {
		st := st
		attempts = append(attempts, attempt{
			name: st.String(),
			run: func(data []byte) ([]byte, error) {
				return compressStrategy(data, st, level)
			},
		})
	}

	workers := 1
	if concurrent {
		workers = len(attempts)
	}
	logf := s.Logf
	if logf == nil {
		logf = stderrf
	}
	return smallest(data, attempts, workers, logf)
}

// compressStrategy returns the shortest stream for one strategy, either at
// level or, when level is out of range, across BestCompression..BestSpeed.
func compressStrategy(data []byte, st Strategy, level int) ([]byte, error) {
	if validLevel(level) || st == HuffmanOnly {
		return compress(data, st, level)
	}

	var best []byte
	for l := BestCompression; l >= BestSpeed; l-- {
		out, err := compress(data, st, l)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", l, err)
		}
		if best == nil || len(out) < len(best) {
			best = out
		}
	}
	return best, nil
}

func compress(data []byte, st Strategy, level int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)

	var (
		w   io.WriteCloser
		err error
	)
	switch st {
	case Default:
		w, err = kzlib.NewWriterLevel(&buf, level)
	case Filtered:
		w, err = zlib.NewWriterLevel(&buf, level)
	case HuffmanOnly:
		w, err = kzlib.NewWriterLevel(&buf, kzlib.HuffmanOnly)
	default:
		err = fmt.Errorf("unknown strategy %d", int(st))
	}
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
