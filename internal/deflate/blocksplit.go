package deflate

import (
	"bytes"
	"fmt"
	"runtime"

	kzlib "github.com/klauspost/compress/zlib"
)

// DefaultIterations is the number of split layouts BlockSplitting tries
// when Iterations is not set.
const DefaultIterations = 15

// BlockSplitting is a slower Compressor that searches over deflate block
// boundaries. Layout n cuts the input into n equal segments and ends a
// block after each one, giving every segment its own Huffman tables while
// the match window stays shared. Layouts 1..Iterations are tried at
// BestCompression; the level argument is ignored.
type BlockSplitting struct {
	Iterations int
	// Logf receives failed attempts. Nil means stderr.
	Logf func(format string, args ...any)
}

// Compress implements Compressor.
func (b BlockSplitting) Compress(data []byte, _ int, concurrent bool) ([]byte, error) {
	n := b.Iterations
	if n <= 0 {
		n = DefaultIterations
	}
	if n > len(data) {
		n = max(len(data), 1)
	}

	attempts := make([]attempt, 0, n)
	for segments := 1; segments <= n; segments++ {
		segments := segments
		attempts = append(attempts, attempt{
			name: fmt.Sprintf("split-%d", segments),
			run: func(data []byte) ([]byte, error) {
				return compressSplit(data, segments)
			},
		})
	}

	workers := 1
	if concurrent {
		workers = min(len(attempts), runtime.NumCPU())
	}
	logf := b.Logf
	if logf == nil {
		logf = stderrf
	}
	return smallest(data, attempts, workers, logf)
}

func compressSplit(data []byte, segments int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := kzlib.NewWriterLevel(&buf, BestCompression)
	if err != nil {
		return nil, err
	}

	size := (len(data) + segments - 1) / segments
	for start := 0; start < len(data); start += size {
		end := min(start+size, len(data))
		if _, err := w.Write(data[start:end]); err != nil {
			w.Close()
			return nil, err
		}
		if end < len(data) {
			if err := w.Flush(); err != nil {
				w.Close()
				return nil, err
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
