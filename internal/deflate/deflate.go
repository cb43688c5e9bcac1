// Package deflate produces the smallest zlib stream it can find for a
// buffer by trying several compressor settings, optionally in parallel.
package deflate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	kzlib "github.com/klauspost/compress/zlib"
)

// LevelSearch asks a Compressor to scan every level from BestCompression
// down to BestSpeed. Any level outside NoCompression..BestCompression has
// the same effect.
const LevelSearch = -1

const (
	NoCompression   = 0
	BestSpeed       = 1
	BestCompression = 9
)

// ErrNoCandidates is returned when every compression attempt failed.
var ErrNoCandidates = errors.New("deflate: no compression attempt succeeded")

// Compressor turns raw image data into a zlib stream.
type Compressor interface {
	// Compress returns the smallest valid zlib stream it found for data.
	// level is a zlib level or LevelSearch. concurrent allows the
	// implementation to run its attempts in parallel.
	Compress(data []byte, level int, concurrent bool) ([]byte, error)
}

// Inflate decompresses a zlib stream.
func Inflate(data []byte) ([]byte, error) {
	r, err := kzlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out bytes.Buffer
	if _, err := io.Copy(&out, r); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// validLevel reports whether level names a single zlib level.
func validLevel(level int) bool {
	return level >= NoCompression && level <= BestCompression
}

// attempt is one independent compression task.
type attempt struct {
	name string
	run  func(data []byte) ([]byte, error)
}

type attemptResult struct {
	data []byte
	err  error
}

// smallest runs every attempt over the same read-only input and returns the
// shortest output. Failed attempts are logged and skipped. Ties go to the
// earlier attempt, so the result does not depend on completion order.
func smallest(data []byte, attempts []attempt, workers int, logf func(string, ...any)) ([]byte, error) {
	results := make([]attemptResult, len(attempts))

	if workers <= 1 {
		for i, a := range attempts {
			results[i] = runAttempt(data, a)
		}
	} else {
		var wg sync.WaitGroup
		sem := make(chan struct{}, workers)
		for i, a := range attempts {
			wg.Add(1)
			go func(idx int, a attempt) {
				defer wg.Done()
				sem <- struct{}{}        // acquire
				defer func() { <-sem }() // release

				results[idx] = runAttempt(data, a)
			}(i, a)
		}
		wg.Wait()
	}

	var best []byte
	for i, r := range results {
		if r.err != nil {
			logf("compression attempt %s failed: %v", attempts[i].name, r.err)
			continue
		}
		if best == nil || len(r.data) < len(best) {
			best = r.data
		}
	}
	if best == nil {
		return nil, ErrNoCandidates
	}
	return best, nil
}

// runAttempt runs a and checks that its output inflates back to data.
func runAttempt(data []byte, a attempt) (res attemptResult) {
	defer func() {
		if r := recover(); r != nil {
			res = attemptResult{err: fmt.Errorf("panic: %v", r)}
		}
	}()

	out, err := a.run(data)
	if err != nil {
		return attemptResult{err: err}
	}
	check, err := Inflate(out)
	if err != nil {
		return attemptResult{err: fmt.Errorf("verify: %w", err)}
	}
	if !bytes.Equal(check, data) {
		return attemptResult{err: errors.New("verify: output does not inflate to the input")}
	}
	return attemptResult{data: out}
}

func stderrf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[featherpng] "+format+"\n", args...)
}
