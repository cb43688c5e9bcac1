// Package pipeline optimizes a directory of PNG files on a bounded worker
// pool and collects the outcome into a report.
package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/yusshu/featherpng/internal/optimizer"
	"github.com/yusshu/featherpng/internal/pngproc"
	"github.com/yusshu/featherpng/internal/profile"
	"github.com/yusshu/featherpng/internal/report"
)

// Config holds all parameters for a pipeline run.
type Config struct {
	InputPath     string // directory or single file
	OutputDir     string
	Profile       profile.Profile
	Workers       int
	Verbose       bool
	NoRegressSize bool // keep the original bytes when optimization does not shrink a file
}

// Pipeline orchestrates image processing.
type Pipeline struct {
	cfg Config
	opt *optimizer.Optimizer
}

// New creates a configured pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	p := &Pipeline{cfg: cfg}
	c, err := cfg.Profile.NewCompressor(p.warnf)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", cfg.Profile.Name, err)
	}
	p.opt = optimizer.New(pngproc.NewContext(c, p.warnf))
	return p, nil
}

// Run executes the full pipeline and returns the report.
func (p *Pipeline) Run() (*report.Report, error) {
	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no PNG files found in %s", p.cfg.InputPath)
	}
	p.verbosef("found %d images", len(sources))

	// Step 2: Process images in parallel.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			p.verbosef("processing: %s", s.RelPath)
			results[idx] = processFile(s, p.cfg, p.opt)

			if r := results[idx]; r.err == nil {
				p.verbosef("done: %s (%d -> %d bytes, filter %s)",
					s.RelPath, r.entry.OriginalSize, r.entry.OptimizedSize, r.entry.Filter)
			}
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect results into the report.
	r := report.New(p.cfg.Profile.Name)

	var errs []error
	for _, res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}
		r.Entries = append(r.Entries, res.entry)
	}

	// Report errors but don't fail the entire run for partial failures.
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[featherpng] error: %v\n", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", len(errs))
		}
		fmt.Fprintf(os.Stderr, "[featherpng] warning: %d of %d images had errors\n",
			len(errs), len(sources))
	}

	r.BuildInfo = &report.BuildInfo{
		Workers:    p.cfg.Workers,
		Compressor: p.cfg.Profile.Compressor,
		Level:      p.cfg.Profile.Level,
	}
	r.ComputeStats()
	return r, nil
}

func (p *Pipeline) warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[featherpng] warn: "+format+"\n", args...)
}

func (p *Pipeline) verbosef(format string, args ...any) {
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[featherpng] "+format+"\n", args...)
	}
}
