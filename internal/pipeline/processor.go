package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yusshu/featherpng/internal/hasher"
	"github.com/yusshu/featherpng/internal/optimizer"
	"github.com/yusshu/featherpng/internal/pngimage"
	"github.com/yusshu/featherpng/internal/report"
)

// processResult holds the result of processing a single source file.
type processResult struct {
	entry report.Entry
	err   error
}

// processFile handles a single source: decode, optimize, encode, write.
func processFile(src Source, cfg Config, opt *optimizer.Optimizer) processResult {
	original, err := os.ReadFile(src.AbsPath)
	if err != nil {
		return processResult{err: fmt.Errorf("read %s: %w", src.RelPath, err)}
	}

	img, err := pngimage.Decode(original)
	if err != nil {
		return processResult{err: fmt.Errorf("decode %s: %w", src.RelPath, err)}
	}

	res, err := opt.Optimize(img, optimizer.Options{
		RemoveGamma: cfg.Profile.RemoveGamma,
		Level:       cfg.Profile.Level,
	})
	if err != nil {
		return processResult{err: fmt.Errorf("optimize %s: %w", src.RelPath, err)}
	}

	data, err := res.Image.Bytes()
	if err != nil {
		return processResult{err: fmt.Errorf("encode %s: %w", src.RelPath, err)}
	}

	entry := report.Entry{
		Path:         src.RelPath,
		Source:       src.RelPath,
		Width:        img.Width(),
		Height:       img.Height(),
		OriginalSize: int64(len(original)),
		Filter:       res.Filter,
		Skipped:      res.Skipped,
	}

	// Keep the original bytes if optimizing did not help (--no-regress-size).
	if cfg.NoRegressSize && len(data) >= len(original) {
		if cfg.Verbose {
			fmt.Fprintf(os.Stderr, "[featherpng] keep: %s: optimized %d >= original %d bytes\n",
				src.RelPath, len(data), len(original))
		}
		data = original
		entry.KeptOriginal = true
		entry.Filter = ""
	}

	outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(src.RelPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return processResult{err: fmt.Errorf("create %s: %w", filepath.Dir(src.RelPath), err)}
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return processResult{err: fmt.Errorf("write %s: %w", src.RelPath, err)}
	}

	entry.OptimizedSize = int64(len(data))
	entry.Hash = hasher.ContentHash(data, hasher.ReportLen)
	return processResult{entry: entry}
}
