package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/yusshu/featherpng/internal/deflate"
	"github.com/yusshu/featherpng/internal/pipeline"
	"github.com/yusshu/featherpng/internal/profile"
	"github.com/yusshu/featherpng/internal/report"
)

var (
	optOutDir      string
	optProfile     string
	optWorkers     int
	optLevel       int
	optCompressor  string
	optIterations  int
	optRemoveGamma bool
	optNoRegress   bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <input_dir_or_file>",
	Short: "Losslessly recompress PNG files and write a report",
	Long: `Scans the input for .png files, recompresses each one and writes the
result under the output directory with the same relative path. A JSON report
with per-file sizes, chosen filter and content hash is written next to them.

Profiles: default (search levels 9..1), fast (level 9 only),
max (block-splitting compressor).`,
	Args: cobra.ExactArgs(1),
	RunE: runOptimize,
}

func init() {
	f := optimizeCmd.Flags()
	f.StringVarP(&optOutDir, "out", "o", "./featherpng_out", "output directory")
	f.StringVarP(&optProfile, "profile", "p", "default", "optimization profile")
	f.IntVarP(&optWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	f.IntVarP(&optLevel, "level", "l", deflate.LevelSearch, "zlib level 0-9, -1 searches 9..1 (overrides profile)")
	f.StringVar(&optCompressor, "compressor", "", "standard or blocksplit (overrides profile)")
	f.IntVar(&optIterations, "iterations", 0, "block-splitting iterations (overrides profile)")
	f.BoolVar(&optRemoveGamma, "remove-gamma", false, "drop the gAMA chunk")
	f.BoolVar(&optNoRegress, "no-regress-size", true, "keep the original file when optimization does not shrink it")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(optOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof := profile.Get(optProfile)
	flags := cmd.Flags()
	if flags.Changed("level") {
		prof.Level = optLevel
	}
	if flags.Changed("compressor") {
		prof.Compressor = optCompressor
	}
	if flags.Changed("iterations") {
		prof.Iterations = optIterations
	}
	if flags.Changed("remove-gamma") {
		prof.RemoveGamma = optRemoveGamma
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (level=%d, compressor=%s, iterations=%d, remove-gamma=%v)",
		prof.Name, prof.Level, prof.Compressor, prof.Iterations, prof.RemoveGamma)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p, err := pipeline.New(pipeline.Config{
		InputPath:     absInput,
		OutputDir:     absOutput,
		Profile:       prof,
		Workers:       optWorkers,
		Verbose:       verbose,
		NoRegressSize: optNoRegress,
	})
	if err != nil {
		return err
	}

	r, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	reportPath := filepath.Join(absOutput, report.FileName)
	if err := report.WriteJSON(r, reportPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printOptimizeReport(r, time.Since(start))
	return nil
}

func printOptimizeReport(r *report.Report, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("  featherpng optimize complete")
	fmt.Println()

	s := r.Stats
	ratio := float64(0)
	if s.TotalInputBytes > 0 {
		ratio = float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
	}

	fmt.Printf("  Files:       %d\n", s.TotalFiles)
	fmt.Printf("  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Printf("  Saved:       %s (%.1f%% of original)\n", formatBytes(report.TotalSavings(r.Entries)), ratio)
	if s.SkippedFiles > 0 {
		fmt.Printf("  Skipped:     %d files (interlaced, below 8 bits per pixel)\n", s.SkippedFiles)
	}
	if s.KeptOriginal > 0 {
		fmt.Printf("  Unchanged:   %d files (already optimal)\n", s.KeptOriginal)
	}
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if r.BuildInfo != nil {
		fmt.Printf("  Workers:     %d\n", r.BuildInfo.Workers)
	}
	fmt.Println()

	// Top 10 biggest savings.
	if len(r.Entries) > 0 {
		items := append([]report.Entry(nil), r.Entries...)
		sort.Slice(items, func(i, j int) bool {
			return items[i].Saved() > items[j].Saved()
		})
		n := min(len(items), 10)
		fmt.Printf("  Top %d savings (original -> optimized):\n", n)
		for _, e := range items[:n] {
			saved := float64(0)
			if e.OriginalSize > 0 {
				saved = float64(e.Saved()) / float64(e.OriginalSize) * 100
			}
			fmt.Printf("    %-40s %8s -> %8s  (-%.0f%%)  %s\n",
				truncPath(e.Path, 40),
				formatBytes(e.OriginalSize),
				formatBytes(e.OptimizedSize),
				saved,
				e.Filter,
			)
		}
		fmt.Println()
	}

	fmt.Printf("  Report:      %s\n", report.FileName)
	fmt.Println()
}
