package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/yusshu/featherpng/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_report>",
	Short: "Display statistics for an optimized output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// reportPath resolves a directory argument to the report inside it.
func reportPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return filepath.Join(path, report.FileName), nil
	}
	return path, nil
}

func runStats(_ *cobra.Command, args []string) error {
	path, err := reportPath(args[0])
	if err != nil {
		return err
	}
	r, err := report.ReadJSON(path)
	if err != nil {
		return err
	}
	printStats(r)
	return nil
}

func printStats(r *report.Report) {
	fmt.Println()
	fmt.Printf("  Report version:   %d\n", r.Version)
	fmt.Printf("  Generated:        %s\n", r.GeneratedAt)
	fmt.Printf("  Profile:          %s\n", r.Profile)
	if r.BuildInfo != nil {
		level := fmt.Sprint(r.BuildInfo.Level)
		if r.BuildInfo.Level < 0 || r.BuildInfo.Level > 9 {
			level = "search 9..1"
		}
		fmt.Printf("  Workers:          %d\n", r.BuildInfo.Workers)
		fmt.Printf("  Compressor:       %s (level %s)\n", r.BuildInfo.Compressor, level)
	}
	fmt.Println()

	s := r.Stats
	fmt.Printf("  Total files:      %d\n", s.TotalFiles)
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Printf("  Saved:            %s\n", formatBytes(report.TotalSavings(r.Entries)))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Printf("  Compression:      %.1f%% of original\n", ratio)
	}
	fmt.Println()

	// Per-filter breakdown.
	filterStats := map[string]struct {
		count int
		saved int64
	}{}
	for _, e := range r.Entries {
		name := e.Filter
		switch {
		case e.Skipped:
			name = "(skipped)"
		case e.KeptOriginal:
			name = "(unchanged)"
		}
		fs := filterStats[name]
		fs.count++
		fs.saved += e.Saved()
		filterStats[name] = fs
	}
	var names []string
	for name := range filterStats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("  Filter breakdown:")
	for _, name := range names {
		fs := filterStats[name]
		fmt.Printf("    %-12s  %4d files  saved %s\n", name, fs.count, formatBytes(fs.saved))
	}
	fmt.Println()

	// Warnings.
	var warnings []string
	for _, e := range r.Entries {
		if e.Saved() < 0 {
			warnings = append(warnings, fmt.Sprintf("%q grew by %s", e.Path, formatBytes(-e.Saved())))
		}
		if e.Hash == "" {
			warnings = append(warnings, fmt.Sprintf("%q missing hash", e.Path))
		}
	}
	if len(warnings) > 0 {
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ! %s\n", w)
		}
		fmt.Println()
	}
}
