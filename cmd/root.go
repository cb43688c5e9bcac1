package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "featherpng",
	Short: "Lossless PNG recompression",
	Long: `featherpng makes PNG files smaller without changing a single pixel.

Every filter type and an adaptive per-row choice are tried against several
deflate strategies and levels; the smallest stream wins. Interlaced images
are rewritten non-interlaced and non-essential ancillary chunks are dropped.`,
	Version:      version,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"featherpng %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[featherpng] "+format+"\n", args...)
	}
}

// warnf reports a non-fatal engine event.
func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[featherpng] warn: "+format+"\n", args...)
}

func formatBytes(b int64) string {
	neg := b < 0
	if neg {
		b = -b
	}
	var s string
	switch {
	case b >= 1<<20:
		s = fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		s = fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		s = fmt.Sprintf("%d B", b)
	}
	if neg {
		return "-" + s
	}
	return s
}

func truncPath(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
