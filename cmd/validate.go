package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yusshu/featherpng/internal/hasher"
	"github.com/yusshu/featherpng/internal/pngimage"
	"github.com/yusshu/featherpng/internal/report"
)

var validateCmd = &cobra.Command{
	Use:   "validate <out_dir_or_report>",
	Short: "Validate a featherpng report against the files on disk",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	path, err := reportPath(args[0])
	if err != nil {
		return err
	}
	r, err := report.ReadJSON(path)
	if err != nil {
		return err
	}

	errs := validateReport(r, filepath.Dir(path))
	if len(errs) == 0 {
		fmt.Println("  ok: report is valid")
		fmt.Printf("  ok: %d files present, sizes and hashes match\n", len(r.Entries))
		return nil
	}

	fmt.Printf("  Report has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    - %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateReport(r *report.Report, baseDir string) []string {
	var errs []string

	if r.Version != report.SupportedVersion {
		errs = append(errs, fmt.Sprintf("unsupported report version: %d", r.Version))
	}

	seen := map[string]bool{}
	for i, e := range r.Entries {
		if e.Path == "" {
			errs = append(errs, fmt.Sprintf("entry[%d]: missing path", i))
			continue
		}
		if seen[e.Path] {
			errs = append(errs, fmt.Sprintf("entry[%d]: duplicate path %q", i, e.Path))
		}
		seen[e.Path] = true

		if e.Width <= 0 || e.Height <= 0 {
			errs = append(errs, fmt.Sprintf("%q: invalid dimensions %dx%d", e.Path, e.Width, e.Height))
		}

		fullPath := filepath.Join(baseDir, filepath.FromSlash(e.Path))
		info, err := os.Stat(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%q: file not found", e.Path))
			continue
		}
		if info.Size() != e.OptimizedSize {
			errs = append(errs, fmt.Sprintf("%q: size mismatch: report=%d, disk=%d", e.Path, e.OptimizedSize, info.Size()))
		}

		sum, err := hasher.ContentHashFile(fullPath, hasher.ReportLen)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%q: hash: %v", e.Path, err))
		} else if sum != e.Hash {
			errs = append(errs, fmt.Sprintf("%q: hash mismatch: report=%s, disk=%s", e.Path, e.Hash, sum))
		}

		img, err := pngimage.DecodeFile(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%q: %v", e.Path, err))
		} else if img.Width() != e.Width || img.Height() != e.Height {
			errs = append(errs, fmt.Sprintf("%q: dimensions changed: report=%dx%d, file=%dx%d",
				e.Path, e.Width, e.Height, img.Width(), img.Height()))
		}
	}

	// Verify stats consistency.
	var in, out int64
	for _, e := range r.Entries {
		in += e.OriginalSize
		out += e.OptimizedSize
	}
	if r.Stats.TotalFiles != len(r.Entries) {
		errs = append(errs, fmt.Sprintf("stats.total_files mismatch: %d != %d", r.Stats.TotalFiles, len(r.Entries)))
	}
	if r.Stats.TotalInputBytes != in || r.Stats.TotalOutputBytes != out {
		errs = append(errs, fmt.Sprintf("stats byte totals mismatch: %d/%d != %d/%d",
			r.Stats.TotalInputBytes, r.Stats.TotalOutputBytes, in, out))
	}

	return errs
}
