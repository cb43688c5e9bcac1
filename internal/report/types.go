package report

// Report is the top-level output of a featherpng batch run.
type Report struct {
	Version     int        `json:"version"`
	GeneratedAt string     `json:"generated_at"`
	Profile     string     `json:"profile"`
	BuildInfo   *BuildInfo `json:"build_info,omitempty"`
	Entries     []Entry    `json:"entries"`
	Stats       Stats      `json:"stats"`
}

// BuildInfo captures run-time parameters for diagnostics.
type BuildInfo struct {
	Workers    int    `json:"workers"`
	Compressor string `json:"compressor"`
	Level      int    `json:"level"` // -1 means every level was searched
}

// Entry describes one optimized file.
type Entry struct {
	Path          string `json:"path"`   // output path relative to the report
	Source        string `json:"source"` // input path relative to the input root
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	OriginalSize  int64  `json:"original_size"`
	OptimizedSize int64  `json:"optimized_size"` // bytes on disk
	Filter        string `json:"filter,omitempty"`
	Hash          string `json:"hash"`                    // first 16 hex chars of xxhash64
	Skipped       bool   `json:"skipped,omitempty"`       // passed through unchanged (low-bit interlaced)
	KeptOriginal  bool   `json:"kept_original,omitempty"` // optimization did not shrink the file
}

// Saved is the number of bytes the entry saved; negative when it grew.
func (e Entry) Saved() int64 {
	return e.OriginalSize - e.OptimizedSize
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalFiles       int   `json:"total_files"`
	SkippedFiles     int   `json:"skipped_files,omitempty"`
	KeptOriginal     int   `json:"kept_original,omitempty"`
}

// SupportedVersion is the current schema version.
const SupportedVersion = 1

// FileName is the report file written next to the optimized images.
const FileName = "featherpng.report.json"
