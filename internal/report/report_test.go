package report

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReportRoundtrip(t *testing.T) {
	r := New("test-profile")
	r.BuildInfo = &BuildInfo{Workers: 4, Compressor: "standard", Level: -1}
	r.Entries = []Entry{
		{Path: "b/icon.png", Source: "b/icon.png", Width: 16, Height: 16, OriginalSize: 900, OptimizedSize: 700, Filter: "paeth", Hash: "abcd1234abcd1234"},
		{Path: "a.png", Source: "a.png", Width: 8, Height: 2, OriginalSize: 100, OptimizedSize: 100, Hash: "0011223344556677", KeptOriginal: true},
	}

	path := filepath.Join(t.TempDir(), FileName)
	if err := WriteJSON(r, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	r2, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if r2.Version != SupportedVersion {
		t.Errorf("version: got %d, want %d", r2.Version, SupportedVersion)
	}
	if r2.Profile != "test-profile" {
		t.Errorf("profile: got %q", r2.Profile)
	}
	if r2.BuildInfo == nil || r2.BuildInfo.Workers != 4 || r2.BuildInfo.Level != -1 {
		t.Errorf("build_info: got %+v", r2.BuildInfo)
	}
	if diff := cmp.Diff(r.Entries, r2.Entries); diff != "" {
		t.Errorf("entries:\n%s", diff)
	}
	if r2.Entries[0].Path != "a.png" {
		t.Errorf("entries not sorted by path: first is %q", r2.Entries[0].Path)
	}

	want := Stats{TotalInputBytes: 1000, TotalOutputBytes: 800, TotalFiles: 2, KeptOriginal: 1}
	if diff := cmp.Diff(want, r2.Stats); diff != "" {
		t.Errorf("stats:\n%s", diff)
	}
}

func TestTotalSavings(t *testing.T) {
	entries := []Entry{
		{OriginalSize: 1000, OptimizedSize: 600},
		{OriginalSize: 50, OptimizedSize: 80},
		{OriginalSize: 10, OptimizedSize: 10},
	}
	if got := TotalSavings(entries); got != 370 {
		t.Errorf("got %d, want 370", got)
	}
	if got := TotalSavings(nil); got != 0 {
		t.Errorf("empty list: got %d, want 0", got)
	}
}

func TestReportIgnoresUnknownFields(t *testing.T) {
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"profile": "test",
		"future_field": "should be ignored",
		"build_info": { "workers": 8, "compressor": "blocksplit", "level": 9, "new_flag": true },
		"entries": [],
		"stats": { "total_input_bytes": 0, "total_output_bytes": 0, "total_files": 0, "new_stat": 42 }
	}`

	var r Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if r.BuildInfo == nil || r.BuildInfo.Compressor != "blocksplit" {
		t.Error("build_info not parsed correctly")
	}
}

func TestReadJSONMissing(t *testing.T) {
	if _, err := ReadJSON(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error")
	}
}
