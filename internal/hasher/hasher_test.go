package hasher

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestContentHashMatchesReader(t *testing.T) {
	data := bytes.Repeat([]byte("featherpng"), 1000)
	want := ContentHash(data, 0)
	if len(want) != 16 {
		t.Fatalf("full hash length: got %d, want 16", len(want))
	}
	got, err := ContentHashReader(bytes.NewReader(data), 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("reader hash %s != %s", got, want)
	}
	if short := ContentHash(data, 8); short != want[:8] {
		t.Errorf("truncated hash: got %s, want %s", short, want[:8])
	}
}

func TestContentHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.png")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ContentHashFile(path, ReportLen)
	if err != nil {
		t.Fatal(err)
	}
	if want := ContentHash([]byte("abc"), ReportLen); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if _, err := ContentHashFile(filepath.Join(t.TempDir(), "missing"), 0); err == nil {
		t.Error("expected error for missing file")
	}
}
