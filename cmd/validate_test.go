package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yusshu/featherpng/internal/imggen"
	"github.com/yusshu/featherpng/internal/pipeline"
	"github.com/yusshu/featherpng/internal/profile"
	"github.com/yusshu/featherpng/internal/report"
)

func optimizedDir(t *testing.T) (string, *report.Report) {
	t.Helper()
	in, out := t.TempDir(), t.TempDir()
	if err := os.WriteFile(filepath.Join(in, "a.png"), imggen.Encode(imggen.Gradient(20, 10)), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := pipeline.New(pipeline.Config{InputPath: in, OutputDir: out, Profile: profile.Get("fast")})
	if err != nil {
		t.Fatal(err)
	}
	r, err := p.Run()
	if err != nil {
		t.Fatal(err)
	}
	if err := report.WriteJSON(r, filepath.Join(out, report.FileName)); err != nil {
		t.Fatal(err)
	}
	return out, r
}

func TestValidateReport(t *testing.T) {
	dir, r := optimizedDir(t)
	if errs := validateReport(r, dir); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if err := os.WriteFile(filepath.Join(dir, "a.png"), []byte("tampered"), 0o644); err != nil {
		t.Fatal(err)
	}
	if errs := validateReport(r, dir); len(errs) < 2 {
		t.Errorf("expected size and hash errors, got %v", errs)
	}
}

func TestReportPath(t *testing.T) {
	dir, _ := optimizedDir(t)
	got, err := reportPath(dir)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, report.FileName); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if _, err := reportPath(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing path")
	}
}
