package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// Source represents a discovered PNG file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory, with forward
	// slashes. For a single-file input it is the file's base name.
	RelPath string
	// Size is the file size in bytes.
	Size int64
}

// ScanImages returns every .png file under input. input may also name a
// single file, which is returned as the only source.
func ScanImages(input string) ([]Source, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []Source{{AbsPath: input, RelPath: filepath.Base(input), Size: info.Size()}}, nil
	}

	var sources []Source
	err = filepath.Walk(input, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories.
			if strings.HasPrefix(info.Name(), ".") && path != input {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".png") {
			return nil
		}

		relPath, err := filepath.Rel(input, path)
		if err != nil {
			return err
		}
		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			Size:    info.Size(),
		})
		return nil
	})
	return sources, err
}
