// Package report records the outcome of a batch optimization run.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// New creates an empty report with defaults.
func New(profileName string) *Report {
	return &Report{
		Version:     SupportedVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
	}
}

// TotalSavings sums the bytes saved over entries.
func TotalSavings(entries []Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Saved()
	}
	return total
}

// ComputeStats recalculates aggregate statistics from the entries.
func (r *Report) ComputeStats() {
	var s Stats
	s.TotalFiles = len(r.Entries)
	for _, e := range r.Entries {
		s.TotalInputBytes += e.OriginalSize
		s.TotalOutputBytes += e.OptimizedSize
		if e.Skipped {
			s.SkippedFiles++
		}
		if e.KeptOriginal {
			s.KeptOriginal++
		}
	}
	r.Stats = s
}

// WriteJSON serializes the report to a JSON file with entries sorted by path.
func WriteJSON(r *Report, path string) error {
	sort.Slice(r.Entries, func(i, j int) bool { return r.Entries[i].Path < r.Entries[j].Path })
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a report written by WriteJSON.
func ReadJSON(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &r, nil
}
