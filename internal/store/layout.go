// Package store implements the on-disk persistence layer: directory
// layout, atomic JSON writes, and the transcript/results file schemas.
package store

import (
	"fmt"
	"path/filepath"
)

// Layout resolves the directory conventions rooted at a base directory.
type Layout struct {
	Base string
}

// NewLayout builds a Layout rooted at base.
func NewLayout(base string) Layout {
	return Layout{Base: base}
}

// TermDir returns <base>/kadencja_NN.
func (l Layout) TermDir(term int) string {
	return filepath.Join(l.Base, fmt.Sprintf("kadencja_%02d", term))
}

// SittingDir returns <base>/kadencja_NN/posiedzenie_NNN[_YYYY-MM-DD].
// date is optional; pass "" to omit the suffix.
func (l Layout) SittingDir(term, sitting int, date string) string {
	name := fmt.Sprintf("posiedzenie_%03d", sitting)
	if date != "" {
		name += "_" + date
	}
	return filepath.Join(l.TermDir(term), name)
}

// SittingInfoPath returns the sitting metadata file path.
func (l Layout) SittingInfoPath(term, sitting int, date string) string {
	return filepath.Join(l.SittingDir(term, sitting, date), "info_posiedzenia.json")
}

// TranscriptsDir returns the transcripts subdirectory for a sitting.
func (l Layout) TranscriptsDir(term, sitting int, date string) string {
	return filepath.Join(l.SittingDir(term, sitting, date), "transcripts")
}

// TranscriptPath returns the per-day transcript file path inside the
// sitting's un-suffixed directory, next to its info_posiedzenia.json.
func (l Layout) TranscriptPath(term, sitting int, date string) string {
	return filepath.Join(l.TranscriptsDir(term, sitting, ""), fmt.Sprintf("transkrypty_%s.json", date))
}

// MembersDir returns <base>/kadencja_NN/poslowie.
func (l Layout) MembersDir(term int) string {
	return filepath.Join(l.TermDir(term), "poslowie")
}

// ClubsDir returns <base>/kadencja_NN/kluby.
func (l Layout) ClubsDir(term int) string {
	return filepath.Join(l.TermDir(term), "kluby")
}

// CacheDir returns <base>/cache.
func (l Layout) CacheDir() string {
	return filepath.Join(l.Base, "cache")
}

// DetectorDir returns <base>/detector.
func (l Layout) DetectorDir() string {
	return filepath.Join(l.Base, "detector")
}

// LogsDir returns <base>/logs.
func (l Layout) LogsDir() string {
	return filepath.Join(l.Base, "logs")
}

// ResultsPath returns the path for a fragment-results report generated at
// the given timestamp (RFC3339-ish, caller-supplied and filesystem-safe).
func (l Layout) ResultsPath(source, timestamp string) string {
	return filepath.Join(l.DetectorDir(), fmt.Sprintf("results_%s_%s.json", source, timestamp))
}
