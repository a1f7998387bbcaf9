package store

import (
	"time"

	"github.com/sejmbot-go/detektor/internal/model"
)

// ResultsFile is the detector's per-run report, written to
// detector/results_<source>_<timestamp>.json.
type ResultsFile struct {
	Source      string           `json:"source"`
	GeneratedAt time.Time        `json:"generated_at"`
	Fragments   []model.Fragment `json:"fragments"`
	Stats       ResultsStats     `json:"stats"`
}

// ResultsStats summarizes one detector run.
type ResultsStats struct {
	UtterancesScanned int            `json:"utterances_scanned"`
	FragmentsFound    int            `json:"fragments_found"`
	FragmentsFunny    int            `json:"fragments_funny"`
	ProviderCounts    map[string]int `json:"provider_counts,omitempty"`
}

// WriteResults persists a detector run's report atomically.
func WriteResults(layout Layout, source string, timestamp string, fragments []model.Fragment, stats ResultsStats) error {
	rf := ResultsFile{
		Source:      source,
		GeneratedAt: time.Now().UTC(),
		Fragments:   fragments,
		Stats:       stats,
	}
	return WriteJSONAtomic(layout.ResultsPath(source, timestamp), rf)
}

// ReadResults loads a persisted results file.
func ReadResults(path string) (ResultsFile, error) {
	var rf ResultsFile
	err := ReadJSON(path, &rf)
	return rf, err
}

// SittingInfo is the persisted metadata sidecar for a sitting directory.
type SittingInfo struct {
	Term    int      `json:"term"`
	Number  int      `json:"number"`
	Dates   []string `json:"dates"`
	Title   string   `json:"title,omitempty"`
	Current bool     `json:"current"`
}

// WriteSittingInfo persists a sitting's metadata atomically.
func WriteSittingInfo(layout Layout, s model.Sitting, date string) error {
	info := SittingInfo{Term: s.Term, Number: s.Number, Dates: s.Dates, Title: s.Title, Current: s.Current}
	return WriteJSONAtomic(layout.SittingInfoPath(s.Term, s.Number, date), info)
}
