package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/sejmbot-go/detektor/internal/model"
)

// TranscriptMetadata describes the sitting day a TranscriptFile covers.
type TranscriptMetadata struct {
	Term        int       `json:"term"`
	SittingID   int       `json:"sitting_id"`
	Date        string    `json:"date"`
	GeneratedAt time.Time `json:"generated_at"`
	SittingInfo string    `json:"sitting_info,omitempty"`
}

// TranscriptStatement is one speaker's turn as persisted to disk.
type TranscriptStatement struct {
	Num             int    `json:"num"`
	Speaker         string `json:"speaker"`
	Text            string `json:"text"`
	StartTime       string `json:"start_time,omitempty"`
	EndTime         string `json:"end_time,omitempty"`
	DurationSeconds int    `json:"duration_seconds"`
	Original        string `json:"original,omitempty"`
}

// TranscriptFile is the persisted per-day transcript schema.
type TranscriptFile struct {
	Metadata   TranscriptMetadata    `json:"metadata"`
	Statements []TranscriptStatement `json:"statements"`
}

// BuildTranscriptFile assembles a TranscriptFile from raw API statements,
// sorted by num. It never mutates its input.
func BuildTranscriptFile(term, sittingID int, date string, sittingInfo string, statements []model.Statement) TranscriptFile {
	out := make([]TranscriptStatement, 0, len(statements))
	for _, s := range statements {
		ts := TranscriptStatement{
			Num:             s.Num,
			Speaker:         s.SpeakerName,
			Text:            s.Text,
			DurationSeconds: s.DurationSeconds(),
			Original:        s.Original,
		}
		if s.StartTime != nil {
			ts.StartTime = s.StartTime.Format(time.RFC3339)
		}
		if s.EndTime != nil {
			ts.EndTime = s.EndTime.Format(time.RFC3339)
		}
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Num < out[j].Num })
	return TranscriptFile{
		Metadata: TranscriptMetadata{
			Term:        term,
			SittingID:   sittingID,
			Date:        date,
			GeneratedAt: time.Now().UTC(),
			SittingInfo: sittingInfo,
		},
		Statements: out,
	}
}

// HasContent reports whether at least one statement carries non-empty
// text. A transcript file must never be written when this is false.
func (t TranscriptFile) HasContent() bool {
	for _, s := range t.Statements {
		if s.Text != "" {
			return true
		}
	}
	return false
}

// WriteTranscript persists a transcript day's file atomically, refusing
// to write an empty-content file.
func WriteTranscript(layout Layout, tf TranscriptFile) error {
	if !tf.HasContent() {
		return fmt.Errorf("refusing to write transcript with no statement content: term=%d sitting=%d date=%s", tf.Metadata.Term, tf.Metadata.SittingID, tf.Metadata.Date)
	}
	path := layout.TranscriptPath(tf.Metadata.Term, tf.Metadata.SittingID, tf.Metadata.Date)
	return WriteJSONAtomic(path, tf)
}

// ReadTranscript loads a persisted transcript file.
func ReadTranscript(path string) (TranscriptFile, error) {
	var tf TranscriptFile
	err := ReadJSON(path, &tf)
	return tf, err
}
