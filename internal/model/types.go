// Package model holds the shared record types used across every component
// of the pipeline: upstream API records, parser output, and the annotated
// fragments/evaluations the pipeline ultimately persists.
package model

import (
	"time"

	"github.com/rs/xid"
)

// Term is a numbered parliamentary term (kadencja).
type Term struct {
	Num     int        `json:"num"`
	From    *time.Time `json:"from,omitempty"`
	To      *time.Time `json:"to,omitempty"`
	Current bool       `json:"current"`
}

// Sitting is a numbered multi-day session (posiedzenie) within a term.
type Sitting struct {
	Term    int      `json:"term"`
	Number  int      `json:"number"`
	Dates   []string `json:"dates"` // YYYY-MM-DD, UTC calendar dates
	Title   string   `json:"title,omitempty"`
	Current bool     `json:"current"`
}

// Statement is a single contiguous speech by one speaker on one sitting day.
type Statement struct {
	Num         int        `json:"num"`
	SpeakerName string     `json:"speaker_name"`
	FirstName   string     `json:"first_name,omitempty"`
	LastName    string     `json:"last_name,omitempty"`
	Function    string     `json:"function,omitempty"`
	Club        string     `json:"club,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Text        string     `json:"text,omitempty"`
	Original    string     `json:"original,omitempty"`
}

// DurationSeconds returns the statement duration, or 0 if either timestamp
// is missing.
func (s Statement) DurationSeconds() int {
	if s.StartTime == nil || s.EndTime == nil {
		return 0
	}
	d := s.EndTime.Sub(*s.StartTime)
	if d < 0 {
		return 0
	}
	return int(d.Seconds())
}

// Member is a canonical parliamentary member identity.
type Member struct {
	ID          int    `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Club        string `json:"club"`
	District    string `json:"district,omitempty"`
	Voivodeship string `json:"voivodeship,omitempty"`
	Profession  string `json:"profession,omitempty"`
	Email       string `json:"email,omitempty"`
}

// FullName returns "FirstName LastName".
func (m Member) FullName() string {
	if m.FirstName == "" {
		return m.LastName
	}
	return m.FirstName + " " + m.LastName
}

// Club is a parliamentary caucus.
type Club struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Abbreviations []string `json:"abbreviations,omitempty"`
	MembersCount  int      `json:"members_count,omitempty"`
}

// UnknownSpeaker is the display name used when a parsed utterance could
// not be attributed to a named speaker.
const UnknownSpeaker = "Nieznany mówca"

// Speaker is the canonical speaker identity attached to an Utterance.
type Speaker struct {
	Name string
	Club string // empty when unknown
}

// DisplayName returns Name, or UnknownSpeaker when Name is empty.
func (s Speaker) DisplayName() string {
	if s.Name == "" {
		return UnknownSpeaker
	}
	return s.Name
}

// Utterance is the parser's internal record of one statement: speaker,
// cleaned text, and the offset bookkeeping fragment extraction needs.
type Utterance struct {
	Index         int // ordinal index within the parsed transcript
	Speaker       Speaker
	Text          string // cleaned text
	RawText       string // source text of the utterance; transcript.Parser fills it with the same cleaned text as Text
	ByteOffset    int    // offset of Text's start within the source transcript
	WordPositions []int  // word[i] -> byte offset into Text, strictly monotone
}

// WordCount returns the number of whitespace-delimited words in Text.
func (u Utterance) WordCount() int {
	n := 0
	inWord := false
	for _, r := range u.Text {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}

// KeywordMatch records one keyword hit inside an Utterance.
type KeywordMatch struct {
	Keyword        string
	UtteranceIdx   int
	WordPosition   int
	CharPosition   int
	ContextWords   []string
	Category       string
	BaseConfidence float64
}

// FragmentScores holds the diagnostic sub-scores behind a Fragment's final
// confidence. KeywordScore is diagnostic only and is never used for
// downstream gating.
type FragmentScores struct {
	KeywordScore float64
	ContextScore float64
	LengthBonus  float64
}

// MatchedKeyword is one verified keyword behind a Fragment, with its count
// and configured weight.
type MatchedKeyword struct {
	Keyword string
	Count   int
	Weight  int
}

// Fragment is a scored, speaker-denormalized context window around one or
// more keyword hits.
type Fragment struct {
	ID              string           `json:"id"`
	StatementNum    int              `json:"statement_num"`
	Text            string           `json:"text"`
	ContextBefore   string           `json:"context_before,omitempty"`
	ContextAfter    string           `json:"context_after,omitempty"`
	MatchedKeywords []MatchedKeyword `json:"matched_keywords"`
	Scores          FragmentScores   `json:"scores"`
	Confidence      float64          `json:"confidence"`
	Category        string           `json:"category"`
	TooShort        bool             `json:"too_short"`
	SpeakerName     string           `json:"speaker_name"`
	SpeakerClub     string           `json:"speaker_club,omitempty"`
	StartChar       int              `json:"start_char"`
	EndChar         int              `json:"end_char"`
	UtteranceIdx    int              `json:"utterance_idx"`

	Evaluation *Evaluation `json:"evaluation,omitempty"`
}

// NewFragmentID returns a new sortable fragment identifier.
func NewFragmentID() string {
	return xid.New().String()
}

// Provider identifies which AI backend produced an Evaluation.
type Provider string

const (
	ProviderLocal   Provider = "local"
	ProviderFreeAPI Provider = "free_remote"
	ProviderPaidA   Provider = "paid_a"
	ProviderPaidB   Provider = "paid_b"
	ProviderNone    Provider = "none"
)

// Evaluation is an AI provider's humor classification of a Fragment.
type Evaluation struct {
	IsFunny      bool      `json:"is_funny"`
	Confidence   float64   `json:"confidence"`
	Reason       string    `json:"reason"`
	ProviderUsed Provider  `json:"api_used"`
	Cached       bool      `json:"cached"`
	EvaluatedAt  time.Time `json:"evaluated_at"`
}
