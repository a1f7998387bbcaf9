package transcript

import (
	"strings"

	"github.com/sejmbot-go/detektor/internal/model"
)

// splitIntoUtterances walks the cleaned text line by line, accumulating
// the current speaker's content and committing an Utterance each time a
// new speaker cue is seen.
func (p *Parser) splitIntoUtterances(cleanedText, rawText string) ([]model.Utterance, Stats) {
	var stats Stats
	var utterances []model.Utterance

	lines := strings.Split(cleanedText, "\n")

	var curSpeaker model.Speaker
	var curLines []string
	haveSpeaker := false
	cleanedPos := 0
	index := 0

	commit := func() {
		if !haveSpeaker || len(curLines) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(curLines, " "))
		if wordCount(text) < 3 {
			return
		}
		byteOffset := syncPosition(rawText, cleanedText, cleanedPos-len(text)-1)
		u := model.Utterance{
			Index:         index,
			Speaker:       curSpeaker,
			Text:          text,
			RawText:       text,
			ByteOffset:    byteOffset,
			WordPositions: wordPositions(text),
		}
		utterances = append(utterances, u)
		index++
		if curSpeaker.Club != "" {
			stats.UtterancesWithClub++
		} else {
			stats.UtterancesWithoutClub++
		}
		if curSpeaker.Name == "" {
			stats.UnknownSpeakers++
		}
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		cleanedPos += len(raw) + 1

		if line == "" {
			continue
		}
		if shouldSkipLine(line) {
			stats.SkippedProtocolElements++
			continue
		}

		_, rawName, inlineClub, ok := findSpeaker(line)
		if ok {
			commit()

			name := cleanSpeakerName(rawName)
			club := inlineClub
			if p.clubs != nil {
				if resolved, found := p.clubs.FindClub(name); found {
					club = resolved
				}
			}
			curSpeaker = model.Speaker{Name: name, Club: club}
			curLines = nil
			haveSpeaker = true

			if colon := strings.Index(line, ":"); colon != -1 && colon < len(line)-1 {
				if rest := strings.TrimSpace(line[colon+1:]); rest != "" {
					curLines = append(curLines, rest)
				}
			}
			continue
		}

		if haveSpeaker {
			curLines = append(curLines, line)
		}
	}
	commit()

	return utterances, stats
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

// wordPositions maps each word's index to its byte offset within text.
func wordPositions(text string) []int {
	words := strings.Fields(text)
	positions := make([]int, 0, len(words))
	pos := 0
	for _, w := range words {
		idx := strings.Index(text[pos:], w)
		if idx == -1 {
			idx = 0
		}
		pos += idx
		positions = append(positions, pos)
		pos += len(w)
	}
	return positions
}

// syncPosition approximates a cleaned-text offset's location in the raw
// (uncleaned) source via a length ratio.
func syncPosition(rawText, cleanedText string, cleanedPos int) int {
	if cleanedPos < 0 {
		cleanedPos = 0
	}
	cleanedLen := len(cleanedText)
	if cleanedLen == 0 {
		return 0
	}
	ratio := float64(len(rawText)) / float64(cleanedLen)
	estimated := int(float64(cleanedPos) * ratio)
	if estimated < 0 {
		estimated = 0
	}
	if estimated >= len(rawText) {
		estimated = len(rawText) - 1
	}
	if estimated < 0 {
		estimated = 0
	}
	return estimated
}
