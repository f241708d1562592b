package subtitle

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Generator shapes transcription segments into display-ready entries.
type Generator struct {
	MaxCharsPerLine int
	MaxLinesPerCue  int
	MaxDuration     time.Duration
}

func NewGenerator() *Generator {
	return &Generator{
		MaxCharsPerLine: 42, // Standard subtitle line length
		MaxLinesPerCue:  2,  // Most players support 2 lines
		MaxDuration:     7 * time.Second,
	}
}

// Generate converts transcription segments to entries, splitting segments
// that are too long to display as a single cue.
func (g *Generator) Generate(segments []Segment) []Entry {
	var entries []Entry
	index := 1

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		if g.needsSplit(text, seg.EndTime-seg.StartTime) {
			split := g.splitSegment(seg, index)
			entries = append(entries, split...)
			index += len(split)
			continue
		}

		entries = append(entries, Entry{
			Index:     index,
			StartTime: seg.StartTime,
			EndTime:   seg.EndTime,
			Text:      g.wrapText(text),
		})
		index++
	}

	return entries
}

func (g *Generator) needsSplit(text string, duration time.Duration) bool {
	if utf8.RuneCountInString(text) > g.MaxCharsPerLine*g.MaxLinesPerCue {
		return true
	}
	return duration > g.MaxDuration
}

// splitSegment breaks a long segment into several entries, distributing
// words and duration evenly.
func (g *Generator) splitSegment(seg Segment, startIndex int) []Entry {
	text := strings.TrimSpace(seg.Text)
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	totalDuration := seg.EndTime - seg.StartTime
	maxChars := g.MaxCharsPerLine * g.MaxLinesPerCue

	numSplits := (utf8.RuneCountInString(text) + maxChars - 1) / maxChars
	if numSplits < 1 {
		numSplits = 1
	}
	if byDuration := int(totalDuration/g.MaxDuration) + 1; byDuration > numSplits {
		numSplits = byDuration
	}

	wordsPerSplit := (len(words) + numSplits - 1) / numSplits
	durationPerSplit := totalDuration / time.Duration(numSplits)

	var entries []Entry
	currentStart := seg.StartTime

	for i := 0; i < numSplits && len(words) > 0; i++ {
		take := wordsPerSplit
		if take > len(words) {
			take = len(words)
		}

		cueText := strings.Join(words[:take], " ")
		words = words[take:]

		currentEnd := currentStart + durationPerSplit
		if len(words) == 0 {
			// last split ends at the original end time
			currentEnd = seg.EndTime
		}

		entries = append(entries, Entry{
			Index:     startIndex + i,
			StartTime: currentStart,
			EndTime:   currentEnd,
			Text:      g.wrapText(cueText),
		})

		currentStart = currentEnd
	}

	return entries
}

// wrapText breaks text onto two lines at the word boundary closest to the
// middle, when it does not fit on one line.
func (g *Generator) wrapText(text string) string {
	text = strings.TrimSpace(text)
	runeCount := utf8.RuneCountInString(text)
	if runeCount <= g.MaxCharsPerLine {
		return text
	}

	words := strings.Fields(text)
	if len(words) < 2 {
		return text
	}

	middle := runeCount / 2
	bestSplit := 0
	bestDiff := runeCount

	currentLen := 0
	for i, word := range words[:len(words)-1] {
		currentLen += utf8.RuneCountInString(word)
		if i > 0 {
			currentLen++ // space
		}

		diff := currentLen - middle
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			bestDiff = diff
			bestSplit = i + 1
		}
	}

	if bestSplit > 0 && bestSplit < len(words) {
		return strings.Join(words[:bestSplit], " ") +
			"\n" +
			strings.Join(words[bestSplit:], " ")
	}

	return text
}
