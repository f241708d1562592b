package subtitle

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Entry is a single timed text span within a track.
//
// Entries are value objects: code that needs to change an entry (for
// example to reassign its index during a merge) must build a new copy
// rather than mutate one that may be shared between tracks.
type Entry struct {
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// InRange reports whether t falls inside the entry's closed interval.
func (e Entry) InRange(t time.Duration) bool {
	return e.StartTime <= t && t <= e.EndTime
}

// StartsAfter reports whether the entry's interval begins strictly after t.
func (e Entry) StartsAfter(t time.Duration) bool {
	return e.StartTime > t
}

// Compare orders entries by start time ascending. Ties compare equal so
// a stable sort preserves the original relative order.
func (e Entry) Compare(other Entry) int {
	switch {
	case e.StartTime < other.StartTime:
		return -1
	case e.StartTime > other.StartTime:
		return 1
	default:
		return 0
	}
}

func (e Entry) String() string {
	return fmt.Sprintf(
		"%d [%s --> %s] %s",
		e.Index,
		formatSRTTime(e.StartTime),
		formatSRTTime(e.EndTime),
		e.Text,
	)
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT  Format = "srt"
	FormatVTT  Format = "vtt"
	FormatASS  Format = "ass"
	FormatTTML Format = "ttml"
	FormatSTL  Format = "stl"
)

// FormatFromPath derives the subtitle format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return FormatSRT, nil
	case ".vtt":
		return FormatVTT, nil
	case ".ass", ".ssa":
		return FormatASS, nil
	case ".ttml", ".dfxp", ".xml":
		return FormatTTML, nil
	case ".stl":
		return FormatSTL, nil
	default:
		return "", fmt.Errorf("unsupported subtitle format: %s", ext)
	}
}

var clockRegex = regexp.MustCompile(
	`^(?:(\d{1,2}):)?(\d{1,2}):(\d{2})[,.](\d{1,3})$`,
)

// ParseTimestamp accepts either a Go duration ("1m30s", "90s") or a
// subtitle clock value ("00:01:30,500", "01:30.5").
func ParseTimestamp(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if matches := clockRegex.FindStringSubmatch(s); matches != nil {
		hours := matches[1]
		if hours == "" {
			hours = "0"
		}
		// pad fractional part to milliseconds
		millis := matches[4] + strings.Repeat("0", 3-len(matches[4]))
		return parseClockTimestamp(hours, matches[2], matches[3], millis)
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return d, nil
}

// Parser converts a raw subtitle payload into entries. Implementations
// make no ordering guarantee on their output; callers that need a sorted
// track sort afterwards.
type Parser interface {
	Parse() ([]Entry, error)
}

// NewParser constructs a parser over the raw payload for the given format.
func NewParser(format Format, payload []byte) (Parser, error) {
	switch format {
	case FormatSRT:
		return &srtParser{payload: payload}, nil
	case FormatVTT:
		return &vttParser{payload: payload}, nil
	case FormatASS:
		return &assParser{payload: payload}, nil
	case FormatTTML, FormatSTL:
		return &astisubParser{format: format, payload: payload}, nil
	default:
		return nil, fmt.Errorf("unsupported subtitle format: %s", format)
	}
}

// represents transcribed audio segment
type Segment struct {
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// interface for writing a track's entries to a file
type Writer interface {
	Write(entries []Entry, path string) error
}
