package subtitle

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/asticode/go-astisub"
)

// astisubParser covers the formats without a hand parser here (TTML, STL)
// by going through go-astisub and converting its items to entries.
type astisubParser struct {
	format  Format
	payload []byte
}

func (p *astisubParser) Parse() ([]Entry, error) {
	var (
		subs *astisub.Subtitles
		err  error
	)

	switch p.format {
	case FormatTTML:
		subs, err = astisub.ReadFromTTML(bytes.NewReader(p.payload))
	case FormatSTL:
		subs, err = astisub.ReadFromSTL(bytes.NewReader(p.payload), astisub.STLOptions{})
	default:
		return nil, fmt.Errorf("unsupported astisub format: %s", p.format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s payload: %w", p.format, err)
	}

	entries := make([]Entry, 0, len(subs.Items))
	for _, item := range subs.Items {
		if item == nil || len(item.Lines) == 0 {
			continue
		}

		lines := make([]string, 0, len(item.Lines))
		for _, line := range item.Lines {
			lines = append(lines, line.String())
		}
		text := strings.TrimSpace(strings.Join(lines, "\n"))
		if text == "" {
			continue
		}

		entries = append(entries, Entry{
			Index:     len(entries) + 1,
			StartTime: item.StartAt,
			EndTime:   item.EndAt,
			Text:      text,
		})
	}

	return entries, nil
}
