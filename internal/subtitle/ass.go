package subtitle

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type assParser struct {
	payload []byte
}

func (p *assParser) Parse() ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(p.payload))

	inEventsSection := false
	lineNum := 0
	startIdx, endIdx, textIdx := -1, -1, -1
	numColumns := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			section := strings.ToLower(
				strings.TrimSuffix(strings.TrimPrefix(trimmed, "["), "]"),
			)
			inEventsSection = section == "events"
			continue
		}

		if !inEventsSection {
			continue
		}

		if strings.HasPrefix(trimmed, "Format:") {
			columns := strings.Split(strings.TrimPrefix(trimmed, "Format:"), ",")
			numColumns = len(columns)
			for i, col := range columns {
				switch strings.ToLower(strings.TrimSpace(col)) {
				case "start":
					startIdx = i
				case "end":
					endIdx = i
				case "text":
					textIdx = i
				}
			}
			if textIdx == -1 {
				return nil, fmt.Errorf(
					"ASS payload missing Text column in Format line",
				)
			}
			continue
		}

		if !strings.HasPrefix(trimmed, "Dialogue:") {
			continue
		}
		if numColumns == 0 {
			return nil, fmt.Errorf(
				"Dialogue before Format line at line %d",
				lineNum,
			)
		}

		content := strings.TrimSpace(strings.TrimPrefix(trimmed, "Dialogue:"))
		fields := splitASSFields(content, numColumns)
		if len(fields) < numColumns {
			return nil, fmt.Errorf(
				"malformed Dialogue at line %d: expected %d fields, got %d",
				lineNum,
				numColumns,
				len(fields),
			)
		}

		var startTime, endTime time.Duration
		if startIdx >= 0 && startIdx < len(fields) {
			startTime = parseASSTimestamp(fields[startIdx])
		}
		if endIdx >= 0 && endIdx < len(fields) {
			endTime = parseASSTimestamp(fields[endIdx])
		}

		text := stripLeadingTags(fields[textIdx])
		text = strings.ReplaceAll(text, "\\N", "\n")
		text = strings.ReplaceAll(text, "\\n", "\n")

		entries = append(entries, Entry{
			Index:     len(entries) + 1,
			StartTime: startTime,
			EndTime:   endTime,
			Text:      text,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASS payload: %w", err)
	}

	return entries, nil
}

// splitASSFields splits a Dialogue line into at most numFields parts; the
// Text field is last and may itself contain commas.
func splitASSFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}

	parts := make([]string, 0, numFields)
	remaining := content

	for i := 0; i < numFields-1; i++ {
		idx := strings.Index(remaining, ",")
		if idx == -1 {
			parts = append(parts, remaining)
			remaining = ""
			break
		}
		parts = append(parts, remaining[:idx])
		remaining = remaining[idx+1:]
	}

	parts = append(parts, remaining)

	return parts
}

// stripLeadingTags drops override blocks like {\pos(1,2)} from the front
// of a dialogue text.
func stripLeadingTags(text string) string {
	for strings.HasPrefix(text, "{") {
		end := strings.Index(text, "}")
		if end == -1 {
			break
		}
		text = text[end+1:]
	}
	return text
}

func parseASSTimestamp(ts string) time.Duration {
	ts = strings.TrimSpace(ts)
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}

	// seconds.centiseconds
	secParts := strings.Split(parts[2], ".")
	if len(secParts) != 2 {
		return 0
	}

	seconds, err := strconv.Atoi(secParts[0])
	if err != nil {
		return 0
	}

	centis, err := strconv.Atoi(secParts[1])
	if err != nil {
		return 0
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(centis)*10*time.Millisecond
}
