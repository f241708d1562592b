package subtitle

import (
	"testing"
	"time"
)

func TestEntryInRangeClosedInterval(t *testing.T) {
	e := Entry{StartTime: 5 * time.Second, EndTime: 10 * time.Second}

	tests := []struct {
		at   time.Duration
		want bool
	}{
		{4*time.Second + 999*time.Millisecond, false},
		{5 * time.Second, true}, // start boundary included
		{7 * time.Second, true},
		{10 * time.Second, true}, // end boundary included
		{10*time.Second + time.Millisecond, false},
	}

	for _, tt := range tests {
		if got := e.InRange(tt.at); got != tt.want {
			t.Errorf("InRange(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}
}

func TestEntryStartsAfterIsStrict(t *testing.T) {
	e := Entry{StartTime: 5 * time.Second, EndTime: 10 * time.Second}

	if e.StartsAfter(5 * time.Second) {
		t.Error("StartsAfter must be false at the exact start time")
	}
	if !e.StartsAfter(4 * time.Second) {
		t.Error("StartsAfter must be true before the start time")
	}
	if e.StartsAfter(6 * time.Second) {
		t.Error("StartsAfter must be false after the start time")
	}
}

func TestEntryCompareOrdersByStartTime(t *testing.T) {
	early := Entry{StartTime: time.Second}
	late := Entry{StartTime: 2 * time.Second}

	if early.Compare(late) >= 0 {
		t.Error("earlier entry must compare less")
	}
	if late.Compare(early) <= 0 {
		t.Error("later entry must compare greater")
	}
	if early.Compare(Entry{StartTime: time.Second, EndTime: time.Hour}) != 0 {
		t.Error("entries with equal start times must compare equal")
	}
}

func TestEntryString(t *testing.T) {
	e := Entry{
		Index:     3,
		StartTime: 61 * time.Second,
		EndTime:   63*time.Second + 500*time.Millisecond,
		Text:      "hello",
	}

	got := e.String()
	want := "3 [00:01:01,000 --> 00:01:03,500] hello"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"movie.srt", FormatSRT, false},
		{"movie.VTT", FormatVTT, false},
		{"movie.ass", FormatASS, false},
		{"movie.ssa", FormatASS, false},
		{"movie.ttml", FormatTTML, false},
		{"movie.stl", FormatSTL, false},
		{"movie.txt", "", true},
		{"movie", "", true},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if tt.wantErr {
			if err == nil {
				t.Errorf("FormatFromPath(%q) expected error", tt.path)
			}
			continue
		}
		if err != nil {
			t.Errorf("FormatFromPath(%q) error: %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"90s", 90 * time.Second},
		{"1m30s", 90 * time.Second},
		{"1.5s", 1500 * time.Millisecond},
		{"00:01:30,500", 90*time.Second + 500*time.Millisecond},
		{"00:01:30.500", 90*time.Second + 500*time.Millisecond},
		{"01:30.5", 90*time.Second + 500*time.Millisecond},
		{"1:02:03,004", time.Hour + 2*time.Minute + 3*time.Second + 4*time.Millisecond},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.input)
		if err != nil {
			t.Errorf("ParseTimestamp(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if _, err := ParseTimestamp("not a time"); err == nil {
		t.Error("expected error for invalid timestamp")
	}
}

func TestNewParserRejectsUnknownFormat(t *testing.T) {
	if _, err := NewParser(Format("sub"), nil); err == nil {
		t.Error("expected error for unknown format")
	}
}
