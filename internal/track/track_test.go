package track

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"subweave/internal/provider"
	"subweave/internal/subtitle"
)

func entry(index int, start, end time.Duration, text string) subtitle.Entry {
	return subtitle.Entry{
		Index:     index,
		StartTime: start,
		EndTime:   end,
		Text:      text,
	}
}

func staticTrack(t *testing.T, entries []subtitle.Entry) *Controller {
	t.Helper()
	ctrl := New(provider.NewStatic(entries))
	if err := ctrl.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize error: %v", err)
	}
	return ctrl
}

func rawTrack(t *testing.T, payload string) *Controller {
	t.Helper()
	ctrl := New(rawProvider{payload: []byte(payload)})
	if err := ctrl.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize error: %v", err)
	}
	return ctrl
}

// serves an SRT payload without going through the filesystem
type rawProvider struct {
	payload []byte
}

func (p rawProvider) Fetch(ctx context.Context) (provider.Result, error) {
	return provider.Raw{Format: subtitle.FormatSRT, Payload: p.payload}, nil
}

const sampleSRT = `1
00:00:05,000 --> 00:00:07,000
First

2
00:00:10,000 --> 00:00:12,000
Second

3
00:00:20,000 --> 00:00:25,000
Third
`

func TestInitializeFromRawParsesEntries(t *testing.T) {
	ctrl := rawTrack(t, sampleSRT)

	if ctrl.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", ctrl.Len())
	}
	entries := ctrl.Entries()
	if entries[0].Text != "First" || entries[2].Text != "Third" {
		t.Errorf("unexpected entries: %v", entries)
	}
}

func TestInitializeFromRawSortsEntries(t *testing.T) {
	// second cue starts before the first
	payload := `1
00:00:30,000 --> 00:00:32,000
Later

2
00:00:05,000 --> 00:00:07,000
Earlier
`
	ctrl := rawTrack(t, payload)

	entries := ctrl.Entries()
	if entries[0].Text != "Earlier" {
		t.Errorf("expected entries sorted by start time, got %q first", entries[0].Text)
	}
}

func TestInitializeFromStaticPreservesOrder(t *testing.T) {
	unsorted := []subtitle.Entry{
		entry(1, 30*time.Second, 32*time.Second, "Later"),
		entry(2, 5*time.Second, 7*time.Second, "Earlier"),
	}
	ctrl := staticTrack(t, unsorted)

	entries := ctrl.Entries()
	if entries[0].Text != "Later" {
		t.Errorf("pre-parsed entries must keep provider order, got %q first", entries[0].Text)
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	ctrl := rawTrack(t, sampleSRT)

	if err := ctrl.Initialize(context.Background()); err != nil {
		t.Fatalf("second Initialize error: %v", err)
	}
	if ctrl.Len() != 3 {
		t.Errorf("second Initialize changed entry count to %d", ctrl.Len())
	}
}

func TestInitializePropagatesProviderError(t *testing.T) {
	wantErr := errors.New("fetch failed")
	ctrl := New(failingProvider{err: wantErr})

	err := ctrl.Initialize(context.Background())
	if !errors.Is(err, wantErr) {
		t.Errorf("expected provider error, got %v", err)
	}
}

type failingProvider struct {
	err error
}

func (p failingProvider) Fetch(ctx context.Context) (provider.Result, error) {
	return nil, p.err
}

func TestDurationSearchBeforeInitialize(t *testing.T) {
	ctrl := New(provider.NewStatic(nil))

	_, err := ctrl.DurationSearch(time.Second)
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestDurationSearchFindsContainingEntry(t *testing.T) {
	ctrl := rawTrack(t, sampleSRT)

	tests := []struct {
		at   time.Duration
		want string
	}{
		{5 * time.Second, "First"},   // interval start
		{6 * time.Second, "First"},   // interior
		{7 * time.Second, "First"},   // interval end is inclusive
		{11 * time.Second, "Second"}, // middle entry
		{25 * time.Second, "Third"},  // last entry's end
	}

	for _, tt := range tests {
		got, err := ctrl.DurationSearch(tt.at)
		if err != nil {
			t.Fatalf("DurationSearch(%v) error: %v", tt.at, err)
		}
		if got == nil {
			t.Fatalf("DurationSearch(%v) = nil, want %q", tt.at, tt.want)
		}
		if got.Text != tt.want {
			t.Errorf("DurationSearch(%v) = %q, want %q", tt.at, got.Text, tt.want)
		}
	}
}

func TestDurationSearchMissReturnsNil(t *testing.T) {
	ctrl := rawTrack(t, sampleSRT)

	for _, at := range []time.Duration{
		0,
		8 * time.Second,  // gap between first and second
		26 * time.Second, // past the last entry
	} {
		got, err := ctrl.DurationSearch(at)
		if err != nil {
			t.Fatalf("DurationSearch(%v) error: %v", at, err)
		}
		if got != nil {
			t.Errorf("DurationSearch(%v) = %v, want nil", at, got)
		}
	}
}

func TestDurationSearchEmptyParsedTrack(t *testing.T) {
	ctrl := rawTrack(t, "")

	got, err := ctrl.DurationSearch(time.Second)
	if err != nil {
		t.Fatalf("DurationSearch error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil on empty track, got %v", got)
	}
}

func TestDurationSearchReturnsCopy(t *testing.T) {
	ctrl := rawTrack(t, sampleSRT)

	got, err := ctrl.DurationSearch(6 * time.Second)
	if err != nil {
		t.Fatalf("DurationSearch error: %v", err)
	}
	got.Text = "mutated"

	again, err := ctrl.DurationSearch(6 * time.Second)
	if err != nil {
		t.Fatalf("DurationSearch error: %v", err)
	}
	if again.Text != "First" {
		t.Error("DurationSearch result aliases internal entry storage")
	}
}

func TestMultiDurationSearchReportsOverlaps(t *testing.T) {
	ctrl := staticTrack(t, []subtitle.Entry{
		entry(1, 0, 10*time.Second, "A"),
		entry(2, 5*time.Second, 15*time.Second, "B"),
		entry(3, 20*time.Second, 30*time.Second, "C"),
	})

	matches := ctrl.MultiDurationSearch(7 * time.Second)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Text != "A" || matches[1].Text != "B" {
		t.Errorf("matches out of sequence order: %v", matches)
	}
}

func TestMultiDurationSearchNoMatch(t *testing.T) {
	ctrl := rawTrack(t, sampleSRT)

	if matches := ctrl.MultiDurationSearch(time.Hour); len(matches) != 0 {
		t.Errorf("expected no matches, got %v", matches)
	}
}

func TestMultiDurationSearchUninitialized(t *testing.T) {
	ctrl := New(provider.NewStatic(nil))

	if matches := ctrl.MultiDurationSearch(time.Second); len(matches) != 0 {
		t.Errorf("expected no matches before initialize, got %v", matches)
	}
}

func TestSortIsStableForEqualStartTimes(t *testing.T) {
	ctrl := staticTrack(t, []subtitle.Entry{
		entry(1, 10*time.Second, 12*time.Second, "late"),
		entry(2, 5*time.Second, 6*time.Second, "tie-a"),
		entry(3, 5*time.Second, 8*time.Second, "tie-b"),
	})

	ctrl.Sort()

	entries := ctrl.Entries()
	if entries[0].Text != "tie-a" || entries[1].Text != "tie-b" {
		t.Errorf("equal start times must keep relative order, got %v", entries)
	}
	if entries[2].Text != "late" {
		t.Errorf("expected latest entry last, got %v", entries)
	}

	// sorting again must not reorder anything
	ctrl.Sort()
	again := ctrl.Entries()
	for i := range entries {
		if entries[i] != again[i] {
			t.Fatalf("Sort is not idempotent at %d: %v vs %v", i, entries[i], again[i])
		}
	}
}

func TestGetAllJoinsEntriesInOrder(t *testing.T) {
	ctrl := rawTrack(t, sampleSRT)

	got := ctrl.GetAll(" | ")
	if strings.Count(got, " | ") != 2 {
		t.Errorf("expected 2 separators, got %q", got)
	}
	if !strings.Contains(got, "First") || !strings.Contains(got, "Third") {
		t.Errorf("missing entry text in %q", got)
	}
	first := strings.Index(got, "First")
	third := strings.Index(got, "Third")
	if first > third {
		t.Errorf("entries out of order in %q", got)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	ctrl := rawTrack(t, sampleSRT)

	snapshot := ctrl.Entries()
	snapshot[0].Text = "mutated"

	if ctrl.Entries()[0].Text != "First" {
		t.Error("Entries returned a slice aliasing internal storage")
	}
}
