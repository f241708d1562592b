package track

import (
	"context"
	"errors"
	"testing"
	"time"

	"subweave/internal/provider"
	"subweave/internal/subtitle"
)

func TestMergeRequiresInitializedTracks(t *testing.T) {
	ctx := context.Background()
	initialized := rawTrack(t, sampleSRT)
	uninitialized := New(provider.NewStatic(nil))

	if _, err := Merge(ctx, uninitialized, initialized, 0, "\n"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized for source, got %v", err)
	}
	if _, err := Merge(ctx, initialized, uninitialized, 0, "\n"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized for target, got %v", err)
	}
}

func TestMergeCombinesAlignedEntries(t *testing.T) {
	ctx := context.Background()
	src := staticTrack(t, []subtitle.Entry{
		entry(1, 1000*time.Millisecond, 2000*time.Millisecond, "Hi"),
	})
	target := staticTrack(t, []subtitle.Entry{
		entry(1, 1200*time.Millisecond, 2100*time.Millisecond, "Hola"),
	})

	merged, err := Merge(ctx, src, target, 500*time.Millisecond, "\n")
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}

	entries := merged.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 merged entry, got %d", len(entries))
	}

	got := entries[0]
	if got.Text != "Hi\nHola" {
		t.Errorf("expected combined text %q, got %q", "Hi\nHola", got.Text)
	}
	if got.StartTime != 1000*time.Millisecond || got.EndTime != 2000*time.Millisecond {
		t.Errorf("combined entry must keep the source timing, got [%v, %v]", got.StartTime, got.EndTime)
	}
	if got.Index != 0 {
		t.Errorf("expected index 0, got %d", got.Index)
	}
}

func TestMergeInterleavesUnalignedEntries(t *testing.T) {
	ctx := context.Background()
	src := staticTrack(t, []subtitle.Entry{
		entry(1, 1*time.Second, 2*time.Second, "A1"),
		entry(2, 10*time.Second, 11*time.Second, "A2"),
	})
	target := staticTrack(t, []subtitle.Entry{
		entry(1, 5*time.Second, 6*time.Second, "B1"),
	})

	merged, err := Merge(ctx, src, target, 500*time.Millisecond, "\n")
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}

	entries := merged.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	wantOrder := []string{"A1", "B1", "A2"}
	for i, want := range wantOrder {
		if entries[i].Text != want {
			t.Errorf("entry %d = %q, want %q", i, entries[i].Text, want)
		}
		if entries[i].Index != i {
			t.Errorf("entry %d has index %d, want dense reindex", i, entries[i].Index)
		}
	}
}

func TestMergeOneSourceAbsorbsSeveralTargets(t *testing.T) {
	ctx := context.Background()
	src := staticTrack(t, []subtitle.Entry{
		entry(1, 10*time.Second, 12*time.Second, "line"),
	})
	target := staticTrack(t, []subtitle.Entry{
		entry(1, 9800*time.Millisecond, 11*time.Second, "uno"),
		entry(2, 10200*time.Millisecond, 12*time.Second, "dos"),
	})

	merged, err := Merge(ctx, src, target, 500*time.Millisecond, " / ")
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}

	entries := merged.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 merged records, got %d", len(entries))
	}
	if entries[0].Text != "line / uno" || entries[1].Text != "line / dos" {
		t.Errorf("unexpected merged texts: %q, %q", entries[0].Text, entries[1].Text)
	}
	for i, e := range entries {
		if e.StartTime != 10*time.Second || e.EndTime != 12*time.Second {
			t.Errorf("record %d must carry the source timing, got [%v, %v]", i, e.StartTime, e.EndTime)
		}
	}
}

func TestMergeWithEmptyTarget(t *testing.T) {
	ctx := context.Background()
	src := rawTrack(t, sampleSRT)
	target := rawTrack(t, "")

	merged, err := Merge(ctx, src, target, time.Second, "\n")
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}

	entries := merged.Entries()
	if len(entries) != src.Len() {
		t.Fatalf("expected %d entries, got %d", src.Len(), len(entries))
	}
	for i, e := range entries {
		if e.Index != i {
			t.Errorf("entry %d has index %d, want dense reindex", i, e.Index)
		}
	}
}

func TestMergeWithEmptySource(t *testing.T) {
	ctx := context.Background()
	src := rawTrack(t, "")
	target := rawTrack(t, sampleSRT)

	merged, err := Merge(ctx, src, target, time.Second, "\n")
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}

	entries := merged.Entries()
	if len(entries) != target.Len() {
		t.Fatalf("expected %d entries, got %d", target.Len(), len(entries))
	}
	if entries[0].Text != "First" || entries[2].Text != "Third" {
		t.Errorf("unexpected drained entries: %v", entries)
	}
}

func TestMergeLeavesInputsUntouched(t *testing.T) {
	ctx := context.Background()
	src := staticTrack(t, []subtitle.Entry{
		entry(7, 1*time.Second, 2*time.Second, "Hi"),
	})
	target := staticTrack(t, []subtitle.Entry{
		entry(9, 1*time.Second, 2*time.Second, "Hola"),
	})

	if _, err := Merge(ctx, src, target, time.Second, "\n"); err != nil {
		t.Fatalf("Merge error: %v", err)
	}

	if src.Entries()[0].Text != "Hi" || src.Entries()[0].Index != 7 {
		t.Error("merge mutated the source track")
	}
	if target.Entries()[0].Text != "Hola" || target.Entries()[0].Index != 9 {
		t.Error("merge mutated the target track")
	}
}

func TestMergedTrackIsSearchable(t *testing.T) {
	ctx := context.Background()
	src := staticTrack(t, []subtitle.Entry{
		entry(1, 1*time.Second, 2*time.Second, "Hi"),
	})
	target := staticTrack(t, []subtitle.Entry{
		entry(1, 1200*time.Millisecond, 2100*time.Millisecond, "Hola"),
	})

	merged, err := Merge(ctx, src, target, 500*time.Millisecond, "\n")
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}

	got, err := merged.DurationSearch(1500 * time.Millisecond)
	if err != nil {
		t.Fatalf("DurationSearch on merged track error: %v", err)
	}
	if got == nil || got.Text != "Hi\nHola" {
		t.Errorf("DurationSearch on merged track = %v", got)
	}
}
