package transcribe

import (
	"context"
	"fmt"
	"testing"
	"time"

	"subweave/internal/media"
	"subweave/internal/subtitle"
)

func TestNewReturnsGeminiTranscriber(t *testing.T) {
	ctx := context.Background()
	transcriber, err := New(ctx, BackendGemini, "fake-key", Options{})
	if err != nil {
		t.Fatalf("New(BackendGemini) returned error: %v", err)
	}
	if _, ok := transcriber.(*GeminiTranscriber); !ok {
		t.Errorf("expected *GeminiTranscriber, got %T", transcriber)
	}
}

func TestNewReturnsOpenAITranscriber(t *testing.T) {
	ctx := context.Background()
	transcriber, err := New(ctx, BackendOpenAI, "fake-key", Options{})
	if err != nil {
		t.Fatalf("New(BackendOpenAI) returned error: %v", err)
	}
	if _, ok := transcriber.(*OpenAITranscriber); !ok {
		t.Errorf("expected *OpenAITranscriber, got %T", transcriber)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx, BackendGemini, "", Options{}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx, Backend("whisperx"), "fake-key", Options{}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

// returns one fixed segment per chunk path
type fakeTranscriber struct {
	failPath string
}

func (f *fakeTranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
	if audioPath == f.failPath {
		return nil, fmt.Errorf("simulated failure")
	}
	return &Result{
		Segments: []subtitle.Segment{
			{
				StartTime: time.Second,
				EndTime:   2 * time.Second,
				Text:      "from " + audioPath,
			},
		},
	}, nil
}

func chunkAt(index int, offset time.Duration) media.Chunk {
	return media.Chunk{
		Path:      fmt.Sprintf("chunk-%d.mp3", index),
		Index:     index,
		StartTime: offset,
		EndTime:   offset + time.Minute,
	}
}

func TestChunksShiftsTimestampsByOffset(t *testing.T) {
	chunks := []media.Chunk{
		chunkAt(0, 0),
		chunkAt(1, time.Minute),
		chunkAt(2, 2*time.Minute),
	}

	result, err := Chunks(context.Background(), &fakeTranscriber{}, chunks, 2)
	if err != nil {
		t.Fatalf("Chunks error: %v", err)
	}
	if len(result.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(result.Segments))
	}

	for i, seg := range result.Segments {
		wantStart := time.Duration(i)*time.Minute + time.Second
		if seg.StartTime != wantStart {
			t.Errorf("segment %d start = %v, want %v", i, seg.StartTime, wantStart)
		}
		wantText := fmt.Sprintf("from chunk-%d.mp3", i)
		if seg.Text != wantText {
			t.Errorf("segment %d out of chunk order: %q", i, seg.Text)
		}
	}

	if result.Duration != 3*time.Minute {
		t.Errorf("duration = %v, want 3m", result.Duration)
	}
}

func TestChunksEmptyInput(t *testing.T) {
	result, err := Chunks(context.Background(), &fakeTranscriber{}, nil, 2)
	if err != nil {
		t.Fatalf("Chunks error: %v", err)
	}
	if len(result.Segments) != 0 {
		t.Errorf("expected no segments, got %d", len(result.Segments))
	}
}

func TestChunksPropagatesFailure(t *testing.T) {
	chunks := []media.Chunk{
		chunkAt(0, 0),
		chunkAt(1, time.Minute),
	}
	fake := &fakeTranscriber{failPath: "chunk-1.mp3"}

	if _, err := Chunks(context.Background(), fake, chunks, 2); err == nil {
		t.Error("expected error from failing chunk")
	}
}

func TestCleanJSONResponseStripsFences(t *testing.T) {
	input := "```json\n[{\"start\": 0, \"end\": 1, \"text\": \"hi\"}]\n```"
	want := `[{"start": 0, "end": 1, "text": "hi"}]`

	if got := cleanJSONResponse(input); got != want {
		t.Errorf("cleanJSONResponse() = %q, want %q", got, want)
	}
}
