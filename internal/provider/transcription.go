package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"subweave/internal/media"
	"subweave/internal/subtitle"
	"subweave/internal/transcribe"
)

const DefaultChunkDuration = 10 * time.Minute

// TranscriptionOptions configure the speech-to-subtitle pipeline.
type TranscriptionOptions struct {
	ChunkDuration time.Duration // split size for long audio (default 10m)
	Concurrency   int           // parallel chunk transcriptions
	Audio         media.AudioOptions
}

func DefaultTranscriptionOptions() TranscriptionOptions {
	return TranscriptionOptions{
		ChunkDuration: DefaultChunkDuration,
		Concurrency:   3,
		Audio:         media.DefaultAudioOptions(),
	}
}

// Transcription produces subtitle entries from a media file by running it
// through speech recognition. Video input has its audio stream extracted
// first; long audio is chunked and transcribed in parallel.
type Transcription struct {
	mediaPath   string
	transcriber transcribe.Transcriber
	generator   *subtitle.Generator
	options     TranscriptionOptions
}

func NewTranscription(
	mediaPath string,
	t transcribe.Transcriber,
	opts TranscriptionOptions,
) *Transcription {
	if opts.ChunkDuration <= 0 {
		opts.ChunkDuration = DefaultChunkDuration
	}
	if opts.Audio.Format == "" {
		opts.Audio = media.DefaultAudioOptions()
	}

	return &Transcription{
		mediaPath:   mediaPath,
		transcriber: t,
		generator:   subtitle.NewGenerator(),
		options:     opts,
	}
}

func (p *Transcription) Fetch(ctx context.Context) (Result, error) {
	if !media.IsMediaFile(p.mediaPath) {
		return nil, fmt.Errorf("not a media file: %s", p.mediaPath)
	}

	workDir, err := os.MkdirTemp("", "subweave-transcribe-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	audioPath, err := p.prepareAudio(ctx, workDir)
	if err != nil {
		return nil, err
	}

	chunks, err := media.Split(
		ctx,
		audioPath,
		p.options.ChunkDuration,
		workDir,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to split audio: %w", err)
	}
	defer media.RemoveChunks(chunks)

	result, err := transcribe.Chunks(
		ctx,
		p.transcriber,
		chunks,
		p.options.Concurrency,
	)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	entries := p.generator.Generate(result.Segments)

	return Parsed{Entries: entries}, nil
}

// prepareAudio re-encodes the input into the transcription-friendly audio
// profile, extracting the audio stream when the input is a video container.
func (p *Transcription) prepareAudio(
	ctx context.Context,
	workDir string,
) (string, error) {
	audioPath := filepath.Join(workDir, "audio."+p.options.Audio.Format)

	if err := media.ExtractAudio(
		ctx,
		p.mediaPath,
		audioPath,
		p.options.Audio,
	); err != nil {
		return "", fmt.Errorf("failed to prepare audio: %w", err)
	}

	return audioPath, nil
}
