package media

import (
	"context"
	"testing"
)

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"movie.mp4", true},
		{"movie.MKV", true},
		{"clip.webm", true},
		{"song.mp3", false},
		{"notes.txt", false},
	}

	for _, tt := range tests {
		if got := IsVideoFile(tt.path); got != tt.want {
			t.Errorf("IsVideoFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsAudioFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"song.mp3", true},
		{"song.FLAC", true},
		{"voice.m4a", true},
		{"movie.mp4", false},
		{"track.srt", false},
	}

	for _, tt := range tests {
		if got := IsAudioFile(tt.path); got != tt.want {
			t.Errorf("IsAudioFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsMediaFile(t *testing.T) {
	if !IsMediaFile("a.mp4") || !IsMediaFile("a.wav") {
		t.Error("audio and video files are both media files")
	}
	if IsMediaFile("a.srt") {
		t.Error("subtitle files are not media files")
	}
}

func TestAudioKwargsFormatMapping(t *testing.T) {
	tests := []struct {
		format    string
		wantCodec string
	}{
		{"mp3", "libmp3lame"},
		{"aac", "aac"},
		{"flac", "flac"},
		{"wav", "pcm_s16le"},
	}

	for _, tt := range tests {
		opts := DefaultAudioOptions()
		opts.Format = tt.format

		kwargs := audioKwargs(opts)
		if kwargs["acodec"] != tt.wantCodec {
			t.Errorf("audioKwargs(%s) codec = %v, want %v",
				tt.format, kwargs["acodec"], tt.wantCodec)
		}
	}
}

func TestAudioKwargsSkipsBitrateForLossless(t *testing.T) {
	opts := DefaultAudioOptions()
	opts.Format = "flac"
	opts.Bitrate = "128k"

	if _, ok := audioKwargs(opts)["b:a"]; ok {
		t.Error("lossless formats must not carry a bitrate")
	}
}

func TestSplitRejectsNonPositiveChunkDuration(t *testing.T) {
	if _, err := Split(context.Background(), "in.mp3", 0, t.TempDir(), 1); err == nil {
		t.Error("expected error for zero chunk duration")
	}
}
