package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/truthquest/truthquest/internal/model"
)

type fakeTranscriber struct {
	resp openai.AudioResponse
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, filePath string) (openai.AudioResponse, error) {
	return f.resp, f.err
}

// writeFakeAudio drops a file of the given size into dir and returns its path
func writeFakeAudio(t *testing.T, dir string, size int) string {
	t.Helper()
	path := filepath.Join(dir, "audio.mp3")
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWhisperSource_RejectsOversizedAudio(t *testing.T) {
	src := NewWhisperSource("yt-dlp", "mp3", 1, &fakeTranscriber{}) // 1 MB ceiling

	var capturedDir string
	src.download = func(ctx context.Context, videoID, dir string) (string, error) {
		capturedDir = dir
		return writeFakeAudio(t, dir, 2*1024*1024), nil
	}

	_, err := src.Fetch(context.Background(), "vid123")

	var tooLarge *FileTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected FileTooLargeError, got %v", err)
	}
	if tooLarge.Size != 2*1024*1024 {
		t.Errorf("expected measured size in error, got %d", tooLarge.Size)
	}

	// Temp dir must be cleaned up on the failure path too.
	if _, statErr := os.Stat(capturedDir); !os.IsNotExist(statErr) {
		t.Errorf("temp dir %s not removed after failure", capturedDir)
	}
}

func TestWhisperSource_MapsSegments(t *testing.T) {
	var resp openai.AudioResponse
	raw := `{"text":"hello there general","segments":[
		{"start":0,"end":2.5,"text":"hello there"},
		{"start":2.5,"end":4,"text":"general"}
	]}`
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatal(err)
	}
	transcriber := &fakeTranscriber{resp: resp}

	src := NewWhisperSource("yt-dlp", "mp3", 25, transcriber)
	src.download = func(ctx context.Context, videoID, dir string) (string, error) {
		return writeFakeAudio(t, dir, 1024), nil
	}

	got, err := src.Fetch(context.Background(), "vid123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Method != model.MethodWhisper {
		t.Errorf("expected whisper method, got %s", got.Method)
	}
	if len(got.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(got.Segments))
	}
	if got.Segments[0].Duration != 2.5 {
		t.Errorf("duration must be end-start, got %f", got.Segments[0].Duration)
	}
	if got.FullText != "hello there general" {
		t.Errorf("join invariant broken: %q", got.FullText)
	}
}

func TestWhisperSource_DownloadFailureCleansUp(t *testing.T) {
	src := NewWhisperSource("yt-dlp", "mp3", 25, &fakeTranscriber{})

	var capturedDir string
	src.download = func(ctx context.Context, videoID, dir string) (string, error) {
		capturedDir = dir
		return "", errors.New("network down")
	}

	if _, err := src.Fetch(context.Background(), "vid123"); err == nil {
		t.Fatal("expected error")
	}
	if _, statErr := os.Stat(capturedDir); !os.IsNotExist(statErr) {
		t.Errorf("temp dir %s not removed", capturedDir)
	}
}
