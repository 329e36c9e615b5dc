package transcript

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"

	"github.com/truthquest/truthquest/internal/model"
)

// Transcriber submits an audio file to a speech-to-text model and returns
// segment-level timestamps
type Transcriber interface {
	Transcribe(ctx context.Context, filePath string) (openai.AudioResponse, error)
}

// WhisperSource is the last-resort strategy: download the audio track,
// convert it to a compressed codec, and transcribe it. Audio above the upload
// ceiling is rejected with the measured size. The temporary directory is
// removed on every exit path.
type WhisperSource struct {
	binPath     string
	audioFormat string
	maxBytes    int64
	transcriber Transcriber

	// download is injectable for tests; defaults to running yt-dlp
	download func(ctx context.Context, videoID, dir string) (string, error)
}

// NewWhisperSource creates the audio transcription source
func NewWhisperSource(binPath, audioFormat string, maxMB int, transcriber Transcriber) *WhisperSource {
	s := &WhisperSource{
		binPath:     binPath,
		audioFormat: audioFormat,
		maxBytes:    int64(maxMB) * 1024 * 1024,
		transcriber: transcriber,
	}
	s.download = s.downloadAudio
	return s
}

func (s *WhisperSource) Name() string { return "whisper" }

func (s *WhisperSource) Available() bool { return s.binPath != "" && s.transcriber != nil }

func (s *WhisperSource) Fetch(ctx context.Context, videoID string) (*model.Transcript, error) {
	dir, err := os.MkdirTemp("", "truthquest-audio-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	audioPath, err := s.download(ctx, videoID, dir)
	if err != nil {
		return nil, fmt.Errorf("download audio: %w", err)
	}

	stat, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("stat audio: %w", err)
	}
	if stat.Size() > s.maxBytes {
		return nil, &FileTooLargeError{Size: stat.Size(), Limit: s.maxBytes}
	}

	resp, err := s.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	segments := make([]model.Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, model.Segment{
			Text:     seg.Text,
			Start:    seg.Start,
			Duration: seg.End - seg.Start,
		})
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("transcription returned no segments")
	}

	return model.NewTranscript(segments, model.MethodWhisper), nil
}

// downloadAudio extracts best-available audio into dir via yt-dlp
func (s *WhisperSource) downloadAudio(ctx context.Context, videoID, dir string) (string, error) {
	outPath := filepath.Join(dir, "audio.%(ext)s")
	cmd := exec.CommandContext(ctx, s.binPath,
		"-x",
		"--audio-format", s.audioFormat,
		"--audio-quality", "5",
		"--no-warnings",
		"-o", outPath,
		"https://www.youtube.com/watch?v="+videoID,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("yt-dlp: %s", firstLine(out))
	}

	audioPath := filepath.Join(dir, "audio."+s.audioFormat)
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("audio file not produced: %w", err)
	}
	return audioPath, nil
}

// OpenAITranscriber implements Transcriber with the Whisper API
type OpenAITranscriber struct {
	client *openai.Client
	model  string
}

// NewOpenAITranscriber wraps an OpenAI client for audio transcription
func NewOpenAITranscriber(client *openai.Client, transcribeModel string) *OpenAITranscriber {
	if transcribeModel == "" {
		transcribeModel = openai.Whisper1
	}
	return &OpenAITranscriber{client: client, model: transcribeModel}
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, filePath string) (openai.AudioResponse, error) {
	return t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: filePath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
}
