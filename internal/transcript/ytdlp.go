package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"sort"

	"github.com/truthquest/truthquest/internal/model"
)

// YTDLPSource scrapes caption tracks through the yt-dlp extractor. It needs
// no credentials, making it the workhorse fallback.
type YTDLPSource struct {
	binPath    string
	httpClient *http.Client
	userAgent  string

	// extractInfo is injectable for tests; defaults to running the binary
	extractInfo func(ctx context.Context, videoID string) (*videoInfo, error)
}

// videoInfo mirrors the extractor's JSON dump, trimmed to the fields we read
type videoInfo struct {
	Title             string                     `json:"title"`
	Uploader          string                     `json:"uploader"`
	Duration          float64                    `json:"duration"`
	ViewCount         int64                      `json:"view_count"`
	Subtitles         map[string][]captionFormat `json:"subtitles"`
	AutomaticCaptions map[string][]captionFormat `json:"automatic_captions"`
}

type captionFormat struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

// NewYTDLPSource creates the caption scraping source
func NewYTDLPSource(binPath string, httpClient *http.Client, userAgent string) *YTDLPSource {
	s := &YTDLPSource{
		binPath:    binPath,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
	s.extractInfo = s.runExtractor
	return s
}

func (s *YTDLPSource) Name() string { return "yt-dlp" }

func (s *YTDLPSource) Available() bool { return s.binPath != "" }

// Fetch extracts the video's caption manifest and flattens it into segments
func (s *YTDLPSource) Fetch(ctx context.Context, videoID string) (*model.Transcript, error) {
	info, err := s.extractInfo(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("extract info: %w", err)
	}

	formats, ok := selectScrapedTrack(info)
	if !ok {
		return nil, ErrNoCaptions
	}

	manifestURL := ""
	for _, f := range formats {
		if f.Ext == "json3" {
			manifestURL = f.URL
			break
		}
	}
	if manifestURL == "" {
		return nil, fmt.Errorf("no json3 caption manifest among available formats")
	}

	data, err := s.fetchManifest(ctx, manifestURL)
	if err != nil {
		return nil, fmt.Errorf("fetch caption manifest: %w", err)
	}

	segments, err := parseJSON3(data)
	if err != nil {
		return nil, fmt.Errorf("parse caption manifest: %w", err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("caption manifest contained no text")
	}

	t := model.NewTranscript(segments, model.MethodYTDLP)
	t.Metadata = model.VideoMetadata{
		Title:     info.Title,
		Uploader:  info.Uploader,
		Duration:  int(info.Duration),
		ViewCount: info.ViewCount,
	}
	return t, nil
}

// selectScrapedTrack picks caption formats by the uniform preference order:
// manual English > automatic English > any manual language > any automatic
// language. Language maps are walked in sorted order for determinism.
func selectScrapedTrack(info *videoInfo) ([]captionFormat, bool) {
	if formats, ok := info.Subtitles["en"]; ok && len(formats) > 0 {
		return formats, true
	}
	if formats, ok := info.AutomaticCaptions["en"]; ok && len(formats) > 0 {
		return formats, true
	}
	for _, lang := range sortedKeys(info.Subtitles) {
		if formats := info.Subtitles[lang]; len(formats) > 0 {
			return formats, true
		}
	}
	for _, lang := range sortedKeys(info.AutomaticCaptions) {
		if formats := info.AutomaticCaptions[lang]; len(formats) > 0 {
			return formats, true
		}
	}
	return nil, false
}

func sortedKeys(m map[string][]captionFormat) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// runExtractor shells out to yt-dlp for a metadata dump without downloading
func (s *YTDLPSource) runExtractor(ctx context.Context, videoID string) (*videoInfo, error) {
	cmd := exec.CommandContext(ctx, s.binPath,
		"--dump-json",
		"--skip-download",
		"--no-warnings",
		"https://www.youtube.com/watch?v="+videoID,
	)

	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("yt-dlp: %s", firstLine(exitErr.Stderr))
		}
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}

	var info videoInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("decode yt-dlp output: %w", err)
	}
	return &info, nil
}

func firstLine(b []byte) string {
	for i, c := range b {
		if c == '\n' {
			return string(b[:i])
		}
	}
	return string(b)
}

func (s *YTDLPSource) fetchManifest(ctx context.Context, manifestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
