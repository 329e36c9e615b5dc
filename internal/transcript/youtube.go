package transcript

import (
	"context"
	"fmt"
	"net/http"

	"github.com/truthquest/truthquest/internal/model"
)

// APISource fetches official captions through the Data API using a static
// API key. Highest-priority source when a key is configured.
type APISource struct {
	apiKey string
	client *captionsClient
}

// NewAPISource creates the official-captions source. An empty API key leaves
// the source unavailable and the chain skips it.
func NewAPISource(apiKey string, httpClient *http.Client, userAgent string) *APISource {
	s := &APISource{apiKey: apiKey}
	s.client = &captionsClient{
		baseURL:    googleAPIBase,
		httpClient: httpClient,
		userAgent:  userAgent,
		authorize: func(req *http.Request) {
			q := req.URL.Query()
			q.Set("key", apiKey)
			req.URL.RawQuery = q.Encode()
		},
	}
	return s
}

func (s *APISource) Name() string { return "youtube_api" }

func (s *APISource) Available() bool { return s.apiKey != "" }

// Fetch lists the video's caption tracks, downloads the preferred one in
// SubRip format, and parses it into segments.
func (s *APISource) Fetch(ctx context.Context, videoID string) (*model.Transcript, error) {
	tracks, err := s.client.listTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}

	track, ok := selectTrack(tracks)
	if !ok {
		return nil, ErrNoCaptions
	}

	data, err := s.client.downloadTrack(ctx, track.ID)
	if err != nil {
		return nil, fmt.Errorf("download caption %s: %w", track.ID, err)
	}

	segments := parseSRT(data)
	if len(segments) == 0 {
		return nil, fmt.Errorf("caption track %s contained no cues", track.ID)
	}

	return model.NewTranscript(segments, model.MethodYouTubeAPI), nil
}
