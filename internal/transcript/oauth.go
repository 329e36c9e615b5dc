package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/truthquest/truthquest/internal/model"
)

// OAuthSource fetches captions with a caller-supplied bearer token instead of
// a static key. The token also grants access to video metadata (title,
// channel, duration, view count). A missing or sentinel token means "not
// attempted": the source reports itself unavailable and the chain continues
// without recording a failure.
type OAuthSource struct {
	token  string
	client *captionsClient
}

// NewOAuthSource creates the OAuth-captions source for one request's token
func NewOAuthSource(token string, httpClient *http.Client, userAgent string) *OAuthSource {
	s := &OAuthSource{token: token}
	s.client = &captionsClient{
		baseURL:    googleAPIBase,
		httpClient: httpClient,
		userAgent:  userAgent,
		authorize: func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token)
		},
	}
	return s
}

func (s *OAuthSource) Name() string { return "oauth" }

// Available rejects empty and sentinel tokens that front ends sometimes
// serialize literally.
func (s *OAuthSource) Available() bool {
	return s.token != "" && s.token != "null" && s.token != "undefined"
}

func (s *OAuthSource) Fetch(ctx context.Context, videoID string) (*model.Transcript, error) {
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

	t := model.NewTranscript(segments, model.MethodOAuth)

	// Metadata failures don't sink the transcript.
	if meta, err := s.fetchMetadata(ctx, videoID); err == nil {
		t.Metadata = meta
	}

	return t, nil
}

// fetchMetadata retrieves title, channel, duration and view count
func (s *OAuthSource) fetchMetadata(ctx context.Context, videoID string) (model.VideoMetadata, error) {
	q := url.Values{}
	q.Set("part", "snippet,contentDetails,statistics")
	q.Set("id", videoID)

	body, err := s.client.get(ctx, "/videos", q)
	if err != nil {
		return model.VideoMetadata{}, err
	}

	var payload struct {
		Items []struct {
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
			} `json:"snippet"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
			Statistics struct {
				ViewCount string `json:"viewCount"`
			} `json:"statistics"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return model.VideoMetadata{}, fmt.Errorf("decode video metadata: %w", err)
	}
	if len(payload.Items) == 0 {
		return model.VideoMetadata{}, ErrVideoNotFound
	}

	item := payload.Items[0]
	views, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)

	return model.VideoMetadata{
		Title:     item.Snippet.Title,
		Uploader:  item.Snippet.ChannelTitle,
		Duration:  parseISODuration(item.ContentDetails.Duration),
		ViewCount: views,
	}, nil
}

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISODuration converts an ISO-8601 duration like "PT1H2M3S" to seconds.
// Each component is optional and defaults to zero; unparseable input yields 0.
func parseISODuration(iso string) int {
	m := isoDurationPattern.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}
	h, _ := strconv.Atoi(zeroIfEmpty(m[1]))
	min, _ := strconv.Atoi(zeroIfEmpty(m[2]))
	s, _ := strconv.Atoi(zeroIfEmpty(m[3]))
	return h*3600 + min*60 + s
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
