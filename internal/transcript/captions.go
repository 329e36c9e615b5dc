package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const googleAPIBase = "https://www.googleapis.com/youtube/v3"

// captionTrack is one caption track listed for a video
type captionTrack struct {
	ID       string
	Language string
	Kind     string // "standard" for manually authored, "ASR" for auto-generated
}

// captionsClient talks to the caption/metadata backend. The authorize hook
// carries either an API key query parameter or an OAuth bearer header.
type captionsClient struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	authorize  func(req *http.Request)
}

// apiError is the structured error envelope returned by the backend
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func (c *captionsClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	switch resp.StatusCode {
	case http.StatusForbidden:
		// Distinguish quota exhaustion from insufficient credentials via the
		// structured reason field.
		var envelope apiError
		reason := ""
		if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Error.Errors) > 0 {
			reason = envelope.Error.Errors[0].Reason
		}
		switch reason {
		case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded":
			return nil, fmt.Errorf("%w: quota exceeded (%s)", ErrAuthOrQuota, reason)
		default:
			return nil, fmt.Errorf("%w: requires OAuth (%s)", ErrAuthOrQuota, reason)
		}
	case http.StatusNotFound:
		return nil, ErrVideoNotFound
	default:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

// listTracks lists the caption tracks for a video
func (c *captionsClient) listTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("videoId", videoID)

	body, err := c.get(ctx, "/captions", q)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Language  string `json:"language"`
				TrackKind string `json:"trackKind"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode caption list: %w", err)
	}

	tracks := make([]captionTrack, 0, len(payload.Items))
	for _, item := range payload.Items {
		tracks = append(tracks, captionTrack{
			ID:       item.ID,
			Language: item.Snippet.Language,
			Kind:     item.Snippet.TrackKind,
		})
	}
	return tracks, nil
}

// downloadTrack downloads a caption track in SubRip format
func (c *captionsClient) downloadTrack(ctx context.Context, trackID string) ([]byte, error) {
	q := url.Values{}
	q.Set("tfmt", "srt")
	return c.get(ctx, "/captions/"+trackID, q)
}

// selectTrack picks the caption track to download:
// manual English > English of any kind > manual in any language > first
// available. This preference order is applied uniformly across caption
// strategies.
func selectTrack(tracks []captionTrack) (captionTrack, bool) {
	if len(tracks) == 0 {
		return captionTrack{}, false
	}

	var englishAny, manualAny *captionTrack
	for i := range tracks {
		t := &tracks[i]
		if t.Language == "en" && t.Kind == "standard" {
			return *t, true
		}
		if t.Language == "en" && englishAny == nil {
			englishAny = t
		}
		if t.Kind == "standard" && manualAny == nil {
			manualAny = t
		}
	}

	if englishAny != nil {
		return *englishAny, true
	}
	if manualAny != nil {
		return *manualAny, true
	}
	return tracks[0], true
}
