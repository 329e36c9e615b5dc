package transcript

import (
	"encoding/json"
	"strings"

	"github.com/truthquest/truthquest/internal/model"
)

// json3Manifest is the JSON caption manifest served for scraped caption tracks
type json3Manifest struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	StartMs    int64      `json:"tStartMs"`
	DurationMs int64      `json:"dDurationMs"`
	Segs       []json3Seg `json:"segs"`
}

type json3Seg struct {
	UTF8 string `json:"utf8"`
}

// parseJSON3 flattens a json3 caption manifest into ordered segments. Each
// event's sub-segment texts are concatenated; events producing only
// whitespace are dropped. Timestamps are millisecond integers.
func parseJSON3(data []byte) ([]model.Segment, error) {
	var manifest json3Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}

	var segments []model.Segment
	for _, event := range manifest.Events {
		if len(event.Segs) == 0 {
			continue
		}

		var sb strings.Builder
		for _, seg := range event.Segs {
			sb.WriteString(seg.UTF8)
		}

		text := sb.String()
		if strings.TrimSpace(text) == "" {
			continue
		}

		segments = append(segments, model.Segment{
			Text:     text,
			Start:    float64(event.StartMs) / 1000,
			Duration: float64(event.DurationMs) / 1000,
		})
	}

	return segments, nil
}
