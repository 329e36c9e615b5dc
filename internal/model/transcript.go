package model

import "strings"

// SourceMethod identifies which acquisition strategy produced a transcript
type SourceMethod string

const (
	MethodYouTubeAPI SourceMethod = "youtube_api" // Official captions via Data API key
	MethodOAuth      SourceMethod = "oauth"       // Captions via user-supplied OAuth token
	MethodYTDLP      SourceMethod = "yt-dlp"      // Generic caption scraping
	MethodWhisper    SourceMethod = "whisper"     // Audio transcription fallback
)

// Segment is a single timed span of transcript text
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`    // Seconds from video start
	Duration float64 `json:"duration"` // Seconds; 0 when the source format has no duration
}

// VideoMetadata holds basic video information when a source can provide it
type VideoMetadata struct {
	Title     string `json:"title,omitempty"`
	Uploader  string `json:"uploader,omitempty"`
	Duration  int    `json:"duration,omitempty"` // Seconds
	ViewCount int64  `json:"view_count,omitempty"`
}

// Transcript is the spoken-word text of a video, immutable once produced.
// FullText is always the space-joined concatenation of segment texts in order.
type Transcript struct {
	FullText string        `json:"full"`
	Segments []Segment     `json:"segments"`
	Method   SourceMethod  `json:"method"`
	Metadata VideoMetadata `json:"metadata,omitempty"`
}

// NewTranscript builds a Transcript from ordered segments, deriving FullText
// so the join invariant holds by construction.
func NewTranscript(segments []Segment, method SourceMethod) *Transcript {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}
	return &Transcript{
		FullText: strings.Join(parts, " "),
		Segments: segments,
		Method:   method,
	}
}
