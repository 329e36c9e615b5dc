// Package transcript acquires video transcripts through an ordered chain of
// fallback sources.
package transcript

import (
	"context"
	"errors"
	"fmt"

	"github.com/truthquest/truthquest/internal/model"
)

// Source is one concrete method of acquiring a transcript. Sources are tried
// in a fixed priority order by the Chain.
type Source interface {
	// Name identifies the source in logs and aggregated error messages
	Name() string

	// Available reports whether the source is configured and should be
	// attempted at all. Unavailable sources are skipped without recording
	// a failure.
	Available() bool

	// Fetch acquires a transcript for the given video identifier
	Fetch(ctx context.Context, videoID string) (*model.Transcript, error)
}

// Failure taxonomy for individual sources. The chain recovers from all of
// these by advancing to the next source; they surface only when every source
// has been exhausted.
var (
	ErrNoCaptions    = errors.New("no captions available")
	ErrAuthOrQuota   = errors.New("quota exceeded or access forbidden")
	ErrVideoNotFound = errors.New("video not found")
)

// FileTooLargeError reports an audio file exceeding the transcription ceiling
type FileTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("audio file too large: %d bytes (limit %d)", e.Size, e.Limit)
}
