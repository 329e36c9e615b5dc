// Package cache holds fetched transcripts for the duration of their TTL so
// repeated analyses of the same video skip the acquisition chain.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/truthquest/truthquest/internal/model"
)

// Key generates a cache key from a video identifier
func Key(videoID string) string {
	hash := sha256.Sum256([]byte(videoID))
	return "truthquest:v1:" + hex.EncodeToString(hash[:])
}

// TranscriptCache is an in-memory TTL cache for transcripts
type TranscriptCache struct {
	cache *gocache.Cache
}

// NewTranscriptCache creates a cache with the given TTL
func NewTranscriptCache(ttl time.Duration) *TranscriptCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TranscriptCache{
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Get retrieves a cached transcript for a video
func (c *TranscriptCache) Get(videoID string) (*model.Transcript, bool) {
	if val, found := c.cache.Get(Key(videoID)); found {
		return val.(*model.Transcript), true
	}
	return nil, false
}

// Set stores a transcript with the default TTL
func (c *TranscriptCache) Set(videoID string, t *model.Transcript) {
	c.cache.SetDefault(Key(videoID), t)
}

// Delete removes a cached transcript
func (c *TranscriptCache) Delete(videoID string) {
	c.cache.Delete(Key(videoID))
}
