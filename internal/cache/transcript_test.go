package cache

import (
	"testing"
	"time"

	"github.com/truthquest/truthquest/internal/model"
)

func TestTranscriptCache_RoundTrip(t *testing.T) {
	c := NewTranscriptCache(time.Minute)

	if _, found := c.Get("vid123"); found {
		t.Fatal("empty cache reported a hit")
	}

	want := model.NewTranscript([]model.Segment{{Text: "hello", Start: 0}}, model.MethodYTDLP)
	c.Set("vid123", want)

	got, found := c.Get("vid123")
	if !found {
		t.Fatal("expected a hit after Set")
	}
	if got.FullText != "hello" {
		t.Errorf("unexpected transcript: %+v", got)
	}

	c.Delete("vid123")
	if _, found := c.Get("vid123"); found {
		t.Error("expected miss after Delete")
	}
}

func TestKey_DistinctPerVideo(t *testing.T) {
	if Key("a") == Key("b") {
		t.Error("keys must differ per video id")
	}
}
