package transcript

import "testing"

func TestParseJSON3(t *testing.T) {
	manifest := []byte(`{
		"events": [
			{"tStartMs": 0, "dDurationMs": 2000, "segs": [{"utf8": "Hello "}, {"utf8": "world"}]},
			{"tStartMs": 2500, "dDurationMs": 1500, "segs": [{"utf8": "\n"}]},
			{"tStartMs": 4000, "dDurationMs": 1000, "segs": [{"utf8": "again"}]},
			{"tStartMs": 6000, "dDurationMs": 500}
		]
	}`)

	segments, err := parseJSON3(manifest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The whitespace-only event and the event without segs are dropped.
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}

	if segments[0].Text != "Hello world" {
		t.Errorf("sub-segments not concatenated: %q", segments[0].Text)
	}
	if segments[0].Start != 0 || segments[0].Duration != 2.0 {
		t.Errorf("unexpected timing: %+v", segments[0])
	}
	if segments[1].Start != 4.0 || segments[1].Duration != 1.0 {
		t.Errorf("millisecond conversion wrong: %+v", segments[1])
	}
}

func TestParseJSON3_InvalidJSON(t *testing.T) {
	if _, err := parseJSON3([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
