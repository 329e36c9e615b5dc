package transcript

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSelectTrack_PreferenceOrder(t *testing.T) {
	cases := []struct {
		name   string
		tracks []captionTrack
		wantID string
	}{
		{
			"manual english beats auto english",
			[]captionTrack{
				{ID: "a", Language: "en", Kind: "ASR"},
				{ID: "b", Language: "en", Kind: "standard"},
			},
			"b",
		},
		{
			"auto english beats manual other",
			[]captionTrack{
				{ID: "a", Language: "de", Kind: "standard"},
				{ID: "b", Language: "en", Kind: "ASR"},
			},
			"b",
		},
		{
			"manual other beats auto other",
			[]captionTrack{
				{ID: "a", Language: "fr", Kind: "ASR"},
				{ID: "b", Language: "de", Kind: "standard"},
			},
			"b",
		},
		{
			"first available as last resort",
			[]captionTrack{
				{ID: "a", Language: "fr", Kind: "ASR"},
				{ID: "b", Language: "de", Kind: "ASR"},
			},
			"a",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			track, ok := selectTrack(tc.tracks)
			if !ok {
				t.Fatal("expected a selection")
			}
			if track.ID != tc.wantID {
				t.Errorf("selected %s, want %s", track.ID, tc.wantID)
			}
		})
	}
}

func TestSelectTrack_Empty(t *testing.T) {
	if _, ok := selectTrack(nil); ok {
		t.Fatal("expected no selection for empty track list")
	}
}

func newTestClient(baseURL string) *captionsClient {
	return &captionsClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		userAgent:  "test",
		authorize:  func(req *http.Request) {},
	}
}

func TestCaptionsClient_QuotaExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quota","errors":[{"reason":"quotaExceeded"}]}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).listTracks(context.Background(), "vid")
	if !errors.Is(err, ErrAuthOrQuota) {
		t.Fatalf("expected ErrAuthOrQuota, got %v", err)
	}
}

func TestCaptionsClient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).listTracks(context.Background(), "vid")
	if !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestCaptionsClient_ListTracks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/captions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("videoId") != "vid123" {
			t.Errorf("missing videoId parameter")
		}
		_, _ = w.Write([]byte(`{"items":[
			{"id":"t1","snippet":{"language":"en","trackKind":"ASR"}},
			{"id":"t2","snippet":{"language":"en","trackKind":"standard"}}
		]}`))
	}))
	defer server.Close()

	tracks, err := newTestClient(server.URL).listTracks(context.Background(), "vid123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 2 || tracks[0].ID != "t1" || tracks[1].Kind != "standard" {
		t.Errorf("unexpected tracks: %+v", tracks)
	}
}
