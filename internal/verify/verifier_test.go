package verify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/truthquest/truthquest/internal/llm"
	"github.com/truthquest/truthquest/internal/model"
)

type fakeProvider struct {
	response string
	err      error
	calls    atomic.Int32
}

func (f *fakeProvider) Name() string                         { return "fake" }
func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (json.RawMessage, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.response), nil
}

func sampleClaim() model.Claim {
	return model.Claim{
		Text:       "The moon landing happened in 1969",
		Category:   model.CategoryHistorical,
		Entities:   []string{"moon landing", "1969"},
		Verifiable: true,
	}
}

func sampleSources() []model.EvidenceSource {
	return []model.EvidenceSource{
		{Title: "NASA history", URL: "https://nasa.example.com", Description: "Apollo 11"},
		{Title: "Encyclopedia", URL: "https://enc.example.com", Description: "1969 landing"},
		{Title: "Blog", URL: "https://blog.example.com", Description: "opinions"},
	}
}

func TestVerify_ParsesVerdict(t *testing.T) {
	provider := &fakeProvider{response: `{"verdict": "supported", "confidence": 90, "reasoning": "Sources confirm the date", "sources": [1, 2]}`}
	v := NewVerifier(provider, 2)

	got := v.Verify(context.Background(), sampleClaim(), sampleSources())

	if got.Verification.Label != model.VerdictSupported {
		t.Errorf("expected supported, got %s", got.Verification.Label)
	}
	if got.Verification.Confidence != 90 {
		t.Errorf("expected confidence 90, got %d", got.Verification.Confidence)
	}
	if len(got.Verification.Sources) != 2 {
		t.Fatalf("expected 2 cited sources, got %d", len(got.Verification.Sources))
	}
	if got.Verification.Sources[0].Title != "NASA history" {
		t.Errorf("1-based index mapping wrong: %+v", got.Verification.Sources[0])
	}
	if got.Text != sampleClaim().Text {
		t.Errorf("claim fields must be unchanged")
	}
}

func TestVerify_FiltersInvalidSourceIndices(t *testing.T) {
	provider := &fakeProvider{response: `{"verdict": "supported", "confidence": 50, "sources": [0, 7, 3, 1, 2]}`}
	got := NewVerifier(provider, 1).Verify(context.Background(), sampleClaim(), sampleSources())

	cited := got.Verification.Sources
	if len(cited) != 2 {
		t.Fatalf("expected cap of 2 valid sources, got %d", len(cited))
	}
	if cited[0].Title != "Blog" || cited[1].Title != "NASA history" {
		t.Errorf("invalid indices not filtered: %+v", cited)
	}
}

func TestVerify_ErrorYieldsErrorVerdict(t *testing.T) {
	provider := &fakeProvider{err: errors.New("model exploded spectacularly")}
	claim := sampleClaim()

	got := NewVerifier(provider, 1).Verify(context.Background(), claim, nil)

	if got.Verification.Label != model.VerdictError {
		t.Fatalf("expected error verdict, got %s", got.Verification.Label)
	}
	if got.Verification.Confidence != 0 {
		t.Errorf("expected confidence 0, got %d", got.Verification.Confidence)
	}
	if !strings.Contains(got.Verification.Reasoning, "model exploded") {
		t.Errorf("reasoning must embed the error: %q", got.Verification.Reasoning)
	}
	if got.Text != claim.Text || got.Category != claim.Category {
		t.Errorf("original claim fields changed: %+v", got.Claim)
	}
}

func TestVerify_ReasoningTruncatedToCap(t *testing.T) {
	longErr := errors.New(strings.Repeat("x", 1000))
	got := NewVerifier(&fakeProvider{err: longErr}, 1).Verify(context.Background(), sampleClaim(), nil)

	if len(got.Verification.Reasoning) > 500 {
		t.Errorf("reasoning exceeds cap: %d chars", len(got.Verification.Reasoning))
	}
}

func TestVerify_MultibyteReasoningTruncatedOnRuneBoundary(t *testing.T) {
	provider := &fakeProvider{response: `{"verdict": "supported", "confidence": 80, "reasoning": ` +
		string(mustJSON(strings.Repeat("й", 600))) + `}`}
	got := NewVerifier(provider, 1).Verify(context.Background(), sampleClaim(), nil)

	reasoning := got.Verification.Reasoning
	if !utf8.ValidString(reasoning) {
		t.Fatalf("truncation produced invalid UTF-8: %q", reasoning)
	}
	if n := utf8.RuneCountInString(reasoning); n != 500 {
		t.Errorf("expected 500 chars, got %d", n)
	}
}

func mustJSON(s string) []byte {
	b, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	return b
}

func TestVerify_UnknownLabelIsErrorVerdict(t *testing.T) {
	provider := &fakeProvider{response: `{"verdict": "probably fine"}`}
	got := NewVerifier(provider, 1).Verify(context.Background(), sampleClaim(), nil)

	if got.Verification.Label != model.VerdictError {
		t.Errorf("unknown label must map to error verdict, got %s", got.Verification.Label)
	}
}

func TestVerifyAll_IndexStableAndComplete(t *testing.T) {
	provider := &fakeProvider{response: `{"verdict": "supported", "confidence": 80}`}
	v := NewVerifier(provider, 3)

	claims := make([]model.Claim, 10)
	for i := range claims {
		claims[i] = model.Claim{Text: string(rune('a'+i)) + " claim", Verifiable: true}
	}

	gather := func(ctx context.Context, c model.Claim) ([]model.EvidenceSource, error) {
		return sampleSources(), nil
	}

	results := v.VerifyAll(context.Background(), claims, gather)

	if len(results) != len(claims) {
		t.Fatalf("no-claim-dropped violated: %d results for %d claims", len(results), len(claims))
	}
	for i, r := range results {
		if r.Text != claims[i].Text {
			t.Errorf("result %d not attributed to its claim: got %q want %q", i, r.Text, claims[i].Text)
		}
	}
}

func TestVerifyAll_GatherFailureKeepsClaim(t *testing.T) {
	provider := &fakeProvider{response: `{"verdict": "supported"}`}
	v := NewVerifier(provider, 2)

	claims := []model.Claim{{Text: "good"}, {Text: "bad"}}
	gather := func(ctx context.Context, c model.Claim) ([]model.EvidenceSource, error) {
		if c.Text == "bad" {
			return nil, errors.New("search backend down")
		}
		return nil, nil
	}

	results := v.VerifyAll(context.Background(), claims, gather)

	if results[0].Verification.Label != model.VerdictSupported {
		t.Errorf("healthy claim should verify, got %s", results[0].Verification.Label)
	}
	if results[1].Verification.Label != model.VerdictError {
		t.Errorf("gather failure must become an error verdict, got %s", results[1].Verification.Label)
	}
	if !strings.Contains(results[1].Verification.Reasoning, "search backend down") {
		t.Errorf("reasoning must embed gather error: %q", results[1].Verification.Reasoning)
	}
}
