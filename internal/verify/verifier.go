// Package verify turns claims plus gathered evidence into verdicts.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/truthquest/truthquest/internal/llm"
	"github.com/truthquest/truthquest/internal/model"
)

const (
	// reasoningBudget caps the reasoning string carried on a verdict
	reasoningBudget = 500

	// maxCitedSources caps how many evidence sources a verdict may cite
	maxCitedSources = 2
)

const verifySystemPrompt = `You are a fact-checking assistant. Given a factual claim and a numbered list of web evidence, judge whether the evidence supports the claim.

Rules:
- Judge only from the evidence provided, never from your own knowledge.
- "supported" means the evidence confirms the claim, "refuted" means it contradicts it.
- Use "partially_true" when parts hold and parts do not.
- Use "unverified" when the evidence does not address the claim, "inconclusive" when it is contradictory.

Return a JSON object.`

// GatherFunc fetches evidence for one claim
type GatherFunc func(ctx context.Context, claim model.Claim) ([]model.EvidenceSource, error)

// Verifier maps claims to verdicts through the language-model backend
type Verifier struct {
	provider llm.Provider
	workers  int
}

// NewVerifier creates a verifier with the given concurrency bound
func NewVerifier(provider llm.Provider, workers int) *Verifier {
	if workers <= 0 {
		workers = 4
	}
	return &Verifier{provider: provider, workers: workers}
}

// rawVerdict tolerates the shapes models return for verdict objects
type rawVerdict struct {
	Verdict    string `json:"verdict"`
	Confidence int    `json:"confidence"`
	Reasoning  string `json:"reasoning"`
	Sources    []int  `json:"sources"`
}

// Verify is a total function: it always returns exactly one VerifiedClaim
// for the input claim, with the original claim fields unchanged. Any failure
// yields a verdict labeled "error" with the underlying message embedded in
// the reasoning, never a dropped claim.
func (v *Verifier) Verify(ctx context.Context, claim model.Claim, sources []model.EvidenceSource) model.VerifiedClaim {
	raw, err := v.provider.Complete(ctx, llm.CompletionRequest{
		System: verifySystemPrompt,
		Prompt: buildPrompt(claim, sources),
	})
	if err != nil {
		return errorVerdict(claim, err)
	}

	var rv rawVerdict
	if err := json.Unmarshal(raw, &rv); err != nil {
		return errorVerdict(claim, fmt.Errorf("malformed verdict: %w", err))
	}

	label, ok := normalizeLabel(rv.Verdict)
	if !ok {
		return errorVerdict(claim, fmt.Errorf("unknown verdict label %q", rv.Verdict))
	}

	return model.VerifiedClaim{
		Claim: claim,
		Verification: model.Verdict{
			Label:      label,
			Confidence: clampConfidence(rv.Confidence),
			Reasoning:  truncate(rv.Reasoning, reasoningBudget),
			Sources:    citedSources(rv.Sources, sources),
		},
	}
}

// VerifyAll gathers evidence and verifies each claim concurrently up to the
// worker bound. Results are index-stable: the verdict at position i belongs
// to claims[i] regardless of completion order, and no claim is ever dropped.
func (v *Verifier) VerifyAll(ctx context.Context, claims []model.Claim, gather GatherFunc) []model.VerifiedClaim {
	if len(claims) == 0 {
		return []model.VerifiedClaim{}
	}

	results := make([]model.VerifiedClaim, len(claims))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, v.workers)

	for i, claim := range claims {
		wg.Add(1)
		go func(idx int, c model.Claim) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = errorVerdict(c, ctx.Err())
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			sources, err := gather(ctx, c)
			if err != nil {
				results[idx] = errorVerdict(c, fmt.Errorf("evidence gathering failed: %w", err))
				return
			}

			results[idx] = v.Verify(ctx, c, sources)
		}(i, claim)
	}

	wg.Wait()
	return results
}

// buildPrompt presents the claim and an enumerated, bounded evidence list
func buildPrompt(claim model.Claim, sources []model.EvidenceSource) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Claim: %q\n", claim.Text)
	if claim.Context != "" {
		fmt.Fprintf(&sb, "Context: %s\n", claim.Context)
	}

	sb.WriteString("\nEvidence:\n")
	if len(sources) == 0 {
		sb.WriteString("(no evidence found)\n")
	}
	for i, src := range sources {
		fmt.Fprintf(&sb, "%d. %s", i+1, src.Title)
		if src.Description != "" {
			fmt.Fprintf(&sb, " - %s", src.Description)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(`
Return a JSON object with:
- "verdict": one of supported/refuted/partially_true/unverified/inconclusive
- "confidence": integer 0-100
- "reasoning": short explanation
- "sources": numbers of the most relevant evidence entries (at most 2)`)

	return sb.String()
}

func errorVerdict(claim model.Claim, err error) model.VerifiedClaim {
	return model.VerifiedClaim{
		Claim: claim,
		Verification: model.Verdict{
			Label:      model.VerdictError,
			Confidence: 0,
			Reasoning:  truncate(fmt.Sprintf("verification failed: %v", err), reasoningBudget),
		},
	}
}

func normalizeLabel(s string) (model.VerdictLabel, bool) {
	switch model.VerdictLabel(strings.ToLower(strings.TrimSpace(s))) {
	case model.VerdictSupported:
		return model.VerdictSupported, true
	case model.VerdictRefuted:
		return model.VerdictRefuted, true
	case model.VerdictPartiallyTrue:
		return model.VerdictPartiallyTrue, true
	case model.VerdictUnverified:
		return model.VerdictUnverified, true
	case model.VerdictInconclusive:
		return model.VerdictInconclusive, true
	default:
		return "", false
	}
}

// citedSources maps 1-based indices from the model to sources, filtered to
// valid indices and capped
func citedSources(indices []int, sources []model.EvidenceSource) []model.EvidenceSource {
	var cited []model.EvidenceSource
	for _, idx := range indices {
		if idx < 1 || idx > len(sources) {
			continue
		}
		cited = append(cited, sources[idx-1])
		if len(cited) == maxCitedSources {
			break
		}
	}
	return cited
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// truncate caps s at budget characters, never splitting a rune
func truncate(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	return string(runes[:budget])
}
