// Package extract pulls verifiable factual claims out of transcript text
// using the language-model backend.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/truthquest/truthquest/internal/llm"
	"github.com/truthquest/truthquest/internal/model"
)

// thesisContextBudget caps how much transcript the thesis request sees.
// The full claim-list request is never truncated.
const thesisContextBudget = 8000

// maxEntitiesPerClaim bounds the entity list carried by each claim
const maxEntitiesPerClaim = 5

const claimsSystemPrompt = `You are a fact-checking assistant. Your task is to analyze transcripts and extract verifiable factual claims.

For each claim, identify:
1. The specific factual statement
2. The category (statistic/historical/scientific/quote/general)
3. Surrounding context from the transcript
4. Key entities or topics to search for verification

Focus on:
- Specific numbers, dates, statistics
- Historical events or facts
- Scientific or medical claims
- Quotes attributed to people
- Assertions about companies, products, or events

Ignore:
- Opinions or subjective statements
- Hypotheticals or future predictions
- General statements without specific claims

Return your response as a JSON object with a "facts" array.`

const thesisSystemPrompt = `You are a fact-checking assistant. Identify the single most important assertion a video transcript is built around - its central thesis. Return exactly one claim, not a list.

Return your response as a JSON object.`

// ClaimExtractor extracts claims from transcript text
type ClaimExtractor struct {
	provider llm.Provider
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor(provider llm.Provider) *ClaimExtractor {
	return &ClaimExtractor{provider: provider}
}

// rawClaim tolerates the loose shapes models return for claim objects
type rawClaim struct {
	Claim      string   `json:"claim"`
	Text       string   `json:"text"`
	Category   string   `json:"category"`
	Context    string   `json:"context"`
	Entities   []string `json:"entities"`
	Verifiable *bool    `json:"verifiable"`
}

// Claims extracts all verifiable factual claims from the transcript. The
// transcript is sent in full. An empty claim list is a valid outcome, not an
// error; only backend failures are surfaced.
func (e *ClaimExtractor) Claims(ctx context.Context, transcript string) ([]model.Claim, error) {
	prompt := fmt.Sprintf(`Analyze this transcript and extract all verifiable factual claims:

"%s"

Return a JSON object with a "facts" array where each fact has:
- "claim": the exact factual statement
- "category": type of claim (statistic/historical/scientific/quote/general)
- "context": surrounding context from transcript
- "entities": key terms to search for verification
- "verifiable": boolean if this can be fact-checked`, transcript)

	raw, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System: claimsSystemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}

	var payload struct {
		Facts []rawClaim `json:"facts"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		// Malformed output degrades to "no claims found" rather than
		// sinking the analysis.
		return nil, nil
	}

	claims := make([]model.Claim, 0, len(payload.Facts))
	for _, rc := range payload.Facts {
		claim := rc.toModel()
		if claim.Text == "" {
			continue
		}
		claims = append(claims, claim)
	}
	return claims, nil
}

// Thesis extracts the single central-thesis claim. Only the first 8000
// characters of the transcript are sent.
func (e *ClaimExtractor) Thesis(ctx context.Context, transcript string) (*model.Claim, error) {
	if runes := []rune(transcript); len(runes) > thesisContextBudget {
		transcript = string(runes[:thesisContextBudget])
	}

	prompt := fmt.Sprintf(`What is the central thesis of this transcript - the single most important assertion the video makes?

"%s"

Return a JSON object with:
- "claim": the central thesis as one factual statement
- "category": type of claim (statistic/historical/scientific/quote/general)
- "entities": key terms to search for verification`, transcript)

	raw, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System: thesisSystemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("extract thesis: %w", err)
	}

	var rc rawClaim
	if err := json.Unmarshal(raw, &rc); err != nil {
		return nil, fmt.Errorf("decode thesis: %w", err)
	}

	claim := rc.toModel()
	if claim.Text == "" {
		return nil, fmt.Errorf("no central thesis in response")
	}
	return &claim, nil
}

func (rc rawClaim) toModel() model.Claim {
	text := strings.TrimSpace(rc.Claim)
	if text == "" {
		text = strings.TrimSpace(rc.Text)
	}

	entities := rc.Entities
	if len(entities) > maxEntitiesPerClaim {
		entities = entities[:maxEntitiesPerClaim]
	}

	verifiable := true
	if rc.Verifiable != nil {
		verifiable = *rc.Verifiable
	}

	return model.Claim{
		Text:       text,
		Category:   normalizeCategory(rc.Category),
		Context:    rc.Context,
		Entities:   entities,
		Verifiable: verifiable,
	}
}

func normalizeCategory(s string) model.Category {
	switch model.Category(strings.ToLower(strings.TrimSpace(s))) {
	case model.CategoryStatistic:
		return model.CategoryStatistic
	case model.CategoryHistorical:
		return model.CategoryHistorical
	case model.CategoryScientific:
		return model.CategoryScientific
	case model.CategoryQuote:
		return model.CategoryQuote
	default:
		return model.CategoryGeneral
	}
}
