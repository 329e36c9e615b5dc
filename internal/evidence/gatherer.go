// Package evidence builds search queries from claims and normalizes the
// resulting sources.
package evidence

import (
	"context"
	"fmt"
	"strings"

	"github.com/truthquest/truthquest/internal/model"
)

const (
	// queryTextBudget caps how much claim text goes into a search query
	queryTextBudget = 200

	titleBudget       = 150
	descriptionBudget = 200

	ellipsis = "..."
)

// Searcher is the web-search backend boundary
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]model.EvidenceSource, error)
}

// Options bound a single gathering call
type Options struct {
	MaxSources  int // At most this many sources returned (2-5 by call site)
	MaxEntities int // Entities appended to the query (2-3 by call site)
}

// DefaultOptions is the standard per-claim gathering budget
func DefaultOptions() Options {
	return Options{MaxSources: 3, MaxEntities: 2}
}

// Gatherer turns claims into bounded evidence lists
type Gatherer struct {
	searcher Searcher
}

// NewGatherer creates a new evidence gatherer
func NewGatherer(searcher Searcher) *Gatherer {
	return &Gatherer{searcher: searcher}
}

// Gather searches the web for evidence about one claim. The query is the
// claim text (cut at the last whole word within budget) plus a bounded
// number of its entities. Result titles and descriptions are truncated to
// fixed budgets with an ellipsis marker.
func (g *Gatherer) Gather(ctx context.Context, claim model.Claim, opts Options) ([]model.EvidenceSource, error) {
	if opts.MaxSources <= 0 {
		opts = DefaultOptions()
	}

	query := BuildQuery(claim, opts.MaxEntities)
	if query == "" {
		return nil, fmt.Errorf("empty query for claim")
	}

	results, err := g.searcher.Search(ctx, query, opts.MaxSources)
	if err != nil {
		return nil, err
	}

	if len(results) > opts.MaxSources {
		results = results[:opts.MaxSources]
	}

	sources := make([]model.EvidenceSource, 0, len(results))
	for _, r := range results {
		sources = append(sources, model.EvidenceSource{
			Title:       truncateWithEllipsis(r.Title, titleBudget),
			URL:         r.URL,
			Description: truncateWithEllipsis(r.Description, descriptionBudget),
		})
	}
	return sources, nil
}

// BuildQuery concatenates truncated claim text with up to maxEntities entity
// strings
func BuildQuery(claim model.Claim, maxEntities int) string {
	parts := []string{truncateAtWord(claim.Text, queryTextBudget)}

	for i, entity := range claim.Entities {
		if i >= maxEntities {
			break
		}
		if e := strings.TrimSpace(entity); e != "" {
			parts = append(parts, e)
		}
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}

// truncateAtWord cuts s to at most budget characters, at the last whole word
// rather than mid-word when the budget is exceeded
func truncateAtWord(s string, budget int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}

	cut := string(runes[:budget])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}

// truncateWithEllipsis caps s at budget characters, appending an ellipsis
// marker when truncation occurs
func truncateWithEllipsis(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	return string(runes[:budget]) + ellipsis
}
