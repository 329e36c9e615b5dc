// Package pipeline orchestrates the complete analysis of one video: URL
// parsing, transcript acquisition, claim extraction, evidence-backed
// verification and final scoring.
package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/truthquest/truthquest/internal/cache"
	"github.com/truthquest/truthquest/internal/evidence"
	"github.com/truthquest/truthquest/internal/extract"
	"github.com/truthquest/truthquest/internal/llm"
	"github.com/truthquest/truthquest/internal/model"
	"github.com/truthquest/truthquest/internal/score"
	"github.com/truthquest/truthquest/internal/search"
	"github.com/truthquest/truthquest/internal/transcript"
	"github.com/truthquest/truthquest/internal/util"
	"github.com/truthquest/truthquest/internal/verify"
	"github.com/truthquest/truthquest/internal/video"
)

// Options carries per-request knobs that are not part of static configuration
type Options struct {
	OAuthToken string // User-supplied token; enables the OAuth caption strategy
	Exhaustive bool   // Verify every verifiable claim instead of sampling
}

// Pipeline wires the analysis stages together
type Pipeline struct {
	config      *model.Config
	provider    llm.Provider
	extractor   *extract.ClaimExtractor
	verifier    *verify.Verifier
	gatherer    *evidence.Gatherer
	searcher    *search.Client
	transcripts *cache.TranscriptCache // nil when caching is disabled
	transcriber transcript.Transcriber
	verbose     bool

	// Injectable for deterministic sampling in tests
	shuffle func(n int, swap func(i, j int))
}

// NewPipeline creates a pipeline from the given configuration
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}

	var transcriber transcript.Transcriber
	if op, ok := provider.(*llm.OpenAIProvider); ok {
		transcriber = transcript.NewOpenAITranscriber(op.Client(), cfg.LLM.TranscribeModel)
	}

	var transcripts *cache.TranscriptCache
	if cfg.Cache.Enabled {
		transcripts = cache.NewTranscriptCache(cfg.Cache.TTL)
	}

	searcher := search.NewClient(cfg.Search)

	return &Pipeline{
		config:      cfg,
		provider:    provider,
		extractor:   extract.NewClaimExtractor(provider),
		verifier:    verify.NewVerifier(provider, cfg.Verify.Workers),
		gatherer:    evidence.NewGatherer(searcher),
		searcher:    searcher,
		transcripts: transcripts,
		transcriber: transcriber,
		verbose:     cfg.Output.Verbose,
		shuffle:     rand.Shuffle,
	}, nil
}

// Analyze runs the full pipeline for one video URL
func (p *Pipeline) Analyze(ctx context.Context, url string, opts Options) (*model.AnalysisResult, error) {
	videoID, ok := video.ExtractID(url)
	if !ok {
		return nil, fmt.Errorf("%w: %s", video.ErrNoIdentifier, url)
	}

	tr, err := p.acquireTranscript(ctx, videoID, opts)
	if err != nil {
		return nil, err
	}
	p.logf("transcript acquired via %s (%d segments)", tr.Method, len(tr.Segments))

	claims, err := p.extractor.Claims(ctx, tr.FullText)
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}
	p.logf("extracted %d claims", len(claims))

	sampled := p.sample(claims, opts.Exhaustive)

	// No verifiable claims, whether extraction found nothing or only
	// unverifiable statements: terminal N/A result, no search or
	// verification calls are made.
	if len(sampled) == 0 {
		return &model.AnalysisResult{
			VideoID:          videoID,
			Grade:            model.GradeNABand.Grade,
			GradeDescription: model.GradeNABand.Description,
			GradeColor:       model.GradeNABand.Color,
			TotalClaims:      len(claims),
			VerifiedClaims:   []model.VerifiedClaim{},
			Method:           tr.Method,
		}, nil
	}

	thesisVerdict := p.verifyThesis(ctx, tr.FullText)
	p.logf("verifying %d of %d claims", len(sampled), len(claims))

	verified := p.verifier.VerifyAll(ctx, sampled, p.gatherEvidence)
	result := score.Aggregate(verified, thesisVerdict)

	return &model.AnalysisResult{
		VideoID:          videoID,
		Grade:            result.Band.Grade,
		GradeDescription: result.Band.Description,
		GradeColor:       result.Band.Color,
		Score:            result.Score,
		TotalClaims:      len(claims),
		SampledClaims:    len(sampled),
		Summary:          result.Summary,
		VerifiedClaims:   verified,
		ThesisVerdict:    thesisVerdict,
		Method:           tr.Method,
	}, nil
}

// Transcript acquires the transcript for a video URL without running the
// analysis stages
func (p *Pipeline) Transcript(ctx context.Context, url string, opts Options) (*model.Transcript, error) {
	videoID, ok := video.ExtractID(url)
	if !ok {
		return nil, fmt.Errorf("%w: %s", video.ErrNoIdentifier, url)
	}
	return p.acquireTranscript(ctx, videoID, opts)
}

// acquireTranscript consults the cache, then walks the source chain
func (p *Pipeline) acquireTranscript(ctx context.Context, videoID string, opts Options) (*model.Transcript, error) {
	if p.transcripts != nil {
		if cached, ok := p.transcripts.Get(videoID); ok {
			p.logf("transcript cache hit for %s", videoID)
			return cached, nil
		}
	}

	chain := p.buildChain(opts)
	tr, err := chain.Acquire(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if p.transcripts != nil {
		p.transcripts.Set(videoID, tr)
	}
	return tr, nil
}

// buildChain assembles the ordered transcript sources for one request.
// The OAuth strategy is per-request because the token arrives with it.
func (p *Pipeline) buildChain(opts Options) *transcript.Chain {
	httpClient := util.NewHTTPClient(p.config.HTTP)
	yt := p.config.YouTube

	sources := []transcript.Source{
		transcript.NewAPISource(yt.APIKey, httpClient, p.config.HTTP.UserAgent),
		transcript.NewOAuthSource(opts.OAuthToken, httpClient, p.config.HTTP.UserAgent),
		transcript.NewYTDLPSource(yt.YTDLPPath, httpClient, p.config.HTTP.UserAgent),
		transcript.NewWhisperSource(yt.YTDLPPath, yt.AudioFormat, yt.MaxAudioMB, p.transcriber),
	}
	return transcript.NewChain(p.verbose, sources...)
}

// verifyThesis extracts and verifies the central thesis. Any failure here
// degrades to a nil verdict; it never sinks the analysis.
func (p *Pipeline) verifyThesis(ctx context.Context, fullText string) *model.Verdict {
	thesis, err := p.extractor.Thesis(ctx, fullText)
	if err != nil {
		p.logf("thesis extraction failed: %v", err)
		return nil
	}

	sources, err := p.gatherEvidence(ctx, *thesis)
	if err != nil {
		p.logf("thesis evidence gathering failed: %v", err)
		sources = nil
	}

	vc := p.verifier.Verify(ctx, *thesis, sources)
	if vc.Verification.Label == model.VerdictError {
		p.logf("thesis verification failed: %s", vc.Verification.Reasoning)
		return nil
	}
	return &vc.Verification
}

// gatherEvidence is the GatherFunc handed to the verifier. When no search
// backend is configured verification proceeds without evidence rather than
// failing every claim.
func (p *Pipeline) gatherEvidence(ctx context.Context, claim model.Claim) ([]model.EvidenceSource, error) {
	if !p.searcher.Configured() {
		return nil, nil
	}
	return p.gatherer.Gather(ctx, claim, evidence.DefaultOptions())
}

// sample picks the claims to verify: all verifiable ones in exhaustive mode,
// otherwise a random subset capped at the configured sample size. Selected
// claims keep their transcript order.
func (p *Pipeline) sample(claims []model.Claim, exhaustive bool) []model.Claim {
	verifiable := make([]model.Claim, 0, len(claims))
	for _, c := range claims {
		if c.Verifiable {
			verifiable = append(verifiable, c)
		}
	}

	limit := p.config.Verify.SampleSize
	if exhaustive || limit <= 0 || len(verifiable) <= limit {
		return verifiable
	}

	indices := make([]int, len(verifiable))
	for i := range indices {
		indices[i] = i
	}
	p.shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	picked := indices[:limit]
	sort.Ints(picked)

	sampled := make([]model.Claim, 0, limit)
	for _, idx := range picked {
		sampled = append(sampled, verifiable[idx])
	}
	return sampled
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.verbose {
		fmt.Fprintf(os.Stderr, "[pipeline] "+format+"\n", args...)
	}
}
