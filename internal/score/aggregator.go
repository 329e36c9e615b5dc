// Package score combines per-claim verdicts into a credibility score and
// letter grade.
package score

import (
	"math"

	"github.com/truthquest/truthquest/internal/model"
)

// Thesis multipliers. A refuted central thesis caps the final score hard: a
// video built on a false premise cannot grade well no matter how many side
// claims check out.
const (
	refutedThesisMultiplier = 0.4
	refutedThesisCeiling    = 40.0
	partialThesisMultiplier = 0.75
)

// Result is the aggregate outcome over one analysis
type Result struct {
	Score   float64
	Band    model.GradeBand
	Summary model.Summary
}

// Aggregate is a pure function over the verified claims and the central
// thesis verdict. Supported claims contribute 100 points, partially true 50;
// every other label (including error) dilutes the denominator only. A nil
// thesis verdict, or one labeled error, applies no multiplier.
func Aggregate(verified []model.VerifiedClaim, thesis *model.Verdict) Result {
	summary := tally(verified)

	if len(verified) == 0 {
		return Result{Score: 0, Band: model.BandForScore(0), Summary: summary}
	}

	base := (100*float64(summary.Supported) + 50*float64(summary.PartiallyTrue)) / float64(len(verified))

	// Band from the rounded score so the reported number and grade always
	// agree at threshold boundaries.
	final := round1(applyThesis(base, thesis))

	return Result{
		Score:   final,
		Band:    model.BandForScore(final),
		Summary: summary,
	}
}

func tally(verified []model.VerifiedClaim) model.Summary {
	var s model.Summary
	for _, vc := range verified {
		switch vc.Verification.Label {
		case model.VerdictSupported:
			s.Supported++
		case model.VerdictRefuted:
			s.Refuted++
		case model.VerdictPartiallyTrue:
			s.PartiallyTrue++
		}
	}
	return s
}

func applyThesis(base float64, thesis *model.Verdict) float64 {
	if thesis == nil {
		return base
	}

	switch thesis.Label {
	case model.VerdictRefuted:
		return math.Min(base*refutedThesisMultiplier, refutedThesisCeiling)
	case model.VerdictPartiallyTrue:
		return base * partialThesisMultiplier
	default:
		// supported, unverified, inconclusive and error all leave the
		// base untouched.
		return base
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
