package score

import (
	"testing"

	"github.com/truthquest/truthquest/internal/model"
)

func claimsWith(labels ...model.VerdictLabel) []model.VerifiedClaim {
	out := make([]model.VerifiedClaim, len(labels))
	for i, l := range labels {
		out[i] = model.VerifiedClaim{
			Claim:        model.Claim{Text: "claim"},
			Verification: model.Verdict{Label: l},
		}
	}
	return out
}

func verdict(label model.VerdictLabel) *model.Verdict {
	return &model.Verdict{Label: label}
}

func TestAggregate_BaseScoreAndGrade(t *testing.T) {
	// 4 claims: supported, supported, refuted, partially_true
	// base = (200 + 0 + 50) / 4 = 62.5
	verified := claimsWith(model.VerdictSupported, model.VerdictSupported, model.VerdictRefuted, model.VerdictPartiallyTrue)

	result := Aggregate(verified, verdict(model.VerdictSupported))

	if result.Score != 62.5 {
		t.Errorf("expected score 62.5, got %f", result.Score)
	}
	if result.Band.Grade != model.GradeB {
		t.Errorf("expected grade B, got %s", result.Band.Grade)
	}
	if result.Band.Color != "blue" {
		t.Errorf("expected color blue, got %s", result.Band.Color)
	}
}

func TestAggregate_RefutedThesisCapsScore(t *testing.T) {
	verified := claimsWith(model.VerdictSupported, model.VerdictSupported, model.VerdictRefuted, model.VerdictPartiallyTrue)

	result := Aggregate(verified, verdict(model.VerdictRefuted))

	// min(62.5 * 0.4, 40) = 25.0
	if result.Score != 25.0 {
		t.Errorf("expected score 25.0, got %f", result.Score)
	}
	if result.Band.Grade != model.GradeD {
		t.Errorf("expected grade D, got %s", result.Band.Grade)
	}
}

func TestAggregate_GradeMatchesRoundedScoreAtThreshold(t *testing.T) {
	// 599 supported + 401 partially true: base = 79.95, which rounds to the
	// reported 80.0. The grade must come from the same rounded value, never
	// reporting "80.0, grade B".
	labels := make([]model.VerdictLabel, 0, 1000)
	for i := 0; i < 599; i++ {
		labels = append(labels, model.VerdictSupported)
	}
	for i := 0; i < 401; i++ {
		labels = append(labels, model.VerdictPartiallyTrue)
	}

	result := Aggregate(claimsWith(labels...), nil)

	if result.Score != 80.0 {
		t.Fatalf("expected score 80.0, got %f", result.Score)
	}
	if result.Band.Grade != model.GradeA {
		t.Errorf("expected grade A for reported score 80.0, got %s", result.Band.Grade)
	}
}

func TestAggregate_RefutedThesisHardCeiling(t *testing.T) {
	// All supported: base 100; 100*0.4 = 40, at the ceiling.
	verified := claimsWith(model.VerdictSupported, model.VerdictSupported)

	result := Aggregate(verified, verdict(model.VerdictRefuted))
	if result.Score != 40.0 {
		t.Errorf("expected ceiling 40, got %f", result.Score)
	}
	if result.Band.Grade != model.GradeC {
		t.Errorf("expected grade C at exactly 40, got %s", result.Band.Grade)
	}
}

func TestAggregate_PartialThesisMultiplier(t *testing.T) {
	verified := claimsWith(model.VerdictSupported) // base 100

	result := Aggregate(verified, verdict(model.VerdictPartiallyTrue))
	if result.Score != 75.0 {
		t.Errorf("expected 75.0, got %f", result.Score)
	}
}

func TestAggregate_NeutralThesisLabels(t *testing.T) {
	verified := claimsWith(model.VerdictSupported) // base 100

	for _, label := range []model.VerdictLabel{model.VerdictSupported, model.VerdictUnverified, model.VerdictInconclusive, model.VerdictError} {
		result := Aggregate(verified, verdict(label))
		if result.Score != 100.0 {
			t.Errorf("thesis %s must not change the score, got %f", label, result.Score)
		}
	}

	if got := Aggregate(verified, nil); got.Score != 100.0 {
		t.Errorf("nil thesis must not change the score, got %f", got.Score)
	}
}

func TestAggregate_ErrorClaimsDiluteDenominatorOnly(t *testing.T) {
	// 1 supported + 3 error: (100 + 0) / 4 = 25
	verified := claimsWith(model.VerdictSupported, model.VerdictError, model.VerdictError, model.VerdictError)

	result := Aggregate(verified, nil)
	if result.Score != 25.0 {
		t.Errorf("expected 25.0, got %f", result.Score)
	}
	if result.Summary.Supported != 1 || result.Summary.Refuted != 0 || result.Summary.PartiallyTrue != 0 {
		t.Errorf("unexpected summary: %+v", result.Summary)
	}
}

func TestAggregate_GradeBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  model.Grade
	}{
		{80, model.GradeA},
		{79.9, model.GradeB},
		{60, model.GradeB},
		{59.9, model.GradeC},
		{40, model.GradeC},
		{39.9, model.GradeD},
		{0, model.GradeD},
	}

	for _, tc := range cases {
		if got := model.BandForScore(tc.score); got.Grade != tc.want {
			t.Errorf("BandForScore(%f) = %s, want %s", tc.score, got.Grade, tc.want)
		}
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	verified := claimsWith(model.VerdictSupported, model.VerdictRefuted, model.VerdictPartiallyTrue)
	thesis := verdict(model.VerdictPartiallyTrue)

	first := Aggregate(verified, thesis)
	second := Aggregate(verified, thesis)

	if first.Score != second.Score || first.Band.Grade != second.Band.Grade {
		t.Errorf("aggregation not idempotent: %+v vs %+v", first, second)
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	result := Aggregate(nil, nil)
	if result.Score != 0 {
		t.Errorf("expected 0 for empty input, got %f", result.Score)
	}
}
