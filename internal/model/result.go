package model

// Grade is the letter grade assigned to an analyzed video
type Grade string

const (
	GradeA  Grade = "A"
	GradeB  Grade = "B"
	GradeC  Grade = "C"
	GradeD  Grade = "D"
	GradeNA Grade = "N/A"
)

// GradeBand maps a minimum score to its grade, description and display color.
// Bands are evaluated top-down; the first band whose MinScore the final score
// meets wins.
type GradeBand struct {
	MinScore    float64
	Grade       Grade
	Description string
	Color       string
}

// GradeBands is the ordered grade threshold table
var GradeBands = []GradeBand{
	{MinScore: 80, Grade: GradeA, Description: "High Truth", Color: "green"},
	{MinScore: 60, Grade: GradeB, Description: "Needs Verification", Color: "blue"},
	{MinScore: 40, Grade: GradeC, Description: "Read Other Sources", Color: "orange"},
	{MinScore: 0, Grade: GradeD, Description: "Don't Believe", Color: "red"},
}

// GradeNABand is the terminal band for videos with no extractable claims
var GradeNABand = GradeBand{Grade: GradeNA, Description: "No Verifiable Claims", Color: "gray"}

// BandForScore returns the grade band for a final score
func BandForScore(score float64) GradeBand {
	for _, band := range GradeBands {
		if score >= band.MinScore {
			return band
		}
	}
	return GradeBands[len(GradeBands)-1]
}

// Summary tallies verdict labels across the verified claims
type Summary struct {
	Supported     int `json:"supported"`
	Refuted       int `json:"refuted"`
	PartiallyTrue int `json:"partiallyTrue"`
}

// AnalysisResult is the complete outcome of analyzing one video.
// It is produced once per request and never mutated afterwards.
type AnalysisResult struct {
	VideoID          string          `json:"videoId"`
	Grade            Grade           `json:"grade"`
	GradeDescription string          `json:"gradeDescription"`
	GradeColor       string          `json:"gradeColor"`
	Score            float64         `json:"score"`
	TotalClaims      int             `json:"totalFacts"`
	SampledClaims    int             `json:"sampledFacts"`
	Summary          Summary         `json:"summary"`
	VerifiedClaims   []VerifiedClaim `json:"verifiedFacts"`
	ThesisVerdict    *Verdict        `json:"centralThesisVerdict,omitempty"`
	Method           SourceMethod    `json:"method,omitempty"`
}
