package model

// VerdictLabel is the outcome assigned to a claim after evidence review
type VerdictLabel string

const (
	VerdictSupported     VerdictLabel = "supported"
	VerdictRefuted       VerdictLabel = "refuted"
	VerdictPartiallyTrue VerdictLabel = "partially_true"
	VerdictUnverified    VerdictLabel = "unverified"
	VerdictInconclusive  VerdictLabel = "inconclusive"
	VerdictError         VerdictLabel = "error" // Verification itself failed; claim is kept
)

// Verdict is the result of verifying one claim against its evidence
type Verdict struct {
	Label      VerdictLabel     `json:"verdict"`
	Confidence int              `json:"confidence"` // 0-100
	Reasoning  string           `json:"reasoning,omitempty"`
	Sources    []EvidenceSource `json:"sources,omitempty"` // Most relevant sources, at most 2
}

// VerifiedClaim is a claim annotated with its verification outcome.
// Every extracted claim selected for verification yields exactly one of
// these; failures produce a VerdictError rather than dropping the claim.
type VerifiedClaim struct {
	Claim
	Verification Verdict `json:"verification"`
}
