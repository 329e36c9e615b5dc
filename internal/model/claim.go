package model

// Claim represents a verifiable factual assertion extracted from a transcript
type Claim struct {
	Text       string   `json:"claim"`
	Category   Category `json:"category"`
	Context    string   `json:"context,omitempty"`  // Surrounding context from the transcript
	Entities   []string `json:"entities,omitempty"` // Key terms to search for verification
	Verifiable bool     `json:"verifiable"`
}

// Category classifies the nature of a claim
type Category string

const (
	CategoryStatistic  Category = "statistic"
	CategoryHistorical Category = "historical"
	CategoryScientific Category = "scientific"
	CategoryQuote      Category = "quote"
	CategoryGeneral    Category = "general"
)

// EvidenceSource is a web search result retained as supporting material
type EvidenceSource struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}
