package domain

// AnalysisResult is the merged output of classification, trust scoring
// and risk evaluation for one subject.
type AnalysisResult struct {
	Subject    string      `json:"subject"`
	Kind       SubjectKind `json:"kind"`
	Confidence float64     `json:"confidence"`
	Note       string      `json:"note,omitempty"`

	TrustScore int           `json:"trustScore"`
	Factors    []TrustFactor `json:"factors"`
	Risks      []RiskFinding `json:"risks"`

	Holders  *HolderDistribution `json:"holders,omitempty"`
	Metadata *TokenMetadata      `json:"metadata,omitempty"`

	// Degraded marks a best-effort result produced after an unexpected
	// failure; the score falls back to neutral.
	Degraded       bool   `json:"degraded,omitempty"`
	DegradedReason string `json:"degradedReason,omitempty"`

	Evidence   *EvidenceBundle `json:"evidence,omitempty"`
	AnalyzedAt int64           `json:"analyzedAt"` // Unix timestamp in milliseconds
}
