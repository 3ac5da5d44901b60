package domain

// TrustFactor is one weighted, independently scored contributor
// to the overall trust score.
type TrustFactor struct {
	Name        string
	Score       float64 // 0-100
	Weight      float64 // 0-1; weights are normalized at combination time
	Description string
}

// ScoreResult is the combined trust score with its contributing factors.
type ScoreResult struct {
	Score   int // 0-100, clamped
	Factors []TrustFactor
}
