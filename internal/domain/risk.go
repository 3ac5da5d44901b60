package domain

// RiskType identifies the category of a security finding.
type RiskType string

const (
	RiskMaliciousProgram RiskType = "MALICIOUS_PROGRAM"
	RiskDrainer          RiskType = "DRAINER"
	RiskMintAuthority    RiskType = "MINT_AUTHORITY"
	RiskFreezeAuthority  RiskType = "FREEZE_AUTHORITY"
	RiskFakeToken        RiskType = "FAKE_TOKEN"
)

// Severity ranks findings from LOW to CRITICAL.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// severityOrder maps severities to a comparable rank.
var severityOrder = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// AtLeast reports whether s ranks at or above other.
func (s Severity) AtLeast(other Severity) bool {
	return severityOrder[s] >= severityOrder[other]
}

// RiskFinding is one typed, severity-ranked security finding.
type RiskFinding struct {
	Type           RiskType
	Severity       Severity
	Description    string
	Recommendation string // optional
}
