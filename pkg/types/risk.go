package types

type RiskLevel string

const (
	RiskLow    = RiskLevel("LOW")
	RiskMedium = RiskLevel("MEDIUM")
	RiskHigh   = RiskLevel("HIGH")
)
