package entity

// Tier — тип барабана, выбирается по ставке в TON.
type Tier string

const (
	TierLow    Tier = "low"
	TierMid    Tier = "mid"
	TierSecret Tier = "secret"
)
