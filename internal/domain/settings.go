package domain

// EconomySettings is the durable snapshot of the coin-economy constants,
// persisted once at startup so operators can inspect the rates the process
// is running with.
type EconomySettings struct {
	VisitsPerCoin       int     `json:"visits_per_coin"`
	RupeePerCoin        float64 `json:"rupee_per_coin"`
	SignupBonus         int     `json:"signup_bonus"`
	PollIntervalSeconds int     `json:"poll_interval_seconds"`
}
