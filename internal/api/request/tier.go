package request

// TierRequest is one tier in a fund's waterfall configuration.
type TierRequest struct {
	TierOrder  int      `json:"tierOrder"`
	TierName   string   `json:"tierName"`
	PrefRate   *float64 `json:"prefRate,omitempty"`
	CatchUpPct *float64 `json:"catchUpPct,omitempty"`
	GPSplitPct *float64 `json:"gpSplitPct,omitempty"`
	LPSplitPct *float64 `json:"lpSplitPct,omitempty"`
}

// ReplaceTiersRequest replaces a fund's entire waterfall configuration.
type ReplaceTiersRequest struct {
	Tiers []TierRequest `json:"tiers"`
}
