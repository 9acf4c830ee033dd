package model

// TierName identifies a step in the waterfall priority sequence.
// The set is closed: adding a tier kind means extending the calculator's
// dispatch, so new names are a compile-time decision rather than free text.
type TierName string

const (
	TierReturnOfCapital TierName = "return_of_capital"
	TierPreferredReturn TierName = "preferred_return"
	TierCatchUp         TierName = "catch_up"
	TierProfitSplit     TierName = "profit_split"
)

// Valid reports whether the tier name is one of the known kinds.
func (t TierName) Valid() bool {
	switch t {
	case TierReturnOfCapital, TierPreferredReturn, TierCatchUp, TierProfitSplit:
		return true
	}
	return false
}

// TierNames lists the known tier kinds in conventional waterfall order.
// Used for validation listings and reporting, not for sequencing: processing
// order always comes from WaterfallTier.TierOrder.
var TierNames = []TierName{
	TierReturnOfCapital,
	TierPreferredReturn,
	TierCatchUp,
	TierProfitSplit,
}

// WaterfallTier is one ordered, named step of a fund's distribution
// priority sequence. Parameter fields are pointers: nil means unset, and an
// unset parameter makes the tier allocate nothing rather than erroring.
type WaterfallTier struct {
	ID         string   `json:"id"`
	FundID     string   `json:"fundId"`
	TierOrder  int      `json:"tierOrder"`
	TierName   TierName `json:"tierName"`
	PrefRate   *float64 `json:"prefRate,omitempty"`
	CatchUpPct *float64 `json:"catchUpPct,omitempty"`
	GPSplitPct *float64 `json:"gpSplitPct,omitempty"`
	LPSplitPct *float64 `json:"lpSplitPct,omitempty"`
}
