package waterfall

import (
	"fmt"

	"github.com/landrise/Fund-Distribution-Backend/internal/model"
)

// Calculate runs the waterfall for a single distribution round.
//
// Tiers are processed strictly in the order given, each consuming from a
// shared pool that starts at TotalDistributable. Unknown tier names are
// skipped without error so stale configuration cannot break a calculation.
// The only hard failures are a negative distributable amount and malformed
// tier parameters.
func Calculate(in Input) (*Output, error) {
	if in.TotalDistributable < 0 {
		return nil, fmt.Errorf("%w: %f", ErrNegativeDistributable, in.TotalDistributable)
	}
	if err := validateTiers(in.Tiers); err != nil {
		return nil, err
	}

	allocs := make([]Allocation, len(in.Investors))
	for i, inv := range in.Investors {
		allocs[i] = Allocation{
			InvestorID: inv.ID,
			Name:       inv.Name,
			IsGP:       inv.IsGP,
		}
	}

	tierTotals := make(map[model.TierName]float64)
	pool := in.TotalDistributable

	for _, tier := range in.Tiers {
		var consumed float64

		switch tier.Name {
		case model.TierReturnOfCapital:
			consumed = allocateReturnOfCapital(in.Investors, allocs, pool)
		case model.TierPreferredReturn:
			consumed = allocatePreferredReturn(in, tier, allocs, pool)
		case model.TierCatchUp:
			consumed = allocateCatchUp(in.Investors, tier, allocs, pool)
		case model.TierProfitSplit:
			consumed = allocateProfitSplit(in.Investors, tier, allocs, pool)
		default:
			// Unknown tier names allocate nothing.
			continue
		}

		tierTotals[tier.Name] += consumed
		pool -= consumed
		if pool < 0 {
			pool = 0
		}
	}

	out := &Output{
		Investors:  allocs,
		TierTotals: tierTotals,
	}
	for i := range out.Investors {
		a := &out.Investors[i]
		a.Total = a.ReturnOfCapital + a.PreferredReturn + a.CatchUp + a.ProfitSplit
		out.TotalDistributed += a.Total
	}
	out.RemainingUndistributed = in.TotalDistributable - out.TotalDistributed
	if out.RemainingUndistributed < 0 {
		out.RemainingUndistributed = 0
	}

	return out, nil
}

func validateTiers(tiers []Tier) error {
	for _, tier := range tiers {
		if tier.PrefRate != nil && *tier.PrefRate < 0 {
			return fmt.Errorf("%w: tier %d", ErrNegativePrefRate, tier.Order)
		}
		for _, pct := range []*float64{tier.CatchUpPct, tier.GPSplitPct, tier.LPSplitPct} {
			if pct != nil && (*pct < 0 || *pct > 1) {
				return fmt.Errorf("%w: tier %d has %f", ErrInvalidTierPercentage, tier.Order, *pct)
			}
		}
	}
	return nil
}

// allocateReturnOfCapital pays back each investor's unreturned called
// capital. GP and LP participate alike, each against its own called amount.
func allocateReturnOfCapital(investors []InvestorPosition, allocs []Allocation, pool float64) float64 {
	entitlements := make([]float64, len(investors))
	for i, inv := range investors {
		entitlements[i] = positive(inv.CalledAmount - inv.Prior.ReturnOfCapital)
	}

	amounts, consumed := allocateProRata(pool, entitlements)
	for i := range allocs {
		allocs[i].ReturnOfCapital = amounts[i]
	}
	return consumed
}

// allocatePreferredReturn pays the accrued-but-unpaid preferred return on
// each investor's called capital. An investor with no contribution date
// accrues from the distribution date itself, i.e. nothing this round.
func allocatePreferredReturn(in Input, tier Tier, allocs []Allocation, pool float64) float64 {
	if tier.PrefRate == nil {
		return 0
	}

	entitlements := make([]float64, len(in.Investors))
	for i, inv := range in.Investors {
		contributed := in.DistributionDate
		if inv.ContributionDate != nil {
			contributed = *inv.ContributionDate
		}
		accrued := AccruedPreferred(inv.CalledAmount, *tier.PrefRate, contributed, in.DistributionDate)
		entitlements[i] = positive(accrued - inv.Prior.PreferredReturn)
	}

	amounts, consumed := allocateProRata(pool, entitlements)
	for i := range allocs {
		allocs[i].PreferredReturn = amounts[i]
	}
	return consumed
}

// allocateCatchUp brings the GP group's share of profit distributions to
// date up to the configured percentage. Profit means every tier except
// return of capital, counting prior rounds plus this round so far.
// LP investors never receive catch-up.
func allocateCatchUp(investors []InvestorPosition, tier Tier, allocs []Allocation, pool float64) float64 {
	if tier.CatchUpPct == nil {
		return 0
	}

	var totalProfit, gpProfit float64
	for i, inv := range investors {
		profit := inv.Prior.PreferredReturn + inv.Prior.CatchUp + inv.Prior.ProfitSplit +
			allocs[i].PreferredReturn + allocs[i].CatchUp + allocs[i].ProfitSplit
		totalProfit += profit
		if inv.IsGP {
			gpProfit += profit
		}
	}

	groupEntitlement := positive(*tier.CatchUpPct*totalProfit - gpProfit)
	if groupEntitlement > pool {
		groupEntitlement = pool
	}

	shares := groupShares(investors, true)
	var consumed float64
	for i := range allocs {
		amount := groupEntitlement * shares[i]
		allocs[i].CatchUp += amount
		consumed += amount
	}
	return consumed
}

// allocateProfitSplit splits the remaining pool between the GP and LP
// groups by the configured percentages, then pro-rata within each group.
// Percentages need not sum to 1: a sum below 1 leaves the rest of the pool
// undistributed, a sum above 1 is scaled back so the tier never pays out
// more than the pool, and a group with no members (or no capital) simply
// forfeits its slice rather than redirecting it.
func allocateProfitSplit(investors []InvestorPosition, tier Tier, allocs []Allocation, pool float64) float64 {
	gpPct, lpPct := 0.0, 0.0
	if tier.GPSplitPct != nil {
		gpPct = *tier.GPSplitPct
	}
	if tier.LPSplitPct != nil {
		lpPct = *tier.LPSplitPct
	}
	if sum := gpPct + lpPct; sum > 1 {
		gpPct /= sum
		lpPct /= sum
	}

	gpShares := groupShares(investors, true)
	lpShares := groupShares(investors, false)

	var consumed float64
	for i := range allocs {
		amount := pool*gpPct*gpShares[i] + pool*lpPct*lpShares[i]
		allocs[i].ProfitSplit += amount
		consumed += amount
	}
	return consumed
}

// groupShares returns each investor's relative share within the GP or LP
// group, zero for members of the other group. Proration is by relative
// called-capital share, a stand-in for true ownership percentages; the
// strategy lives here alone so it can be swapped without touching the tier
// pipeline. A group with zero total called capital yields all-zero shares.
func groupShares(investors []InvestorPosition, gp bool) []float64 {
	shares := make([]float64, len(investors))

	var totalCalled float64
	for _, inv := range investors {
		if inv.IsGP == gp {
			totalCalled += inv.CalledAmount
		}
	}
	if totalCalled <= 0 {
		return shares
	}

	for i, inv := range investors {
		if inv.IsGP == gp {
			shares[i] = inv.CalledAmount / totalCalled
		}
	}
	return shares
}

// allocateProRata pays each entitlement in full when the pool covers the
// sum, otherwise scales every entitlement by pool/sum. Returns the
// per-entitlement amounts and the total consumed, which never exceeds pool.
func allocateProRata(pool float64, entitlements []float64) ([]float64, float64) {
	amounts := make([]float64, len(entitlements))

	var sum float64
	for _, e := range entitlements {
		sum += e
	}
	if sum <= 0 || pool <= 0 {
		return amounts, 0
	}

	scale := 1.0
	if sum > pool {
		scale = pool / sum
	}

	var consumed float64
	for i, e := range entitlements {
		amounts[i] = e * scale
		consumed += amounts[i]
	}
	return amounts, consumed
}

func positive(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
