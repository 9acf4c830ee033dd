package waterfall_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/landrise/Fund-Distribution-Backend/internal/model"
	"github.com/landrise/Fund-Distribution-Backend/internal/waterfall"
)

const tolerance = 1e-6

func floatPtr(v float64) *float64 { return &v }

func datePtr(t time.Time) *time.Time { return &t }

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

// standardTiers returns the common three-tier setup: return of capital,
// 8% preferred return, then an 80/20 LP/GP profit split.
func standardTiers() []waterfall.Tier {
	return []waterfall.Tier{
		{Order: 1, Name: model.TierReturnOfCapital},
		{Order: 2, Name: model.TierPreferredReturn, PrefRate: floatPtr(0.08)},
		{Order: 3, Name: model.TierProfitSplit, GPSplitPct: floatPtr(0.2), LPSplitPct: floatPtr(0.8)},
	}
}

// TestCalculate_FullWaterfallScenario verifies the reference scenario:
// two investors, full return of capital, full preferred return, and an
// 80/20 profit split of the remainder.
//
// WHY: this is the canonical end-to-end example the whole engine is built
// around; a regression here means the tier pipeline itself is broken.
func TestCalculate_FullWaterfallScenario(t *testing.T) {
	distDate := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	contribDate := distDate.AddDate(0, 0, -365)

	in := waterfall.Input{
		DistributionDate:   distDate,
		TotalDistributable: 1_200_000,
		Investors: []waterfall.InvestorPosition{
			{ID: "a", Name: "Investor A", IsGP: false, CalledAmount: 800_000, ContributionDate: datePtr(contribDate)},
			{ID: "b", Name: "Investor B", IsGP: true, CalledAmount: 200_000, ContributionDate: datePtr(contribDate)},
		},
		Tiers: standardTiers(),
	}

	out, err := waterfall.Calculate(in)
	if err != nil {
		t.Fatalf("Calculate() returned unexpected error: %v", err)
	}

	a := out.AllocationFor("a")
	b := out.AllocationFor("b")
	if a == nil || b == nil {
		t.Fatal("Expected allocations for both investors")
	}

	cases := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"A return of capital", a.ReturnOfCapital, 800_000},
		{"B return of capital", b.ReturnOfCapital, 200_000},
		{"A preferred return", a.PreferredReturn, 64_000},
		{"B preferred return", b.PreferredReturn, 16_000},
		{"A profit split", a.ProfitSplit, 96_000},
		{"B profit split", b.ProfitSplit, 24_000},
		{"A total", a.Total, 960_000},
		{"B total", b.Total, 240_000},
		{"total distributed", out.TotalDistributed, 1_200_000},
		{"remaining undistributed", out.RemainingUndistributed, 0},
	}

	for _, tc := range cases {
		if !approxEqual(tc.got, tc.expected) {
			t.Errorf("%s: expected %.2f, got %.2f", tc.name, tc.expected, tc.got)
		}
	}

	if !approxEqual(out.TierTotals[model.TierReturnOfCapital], 1_000_000) {
		t.Errorf("Expected return_of_capital tier total 1000000, got %.2f", out.TierTotals[model.TierReturnOfCapital])
	}
	if !approxEqual(out.TierTotals[model.TierProfitSplit], 120_000) {
		t.Errorf("Expected profit_split tier total 120000, got %.2f", out.TierTotals[model.TierProfitSplit])
	}
}

// TestCalculate_Conservation checks that allocation never exceeds the pool
// and that distributed plus undistributed always equals the input amount.
func TestCalculate_Conservation(t *testing.T) {
	distDate := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	contribDate := distDate.AddDate(-2, 0, 0)

	pools := []float64{0, 1, 50_000, 999_999.99, 1_200_000, 10_000_000}

	// Split percentages summing to exactly 1 and above 1; the latter would
	// overshoot the pool without scaling.
	splits := [][2]float64{{0.2, 0.8}, {0.8, 0.8}}

	for _, split := range splits {
		for _, pool := range pools {
			in := waterfall.Input{
				DistributionDate:   distDate,
				TotalDistributable: pool,
				Investors: []waterfall.InvestorPosition{
					{ID: "a", CalledAmount: 800_000, ContributionDate: datePtr(contribDate)},
					{ID: "b", IsGP: true, CalledAmount: 200_000, ContributionDate: datePtr(contribDate)},
					{ID: "c", CalledAmount: 0},
				},
				Tiers: []waterfall.Tier{
					{Order: 1, Name: model.TierReturnOfCapital},
					{Order: 2, Name: model.TierPreferredReturn, PrefRate: floatPtr(0.08)},
					{Order: 3, Name: model.TierCatchUp, CatchUpPct: floatPtr(0.2)},
					{Order: 4, Name: model.TierProfitSplit, GPSplitPct: floatPtr(split[0]), LPSplitPct: floatPtr(split[1])},
				},
			}

			out, err := waterfall.Calculate(in)
			if err != nil {
				t.Fatalf("Calculate(pool=%.2f) returned unexpected error: %v", pool, err)
			}

			if out.TotalDistributed > pool+tolerance {
				t.Errorf("split=%v pool=%.2f: distributed %.6f exceeds pool", split, pool, out.TotalDistributed)
			}
			if !approxEqual(out.TotalDistributed+out.RemainingUndistributed, pool) {
				t.Errorf("split=%v pool=%.2f: distributed %.6f + remaining %.6f != pool",
					split, pool, out.TotalDistributed, out.RemainingUndistributed)
			}

			var sum float64
			for _, a := range out.Investors {
				for _, amount := range []float64{a.ReturnOfCapital, a.PreferredReturn, a.CatchUp, a.ProfitSplit} {
					if amount < 0 {
						t.Errorf("split=%v pool=%.2f: investor %s has negative amount %.6f", split, pool, a.InvestorID, amount)
					}
				}
				sum += a.Total
			}
			if !approxEqual(sum, out.TotalDistributed) {
				t.Errorf("split=%v pool=%.2f: per-investor totals %.6f != TotalDistributed %.6f", split, pool, sum, out.TotalDistributed)
			}
		}
	}
}

// TestCalculate_InvestorOrderIndependence verifies that reordering the
// investor list never changes any investor's computed amounts.
func TestCalculate_InvestorOrderIndependence(t *testing.T) {
	distDate := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	contribDate := distDate.AddDate(0, 0, -365)

	investors := []waterfall.InvestorPosition{
		{ID: "a", CalledAmount: 800_000, ContributionDate: datePtr(contribDate)},
		{ID: "b", IsGP: true, CalledAmount: 200_000, ContributionDate: datePtr(contribDate)},
		{ID: "c", CalledAmount: 500_000, ContributionDate: datePtr(contribDate.AddDate(0, 0, 180))},
	}
	reversed := []waterfall.InvestorPosition{investors[2], investors[1], investors[0]}

	run := func(invs []waterfall.InvestorPosition) *waterfall.Output {
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 900_000,
			Investors:          invs,
			Tiers:              standardTiers(),
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}
		return out
	}

	first := run(investors)
	second := run(reversed)

	for _, id := range []string{"a", "b", "c"} {
		f := first.AllocationFor(id)
		s := second.AllocationFor(id)
		if f == nil || s == nil {
			t.Fatalf("Missing allocation for investor %s", id)
		}
		if !approxEqual(f.Total, s.Total) ||
			!approxEqual(f.ReturnOfCapital, s.ReturnOfCapital) ||
			!approxEqual(f.PreferredReturn, s.PreferredReturn) ||
			!approxEqual(f.ProfitSplit, s.ProfitSplit) {
			t.Errorf("Investor %s allocations changed with list order: %+v vs %+v", id, f, s)
		}
	}
}

// TestCalculate_ZeroPool verifies the zero-distribution edge case: all-zero
// outputs, no division by zero, no error.
func TestCalculate_ZeroPool(t *testing.T) {
	out, err := waterfall.Calculate(waterfall.Input{
		DistributionDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		TotalDistributable: 0,
		Investors: []waterfall.InvestorPosition{
			{ID: "a", CalledAmount: 100_000},
			{ID: "b", IsGP: true, CalledAmount: 0},
		},
		Tiers: standardTiers(),
	})
	if err != nil {
		t.Fatalf("Calculate() returned unexpected error: %v", err)
	}

	if out.TotalDistributed != 0 || out.RemainingUndistributed != 0 {
		t.Errorf("Expected all-zero totals, got distributed=%.6f remaining=%.6f",
			out.TotalDistributed, out.RemainingUndistributed)
	}
	for _, a := range out.Investors {
		if a.Total != 0 {
			t.Errorf("Investor %s: expected zero total, got %.6f", a.InvestorID, a.Total)
		}
	}
}

// TestCalculate_ReturnOfCapital covers full coverage, pro-rata shortfall,
// and prior-distribution offsets for the first tier.
func TestCalculate_ReturnOfCapital(t *testing.T) {
	distDate := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	rocOnly := []waterfall.Tier{{Order: 1, Name: model.TierReturnOfCapital}}

	t.Run("pays full entitlement when pool is sufficient", func(t *testing.T) {
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 500_000,
			Investors: []waterfall.InvestorPosition{
				{ID: "a", CalledAmount: 300_000},
				{ID: "b", CalledAmount: 100_000},
			},
			Tiers: rocOnly,
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if !approxEqual(out.AllocationFor("a").ReturnOfCapital, 300_000) {
			t.Errorf("Expected A to receive full 300000, got %.2f", out.AllocationFor("a").ReturnOfCapital)
		}
		if !approxEqual(out.AllocationFor("b").ReturnOfCapital, 100_000) {
			t.Errorf("Expected B to receive full 100000, got %.2f", out.AllocationFor("b").ReturnOfCapital)
		}
		if !approxEqual(out.RemainingUndistributed, 100_000) {
			t.Errorf("Expected 100000 undistributed, got %.2f", out.RemainingUndistributed)
		}
	})

	t.Run("prorates when pool is insufficient", func(t *testing.T) {
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 200_000,
			Investors: []waterfall.InvestorPosition{
				{ID: "a", CalledAmount: 300_000},
				{ID: "b", CalledAmount: 100_000},
			},
			Tiers: rocOnly,
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		// 200k pool against 400k of entitlements: everyone gets half.
		if !approxEqual(out.AllocationFor("a").ReturnOfCapital, 150_000) {
			t.Errorf("Expected A prorated to 150000, got %.2f", out.AllocationFor("a").ReturnOfCapital)
		}
		if !approxEqual(out.AllocationFor("b").ReturnOfCapital, 50_000) {
			t.Errorf("Expected B prorated to 50000, got %.2f", out.AllocationFor("b").ReturnOfCapital)
		}
		if !approxEqual(out.TierTotals[model.TierReturnOfCapital], 200_000) {
			t.Errorf("Expected tier to consume exactly the pool, got %.2f", out.TierTotals[model.TierReturnOfCapital])
		}
	})

	t.Run("nets out capital already returned in prior rounds", func(t *testing.T) {
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 500_000,
			Investors: []waterfall.InvestorPosition{
				{ID: "a", CalledAmount: 300_000, Prior: waterfall.PriorTotals{ReturnOfCapital: 250_000}},
				{ID: "b", CalledAmount: 100_000, Prior: waterfall.PriorTotals{ReturnOfCapital: 100_000}},
			},
			Tiers: rocOnly,
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if !approxEqual(out.AllocationFor("a").ReturnOfCapital, 50_000) {
			t.Errorf("Expected A remaining entitlement 50000, got %.2f", out.AllocationFor("a").ReturnOfCapital)
		}
		if out.AllocationFor("b").ReturnOfCapital != 0 {
			t.Errorf("Expected B fully returned already, got %.2f", out.AllocationFor("b").ReturnOfCapital)
		}
	})
}

// TestCalculate_PreferredReturn covers accrual-based entitlements, the
// missing-contribution-date fallback, and the unset-rate case.
func TestCalculate_PreferredReturn(t *testing.T) {
	distDate := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("accrues simple interest over the holding period", func(t *testing.T) {
		halfYear := distDate.AddDate(0, 0, -182)
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 100_000,
			Investors: []waterfall.InvestorPosition{
				{ID: "a", CalledAmount: 500_000, ContributionDate: datePtr(halfYear)},
			},
			Tiers: []waterfall.Tier{{Order: 1, Name: model.TierPreferredReturn, PrefRate: floatPtr(0.10)}},
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		expected := 500_000 * 0.10 * 182.0 / 365.0
		if !approxEqual(out.AllocationFor("a").PreferredReturn, expected) {
			t.Errorf("Expected accrued pref %.6f, got %.6f", expected, out.AllocationFor("a").PreferredReturn)
		}
	})

	t.Run("missing contribution date accrues nothing", func(t *testing.T) {
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 100_000,
			Investors: []waterfall.InvestorPosition{
				{ID: "a", CalledAmount: 500_000},
			},
			Tiers: []waterfall.Tier{{Order: 1, Name: model.TierPreferredReturn, PrefRate: floatPtr(0.10)}},
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if out.AllocationFor("a").PreferredReturn != 0 {
			t.Errorf("Expected zero accrual without contribution date, got %.6f", out.AllocationFor("a").PreferredReturn)
		}
	})

	t.Run("unset rate allocates nothing", func(t *testing.T) {
		contribDate := distDate.AddDate(-1, 0, 0)
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 100_000,
			Investors: []waterfall.InvestorPosition{
				{ID: "a", CalledAmount: 500_000, ContributionDate: datePtr(contribDate)},
			},
			Tiers: []waterfall.Tier{{Order: 1, Name: model.TierPreferredReturn}},
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if out.TotalDistributed != 0 {
			t.Errorf("Expected nothing distributed without a rate, got %.6f", out.TotalDistributed)
		}
	})

	t.Run("prior preferred payments reduce the entitlement", func(t *testing.T) {
		contribDate := distDate.AddDate(0, 0, -365)
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 100_000,
			Investors: []waterfall.InvestorPosition{
				{
					ID: "a", CalledAmount: 500_000, ContributionDate: datePtr(contribDate),
					Prior: waterfall.PriorTotals{PreferredReturn: 30_000},
				},
			},
			Tiers: []waterfall.Tier{{Order: 1, Name: model.TierPreferredReturn, PrefRate: floatPtr(0.08)}},
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		// 500k * 8% * 1yr = 40k accrued, minus 30k already paid.
		if !approxEqual(out.AllocationFor("a").PreferredReturn, 10_000) {
			t.Errorf("Expected remaining pref 10000, got %.2f", out.AllocationFor("a").PreferredReturn)
		}
	})
}

// TestCalculate_CatchUp verifies the GP-only catch-up tier.
func TestCalculate_CatchUp(t *testing.T) {
	distDate := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("LP never receives catch-up", func(t *testing.T) {
		contribDate := distDate.AddDate(0, 0, -365)
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 1_000_000,
			Investors: []waterfall.InvestorPosition{
				{ID: "lp", CalledAmount: 800_000, ContributionDate: datePtr(contribDate)},
				{ID: "gp", IsGP: true, CalledAmount: 200_000, ContributionDate: datePtr(contribDate)},
			},
			Tiers: []waterfall.Tier{
				{Order: 1, Name: model.TierPreferredReturn, PrefRate: floatPtr(0.08)},
				{Order: 2, Name: model.TierCatchUp, CatchUpPct: floatPtr(0.5)},
			},
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if out.AllocationFor("lp").CatchUp != 0 {
			t.Errorf("Expected zero catch-up for LP, got %.6f", out.AllocationFor("lp").CatchUp)
		}
		if out.AllocationFor("gp").CatchUp <= 0 {
			t.Errorf("Expected positive catch-up for GP, got %.6f", out.AllocationFor("gp").CatchUp)
		}
	})

	t.Run("brings GP up to the configured share of profit to date", func(t *testing.T) {
		// Prior rounds paid 80k of LP profit and nothing to the GP.
		// At 20%, the GP group target is 0.2 * (80k + catch-up received),
		// i.e. the entitlement x solves x = 0.2*(80000 + x) -> 20000 with
		// the direct (non-iterative) reading: 0.2*80000 - 0 = 16000.
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 100_000,
			Investors: []waterfall.InvestorPosition{
				{ID: "lp", CalledAmount: 800_000, Prior: waterfall.PriorTotals{ProfitSplit: 80_000}},
				{ID: "gp", IsGP: true, CalledAmount: 200_000},
			},
			Tiers: []waterfall.Tier{{Order: 1, Name: model.TierCatchUp, CatchUpPct: floatPtr(0.2)}},
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if !approxEqual(out.AllocationFor("gp").CatchUp, 16_000) {
			t.Errorf("Expected GP catch-up 16000, got %.2f", out.AllocationFor("gp").CatchUp)
		}
	})

	t.Run("unset percentage allocates nothing", func(t *testing.T) {
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 100_000,
			Investors: []waterfall.InvestorPosition{
				{ID: "gp", IsGP: true, CalledAmount: 200_000, Prior: waterfall.PriorTotals{ProfitSplit: 10_000}},
			},
			Tiers: []waterfall.Tier{{Order: 1, Name: model.TierCatchUp}},
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if out.TotalDistributed != 0 {
			t.Errorf("Expected nothing distributed without catch-up pct, got %.6f", out.TotalDistributed)
		}
	})

	t.Run("is limited by the remaining pool", func(t *testing.T) {
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 5_000,
			Investors: []waterfall.InvestorPosition{
				{ID: "lp", CalledAmount: 800_000, Prior: waterfall.PriorTotals{ProfitSplit: 500_000}},
				{ID: "gp", IsGP: true, CalledAmount: 200_000},
			},
			Tiers: []waterfall.Tier{{Order: 1, Name: model.TierCatchUp, CatchUpPct: floatPtr(0.5)}},
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if !approxEqual(out.AllocationFor("gp").CatchUp, 5_000) {
			t.Errorf("Expected catch-up capped at pool 5000, got %.2f", out.AllocationFor("gp").CatchUp)
		}
	})
}

// TestCalculate_ProfitSplit exercises group splits, percentages that do not
// sum to 1, and groups with no members.
func TestCalculate_ProfitSplit(t *testing.T) {
	distDate := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("unallocated fraction stays undistributed", func(t *testing.T) {
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 100_000,
			Investors: []waterfall.InvestorPosition{
				{ID: "lp", CalledAmount: 500_000},
				{ID: "gp", IsGP: true, CalledAmount: 100_000},
			},
			Tiers: []waterfall.Tier{
				{Order: 1, Name: model.TierProfitSplit, GPSplitPct: floatPtr(0.1), LPSplitPct: floatPtr(0.6)},
			},
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if !approxEqual(out.TotalDistributed, 70_000) {
			t.Errorf("Expected 70000 distributed at 10+60 pct, got %.2f", out.TotalDistributed)
		}
		if !approxEqual(out.RemainingUndistributed, 30_000) {
			t.Errorf("Expected 30000 undistributed, got %.2f", out.RemainingUndistributed)
		}
	})

	t.Run("percentages summing above 1 are scaled back to the pool", func(t *testing.T) {
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 100_000,
			Investors: []waterfall.InvestorPosition{
				{ID: "lp", CalledAmount: 500_000},
				{ID: "gp", IsGP: true, CalledAmount: 100_000},
			},
			Tiers: []waterfall.Tier{
				{Order: 1, Name: model.TierProfitSplit, GPSplitPct: floatPtr(0.8), LPSplitPct: floatPtr(0.8)},
			},
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		// 0.8/0.8 is legal input (each in [0,1]) but would pay out 160% of
		// the pool unscaled; both slices shrink to 0.5/0.5 instead.
		if out.TotalDistributed > 100_000+tolerance {
			t.Errorf("Distributed %.2f exceeds the 100000 pool", out.TotalDistributed)
		}
		if !approxEqual(out.TotalDistributed, 100_000) {
			t.Errorf("Expected the full pool distributed, got %.2f", out.TotalDistributed)
		}
		if !approxEqual(out.AllocationFor("lp").ProfitSplit, 50_000) {
			t.Errorf("Expected LP half-pool 50000, got %.2f", out.AllocationFor("lp").ProfitSplit)
		}
		if !approxEqual(out.AllocationFor("gp").ProfitSplit, 50_000) {
			t.Errorf("Expected GP half-pool 50000, got %.2f", out.AllocationFor("gp").ProfitSplit)
		}
		if !approxEqual(out.RemainingUndistributed, 0) {
			t.Errorf("Expected no remainder, got %.2f", out.RemainingUndistributed)
		}
	})

	t.Run("empty group forfeits its share", func(t *testing.T) {
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 100_000,
			Investors: []waterfall.InvestorPosition{
				{ID: "lp1", CalledAmount: 300_000},
				{ID: "lp2", CalledAmount: 100_000},
			},
			Tiers: []waterfall.Tier{
				{Order: 1, Name: model.TierProfitSplit, GPSplitPct: floatPtr(0.2), LPSplitPct: floatPtr(0.8)},
			},
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		// No GP exists: the 20% GP slice is not redirected to the LPs.
		if !approxEqual(out.TotalDistributed, 80_000) {
			t.Errorf("Expected only LP share 80000 distributed, got %.2f", out.TotalDistributed)
		}
		if !approxEqual(out.AllocationFor("lp1").ProfitSplit, 60_000) {
			t.Errorf("Expected lp1 called-share 60000, got %.2f", out.AllocationFor("lp1").ProfitSplit)
		}
		if !approxEqual(out.AllocationFor("lp2").ProfitSplit, 20_000) {
			t.Errorf("Expected lp2 called-share 20000, got %.2f", out.AllocationFor("lp2").ProfitSplit)
		}
	})

	t.Run("zero-capital investor stays in output with zero amounts", func(t *testing.T) {
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 100_000,
			Investors: []waterfall.InvestorPosition{
				{ID: "lp1", CalledAmount: 400_000},
				{ID: "lp2", CalledAmount: 0},
			},
			Tiers: []waterfall.Tier{
				{Order: 1, Name: model.TierProfitSplit, LPSplitPct: floatPtr(1.0)},
			},
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if len(out.Investors) != 2 {
			t.Fatalf("Expected 2 investors in output, got %d", len(out.Investors))
		}
		if out.AllocationFor("lp2").Total != 0 {
			t.Errorf("Expected zero-capital investor to receive 0, got %.6f", out.AllocationFor("lp2").Total)
		}
		if !approxEqual(out.AllocationFor("lp1").ProfitSplit, 100_000) {
			t.Errorf("Expected lp1 full pool 100000, got %.2f", out.AllocationFor("lp1").ProfitSplit)
		}
	})
}

// TestCalculate_Failures verifies the typed failure modes and the
// skip-unknown-tier forward-compatibility rule.
func TestCalculate_Failures(t *testing.T) {
	distDate := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("negative distributable is rejected", func(t *testing.T) {
		_, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: -1,
			Investors:          []waterfall.InvestorPosition{{ID: "a", CalledAmount: 100}},
			Tiers:              standardTiers(),
		})
		if !errors.Is(err, waterfall.ErrNegativeDistributable) {
			t.Errorf("Expected ErrNegativeDistributable, got %v", err)
		}
	})

	t.Run("percentage outside unit interval is rejected", func(t *testing.T) {
		_, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 100,
			Investors:          []waterfall.InvestorPosition{{ID: "a", CalledAmount: 100}},
			Tiers: []waterfall.Tier{
				{Order: 1, Name: model.TierProfitSplit, GPSplitPct: floatPtr(1.2)},
			},
		})
		if !errors.Is(err, waterfall.ErrInvalidTierPercentage) {
			t.Errorf("Expected ErrInvalidTierPercentage, got %v", err)
		}
	})

	t.Run("unknown tier names are skipped without error", func(t *testing.T) {
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 100_000,
			Investors:          []waterfall.InvestorPosition{{ID: "a", CalledAmount: 50_000}},
			Tiers: []waterfall.Tier{
				{Order: 1, Name: model.TierName("carried_interest")},
				{Order: 2, Name: model.TierReturnOfCapital},
			},
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		if !approxEqual(out.AllocationFor("a").ReturnOfCapital, 50_000) {
			t.Errorf("Expected known tier to still allocate 50000, got %.2f", out.AllocationFor("a").ReturnOfCapital)
		}
	})

	t.Run("duplicate tier orders are processed in list position order", func(t *testing.T) {
		out, err := waterfall.Calculate(waterfall.Input{
			DistributionDate:   distDate,
			TotalDistributable: 60_000,
			Investors:          []waterfall.InvestorPosition{{ID: "a", CalledAmount: 50_000}},
			Tiers: []waterfall.Tier{
				{Order: 1, Name: model.TierReturnOfCapital},
				{Order: 1, Name: model.TierProfitSplit, LPSplitPct: floatPtr(1.0)},
			},
		})
		if err != nil {
			t.Fatalf("Calculate() returned unexpected error: %v", err)
		}

		a := out.AllocationFor("a")
		if !approxEqual(a.ReturnOfCapital, 50_000) || !approxEqual(a.ProfitSplit, 10_000) {
			t.Errorf("Expected 50000 capital then 10000 profit, got %.2f / %.2f", a.ReturnOfCapital, a.ProfitSplit)
		}
	})
}
