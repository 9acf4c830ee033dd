package waterfall

import "time"

// daysPerYear is the day-count convention for simple annualized accrual.
const daysPerYear = 365.0

// DayCount returns the number of whole calendar days from one date to
// another, never negative. Times are truncated to their UTC calendar date
// so time-of-day noise cannot shift the count.
func DayCount(from, to time.Time) int {
	fromDate := truncateToDate(from)
	toDate := truncateToDate(to)

	days := int(toDate.Sub(fromDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// AccruedPreferred returns the simple (non-compounding) annualized preferred
// return accrued on called capital between the contribution date and the
// given as-of date: called * rate * days/365.
func AccruedPreferred(calledAmount, annualRate float64, contributionDate, asOf time.Time) float64 {
	if calledAmount <= 0 || annualRate <= 0 {
		return 0
	}
	return calledAmount * annualRate * float64(DayCount(contributionDate, asOf)) / daysPerYear
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
