package types

import "time"

// BillingPeriod is the recurrence unit of a pass collection. A renewal
// always extends a membership by exactly one period.
type BillingPeriod string

const (
	BillingPeriodDaily   BillingPeriod = "daily"
	BillingPeriodWeekly  BillingPeriod = "weekly"
	BillingPeriodMonthly BillingPeriod = "monthly"
	BillingPeriodYearly  BillingPeriod = "yearly"
)

// Validate checks that the period is one of the supported units.
func (p BillingPeriod) Validate() bool {
	switch p {
	case BillingPeriodDaily, BillingPeriodWeekly, BillingPeriodMonthly, BillingPeriodYearly:
		return true
	}
	return false
}

// Add returns t advanced by one billing period. Calendar-aware for monthly
// and yearly periods (a Jan 31 monthly renewal lands on the normalized
// calendar date the standard library produces).
func (p BillingPeriod) Add(t time.Time) time.Time {
	switch p {
	case BillingPeriodDaily:
		return t.AddDate(0, 0, 1)
	case BillingPeriodWeekly:
		return t.AddDate(0, 0, 7)
	case BillingPeriodYearly:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}
