package domain

import "time"

// Quote is the pricing breakdown snapshotted onto a booking at creation.
// All amounts are in cents.
type Quote struct {
	Days        int   `json:"days"`
	Subtotal    int64 `json:"subtotal_cents"`
	ServiceFee  int64 `json:"service_fee_cents"`
	Commission  int64 `json:"commission_cents"`
	OwnerPayout int64 `json:"owner_payout_cents"`
	Deposit     int64 `json:"deposit_cents"`
	Total       int64 `json:"total_cents"`
}

// RentalDays counts days in the range, inclusive of both endpoints.
func RentalDays(start, end time.Time) int {
	s := start.Truncate(24 * time.Hour)
	e := end.Truncate(24 * time.Hour)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// TieredSubtotal picks the cheapest applicable rate tier: monthly blocks for
// stays of 30+ days, weekly blocks for 7+, daily otherwise. Remainder days
// after a block fall through to the next tier down. A zero weekly or monthly
// rate means the listing does not offer that tier.
func TieredSubtotal(days int, dailyRate, weeklyRate, monthlyRate int64) int64 {
	if days <= 0 {
		return 0
	}
	var subtotal int64
	if monthlyRate > 0 && days >= MonthlyTierDays {
		months := days / MonthlyTierDays
		subtotal += int64(months) * monthlyRate
		days -= months * MonthlyTierDays
	}
	if weeklyRate > 0 && days >= WeeklyTierDays {
		weeks := days / WeeklyTierDays
		subtotal += int64(weeks) * weeklyRate
		days -= weeks * WeeklyTierDays
	}
	subtotal += int64(days) * dailyRate
	return subtotal
}

// PriceBooking computes the full breakdown for a rental window.
func PriceBooking(start, end time.Time, dailyRate, weeklyRate, monthlyRate, deposit int64) Quote {
	days := RentalDays(start, end)
	subtotal := TieredSubtotal(days, dailyRate, weeklyRate, monthlyRate)
	fee := subtotal * ServiceFeeBps / 10000
	commission := subtotal * CommissionBps / 10000
	return Quote{
		Days:        days,
		Subtotal:    subtotal,
		ServiceFee:  fee,
		Commission:  commission,
		OwnerPayout: subtotal - commission,
		Deposit:     deposit,
		Total:       subtotal + fee + deposit,
	}
}
