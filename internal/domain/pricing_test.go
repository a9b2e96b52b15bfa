package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRentalDays_Inclusive(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", date(2025, 6, 1), date(2025, 6, 1), 1},
		{"two days", date(2025, 6, 1), date(2025, 6, 2), 2},
		{"full week", date(2025, 6, 1), date(2025, 6, 7), 7},
		{"end before start", date(2025, 6, 2), date(2025, 6, 1), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RentalDays(tc.start, tc.end); got != tc.want {
				t.Errorf("RentalDays(%v, %v) = %d, want %d", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestTieredSubtotal(t *testing.T) {
	const (
		daily   = 3000  // $30/day
		weekly  = 18000 // $180/wk
		monthly = 60000 // $600/mo
	)
	cases := []struct {
		name string
		days int
		want int64
	}{
		{"zero days", 0, 0},
		{"single day", 1, daily},
		{"six days stay daily", 6, 6 * daily},
		{"exactly one week", 7, weekly},
		{"week plus remainder", 10, weekly + 3*daily},
		{"two weeks", 14, 2 * weekly},
		{"exactly one month", 30, monthly},
		{"month plus week plus days", 40, monthly + weekly + 3*daily},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TieredSubtotal(tc.days, daily, weekly, monthly); got != tc.want {
				t.Errorf("TieredSubtotal(%d) = %d, want %d", tc.days, got, tc.want)
			}
		})
	}
}

func TestTieredSubtotal_MissingTiersFallThrough(t *testing.T) {
	// No weekly or monthly rate offered: everything bills daily.
	if got := TieredSubtotal(35, 3000, 0, 0); got != 35*3000 {
		t.Errorf("daily-only subtotal = %d, want %d", got, 35*3000)
	}
	// Weekly offered but no monthly: a 30-day stay bills 4 weeks + 2 days.
	want := int64(4*18000 + 2*3000)
	if got := TieredSubtotal(30, 3000, 18000, 0); got != want {
		t.Errorf("no-monthly subtotal = %d, want %d", got, want)
	}
}

func TestPriceBooking_Breakdown(t *testing.T) {
	// $30/day for 2 days: subtotal 6000, 15% fee 900, total 6900.
	q := PriceBooking(date(2025, 6, 1), date(2025, 6, 2), 3000, 0, 0, 0)
	if q.Days != 2 {
		t.Fatalf("days = %d, want 2", q.Days)
	}
	if q.Subtotal != 6000 {
		t.Errorf("subtotal = %d, want 6000", q.Subtotal)
	}
	if q.ServiceFee != 900 {
		t.Errorf("service fee = %d, want 900", q.ServiceFee)
	}
	if q.Total != 6900 {
		t.Errorf("total = %d, want 6900", q.Total)
	}
	// 20% commission leaves the owner 80% of subtotal.
	if q.Commission != 1200 {
		t.Errorf("commission = %d, want 1200", q.Commission)
	}
	if q.OwnerPayout != 4800 {
		t.Errorf("owner payout = %d, want 4800", q.OwnerPayout)
	}
	if q.OwnerPayout+q.Commission != q.Subtotal {
		t.Errorf("payout %d + commission %d != subtotal %d", q.OwnerPayout, q.Commission, q.Subtotal)
	}
}

func TestPriceBooking_DepositInTotalNotSubtotal(t *testing.T) {
	q := PriceBooking(date(2025, 6, 1), date(2025, 6, 2), 3000, 0, 0, 5000)
	if q.Deposit != 5000 {
		t.Errorf("deposit = %d, want 5000", q.Deposit)
	}
	if q.Total != 6900+5000 {
		t.Errorf("total = %d, want %d", q.Total, 6900+5000)
	}
	// Fees and commission are computed on the subtotal only.
	if q.ServiceFee != 900 || q.Commission != 1200 {
		t.Errorf("fee/commission = %d/%d, want 900/1200", q.ServiceFee, q.Commission)
	}
}
