package models

import (
	"testing"
	"time"
)

func TestReview_EditWindow(t *testing.T) {
	created := time.Now()
	r := &Review{CreatedAt: created}

	if !r.Editable(created.Add(23 * time.Hour)) {
		t.Errorf("review should be editable inside 24h")
	}
	if r.Editable(created.Add(25 * time.Hour)) {
		t.Errorf("review should not be editable after 24h")
	}
}

func TestReview_DeleteWindow(t *testing.T) {
	created := time.Now()
	r := &Review{CreatedAt: created}

	if !r.Deletable(created.Add(30 * time.Minute)) {
		t.Errorf("review should be deletable inside 1h")
	}
	if r.Deletable(created.Add(2 * time.Hour)) {
		t.Errorf("review should not be deletable after 1h")
	}
	// Still editable when no longer deletable.
	if !r.Editable(created.Add(2 * time.Hour)) {
		t.Errorf("delete window closing must not close the edit window")
	}
}

func TestBooking_Released(t *testing.T) {
	b := &Booking{}
	if b.Released() {
		t.Errorf("fresh booking is not released")
	}
	b.TransferID = "tr_1"
	if !b.Released() {
		t.Errorf("transfer id marks the booking released")
	}
	now := time.Now()
	b2 := &Booking{AdminReleasedAt: &now}
	if !b2.Released() {
		t.Errorf("admin_released_at marks the booking released")
	}
}

func TestBooking_Party(t *testing.T) {
	b := &Booking{RenterID: 1, OwnerID: 2}
	if !b.Party(1) || !b.Party(2) {
		t.Errorf("renter and owner are parties")
	}
	if b.Party(3) {
		t.Errorf("third user is not a party")
	}
}

func TestUser_CanReceivePayouts(t *testing.T) {
	u := &User{}
	if u.CanReceivePayouts() {
		t.Errorf("user without account cannot receive payouts")
	}
	u.ConnectAccountID = "acct_1"
	if u.CanReceivePayouts() {
		t.Errorf("account without completed onboarding cannot receive payouts")
	}
	u.OnboardingCompleted = true
	if !u.CanReceivePayouts() {
		t.Errorf("onboarded account can receive payouts")
	}
}
