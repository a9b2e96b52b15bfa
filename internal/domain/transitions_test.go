package domain

import "testing"

func TestCanTransition_AllowedPaths(t *testing.T) {
	allowed := [][2]string{
		{BookingPending, BookingConfirmed},
		{BookingPending, BookingCancelled},
		{BookingConfirmed, BookingInProgress},
		{BookingConfirmed, BookingCancelled},
		{BookingConfirmed, BookingDisputed},
		{BookingInProgress, BookingReturnPending},
		{BookingInProgress, BookingCompleted},
		{BookingReturnPending, BookingCompleted},
		{BookingReturnPending, BookingDisputed},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Errorf("expected %s -> %s to be allowed", pair[0], pair[1])
		}
	}
}

func TestCanTransition_RejectsInvalid(t *testing.T) {
	rejected := [][2]string{
		{BookingPending, BookingInProgress},
		{BookingPending, BookingCompleted},
		{BookingInProgress, BookingCancelled},
		{BookingCompleted, BookingPending},
		{BookingCompleted, BookingInProgress},
		{BookingCancelled, BookingConfirmed},
		{BookingDisputed, BookingCompleted},
	}
	for _, pair := range rejected {
		if CanTransition(pair[0], pair[1]) {
			t.Errorf("expected %s -> %s to be rejected", pair[0], pair[1])
		}
	}
}

func TestCanTransition_CompletedIsTerminal(t *testing.T) {
	for _, to := range []string{
		BookingPending, BookingConfirmed, BookingInProgress,
		BookingReturnPending, BookingCancelled, BookingDisputed,
	} {
		if CanTransition(BookingCompleted, to) {
			t.Errorf("completed booking must not move to %s", to)
		}
	}
}
