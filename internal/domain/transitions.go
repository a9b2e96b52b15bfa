package domain

// bookingGraph lists the allowed status transitions. COMPLETED, CANCELLED and
// DISPUTED are terminal for the lifecycle; payout bookkeeping happens on
// separate columns and never moves the status backwards.
var bookingGraph = map[string][]string{
	BookingPending:       {BookingConfirmed, BookingCancelled},
	BookingConfirmed:     {BookingInProgress, BookingCancelled, BookingDisputed},
	BookingInProgress:    {BookingReturnPending, BookingCompleted, BookingDisputed},
	BookingReturnPending: {BookingCompleted, BookingDisputed},
}

// CanTransition reports whether a booking may move from -> to.
func CanTransition(from, to string) bool {
	for _, next := range bookingGraph[from] {
		if next == to {
			return true
		}
	}
	return false
}
