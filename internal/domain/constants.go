package domain

const (
	RoleRenter = "RENTER"
	RoleOwner  = "OWNER"
	RoleAdmin  = "ADMIN"
)

// Booking lifecycle statuses.
const (
	BookingPending       = "PENDING"
	BookingConfirmed     = "CONFIRMED"
	BookingInProgress    = "IN_PROGRESS"
	BookingReturnPending = "RETURN_PENDING"
	BookingCompleted     = "COMPLETED"
	BookingCancelled     = "CANCELLED"
	BookingDisputed      = "DISPUTED"
)

// Escrow payment states for a booking's funds.
const (
	PaymentAuthorized = "AUTHORIZED"
	PaymentCaptured   = "CAPTURED"
	PaymentVoided     = "VOIDED"
	PaymentReleased   = "RELEASED"
	PaymentRefunded   = "REFUNDED"
)

const (
	DeliveryPickup   = "PICKUP"
	DeliveryDelivery = "DELIVERY"
)

// Fee rates in basis points. ServiceFee is charged to the renter on top of the
// subtotal; Commission is withheld from the owner payout.
const (
	ServiceFeeBps = 1500 // 15%
	CommissionBps = 2000 // 20%
)

// Pricing tier thresholds in rental days.
const (
	WeeklyTierDays  = 7
	MonthlyTierDays = 30
)

// Photo evidence bounds for pickup/return handover.
const (
	MinHandoverPhotos = 3
	MaxHandoverPhotos = 8
)

// Review windows measured from created_at.
const (
	ReviewEditWindowHours   = 24
	ReviewDeleteWindowHours = 1
)

// Notification types.
const (
	NotifBookingRequested = "BOOKING_REQUESTED"
	NotifBookingConfirmed = "BOOKING_CONFIRMED"
	NotifBookingCancelled = "BOOKING_CANCELLED"
	NotifRentalStarted    = "RENTAL_STARTED"
	NotifReturnConfirmed  = "RETURN_CONFIRMED"
	NotifPickupConfirmed  = "PICKUP_CONFIRMED"
	NotifPaymentReleased  = "PAYMENT_RELEASED"
	NotifReviewReceived   = "REVIEW_RECEIVED"
	NotifPointsAwarded    = "POINTS_AWARDED"
	NotifNewMessage       = "NEW_MESSAGE"
	NotifPayoutsEnabled   = "PAYOUTS_ENABLED"
	NotifIdentityVerified = "IDENTITY_VERIFIED"
)

const (
	PointsReasonFirstBooking = "FIRST_BOOKING_BONUS"
)

// Identity verification session statuses.
const (
	IdentityPending  = "PENDING"
	IdentityVerified = "VERIFIED"
	IdentityFailed   = "FAILED"
)
